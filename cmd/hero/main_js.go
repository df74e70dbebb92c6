//go:build js && wasm

package main

import (
	"log"
	"time"

	"github.com/prakash023/portfolio/internal/hero"
	"github.com/prakash023/portfolio/internal/hero/webhost"
)

func main() {
	q := hero.NewFrameQueue(time.Now())
	_, slots, err := loadSlots(q)
	if err != nil {
		log.Fatalf("Failed to start hero: %v", err)
	}

	var canvases []webhost.Slot
	for _, s := range slots {
		canvases = append(canvases, webhost.Slot{Element: s.cfg.Element, Renderer: s.renderer})
	}

	page := webhost.NewPage(q, canvases...)
	page.Start()
	log.Printf("hero: animating %d slots", len(canvases))
	select {}
}
