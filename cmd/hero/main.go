//go:build !js

package main

import (
	"log"
	"time"

	"github.com/prakash023/portfolio/internal/hero"
	"github.com/prakash023/portfolio/internal/hero/ebitenhost"
)

func main() {
	q := hero.NewFrameQueue(time.Now())
	cfg, slots, err := loadSlots(q)
	if err != nil {
		log.Fatalf("Failed to start hero: %v", err)
	}

	var windows []*ebitenhost.Slot
	for _, s := range slots {
		windows = append(windows, &ebitenhost.Slot{Name: s.cfg.Name, Renderer: s.renderer, Weight: s.cfg.Weight})
	}

	g := ebitenhost.NewGame(q, windows...)
	if err := ebitenhost.Run(cfg.Site.Title, 1280, 720, g); err != nil {
		log.Fatal(err)
	}
}
