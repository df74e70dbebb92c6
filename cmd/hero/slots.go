// Command hero runs the portfolio hero animations. On the desktop it opens a
// window with every slot side by side. Built with GOOS=js GOARCH=wasm it binds
// each slot to its canvas on the page; the server serves that binary from
// /static/hero.wasm.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/prakash023/portfolio/internal/config"
	"github.com/prakash023/portfolio/internal/hero"
)

type slotRenderer struct {
	cfg      config.SlotConfig
	renderer *hero.Renderer
}

// loadSlots builds one renderer per configured slot, all scheduled on q.
func loadSlots(q hero.Scheduler) (*config.Config, []slotRenderer, error) {
	cfg, err := config.Load(os.Getenv("PORTFOLIO_CONFIG"))
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	var slots []slotRenderer
	for _, sc := range cfg.Hero.Slots {
		r, err := hero.New(sc.Renderer(), q, hero.WithLogger(log.Default()))
		if err != nil {
			return nil, nil, fmt.Errorf("create %s renderer: %w", sc.Name, err)
		}
		slots = append(slots, slotRenderer{cfg: sc, renderer: r})
	}
	return cfg, slots, nil
}
