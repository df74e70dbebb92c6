package hero

import (
	"fmt"
	"image/color"
	"time"
)

// Background is the page color behind the hero sections.
var Background = color.NRGBA{R: 0x0b, G: 0x10, B: 0x1a, A: 0xff}

// Snapshot renders frames frames of cfg into a w×h raster on a simulated
// display clock and returns the raster together with the renderer.
func Snapshot(cfg Config, w, h, frames int) (*Raster, *Renderer, error) {
	if w <= 0 || h <= 0 {
		return nil, nil, fmt.Errorf("snapshot size must be positive, got %dx%d", w, h)
	}
	now := time.Unix(0, 0)
	q := NewFrameQueue(now)
	r, err := New(cfg, q)
	if err != nil {
		return nil, nil, err
	}
	raster := NewRaster(w, h, Background)
	r.Mount(&StaticContainer{Width: w, Height: h, Target: raster})

	step := time.Second / time.Duration(cfg.FrameRate)
	for range frames {
		now = now.Add(step)
		q.Tick(now)
	}
	r.Unmount()
	return raster, r, nil
}
