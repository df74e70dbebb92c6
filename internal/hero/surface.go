// Package hero implements the decorative canvas animations of the portfolio
// hero sections. A Renderer owns a Surface sized to its Container and repaints
// it once per display frame through a Scheduler, so the same simulation runs in
// an ebiten window, in the browser through WASM, or into a PNG snapshot.
package hero

import "image/color"

// Surface is the pixel-addressable target a renderer paints into.
type Surface interface {
	Size() (width, height int)
	Resize(width, height int)
	Clear()
	FillCircle(x, y, r float64, c color.NRGBA)
	StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA)
}

// Container is the laid-out region a renderer is mounted into.
type Container interface {
	// Bounds reports the measured pixel box. ok is false while the
	// container is not attached to the document.
	Bounds() (width, height int, ok bool)
	// Surface locates or creates the drawing surface. ok is false when no
	// rendering context can be acquired yet.
	Surface() (s Surface, ok bool)
}

// withAlpha scales the alpha channel of c by a in [0,1].
func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(clamp01(a)*float64(c.A) + 0.5)
	return c
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
