// Package webhost runs hero renderers on the page's own canvas elements from
// Go compiled to WebAssembly. Each section canvas is a Container whose 2-D
// context is the Surface; requestAnimationFrame ticks one shared FrameQueue.
package webhost

import (
	"fmt"
	"image/color"
	"strconv"
)

// cssColor formats c for a canvas fillStyle or strokeStyle.
func cssColor(c color.NRGBA) string {
	a := strconv.FormatFloat(float64(c.A)/255, 'f', 3, 64)
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, a)
}
