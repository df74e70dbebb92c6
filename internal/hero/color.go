package hero

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// hsl converts hue in degrees and saturation/lightness in [0,1] to an opaque
// color.
func hsl(h, s, l float64) color.NRGBA {
	r, g, b := colorful.Hsl(Wrap(h, 360), s, l).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}
