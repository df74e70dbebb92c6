package hero

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
)

// Raster is a software Surface backed by a gg drawing context. It renders
// server-side snapshots of the hero effects.
type Raster struct {
	img        *image.RGBA
	dc         *gg.Context
	background color.NRGBA
}

// NewRaster returns a w×h raster cleared to bg.
func NewRaster(w, h int, bg color.NRGBA) *Raster {
	r := &Raster{background: bg}
	r.Resize(w, h)
	return r
}

func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) Resize(w, h int) {
	r.img = image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	r.dc = gg.NewContextForRGBA(r.img)
	r.Clear()
}

func (r *Raster) Clear() {
	r.dc.SetColor(r.background)
	r.dc.Clear()
}

func (r *Raster) FillCircle(x, y, rad float64, c color.NRGBA) {
	if rad <= 0 || c.A == 0 {
		return
	}
	r.dc.SetColor(c)
	r.dc.DrawCircle(x, y, rad)
	r.dc.Fill()
}

func (r *Raster) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	if width <= 0 || c.A == 0 {
		return
	}
	r.dc.SetColor(c)
	r.dc.SetLineWidth(width)
	r.dc.DrawLine(x0, y0, x1, y1)
	r.dc.Stroke()
}

// Image returns the backing image.
func (r *Raster) Image() *image.RGBA { return r.img }

// EncodePNG writes the current pixels as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}

// StaticContainer is a Container with a fixed box, for offscreen rendering.
type StaticContainer struct {
	Width, Height int
	Target        Surface
}

func (c *StaticContainer) Bounds() (int, int, bool) {
	return c.Width, c.Height, c.Target != nil
}

func (c *StaticContainer) Surface() (Surface, bool) {
	return c.Target, c.Target != nil
}
