package hero

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
)

func TestRasterFillCircle(t *testing.T) {
	r := NewRaster(20, 20, color.NRGBA{A: 0xff})
	r.FillCircle(10, 10, 4, color.NRGBA{R: 0xff, A: 0xff})

	img := r.Image()
	if c := img.RGBAAt(10, 10); c.R != 0xff {
		t.Errorf("expected center painted, got %v", c)
	}
	if c := img.RGBAAt(1, 1); c.R != 0 {
		t.Errorf("expected corner untouched, got %v", c)
	}

	r.Clear()
	if c := img.RGBAAt(10, 10); c.R != 0 {
		t.Errorf("expected clear to restore background, got %v", c)
	}
}

func TestRasterBlendsAlpha(t *testing.T) {
	r := NewRaster(4, 4, color.NRGBA{A: 0xff})
	r.FillCircle(2, 2, 3, color.NRGBA{G: 200, A: 128})
	if c := r.Image().RGBAAt(2, 2); c.G < 95 || c.G > 105 {
		t.Errorf("expected half-blended green, got %v", c)
	}
}

func TestRasterStrokeLine(t *testing.T) {
	r := NewRaster(30, 10, color.NRGBA{A: 0xff})
	// A one pixel line along a row's center covers that row only.
	r.StrokeLine(2, 5.5, 27, 5.5, 1, color.NRGBA{B: 0xff, A: 0xff})
	img := r.Image()
	for _, x := range []int{3, 15, 26} {
		if c := img.RGBAAt(x, 5); c.B < 0xf0 {
			t.Errorf("expected line pixel at (%d,5), got %v", x, c)
		}
	}
	if c := img.RGBAAt(15, 0); c.B != 0 {
		t.Errorf("expected pixel off the line untouched, got %v", c)
	}
}

func TestRasterClipsOutOfBounds(t *testing.T) {
	r := NewRaster(10, 10, color.NRGBA{A: 0xff})
	r.FillCircle(-50, -50, 5, color.NRGBA{R: 0xff, A: 0xff})
	r.FillCircle(9, 9, 40, color.NRGBA{R: 0xff, A: 0xff})
	r.StrokeLine(-5, -5, 50, 50, 3, color.NRGBA{R: 0xff, A: 0xff})
	if c := r.Image().RGBAAt(9, 9); c.R != 0xff {
		t.Errorf("expected covered pixel painted, got %v", c)
	}
}

func TestSnapshot(t *testing.T) {
	cfg := DefaultConfig(EffectGlow)
	raster, r, err := Snapshot(cfg, 800, 400, 10)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if r.Count() != 21 {
		t.Errorf("expected 21 particles, got %d", r.Count())
	}
	if r.Frames() != 10 {
		t.Errorf("expected 10 frames, got %d", r.Frames())
	}
	if r.Mounted() {
		t.Error("expected snapshot renderer to be unmounted")
	}

	var buf bytes.Buffer
	if err := raster.EncodePNG(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 400 {
		t.Errorf("expected 800x400 image, got %v", b)
	}
}

func TestSnapshotRejectsEmptySize(t *testing.T) {
	if _, _, err := Snapshot(DefaultConfig(EffectBounce), 0, 10, 1); err == nil {
		t.Error("expected error for zero width")
	}
}
