package hero

import (
	"image/color"
	"math"
	"math/rand/v2"
)

// Sample is one point of a contour line. BaseY is the line's rest height;
// the wave and pointer offsets are applied only when painting.
type Sample struct {
	X, BaseY float64
}

type contourLine struct {
	samples []Sample
	phase   float64
	color   color.NRGBA
}

type contour struct {
	cfg   Config
	rng   *rand.Rand
	lines []contourLine
	n     int
}

func newContour(cfg Config, rng *rand.Rand) *contour {
	return &contour{cfg: cfg, rng: rng}
}

// Populate spreads n samples over roughly square-spaced horizontal lines.
func (c *contour) Populate(w, h float64, n int) {
	c.lines = nil
	c.n = n
	if n <= 0 {
		return
	}
	count := int(math.Sqrt(float64(n) * h / w))
	count = max(1, min(count, n))

	c.lines = make([]contourLine, count)
	for i := range c.lines {
		// Lines near the top get one extra sample when n is not divisible.
		m := n / count
		if i < n%count {
			m++
		}
		ln := &c.lines[i]
		ln.phase = c.rng.Float64() * 2 * math.Pi
		ln.color = hsl(c.cfg.Contour.Hue+float64(i)*6, 0.55, 0.55)
		ln.samples = make([]Sample, m)
		base := (float64(i) + 0.5) * h / float64(count)
		for j := range ln.samples {
			ln.samples[j] = Sample{X: Wrap(float64(j)*w/float64(m), w), BaseY: base}
		}
	}
}

func (c *contour) Len() int { return c.n }

func (c *contour) Step(f *Frame) {
	cc := c.cfg.Contour
	for li := range c.lines {
		ln := &c.lines[li]
		a := 0.25 + 0.4*Pulse(f.Time, 0.8, ln.phase)
		col := withAlpha(ln.color, a)

		var px, py, fx, fy float64
		for j := range ln.samples {
			s := &ln.samples[j]
			s.X = Wrap(s.X+cc.Drift, f.Width)

			y := s.BaseY + cc.Amplitude*math.Sin(s.X*cc.Frequency+f.Time*cc.Speed+ln.phase)
			dx, dy := f.Pointer.Push(s.X, y, c.cfg.InfluenceRadius, c.cfg.InfluenceStrength)
			x, y := s.X+dx, y+dy

			// Consecutive samples more than half a width apart straddle the
			// wrap seam and are not joined.
			if j > 0 && math.Abs(x-px) < f.Width/2 {
				f.Surface.StrokeLine(px, py, x, y, cc.LineWidth, col)
			}
			if j == 0 {
				fx, fy = x, y
			}
			px, py = x, y
		}
		// Close the ring between the last and first sample.
		if len(ln.samples) > 2 && math.Abs(fx-px) < f.Width/2 {
			f.Surface.StrokeLine(px, py, fx, fy, cc.LineWidth, col)
		}
	}
}
