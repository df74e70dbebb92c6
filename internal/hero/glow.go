package hero

import (
	"image/color"
	"math"
	"math/rand/v2"
)

// Mote is a single drifting glow particle.
type Mote struct {
	X, Y   float64
	VX, VY float64
	Radius float64
	Phase  float64
	Speed  float64
	Color  color.NRGBA
}

type glow struct {
	cfg   Config
	rng   *rand.Rand
	motes []Mote
}

func newGlow(cfg Config, rng *rand.Rand) *glow {
	return &glow{cfg: cfg, rng: rng}
}

func (g *glow) Populate(w, h float64, n int) {
	gc := g.cfg.Glow
	g.motes = make([]Mote, n)
	for i := range g.motes {
		g.motes[i] = Mote{
			X:      Wrap(g.rng.Float64()*w, w),
			Y:      Wrap(g.rng.Float64()*h, h),
			VX:     between(g.rng, -gc.MaxSpeed, gc.MaxSpeed),
			VY:     between(g.rng, -gc.MaxSpeed, gc.MaxSpeed),
			Radius: between(g.rng, gc.MinRadius, gc.MaxRadius),
			Phase:  g.rng.Float64() * 2 * math.Pi,
			Speed:  between(g.rng, gc.MinPulse, gc.MaxPulse),
			Color:  hsl(gc.Hue+between(g.rng, -gc.HueSpread, gc.HueSpread), 0.8, 0.65),
		}
	}
}

func (g *glow) Len() int { return len(g.motes) }

func (g *glow) Step(f *Frame) {
	for i := range g.motes {
		m := &g.motes[i]
		m.X = Wrap(m.X+m.VX, f.Width)
		m.Y = Wrap(m.Y+m.VY, f.Height)

		a := Pulse(f.Time, m.Speed, m.Phase)
		dx, dy := f.Pointer.Push(m.X, m.Y, g.cfg.InfluenceRadius, g.cfg.InfluenceStrength)
		x, y := m.X+dx, m.Y+dy

		// Soft halo under a bright core.
		f.Surface.FillCircle(x, y, m.Radius*3, withAlpha(m.Color, a*0.15))
		f.Surface.FillCircle(x, y, m.Radius, withAlpha(m.Color, a))
	}
}
