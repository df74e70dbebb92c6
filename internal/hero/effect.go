package hero

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Frame is what an effect sees while stepping: the target surface, its size,
// the animation clock and the smoothed pointer.
type Frame struct {
	Surface Surface
	Width   float64
	Height  float64
	Time    float64
	Pointer *Pointer
}

// Effect is one animation variant. Populate replaces the whole population;
// Step advances it by one frame and paints it.
type Effect interface {
	Populate(width, height float64, n int)
	Step(f *Frame)
	Len() int
}

// Toucher is implemented by effects that react to the pointer touching a
// particle rather than only to its proximity.
type Toucher interface {
	Touch(x, y float64)
}

// NewEffect builds the effect named by cfg.Effect.
func NewEffect(cfg Config) (Effect, error) {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	switch cfg.Effect {
	case EffectGlow:
		return newGlow(cfg, rng), nil
	case EffectContour:
		return newContour(cfg, rng), nil
	case EffectBounce:
		return newBounce(cfg, rng), nil
	}
	return nil, fmt.Errorf("unknown effect %q", cfg.Effect)
}

// Wrap maps v into [0, size).
func Wrap(v, size float64) float64 {
	if size <= 0 {
		return 0
	}
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	// v+size can round up to size for tiny negative v.
	if v >= size {
		v = 0
	}
	return v
}

// Pulse is an alpha in [0,1] oscillating with the given speed and phase.
func Pulse(t, speed, phase float64) float64 {
	return clamp01(0.5 + 0.5*math.Sin(t*speed+phase))
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
