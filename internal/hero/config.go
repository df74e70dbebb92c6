package hero

import (
	"fmt"
	"math"
	"time"
)

// Effect names accepted by Config.Effect.
const (
	EffectGlow    = "glow"
	EffectContour = "contour"
	EffectBounce  = "bounce"
)

// Config tunes one renderer instance.
type Config struct {
	Effect string

	// Density is the pixel area per particle: count = floor(w*h/Density).
	Density float64

	Damping           float64
	InfluenceRadius   float64
	InfluenceStrength float64

	// TimeStep advances the animation clock once per rendered frame.
	TimeStep float64

	RetryDelay   time.Duration
	MaxRetries   int
	ResizeSettle time.Duration
	FrameRate    int

	Seed uint64

	Glow    GlowConfig
	Contour ContourConfig
	Bounce  BounceConfig
}

type GlowConfig struct {
	MinRadius, MaxRadius float64
	MaxSpeed             float64
	MinPulse, MaxPulse   float64
	Hue                  float64
	HueSpread            float64
}

type ContourConfig struct {
	Amplitude float64
	Frequency float64
	Speed     float64
	Drift     float64
	LineWidth float64
	Hue       float64
}

type BounceConfig struct {
	MinRadius, MaxRadius float64
	MaxSpeed             float64
	BurstSize            int
	SparkLife            int
	SparkSpeed           float64
	SparkMinSize         float64
	SparkMaxSize         float64
	Gravity              float64
	RespawnDelay         time.Duration
}

// DefaultConfig returns the tuned parameters for the named effect.
func DefaultConfig(effect string) Config {
	cfg := Config{
		Effect:            effect,
		Damping:           0.08,
		InfluenceRadius:   120,
		InfluenceStrength: 40,
		TimeStep:          0.016,
		RetryDelay:        500 * time.Millisecond,
		MaxRetries:        20,
		ResizeSettle:      200 * time.Millisecond,
		FrameRate:         60,
		Seed:              1,
		Glow: GlowConfig{
			MinRadius: 1.5,
			MaxRadius: 4,
			MaxSpeed:  0.4,
			MinPulse:  1,
			MaxPulse:  3,
			Hue:       190,
			HueSpread: 40,
		},
		Contour: ContourConfig{
			Amplitude: 14,
			Frequency: 0.012,
			Speed:     1.2,
			Drift:     0.3,
			LineWidth: 1,
			Hue:       150,
		},
		Bounce: BounceConfig{
			MinRadius:    12,
			MaxRadius:    20,
			MaxSpeed:     1.5,
			BurstSize:    20,
			SparkLife:    70,
			SparkSpeed:   6,
			SparkMinSize: 2,
			SparkMaxSize: 5,
			Gravity:      0.12,
			RespawnDelay: 300 * time.Millisecond,
		},
	}
	switch effect {
	case EffectContour:
		cfg.Density = 9000
	case EffectBounce:
		cfg.Density = 16000
	default:
		cfg.Density = 15000
	}
	return cfg
}

// Validate reports configuration values the renderer cannot work with.
func (c Config) Validate() error {
	switch c.Effect {
	case EffectGlow, EffectContour, EffectBounce:
	default:
		return fmt.Errorf("unknown effect %q", c.Effect)
	}
	if c.Density <= 0 {
		return fmt.Errorf("density must be positive, got %v", c.Density)
	}
	if c.Damping <= 0 || c.Damping > 1 {
		return fmt.Errorf("damping must be in (0,1], got %v", c.Damping)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %d", c.FrameRate)
	}
	if c.Effect == EffectBounce && c.Bounce.BurstSize < 0 {
		return fmt.Errorf("burst size must not be negative, got %d", c.Bounce.BurstSize)
	}
	return nil
}

// Count is the population for a surface of w×h pixels.
func (c Config) Count(w, h int) int {
	if w <= 0 || h <= 0 || c.Density <= 0 {
		return 0
	}
	return int(math.Floor(float64(w) * float64(h) / c.Density))
}

// frames converts d to a whole number of frames at the configured rate,
// never less than one.
func (c Config) frames(d time.Duration) int {
	n := int(math.Ceil(d.Seconds()*float64(c.FrameRate) - 1e-9))
	if n < 1 {
		n = 1
	}
	return n
}
