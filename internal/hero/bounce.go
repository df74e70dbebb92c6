package hero

import (
	"image/color"
	"math"
	"math/rand/v2"
)

// Ball bounces inside the surface until the pointer touches it.
type Ball struct {
	X, Y   float64
	VX, VY float64
	Radius float64
	Color  color.NRGBA
}

// Spark is a short-lived burst particle. Alpha fades linearly with Life.
type Spark struct {
	X, Y    float64
	VX, VY  float64
	Size    float64
	Life    int
	MaxLife int
	Gravity float64
	Color   color.NRGBA
}

type bounce struct {
	cfg    Config
	rng    *rand.Rand
	w, h   float64
	balls  []Ball
	sparks []Spark

	// respawn holds frames left until each replacement ball appears.
	respawn []int
}

func newBounce(cfg Config, rng *rand.Rand) *bounce {
	return &bounce{cfg: cfg, rng: rng}
}

func (b *bounce) Populate(w, h float64, n int) {
	b.w, b.h = w, h
	b.balls = make([]Ball, 0, n)
	b.sparks = b.sparks[:0]
	b.respawn = b.respawn[:0]
	for range n {
		b.balls = append(b.balls, b.newBall())
	}
}

// newBall places a ball fully inside the surface. Radii are capped at a
// quarter of the short side so a ball always fits between two walls.
func (b *bounce) newBall() Ball {
	bc := b.cfg.Bounce
	r := min(between(b.rng, bc.MinRadius, bc.MaxRadius), min(b.w, b.h)/4)
	return Ball{
		X:      between(b.rng, r, b.w-r),
		Y:      between(b.rng, r, b.h-r),
		VX:     between(b.rng, -bc.MaxSpeed, bc.MaxSpeed),
		VY:     between(b.rng, -bc.MaxSpeed, bc.MaxSpeed),
		Radius: r,
		Color:  hsl(b.rng.Float64()*360, 0.7, 0.6),
	}
}

// Len counts live balls; sparks are transient decoration.
func (b *bounce) Len() int { return len(b.balls) }

// Touch explodes every ball whose radius contains (x, y).
func (b *bounce) Touch(x, y float64) {
	kept := b.balls[:0]
	for _, ball := range b.balls {
		if math.Hypot(x-ball.X, y-ball.Y) <= ball.Radius {
			b.explode(ball)
			b.respawn = append(b.respawn, b.cfg.frames(b.cfg.Bounce.RespawnDelay))
			continue
		}
		kept = append(kept, ball)
	}
	b.balls = kept
}

func (b *bounce) explode(ball Ball) {
	bc := b.cfg.Bounce
	half := bc.SparkSpeed / 2
	for range bc.BurstSize {
		b.sparks = append(b.sparks, Spark{
			X:       ball.X,
			Y:       ball.Y,
			VX:      between(b.rng, -half, half),
			VY:      between(b.rng, -half, half),
			Size:    between(b.rng, bc.SparkMinSize, bc.SparkMaxSize),
			Life:    bc.SparkLife,
			MaxLife: bc.SparkLife,
			Gravity: bc.Gravity,
			Color:   ball.Color,
		})
	}
}

// reflect flips v when the ball's leading edge is past a wall and v still
// points outward, so a ball that overshoots flips once and not every frame.
func reflect(pos, v, r, size float64) float64 {
	if (pos+r > size && v > 0) || (pos-r < 0 && v < 0) {
		return -v
	}
	return v
}

func (b *bounce) Step(f *Frame) {
	b.w, b.h = f.Width, f.Height

	pending := b.respawn[:0]
	for _, left := range b.respawn {
		if left--; left <= 0 {
			b.balls = append(b.balls, b.newBall())
			continue
		}
		pending = append(pending, left)
	}
	b.respawn = pending

	for i := range b.balls {
		ball := &b.balls[i]
		ball.X += ball.VX
		ball.Y += ball.VY
		ball.VX = reflect(ball.X, ball.VX, ball.Radius, f.Width)
		ball.VY = reflect(ball.Y, ball.VY, ball.Radius, f.Height)

		f.Surface.FillCircle(ball.X, ball.Y, ball.Radius*1.4, withAlpha(ball.Color, 0.2))
		f.Surface.FillCircle(ball.X, ball.Y, ball.Radius, ball.Color)
	}

	live := b.sparks[:0]
	for _, s := range b.sparks {
		if s.Life <= 0 {
			continue
		}
		s.VY += s.Gravity
		s.X += s.VX
		s.Y += s.VY
		s.Life--
		f.Surface.FillCircle(s.X, s.Y, s.Size, withAlpha(s.Color, float64(s.Life)/float64(s.MaxLife)))
		if s.Life > 0 {
			live = append(live, s)
		}
	}
	b.sparks = live
}
