package hero

import "math"

// Pointer tracks the smoothed pointer used for proximity effects. The
// effective position and influence weight chase their targets by Damping per
// frame, which gives the lagging "rubber" feel.
type Pointer struct {
	X, Y             float64
	TargetX, TargetY float64
	Weight           float64
	TargetWeight     float64
	Damping          float64
}

// MoveTo sets the target position in surface-local coordinates.
func (p *Pointer) MoveTo(x, y float64) {
	p.TargetX, p.TargetY = x, y
	p.TargetWeight = 1
}

// Leave drops the target influence to zero. The position is kept so the
// distortion fades out where the pointer left instead of sweeping away.
func (p *Pointer) Leave() {
	p.TargetWeight = 0
}

// Step moves the effective state toward the target by one frame.
func (p *Pointer) Step() {
	d := p.Damping
	p.X += (p.TargetX - p.X) * d
	p.Y += (p.TargetY - p.Y) * d
	p.Weight += (p.TargetWeight - p.Weight) * d
}

// Residual is the distance from the effective position to the target.
func (p *Pointer) Residual() float64 {
	return math.Hypot(p.TargetX-p.X, p.TargetY-p.Y)
}

// Push returns the displacement applied to a point at (x, y): directed away
// from the pointer with magnitude strength*weight*exp(-d/radius).
func (p *Pointer) Push(x, y, radius, strength float64) (dx, dy float64) {
	if p.Weight <= 0 || radius <= 0 {
		return 0, 0
	}
	vx, vy := x-p.X, y-p.Y
	d := math.Hypot(vx, vy)
	if d == 0 {
		return 0, 0
	}
	f := strength * p.Weight * math.Exp(-d/radius)
	return vx / d * f, vy / d * f
}
