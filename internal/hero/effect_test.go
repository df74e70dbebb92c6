package hero

import (
	"image/color"
	"math"
	"math/rand/v2"
	"testing"
	"time"
)

func TestPointerConverges(t *testing.T) {
	for _, damping := range []float64{0.05, 0.08, 0.2} {
		p := Pointer{Damping: damping}
		p.MoveTo(640, 360)

		start := p.Residual()
		bound := int(math.Ceil(math.Log(0.01) / math.Log(1-damping)))
		prev := start
		converged := -1
		for frame := 1; frame <= bound; frame++ {
			p.Step()
			d := p.Residual()
			if d >= prev {
				t.Fatalf("damping %v: residual did not decrease at frame %d (%v >= %v)", damping, frame, d, prev)
			}
			prev = d
			if converged < 0 && d < start*0.01 {
				converged = frame
			}
		}
		if converged < 0 {
			t.Errorf("damping %v: residual %v still above 1%% after %d frames", damping, prev, bound)
		}
	}
}

func TestPointerConvergesWithinFiftySixFramesAtDefaultDamping(t *testing.T) {
	p := Pointer{Damping: DefaultConfig(EffectGlow).Damping}
	p.MoveTo(100, 0)
	for range 56 {
		p.Step()
	}
	if p.Residual() >= 1 {
		t.Errorf("expected residual below 1%% of 100px, got %v", p.Residual())
	}
}

func TestPointerLeaveFadesInfluence(t *testing.T) {
	p := Pointer{Damping: 0.1}
	p.MoveTo(50, 50)
	for range 100 {
		p.Step()
	}
	dx, _ := p.Push(60, 50, 100, 10)
	if dx <= 0 {
		t.Fatalf("expected push away from the pointer, got %v", dx)
	}

	p.Leave()
	prev := p.Weight
	for range 10 {
		p.Step()
		if p.Weight >= prev {
			t.Fatalf("expected weight to decay, got %v after %v", p.Weight, prev)
		}
		prev = p.Weight
	}
	if math.Abs(p.X-50) > 1 || math.Abs(p.Y-50) > 1 {
		t.Errorf("expected pointer to stay at its last target, got (%v, %v)", p.X, p.Y)
	}
}

func TestPushFallsOffExponentially(t *testing.T) {
	p := Pointer{Weight: 1}
	near, _ := p.Push(10, 0, 50, 20)
	far, _ := p.Push(100, 0, 50, 20)
	if want := 20 * math.Exp(-10.0/50); math.Abs(near-want) > 1e-9 {
		t.Errorf("expected near push %v, got %v", want, near)
	}
	if want := 20 * math.Exp(-100.0/50); math.Abs(far-want) > 1e-9 {
		t.Errorf("expected far push %v, got %v", want, far)
	}
	if dx, dy := p.Push(0, 0, 50, 20); dx != 0 || dy != 0 {
		t.Errorf("expected no push at the pointer itself, got (%v, %v)", dx, dy)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		v, size, want float64
	}{
		{5, 10, 5},
		{10, 10, 0},
		{12.5, 10, 2.5},
		{-1, 10, 9},
		{-10, 10, 0},
		{-1e-18, 10, 0},
		{3, 0, 0},
	}
	for _, tt := range tests {
		if got := Wrap(tt.v, tt.size); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Wrap(%v, %v) = %v, want %v", tt.v, tt.size, got, tt.want)
		}
	}
}

func TestPulseStaysInUnitRange(t *testing.T) {
	for i := range 10000 {
		tm := float64(i) * 0.37
		a := Pulse(tm, 1+float64(i%7)*0.3, float64(i%13))
		if a < 0 || a > 1 {
			t.Fatalf("pulse %v out of range at t=%v", a, tm)
		}
	}
}

func TestGlowWrapsWithinSurface(t *testing.T) {
	cfg := DefaultConfig(EffectGlow)
	cfg.Glow.MaxSpeed = 9
	c := newClock()
	r := mustRenderer(t, cfg, c.q)
	r.Mount(&box{w: 320, h: 240, attached: true, surface: &recordingSurface{}})
	r.PointerMove(160, 120)

	g := r.effect.(*glow)
	for frame := range 600 {
		r.RenderFrame()
		for i, m := range g.motes {
			if m.X < 0 || m.X >= 320 || m.Y < 0 || m.Y >= 240 {
				t.Fatalf("frame %d: mote %d escaped to (%v, %v)", frame, i, m.X, m.Y)
			}
		}
	}
}

func TestContourWrapsWithinSurface(t *testing.T) {
	cfg := DefaultConfig(EffectContour)
	cfg.Contour.Drift = 7.5
	c := newClock()
	r := mustRenderer(t, cfg, c.q)
	surf := &recordingSurface{}
	r.Mount(&box{w: 500, h: 300, attached: true, surface: surf})

	ct := r.effect.(*contour)
	for frame := range 400 {
		r.RenderFrame()
		n := 0
		for _, ln := range ct.lines {
			for _, s := range ln.samples {
				n++
				if s.X < 0 || s.X >= 500 || s.BaseY < 0 || s.BaseY >= 300 {
					t.Fatalf("frame %d: sample escaped to (%v, %v)", frame, s.X, s.BaseY)
				}
			}
		}
		if n != cfg.Count(500, 300) {
			t.Fatalf("expected %d samples, got %d", cfg.Count(500, 300), n)
		}
	}
	if surf.lines == 0 {
		t.Error("expected contour lines to be stroked")
	}
}

func TestWithAlphaClamps(t *testing.T) {
	c := color.NRGBA{R: 10, G: 20, B: 30, A: 200}
	tests := []struct {
		a    float64
		want uint8
	}{
		{-0.5, 0},
		{0, 0},
		{0.5, 100},
		{1, 200},
		{1.7, 200},
	}
	for _, tt := range tests {
		got := withAlpha(c, tt.a)
		if got.A != tt.want || got.R != c.R || got.G != c.G || got.B != c.B {
			t.Errorf("withAlpha(%v) = %v, want alpha %d", tt.a, got, tt.want)
		}
	}
}

func TestReflectFlipsOncePerCrossing(t *testing.T) {
	const size, radius = 100.0, 10.0

	// Leading edge still inside: no flip.
	if v := reflect(89, 2, radius, size); v != 2 {
		t.Errorf("expected no flip inside, got %v", v)
	}
	// Leading edge crosses the right wall moving right: flip.
	if v := reflect(91, 2, radius, size); v != -2 {
		t.Errorf("expected flip at right wall, got %v", v)
	}
	// Still past the wall but already moving back: no second flip.
	if v := reflect(91, -2, radius, size); v != -2 {
		t.Errorf("expected no second flip, got %v", v)
	}
	// Left wall.
	if v := reflect(9, -3, radius, size); v != 3 {
		t.Errorf("expected flip at left wall, got %v", v)
	}
	if v := reflect(9, 3, radius, size); v != 3 {
		t.Errorf("expected no second flip at left wall, got %v", v)
	}
}

func TestBallSignFlipsOnlyOnCrossing(t *testing.T) {
	cfg := DefaultConfig(EffectBounce)
	b := newBounce(cfg, nil)
	b.w, b.h = 200, 200
	b.balls = []Ball{{X: 150, Y: 100, VX: 3, VY: 0, Radius: 20, Color: color.NRGBA{A: 0xff}}}

	surf := &recordingSurface{w: 200, h: 200}
	flips := 0
	for range 200 {
		before := b.balls[0].VX
		b.Step(&Frame{Surface: surf, Width: 200, Height: 200, Pointer: &Pointer{}})
		ball := b.balls[0]
		if ball.VX != before {
			flips++
			crossed := (before > 0 && ball.X+ball.Radius > 200) || (before < 0 && ball.X-ball.Radius < 0)
			if !crossed {
				t.Fatalf("velocity flipped at x=%v without crossing a wall", ball.X)
			}
		}
	}
	if flips == 0 {
		t.Error("expected the ball to bounce")
	}
}

func TestBallsFitShortSurfaces(t *testing.T) {
	cfg := DefaultConfig(EffectBounce)
	b := newBounce(cfg, rand.New(rand.NewPCG(1, 2)))
	b.Populate(30, 30, 4)

	for i, ball := range b.balls {
		if ball.Radius > 7.5 {
			t.Errorf("ball %d radius %v does not fit a 30x30 surface", i, ball.Radius)
		}
		if ball.X < ball.Radius || ball.X > 30-ball.Radius || ball.Y < ball.Radius || ball.Y > 30-ball.Radius {
			t.Errorf("ball %d starts outside the walls at (%v, %v)", i, ball.X, ball.Y)
		}
	}

	surf := &recordingSurface{w: 30, h: 30}
	for frame := range 10 {
		before := make([]float64, len(b.balls))
		for i := range b.balls {
			before[i] = b.balls[i].VX
		}
		b.Step(&Frame{Surface: surf, Width: 30, Height: 30, Pointer: &Pointer{}})
		for i, ball := range b.balls {
			if ball.VX == before[i] {
				continue
			}
			crossed := (before[i] > 0 && ball.X+ball.Radius > 30) || (before[i] < 0 && ball.X-ball.Radius < 0)
			if !crossed {
				t.Fatalf("frame %d: ball %d flipped at x=%v without crossing a wall", frame, i, ball.X)
			}
		}
	}
}

func TestTouchExplodesBall(t *testing.T) {
	cfg := DefaultConfig(EffectBounce)
	c := newClock()
	r := mustRenderer(t, cfg, c.q)
	r.Mount(&box{w: 800, h: 600, attached: true, surface: &recordingSurface{}})

	b := r.effect.(*bounce)
	before := len(b.balls)
	target := b.balls[0]
	red := color.NRGBA{R: 0xff, A: 0xff}
	b.balls[0].Color = red
	target.Color = red
	// Keep other balls away from the touch point.
	for i := 1; i < len(b.balls); i++ {
		b.balls[i].X, b.balls[i].Y = -1000, -1000
	}

	r.PointerMove(target.X+target.Radius/2, target.Y)

	if got := len(b.balls); got != before-1 {
		t.Fatalf("expected ball removed in the same tick, %d -> %d", before, got)
	}
	if got := len(b.sparks); got != cfg.Bounce.BurstSize {
		t.Fatalf("expected %d sparks, got %d", cfg.Bounce.BurstSize, got)
	}
	for i, s := range b.sparks {
		if s.X != target.X || s.Y != target.Y {
			t.Errorf("spark %d starts at (%v, %v), want (%v, %v)", i, s.X, s.Y, target.X, target.Y)
		}
		if s.Life != cfg.Bounce.SparkLife || s.MaxLife != cfg.Bounce.SparkLife {
			t.Errorf("spark %d life %d/%d, want %d", i, s.Life, s.MaxLife, cfg.Bounce.SparkLife)
		}
		if s.Color != red {
			t.Errorf("spark %d color %v, want %v", i, s.Color, red)
		}
	}
}

func TestTouchMissLeavesBalls(t *testing.T) {
	cfg := DefaultConfig(EffectBounce)
	b := newBounce(cfg, nil)
	b.balls = []Ball{{X: 100, Y: 100, Radius: 10}}
	b.Touch(111, 100)
	if len(b.balls) != 1 || len(b.sparks) != 0 {
		t.Errorf("expected miss, got %d balls %d sparks", len(b.balls), len(b.sparks))
	}
}

func TestExplodedBallRespawns(t *testing.T) {
	cfg := DefaultConfig(EffectBounce)
	c := newClock()
	r := mustRenderer(t, cfg, c.q)
	r.Mount(&box{w: 800, h: 600, attached: true, surface: &recordingSurface{}})

	b := r.effect.(*bounce)
	before := len(b.balls)
	target := b.balls[0]
	for i := 1; i < len(b.balls); i++ {
		b.balls[i].X, b.balls[i].Y = -1000, -1000
	}
	r.PointerMove(target.X, target.Y)

	delay := cfg.frames(cfg.Bounce.RespawnDelay)
	if delay != 18 {
		t.Fatalf("expected 300ms to be 18 frames at 60fps, got %d", delay)
	}
	for range delay - 1 {
		r.RenderFrame()
	}
	if len(b.balls) != before-1 {
		t.Fatalf("expected replacement to wait %d frames", delay)
	}
	r.RenderFrame()
	if len(b.balls) != before {
		t.Errorf("expected replacement ball, got %d of %d", len(b.balls), before)
	}
}

func TestSparksFadeLinearly(t *testing.T) {
	cfg := DefaultConfig(EffectBounce)
	b := newBounce(cfg, nil)
	b.sparks = []Spark{{X: 50, Y: 50, VX: 1, Life: 4, MaxLife: 4, Gravity: 0.12, Color: color.NRGBA{A: 0xff}}}
	surf := &recordingSurface{w: 100, h: 100}
	frame := &Frame{Surface: surf, Width: 100, Height: 100, Pointer: &Pointer{}}

	want := []uint8{191, 128, 64}
	for i, a := range want {
		surf.Clear()
		b.Step(frame)
		if len(surf.alphas) != 1 || surf.alphas[0] != a {
			t.Fatalf("frame %d: expected alpha %d, got %v", i, a, surf.alphas)
		}
	}
	if vy := b.sparks[0].VY; math.Abs(vy-0.36) > 1e-9 {
		t.Errorf("expected gravity to accumulate to 0.36, got %v", vy)
	}
	b.Step(frame)
	if len(b.sparks) != 0 {
		t.Errorf("expected spark removed at end of life, got %d", len(b.sparks))
	}
}

func TestFrameQueueOrdersTimersAndFrames(t *testing.T) {
	now := time.Unix(0, 0)
	q := NewFrameQueue(now)
	var got []string
	q.After(20*time.Millisecond, func() { got = append(got, "late") })
	q.After(10*time.Millisecond, func() { got = append(got, "early") })
	q.RequestFrame(func() {
		got = append(got, "frame")
		q.RequestFrame(func() { got = append(got, "next") })
	})
	cancel := q.RequestFrame(func() { got = append(got, "canceled") })
	cancel()
	cancel()

	q.Tick(now.Add(30 * time.Millisecond))
	want := []string{"early", "late", "frame"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	q.Tick(now.Add(40 * time.Millisecond))
	if got[len(got)-1] != "next" {
		t.Errorf("expected frame requested during a tick to run on the next one, got %v", got)
	}
}

func TestFrameQueueDefersFramesRequestedByTimers(t *testing.T) {
	now := time.Unix(0, 0)
	q := NewFrameQueue(now)
	runs := 0
	q.After(10*time.Millisecond, func() {
		q.RequestFrame(func() { runs++ })
	})

	q.Tick(now.Add(10 * time.Millisecond))
	if runs != 0 {
		t.Fatalf("expected the frame to wait for the next tick, ran %d times", runs)
	}
	q.Tick(now.Add(20 * time.Millisecond))
	if runs != 1 {
		t.Errorf("expected the frame on the next tick, ran %d times", runs)
	}
}

func TestFrameQueueTimerNotDueYet(t *testing.T) {
	now := time.Unix(0, 0)
	q := NewFrameQueue(now)
	fired := false
	q.After(time.Second, func() { fired = true })
	q.Tick(now.Add(999 * time.Millisecond))
	if fired {
		t.Fatal("expected timer to wait")
	}
	q.Tick(now.Add(time.Second))
	if !fired {
		t.Error("expected timer to fire when due")
	}
}
