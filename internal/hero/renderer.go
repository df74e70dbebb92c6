package hero

import (
	"io"
	"log"
)

// Renderer paints one effect onto the surface of one container. All methods
// must be called from the scheduler's execution context.
type Renderer struct {
	cfg    Config
	sched  Scheduler
	effect Effect
	logger *log.Logger

	container Container
	surface   Surface
	pointer   Pointer
	time      float64
	frames    uint64

	retries       int
	resizePending bool

	cancelFrame  func()
	cancelRetry  func()
	cancelSettle func()
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithLogger routes deferral and recovery messages to l.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// New builds a renderer for cfg driven by sched.
func New(cfg Config, sched Scheduler, opts ...Option) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	effect, err := NewEffect(cfg)
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		cfg:     cfg,
		sched:   sched,
		effect:  effect,
		logger:  log.New(io.Discard, "", 0),
		pointer: Pointer{Damping: cfg.Damping},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Mount attaches the renderer to c and starts the frame loop. A nil container
// is ignored, and mounting an already mounted renderer does nothing. When the
// container is not ready yet the mount is retried after RetryDelay.
func (r *Renderer) Mount(c Container) {
	if c == nil || r.container != nil {
		return
	}
	r.container = c
	r.retries = 0
	r.attach()
}

func (r *Renderer) attach() {
	r.cancelRetry = nil
	if r.container == nil {
		return
	}
	w, h, ok := r.container.Bounds()
	var s Surface
	if ok && w > 0 && h > 0 {
		s, ok = r.container.Surface()
	} else {
		ok = false
	}
	if !ok || s == nil {
		r.retryLater()
		return
	}

	r.surface = s
	r.applySize(w, h)
	r.cancelFrame = r.sched.RequestFrame(r.loop)
}

func (r *Renderer) retryLater() {
	if r.cfg.MaxRetries > 0 && r.retries >= r.cfg.MaxRetries {
		r.logger.Printf("hero %s: container never became ready, giving up after %d retries", r.cfg.Effect, r.retries)
		// Forget the container so a later Mount can try again.
		r.container = nil
		return
	}
	r.retries++
	if r.retries == 1 {
		r.logger.Printf("hero %s: container not ready, retrying every %s", r.cfg.Effect, r.cfg.RetryDelay)
	}
	r.cancelRetry = r.sched.After(r.cfg.RetryDelay, r.attach)
}

// Unmount stops the frame loop and every pending timer. The renderer can be
// mounted again afterwards.
func (r *Renderer) Unmount() {
	for _, cancel := range []func(){r.cancelFrame, r.cancelRetry, r.cancelSettle} {
		if cancel != nil {
			cancel()
		}
	}
	r.cancelFrame, r.cancelRetry, r.cancelSettle = nil, nil, nil
	r.container = nil
	r.surface = nil
	r.resizePending = false
}

// Mounted reports whether the frame loop is running.
func (r *Renderer) Mounted() bool {
	return r.surface != nil
}

// Resize re-reads the container box, resizes the surface and regenerates the
// population. A container without a usable size leaves everything as is.
func (r *Renderer) Resize() {
	r.resizePending = false
	if r.container == nil || r.surface == nil {
		return
	}
	w, h, ok := r.container.Bounds()
	if !ok || w <= 0 || h <= 0 {
		return
	}
	r.applySize(w, h)
}

func (r *Renderer) applySize(w, h int) {
	r.surface.Resize(w, h)
	r.effect.Populate(float64(w), float64(h), r.cfg.Count(w, h))
}

// RequestResize marks the surface for resizing at the start of the next
// frame. Any number of requests between two frames cost one resize.
func (r *Renderer) RequestResize() {
	r.resizePending = true
}

// ResizeSettled is the entry for window resize and orientation change. Each
// call restarts the settle timer; the resize is requested once layout has
// been quiet for ResizeSettle.
func (r *Renderer) ResizeSettled() {
	if r.cancelSettle != nil {
		r.cancelSettle()
	}
	r.cancelSettle = r.sched.After(r.cfg.ResizeSettle, func() {
		r.cancelSettle = nil
		r.RequestResize()
	})
}

// PointerMove records the pointer at surface-local (x, y).
func (r *Renderer) PointerMove(x, y float64) {
	r.pointer.MoveTo(x, y)
	if t, ok := r.effect.(Toucher); ok {
		t.Touch(x, y)
	}
}

// PointerLeave lets the pointer influence fade out.
func (r *Renderer) PointerLeave() {
	r.pointer.Leave()
}

// RenderFrame advances the animation by one frame and repaints the surface.
// A frame that panics is logged and skipped.
func (r *Renderer) RenderFrame() {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Printf("hero %s: frame %d skipped: %v", r.cfg.Effect, r.frames, p)
		}
	}()
	r.renderFrame()
}

func (r *Renderer) renderFrame() {
	if r.surface == nil {
		return
	}
	if r.resizePending {
		r.Resize()
	}
	w, h := r.surface.Size()
	if w <= 0 || h <= 0 {
		return
	}

	r.surface.Clear()
	r.pointer.Step()
	r.effect.Step(&Frame{
		Surface: r.surface,
		Width:   float64(w),
		Height:  float64(h),
		Time:    r.time,
		Pointer: &r.pointer,
	})
	r.time += r.cfg.TimeStep
	r.frames++
}

func (r *Renderer) loop() {
	r.cancelFrame = nil
	r.RenderFrame()
	if r.surface != nil {
		r.cancelFrame = r.sched.RequestFrame(r.loop)
	}
}

// Count is the number of live particles.
func (r *Renderer) Count() int { return r.effect.Len() }

// Frames is the number of frames rendered since creation.
func (r *Renderer) Frames() uint64 { return r.frames }

// Pointer exposes the smoothed pointer state.
func (r *Renderer) Pointer() Pointer { return r.pointer }

// Config returns the renderer's configuration.
func (r *Renderer) Config() Config { return r.cfg }
