package hero

import (
	"sort"
	"time"
)

// Scheduler delivers callbacks on the renderer's single execution context.
// RequestFrame runs fn on the next display refresh; After runs fn once d has
// elapsed. Both return an idempotent cancel function.
type Scheduler interface {
	RequestFrame(fn func()) (cancel func())
	After(d time.Duration, fn func()) (cancel func())
}

// FrameQueue is a Scheduler for hosts that deliver display ticks, such as an
// ebiten game loop. It is not safe for concurrent use: Tick, RequestFrame and
// After must all be called from the host's loop.
type FrameQueue struct {
	now    time.Time
	seq    uint64
	frames []*entry
	timers []*entry
}

type entry struct {
	seq      uint64
	due      time.Time
	fn       func()
	canceled bool
}

// NewFrameQueue starts the queue's clock at now.
func NewFrameQueue(now time.Time) *FrameQueue {
	return &FrameQueue{now: now}
}

func (q *FrameQueue) RequestFrame(fn func()) func() {
	e := q.push(&q.frames, time.Time{}, fn)
	return func() { e.canceled = true }
}

func (q *FrameQueue) After(d time.Duration, fn func()) func() {
	e := q.push(&q.timers, q.now.Add(d), fn)
	return func() { e.canceled = true }
}

func (q *FrameQueue) push(list *[]*entry, due time.Time, fn func()) *entry {
	q.seq++
	e := &entry{seq: q.seq, due: due, fn: fn}
	*list = append(*list, e)
	return e
}

// Tick advances the clock to now, runs the timers that fell due and then the
// frame callbacks requested before this tick. Callbacks requested while
// ticking, including from a timer, run on the next tick.
func (q *FrameQueue) Tick(now time.Time) {
	if now.After(q.now) {
		q.now = now
	}
	frames := q.frames
	q.frames = nil

	var due, waiting []*entry
	for _, e := range q.timers {
		switch {
		case e.canceled:
		case !e.due.After(q.now):
			due = append(due, e)
		default:
			waiting = append(waiting, e)
		}
	}
	q.timers = waiting
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})
	for _, e := range due {
		if !e.canceled {
			e.fn()
		}
	}

	for _, e := range frames {
		if !e.canceled {
			e.fn()
		}
	}
}

// Pending reports scheduled, not canceled frame callbacks and timers.
func (q *FrameQueue) Pending() (frames, timers int) {
	for _, e := range q.frames {
		if !e.canceled {
			frames++
		}
	}
	for _, e := range q.timers {
		if !e.canceled {
			timers++
		}
	}
	return frames, timers
}
