//go:build js && wasm

package webhost

import (
	"image/color"
	"math"
	"syscall/js"
	"time"

	"github.com/prakash023/portfolio/internal/hero"
)

// Canvas paints through a canvas element's 2-D context.
type Canvas struct {
	el  js.Value
	ctx js.Value
}

func (c *Canvas) Size() (int, int) {
	return c.el.Get("width").Int(), c.el.Get("height").Int()
}

func (c *Canvas) Resize(w, h int) {
	c.el.Set("width", w)
	c.el.Set("height", h)
}

func (c *Canvas) Clear() {
	w, h := c.Size()
	c.ctx.Call("clearRect", 0, 0, w, h)
}

func (c *Canvas) FillCircle(x, y, r float64, col color.NRGBA) {
	c.ctx.Set("fillStyle", cssColor(col))
	c.ctx.Call("beginPath")
	c.ctx.Call("arc", x, y, r, 0, 2*math.Pi)
	c.ctx.Call("fill")
}

func (c *Canvas) StrokeLine(x0, y0, x1, y1, width float64, col color.NRGBA) {
	c.ctx.Set("strokeStyle", cssColor(col))
	c.ctx.Set("lineWidth", width)
	c.ctx.Call("beginPath")
	c.ctx.Call("moveTo", x0, y0)
	c.ctx.Call("lineTo", x1, y1)
	c.ctx.Call("stroke")
}

// Element is a canvas element used as a renderer container. It is ready once
// it is in the document, has a laid out box and yields a 2-D context.
type Element struct {
	el     js.Value
	canvas *Canvas
}

func (e *Element) Bounds() (int, int, bool) {
	if !e.el.Get("isConnected").Truthy() {
		return 0, 0, false
	}
	rect := e.el.Call("getBoundingClientRect")
	w := int(math.Round(rect.Get("width").Float()))
	h := int(math.Round(rect.Get("height").Float()))
	return w, h, true
}

func (e *Element) Surface() (hero.Surface, bool) {
	if e.canvas == nil {
		ctx := e.el.Call("getContext", "2d")
		if ctx.IsNull() || ctx.IsUndefined() {
			return nil, false
		}
		e.canvas = &Canvas{el: e.el, ctx: ctx}
	}
	return e.canvas, true
}

// Slot binds a renderer to the id of its page canvas.
type Slot struct {
	Element  string
	Renderer *hero.Renderer
}

// Page mounts slots onto the document and drives them.
type Page struct {
	queue       *hero.FrameQueue
	slots       []Slot
	mounted     []*hero.Renderer
	jsCallbacks []js.Func
}

// NewPage builds a page whose renderers are scheduled on q.
func NewPage(q *hero.FrameQueue, slots ...Slot) *Page {
	return &Page{queue: q, slots: slots}
}

// Start mounts every slot whose canvas exists, wires pointer, resize and
// orientation events, and ticks the queue on each animation frame. Slots
// without a canvas on this page are skipped.
func (p *Page) Start() {
	doc := js.Global().Get("document")
	for _, s := range p.slots {
		el := doc.Call("getElementById", s.Element)
		if el.IsNull() || el.IsUndefined() {
			continue
		}
		r := s.Renderer
		r.Mount(&Element{el: el})
		p.mounted = append(p.mounted, r)

		p.listen(el, "pointermove", func(ev js.Value) {
			r.PointerMove(ev.Get("offsetX").Float(), ev.Get("offsetY").Float())
		})
		p.listen(el, "pointerleave", func(js.Value) { r.PointerLeave() })
	}

	win := js.Global()
	settle := func(js.Value) {
		for _, r := range p.mounted {
			r.ResizeSettled()
		}
	}
	p.listen(win, "resize", settle)
	p.listen(win, "orientationchange", settle)

	var tick js.Func
	tick = js.FuncOf(func(_ js.Value, _ []js.Value) any {
		p.queue.Tick(time.Now())
		win.Call("requestAnimationFrame", tick)
		return nil
	})
	p.jsCallbacks = append(p.jsCallbacks, tick)
	win.Call("requestAnimationFrame", tick)
}

// Stop unmounts the renderers and releases the JS callbacks.
func (p *Page) Stop() {
	for _, r := range p.mounted {
		r.Unmount()
	}
	p.mounted = nil
	for _, cb := range p.jsCallbacks {
		cb.Release()
	}
	p.jsCallbacks = nil
}

func (p *Page) listen(target js.Value, event string, fn func(js.Value)) {
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	p.jsCallbacks = append(p.jsCallbacks, cb)
	target.Call("addEventListener", event, cb)
}
