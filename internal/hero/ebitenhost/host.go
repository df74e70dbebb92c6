// Package ebitenhost runs hero renderers inside an ebiten game loop, on the
// desktop or compiled to WASM on a browser canvas.
package ebitenhost

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/prakash023/portfolio/internal/hero"
)

// Surface is an offscreen ebiten image the renderer paints into during Update;
// the game blits it to the screen in Draw.
type Surface struct {
	img *ebiten.Image
}

func (s *Surface) Size() (int, int) {
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Surface) Resize(w, h int) {
	if s.img != nil {
		s.img.Deallocate()
		s.img = nil
	}
	if w > 0 && h > 0 {
		s.img = ebiten.NewImage(w, h)
	}
}

func (s *Surface) Clear() {
	if s.img != nil {
		s.img.Clear()
	}
}

func (s *Surface) FillCircle(x, y, r float64, c color.NRGBA) {
	if s.img == nil {
		return
	}
	vector.DrawFilledCircle(s.img, float32(x), float32(y), float32(r), c, true)
}

func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	if s.img == nil {
		return
	}
	vector.StrokeLine(s.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), c, true)
}

// Slot is one hero region of the window: a horizontal band with its own
// renderer.
type Slot struct {
	Name     string
	Renderer *hero.Renderer

	// Weight is the slot's share of the window height.
	Weight float64

	surface Surface
	y, w, h int
	inside  bool
}

func (s *Slot) Bounds() (int, int, bool) { return s.w, s.h, true }

func (s *Slot) Surface() (hero.Surface, bool) { return &s.surface, true }

// Game stacks slots vertically and drives their renderers from one frame
// queue ticked by ebiten's Update.
type Game struct {
	Queue *hero.FrameQueue
	Slots []*Slot

	outsideW, outsideH int
	mounted            bool
}

// NewGame builds a game whose slots are driven by q.
func NewGame(q *hero.FrameQueue, slots ...*Slot) *Game {
	return &Game{Queue: q, Slots: slots}
}

func (g *Game) Update() error {
	if !g.mounted {
		g.mounted = true
		for _, s := range g.Slots {
			s.Renderer.Mount(s)
		}
	}
	g.trackPointer()
	g.Queue.Tick(time.Now())
	return nil
}

func (g *Game) trackPointer() {
	cx, cy := ebiten.CursorPosition()
	for _, s := range g.Slots {
		in := cx >= 0 && cx < s.w && cy >= s.y && cy < s.y+s.h
		switch {
		case in:
			s.Renderer.PointerMove(float64(cx), float64(cy-s.y))
		case s.inside:
			s.Renderer.PointerLeave()
		}
		s.inside = in
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(hero.Background)
	for _, s := range g.Slots {
		if s.surface.img == nil {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(0, float64(s.y))
		screen.DrawImage(s.surface.img, op)
	}
}

// Layout splits the window between slots and asks each renderer for a
// settled resize when the window size changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.outsideW || outsideHeight != g.outsideH {
		g.outsideW, g.outsideH = outsideWidth, outsideHeight
		g.layoutSlots()
		if g.mounted {
			for _, s := range g.Slots {
				s.Renderer.ResizeSettled()
			}
		}
	}
	return outsideWidth, outsideHeight
}

func (g *Game) layoutSlots() {
	total := 0.0
	for _, s := range g.Slots {
		total += max(s.Weight, 0)
	}
	y := 0
	for i, s := range g.Slots {
		share := 1 / float64(len(g.Slots))
		if total > 0 {
			share = max(s.Weight, 0) / total
		}
		h := int(float64(g.outsideH) * share)
		if i == len(g.Slots)-1 {
			h = g.outsideH - y
		}
		s.y, s.w, s.h = y, g.outsideW, h
		y += h
	}
}

// Run opens the window (or takes over the page canvas under WASM) and blocks
// until it closes.
func Run(title string, width, height int, g *Game) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(true)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	return ebiten.RunGame(g)
}
