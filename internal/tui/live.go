package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/curvefall/internal/game"
	"github.com/san-kum/curvefall/internal/geom"
	"github.com/san-kum/curvefall/internal/sim"
	"github.com/san-kum/curvefall/internal/viz"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer draws a headless run as plain text, at most frameRate times
// per second. A frameRate of zero draws every tick.
type LiveRenderer struct {
	session   *game.Session
	out       io.Writer
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	vp        viz.Viewport
}

func NewLiveRenderer(s *game.Session, out io.Writer, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		session:   s,
		out:       out,
		frameRate: frameRate,
		canvas:    canvas,
		vp:        viz.NewViewport(s.World(), width, height),
	}
}

func (r *LiveRenderer) OnStep(f sim.Frame) {
	if r.frameRate > 0 {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = time.Now()
	}

	r.clear()
	r.drawWorld()
	r.render(f)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) plot(p r2.Vec, c rune) {
	x, y := r.vp.Pixel(p)
	r.set(x, y, c)
}

func (r *LiveRenderer) line(x1, y1, x2, y2 int, c rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func (r *LiveRenderer) drawWorld() {
	for _, c := range r.session.Curves() {
		r.drawPolyline(c.Samples)
	}
	for _, s := range r.session.Stars() {
		if s.Collected {
			r.plot(s.Pos, '.')
		} else {
			r.plot(s.Pos, '*')
		}
	}
	sp := r.session.Level().Spawn
	r.plot(r2.Vec{X: sp.X, Y: sp.Y}, '+')
	for _, b := range r.session.Balls() {
		if b.Active() {
			r.plot(b.Pos, 'o')
		}
	}
}

func (r *LiveRenderer) drawPolyline(pl geom.Polyline) {
	for _, run := range pl.Runs() {
		px, py := r.vp.Pixel(run[0])
		r.set(px, py, '#')
		for _, p := range run[1:] {
			x, y := r.vp.Pixel(p)
			r.line(px, py, x, y, '#')
			px, py = x, y
		}
	}
}

func (r *LiveRenderer) render(f sim.Frame) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2fs  stars %d/%d\n", r.session.Level().Name, f.Time, f.Collected, len(r.session.Stars())))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	onSurface := 0
	for _, bs := range f.Balls {
		if bs.OnSurface() {
			onSurface++
		}
	}
	b.WriteString(fmt.Sprintf("  balls=%d sliding=%d lost=%d\n", len(f.Balls), onSurface, f.Removed))

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
