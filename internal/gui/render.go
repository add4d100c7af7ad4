package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/curvefall/internal/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

func (a *App) toScreen(p r2.Vec) rl.Vector2 {
	x, y := a.vp.ToScreen(p)
	return rl.NewVector2(float32(x)+areaX, float32(y)+areaY)
}

func hexColor(s string) rl.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return ColAccent
	}
	r, g, b := c.RGB255()
	return rl.NewColor(r, g, b, 255)
}

func (a *App) drawScene() {
	rl.BeginScissorMode(areaX, areaY, areaW, areaH)
	a.drawGrid()

	if len(a.Preview) > 0 {
		a.drawPolyline(a.Preview, 1, rl.ColorAlpha(ColAccent, 0.4))
	}
	for _, c := range a.Session.Curves() {
		a.drawPolyline(c.Samples, float32(c.Thickness), hexColor(c.Color))
	}

	for _, s := range a.Session.Stars() {
		pos := a.toScreen(s.Pos)
		if s.Collected {
			rl.DrawPoly(pos, 4, 5, 45, ColTextDim)
			continue
		}
		rl.DrawPoly(pos, 4, 9, 45, ColStar)
		rl.DrawPolyLines(pos, 4, 12, 0, rl.ColorAlpha(ColStar, 0.5))
	}

	sp := a.Session.Level().Spawn
	spawn := a.toScreen(r2.Vec{X: sp.X, Y: sp.Y})
	rl.DrawRectangleV(rl.NewVector2(spawn.X-12, spawn.Y-3), rl.NewVector2(24, 6), ColText)

	for _, b := range a.Session.Balls() {
		if !b.Active() {
			continue
		}
		r := float32(a.vp.Length(b.Radius))
		col := ColSelect
		if b.CollectedStar {
			col = ColStar
		}
		rl.DrawCircleV(a.toScreen(b.Pos), r, col)
	}
	rl.EndScissorMode()

	rl.DrawRectangleLines(areaX, areaY, areaW, areaH, ColTextDim)
}

func (a *App) drawGrid() {
	w := a.Session.World()
	for x := float64(int(w.XMin)); x <= w.XMax; x++ {
		col := ColGrid
		if x == 0 {
			col = ColTextDim
		}
		rl.DrawLineV(a.toScreen(r2.Vec{X: x, Y: w.YMin}), a.toScreen(r2.Vec{X: x, Y: w.YMax}), col)
	}
	for y := float64(int(w.YMin)); y <= w.YMax; y++ {
		col := ColGrid
		if y == 0 {
			col = ColTextDim
		}
		rl.DrawLineV(a.toScreen(r2.Vec{X: w.XMin, Y: y}), a.toScreen(r2.Vec{X: w.XMax, Y: y}), col)
	}
}

func (a *App) drawPolyline(pl geom.Polyline, thick float32, col rl.Color) {
	if thick <= 0 {
		thick = 2
	}
	pl.Segments(func(_ int, s geom.Segment) bool {
		rl.DrawLineEx(a.toScreen(s.A), a.toScreen(s.B), thick, col)
		return true
	})
}
