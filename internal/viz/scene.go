package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/curvefall/internal/collect"
	"github.com/san-kum/curvefall/internal/game"
	"github.com/san-kum/curvefall/internal/geom"
	"github.com/san-kum/curvefall/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

type SceneCurve struct {
	Label     string
	Samples   geom.Polyline
	Color     string
	Thickness float64
}

// Scene is a read-only picture of a session at one instant.
type Scene struct {
	World   geom.Bounds
	Spawn   r2.Vec
	Curves  []SceneCurve
	Preview geom.Polyline
	Balls   []*physics.Ball
	Stars   []*collect.Star
}

func SceneOf(s *game.Session) Scene {
	sc := Scene{
		World: s.World(),
		Spawn: r2.Vec{X: s.Level().Spawn.X, Y: s.Level().Spawn.Y},
		Balls: s.Balls(),
		Stars: s.Stars(),
	}
	for _, c := range s.Curves() {
		sc.Curves = append(sc.Curves, SceneCurve{
			Label:     c.Equation.String(),
			Samples:   c.Samples,
			Color:     c.Color,
			Thickness: c.Thickness,
		})
	}
	return sc
}

// Draw renders the scene onto c using the theme colours.
func (sc Scene) Draw(c *Canvas, th Theme) {
	w, h := c.PixelSize()
	vp := NewViewport(sc.World, float64(w), float64(h))
	c.Clear()

	c.Pen(th.Muted)
	drawAxes(c, vp)

	if len(sc.Preview) > 0 {
		c.Pen(th.Muted)
		drawPolyline(c, vp, sc.Preview)
	}
	for _, cv := range sc.Curves {
		c.Pen(lipgloss.Color(cv.Color))
		drawPolyline(c, vp, cv.Samples)
	}

	for _, s := range sc.Stars {
		x, y := vp.Pixel(s.Pos)
		if s.Collected {
			c.Pen(th.Muted)
			c.Set(x, y)
			continue
		}
		c.Pen(th.Accent)
		c.DrawStar(x, y, 2)
	}

	c.Pen(th.Secondary)
	sx, sy := vp.Pixel(sc.Spawn)
	c.DrawLine(sx-1, sy, sx+1, sy)

	c.Pen(th.Text)
	for _, b := range sc.Balls {
		if !b.Active() {
			continue
		}
		x, y := vp.Pixel(b.Pos)
		c.DrawCircle(x, y, int(vp.Length(b.Radius)))
	}
	c.Pen("")
}

func drawPolyline(c *Canvas, vp Viewport, pl geom.Polyline) {
	for _, run := range pl.Runs() {
		if len(run) == 1 {
			x, y := vp.Pixel(run[0])
			c.Set(x, y)
			continue
		}
		px, py := vp.Pixel(run[0])
		for _, p := range run[1:] {
			x, y := vp.Pixel(p)
			c.DrawLine(px, py, x, y)
			px, py = x, y
		}
	}
}

func drawAxes(c *Canvas, vp Viewport) {
	w, h := c.PixelSize()
	if vp.World.YMin <= 0 && vp.World.YMax >= 0 {
		_, y := vp.Pixel(r2.Vec{})
		for x := 0; x < w; x += 2 {
			c.Set(x, y)
		}
	}
	if vp.World.XMin <= 0 && vp.World.XMax >= 0 {
		x, _ := vp.Pixel(r2.Vec{})
		for y := 0; y < h; y += 2 {
			c.Set(x, y)
		}
	}
}
