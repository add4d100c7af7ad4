package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/curvefall/internal/geom"
	"github.com/san-kum/curvefall/internal/viz"
	"gonum.org/v1/gonum/spatial/r2"
)

const background = "#0a0a0a"

// SceneToSVG renders a scene at width x height pixels. Each curve becomes
// one path; breaks start a new subpath so poles are never bridged.
func SceneToSVG(sc viz.Scene, width, height int, th viz.Theme) string {
	vp := viz.NewViewport(sc.World, float64(width), float64(height))

	var sb strings.Builder
	header(&sb, width, height)

	if sc.World.YMin <= 0 && sc.World.YMax >= 0 {
		_, y := vp.ToScreen(r2.Vec{})
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-dasharray="4 4"/>
`, y, width, y, th.Muted))
	}
	if sc.World.XMin <= 0 && sc.World.XMax >= 0 {
		x, _ := vp.ToScreen(r2.Vec{})
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="0" x2="%.1f" y2="%d" stroke="%s" stroke-dasharray="4 4"/>
`, x, x, height, th.Muted))
	}

	for _, c := range sc.Curves {
		d := pathData(c.Samples, vp)
		if d == "" {
			continue
		}
		stroke := c.Thickness
		if stroke <= 0 {
			stroke = 2
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="%.1f" stroke-linejoin="round" d="%s"><title>%s</title></path>
`, c.Color, stroke, d, escape(c.Label)))
	}

	for _, s := range sc.Stars {
		x, y := vp.ToScreen(s.Pos)
		fill := string(th.Accent)
		if s.Collected {
			fill = string(th.Muted)
		}
		sb.WriteString(fmt.Sprintf(`<polygon fill="%s" points="%s"/>
`, fill, starPoints(x, y, 8)))
	}

	sx, sy := vp.ToScreen(sc.Spawn)
	sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="12" height="4" fill="%s"/>
`, sx-6, sy-2, th.Secondary))

	for _, b := range sc.Balls {
		if !b.Active() {
			continue
		}
		x, y := vp.ToScreen(b.Pos)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, vp.Length(b.Radius), th.Text))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// PolylineToSVG draws a single polyline fitted to its own bounding box with
// ten percent padding.
func PolylineToSVG(pl geom.Polyline, width, height int, strokeColor string) string {
	b, ok := fit(pl)
	if !ok {
		return ""
	}
	vp := viz.NewViewport(b, float64(width), float64(height))

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
`, strokeColor, pathData(pl, vp)))
	sb.WriteString("</svg>\n")
	return sb.String()
}

func header(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

func pathData(pl geom.Polyline, vp viz.Viewport) string {
	var sb strings.Builder
	for _, run := range pl.Runs() {
		for i, p := range run {
			x, y := vp.ToScreen(p)
			cmd := "L"
			if i == 0 {
				cmd = "M"
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
			} else {
				sb.WriteByte(' ')
			}
			sb.WriteString(fmt.Sprintf("%s%.1f,%.1f", cmd, x, y))
		}
	}
	return sb.String()
}

func fit(pl geom.Polyline) (geom.Bounds, bool) {
	first := true
	var b geom.Bounds
	for _, v := range pl {
		if v.Break {
			continue
		}
		if first {
			b = geom.Bounds{XMin: v.Pos.X, XMax: v.Pos.X, YMin: v.Pos.Y, YMax: v.Pos.Y}
			first = false
			continue
		}
		b.XMin = min(b.XMin, v.Pos.X)
		b.XMax = max(b.XMax, v.Pos.X)
		b.YMin = min(b.YMin, v.Pos.Y)
		b.YMax = max(b.YMax, v.Pos.Y)
	}
	if first {
		return b, false
	}

	rangeX, rangeY := b.Width(), b.Height()
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.XMin -= rangeX * 0.1
	b.XMax += rangeX * 0.1
	b.YMin -= rangeY * 0.1
	b.YMax += rangeY * 0.1
	return b, true
}

func starPoints(cx, cy, r float64) string {
	// four-point star: outer tips on the axes, inner corners at r/3
	in := r / 3
	pts := [][2]float64{
		{cx, cy - r}, {cx + in, cy - in}, {cx + r, cy}, {cx + in, cy + in},
		{cx, cy + r}, {cx - in, cy + in}, {cx - r, cy}, {cx - in, cy - in},
	}
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p[0], p[1])
	}
	return strings.Join(parts, " ")
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return xmlEscaper.Replace(s) }
