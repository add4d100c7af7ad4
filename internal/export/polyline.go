package export

import (
	"encoding/json"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/curvefall/internal/expr"
	"github.com/san-kum/curvefall/internal/geom"
)

// PolylineDoc is the JSON form of a sampled equation. Breaks are null
// entries in Points.
type PolylineDoc struct {
	Equation    string        `json:"equation"`
	Orientation string        `json:"orientation"`
	From        float64       `json:"from"`
	To          float64       `json:"to"`
	Points      []*[2]float64 `json:"points"`
	Breaks      int           `json:"breaks"`
}

func NewPolylineDoc(eq *expr.Equation, from, to float64, pl geom.Polyline) PolylineDoc {
	doc := PolylineDoc{
		Equation:    eq.String(),
		Orientation: eq.Orientation.String(),
		From:        from,
		To:          to,
		Points:      make([]*[2]float64, len(pl)),
		Breaks:      pl.Breaks(),
	}
	for i, v := range pl {
		if v.Break {
			continue
		}
		doc.Points[i] = &[2]float64{v.Pos.X, v.Pos.Y}
	}
	return doc
}

// Polyline converts the document back to a polyline.
func (d PolylineDoc) Polyline() geom.Polyline {
	pl := make(geom.Polyline, len(d.Points))
	for i, p := range d.Points {
		if p == nil {
			pl[i] = geom.BreakVertex()
			continue
		}
		pl[i] = geom.Pt(p[0], p[1])
	}
	return pl
}

func WritePolylineJSON(w io.Writer, doc PolylineDoc) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// PolylineRow is one point of a polyline. Points sharing a Run are joined;
// a new Run marks a break.
type PolylineRow struct {
	Run   int     `csv:"run"`
	Index int     `csv:"index"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
}

func PolylineRows(pl geom.Polyline) []*PolylineRow {
	rows := []*PolylineRow{}
	for r, run := range pl.Runs() {
		for i, p := range run {
			rows = append(rows, &PolylineRow{Run: r, Index: i, X: p.X, Y: p.Y})
		}
	}
	return rows
}

func WritePolylineCSV(w io.Writer, pl geom.Polyline) error {
	return gocsv.Marshal(PolylineRows(pl), w)
}
