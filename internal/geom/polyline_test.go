package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestPolyline_SegmentsSkipBreaks(t *testing.T) {
	pl := Polyline{Pt(0, 0), Pt(1, 0), BreakVertex(), Pt(2, 0), Pt(3, 1), Pt(4, 1)}

	var segs []Segment
	pl.Segments(func(i int, s Segment) bool {
		segs = append(segs, s)
		return true
	})

	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	if segs[1].A.X != 2 {
		t.Errorf("expected second segment to start at x=2, got %v", segs[1].A)
	}
}

func TestPolyline_SegmentsStopEarly(t *testing.T) {
	pl := Polyline{Pt(0, 0), Pt(1, 0), Pt(2, 0), Pt(3, 0)}
	count := 0
	pl.Segments(func(i int, s Segment) bool {
		count++
		return i < 1
	})
	if count != 2 {
		t.Errorf("expected iteration to stop after 2 segments, got %d", count)
	}
}

func TestPolyline_Runs(t *testing.T) {
	pl := Polyline{Pt(0, 0), Pt(1, 0), BreakVertex(), Pt(2, 0)}
	runs := pl.Runs()
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if len(runs[0]) != 2 || len(runs[1]) != 1 {
		t.Errorf("unexpected run lengths %d, %d", len(runs[0]), len(runs[1]))
	}
	if pl.Points() != 3 || pl.Breaks() != 1 {
		t.Errorf("expected 3 points and 1 break, got %d and %d", pl.Points(), pl.Breaks())
	}
}

func TestPolyline_Validate(t *testing.T) {
	tests := []struct {
		name    string
		pl      Polyline
		wantErr bool
	}{
		{"empty", Polyline{}, false},
		{"single run", Polyline{Pt(0, 0), Pt(1, 1)}, false},
		{"with break", Polyline{Pt(0, 0), BreakVertex(), Pt(1, 1)}, false},
		{"leading break", Polyline{BreakVertex(), Pt(1, 1)}, true},
		{"double break", Polyline{Pt(0, 0), BreakVertex(), BreakVertex(), Pt(1, 1)}, true},
		{"coincident", Polyline{Pt(0, 0), Pt(0, 1e-12)}, true},
		{"nan", Polyline{Pt(0, math.NaN())}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pl.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSegment_ClosestPoint(t *testing.T) {
	s := Segment{A: r2.Vec{X: 0, Y: 0}, B: r2.Vec{X: 10, Y: 0}}

	tests := []struct {
		p    r2.Vec
		want r2.Vec
	}{
		{r2.Vec{X: 5, Y: 3}, r2.Vec{X: 5, Y: 0}},
		{r2.Vec{X: -2, Y: 1}, r2.Vec{X: 0, Y: 0}},
		{r2.Vec{X: 12, Y: -1}, r2.Vec{X: 10, Y: 0}},
	}

	for _, tt := range tests {
		got := s.ClosestPoint(tt.p)
		if math.Abs(got.X-tt.want.X) > 1e-12 || math.Abs(got.Y-tt.want.Y) > 1e-12 {
			t.Errorf("ClosestPoint(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	degenerate := Segment{A: r2.Vec{X: 1, Y: 1}, B: r2.Vec{X: 1, Y: 1}}
	if got := degenerate.ClosestPoint(r2.Vec{X: 5, Y: 5}); got != degenerate.A {
		t.Errorf("expected degenerate segment to return its endpoint, got %v", got)
	}
}

func TestSegment_Param(t *testing.T) {
	s := Segment{A: r2.Vec{X: 0, Y: 0}, B: r2.Vec{X: 10, Y: 0}}

	tests := []struct {
		p    r2.Vec
		want float64
	}{
		{r2.Vec{X: 5, Y: 3}, 0.5},
		{r2.Vec{X: -2, Y: 1}, -0.2},
		{r2.Vec{X: 12, Y: -1}, 1.2},
	}
	for _, tt := range tests {
		if got := s.Param(tt.p); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Param(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	// the far endpoint is returned exactly, not rebuilt from A
	b := Segment{A: r2.Vec{X: 0.1, Y: 0.2}, B: r2.Vec{X: 0.7, Y: 0.3}}
	if got := b.ClosestPoint(r2.Vec{X: 5, Y: 1}); got != b.B {
		t.Errorf("expected %v, got %v", b.B, got)
	}
}

func TestSegment_Box(t *testing.T) {
	s := Segment{A: r2.Vec{X: 2, Y: 3}, B: r2.Vec{X: 0, Y: 1}}
	b := s.Box(0.5)
	if b.Min.X != -0.5 || b.Min.Y != 0.5 || b.Max.X != 2.5 || b.Max.Y != 3.5 {
		t.Errorf("unexpected box %v", b)
	}
	if !BoxContains(b, r2.Vec{X: 2.5, Y: 3.5}) {
		t.Error("expected box to contain its corner")
	}
	if BoxContains(b, r2.Vec{X: 3, Y: 0}) {
		t.Error("expected point outside box")
	}
}

func TestBounds_CircleOutside(t *testing.T) {
	b := Bounds{XMin: -10, XMax: 10, YMin: -10, YMax: 10}

	tests := []struct {
		name string
		c    r2.Vec
		r    float64
		want bool
	}{
		{"inside", r2.Vec{X: 0, Y: 0}, 0.5, false},
		{"straddling bottom", r2.Vec{X: 0, Y: -10.2}, 0.5, false},
		{"below", r2.Vec{X: 0, Y: -10.6}, 0.5, true},
		{"left", r2.Vec{X: -11, Y: 0}, 0.5, true},
		{"right", r2.Vec{X: 11, Y: 0}, 0.5, true},
		{"above", r2.Vec{X: 0, Y: 10.51}, 0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.CircleOutside(tt.c, tt.r); got != tt.want {
				t.Errorf("CircleOutside(%v, %v) = %v, want %v", tt.c, tt.r, got, tt.want)
			}
		})
	}

	if err := (Bounds{XMin: 1, XMax: 0, YMin: 0, YMax: 1}).Validate(); err == nil {
		t.Error("expected inverted bounds to fail validation")
	}
}
