package main

import (
	"math"
	"testing"

	"github.com/san-kum/curvefall/internal/expr"
	"github.com/san-kum/curvefall/internal/sampler"
	"github.com/san-kum/curvefall/internal/storage"
)

func TestPlotSeriesLeavesPoleOpen(t *testing.T) {
	eq, err := expr.Compile("y = 1/x")
	if err != nil {
		t.Fatal(err)
	}
	pl := sampler.SampleEquation(eq, -1, 1, sampler.DefaultOptions())
	// an even count keeps x = 0 off the grid
	data := plotSeries(eq, pl, -1, 1, 50)

	if math.IsNaN(data[0]) || math.IsNaN(data[49]) {
		t.Error("expected values at both ends")
	}
	if data[0] != -1 || data[49] != 1 {
		t.Errorf("expected -1 and 1 at the ends, got %v and %v", data[0], data[49])
	}
}

func TestPlotSeriesDomainGap(t *testing.T) {
	eq, err := expr.Compile("y = sqrt(x)")
	if err != nil {
		t.Fatal(err)
	}
	pl := sampler.SampleEquation(eq, -4, 4, sampler.DefaultOptions())
	data := plotSeries(eq, pl, -4, 4, 9)

	if !math.IsNaN(data[0]) {
		t.Errorf("expected NaN left of the domain, got %v", data[0])
	}
	if data[8] != 2 {
		t.Errorf("expected sqrt(4) = 2, got %v", data[8])
	}
}

func TestParseGrid(t *testing.T) {
	names, ranges, err := parseGrid([]string{"gravity=-20,-10", "friction= 0.9 ,1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[1] != "friction" {
		t.Fatalf("unexpected names %v", names)
	}
	if ranges[0][1] != -10 || ranges[1][0] != 0.9 {
		t.Errorf("unexpected ranges %v", ranges)
	}

	for _, bad := range []string{"gravity", "=1,2", "gravity=", "gravity=a"} {
		if _, _, err := parseGrid([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestTickSeries(t *testing.T) {
	rows := []*storage.TrajectoryRow{
		{Tick: 1, Ball: 0, VX: 3, VY: 4},
		{Tick: 2, Ball: 0, VX: 0, VY: 2},
		{Tick: 2, Ball: 1, VX: 0, VY: 4},
	}
	ticks, counts, speeds := tickSeries(rows)
	if len(ticks) != 2 {
		t.Fatalf("expected 2 ticks, got %d", len(ticks))
	}
	if counts[1] != 2 {
		t.Errorf("expected 2 balls at tick 2, got %v", counts[1])
	}
	if speeds[0] != 5 || speeds[1] != 3 {
		t.Errorf("expected speeds [5 3], got %v", speeds)
	}
}
