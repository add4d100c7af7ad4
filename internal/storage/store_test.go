package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/curvefall/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Frames: []sim.Frame{
			{Tick: 1, Time: 0.1, Balls: []sim.BallSnapshot{{ID: 1, X: 0, Y: 5, VY: -1, State: "free"}}},
			{Tick: 2, Time: 0.2, Balls: []sim.BallSnapshot{
				{ID: 1, X: 0, Y: 4.9, VY: -2, State: "free"},
				{ID: 2, X: 1, Y: 5, State: "on_surface"},
			}},
		},
		Metrics:   map[string]float64{"peak_speed": 2},
		Collected: 1,
		Total:     3,
		Ticks:     2,
		Elapsed:   0.2,
		Curves:    []string{"y = x"},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := sim.Config{Dt: 0.1, Duration: 1, SpawnEvery: 0.5}
	runID, err := st.Save("tutorial", cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Level != "tutorial" {
		t.Errorf("expected level 'tutorial', got '%s'", meta.Level)
	}
	if meta.Collected != 1 || meta.Total != 3 {
		t.Errorf("expected 1/3 stars, got %d/%d", meta.Collected, meta.Total)
	}
	if meta.Metrics["peak_speed"] != 2 {
		t.Errorf("expected peak_speed 2, got %f", meta.Metrics["peak_speed"])
	}
	if len(meta.Curves) != 1 || meta.Curves[0] != "y = x" {
		t.Errorf("expected curves [y = x], got %v", meta.Curves)
	}

	rows, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[1].Y != 4.9 || rows[2].State != "on_surface" {
		t.Errorf("unexpected rows %+v %+v", rows[1], rows[2])
	}

	series := Series(rows)
	if len(series[1]) != 2 || len(series[2]) != 1 {
		t.Errorf("expected 2 and 1 samples per ball, got %d and %d", len(series[1]), len(series[2]))
	}
}

func TestStoreSaveSameSecond(t *testing.T) {
	st := New(t.TempDir())
	fixed := time.Unix(1700000000, 0)
	st.now = func() time.Time { return fixed }

	a, err := st.Save("valley", sim.Config{Dt: 0.1, Duration: 1}, testResult())
	if err != nil {
		t.Fatal(err)
	}
	b, err := st.Save("valley", sim.Config{Dt: 0.1, Duration: 1}, testResult())
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("expected distinct run ids, got %s twice", a)
	}
}

func TestStoreEmptyTrajectory(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save("wave", sim.Config{Dt: 0.1, Duration: 1}, &sim.Result{})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	rows, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	st.now = func() time.Time { return time.Unix(100, 0) }
	if _, err := st.Save("tutorial", sim.Config{Dt: 0.1, Duration: 1}, testResult()); err != nil {
		t.Fatal(err)
	}
	st.now = func() time.Time { return time.Unix(200, 0) }
	if _, err := st.Save("valley", sim.Config{Dt: 0.1, Duration: 1}, testResult()); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Level != "valley" {
		t.Errorf("expected newest run first, got %s", runs[0].Level)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nonexistent"); err == nil {
		t.Error("expected error for nonexistent run")
	}
}
