package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/curvefall/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID         string             `json:"id"`
	Level      string             `json:"level"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	SpawnEvery float64            `json:"spawn_every"`
	Curves     []string           `json:"curves"`
	Collected  int                `json:"collected"`
	Total      int                `json:"total"`
	Won        bool               `json:"won"`
	Ticks      int                `json:"ticks"`
	Elapsed    float64            `json:"elapsed"`
	Metrics    map[string]float64 `json:"metrics"`
}

// TrajectoryRow is one ball at one recorded tick.
type TrajectoryRow struct {
	Tick  int     `csv:"tick"`
	Time  float64 `csv:"time"`
	Ball  int     `csv:"ball"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
	VX    float64 `csv:"vx"`
	VY    float64 `csv:"vy"`
	State string  `csv:"state"`
}

// Rows flattens the recorded frames of a result.
func Rows(result *sim.Result) []*TrajectoryRow {
	var rows []*TrajectoryRow
	for _, f := range result.Frames {
		for _, b := range f.Balls {
			rows = append(rows, &TrajectoryRow{
				Tick:  f.Tick,
				Time:  f.Time,
				Ball:  b.ID,
				X:     b.X,
				Y:     b.Y,
				VX:    b.VX,
				VY:    b.VY,
				State: b.State,
			})
		}
	}
	return rows
}

// Save writes metadata.json and trajectory.csv under a new run directory
// and returns the run ID.
func (s *Store) Save(level string, cfg sim.Config, result *sim.Result) (string, error) {
	ts := s.now()
	runID := fmt.Sprintf("%s_%d", level, ts.Unix())
	for i := 2; ; i++ {
		if _, err := os.Stat(filepath.Join(s.baseDir, runID)); os.IsNotExist(err) {
			break
		}
		runID = fmt.Sprintf("%s_%d_%d", level, ts.Unix(), i)
	}
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Level:      level,
		Timestamp:  ts,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		SpawnEvery: cfg.SpawnEvery,
		Curves:     result.Curves,
		Collected:  result.Collected,
		Total:      result.Total,
		Won:        result.Won,
		Ticks:      result.Ticks,
		Elapsed:    result.Elapsed,
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	rows := Rows(result)
	if len(rows) == 0 {
		return runID, nil
	}
	if err := gocsv.MarshalFile(&rows, csvFile); err != nil {
		return "", fmt.Errorf("write trajectory: %w", err)
	}

	return runID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) ([]*TrajectoryRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows := []*TrajectoryRow{}
	if st, err := file.Stat(); err == nil && st.Size() == 0 {
		return rows, nil
	}
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("read trajectory: %w", err)
	}
	return rows, nil
}

// Series groups the trajectory of each ball by ID, in tick order.
func Series(rows []*TrajectoryRow) map[int][]*TrajectoryRow {
	out := make(map[int][]*TrajectoryRow)
	for _, r := range rows {
		out[r.Ball] = append(out[r.Ball], r)
	}
	for _, s := range out {
		sort.SliceStable(s, func(i, j int) bool { return s[i].Tick < s[j].Tick })
	}
	return out
}
