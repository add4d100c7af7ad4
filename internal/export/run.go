package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/curvefall/internal/sim"
)

type RunData struct {
	Level     string             `json:"level"`
	Curves    []string           `json:"curves"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Ticks     int                `json:"ticks"`
	Elapsed   float64            `json:"elapsed"`
	Collected int                `json:"collected"`
	Total     int                `json:"total"`
	Won       bool               `json:"won"`
	Frames    []sim.Frame        `json:"frames"`
	Metrics   map[string]float64 `json:"metrics"`
}

func NewRunData(level string, cfg sim.Config, result *sim.Result) RunData {
	return RunData{
		Level:     level,
		Curves:    result.Curves,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Ticks:     result.Ticks,
		Elapsed:   result.Elapsed,
		Collected: result.Collected,
		Total:     result.Total,
		Won:       result.Won,
		Frames:    result.Frames,
		Metrics:   result.Metrics,
	}
}

func WriteRunJSON(w io.Writer, data RunData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportJSON writes a run to path, or to stdout when path is "-".
func ExportJSON(path, level string, cfg sim.Config, result *sim.Result) error {
	data := NewRunData(level, cfg, result)
	if path == "-" {
		return WriteRunJSON(os.Stdout, data)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteRunJSON(file, data)
}
