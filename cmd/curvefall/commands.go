package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/curvefall/internal/automation"
	"github.com/san-kum/curvefall/internal/config"
	"github.com/san-kum/curvefall/internal/export"
	"github.com/san-kum/curvefall/internal/expr"
	"github.com/san-kum/curvefall/internal/geom"
	"github.com/san-kum/curvefall/internal/metrics"
	"github.com/san-kum/curvefall/internal/optim"
	"github.com/san-kum/curvefall/internal/sampler"
	"github.com/san-kum/curvefall/internal/sim"
	"github.com/san-kum/curvefall/internal/storage"
	"github.com/san-kum/curvefall/internal/tui"
	"github.com/san-kum/curvefall/internal/viz"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"
)

func compileAndSample(text string) (*expr.Equation, geom.Polyline, error) {
	cfg, err := loadConfig(nil)
	if err != nil {
		return nil, nil, err
	}
	if to <= from {
		return nil, nil, fmt.Errorf("--to must be greater than --from")
	}
	eq, err := expr.Compile(text)
	if err != nil {
		return nil, nil, err
	}
	return eq, sampler.SampleEquation(eq, from, to, cfg.SamplerOptions()), nil
}

func plotEquation(cmd *cobra.Command, args []string) error {
	eq, pl, err := compileAndSample(args[0])
	if err != nil {
		return err
	}
	if pl.Points() == 0 {
		return fmt.Errorf("%s has no visible points in [%g, %g]", eq, from, to)
	}

	data := plotSeries(eq, pl, from, to, 100)
	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(100),
		asciigraph.Caption(fmt.Sprintf("%s  %s in [%g, %g]", eq, eq.Orientation.Variable(), from, to)),
	)
	fmt.Println(graph)
	fmt.Printf("\n%d points, %d breaks\n", pl.Points(), pl.Breaks())
	return nil
}

// plotSeries evaluates eq at n evenly spaced inputs, leaving NaN gaps
// wherever the sampled polyline has no run, so poles stay open.
func plotSeries(eq *expr.Equation, pl geom.Polyline, lo, hi float64, n int) []float64 {
	type span struct{ a, b float64 }
	var spans []span
	for _, run := range pl.Runs() {
		a, b := param(eq, run[0]), param(eq, run[len(run)-1])
		spans = append(spans, span{min(a, b), max(a, b)})
	}

	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		t := lo + float64(i)*step
		if i == n-1 {
			t = hi
		}
		out[i] = math.NaN()
		for _, s := range spans {
			if t >= s.a && t <= s.b {
				out[i] = eq.Eval(t)
				break
			}
		}
	}
	return out
}

func param(eq *expr.Equation, p r2.Vec) float64 {
	if eq.Orientation == expr.XOfY {
		return p.Y
	}
	return p.X
}

func sampleEquation(cmd *cobra.Command, args []string) error {
	eq, pl, err := compileAndSample(args[0])
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		return export.WritePolylineJSON(w, export.NewPolylineDoc(eq, from, to, pl))
	case "csv":
		return export.WritePolylineCSV(w, pl)
	case "svg":
		_, err := io.WriteString(w, export.PolylineToSVG(pl, 800, 600, "#00ff88"))
		return err
	default:
		return fmt.Errorf("unknown format %q (json, csv, svg)", format)
	}
}

func automationEnv(cfg *config.Config) automation.Env {
	return automation.Env{Config: cfg, Log: slog.Default(), Store: storage.New(dataDir)}
}

func simConfig(cfg *config.Config) sim.Config {
	sc := sim.DefaultConfig()
	sc.Dt = cfg.Physics.Dt
	sc.SpawnEvery = cfg.Game.SpawnInterval
	sc.Duration = duration
	if dt > 0 {
		sc.Dt = dt
	}
	if spawnEvery > 0 {
		sc.SpawnEvery = spawnEvery
	}
	return sc
}

func runLevel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	env := automationEnv(cfg)
	if err := env.Store.Init(); err != nil {
		return err
	}

	s, err := env.NewSession(cfg.Level, equations, nil)
	if err != nil {
		return err
	}

	r := sim.New(s)
	for _, m := range metrics.Default() {
		r.AddMetric(m)
	}
	if live {
		lr := tui.NewLiveRenderer(s, os.Stdout, frameRate)
		lr.Start()
		defer lr.Stop()
		r.AddObserver(lr)
	}

	sc := simConfig(cfg)
	slog.Info("run_started", "level", cfg.Level, "curves", len(equations), "duration", sc.Duration)
	start := time.Now()
	result, err := r.Run(cmd.Context(), sc)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		slog.Warn("run_interrupted", "err", err, "elapsed", result.Elapsed)
	}

	runID, err := env.Store.Save(cfg.Level, sc, result)
	if err != nil {
		return err
	}
	slog.Info("run_saved", "run_id", runID, "collected", result.Collected, "total", result.Total, "won", result.Won)

	if exportPath != "" {
		if err := export.ExportJSON(exportPath, cfg.Level, sc, result); err != nil {
			return err
		}
	}
	if svgPath != "" {
		svg := export.SceneToSVG(viz.SceneOf(s), 800, 560, viz.CurrentTheme)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
	}
	if exportPath == "-" {
		return nil
	}

	fmt.Printf("completed in %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("stars: %d/%d", result.Collected, result.Total)
	if result.Won {
		fmt.Printf(" (won at %.2fs)", result.Elapsed)
	}
	fmt.Printf("\nticks: %d\n", result.Ticks)
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.4f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLEVEL\tTIME\tSTARS\tWON\tCURVES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%v\t%s\n",
			run.ID,
			run.Level,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Collected, run.Total,
			run.Won,
			strings.Join(run.Curves, "; "),
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("level: %s\n", meta.Level)
	for _, c := range meta.Curves {
		fmt.Printf("curve: %s\n", c)
	}
	fmt.Printf("stars: %d/%d  won: %v  elapsed: %.2fs\n", meta.Collected, meta.Total, meta.Won, meta.Elapsed)
	printMetrics(meta.Metrics)

	ticks, counts, speeds := tickSeries(rows)
	if len(ticks) < 2 {
		fmt.Println("\nno trajectory to plot")
		return nil
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(speeds, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("mean ball speed")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(counts, asciigraph.Height(6), asciigraph.Width(80), asciigraph.Caption("balls in play")))

	for id, series := range storage.Series(rows) {
		last := series[len(series)-1]
		slog.Debug("ball_track", "ball", id, "samples", len(series), "final_state", last.State)
	}
	return nil
}

// tickSeries turns trajectory rows into per-tick ball counts and mean
// speeds.
func tickSeries(rows []*storage.TrajectoryRow) (ticks []int, counts, speeds []float64) {
	idx := map[int]int{}
	for _, r := range rows {
		i, ok := idx[r.Tick]
		if !ok {
			i = len(ticks)
			idx[r.Tick] = i
			ticks = append(ticks, r.Tick)
			counts = append(counts, 0)
			speeds = append(speeds, 0)
		}
		counts[i]++
		speeds[i] += math.Hypot(r.VX, r.VY)
	}
	for i := range speeds {
		speeds[i] /= counts[i]
	}
	return ticks, counts, speeds
}

func listLevels(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tSTARS\tSPAWN\tDESCRIPTION")
	for _, name := range config.ListLevels() {
		lvl := config.GetLevel(name)
		fmt.Fprintf(w, "%s\t%d\t(%g, %g)\t%s\n", name, len(lvl.Stars), lvl.Spawn.X, lvl.Spawn.Y, lvl.Description)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	env := automationEnv(cfg)
	if err := env.Store.Init(); err != nil {
		return err
	}

	results, err := automation.RunScenario(cmd.Context(), sc, env)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tLEVEL\tSTARS\tWON\tELAPSED\tRUN")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d/%d\t%v\t%.2fs\t%s\n", i+1, r.Step.Level, r.Result.Collected, r.Result.Total, r.Result.Won, r.Result.Elapsed, r.RunID)
	}
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	sc := simConfig(cfg)
	sweep := &automation.ParameterSweep{
		Level:      cfg.Level,
		Equations:  equations,
		ParamName:  paramName,
		ParamMin:   paramMin,
		ParamMax:   paramMax,
		NumSteps:   numSteps,
		Duration:   sc.Duration,
		Dt:         sc.Dt,
		SpawnEvery: sc.SpawnEvery,
	}
	results, err := automation.RunSweep(cmd.Context(), sweep, automationEnv(cfg))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTARS\tWON\tFIRST STAR\tLOST\n", strings.ToUpper(paramName))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%d/%d\t%v\t%.2f\t%.0f\n", r.ParamValue, r.Collected, r.Total, r.Won, r.FirstStar, r.BallsLost)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	sc := simConfig(cfg)
	mc := &automation.MonteCarloConfig{
		Level:        cfg.Level,
		Equations:    equations,
		Perturbation: jitter,
		NumTrials:    trials,
		Duration:     sc.Duration,
		Dt:           sc.Dt,
		SpawnEvery:   sc.SpawnEvery,
		Seed:         seed,
	}
	results, err := automation.RunMonteCarlo(cmd.Context(), mc, automationEnv(cfg))
	if err != nil {
		return err
	}
	won, lost := automation.MonteCarloStats(results)
	fmt.Printf("%d trials, spawn jitter ±%g\n", len(results), jitter)
	fmt.Printf("won: %d  lost: %d  (%.0f%%)\n", won, lost, 100*float64(won)/float64(max(len(results), 1)))
	return nil
}

func parseGrid(entries []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(entries))
	ranges := make([][]float64, 0, len(entries))
	for _, entry := range entries {
		name, list, ok := strings.Cut(entry, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("invalid --grid %q, want name=v1,v2", entry)
		}
		var vals []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid --grid %q: %w", entry, err)
			}
			vals = append(vals, v)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}

	env := automationEnv(cfg)
	gs := optim.NewGridSearch(names, ranges)
	gs.Maximize = maximize
	build := func(params map[string]float64) (*sim.Runner, error) {
		s, err := env.NewSession(cfg.Level, equations, params)
		if err != nil {
			return nil, err
		}
		r := sim.New(s)
		for _, m := range metrics.Default() {
			r.AddMetric(m)
		}
		return r, nil
	}

	slog.Info("search_started", "points", gs.Size(), "metric", metric)
	best, val, err := gs.Search(cmd.Context(), build, simConfig(cfg), metric)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("best %s: %.4f\n", metric, val)
	for _, k := range keys {
		fmt.Printf("  %s = %g\n", k, best[k])
	}
	return nil
}
