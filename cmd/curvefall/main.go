package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/san-kum/curvefall/internal/config"
	"github.com/san-kum/curvefall/internal/game"
	"github.com/san-kum/curvefall/internal/gui"
	"github.com/san-kum/curvefall/internal/viz"
	"github.com/spf13/cobra"
)

var (
	// persistent
	dataDir    string
	configFile string
	envFile    string
	logLevel   string
	logJSON    bool
	logFile    string

	// run
	equations  []string
	dt         float64
	duration   float64
	spawnEvery float64
	live       bool
	frameRate  int
	exportPath string
	svgPath    string

	// sample and plot
	from    float64
	to      float64
	format  string
	outPath string

	// sweep, montecarlo and search
	paramName string
	paramMin  float64
	paramMax  float64
	numSteps  int
	jitter    float64
	trials    int
	seed      int64
	grid      []string
	metric    string
	maximize  bool

	theme string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "curvefall",
		Short:         "draw equations, catch falling balls",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(os.Stderr)
		},
		RunE: playGame,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".curvefall", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&envFile, "env", ".env", "dotenv file with CURVEFALL_* overrides")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.BoolVar(&logJSON, "log-json", false, "log as JSON")
	pf.StringVar(&logFile, "log-file", "", "log file for the interactive modes")
	rootCmd.Flags().StringVar(&theme, "theme", "chalkboard", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	playCmd := &cobra.Command{
		Use:   "play [level]",
		Short: "play in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  playGame,
	}
	playCmd.Flags().StringVar(&theme, "theme", "chalkboard", "color theme")

	guiCmd := &cobra.Command{
		Use:   "gui [level]",
		Short: "play in a desktop window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}

	plotCmd := &cobra.Command{
		Use:   "plot <equation>",
		Short: "plot an equation in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotEquation,
	}
	plotCmd.Flags().Float64Var(&from, "from", -10, "start of the input range")
	plotCmd.Flags().Float64Var(&to, "to", 10, "end of the input range")

	sampleCmd := &cobra.Command{
		Use:   "sample <equation>",
		Short: "sample an equation into a polyline",
		Args:  cobra.ExactArgs(1),
		RunE:  sampleEquation,
	}
	sampleCmd.Flags().Float64Var(&from, "from", -10, "start of the input range")
	sampleCmd.Flags().Float64Var(&to, "to", 10, "end of the input range")
	sampleCmd.Flags().StringVar(&format, "format", "json", "output format (json, csv, svg)")
	sampleCmd.Flags().StringVar(&outPath, "out", "-", "output file, - for stdout")

	runCmd := &cobra.Command{
		Use:   "run [level]",
		Short: "run a level headlessly and save the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLevel,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&live, "live", false, "draw the run in the terminal")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --live")
	runCmd.Flags().StringVar(&exportPath, "export", "", "also write the run as JSON to this file, - for stdout")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final scene as SVG to this file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show <run_id>",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	levelsCmd := &cobra.Command{
		Use:   "levels",
		Short: "list levels",
		RunE:  listLevels,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario <file>",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [level]",
		Short: "sweep a physics parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&paramName, "param", "gravity", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&paramMin, "min", -20, "first value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", -5, "last value")
	sweepCmd.Flags().IntVar(&numSteps, "steps", 5, "number of values")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [level]",
		Short: "replay a solution with a jittered spawn point",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addRunFlags(monteCarloCmd)
	monteCarloCmd.Flags().Float64Var(&jitter, "jitter", 0.5, "maximum spawn offset per axis")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 for time based")

	searchCmd := &cobra.Command{
		Use:   "search [level]",
		Short: "grid search physics parameters against a run metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSearch,
	}
	addRunFlags(searchCmd)
	searchCmd.Flags().StringArrayVar(&grid, "grid", nil, "name=v1,v2,... (repeatable)")
	searchCmd.Flags().StringVar(&metric, "metric", "first_star_time", "metric to optimise")
	searchCmd.Flags().BoolVar(&maximize, "maximize", false, "keep the highest value instead of the lowest")

	rootCmd.AddCommand(playCmd, guiCmd, plotCmd, sampleCmd, runCmd, listCmd, showCmd, levelsCmd,
		scenarioCmd, sweepCmd, monteCarloCmd, searchCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&equations, "eq", nil, "equation to draw (repeatable)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep, 0 for the config value")
	cmd.Flags().Float64Var(&duration, "time", 10, "duration in seconds")
	cmd.Flags().Float64Var(&spawnEvery, "spawn-every", 0, "seconds between drops, 0 for the config value")
}

func setupLogger(w io.Writer) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q", logLevel)
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if logJSON {
		h = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(h))
	return nil
}

// interactiveLogger keeps the terminal clean: logs go to --log-file or
// nowhere.
func interactiveLogger() (*slog.Logger, func(), error) {
	if logFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	if err := setupLogger(f); err != nil {
		f.Close()
		return nil, nil, err
	}
	return slog.Default(), func() { f.Close() }, nil
}

func loadConfig(args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}
	if err := config.ApplyEnv(cfg, envFile); err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Level = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func sessionFactory(cfg *config.Config, log *slog.Logger) func(level string) (*game.Session, error) {
	return func(level string) (*game.Session, error) {
		c := *cfg
		c.Level = level
		return game.New(&c, game.WithLogger(log))
	}
}

func playGame(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	log, closeLog, err := interactiveLogger()
	if err != nil {
		return err
	}
	defer closeLog()
	viz.SetTheme(theme)

	factory := sessionFactory(cfg, log)
	if len(args) == 0 {
		return viz.RunInteractive(factory)
	}
	s, err := factory(cfg.Level)
	if err != nil {
		return err
	}
	return viz.RunPlay(s)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	log, closeLog, err := interactiveLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	factory := sessionFactory(cfg, log)
	if len(args) == 0 {
		gui.RunInteractive(factory)
		return nil
	}
	s, err := factory(cfg.Level)
	if err != nil {
		return err
	}
	gui.Run(s, factory)
	return nil
}
