package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/san-kum/flightcore/internal/analysis"
	"github.com/san-kum/flightcore/internal/config"
	"github.com/san-kum/flightcore/internal/control"
	"github.com/san-kum/flightcore/internal/dynamo"
	"github.com/san-kum/flightcore/internal/export"
	"github.com/san-kum/flightcore/internal/integrators"
	"github.com/san-kum/flightcore/internal/metrics"
	"github.com/san-kum/flightcore/internal/mixbus"
	"github.com/san-kum/flightcore/internal/optim"
	"github.com/san-kum/flightcore/internal/pilot"
	"github.com/san-kum/flightcore/internal/sim"
	"github.com/san-kum/flightcore/internal/storage"
	"github.com/san-kum/flightcore/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logger   *log.Logger

	configFile string
	preset     string
	controller string
	scenario   string
	integrator string
	mounting   string
	dt         float64
	duration   float64
	seed       int64
	roll0      float64
	pitch0     float64
	numRuns    int
	save       bool
	jsonOut    string

	plotColumns []string
	svgOut      string
	analyzeCol  string
	pick        bool

	tuneParams   []string
	tuneMetric   string
	tuneMaximize bool
)

// gainFlags maps CLI flag names onto config gain names.
var gainFlags = map[string]string{
	"level-p": "level_p",
	"level-i": "level_i",
	"rate-p":  "rate_pitchroll_p",
	"rate-i":  "rate_pitchroll_i",
	"rate-d":  "rate_pitchroll_d",
	"yaw-p":   "yaw_p",
	"yaw-i":   "yaw_i",
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "flightcore",
		Short: "multirotor attitude stabilization lab",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = log.NewWithOptions(os.Stderr, log.Options{
				Level:           lvl,
				ReportTimestamp: true,
				TimeFormat:      time.Kitchen,
				Prefix:          "flightcore",
			})
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(sim.InitialState(0, 0, 0), logger)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".flightcore", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a closed-loop scenario",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&numRuns, "runs", 1, "number of seeded runs to average")
	runCmd.Flags().BoolVar(&save, "save", true, "store the run under the data directory")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "also export the run to this JSON file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&plotColumns, "columns", []string{"roll", "pitch", "out_roll", "out_pitch"}, "columns to plot")
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the columns to this SVG file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "find oscillation in a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeCol, "column", "roll", "column to analyze")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets, scenarios, controllers and integrators",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			fmt.Printf("scenarios:   %s\n", strings.Join(pilot.Scenarios(), ", "))
			fmt.Printf("controllers: %s\n", strings.Join(control.Names(), ", "))
			fmt.Printf("integrators: %s\n", strings.Join(integrators.Names(), ", "))
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "fly a scenario with a live attitude view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().BoolVar(&pick, "pick", false, "choose a preset from a menu")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search stabilizer gains",
		Args:  cobra.NoArgs,
		RunE:  tuneGains,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "gain grid as name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "tracking_error", "metric to optimize")
	tuneCmd.Flags().BoolVar(&tuneMaximize, "maximize", false, "maximize the metric instead of minimizing")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if preset != "" {
				if cfg = config.GetPreset(preset); cfg == nil {
					return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
				}
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	configInitCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportJSONCmd, presetsCmd, liveCmd, tuneCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&controller, "controller", config.ControllerStabilize, "controller (stabilize, acro)")
	f.StringVar(&scenario, "scenario", "hover", "pilot scenario")
	f.StringVar(&integrator, "integrator", "rk4", "integrator")
	f.StringVar(&mounting, "mounting", config.MountingNormal, "imu mounting (normal, inverted)")
	f.Float64Var(&dt, "dt", config.DefaultDt, "control tick in seconds")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	f.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	f.Float64Var(&roll0, "roll0", 0, "initial roll in degrees")
	f.Float64Var(&pitch0, "pitch0", 0, "initial pitch in degrees")
	for name, param := range gainFlags {
		f.Float64(name, 0, "stabilizer gain "+param)
	}
}

// loadConfig layers defaults, preset, config file and changed flags, in
// that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("controller") {
		cfg.Controller = controller
	}
	if flags.Changed("scenario") {
		cfg.Sim.Scenario = scenario
	}
	if flags.Changed("integrator") {
		cfg.Sim.Integrator = integrator
	}
	if flags.Changed("mounting") {
		cfg.IMU.Mounting = mounting
	}
	if flags.Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Sim.Duration = duration
	}
	if flags.Changed("seed") || cfg.Sim.Seed == 0 {
		cfg.Sim.Seed = seed
	}
	for name, param := range gainFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetFloat64(name)
		if err != nil {
			return nil, err
		}
		if err := cfg.SetControllerParam(param, v); err != nil {
			return nil, err
		}
	}

	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	x0 := sim.InitialState(roll0, pitch0, 0)
	standard := func() []dynamo.Metric { return metrics.Standard(cfg.IMU.MaxInclination) }

	if numRuns > 1 {
		return runEnsemble(ctx, cfg, x0, standard)
	}

	var extra []mixbus.Writer
	if cfg.MixBus.Interface != "" {
		bus, err := mixbus.DialSocketCAN(ctx, cfg.MixBus.Interface)
		if err != nil {
			return err
		}
		defer bus.Close()
		extra = append(extra, bus)
		logger.Info("publishing to mixer bus", "iface", cfg.MixBus.Interface)
	}

	s, err := sim.New(cfg, logger, extra...)
	if err != nil {
		return err
	}
	for _, m := range standard() {
		s.AddMetric(m)
	}

	logger.Info("running", "scenario", cfg.Sim.Scenario, "controller", cfg.Controller)
	start := time.Now()

	result, err := s.Run(ctx, x0, sim.ConfigFrom(cfg.Sim))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Scenario:   cfg.Sim.Scenario,
		Controller: cfg.Controller,
		Preset:     preset,
		Seed:       cfg.Sim.Seed,
		Dt:         cfg.Sim.Dt,
		Duration:   cfg.Sim.Duration,
		Integrator: cfg.Sim.Integrator,
		Mounting:   cfg.IMU.Mounting,
		Gains:      cfg.GetControllerParams(),
	}

	fmt.Printf("completed in %v\n", elapsed)
	if save {
		st := storage.New(dataDir, logger)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(meta, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	if jsonOut != "" {
		if err := storage.ExportJSONFile(jsonOut, meta, result); err != nil {
			return err
		}
	}

	fmt.Printf("steps: %d (stale %d, frames %d)\n", result.StepsTaken, result.StaleTicks, result.Frames)
	printMetrics(result.Metrics)
	return nil
}

func runEnsemble(ctx context.Context, cfg *config.Config, x0 dynamo.State, standard func() []dynamo.Metric) error {
	logger.Info("running ensemble", "runs", numRuns, "scenario", cfg.Sim.Scenario)
	results, err := sim.NewEnsemble(cfg, numRuns, standard, logger).Run(ctx, x0)
	if err != nil {
		return err
	}
	fmt.Printf("ensemble of %d runs (seeds %d..%d)\n", numRuns, cfg.Sim.Seed, cfg.Sim.Seed+int64(numRuns-1))
	printMetrics(sim.MeanMetrics(results))
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
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, logger)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tCTRL\tTIME\tDURATION\tDT\tINTEG\tSTALE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\n",
			run.ID,
			run.Scenario,
			run.Controller,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.StaleTicks,
		)
	}

	return w.Flush()
}

var columnCaptions = map[string]string{
	"roll":      "roll (rad)",
	"pitch":     "pitch (rad)",
	"yaw":       "yaw (rad)",
	"p":         "roll rate (rad/s)",
	"q":         "pitch rate (rad/s)",
	"r":         "yaw rate (rad/s)",
	"out_roll":  "roll output",
	"out_pitch": "pitch output",
	"out_yaw":   "yaw output",
	"throttle":  "throttle demand",
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir, logger)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	rows, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s (%s)\n", meta.Scenario, meta.Controller)
	fmt.Printf("samples: %d\n\n", len(rows))

	var series []export.Series
	for _, name := range plotColumns {
		data, err := column(rows, name)
		if err != nil {
			return err
		}
		series = append(series, export.Series{Name: name, Values: data})

		caption, ok := columnCaptions[name]
		if !ok {
			caption = name
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgOut != "" {
		f, err := os.Create(svgOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.TraceSVG(f, times, series, 800, 300); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}

	return nil
}

func column(rows [][]float64, name string) ([]float64, error) {
	col := storage.Column(name)
	if col < 0 {
		return nil, fmt.Errorf("unknown column: %s (available: %v)", name, storage.Columns)
	}
	data := make([]float64, len(rows))
	for i, row := range rows {
		if col < len(row) {
			data[i] = row[col]
		}
	}
	return data, nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir, logger)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data")
	}

	data, err := column(rows, analyzeCol)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s, column: %s\n\n", meta.Scenario, analyzeCol)

	if ps := analysis.PowerSpectrum(data); len(ps) >= 8 {
		graph := asciigraph.Plot(ps[:len(ps)/4],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+analyzeCol+")"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	peak := analysis.Oscillation(data, meta.Dt)
	if peak.Frequency == 0 {
		fmt.Println("no oscillation found")
		return nil
	}
	fmt.Printf("dominant frequency: %.3f hz (%.0f%% of spectral power)\n", peak.Frequency, 100*peak.Ratio)
	fmt.Printf("period: %.3f s\n", 1/peak.Frequency)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, logger)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, logger)
	meta, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, result)
}

func runLive(cmd *cobra.Command, args []string) error {
	x0 := sim.InitialState(roll0, pitch0, 0)
	if pick {
		return viz.RunInteractive(x0, logger)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the view; only errors reach stderr.
	logger.SetLevel(log.ErrorLevel)
	return viz.RunLive(cfg, x0, logger)
}

// parseGrid reads "name=v1,v2,..." arguments.
func parseGrid(args []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(args))
	ranges := make([][]float64, 0, len(args))
	for _, arg := range args {
		name, list, ok := strings.Cut(arg, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("bad --param %q, want name=v1,v2", arg)
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "param %s", name)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func tuneGains(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(tuneParams) == 0 {
		tuneParams = []string{"level_p=0.05,0.1,0.2", "rate_pitchroll_p=0.08,0.125,0.2"}
		if !cmd.Flags().Changed("scenario") && configFile == "" && preset == "" {
			cfg.Sim.Scenario = "roll-step"
		}
	}

	names, ranges, err := parseGrid(tuneParams)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	gs := optim.NewGridSearch(names, ranges)
	if tuneMaximize {
		gs.Maximize()
	}

	progress := &optim.Progress{}
	x0 := sim.InitialState(roll0, pitch0, 0)
	logger.Info("tuning", "candidates", gs.Size(), "metric", tuneMetric, "scenario", cfg.Sim.Scenario)

	start := time.Now()
	best, score, err := gs.Search(ctx, progress.Wrap(optim.SimEvaluator(cfg, x0)), tuneMetric)
	if err != nil {
		return err
	}

	fmt.Printf("evaluated %d candidates in %v\n", progress.Done(), time.Since(start))
	fmt.Printf("best %s: %.6f\n", tuneMetric, score)
	for _, name := range names {
		fmt.Printf("  %s: %g\n", name, best[name])
	}
	return nil
}
