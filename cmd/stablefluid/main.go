package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/stablefluid/internal/analysis"
	"github.com/san-kum/stablefluid/internal/automation"
	"github.com/san-kum/stablefluid/internal/config"
	"github.com/san-kum/stablefluid/internal/export"
	"github.com/san-kum/stablefluid/internal/fluid"
	"github.com/san-kum/stablefluid/internal/gui"
	"github.com/san-kum/stablefluid/internal/logging"
	"github.com/san-kum/stablefluid/internal/metrics"
	"github.com/san-kum/stablefluid/internal/render"
	"github.com/san-kum/stablefluid/internal/server"
	"github.com/san-kum/stablefluid/internal/sim"
	"github.com/san-kum/stablefluid/internal/storage"
	"github.com/san-kum/stablefluid/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string

	size       int
	dt         float64
	diffusion  float64
	viscosity  float64
	iterations int
	frames     int
	scenario   string

	maxValue float64
	scale    int
	fps      int

	gifPath   string
	gifEvery  int
	pngPath   string
	column    string
	xColumn   string
	yColumn   string
	format    string
	outPath   string
	addr      string
	perturb   float64
	paramName string
	paramMin  float64
	paramMax  float64
	numSteps  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "stablefluid",
		Short:         "interactive 2d stable-fluids solver",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Configure(os.Stderr, logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return gui.Run(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".stablefluid", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "start from a named preset")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "off", "log level (debug, info, warn, error, off)")

	rootCmd.PersistentFlags().IntVar(&size, "size", config.DefaultSize, "grid edge length")
	rootCmd.PersistentFlags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	rootCmd.PersistentFlags().Float64Var(&diffusion, "diffusion", config.DefaultDiffusion, "density diffusion rate")
	rootCmd.PersistentFlags().Float64Var(&viscosity, "viscosity", config.DefaultViscosity, "velocity viscosity")
	rootCmd.PersistentFlags().IntVar(&iterations, "iter", config.DefaultIterations, "relaxation sweeps per solve")
	rootCmd.PersistentFlags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	rootCmd.PersistentFlags().StringVar(&scenario, "scenario", "", "built-in scenario name or yaml file")
	rootCmd.PersistentFlags().Float64Var(&maxValue, "max-value", config.DefaultMaxValue, "colormap saturation value")
	rootCmd.PersistentFlags().IntVar(&scale, "scale", config.DefaultScale, "pixels per cell")
	rootCmd.PersistentFlags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate for interactive views")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scripted simulation and store its metrics",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&gifPath, "gif", "", "record the density field to an animated gif")
	runCmd.Flags().IntVar(&gifEvery, "gif-every", 5, "capture every n-th frame")
	runCmd.Flags().StringVar(&pngPath, "png", "", "write the final density field as png")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "metric", "", "metric to plot (default: all)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "statistics, spectrum and phase portrait of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "metric", "kinetic_energy", "metric to analyze")
	analyzeCmd.Flags().StringVar(&xColumn, "x", "", "phase portrait x metric")
	analyzeCmd.Flags().StringVar(&yColumn, "y", "", "phase portrait y metric")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as json, csv or svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json, csv or svg")
	exportCmd.Flags().StringVar(&column, "metric", "total_density", "metric for svg export")
	exportCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file]",
		Short: "render the density field after --frames frames",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshot,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure step throughput across grid sizes and sweep counts",
		Args:  cobra.NoArgs,
		RunE:  bench,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tDT\tDIFF\tVISC\tITER")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%g\t%d\n", name, p.Fluid.Size, p.Fluid.Dt, p.Fluid.Diffusion, p.Fluid.Viscosity, p.Fluid.Iterations)
			}
			return w.Flush()
		},
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFRAMES\tLOOP\tDESCRIPTION")
			for _, name := range automation.Builtins() {
				s, _ := automation.Builtin(name)
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", name, s.Duration(), s.Loop, s.Description)
			}
			return w.Flush()
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [preset] ...",
		Short: "run one scenario under several presets side by side",
		Args:  cobra.MinimumNArgs(2),
		RunE:  comparePresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a scenario across a range of one fluid parameter",
		Args:  cobra.NoArgs,
		RunE:  sweep,
	}
	sweepCmd.Flags().StringVar(&paramName, "param", "viscosity", "parameter to vary ("+strings.Join(automation.SweepParams(), ", ")+")")
	sweepCmd.Flags().Float64Var(&paramMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 0.001, "last value")
	sweepCmd.Flags().IntVar(&numSteps, "steps", 5, "number of values")

	sensitivityCmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "measure how a small velocity kick grows or decays",
		Args:  cobra.NoArgs,
		RunE:  sensitivity,
	}
	sensitivityCmd.Flags().Float64Var(&perturb, "kick", 1e-3, "size of the velocity perturbation")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, script, err := loadConfigAndScript(cmd)
			if err != nil {
				return err
			}
			return viz.Run(cfg, script)
		},
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "interactive window (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return gui.Run(cfg)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream the fluid to browsers over websocket",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCmd, snapshotCmd, benchCmd,
		presetsCmd, scenariosCmd, compareCmd, sweepCmd, sensitivityCmd, liveCmd, guiCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, preset, config file and explicitly set flags,
// in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.Fluid.Size = size
	}
	if flags.Changed("dt") {
		cfg.Fluid.Dt = dt
	}
	if flags.Changed("diffusion") {
		cfg.Fluid.Diffusion = diffusion
	}
	if flags.Changed("viscosity") {
		cfg.Fluid.Viscosity = viscosity
	}
	if flags.Changed("iter") {
		cfg.Fluid.Iterations = iterations
	}
	if flags.Changed("frames") {
		cfg.Run.Frames = frames
	}
	if flags.Changed("scenario") {
		cfg.Run.Scenario = scenario
	}
	if flags.Changed("max-value") {
		cfg.Render.MaxValue = maxValue
	}
	if flags.Changed("scale") {
		cfg.Render.Scale = scale
	}
	if flags.Changed("fps") {
		cfg.Render.FPS = fps
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigAndScript(cmd *cobra.Command) (*config.Config, sim.Script, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	sc, err := automation.Resolve(cfg.Run.Scenario)
	if err != nil {
		return nil, nil, err
	}
	return cfg, sc.Player(cfg.Fluid.Size), nil
}

type captureObserver struct{ rec *export.Recorder }

func (c captureObserver) OnFrame(f *fluid.Fluid, frame int) { c.rec.Capture(f.Density()) }

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, script, err := loadConfigAndScript(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := sim.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}
	cm := render.NewColormap(cfg.Render)

	var rec *export.Recorder
	if gifPath != "" {
		rec = export.NewRecorder(cm, max(cfg.Render.Scale/2, 1), gifEvery, 4)
		s.AddObserver(captureObserver{rec})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, runErr := s.Run(ctx, sim.Config{
		Frames:        cfg.Run.Frames,
		Iterations:    cfg.Fluid.Iterations,
		ValidateState: true,
	}, script)
	if result == nil {
		return runErr
	}

	name := cfg.Run.Scenario
	if name == "" {
		name = "none"
	}
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))

	id, err := st.Save(name, cfg, result, runErr)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", id)
	fmt.Printf("frames: %d  elapsed: %v\n", result.Frames, result.Elapsed.Round(time.Millisecond))
	printMetrics(result.Metrics)

	if rec != nil {
		if err := rec.Save(gifPath); err != nil {
			return err
		}
		fmt.Printf("gif: %s (%d frames)\n", gifPath, rec.Len())
	}
	if pngPath != "" {
		if err := export.SavePNG(pngPath, s.Fluid().Density(), cm, cfg.Render.Scale); err != nil {
			return err
		}
		fmt.Printf("png: %s\n", pngPath)
	}
	return runErr
}

func printMetrics(m map[string]float64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(m) {
		fmt.Fprintf(w, "  %s\t%.6g\n", name, m[name])
	}
	w.Flush()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tFRAMES\tSIZE\tDT\tSTATUS")
	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%g\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Config.Fluid.Size,
			run.Config.Fluid.Dt,
			status,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("frames: %d\n\n", len(series.Times))

	names := series.Names
	if column != "" {
		if _, ok := series.Columns[column]; !ok {
			return fmt.Errorf("unknown metric %q (available: %v)", column, series.Names)
		}
		names = []string{column}
	}
	for _, name := range names {
		fmt.Println(plot(series.Columns[name], 10, name))
		fmt.Println()
	}
	return nil
}

// plot drops non-finite samples, which asciigraph cannot scale.
func plot(data []float64, height int, caption string) string {
	clean := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return caption + ": no finite samples"
	}
	return asciigraph.Plot(clean,
		asciigraph.Height(height),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	raw, ok := series.Columns[column]
	if !ok || len(raw) == 0 {
		return fmt.Errorf("no data for metric %q", column)
	}
	data := analysis.FinitePrefix(raw)
	if len(data) == 0 {
		return fmt.Errorf("metric %q has no finite samples", column)
	}

	fmt.Printf("analysis: %s (%s)\n", meta.ID, column)
	if len(data) < len(raw) {
		fmt.Printf("run went non-finite at frame %d; analysing the first %d frames\n", len(data), len(data))
	}
	fmt.Println()

	stats := analysis.Summarize(data)
	fmt.Printf("min %.6g  max %.6g  mean %.6g  stddev %.6g\n\n", stats.Min, stats.Max, stats.Mean, stats.StdDev)

	ps := analysis.PowerSpectrum(data)
	if len(ps) > 1 {
		fmt.Println(plot(ps[1:], 15, "power spectrum ("+column+")"))
		fmt.Println()
	}

	freq, power := analysis.DominantFrequency(data, meta.Config.Fluid.Dt)
	fmt.Printf("dominant frequency: %.3f hz (power %.3g)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	if xColumn != "" && yColumn != "" {
		xs, okX := series.Columns[xColumn]
		ys, okY := series.Columns[yColumn]
		if !okX || !okY {
			return fmt.Errorf("phase portrait needs two stored metrics (available: %v)", series.Names)
		}
		fmt.Printf("\nphase portrait: %s vs %s\n", yColumn, xColumn)
		fmt.Println(analysis.NewPortrait(xColumn, xs, yColumn, ys).ASCII(60, 20))
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		return st.ExportJSON(out, runID)
	case "csv":
		f, err := os.Open(filepath.Join(st.Dir(runID), "series.csv"))
		if err != nil {
			return fmt.Errorf("%w: %s", storage.ErrRunNotFound, runID)
		}
		defer f.Close()
		_, err = f.WriteTo(out)
		return err
	case "svg":
		series, err := st.LoadSeries(runID)
		if err != nil {
			return err
		}
		values, ok := series.Columns[column]
		if !ok {
			return fmt.Errorf("unknown metric %q (available: %v)", column, series.Names)
		}
		_, err = fmt.Fprintln(out, export.SeriesToSVG(series.Times, values, 640, 240, "#4ecdc4"))
		return err
	}
	return fmt.Errorf("unknown format %q (json, csv, svg)", format)
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, script, err := loadConfigAndScript(cmd)
	if err != nil {
		return err
	}
	s, err := sim.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	if _, err := s.Run(context.Background(), sim.Config{
		Frames:        cfg.Run.Frames,
		Iterations:    cfg.Fluid.Iterations,
		ValidateState: true,
	}, script); err != nil {
		return err
	}

	cm := render.NewColormap(cfg.Render)
	path := args[0]
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return os.WriteFile(path, []byte(export.GridToSVG(s.Fluid().Density(), cm, float64(cfg.Render.Scale))), 0644)
	}
	return export.SavePNG(path, s.Fluid().Density(), cm, cfg.Render.Scale)
}

func bench(cmd *cobra.Command, args []string) error {
	sizes := []int{64, 128, 256}
	sweeps := []int{1, 4, 20}
	const steps = 50

	fmt.Printf("benchmarking %d steps per case\n\n", steps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tITER\tTIME\tSTEPS/SEC")

	for _, n := range sizes {
		for _, iter := range sweeps {
			f, err := fluid.New(n, config.DefaultDt, config.DefaultDiffusion, config.DefaultViscosity)
			if err != nil {
				return err
			}
			f.AddDensity(n/2, n/2, n/16, 100)
			f.AddVelocity(n/2, n/2, n/16, 5, 3)

			start := time.Now()
			for i := 0; i < steps; i++ {
				f.Step(iter)
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n", n, iter, elapsed.Round(time.Microsecond), float64(steps)/elapsed.Seconds())
		}
	}
	return w.Flush()
}

func comparePresets(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.Resolve(base.Run.Scenario)
	if err != nil {
		return err
	}

	jobs := make([]sim.Job, len(args))
	for i, name := range args {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		cfg.Run = base.Run
		jobs[i] = sim.Job{Name: name, Config: cfg, Script: sc.Player(cfg.Fluid.Size)}
	}

	fmt.Printf("comparing %d presets on scenario %q (%d frames)\n\n", len(args), base.Run.Scenario, base.Run.Frames)

	results, errs := sim.NewEnsemble(jobs, nil).RunEach(context.Background())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tFRAMES\tTIME\tENERGY\tDENSITY\tMAX DIV\tSTATUS")
	for i, job := range jobs {
		r := results[i]
		status := "ok"
		if errs[i] != nil {
			status = errs[i].Error()
		}
		if r == nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\t%s\n", job.Name, status)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%v\t%.4g\t%.4g\t%.3g\t%s\n",
			job.Name, r.Frames, r.Elapsed.Round(time.Millisecond),
			r.Metrics["kinetic_energy"], r.Metrics["total_density"], r.Metrics["max_divergence"], status)
	}
	return w.Flush()
}

func sweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.Resolve(cfg.Run.Scenario)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(context.Background(), &automation.ParameterSweep{
		Base:      cfg,
		Scenario:  sc,
		ParamName: paramName,
		ParamMin:  paramMin,
		ParamMax:  paramMax,
		NumSteps:  numSteps,
	})
	if err != nil {
		return err
	}

	energy := make([]float64, 0, len(results))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tENERGY\tDENSITY\tMAX DIV\tSTATUS\n", strings.ToUpper(paramName))
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		var m map[string]float64
		if r.Result != nil {
			m = r.Result.Metrics
		}
		energy = append(energy, m["kinetic_energy"])
		fmt.Fprintf(w, "%g\t%.4g\t%.4g\t%.3g\t%s\n", r.ParamValue, m["kinetic_energy"], m["total_density"], m["max_divergence"], status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(energy) > 1 {
		fmt.Println()
		fmt.Println(plot(energy, 8, "final kinetic energy vs "+paramName))
	}
	return nil
}

func sensitivity(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.Resolve(cfg.Run.Scenario)
	if err != nil {
		return err
	}

	res, err := analysis.Sensitivity(context.Background(), cfg, func() sim.Script {
		return sc.Player(cfg.Fluid.Size)
	}, cfg.Run.Frames, perturb)
	if err != nil {
		return err
	}

	fmt.Println(plot(res.Separation, 10, "velocity separation"))
	fmt.Printf("\nrate: %.4f per second\n", res.Rate)
	if res.Rate < 0 {
		fmt.Println("perturbation decays")
	} else {
		fmt.Println("perturbation grows")
	}
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	srv, err := server.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("serving on %s\n", addr)
	return srv.ListenAndServe(ctx, addr)
}
