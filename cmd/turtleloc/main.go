package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/config"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/experiment"
)

var (
	dataDir string
	verbose bool
	logger  = zap.NewNop()

	// Oracle and grid
	sf      float64
	sw      float64
	offset  []float64
	start   float64
	stop    float64
	samples int
	// Verification
	eps       float64
	tolerance float64
	// Config file
	configFile string
	// Preset name
	preset string

	// Output
	doPlot  bool
	svgPath string
	outPath string
	column  string
	group   string

	// Scatter camera
	rotX, rotY, rotZ float64
	zoomSteps        int

	// Sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

var registry = experiment.NewRegistry()

func main() {
	rootCmd := newRootCmd()

	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stopSignals()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "turtleloc",
		Short: "reference trajectories for turtle-inspired locomotion",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".turtleloc", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [oracle]",
		Short: "sample an oracle and store the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOracle,
	}
	addOracleFlags(runCmd)
	runCmd.Flags().BoolVar(&doPlot, "plot", false, "print time series after sampling")
	addPlotFlags(runCmd)

	verifyCmd := &cobra.Command{
		Use:   "verify [oracle]",
		Short: "check derivatives, periodicity and offset of an oracle",
		Args:  cobra.MaximumNArgs(1),
		RunE:  verifyOracle,
	}
	addOracleFlags(verifyCmd)
	verifyCmd.Flags().Float64Var(&eps, "eps", config.DefaultEps, "central difference step")
	verifyCmd.Flags().Float64Var(&tolerance, "tolerance", config.DefaultTolerance, "maximum residual")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&group, "group", "", "plot only this column group (e.g. q_d)")
	addPlotFlags(plotCmd)

	scatterCmd := &cobra.Command{
		Use:   "scatter [run_id]",
		Short: "3D scatter of position coloured by speed",
		Args:  cobra.ExactArgs(1),
		RunE:  scatterRun,
	}
	scatterCmd.Flags().StringVar(&svgPath, "svg", "", "also write the scatter to this SVG file")
	scatterCmd.Flags().Int("width", 60, "canvas width in cells")
	scatterCmd.Flags().Int("height", 24, "canvas height in cells")
	scatterCmd.Flags().Float64Var(&rotX, "rot-x", 0, "extra camera rotation about x (rad)")
	scatterCmd.Flags().Float64Var(&rotY, "rot-y", 0, "extra camera rotation about y (rad)")
	scatterCmd.Flags().Float64Var(&rotZ, "rot-z", 0, "extra camera rotation about z (rad)")
	scatterCmd.Flags().IntVar(&zoomSteps, "zoom", 0, "zoom steps, negative zooms out")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "write a time series SVG of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  svgRun,
	}
	svgCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.svg)")
	svgCmd.Flags().StringVar(&group, "group", "", "include only this column group")
	svgCmd.Flags().Int("width", 800, "image width")
	svgCmd.Flags().Int("height", 400, "image height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "", "column to analyse (default first)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [oracle]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	oraclesCmd := &cobra.Command{
		Use:   "oracles",
		Short: "list registered oracles",
		RunE:  listOracles,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of oracle runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [oracle]",
		Short: "verify an oracle across a range of sf or sw",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addOracleFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&eps, "eps", config.DefaultEps, "central difference step")
	sweepCmd.Flags().Float64Var(&tolerance, "tolerance", config.DefaultTolerance, "maximum residual")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "sw", "parameter to sweep (sf or sw)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.5, "first parameter value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2.0, "last parameter value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 4, "number of parameter values")

	rootCmd.AddCommand(runCmd, verifyCmd, listCmd, plotCmd, scatterCmd, svgCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, presetsCmd, oraclesCmd, scenarioCmd, sweepCmd)
	return rootCmd
}

func addOracleFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&sf, "sf", config.DefaultSF, "spatial scale factor")
	cmd.Flags().Float64Var(&sw, "sw", config.DefaultSW, "temporal scale factor")
	cmd.Flags().Float64SliceVar(&offset, "offset", nil, "position offset, three comma separated values")
	cmd.Flags().Float64Var(&start, "start", config.DefaultStart, "first sample time")
	cmd.Flags().Float64Var(&stop, "stop", config.DefaultStop, "last sample time")
	cmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "number of samples")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func addPlotFlags(cmd *cobra.Command) {
	cmd.Flags().Int("width", 80, "plot width")
	cmd.Flags().Int("height", 10, "plot height")
}

// resolveConfig layers preset, config file and changed flags, in that
// order, over the defaults.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if name == "" {
			name = loaded.Oracle
		}
		cfg = loaded
	}
	if name == "" {
		name = cfg.Oracle
	}

	canonical, err := registry.Canonical(name)
	if err != nil {
		return nil, err
	}

	if preset != "" {
		p := config.GetPreset(canonical, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(canonical))
		}
		if configFile == "" {
			cfg = p
		} else {
			// config file values win over the preset
			keys, err := config.Keys(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read config keys: %w", err)
			}
			config.Merge(p, cfg, keys)
			cfg = p
		}
	}
	cfg.Oracle = canonical

	flags := cmd.Flags()
	if flags.Changed("sf") {
		cfg.Scale.SF = sf
	}
	if flags.Changed("sw") {
		cfg.Scale.SW = sw
	}
	if flags.Changed("offset") {
		cfg.Offset = offset
	}
	if flags.Changed("start") {
		cfg.Grid.Start = start
	}
	if flags.Changed("stop") {
		cfg.Grid.Stop = stop
	}
	if flags.Changed("samples") {
		cfg.Grid.Samples = samples
	}
	if flags.Changed("eps") {
		cfg.Verify.Eps = eps
	}
	if flags.Changed("tolerance") {
		cfg.Verify.Tolerance = tolerance
	}
	if cfg.DataDir != "" && !flags.Changed("data") {
		dataDir = cfg.DataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func experimentFor(cfg *config.Config) (*experiment.Experiment, error) {
	off, err := cfg.OffsetVec()
	if err != nil {
		return nil, err
	}
	return experiment.New(experiment.Config{
		Oracle:    cfg.Oracle,
		Scale:     cfg.Scale,
		Offset:    off,
		Start:     cfg.Grid.Start,
		Stop:      cfg.Grid.Stop,
		Samples:   cfg.Grid.Samples,
		Eps:       cfg.Verify.Eps,
		Tolerance: cfg.Verify.Tolerance,
	}, registry, logger), nil
}

func runDir(id string) string {
	return filepath.Join(dataDir, id)
}
