package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/analysis"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/automation"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/config"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/export"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/oracle"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/sampling"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/storage"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/viz"
)

func runOracle(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := experimentFor(cfg)
	if err != nil {
		return err
	}

	o, res, err := exp.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("sampling failed: %w", err)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(storage.RunMetadata{
		Oracle: o.Name,
		Scale:  o.Scale,
		Offset: o.Offset,
		Period: o.Period,
		Start:  cfg.Grid.Start,
		Stop:   cfg.Grid.Stop,
	}, res)
	if err != nil {
		return fmt.Errorf("failed to store run: %w", err)
	}
	logger.Info("run stored", zap.String("id", id), zap.String("path", runDir(id)))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", id)
	fmt.Fprintf(out, "oracle: %s (sf=%g sw=%g offset=%s)\n", o.Name, o.Scale.SF, o.Scale.SW, o.Offset)
	fmt.Fprintf(out, "period: %.6f s\n", o.Period)
	fmt.Fprintf(out, "samples: %d over [%g, %g]\n", len(res.Times), cfg.Grid.Start, cfg.Grid.Stop)

	if doPlot {
		fmt.Fprintln(out)
		return printPlots(cmd, res, "")
	}
	return nil
}

func verifyOracle(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := experimentFor(cfg)
	if err != nil {
		return err
	}

	report, err := exp.Verify(cmd.Context())
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	out := cmd.OutOrStdout()
	o := report.Oracle
	fmt.Fprintln(out, viz.HeaderStyle.Render(fmt.Sprintf("verify %s (sf=%g sw=%g offset=%s)", o.Name, o.Scale.SF, o.Scale.SW, o.Offset)))
	fmt.Fprintf(out, "grid: %d samples over [%g, %g], eps=%g\n\n", cfg.Grid.Samples, cfg.Grid.Start, cfg.Grid.Stop, cfg.Verify.Eps)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHECK\tRESIDUAL\tTOLERANCE\tSTATUS")
	for _, c := range report.Checks {
		status := viz.StatusPass.Render("PASS")
		if !c.Pass {
			status = viz.StatusFail.Render("FAIL")
		}
		fmt.Fprintf(w, "%s\t%.3e\t%.1e\t%s\n", c.Name, c.Value, c.Tolerance, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	names := make([]string, 0, len(report.Peaks))
	for name := range report.Peaks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "%s %s\n", viz.MetricLabel.Render(name+":"), viz.MetricValue.Render(fmt.Sprintf("%.6g", report.Peaks[name])))
	}

	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d checks above tolerance", len(failed), len(report.Checks))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tORACLE\tTIME\tSF\tSW\tPERIOD\tSAMPLES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%.4fs\t%d\n",
			run.ID,
			run.Oracle,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Scale.SF,
			run.Scale.SW,
			run.Period,
			run.Samples,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *sampling.Result, error) {
	meta, res, err := storage.New(dataDir).LoadResult(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	if len(res.Rows) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, res, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "oracle: %s\n", meta.Oracle)
	fmt.Fprintf(out, "samples: %d\n\n", len(res.Rows))
	return printPlots(cmd, res, group)
}

// printPlots draws one chart per column group, or only the named group.
func printPlots(cmd *cobra.Command, res *sampling.Result, only string) error {
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")

	groups := res.Groups
	if only != "" {
		g, err := res.Group(only)
		if err != nil {
			return err
		}
		groups = []sampling.Group{g}
	}

	out := cmd.OutOrStdout()
	for _, g := range groups {
		fmt.Fprintln(out, viz.PlotGroup(res, g, width, height))
		fmt.Fprintln(out)
	}
	return nil
}

// positionAndSpeed returns the first channel's position points and the
// norm of its velocity, which are the first two groups of every run.
func positionAndSpeed(res *sampling.Result) ([]oracle.Vec3, []float64, error) {
	if len(res.Groups) < 2 || res.Groups[0].Dim != 3 || res.Groups[1].Order != 1 {
		return nil, nil, fmt.Errorf("run has no three dimensional position channel")
	}
	vecs := res.Vectors(res.Groups[0])
	points := make([]oracle.Vec3, len(vecs))
	for i, v := range vecs {
		copy(points[i][:], v)
	}
	return points, res.Norms(res.Groups[1]), nil
}

func scatterRun(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	points, speeds, err := positionAndSpeed(res)
	if err != nil {
		return err
	}

	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	s := viz.NewScatter(width, height)
	s.Camera.RotateX(rotX)
	s.Camera.RotateY(rotY)
	s.Camera.RotateZ(rotZ)
	s.Camera.ZoomBy(zoomSteps)
	logger.Debug("scatter camera",
		zap.Float64("rot_x", s.Camera.RotX),
		zap.Float64("rot_y", s.Camera.RotY),
		zap.Float64("rot_z", s.Camera.RotZ),
		zap.Float64("zoom", s.Camera.Zoom),
	)

	lo, hi := speeds[0], speeds[0]
	for _, v := range speeds {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.HeaderStyle.Render(fmt.Sprintf("%s %s", meta.Oracle, res.Groups[0].Name)))
	fmt.Fprint(out, s.Render(points, speeds))
	fmt.Fprintln(out, viz.Legend("speed ["+res.Groups[1].Units+"]", lo, hi, s.Palette))

	if svgPath != "" {
		doc := export.ScatterSVG(s, points, speeds, width*10, height*20)
		if err := os.WriteFile(svgPath, []byte(doc), 0644); err != nil {
			return err
		}
		logger.Info("scatter written", zap.String("path", svgPath))
		fmt.Fprintf(out, "wrote %s\n", svgPath)
	}
	return nil
}

func svgRun(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}

	groups := res.Groups
	if group != "" {
		g, err := res.Group(group)
		if err != nil {
			return err
		}
		groups = []sampling.Group{g}
	}

	var series []export.Series
	for _, g := range groups {
		for k := 0; k < g.Dim; k++ {
			idx := g.Offset + k
			series = append(series, export.Series{Label: res.Columns[idx], Values: res.Column(idx)})
		}
	}

	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	doc := export.TimeSeriesSVG(res.Times, series, width, height)
	if doc == "" {
		return fmt.Errorf("run %s needs at least two samples", meta.ID)
	}

	path := outPath
	if path == "" {
		path = meta.ID + ".svg"
	}
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return err
	}
	logger.Info("time series written", zap.String("path", path), zap.Int("series", len(series)))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d series)\n", path, len(series))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(res.Times) < 2 {
		return fmt.Errorf("run %s needs at least two samples", meta.ID)
	}

	idx := 0
	if column != "" {
		idx = -1
		for i, name := range res.Columns {
			if name == column {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("unknown column %s (available: %s)", column, strings.Join(res.Columns, ", "))
		}
	}

	dt := res.Times[1] - res.Times[0]
	spec, err := analysis.Analyze(res.Column(idx), dt)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "frequency analysis: %s\n", meta.ID)
	fmt.Fprintf(out, "oracle: %s\n\n", meta.Oracle)

	plotData := spec.Power[:max(len(spec.Power)/4, 1)]
	fmt.Fprintln(out, viz.Plot(plotData, "power spectrum ("+res.Columns[idx]+")", 80, 15))
	fmt.Fprintln(out)

	freq := spec.Dominant()
	fmt.Fprintf(out, "dominant frequency: %.4f hz\n", freq)
	if freq > 0 {
		fmt.Fprintf(out, "period: %.4f s (expected %.4f s)\n", 1.0/freq, meta.Period)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(cmd.OutOrStdout(), res)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if outPath == "" {
		return storage.EncodeJSON(cmd.OutOrStdout(), meta, res)
	}
	if err := storage.ExportJSON(outPath, meta, res); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	var names []string
	if len(args) > 0 {
		canonical, err := registry.Canonical(args[0])
		if err != nil {
			return err
		}
		names = []string{canonical}
	} else {
		for _, n := range registry.Names() {
			if c, _ := registry.Canonical(n); c == n {
				names = append(names, n)
			}
		}
	}

	for _, name := range names {
		presets := config.ListPresets(name)
		if len(presets) == 0 {
			fmt.Fprintf(out, "no presets for oracle: %s\n", name)
			continue
		}
		fmt.Fprintf(out, "presets for %s:\n", name)
		for _, p := range presets {
			c := config.GetPreset(name, p)
			fmt.Fprintf(out, "  %-10s sf=%g sw=%g offset=%v grid=[%g, %g]x%d\n",
				p, c.Scale.SF, c.Scale.SW, c.Offset, c.Grid.Start, c.Grid.Stop, c.Grid.Samples)
		}
	}
	return nil
}

func listOracles(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORACLE\tALIASES\tCHANNELS")
	for _, name := range registry.Names() {
		if c, _ := registry.Canonical(name); c != name {
			continue
		}
		o, err := registry.Build(name, oracle.UnitScale, oracle.Vec3{})
		if err != nil {
			return err
		}
		chans := make([]string, len(o.Channels))
		for i, ch := range o.Channels {
			chans[i] = fmt.Sprintf("%s[%s]", ch.Name, ch.Units)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, strings.Join(registry.Aliases(name), ","), strings.Join(chans, " "))
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	results, runErr := automation.RunScenario(cmd.Context(), scenario, registry, logger)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.HeaderStyle.Render("scenario "+scenario.Name))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN\tORACLE\tSF\tSW\tSAMPLES\tVERIFY")
	failed := 0
	for i, r := range results {
		id, err := st.Save(storage.RunMetadata{
			Oracle: r.Oracle.Name,
			Scale:  r.Oracle.Scale,
			Offset: r.Oracle.Offset,
			Period: r.Oracle.Period,
			Start:  r.Config.Grid.Start,
			Stop:   r.Config.Grid.Stop,
		}, r.Result)
		if err != nil {
			return fmt.Errorf("failed to store step %d: %w", i+1, err)
		}
		if r.Step.SaveAs != "" {
			meta, err := st.Load(id)
			if err != nil {
				return err
			}
			if err := storage.ExportJSON(r.Step.SaveAs, meta, r.Result); err != nil {
				return fmt.Errorf("step %d save_as: %w", i+1, err)
			}
		}

		verdict := "-"
		if r.Report != nil {
			verdict = viz.StatusPass.Render("PASS")
			if !r.Report.Passed() {
				verdict = viz.StatusFail.Render("FAIL")
				failed++
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%g\t%g\t%d\t%s\n", i+1, id, r.Oracle.Name, r.Oracle.Scale.SF, r.Oracle.Scale.SW, len(r.Result.Times), verdict)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}
	if failed > 0 {
		return fmt.Errorf("%d scenario steps failed verification", failed)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, registry, logger)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.HeaderStyle.Render(fmt.Sprintf("sweep %s over %s", cfg.Oracle, sweepParam)))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPERIOD\tPEAK_SPEED\tMAX_RESIDUAL\tSTATUS\n", strings.ToUpper(sweepParam))
	failed := 0
	for _, r := range results {
		status := viz.StatusPass.Render("PASS")
		if !r.Passed {
			status = viz.StatusFail.Render("FAIL")
			failed++
		}
		fmt.Fprintf(w, "%g\t%.4f\t%.4f\t%.3e\t%s\n", r.ParamValue, r.Period, r.PeakSpeed, r.MaxResidual, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sweep values above tolerance", failed, len(results))
	}
	return nil
}
