package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/config"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/experiment"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/sampling"
)

var ErrInvalidSweep = errors.New("automation: invalid sweep")

// Scenario defines a scripted sequence of oracle runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single step in a scenario. Nil fields take the package
// defaults of internal/config; explicit values, zero included, are
// validated as given.
type ScenarioStep struct {
	Oracle    string    `yaml:"oracle"`
	SF        *float64  `yaml:"sf"`
	SW        *float64  `yaml:"sw"`
	Offset    []float64 `yaml:"offset"`
	Start     *float64  `yaml:"start"`
	Stop      *float64  `yaml:"stop"`
	Samples   *int      `yaml:"samples"`
	Verify    bool      `yaml:"verify"`
	Eps       *float64  `yaml:"eps"`
	Tolerance *float64  `yaml:"tolerance"`
	SaveAs    string    `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Config expands the step over the defaults and validates it.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Oracle != "" {
		cfg.Oracle = s.Oracle
	}
	set(&cfg.Scale.SF, s.SF)
	set(&cfg.Scale.SW, s.SW)
	if s.Offset != nil {
		cfg.Offset = s.Offset
	}
	set(&cfg.Grid.Start, s.Start)
	set(&cfg.Grid.Stop, s.Stop)
	set(&cfg.Grid.Samples, s.Samples)
	set(&cfg.Verify.Eps, s.Eps)
	set(&cfg.Verify.Tolerance, s.Tolerance)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewExperiment builds the experiment for a validated config.
func NewExperiment(cfg *config.Config, registry *experiment.Registry, logger *zap.Logger) (*experiment.Experiment, error) {
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

// StepResult is the outcome of one scenario step. Report is nil unless
// the step asked for verification.
type StepResult struct {
	Step   ScenarioStep
	Config *config.Config
	Oracle *experiment.Oracle
	Result *sampling.Result
	Report *experiment.Report
}

// RunScenario executes all steps in a scenario, stopping at the first
// failing step. Results of the completed steps are returned either way.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger *zap.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp, err := NewExperiment(cfg, registry, logger)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		logger.Info("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("steps", len(scenario.Steps)),
			zap.String("oracle", cfg.Oracle),
		)

		o, res, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		sr := StepResult{Step: step, Config: cfg, Oracle: o, Result: res}

		if step.Verify {
			report, err := exp.Verify(ctx)
			if err != nil {
				return results, fmt.Errorf("step %d verify: %w", i+1, err)
			}
			sr.Report = report
		}

		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep verifies an oracle across a range of one scale factor.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string // "sf" or "sw"
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds the verification summary at one parameter value.
type SweepResult struct {
	ParamValue  float64
	Period      float64
	MaxResidual float64
	PeakSpeed   float64
	Passed      bool
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry, logger *zap.Logger) ([]SweepResult, error) {
	if sweep.Base == nil {
		return nil, fmt.Errorf("%w: no base config", ErrInvalidSweep)
	}
	if sweep.ParamName != "sf" && sweep.ParamName != "sw" {
		return nil, fmt.Errorf("%w: unknown parameter %q", ErrInvalidSweep, sweep.ParamName)
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: need at least one step", ErrInvalidSweep)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := *sweep.Base
		scale := cfg.Scale
		if sweep.ParamName == "sf" {
			scale.SF = paramVal
		} else {
			scale.SW = paramVal
		}
		cfg.Scale = scale
		if err := cfg.Validate(); err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		exp, err := NewExperiment(&cfg, registry, logger)
		if err != nil {
			return results, err
		}
		report, err := exp.Verify(ctx)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		worst := 0.0
		for _, c := range report.Checks {
			worst = math.Max(worst, c.Value)
		}
		first := report.Oracle.Channels[0].Name

		results = append(results, SweepResult{
			ParamValue:  paramVal,
			Period:      scale.Period(),
			MaxResidual: worst,
			PeakSpeed:   report.Peaks[first+"_velocity_peak"],
			Passed:      report.Passed(),
		})

		logger.Debug("sweep step",
			zap.Int("step", i+1),
			zap.String("param", sweep.ParamName),
			zap.Float64("value", paramVal),
			zap.Float64("max_residual", worst),
		)
	}

	return results, nil
}
