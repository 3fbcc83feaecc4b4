package experiment

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/metrics"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/oracle"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/sampling"
)

type Config struct {
	Oracle    string
	Scale     oracle.Scale
	Offset    oracle.Vec3
	Start     float64
	Stop      float64
	Samples   int
	Eps       float64
	Tolerance float64
}

type Experiment struct {
	cfg      Config
	registry *Registry
	sampler  *sampling.Sampler
	logger   *zap.Logger
}

func New(cfg Config, registry *Registry, logger *zap.Logger) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Experiment{
		cfg:      cfg,
		registry: registry,
		sampler:  sampling.NewSampler(logger),
		logger:   logger,
	}
}

func (e *Experiment) Config() Config { return e.cfg }

// Build constructs the configured oracle.
func (e *Experiment) Build() (*Oracle, error) {
	o, err := e.registry.Build(e.cfg.Oracle, e.cfg.Scale, e.cfg.Offset)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("oracle built",
		zap.String("oracle", o.Name),
		zap.Float64("sf", o.Scale.SF),
		zap.Float64("sw", o.Scale.SW),
		zap.Stringer("offset", o.Offset),
		zap.Float64("period", o.Period),
	)
	return o, nil
}

func (e *Experiment) Grid() ([]float64, error) {
	return sampling.Linspace(e.cfg.Start, e.cfg.Stop, e.cfg.Samples)
}

// Run builds the oracle and samples every channel over the grid.
func (e *Experiment) Run(ctx context.Context) (*Oracle, *sampling.Result, error) {
	o, err := e.Build()
	if err != nil {
		return nil, nil, err
	}
	ts, err := e.Grid()
	if err != nil {
		return nil, nil, err
	}
	res, err := e.sampler.Sample(ctx, o.Channels, ts)
	if err != nil {
		return nil, nil, err
	}
	return o, res, nil
}

// Check is one verification residual against its tolerance.
type Check struct {
	Name      string
	Value     float64
	Tolerance float64
	Pass      bool
}

// Report is the outcome of Verify. Peaks are informational.
type Report struct {
	Oracle *Oracle
	Checks []Check
	Peaks  map[string]float64
}

func (r *Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.Pass {
			return false
		}
	}
	return true
}

func (r *Report) Failed() []Check {
	var out []Check
	for _, c := range r.Checks {
		if !c.Pass {
			out = append(out, c)
		}
	}
	return out
}

// Verify evaluates derivative, periodicity and offset residuals over the
// grid. The offset check compares against the same oracle built with a
// zero offset. Position is the only offset channel; the others must match
// exactly.
func (e *Experiment) Verify(ctx context.Context) (*Report, error) {
	o, err := e.Build()
	if err != nil {
		return nil, err
	}
	plain, err := e.registry.Build(o.Name, e.cfg.Scale, oracle.Vec3{})
	if err != nil {
		return nil, err
	}
	ts, err := e.Grid()
	if err != nil {
		return nil, err
	}

	var ms []metrics.Metric
	for i, ch := range o.Channels {
		ms = append(ms, metrics.Standard(ch, e.cfg.Eps)...)
		off := make([]float64, ch.Dim())
		if i == 0 {
			off = e.cfg.Offset.Slice()
		}
		ms = append(ms, metrics.NewOffsetResidual(plain.Channels[i], ch, off))
	}

	chunk := 256
	for start := 0; start < len(ts); start += chunk {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+chunk, len(ts))
		for _, m := range ms {
			for _, t := range ts[start:end] {
				m.Observe(t)
			}
		}
	}

	report := &Report{Oracle: o, Peaks: make(map[string]float64)}
	for _, m := range ms {
		if strings.HasSuffix(m.Name(), "_peak") {
			report.Peaks[m.Name()] = m.Value()
			continue
		}
		v := m.Value()
		report.Checks = append(report.Checks, Check{
			Name:      m.Name(),
			Value:     v,
			Tolerance: e.cfg.Tolerance,
			Pass:      v <= e.cfg.Tolerance,
		})
	}

	e.logger.Debug("verification finished",
		zap.String("oracle", o.Name),
		zap.Int("checks", len(report.Checks)),
		zap.Bool("passed", report.Passed()),
	)
	return report, nil
}

func (c Check) String() string {
	return fmt.Sprintf("%s=%.3g (tol %.3g)", c.Name, c.Value, c.Tolerance)
}
