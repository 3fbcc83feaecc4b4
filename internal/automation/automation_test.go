package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/config"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/experiment"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/oracle"
)

const scenarioYAML = `name: gait check
description: both oracles at two speeds
steps:
  - oracle: cornelia
    samples: 50
    verify: true
  - oracle: task
    sf: 0.5
    sw: 2
    offset: [1, 1, 1]
    start: 0
    stop: 3.14159
    samples: 40
    save_as: task.json
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, "gait check", s.Name)
	require.Len(t, s.Steps, 2)
	assert.True(t, s.Steps[0].Verify)
	assert.Equal(t, []float64{1, 1, 1}, s.Steps[1].Offset)
	assert.Equal(t, "task.json", s.Steps[1].SaveAs)
}

func ptr[T any](v T) *T { return &v }

func TestStepConfigDefaults(t *testing.T) {
	cfg, err := ScenarioStep{Oracle: "task", SW: ptr(3.0)}.Config()
	require.NoError(t, err)

	assert.Equal(t, oracle.Scale{SF: config.DefaultSF, SW: 3}, cfg.Scale)
	assert.Equal(t, config.DefaultSamples, cfg.Grid.Samples)
	assert.Equal(t, config.DefaultStop, cfg.Grid.Stop)

	// start alone keeps the default stop
	cfg, err = ScenarioStep{Start: ptr(1.0)}.Config()
	require.NoError(t, err)
	assert.Equal(t, config.GridConfig{Start: 1, Stop: config.DefaultStop, Samples: config.DefaultSamples}, cfg.Grid)

	_, err = ScenarioStep{SF: ptr(-1.0)}.Config()
	assert.ErrorIs(t, err, oracle.ErrInvalidScale)
}

func TestStepConfigRejectsExplicitZero(t *testing.T) {
	tests := []struct {
		name   string
		step   ScenarioStep
		target error
	}{
		{"sf", ScenarioStep{SF: ptr(0.0)}, oracle.ErrInvalidScale},
		{"sw", ScenarioStep{SW: ptr(0.0)}, oracle.ErrInvalidScale},
		{"samples", ScenarioStep{Samples: ptr(0)}, config.ErrInvalidConfig},
		{"eps", ScenarioStep{Eps: ptr(0.0)}, config.ErrInvalidConfig},
		{"tolerance", ScenarioStep{Tolerance: ptr(0.0)}, config.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.step.Config()
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestRunScenarioRejectsZeroScaleInYAML(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, "name: zero\nsteps:\n  - oracle: joint\n    samples: 10\n  - oracle: joint\n    sf: 0\n    sw: 1\n"))
	require.NoError(t, err)
	require.NotNil(t, s.Steps[1].SF)
	assert.Equal(t, 0.0, *s.Steps[1].SF)
	assert.Nil(t, s.Steps[0].SF)

	results, err := RunScenario(context.Background(), s, experiment.NewRegistry(), nil)
	assert.ErrorIs(t, err, oracle.ErrInvalidScale)
	assert.ErrorContains(t, err, "step 2")
	assert.Len(t, results, 1)
}

func TestRunScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	results, err := RunScenario(context.Background(), s, experiment.NewRegistry(), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "joint", results[0].Oracle.Name)
	require.NotNil(t, results[0].Report)
	assert.True(t, results[0].Report.Passed())

	assert.Equal(t, "task", results[1].Oracle.Name)
	assert.Nil(t, results[1].Report)
	assert.Len(t, results[1].Result.Times, 40)
}

func TestRunScenarioStopsAtBadStep(t *testing.T) {
	s := &Scenario{Steps: []ScenarioStep{
		{Oracle: "joint", Samples: ptr(10)},
		{Oracle: "tortoise"},
	}}

	results, err := RunScenario(context.Background(), s, experiment.NewRegistry(), nil)
	assert.ErrorIs(t, err, experiment.ErrUnknownOracle)
	assert.ErrorContains(t, err, "step 2")
	assert.Len(t, results, 1)
}

func TestRunSweep(t *testing.T) {
	base := config.DefaultConfig()
	base.Oracle = "joint"
	base.Grid.Samples = 100

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Base:      base,
		ParamName: "sw",
		ParamMin:  0.5,
		ParamMax:  2,
		NumSteps:  4,
	}, experiment.NewRegistry(), nil)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, r := range results {
		assert.InDelta(t, 0.5+0.5*float64(i), r.ParamValue, 1e-12)
		assert.InDelta(t, oracle.Scale{SF: 1, SW: r.ParamValue}.Period(), r.Period, 1e-12)
		assert.True(t, r.Passed, "sw=%g residual %g", r.ParamValue, r.MaxResidual)
	}
	// velocity scales with sw
	assert.Greater(t, results[3].PeakSpeed, results[0].PeakSpeed)
}

func TestRunSweepHighFrequency(t *testing.T) {
	base := config.DefaultConfig()
	base.Oracle = "joint"
	base.Grid.Samples = 500

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Base:      base,
		ParamName: "sw",
		ParamMin:  10,
		ParamMax:  40,
		NumSteps:  4,
	}, experiment.NewRegistry(), nil)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for _, r := range results {
		assert.True(t, r.Passed, "sw=%g residual %g", r.ParamValue, r.MaxResidual)
	}
}

func TestRunSweepRejects(t *testing.T) {
	reg := experiment.NewRegistry()
	base := config.DefaultConfig()

	_, err := RunSweep(context.Background(), &ParameterSweep{Base: base, ParamName: "dt", NumSteps: 2}, reg, nil)
	assert.ErrorIs(t, err, ErrInvalidSweep)

	_, err = RunSweep(context.Background(), &ParameterSweep{Base: base, ParamName: "sf", NumSteps: 0}, reg, nil)
	assert.ErrorIs(t, err, ErrInvalidSweep)

	// zero crosses into invalid scales
	_, err = RunSweep(context.Background(), &ParameterSweep{Base: base, ParamName: "sf", ParamMin: -1, ParamMax: 1, NumSteps: 3}, reg, nil)
	assert.ErrorIs(t, err, oracle.ErrInvalidScale)
}
