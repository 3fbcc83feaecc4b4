package metrics

import (
	"math"
	"strings"
	"testing"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/harmonic"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/oracle"
)

func grid(n int) []float64 {
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = -5 + float64(i)*0.1
	}
	return ts
}

func TestStandardMetricsOnOracles(t *testing.T) {
	j, _ := oracle.NewJointSpace(oracle.Scale{SF: 1, SW: 1.5}, oracle.Vec3{})
	ts, _ := oracle.NewTaskSpace(oracle.UnitScale, oracle.Vec3{1, 1, 1})
	channels := append([]oracle.Channel{j.Channel()}, ts.Channels()...)

	for _, ch := range channels {
		values := Evaluate(Standard(ch, 1e-5), grid(150))
		if len(values) != 8 {
			t.Fatalf("%s: expected 8 metrics, got %d", ch.Name, len(values))
		}
		for _, name := range []string{"_velocity_residual", "_acceleration_residual"} {
			if v := values[ch.Name+name]; v > 1e-6 {
				t.Errorf("%s%s too large: %g", ch.Name, name, v)
			}
		}
		for _, name := range []string{"_position_period_residual", "_velocity_period_residual", "_acceleration_period_residual"} {
			if v := values[ch.Name+name]; v > 1e-9 {
				t.Errorf("%s%s too large: %g", ch.Name, name, v)
			}
		}
		if values[ch.Name+"_velocity_peak"] <= 0 {
			t.Errorf("%s: expected positive peak velocity", ch.Name)
		}
	}
}

func TestResidualsIndependentOfScale(t *testing.T) {
	for _, sc := range []oracle.Scale{{SF: 1, SW: 20}, {SF: 1, SW: 40}, {SF: 50, SW: 40}, {SF: 0.01, SW: 0.05}} {
		j, err := oracle.NewJointSpace(sc, oracle.Vec3{1, 1, 1})
		if err != nil {
			t.Fatal(err)
		}
		ts := make([]float64, 400)
		for i := range ts {
			ts[i] = float64(i) * 2 * j.Period() / float64(len(ts))
		}
		values := Evaluate(Standard(j.Channel(), 1e-5), ts)
		for name, v := range values {
			if strings.HasSuffix(name, "_peak") {
				continue
			}
			if v > 1e-6 {
				t.Errorf("sf=%g sw=%g: %s = %g", sc.SF, sc.SW, name, v)
			}
		}
	}

	j, _ := oracle.NewJointSpace(oracle.Scale{SF: 1, SW: 4}, oracle.Vec3{})
	if got := NewDerivativeResidual(j.Channel(), 1, 1e-5).Step(); math.Abs(got-2.5e-6) > 1e-18 {
		t.Errorf("expected step eps/sw, got %g", got)
	}
}

func TestPeakOfSingleSine(t *testing.T) {
	gait := oracle.JointGait{harmonic.Sine(1, 1, 0), harmonic.Sine(1, 1, math.Pi/2), harmonic.Sine(1, 1, 0)}
	j, err := oracle.NewJointSpaceWithGait(oracle.Scale{SF: 2, SW: 3}, oracle.Vec3{}, gait)
	if err != nil {
		t.Fatal(err)
	}

	// q1 = q3 = 2 sin(3t), q2 = 2 cos(3t): |q_d|^2 = 36 (2 cos^2 + sin^2), peak 6*sqrt(2) at t = 0
	p := NewPeak(j.Channel(), 1)
	p.Observe(0)
	p.Observe(0.3)
	if math.Abs(p.Value()-6*math.Sqrt2) > 1e-12 {
		t.Errorf("expected peak %f, got %f", 6*math.Sqrt2, p.Value())
	}

	p.Reset()
	if p.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestDerivativeResidualDetectsWrongDerivative(t *testing.T) {
	j, _ := oracle.NewJointSpace(oracle.UnitScale, oracle.Vec3{})
	ch := j.Channel()
	good := ch.Velocity
	ch.Velocity = func(t float64) []float64 {
		v := good(t)
		v[0] *= 1.01
		return v
	}

	m := NewDerivativeResidual(ch, 1, 1e-5)
	for _, tt := range grid(50) {
		m.Observe(tt)
	}
	if m.Value() < 1e-3 {
		t.Errorf("expected residual to flag a 1%% velocity error, got %g", m.Value())
	}
	if m.Name() != "q_velocity_residual" {
		t.Errorf("unexpected name %s", m.Name())
	}
}

func TestOffsetResidual(t *testing.T) {
	off := oracle.Vec3{1, -1, 0.5}
	plain, _ := oracle.NewTaskSpace(oracle.UnitScale, oracle.Vec3{})
	shifted, _ := oracle.NewTaskSpace(oracle.UnitScale, off)

	m := NewOffsetResidual(plain.Channels()[0], shifted.Channels()[0], off.Slice())
	values := Evaluate([]Metric{m}, grid(100))
	if v := values["x_offset_residual"]; v > 1e-14 {
		t.Errorf("offset residual too large: %g", v)
	}

	wrong := NewOffsetResidual(plain.Channels()[0], shifted.Channels()[0], []float64{0, 0, 0})
	wrong.Observe(0)
	if math.Abs(wrong.Value()-1) > 1e-12 {
		t.Errorf("expected residual 1, got %g", wrong.Value())
	}
}

func TestResidualPropagatesNaN(t *testing.T) {
	j, _ := oracle.NewJointSpace(oracle.UnitScale, oracle.Vec3{})
	m := NewPeriodicityResidual(j.Channel(), 0)
	m.Observe(1)
	m.Observe(math.NaN())
	m.Observe(2)
	if !math.IsNaN(m.Value()) {
		t.Errorf("expected NaN, got %g", m.Value())
	}
}
