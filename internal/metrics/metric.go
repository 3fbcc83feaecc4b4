// Package metrics measures how well an oracle channel honours its own
// contract when probed at sample times: derivative consistency against
// central differences, periodicity and offset invariance.
package metrics

import (
	"math"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/oracle"
)

type Metric interface {
	Name() string
	Observe(t float64)
	Value() float64
	Reset()
}

// Evaluate resets every metric, observes all times and returns the values
// keyed by metric name.
func Evaluate(ms []Metric, ts []float64) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for _, t := range ts {
			m.Observe(t)
		}
		out[m.Name()] = m.Value()
	}
	return out
}

// Standard returns the derivative, periodicity and peak metrics for ch.
func Standard(ch oracle.Channel, eps float64) []Metric {
	return []Metric{
		NewDerivativeResidual(ch, 1, eps),
		NewDerivativeResidual(ch, 2, eps),
		NewPeriodicityResidual(ch, 0),
		NewPeriodicityResidual(ch, 1),
		NewPeriodicityResidual(ch, 2),
		NewPeak(ch, 0),
		NewPeak(ch, 1),
		NewPeak(ch, 2),
	}
}

var orderNames = [3]string{"position", "velocity", "acceleration"}

func maxAbsDiff(a, b []float64) float64 {
	m := 0.0
	for i := range a {
		if i >= len(b) {
			break
		}
		m = math.Max(m, math.Abs(a[i]-b[i]))
	}
	return m
}
