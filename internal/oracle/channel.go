package oracle

import (
	"math"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/harmonic"
)

// VectorFunc maps time in seconds to a three component value.
type VectorFunc func(t float64) Vec3

// ScalarFunc maps time in seconds to a scalar value.
type ScalarFunc func(t float64) float64

// Channel is a dimension agnostic view of one trajectory, used by code that
// samples, checks or plots trajectories without knowing their shape.
type Channel struct {
	Name   string
	Units  string
	Labels []string
	Period float64

	Position     func(t float64) []float64
	Velocity     func(t float64) []float64
	Acceleration func(t float64) []float64

	// Bound is an upper bound on every component of the given derivative
	// order, offset excluded. Nil when unknown.
	Bound func(order int) float64
}

// Dim returns the number of components per sample.
func (c Channel) Dim() int {
	return len(c.Labels)
}

// Order returns the derivative function of the given order (0, 1 or 2).
func (c Channel) Order(order int) func(t float64) []float64 {
	switch order {
	case 1:
		return c.Velocity
	case 2:
		return c.Acceleration
	default:
		return c.Position
	}
}

// Magnitude returns Bound(order), or 1 when the channel has no bound.
func (c Channel) Magnitude(order int) float64 {
	if c.Bound == nil {
		return 1
	}
	return c.Bound(order)
}

func boundOf(sigs ...harmonic.Signal) func(order int) float64 {
	return func(order int) float64 {
		b := 0.0
		for _, g := range sigs {
			b = math.Max(b, g.Bound(order))
		}
		return b
	}
}

func vectorChannel(name, units string, labels []string, period float64, p, v, a VectorFunc) Channel {
	return Channel{
		Name:         name,
		Units:        units,
		Labels:       labels,
		Period:       period,
		Position:     func(t float64) []float64 { return p(t).Slice() },
		Velocity:     func(t float64) []float64 { return v(t).Slice() },
		Acceleration: func(t float64) []float64 { return a(t).Slice() },
	}
}

func scalarChannel(name, units, label string, period float64, p, v, a ScalarFunc) Channel {
	return Channel{
		Name:         name,
		Units:        units,
		Labels:       []string{label},
		Period:       period,
		Position:     func(t float64) []float64 { return []float64{p(t)} },
		Velocity:     func(t float64) []float64 { return []float64{v(t)} },
		Acceleration: func(t float64) []float64 { return []float64{a(t)} },
	}
}
