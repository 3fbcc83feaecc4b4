package harmonic

import (
	"fmt"
	"math"
)

// Signal is a Series under spatial scale sf and temporal scale sw.
type Signal struct {
	series Series
	sf     float64
	sw     float64
}

// Compose validates the series and scales and returns the scaled signal.
func Compose(s Series, sf, sw float64) (Signal, error) {
	if err := s.Validate(); err != nil {
		return Signal{}, err
	}
	if !(sf > 0) || math.IsInf(sf, 0) {
		return Signal{}, fmt.Errorf("%w: spatial scale %v must be positive and finite", ErrInvalidSeries, sf)
	}
	if !(sw > 0) || math.IsInf(sw, 0) {
		return Signal{}, fmt.Errorf("%w: temporal scale %v must be positive and finite", ErrInvalidSeries, sw)
	}
	for i, term := range s.Terms {
		if w := float64(term.Ratio) * sw; math.IsInf(w, 0) {
			return Signal{}, fmt.Errorf("%w: term %d frequency %d*%v", ErrOverflow, i, term.Ratio, sw)
		}
	}
	g := Signal{series: s.Clone(), sf: sf, sw: sw}
	for order := 0; order <= MaxOrder; order++ {
		if b := g.Bound(order); math.IsInf(b, 0) || math.IsNaN(b) {
			return Signal{}, fmt.Errorf("%w: order %d bound at sf=%v sw=%v", ErrOverflow, order, sf, sw)
		}
	}
	return g, nil
}

// MustCompose is Compose for package-level tables known to be valid.
func MustCompose(s Series, sf, sw float64) Signal {
	sig, err := Compose(s, sf, sw)
	if err != nil {
		panic(err)
	}
	return sig
}

// Period returns 2*pi/sw.
func (g Signal) Period() float64 {
	return BasePeriod / g.sw
}

// Derivative evaluates the order-th time derivative at t. Order 0 is the
// signal itself. Negative orders are treated as 0.
func (g Signal) Derivative(order int, t float64) float64 {
	if order < 0 {
		order = 0
	}
	sum := 0.0
	if order == 0 {
		sum = g.series.Mean
	}
	for _, term := range g.series.Terms {
		w := float64(term.Ratio) * g.sw
		arg := w*t + term.Phase
		// d/dt sin = cos, cos -> -sin, -sin -> -cos, -cos -> sin
		var v float64
		switch order % 4 {
		case 0:
			v = math.Sin(arg)
		case 1:
			v = math.Cos(arg)
		case 2:
			v = -math.Sin(arg)
		case 3:
			v = -math.Cos(arg)
		}
		sum += term.Amplitude * pow(w, order) * v
	}
	return g.sf * sum
}

func (g Signal) Position(t float64) float64     { return g.Derivative(0, t) }
func (g Signal) Velocity(t float64) float64     { return g.Derivative(1, t) }
func (g Signal) Acceleration(t float64) float64 { return g.Derivative(2, t) }
func (g Signal) Jerk(t float64) float64         { return g.Derivative(3, t) }

// Bound returns an upper bound on |f^(order)(t)| over all t.
func (g Signal) Bound(order int) float64 {
	return g.sf * g.series.Bound(order) * pow(g.sw, order)
}

// Funcs returns position, velocity and acceleration as plain closures.
func (g Signal) Funcs() (pos, vel, acc func(t float64) float64) {
	return g.Position, g.Velocity, g.Acceleration
}

// pow is exact repeated multiplication for the small orders used here.
func pow(x float64, n int) float64 {
	r := 1.0
	for i := 0; i < n; i++ {
		r *= x
	}
	return r
}
