package harmonic

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSeries indicates a waveform table that cannot produce a bounded
// periodic signal.
var ErrInvalidSeries = errors.New("harmonic: invalid series")

// ErrOverflow indicates scales under which a frequency or a derivative bound
// up to MaxOrder is no longer finite.
var ErrOverflow = errors.New("harmonic: scaled signal overflows")

// MaxOrder is the highest derivative order Compose guarantees to be finite.
const MaxOrder = 2

// BasePeriod is the period of every Series before temporal scaling.
const BasePeriod = 2 * math.Pi

// Term is one harmonic Amplitude * sin(Ratio*t + Phase).
type Term struct {
	Amplitude float64 `yaml:"amplitude" json:"amplitude"`
	Ratio     int     `yaml:"ratio" json:"ratio"`
	Phase     float64 `yaml:"phase" json:"phase"`
}

// Series is a mean value plus a sum of harmonic terms.
type Series struct {
	Mean  float64 `yaml:"mean" json:"mean"`
	Terms []Term  `yaml:"terms" json:"terms"`
}

// Sine returns a single-term series, handy for closed-form checks.
func Sine(amplitude float64, ratio int, phase float64) Series {
	return Series{Terms: []Term{{Amplitude: amplitude, Ratio: ratio, Phase: phase}}}
}

// Validate reports whether s is usable as a waveform.
func (s Series) Validate() error {
	if len(s.Terms) == 0 {
		return fmt.Errorf("%w: no terms", ErrInvalidSeries)
	}
	if !finite(s.Mean) {
		return fmt.Errorf("%w: mean %v is not finite", ErrInvalidSeries, s.Mean)
	}
	for i, term := range s.Terms {
		if term.Ratio <= 0 {
			return fmt.Errorf("%w: term %d ratio %d must be a positive integer", ErrInvalidSeries, i, term.Ratio)
		}
		if !finite(term.Amplitude) || !finite(term.Phase) {
			return fmt.Errorf("%w: term %d has non-finite amplitude or phase", ErrInvalidSeries, i)
		}
	}
	return nil
}

// Period returns the period of the unscaled waveform.
func (s Series) Period() float64 {
	return BasePeriod
}

// Bound returns an upper bound on |g^(order)(t)| over all t.
func (s Series) Bound(order int) float64 {
	b := 0.0
	if order == 0 {
		b = math.Abs(s.Mean)
	}
	for _, term := range s.Terms {
		b += math.Abs(term.Amplitude) * math.Pow(float64(term.Ratio), float64(order))
	}
	return b
}

// Clone returns a deep copy so callers cannot mutate a composed signal.
func (s Series) Clone() Series {
	c := Series{Mean: s.Mean, Terms: make([]Term, len(s.Terms))}
	copy(c.Terms, s.Terms)
	return c
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
