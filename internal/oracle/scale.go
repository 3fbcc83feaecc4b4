package oracle

import (
	"errors"
	"fmt"
	"math"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/harmonic"
)

// Scale holds the spatial factor SF applied to amplitudes and the temporal
// factor SW applied inside the time argument.
type Scale struct {
	SF float64 `yaml:"sf" json:"sf"`
	SW float64 `yaml:"sw" json:"sw"`
}

// UnitScale leaves the design waveform untouched.
var UnitScale = Scale{SF: 1, SW: 1}

// Validate reports the first scale that is not strictly positive and finite.
func (s Scale) Validate() error {
	if !(s.SF > 0) || math.IsInf(s.SF, 0) {
		return &ConfigError{Field: "sf", Value: s.SF, Wrapped: ErrInvalidScale}
	}
	if !(s.SW > 0) || math.IsInf(s.SW, 0) {
		return &ConfigError{Field: "sw", Value: s.SW, Wrapped: ErrInvalidScale}
	}
	return nil
}

// Period returns the trajectory period 2*pi/SW.
func (s Scale) Period() float64 {
	return harmonic.BasePeriod / s.SW
}

// composeAll scales every series of a table, naming the failing channel.
func composeAll(name string, table []harmonic.Series, s Scale) ([]harmonic.Signal, error) {
	out := make([]harmonic.Signal, len(table))
	for i, series := range table {
		sig, err := harmonic.Compose(series, s.SF, s.SW)
		if err != nil {
			if errors.Is(err, harmonic.ErrOverflow) {
				return nil, &ConfigError{Field: "scale", Value: s, Wrapped: fmt.Errorf("%w: %s[%d]: %w", ErrInvalidScale, name, i, err)}
			}
			if errors.Is(err, harmonic.ErrInvalidSeries) {
				err = fmt.Errorf("%w: %s[%d]: %w", ErrInvalidWaveform, name, i, err)
			}
			return nil, err
		}
		out[i] = sig
	}
	return out, nil
}
