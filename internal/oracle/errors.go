package oracle

import (
	"errors"
	"fmt"
)

// Validation errors returned by the factories.
var (
	// ErrInvalidScale indicates a spatial or temporal scale that is not
	// strictly positive and finite.
	ErrInvalidScale = errors.New("oracle: scale must be positive and finite")

	// ErrInvalidOffset indicates an offset with the wrong number of
	// components or non-finite values.
	ErrInvalidOffset = errors.New("oracle: invalid offset")

	// ErrInvalidWaveform indicates a harmonic table that cannot produce a
	// bounded periodic trajectory.
	ErrInvalidWaveform = errors.New("oracle: invalid waveform")
)

// ConfigError wraps a validation error with the offending field.
type ConfigError struct {
	Field   string
	Value   any
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s (%s=%v)", e.Wrapped.Error(), e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}
