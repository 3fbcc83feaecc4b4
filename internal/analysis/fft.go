package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrTooShort = errors.New("analysis: need at least two samples")

// PowerSpectrum returns |X_k| for the non-negative frequency bins below
// Nyquist. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// Spectrum is the power spectrum of a uniformly sampled signal.
type Spectrum struct {
	Power      []float64
	Resolution float64 // Hz per bin
}

// Analyze removes the mean and transforms. Sampling a whole number of
// periods keeps every harmonic on an exact bin.
func Analyze(data []float64, dt float64) (*Spectrum, error) {
	if len(data) < 2 || !(dt > 0) {
		return nil, ErrTooShort
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	return &Spectrum{
		Power:      PowerSpectrum(centred),
		Resolution: 1 / (float64(len(data)) * dt),
	}, nil
}

// Dominant returns the frequency in Hz of the strongest non-DC bin.
func (s *Spectrum) Dominant() float64 {
	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(s.Power); i++ {
		if s.Power[i] > maxPower {
			maxPower = s.Power[i]
			maxIdx = i
		}
	}
	return float64(maxIdx) * s.Resolution
}
