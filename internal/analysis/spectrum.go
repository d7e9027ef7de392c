package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

var ErrShortSeries = errors.New("series too short")

// Spectrum is a one-sided power spectrum. Freqs[0] is the zero frequency.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

type Peak struct {
	Freq  float64
	Power float64
}

// EnergySpectrum returns the power spectrum of series sampled every dt,
// after removing its mean.
func EnergySpectrum(series []float64, dt float64) (Spectrum, error) {
	n := len(series)
	if n < 4 {
		return Spectrum{}, ErrShortSeries
	}
	if !(dt > 0) {
		return Spectrum{}, errors.New("sample interval must be positive")
	}

	mean := stat.Mean(series, nil)
	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	half := n/2 + 1
	s := Spectrum{Freqs: make([]float64, half), Power: make([]float64, half)}
	for k := 0; k < half; k++ {
		a := cmplx.Abs(coeffs[k])
		s.Freqs[k] = float64(k) / (float64(n) * dt)
		s.Power[k] = a * a / float64(n)
	}
	return s, nil
}

// Peak is the strongest non-zero frequency.
func (s Spectrum) Peak() Peak {
	var p Peak
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > p.Power {
			p = Peak{Freq: s.Freqs[k], Power: s.Power[k]}
		}
	}
	return p
}
