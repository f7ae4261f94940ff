package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-clap/dsp/core"
	"github.com/cwbudde/algo-clap/dsp/window"
)

// Spectrum is a one-sided power spectrum. Bin k covers k*BinHz.
type Spectrum struct {
	Power []float64
	BinHz float64
}

// PowerSpectrum returns the Hann-windowed power spectrum of samples,
// zero-padded to the next power of two.
func PowerSpectrum(samples []float64, sampleRate float64) (Spectrum, error) {
	if len(samples) == 0 {
		return Spectrum{}, fmt.Errorf("spectrum: %w: empty input", core.ErrInvalidInput)
	}

	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return Spectrum{}, fmt.Errorf("spectrum: %w: sample rate %v", core.ErrInvalidInput, sampleRate)
	}

	fftSize := nextPowerOf2(len(samples))

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Spectrum{}, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	framed, err := window.ApplyCoefficients(samples, window.Generate(window.TypeHann, len(samples), window.WithPeriodic()))
	if err != nil {
		return Spectrum{}, fmt.Errorf("spectrum: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range framed {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Spectrum{}, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	return Spectrum{
		Power: Power(out[:fftSize/2+1]),
		BinHz: sampleRate / float64(fftSize),
	}, nil
}

// Total returns the summed power of every bin.
func (s Spectrum) Total() float64 {
	sum := 0.0
	for _, p := range s.Power {
		sum += p
	}
	return sum
}

// Band returns the summed power of bins whose centre lies in [loHz, hiHz].
func (s Spectrum) Band(loHz, hiHz float64) float64 {
	if s.BinHz <= 0 || hiHz < loHz {
		return 0
	}

	first := max(int(math.Ceil(loHz/s.BinHz)), 0)
	last := min(int(math.Floor(hiHz/s.BinHz)), len(s.Power)-1)

	sum := 0.0
	for k := first; k <= last; k++ {
		sum += s.Power[k]
	}
	return sum
}

// Centroid returns the power-weighted mean frequency, or 0 for a silent
// spectrum.
func (s Spectrum) Centroid() float64 {
	total, weighted := 0.0, 0.0
	for k, p := range s.Power {
		total += p
		weighted += p * float64(k) * s.BinHz
	}

	if total == 0 {
		return 0
	}
	return weighted / total
}

// BandRatio returns the fraction of the windowed power of samples that lies
// in [loHz, hiHz]. A silent buffer reports 0.
func BandRatio(samples []float64, sampleRate, loHz, hiHz float64) (float64, error) {
	spec, err := PowerSpectrum(samples, sampleRate)
	if err != nil {
		return 0, err
	}

	total := spec.Total()
	if total == 0 {
		return 0, nil
	}
	return spec.Band(loHz, hiHz) / total, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
