// Package testutil holds the synthetic signals and float assertions shared by
// the detector's package tests. All generators are seeded so a failing test
// replays the same samples.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine renders length samples of a sine at freqHz starting at
// phase zero. Amplitudes are in the detector's int16 sample scale.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	w := 2 * math.Pi * freqHz / sampleRate
	out := make([]float64, length)
	for n := range out {
		out[n] = amplitude * math.Sin(w*float64(n))
	}
	return out
}

// DeterministicNoise renders uniform white noise in [-amplitude, amplitude).
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	src := rand.New(rand.NewSource(seed))
	out := make([]float64, length)
	for n := range out {
		out[n] = amplitude * (2*src.Float64() - 1)
	}
	return out
}

// Impulse is a unit sample at pos. An out of range pos yields silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC is a constant offset of value.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for n := range out {
		out[n] = value
	}
	return out
}
