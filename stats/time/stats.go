// Package time computes time-domain descriptors of a buffer, used to
// characterise the transient that triggered an onset.
package time

import (
	"math"

	"github.com/cwbudde/algo-clap/dsp/core"
)

// Stats holds time-domain descriptors of one buffer.
type Stats struct {
	Length        int
	Peak          float64 // max |x|
	PeakPos       int
	RMS           float64
	CrestFactor   float64 // peak / RMS, 0 for silence
	CrestFactorDB float64
	ZeroCrossings int
}

// Calculate computes every descriptor in a single pass.
func Calculate(signal []float64) Stats {
	s := Stats{Length: len(signal), CrestFactorDB: math.Inf(-1)}
	if len(signal) == 0 {
		return s
	}

	var sumSq float64
	for i, x := range signal {
		sumSq += x * x
		if a := math.Abs(x); a > s.Peak {
			s.Peak = a
			s.PeakPos = i
		}
		if i > 0 && signal[i-1]*x < 0 {
			s.ZeroCrossings++
		}
	}

	s.RMS = math.Sqrt(sumSq / float64(len(signal)))
	if s.RMS > 0 {
		s.CrestFactor = s.Peak / s.RMS
		s.CrestFactorDB = core.LinearToDB(s.CrestFactor)
	}

	return s
}

// ZeroCrossingRate returns sign changes per second. Broadband transients
// such as claps cross zero far more often than voiced speech.
func (s Stats) ZeroCrossingRate(sampleRate float64) float64 {
	if s.Length < 2 || sampleRate <= 0 {
		return 0
	}
	return float64(s.ZeroCrossings) * sampleRate / float64(s.Length)
}

// PeakTime returns the offset of the peak from the start of the buffer.
func (s Stats) PeakTime(sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(s.PeakPos) / sampleRate
}
