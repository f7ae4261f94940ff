package core

import (
	"fmt"
	"math"
	"time"
)

// SampleBuffer is one block of signed amplitude samples at a known rate.
//
// Samples keep the caller's amplitude scale; no normalization is applied
// anywhere in the pipeline. Stages that transform a buffer return a new one
// and never write into Samples.
type SampleBuffer struct {
	Samples    []float64
	SampleRate float64
}

// FromInt16 converts 16-bit PCM to a SampleBuffer in int16 amplitude scale.
func FromInt16(pcm []int16, sampleRate float64) SampleBuffer {
	out := make([]float64, len(pcm))
	for i, v := range pcm {
		out[i] = float64(v)
	}

	return SampleBuffer{Samples: out, SampleRate: sampleRate}
}

// FromFloat32 converts normalized float samples and multiplies them by scale.
// Use scale 32768 to bring [-1, 1] audio into int16 amplitude scale.
func FromFloat32(samples []float32, sampleRate, scale float64) SampleBuffer {
	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = float64(v) * scale
	}

	return SampleBuffer{Samples: out, SampleRate: sampleRate}
}

// Len returns the number of samples.
func (b SampleBuffer) Len() int { return len(b.Samples) }

// Duration returns the time span covered by the buffer.
func (b SampleBuffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}

	return time.Duration(float64(len(b.Samples)) / b.SampleRate * float64(time.Second))
}

// Clone returns a deep copy.
func (b SampleBuffer) Clone() SampleBuffer {
	return SampleBuffer{
		Samples:    append([]float64(nil), b.Samples...),
		SampleRate: b.SampleRate,
	}
}

// Validate reports ErrInvalidInput for an empty buffer, a non-positive
// sample rate, or any non-finite sample.
func (b SampleBuffer) Validate() error {
	if len(b.Samples) == 0 {
		return fmt.Errorf("%w: empty buffer", ErrInvalidInput)
	}

	if !(b.SampleRate > 0) || math.IsInf(b.SampleRate, 0) {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidInput, b.SampleRate)
	}

	if i := FirstNonFinite(b.Samples); i >= 0 {
		return fmt.Errorf("%w: non-finite sample %v at index %d", ErrInvalidInput, b.Samples[i], i)
	}

	return nil
}

// FirstNonFinite returns the index of the first NaN or Inf value, or -1.
func FirstNonFinite(x []float64) int {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}

	return -1
}

// Deinterleave splits interleaved frames into one slice per channel.
// Trailing samples that do not form a full frame are dropped.
func Deinterleave(interleaved []float64, channels int) [][]float64 {
	if channels <= 0 {
		return nil
	}

	frames := len(interleaved) / channels
	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, frames)
	}

	for f := 0; f < frames; f++ {
		base := f * channels
		for ch := 0; ch < channels; ch++ {
			out[ch][f] = interleaved[base+ch]
		}
	}

	return out
}
