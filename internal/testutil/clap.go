package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-clap/dsp/core"
)

// ClapBurst generates a synthetic hand clap: broadband noise with an
// instantaneous attack and an exponential decay with the given time constant.
func ClapBurst(seed int64, amplitude, sampleRate, decaySeconds float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	tau := decaySeconds * sampleRate
	for i := range out {
		env := math.Exp(-float64(i) / tau)
		out[i] = (rng.Float64()*2 - 1) * amplitude * env
	}
	return out
}

// ClapTrack renders claps at the given sample offsets on top of a low noise
// floor. Each clap is a 30 ms burst with a 5 ms decay.
func ClapTrack(sampleRate float64, length int, floor, amplitude float64, onsets ...int) []float64 {
	out := DeterministicNoise(7, floor, length)
	burstLen := int(0.03 * sampleRate)
	for n, at := range onsets {
		burst := ClapBurst(int64(100+n), amplitude, sampleRate, 0.005, burstLen)
		for i, v := range burst {
			if at+i >= 0 && at+i < length {
				out[at+i] += v
			}
		}
	}
	return out
}

// Chunk splits signal into consecutive buffers of size samples. A trailing
// partial chunk is dropped.
func Chunk(signal []float64, size int, sampleRate float64) []core.SampleBuffer {
	if size <= 0 {
		return nil
	}

	out := make([]core.SampleBuffer, 0, len(signal)/size)
	for i := 0; i+size <= len(signal); i += size {
		out = append(out, core.SampleBuffer{
			Samples:    append([]float64(nil), signal[i:i+size]...),
			SampleRate: sampleRate,
		})
	}
	return out
}
