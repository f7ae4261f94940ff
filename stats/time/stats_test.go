package time

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-clap/internal/testutil"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name      string
		signal    []float64
		peak      float64
		peakPos   int
		rms       float64
		crossings int
	}{
		{name: "empty"},
		{name: "silence", signal: []float64{0, 0, 0}},
		{name: "square", signal: []float64{2, -2, 2, -2}, peak: 2, rms: 2, crossings: 3},
		{name: "spike", signal: []float64{0, 0, -4, 0}, peak: 4, peakPos: 2, rms: 2},
		{name: "touching zero", signal: []float64{1, 0, -1}, peak: 1, rms: math.Sqrt(2.0 / 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Calculate(tt.signal)
			if s.Length != len(tt.signal) {
				t.Errorf("Length = %d, want %d", s.Length, len(tt.signal))
			}
			if s.Peak != tt.peak || s.PeakPos != tt.peakPos {
				t.Errorf("Peak = %v at %d, want %v at %d", s.Peak, s.PeakPos, tt.peak, tt.peakPos)
			}
			if math.Abs(s.RMS-tt.rms) > 1e-12 {
				t.Errorf("RMS = %v, want %v", s.RMS, tt.rms)
			}
			if s.ZeroCrossings != tt.crossings {
				t.Errorf("ZeroCrossings = %d, want %d", s.ZeroCrossings, tt.crossings)
			}
		})
	}
}

func TestCrestFactor(t *testing.T) {
	s := Calculate([]float64{0, 0, -4, 0})
	if s.CrestFactor != 2 {
		t.Fatalf("CrestFactor = %v, want 2", s.CrestFactor)
	}
	if math.Abs(s.CrestFactorDB-20*math.Log10(2)) > 1e-9 {
		t.Fatalf("CrestFactorDB = %v", s.CrestFactorDB)
	}

	if s := Calculate([]float64{0, 0}); s.CrestFactor != 0 || !math.IsInf(s.CrestFactorDB, -1) {
		t.Fatalf("silence crest = %v / %v dB, want 0 / -Inf", s.CrestFactor, s.CrestFactorDB)
	}
}

func TestClapIsPeakierThanTone(t *testing.T) {
	const rate = 44100
	clap := Calculate(testutil.ClapTrack(rate, 4410, 0, 10000, 0))
	tone := Calculate(testutil.DeterministicSine(1000, rate, 10000, 4410))

	if clap.CrestFactor <= 2*tone.CrestFactor {
		t.Fatalf("clap crest %v not well above tone crest %v", clap.CrestFactor, tone.CrestFactor)
	}
	if clap.PeakTime(rate) > 0.005 {
		t.Fatalf("clap peak at %vs, want within the first 5 ms", clap.PeakTime(rate))
	}
	if got := tone.ZeroCrossingRate(rate); math.Abs(got-2000) > 20 {
		t.Fatalf("tone zero-crossing rate = %v, want about 2000", got)
	}
}
