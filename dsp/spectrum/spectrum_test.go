package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-clap/dsp/core"
	"github.com/cwbudde/algo-clap/internal/testutil"
)

func TestMagnitudePower(t *testing.T) {
	bins := []complex128{3 + 4i, -1 - 1i, 0}

	mag := Magnitude(bins)
	if len(mag) != len(bins) {
		t.Fatalf("Magnitude length mismatch: got=%d want=%d", len(mag), len(bins))
	}

	if math.Abs(mag[0]-5) > 1e-12 {
		t.Fatalf("Magnitude[0]=%f want=5", mag[0])
	}

	pow := Power(bins)
	if math.Abs(pow[0]-25) > 1e-12 || math.Abs(pow[1]-2) > 1e-12 || pow[2] != 0 {
		t.Fatalf("Power=%v", pow)
	}

	if Magnitude(nil) != nil || Power(nil) != nil {
		t.Fatal("empty input must return nil")
	}
}

func TestPowerSpectrumPeakAtToneFrequency(t *testing.T) {
	const sr = 8000.0
	x := testutil.DeterministicSine(1000, sr, 1, 1024)

	spec, err := PowerSpectrum(x, sr)
	if err != nil {
		t.Fatal(err)
	}

	if len(spec.Power) != 513 || spec.BinHz != sr/1024 {
		t.Fatalf("bins=%d binHz=%v", len(spec.Power), spec.BinHz)
	}

	peak := 0
	for k, p := range spec.Power {
		if p > spec.Power[peak] {
			peak = k
		}
	}

	if got := float64(peak) * spec.BinHz; got != 1000 {
		t.Fatalf("peak at %v Hz, want 1000", got)
	}

	if c := spec.Centroid(); math.Abs(c-1000) > 20 {
		t.Fatalf("centroid %v, want about 1000", c)
	}
}

func TestPowerSpectrumZeroPads(t *testing.T) {
	spec, err := PowerSpectrum(testutil.DC(1, 1000), 44100)
	if err != nil {
		t.Fatal(err)
	}
	if len(spec.Power) != 513 {
		t.Fatalf("bins=%d, want 513", len(spec.Power))
	}
}

func TestBandRatio(t *testing.T) {
	const sr = 44100.0
	x := testutil.DeterministicSine(1000, sr, 1, 2048)

	in, err := BandRatio(x, sr, 500, 1500)
	if err != nil {
		t.Fatal(err)
	}
	if in < 0.99 {
		t.Fatalf("in-band ratio %v, want > 0.99", in)
	}

	out, err := BandRatio(x, sr, 5000, 10000)
	if err != nil {
		t.Fatal(err)
	}
	if out > 1e-3 {
		t.Fatalf("out-of-band ratio %v, want about 0", out)
	}

	silent, err := BandRatio(make([]float64, 256), sr, 0, sr/2)
	if err != nil || silent != 0 {
		t.Fatalf("silent ratio=%v err=%v", silent, err)
	}
}

func TestBandEdges(t *testing.T) {
	s := Spectrum{Power: []float64{1, 2, 3, 4}, BinHz: 10}
	tests := []struct {
		lo, hi float64
		want   float64
	}{
		{0, 30, 10},
		{10, 20, 5},
		{5, 15, 2},
		{-100, 1000, 10},
		{20, 10, 0},
	}

	for _, tc := range tests {
		if got := s.Band(tc.lo, tc.hi); got != tc.want {
			t.Errorf("Band(%v, %v) = %v, want %v", tc.lo, tc.hi, got, tc.want)
		}
	}
}

func TestPowerSpectrumInvalid(t *testing.T) {
	if _, err := PowerSpectrum(nil, 44100); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("empty: err=%v", err)
	}
	if _, err := PowerSpectrum([]float64{1}, 0); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("zero rate: err=%v", err)
	}
}
