package bandpass

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-clap/dsp/core"
	"github.com/cwbudde/algo-clap/dsp/spectrum"
	"github.com/cwbudde/algo-clap/internal/testutil"
)

func defaultConfig() Config {
	return Config{SampleRate: 44100, LowCut: 200, HighCut: 3200, Order: 5}
}

func mustNew(t *testing.T, cfg Config) *Filter {
	t.Helper()
	f, err := New(cfg)
	if err != nil {
		t.Fatalf("New(%+v): %v", cfg, err)
	}
	return f
}

func TestNewRejectsInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"inverted cutoffs", Config{SampleRate: 44100, LowCut: 5000, HighCut: 200}},
		{"zero low", Config{SampleRate: 44100, LowCut: 0, HighCut: 3200}},
		{"high above nyquist", Config{SampleRate: 44100, LowCut: 200, HighCut: 23000}},
		{"zero rate", Config{SampleRate: 0, LowCut: 200, HighCut: 3200}},
		{"negative order", Config{SampleRate: 44100, LowCut: 200, HighCut: 3200, Order: -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := New(tc.cfg)
			if !errors.Is(err, core.ErrInvalidConfiguration) {
				t.Fatalf("err = %v, want ErrInvalidConfiguration", err)
			}
			if f != nil {
				t.Fatal("filter returned alongside error")
			}
		})
	}
}

func TestNewDefaultsOrder(t *testing.T) {
	f := mustNew(t, Config{SampleRate: 44100, LowCut: 200, HighCut: 3200})
	if f.Config().Order != DefaultOrder || len(f.Coefficients()) != DefaultOrder {
		t.Fatalf("order=%d sections=%d", f.Config().Order, len(f.Coefficients()))
	}
}

func TestProcessPreservesLengthAndInput(t *testing.T) {
	f := mustNew(t, defaultConfig())
	in := core.SampleBuffer{Samples: testutil.DeterministicNoise(1, 1000, 2048), SampleRate: 44100}
	orig := in.Clone()

	out, err := f.Process(in)
	if err != nil {
		t.Fatal(err)
	}

	if out.Len() != in.Len() || out.SampleRate != in.SampleRate {
		t.Fatalf("out len=%d rate=%v", out.Len(), out.SampleRate)
	}
	testutil.RequireSliceNearlyEqual(t, in.Samples, orig.Samples, 0)
	testutil.RequireFinite(t, out.Samples)
}

func TestProcessStreamsAcrossBuffers(t *testing.T) {
	signal := testutil.DeterministicNoise(3, 5000, 4096)

	whole := mustNew(t, defaultConfig())
	want, err := whole.Process(core.SampleBuffer{Samples: signal, SampleRate: 44100})
	if err != nil {
		t.Fatal(err)
	}

	split := mustNew(t, defaultConfig())
	var got []float64
	for _, buf := range testutil.Chunk(signal, 512, 44100) {
		out, err := split.Process(buf)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, out.Samples...)
	}

	testutil.RequireSliceNearlyEqual(t, got, want.Samples, 1e-9)
}

func TestProcessBandLimits(t *testing.T) {
	f := mustNew(t, defaultConfig())

	// Prime the delay lines so the transient does not dominate.
	if _, err := f.Process(core.SampleBuffer{Samples: testutil.DeterministicNoise(10, 10000, 8192), SampleRate: 44100}); err != nil {
		t.Fatal(err)
	}

	flat := testutil.DeterministicNoise(11, 10000, 8192)
	out, err := f.Process(core.SampleBuffer{Samples: flat, SampleRate: 44100})
	if err != nil {
		t.Fatal(err)
	}

	inRatio, err := spectrum.BandRatio(flat, 44100, 200, 3200)
	if err != nil {
		t.Fatal(err)
	}
	outRatio, err := spectrum.BandRatio(out.Samples, 44100, 200, 3200)
	if err != nil {
		t.Fatal(err)
	}

	if inRatio > 0.2 {
		t.Fatalf("white noise in-band ratio %v, expected about 0.14", inRatio)
	}
	if outRatio < 0.85 {
		t.Fatalf("filtered in-band ratio %v, want > 0.85", outRatio)
	}

	inSpec, _ := spectrum.PowerSpectrum(flat, 44100)
	outSpec, _ := spectrum.PowerSpectrum(out.Samples, 44100)
	if outSpec.Band(8000, 20000) > 1e-3*inSpec.Band(8000, 20000) {
		t.Fatal("high band not attenuated by at least 30 dB")
	}
}

func TestProcessPassesCentreTone(t *testing.T) {
	f := mustNew(t, defaultConfig())
	centre := f.CentreFrequency()
	tone := testutil.DeterministicSine(centre, 44100, 1000, 44100)

	out, err := f.Process(core.SampleBuffer{Samples: tone, SampleRate: 44100})
	if err != nil {
		t.Fatal(err)
	}

	peak := 0.0
	for _, v := range out.Samples[22050:] {
		peak = math.Max(peak, math.Abs(v))
	}
	if math.Abs(peak-1000) > 10 {
		t.Fatalf("steady-state amplitude %v, want about 1000", peak)
	}
}

func TestProcessRejectsInvalidWithoutStateChange(t *testing.T) {
	f := mustNew(t, defaultConfig())
	if _, err := f.Process(core.SampleBuffer{Samples: testutil.DeterministicNoise(1, 100, 64), SampleRate: 44100}); err != nil {
		t.Fatal(err)
	}
	before := f.State()

	bad := []struct {
		name string
		buf  core.SampleBuffer
		want error
	}{
		{"nan", core.SampleBuffer{Samples: []float64{1, math.NaN()}, SampleRate: 44100}, core.ErrInvalidInput},
		{"inf", core.SampleBuffer{Samples: []float64{math.Inf(-1)}, SampleRate: 44100}, core.ErrInvalidInput},
		{"empty", core.SampleBuffer{SampleRate: 44100}, core.ErrInvalidInput},
		{"rate change", core.SampleBuffer{Samples: []float64{1, 2}, SampleRate: 48000}, core.ErrInvalidConfiguration},
	}

	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.Process(tc.buf); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			after := f.State()
			for i := range before {
				if before[i] != after[i] {
					t.Fatalf("section %d state changed: %v -> %v", i, before[i], after[i])
				}
			}
		})
	}
}

func TestRetune(t *testing.T) {
	f := mustNew(t, defaultConfig())
	if _, err := f.Process(core.SampleBuffer{Samples: testutil.DeterministicNoise(2, 100, 256), SampleRate: 44100}); err != nil {
		t.Fatal(err)
	}
	state := f.State()
	coeffs := f.Coefficients()

	if err := f.Retune(200, 3200); err != nil {
		t.Fatal(err)
	}
	if f.Coefficients()[0] != coeffs[0] {
		t.Fatal("no-op retune changed coefficients")
	}

	if err := f.Retune(300, 2500); err != nil {
		t.Fatal(err)
	}
	if f.Coefficients()[0] == coeffs[0] {
		t.Fatal("retune did not re-derive coefficients")
	}
	if got := f.State(); got[0] != state[0] {
		t.Fatal("retune discarded delay-line state")
	}
	if cfg := f.Config(); cfg.LowCut != 300 || cfg.HighCut != 2500 {
		t.Fatalf("config not updated: %+v", cfg)
	}

	if err := f.Retune(5000, 200); !errors.Is(err, core.ErrInvalidConfiguration) {
		t.Fatalf("err = %v, want ErrInvalidConfiguration", err)
	}
	if cfg := f.Config(); cfg.LowCut != 300 {
		t.Fatalf("failed retune modified config: %+v", cfg)
	}
}

func TestResetAndMagnitude(t *testing.T) {
	f := mustNew(t, defaultConfig())
	if _, err := f.Process(core.SampleBuffer{Samples: []float64{1000, -1000}, SampleRate: 44100}); err != nil {
		t.Fatal(err)
	}

	f.Reset()
	for i, st := range f.State() {
		if st != [2]float64{} {
			t.Fatalf("section %d not cleared: %v", i, st)
		}
	}

	if db := f.MagnitudeDB(200); math.Abs(db+3.0103) > 1e-3 {
		t.Fatalf("edge magnitude %v dB, want -3.01", db)
	}
	if db := f.MagnitudeDB(f.CentreFrequency()); math.Abs(db) > 1e-9 {
		t.Fatalf("centre magnitude %v dB, want 0", db)
	}
}

func TestSetStateRestoresOutput(t *testing.T) {
	f := mustNew(t, defaultConfig())
	noise := testutil.DeterministicNoise(4, 1000, 128)
	if _, err := f.Process(core.SampleBuffer{Samples: noise, SampleRate: 44100}); err != nil {
		t.Fatal(err)
	}

	saved := f.State()
	kick := core.SampleBuffer{Samples: testutil.Impulse(32, 0), SampleRate: 44100}
	a, _ := f.Process(kick)

	f.SetState(saved)
	b, _ := f.Process(kick)
	testutil.RequireSliceNearlyEqual(t, b.Samples, a.Samples, 0)
}
