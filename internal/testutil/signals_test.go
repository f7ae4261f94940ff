package testutil

import (
	"math"
	"slices"
	"testing"
)

func TestGeneratorsAreSeeded(t *testing.T) {
	tests := []struct {
		name string
		gen  func() []float64
	}{
		{"sine", func() []float64 { return DeterministicSine(440, 44100, 3000, 256) }},
		{"noise", func() []float64 { return DeterministicNoise(42, 3000, 256) }},
		{"burst", func() []float64 { return ClapBurst(9, 3000, 44100, 0.005, 256) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := tt.gen(), tt.gen()
			if len(a) != 256 {
				t.Fatalf("len = %d, want 256", len(a))
			}
			if !slices.Equal(a, b) {
				t.Fatal("two calls rendered different samples")
			}
		})
	}
}

func TestDeterministicSineStaysInAmplitude(t *testing.T) {
	s := DeterministicSine(1000, 48000, 2000, 96)
	if s[0] != 0 {
		t.Fatalf("s[0] = %v, want 0 at phase zero", s[0])
	}
	for n, v := range s {
		if math.Abs(v) > 2000 {
			t.Fatalf("s[%d] = %v exceeds amplitude", n, v)
		}
	}
}

func TestDeterministicNoiseSeedsDiffer(t *testing.T) {
	if slices.Equal(DeterministicNoise(1, 1, 32), DeterministicNoise(2, 1, 32)) {
		t.Fatal("seeds 1 and 2 rendered identical noise")
	}
}

func TestImpulse(t *testing.T) {
	tests := []struct {
		name   string
		length int
		pos    int
		want   []float64
	}{
		{"inside", 5, 2, []float64{0, 0, 1, 0, 0}},
		{"first", 3, 0, []float64{1, 0, 0}},
		{"past end", 3, 7, []float64{0, 0, 0}},
		{"negative", 2, -1, []float64{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Impulse(tt.length, tt.pos); !slices.Equal(got, tt.want) {
				t.Fatalf("Impulse(%d, %d) = %v, want %v", tt.length, tt.pos, got, tt.want)
			}
		})
	}
}

func TestDC(t *testing.T) {
	if got := DC(-0.5, 3); !slices.Equal(got, []float64{-0.5, -0.5, -0.5}) {
		t.Fatalf("DC = %v", got)
	}
}

func TestClapBurstDecays(t *testing.T) {
	b := ClapBurst(1, 10000, 44100, 0.005, 1323)
	head, tail := 0.0, 0.0
	for i := range 100 {
		head = math.Max(head, math.Abs(b[i]))
		tail = math.Max(tail, math.Abs(b[len(b)-1-i]))
	}
	if head <= 10*tail {
		t.Fatalf("burst does not decay: head=%v tail=%v", head, tail)
	}
}

func TestChunk(t *testing.T) {
	chunks := Chunk(DC(1, 10), 4, 8000)
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}
	for _, c := range chunks {
		if c.Len() != 4 || c.SampleRate != 8000 {
			t.Fatalf("bad chunk %+v", c)
		}
	}
	if Chunk(DC(1, 3), 0, 8000) != nil {
		t.Fatal("size 0 must return nil")
	}
}

func TestClapTrackPlacesBursts(t *testing.T) {
	track := ClapTrack(8000, 8000, 10, 10000, 4000)
	if math.Abs(track[100]) > 10 {
		t.Fatalf("floor sample %v exceeds floor amplitude", track[100])
	}
	peak := 0.0
	for _, v := range track[4000:4100] {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak < 1000 {
		t.Fatalf("no clap energy near onset, peak=%v", peak)
	}
}
