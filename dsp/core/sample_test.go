package core

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestFromInt16KeepsScale(t *testing.T) {
	b := FromInt16([]int16{-32768, 0, 6000}, 44100)
	if b.Len() != 3 || b.SampleRate != 44100 {
		t.Fatalf("unexpected buffer: %+v", b)
	}
	if b.Samples[0] != -32768 || b.Samples[2] != 6000 {
		t.Fatalf("samples = %v", b.Samples)
	}
}

func TestFromFloat32Scale(t *testing.T) {
	b := FromFloat32([]float32{0.5, -1}, 48000, 32768)
	if b.Samples[0] != 16384 || b.Samples[1] != -32768 {
		t.Fatalf("samples = %v", b.Samples)
	}
}

func TestDuration(t *testing.T) {
	b := SampleBuffer{Samples: make([]float64, 4410), SampleRate: 44100}
	if got := b.Duration(); got != 100*time.Millisecond {
		t.Fatalf("Duration() = %v, want 100ms", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	b := SampleBuffer{Samples: []float64{1, 2}, SampleRate: 8000}
	c := b.Clone()
	c.Samples[0] = 99
	if b.Samples[0] != 1 {
		t.Fatal("Clone shares backing array")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		buf     SampleBuffer
		wantErr bool
	}{
		{name: "ok", buf: SampleBuffer{Samples: []float64{0, 1}, SampleRate: 8000}},
		{name: "empty", buf: SampleBuffer{SampleRate: 8000}, wantErr: true},
		{name: "zero rate", buf: SampleBuffer{Samples: []float64{1}}, wantErr: true},
		{name: "nan", buf: SampleBuffer{Samples: []float64{0, math.NaN()}, SampleRate: 8000}, wantErr: true},
		{name: "inf", buf: SampleBuffer{Samples: []float64{math.Inf(-1)}, SampleRate: 8000}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.buf.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestDeinterleave(t *testing.T) {
	ch := Deinterleave([]float64{1, -1, 2, -2, 3, -3, 4}, 2)
	if len(ch) != 2 || len(ch[0]) != 3 {
		t.Fatalf("unexpected shape: %v", ch)
	}
	for i, want := range []float64{1, 2, 3} {
		if ch[0][i] != want || ch[1][i] != -want {
			t.Fatalf("frame %d: got (%v, %v)", i, ch[0][i], ch[1][i])
		}
	}
	if Deinterleave([]float64{1}, 0) != nil {
		t.Fatal("expected nil for zero channels")
	}
}
