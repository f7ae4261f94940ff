package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestLinearToDB(t *testing.T) {
	if !NearlyEqual(LinearToDB(10), 20, 1e-12) {
		t.Fatalf("LinearToDB(10) = %v, want 20", LinearToDB(10))
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestFullScaleDB(t *testing.T) {
	if got := FullScaleDB(-32768); !NearlyEqual(got, 0, 1e-12) {
		t.Fatalf("FullScaleDB(-32768) = %v, want 0", got)
	}
	if got := FullScaleDB(16384); !NearlyEqual(got, -6.0206, 1e-4) {
		t.Fatalf("FullScaleDB(16384) = %v, want ~-6.02", got)
	}
}
