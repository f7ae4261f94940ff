package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual stops the test at the first sample where got and
// want differ by more than eps, or when their lengths differ.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
		return
	}
	for n, g := range got {
		if d := math.Abs(g - want[n]); d > eps {
			t.Fatalf("sample %d: got %v, want %v (|diff| %v > %v)", n, g, want[n], d, eps)
			return
		}
	}
}

// RequireFinite stops the test at the first NaN or infinite sample.
func RequireFinite(t testing.TB, samples []float64) {
	t.Helper()
	for n, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d is %v", n, v)
			return
		}
	}
}
