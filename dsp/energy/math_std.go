//go:build !fastmath

package energy

import "math"

func mathSqrt(x float64) float64 {
	return math.Sqrt(x)
}
