//go:build fastmath

package energy

import "github.com/meko-christian/algo-approx"

// mathSqrt trades a little RMS accuracy for speed.
func mathSqrt(x float64) float64 {
	return approx.FastSqrt(x)
}
