//go:build amd64 && !purego

// Package unrolled registers a 4x-unrolled scalar biquad kernel for amd64.
// Every amd64 CPU carries SSE2, so the kernel is tagged at that level and
// wins over the generic loop unless dispatch is forced to generic.
package unrolled

import (
	"github.com/cwbudde/algo-clap/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:         "unrolled4",
		SIMDLevel:    cpu.SIMDSSE2,
		Priority:     10,
		ProcessBlock: processBlock,
	})
}

func processBlock(c registry.Coefficients, d0, d1 float64, buf []float64) (newD0, newD1 float64) {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	i := 0
	n := len(buf)
	for ; i+3 < n; i += 4 {
		x := buf[i : i+4 : i+4]

		y0 := b0*x[0] + d0
		d0 = b1*x[0] - a1*y0 + d1
		d1 = b2*x[0] - a2*y0

		y1 := b0*x[1] + d0
		d0 = b1*x[1] - a1*y1 + d1
		d1 = b2*x[1] - a2*y1

		y2 := b0*x[2] + d0
		d0 = b1*x[2] - a1*y2 + d1
		d1 = b2*x[2] - a2*y2

		y3 := b0*x[3] + d0
		d0 = b1*x[3] - a1*y3 + d1
		d1 = b2*x[3] - a2*y3

		x[0], x[1], x[2], x[3] = y0, y1, y2, y3
	}

	for ; i < n; i++ {
		xn := buf[i]
		y := b0*xn + d0
		d0 = b1*xn - a1*y + d1
		d1 = b2*xn - a2*y
		buf[i] = y
	}

	return d0, d1
}
