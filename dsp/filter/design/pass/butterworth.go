package pass

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-clap/dsp/core"
	"github.com/cwbudde/algo-clap/dsp/filter/biquad"
)

// ButterworthBP designs an order-N Butterworth bandpass between lowHz and
// highHz. The result has 2N poles packed into N biquad sections. Every section
// has its zeros at DC and Nyquist and is scaled to unity gain at the digital
// centre frequency, so the cascade passes the band at the input amplitude and
// drops to -3 dB at both edges.
func ButterworthBP(lowHz, highHz float64, order int, sampleRate float64) ([]biquad.Coefficients, error) {
	if err := validateBand(lowHz, highHz, order, sampleRate); err != nil {
		return nil, err
	}

	fs2 := 2 * sampleRate
	wl, wh := prewarp(lowHz, sampleRate), prewarp(highHz, sampleRate)
	w0 := math.Sqrt(wl * wh)
	bw := wh - wl
	centreHz := CentreFrequency(lowHz, highHz, sampleRate)

	sections := make([]biquad.Coefficients, 0, order)
	for k := range order / 2 {
		s1, s2 := lowpassToBandpass(prototypePole(k, order), w0, bw)
		z1, z2 := bilinear(s1, fs2), bilinear(s2, fs2)

		sections = append(sections,
			bandSection(z1, cmplx.Conj(z1), centreHz, sampleRate),
			bandSection(z2, cmplx.Conj(z2), centreHz, sampleRate),
		)
	}

	if order%2 != 0 {
		s1, s2 := lowpassToBandpass(-1, w0, bw)
		sections = append(sections, bandSection(bilinear(s1, fs2), bilinear(s2, fs2), centreHz, sampleRate))
	}

	return sections, nil
}

// CentreFrequency returns the digital centre frequency of the band: the
// geometric mean of the pre-warped edges mapped back through the bilinear
// transform.
func CentreFrequency(lowHz, highHz, sampleRate float64) float64 {
	w0 := math.Sqrt(prewarp(lowHz, sampleRate) * prewarp(highHz, sampleRate))
	return sampleRate / math.Pi * math.Atan(w0/(2*sampleRate))
}

func validateBand(lowHz, highHz float64, order int, sampleRate float64) error {
	switch {
	case !(sampleRate > 0) || math.IsInf(sampleRate, 0):
		return fmt.Errorf("%w: sample rate %v must be positive and finite", core.ErrInvalidConfiguration, sampleRate)
	case order < 1:
		return fmt.Errorf("%w: filter order %d must be at least 1", core.ErrInvalidConfiguration, order)
	case !(lowHz > 0):
		return fmt.Errorf("%w: low cutoff %v must be positive", core.ErrInvalidConfiguration, lowHz)
	case !(highHz > lowHz):
		return fmt.Errorf("%w: high cutoff %v must exceed low cutoff %v", core.ErrInvalidConfiguration, highHz, lowHz)
	case !(highHz < sampleRate/2):
		return fmt.Errorf("%w: high cutoff %v must be below Nyquist %v", core.ErrInvalidConfiguration, highHz, sampleRate/2)
	}

	return nil
}

// prewarp maps a digital frequency to the analog frequency (rad/s) that the
// bilinear transform sends back onto it.
func prewarp(freqHz, sampleRate float64) float64 {
	return 2 * sampleRate * math.Tan(math.Pi*freqHz/sampleRate)
}

// prototypePole returns the k-th left half-plane pole of the normalized
// analog Butterworth lowpass of the given order.
func prototypePole(k, order int) complex128 {
	theta := math.Pi * float64(2*k+order+1) / float64(2*order)
	return cmplx.Rect(1, theta)
}

// lowpassToBandpass maps prototype pole p through s -> (s^2 + w0^2) / (bw*s)
// and returns the two band poles it splits into.
func lowpassToBandpass(p complex128, w0, bw float64) (complex128, complex128) {
	pb := p * complex(bw, 0)
	root := cmplx.Sqrt(pb*pb - complex(4*w0*w0, 0))

	return (pb + root) / 2, (pb - root) / 2
}

func bilinear(s complex128, fs2 float64) complex128 {
	k := complex(fs2, 0)
	return (k + s) / (k - s)
}

// bandSection builds (1 - z^-2) / ((1 - za z^-1)(1 - zb z^-1)) scaled to
// unity magnitude at centreHz. za and zb are a conjugate pair or both real.
func bandSection(za, zb complex128, centreHz, sampleRate float64) biquad.Coefficients {
	c := biquad.Coefficients{
		B0: 1,
		B2: -1,
		A1: -real(za + zb),
		A2: real(za * zb),
	}

	g := 1 / cmplx.Abs(c.Response(centreHz, sampleRate))
	c.B0 = g
	c.B2 = -g

	return c
}
