package energy

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-clap/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Measure selects how a buffer is reduced to one energy value.
type Measure int

const (
	// MeasurePeak is the largest absolute sample.
	MeasurePeak Measure = iota
	// MeasureRMS is the root mean square of the samples.
	MeasureRMS
)

// String returns the configuration name of m.
func (m Measure) String() string {
	switch m {
	case MeasurePeak:
		return "peak"
	case MeasureRMS:
		return "rms"
	default:
		return fmt.Sprintf("Measure(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Measure) MarshalText() ([]byte, error) {
	switch m {
	case MeasurePeak, MeasureRMS:
		return []byte(m.String()), nil
	default:
		return nil, fmt.Errorf("energy: %w: unknown measure %d", core.ErrInvalidConfiguration, int(m))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Measure) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "peak", "":
		*m = MeasurePeak
	case "rms":
		*m = MeasureRMS
	default:
		return fmt.Errorf("energy: %w: unknown measure %q", core.ErrInvalidConfiguration, text)
	}
	return nil
}

// Compute reduces samples to a single energy value. It returns 0 for empty
// or all-zero input and grows monotonically with signal amplitude.
func (m Measure) Compute(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	switch m {
	case MeasureRMS:
		return rms(samples)
	default:
		return peak(samples)
	}
}

func peak(samples []float64) float64 {
	return vecmath.MaxAbs(samples)
}

func rms(samples []float64) float64 {
	return mathSqrt(vecmath.DotProduct(samples, samples) / float64(len(samples)))
}
