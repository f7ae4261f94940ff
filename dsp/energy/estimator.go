package energy

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-clap/dsp/core"
)

// Defaults taken from field use with int16-scale input.
const (
	DefaultBias      = 6000.0
	DefaultSmoothing = 0.9
)

// Config tunes the adaptive threshold.
type Config struct {
	// Bias is added to the floor to form the threshold. Zero makes every
	// buffer louder than the floor count as above threshold.
	Bias float64
	// Smoothing is the weight kept by the old floor in each update, in [0, 1).
	Smoothing float64
	Measure   Measure
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{Bias: DefaultBias, Smoothing: DefaultSmoothing, Measure: MeasurePeak}
}

// Validate reports out-of-range settings.
func (c Config) Validate() error {
	if !(c.Bias >= 0) || math.IsInf(c.Bias, 0) {
		return fmt.Errorf("energy: %w: bias %v must be finite and non-negative", core.ErrInvalidConfiguration, c.Bias)
	}
	if !(c.Smoothing >= 0 && c.Smoothing < 1) {
		return fmt.Errorf("energy: %w: smoothing %v must be in [0, 1)", core.ErrInvalidConfiguration, c.Smoothing)
	}
	if c.Measure != MeasurePeak && c.Measure != MeasureRMS {
		return fmt.Errorf("energy: %w: unknown measure %d", core.ErrInvalidConfiguration, int(c.Measure))
	}
	return nil
}

// Reading is the outcome of one Update.
type Reading struct {
	Energy    float64
	Floor     float64 // floor after the update
	Threshold float64 // threshold the energy was compared against
	Above     bool
	// Warmup marks the priming buffer, which only seeds the floor.
	Warmup bool
}

// Estimator tracks the floor estimate. It is not safe for concurrent use.
type Estimator struct {
	cfg    Config
	floor  float64
	primed bool
}

// New returns an Estimator for cfg.
func New(cfg Config) (*Estimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Estimator{cfg: cfg}, nil
}

// Config returns the active configuration.
func (e *Estimator) Config() Config { return e.cfg }

// Update measures filtered and compares it against the threshold derived
// from the floor as it stood before this buffer. The floor only absorbs
// buffers that stay at or below the threshold. Non-finite input is rejected
// with the state unchanged.
func (e *Estimator) Update(filtered []float64) (Reading, error) {
	if i := core.FirstNonFinite(filtered); i >= 0 {
		return Reading{}, fmt.Errorf("energy: %w: non-finite sample %v at index %d", core.ErrInvalidInput, filtered[i], i)
	}

	energy := e.cfg.Measure.Compute(filtered)

	if !e.primed {
		e.floor = energy
		e.primed = true
		return Reading{
			Energy:    energy,
			Floor:     e.floor,
			Threshold: e.floor + e.cfg.Bias,
			Warmup:    true,
		}, nil
	}

	threshold := e.floor + e.cfg.Bias
	above := energy > threshold
	if !above {
		e.floor = e.cfg.Smoothing*e.floor + (1-e.cfg.Smoothing)*energy
	}

	return Reading{
		Energy:    energy,
		Floor:     e.floor,
		Threshold: threshold,
		Above:     above,
	}, nil
}

// Floor returns the current floor estimate.
func (e *Estimator) Floor() float64 { return e.floor }

// Threshold returns the threshold the next buffer will be compared against.
func (e *Estimator) Threshold() float64 { return e.floor + e.cfg.Bias }

// Primed reports whether the floor has been seeded.
func (e *Estimator) Primed() bool { return e.primed }

// SetBias changes the bias for subsequent updates.
func (e *Estimator) SetBias(bias float64) error {
	cfg := e.cfg
	cfg.Bias = bias
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg = cfg
	return nil
}

// Reset discards the floor estimate; the next buffer primes it again.
func (e *Estimator) Reset() {
	e.floor = 0
	e.primed = false
}
