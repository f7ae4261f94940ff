// Package bandpass isolates the frequency band where hand claps carry most of
// their energy.
//
// A [Filter] owns a Butterworth bandpass cascade and its delay lines for the
// lifetime of a session, so consecutive buffers are filtered as one
// continuous stream.
package bandpass

import (
	"fmt"

	"github.com/cwbudde/algo-clap/dsp/core"
	"github.com/cwbudde/algo-clap/dsp/filter/biquad"
	"github.com/cwbudde/algo-clap/dsp/filter/design/pass"
)

// DefaultOrder is the Butterworth order used when Config.Order is zero.
const DefaultOrder = 5

// Config describes the pass band.
type Config struct {
	SampleRate float64
	LowCut     float64
	HighCut    float64
	// Order is the Butterworth order; each order adds one biquad section.
	// Zero selects DefaultOrder.
	Order int
}

// Filter is a streaming bandpass filter. It is not safe for concurrent use.
type Filter struct {
	cfg   Config
	chain *biquad.Chain
}

// New designs the cascade for cfg. An out-of-range configuration returns an
// error wrapping core.ErrInvalidConfiguration.
func New(cfg Config) (*Filter, error) {
	if cfg.Order == 0 {
		cfg.Order = DefaultOrder
	}

	coeffs, err := pass.ButterworthBP(cfg.LowCut, cfg.HighCut, cfg.Order, cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("bandpass: %w", err)
	}

	return &Filter{cfg: cfg, chain: biquad.NewChain(coeffs)}, nil
}

// Config returns the active configuration.
func (f *Filter) Config() Config { return f.cfg }

// Process filters buf and returns a new buffer of the same length and rate.
// The input is never modified. A buffer that fails validation, or whose rate
// differs from the configured one, is rejected before any delay line moves.
func (f *Filter) Process(buf core.SampleBuffer) (core.SampleBuffer, error) {
	if err := buf.Validate(); err != nil {
		return core.SampleBuffer{}, fmt.Errorf("bandpass: %w", err)
	}

	if buf.SampleRate != f.cfg.SampleRate {
		return core.SampleBuffer{}, fmt.Errorf("bandpass: %w: buffer rate %v differs from configured %v",
			core.ErrInvalidConfiguration, buf.SampleRate, f.cfg.SampleRate)
	}

	out := make([]float64, len(buf.Samples))
	f.chain.ProcessBlockTo(out, buf.Samples)

	return core.SampleBuffer{Samples: out, SampleRate: buf.SampleRate}, nil
}

// Retune moves the pass band. Coefficients are re-derived only when a cutoff
// actually changes, and the delay lines carry over so the output stays
// continuous. Invalid cutoffs leave the filter untouched.
func (f *Filter) Retune(lowCut, highCut float64) error {
	if lowCut == f.cfg.LowCut && highCut == f.cfg.HighCut {
		return nil
	}

	coeffs, err := pass.ButterworthBP(lowCut, highCut, f.cfg.Order, f.cfg.SampleRate)
	if err != nil {
		return fmt.Errorf("bandpass: %w", err)
	}

	f.chain.UpdateCoefficients(coeffs, 1)
	f.cfg.LowCut = lowCut
	f.cfg.HighCut = highCut

	return nil
}

// Reset clears the delay lines.
func (f *Filter) Reset() { f.chain.Reset() }

// Coefficients returns a copy of the designed sections.
func (f *Filter) Coefficients() []biquad.Coefficients { return f.chain.Coefficients() }

// State returns a snapshot of every section's delay line.
func (f *Filter) State() [][2]float64 { return f.chain.State() }

// SetState restores a snapshot taken with State. The slice length must match
// the number of sections.
func (f *Filter) SetState(state [][2]float64) { f.chain.SetState(state) }

// MagnitudeDB returns the designed magnitude response at freqHz.
func (f *Filter) MagnitudeDB(freqHz float64) float64 {
	return f.chain.MagnitudeDB(freqHz, f.cfg.SampleRate)
}

// CentreFrequency returns the frequency of unity gain.
func (f *Filter) CentreFrequency() float64 {
	return pass.CentreFrequency(f.cfg.LowCut, f.cfg.HighCut, f.cfg.SampleRate)
}
