package biquad

// Chain is an ordered cascade of biquad sections processed in series.
// Each section's output feeds the next; the delay lines persist between
// calls so consecutive blocks form one continuous stream.
type Chain struct {
	sections []Section
	gain     float64
}

type chainConfig struct {
	gain float64
}

// ChainOption configures a Chain.
type ChainOption func(*chainConfig)

// WithGain sets an overall gain applied to the input before cascading.
// Default is 1.0 (unity gain).
func WithGain(g float64) ChainOption {
	return func(cfg *chainConfig) { cfg.gain = g }
}

// NewChain creates a cascade from one or more coefficient sets.
// Each Coefficients value becomes one Section in the cascade.
func NewChain(coeffs []Coefficients, opts ...ChainOption) *Chain {
	cfg := chainConfig{gain: 1}
	for _, o := range opts {
		o(&cfg)
	}

	c := &Chain{
		sections: make([]Section, len(coeffs)),
		gain:     cfg.gain,
	}
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}

	return c
}

// ProcessSample cascades input through all sections in order.
func (c *Chain) ProcessSample(x float64) float64 {
	x *= c.gain
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters a block in-place through the full cascade.
func (c *Chain) ProcessBlock(buf []float64) {
	if c.gain != 1 {
		for i, x := range buf {
			buf[i] = x * c.gain
		}
	}

	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// ProcessBlockTo filters src into dst, leaving src untouched.
// dst must be at least as long as src.
func (c *Chain) ProcessBlockTo(dst, src []float64) {
	dst = dst[:len(src)]
	copy(dst, src)
	c.ProcessBlock(dst)
}

// Reset clears all section states.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// Order returns the total filter order (2 per full biquad section).
func (c *Chain) Order() int {
	return 2 * len(c.sections)
}

// NumSections returns the number of biquad sections.
func (c *Chain) NumSections() int {
	return len(c.sections)
}

// Coefficients returns a copy of every section's coefficients.
func (c *Chain) Coefficients() []Coefficients {
	out := make([]Coefficients, len(c.sections))
	for i := range c.sections {
		out[i] = c.sections[i].Coefficients
	}

	return out
}

// UpdateCoefficients replaces the filter coefficients and gain.
// If the number of sections is unchanged the delay-line state of each section
// is preserved, avoiding the output discontinuity that would result from
// starting a fresh chain with zero state.
// If the section count changes the sections are replaced and state is reset.
func (c *Chain) UpdateCoefficients(coeffs []Coefficients, gain float64) {
	c.gain = gain

	if len(coeffs) == len(c.sections) {
		for i := range c.sections {
			c.sections[i].Coefficients = coeffs[i]
		}

		return
	}

	c.sections = make([]Section, len(coeffs))
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}
}

// State returns a snapshot of all section delay-line states.
func (c *Chain) State() [][2]float64 {
	states := make([][2]float64, len(c.sections))
	for i := range c.sections {
		states[i] = c.sections[i].State()
	}

	return states
}

// SetState restores previously saved section states.
// The slice length must match NumSections.
func (c *Chain) SetState(states [][2]float64) {
	for i := range c.sections {
		c.sections[i].SetState(states[i])
	}
}
