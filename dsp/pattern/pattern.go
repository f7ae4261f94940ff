// Package pattern groups onset events into clap patterns by inter-onset
// timing. Consecutive onsets no further apart than the window belong to the
// same gesture; a larger gap, a closure tick, or the end of the stream closes
// the open group.
package pattern

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/cwbudde/algo-clap/dsp/core"
	"github.com/cwbudde/algo-clap/dsp/onset"
)

// DefaultWindow is the largest gap between onsets of one pattern.
const DefaultWindow = 500 * time.Millisecond

// Pattern is a closed group of onsets in time order.
type Pattern struct {
	Onsets []onset.Event
}

// Count returns the number of onsets.
func (p Pattern) Count() int { return len(p.Onsets) }

// Start returns the time of the first onset.
func (p Pattern) Start() time.Duration {
	if len(p.Onsets) == 0 {
		return 0
	}
	return p.Onsets[0].Time
}

// End returns the time of the last onset.
func (p Pattern) End() time.Duration {
	if len(p.Onsets) == 0 {
		return 0
	}
	return p.Onsets[len(p.Onsets)-1].Time
}

// PeakEnergy returns the loudest onset energy.
func (p Pattern) PeakEnergy() float64 {
	peak := 0.0
	for _, ev := range p.Onsets {
		peak = max(peak, ev.Energy)
	}
	return peak
}

// Intervals returns the gaps between consecutive onsets.
func (p Pattern) Intervals() []time.Duration {
	if len(p.Onsets) < 2 {
		return nil
	}
	out := make([]time.Duration, len(p.Onsets)-1)
	for i := range out {
		out[i] = p.Onsets[i+1].Time - p.Onsets[i].Time
	}
	return out
}

// Kind names the pattern by its size.
func (p Pattern) Kind() string {
	switch len(p.Onsets) {
	case 0:
		return "empty"
	case 1:
		return "single"
	case 2:
		return "double"
	case 3:
		return "triple"
	default:
		return strconv.Itoa(len(p.Onsets)) + "-clap"
	}
}

// Config tunes grouping.
type Config struct {
	// Window is the largest gap between consecutive onsets of one pattern.
	// The boundary is inclusive.
	Window time.Duration
	// MaxSize closes a pattern as soon as it holds this many onsets.
	// Zero means unbounded.
	MaxSize int
}

// Classifier accumulates onsets into patterns. It is not safe for concurrent use.
type Classifier struct {
	cfg     Config
	pending []onset.Event
}

// New returns a Classifier for cfg.
func New(cfg Config) (*Classifier, error) {
	if cfg.Window < 0 {
		return nil, fmt.Errorf("pattern: %w: window %v must not be negative", core.ErrInvalidConfiguration, cfg.Window)
	}
	if cfg.MaxSize < 0 {
		return nil, fmt.Errorf("pattern: %w: max size %d must not be negative", core.ErrInvalidConfiguration, cfg.MaxSize)
	}
	return &Classifier{cfg: cfg}, nil
}

// Add appends ev to the open group, first closing the group when ev arrives
// more than Window after its last onset. Any patterns closed by this call are
// returned in order. Onset times must not decrease.
func (c *Classifier) Add(ev onset.Event) ([]Pattern, error) {
	var closed []Pattern

	if n := len(c.pending); n > 0 {
		last := c.pending[n-1].Time
		if ev.Time < last {
			return nil, fmt.Errorf("pattern: %w: onset at %v precedes %v", core.ErrInvalidInput, ev.Time, last)
		}
		if ev.Time-last > c.cfg.Window {
			closed = append(closed, c.take())
		}
	}

	c.pending = append(c.pending, ev)

	if c.cfg.MaxSize > 0 && len(c.pending) >= c.cfg.MaxSize {
		closed = append(closed, c.take())
	}

	return closed, nil
}

// Tick closes the open group once now is more than Window past its last onset.
func (c *Classifier) Tick(now time.Duration) (Pattern, bool) {
	n := len(c.pending)
	if n == 0 || now-c.pending[n-1].Time <= c.cfg.Window {
		return Pattern{}, false
	}
	return c.take(), true
}

// Flush closes the open group unconditionally, as at end of stream.
func (c *Classifier) Flush() (Pattern, bool) {
	if len(c.pending) == 0 {
		return Pattern{}, false
	}
	return c.take(), true
}

// Pending returns a copy of the open group.
func (c *Classifier) Pending() []onset.Event {
	return slices.Clone(c.pending)
}

// Reset drops the open group without emitting it.
func (c *Classifier) Reset() {
	c.pending = nil
}

func (c *Classifier) take() Pattern {
	p := Pattern{Onsets: c.pending}
	c.pending = nil
	return p
}
