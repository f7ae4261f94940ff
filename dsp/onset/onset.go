// Package onset turns a stream of threshold readings into discrete onset
// events with a two-state machine. A sustained loud passage produces one
// event on its rising edge; the detector re-arms only after the energy falls
// back to or below the threshold.
package onset

import (
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-clap/dsp/core"
	"github.com/cwbudde/algo-clap/dsp/energy"
)

// State is the detector position relative to the threshold.
type State int

const (
	StateBelow State = iota
	StateAbove
)

func (s State) String() string {
	if s == StateAbove {
		return "above"
	}
	return "below"
}

// Event marks the first buffer of an above-threshold run.
type Event struct {
	Index     int64         // buffer sequence number
	Time      time.Duration // stream time at the start of the buffer
	Energy    float64
	Threshold float64
}

// Config tunes the detector.
type Config struct {
	// MinInterval suppresses a rising edge that follows the previous onset
	// by less than this duration. Zero disables the refractory period.
	MinInterval time.Duration
}

// Detector is the Below/Above state machine. It is not safe for concurrent use.
type Detector struct {
	cfg      Config
	state    State
	last     Event
	haveLast bool
	seen     bool
	lastTime time.Duration
}

// New returns a Detector in StateBelow.
func New(cfg Config) (*Detector, error) {
	if cfg.MinInterval < 0 {
		return nil, fmt.Errorf("onset: %w: min interval %v must not be negative", core.ErrInvalidConfiguration, cfg.MinInterval)
	}
	return &Detector{cfg: cfg}, nil
}

// Observe advances the state machine with the reading for buffer index at
// stream time t. It returns an event only on a Below to Above transition.
// Non-finite energy or a time earlier than the previous observation is
// rejected with the state unchanged.
func (d *Detector) Observe(index int64, t time.Duration, r energy.Reading) (Event, bool, error) {
	if math.IsNaN(r.Energy) || math.IsInf(r.Energy, 0) {
		return Event{}, false, fmt.Errorf("onset: %w: non-finite energy %v", core.ErrInvalidInput, r.Energy)
	}
	if d.seen && t < d.lastTime {
		return Event{}, false, fmt.Errorf("onset: %w: time %v precedes %v", core.ErrInvalidInput, t, d.lastTime)
	}

	d.seen = true
	d.lastTime = t

	if !r.Above {
		d.state = StateBelow
		return Event{}, false, nil
	}

	if d.state == StateAbove {
		return Event{}, false, nil
	}

	d.state = StateAbove
	if d.haveLast && d.cfg.MinInterval > 0 && t-d.last.Time < d.cfg.MinInterval {
		return Event{}, false, nil
	}

	ev := Event{Index: index, Time: t, Energy: r.Energy, Threshold: r.Threshold}
	d.last = ev
	d.haveLast = true

	return ev, true, nil
}

// State returns the current state.
func (d *Detector) State() State { return d.state }

// Last returns the most recent event, if any.
func (d *Detector) Last() (Event, bool) { return d.last, d.haveLast }

// Reset returns the detector to StateBelow and forgets history.
func (d *Detector) Reset() {
	*d = Detector{cfg: d.cfg}
}
