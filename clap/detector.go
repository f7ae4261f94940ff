package clap

import (
	"fmt"
	"iter"
	"log/slog"
	"math"
	"time"

	"github.com/cwbudde/algo-clap/dsp/buffer"
	"github.com/cwbudde/algo-clap/dsp/core"
	"github.com/cwbudde/algo-clap/dsp/energy"
	"github.com/cwbudde/algo-clap/dsp/filter/bandpass"
	"github.com/cwbudde/algo-clap/dsp/onset"
	"github.com/cwbudde/algo-clap/dsp/pattern"
)

// Result reports what one buffer produced.
type Result struct {
	Index    int64         // buffer sequence number, from 0
	Time     time.Duration // stream time at the start of the buffer
	Filtered core.SampleBuffer
	Reading  energy.Reading
	Onset    *onset.Event      // set when this buffer starts a clap
	Patterns []pattern.Pattern // patterns closed by this buffer
}

// Recorder receives per-buffer telemetry. Implementations must be cheap;
// they run inline with Process.
type Recorder interface {
	RecordBuffer(elapsed time.Duration, r energy.Reading)
	RecordOnset(ev onset.Event)
	RecordPattern(p pattern.Pattern)
	RecordError(stage string, err error)
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.log = l
		}
	}
}

// WithRecorder attaches a telemetry sink.
func WithRecorder(r Recorder) Option {
	return func(d *Detector) { d.rec = r }
}

// Detector is one clap detection session. It is not safe for concurrent use;
// run one Detector per channel or stream.
type Detector struct {
	cfg      Config
	log      *slog.Logger
	rec      Recorder
	filter   *bandpass.Filter
	energy   *energy.Estimator
	onsets   *onset.Detector
	patterns *pattern.Classifier
	history  *buffer.Ring

	bufLen  int
	index   int64
	samples int64
}

// New validates cfg and builds a session.
func New(cfg Config, opts ...Option) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	filter, err := bandpass.New(bandpass.Config{
		SampleRate: cfg.SampleRate,
		LowCut:     cfg.LowCut,
		HighCut:    cfg.HighCut,
		Order:      cfg.FilterOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("clap: %w", err)
	}

	est, err := energy.New(energy.Config{
		Bias:      cfg.ThresholdBias,
		Smoothing: cfg.FloorSmoothing,
		Measure:   cfg.EnergyMeasure,
	})
	if err != nil {
		return nil, fmt.Errorf("clap: %w", err)
	}

	det, err := onset.New(onset.Config{MinInterval: cfg.MinOnsetInterval})
	if err != nil {
		return nil, fmt.Errorf("clap: %w", err)
	}

	cls, err := pattern.New(pattern.Config{Window: cfg.InterOnsetWindow, MaxSize: cfg.MaxPatternSize})
	if err != nil {
		return nil, fmt.Errorf("clap: %w", err)
	}

	d := &Detector{
		cfg:      cfg,
		log:      slog.New(slog.DiscardHandler),
		filter:   filter,
		energy:   est,
		onsets:   det,
		patterns: cls,
		history:  buffer.NewRing(int(math.Ceil(cfg.HistoryLength.Seconds() * cfg.SampleRate))),
		bufLen:   cfg.BufferSize,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.log.Debug("clap detector ready",
		"sample_rate", cfg.SampleRate,
		"band", fmt.Sprintf("%g-%g Hz", cfg.LowCut, cfg.HighCut),
		"order", cfg.FilterOrder,
		"bias", cfg.ThresholdBias,
		"window", cfg.InterOnsetWindow,
	)

	return d, nil
}

// Config returns the active configuration.
func (d *Detector) Config() Config { return d.cfg }

// Process runs one buffer through the pipeline. A rejected buffer leaves
// every stage untouched: malformed samples or a length that differs from the
// session's buffer size wrap core.ErrInvalidInput, and a sample rate that
// differs from the configured one wraps core.ErrInvalidConfiguration.
func (d *Detector) Process(buf core.SampleBuffer) (Result, error) {
	start := time.Now()

	if err := d.check(buf); err != nil {
		d.fail("validate", err)
		return Result{}, err
	}

	t := d.streamTime()
	filterState := d.filter.State()

	filtered, err := d.filter.Process(buf)
	if err != nil {
		d.fail("filter", err)
		return Result{}, fmt.Errorf("clap: %w", err)
	}

	reading, err := d.energy.Update(filtered.Samples)
	if err != nil {
		d.filter.SetState(filterState)
		d.fail("energy", err)
		return Result{}, fmt.Errorf("clap: %w", err)
	}

	// The reading is finite at this point, and t never decreases, so Observe
	// cannot fail.
	ev, fired, _ := d.onsets.Observe(d.index, t, reading)

	res := Result{Index: d.index, Time: t, Filtered: filtered, Reading: reading}

	if fired {
		res.Onset = &ev
		// Onset times come from the stream clock, which never decreases, so
		// Add cannot reject them.
		closed, _ := d.patterns.Add(ev)
		res.Patterns = append(res.Patterns, closed...)

		d.log.Debug("clap onset", "index", ev.Index, "time", ev.Time, "energy", ev.Energy, "threshold", ev.Threshold)
		if d.rec != nil {
			d.rec.RecordOnset(ev)
		}
	}

	if p, ok := d.patterns.Tick(t); ok {
		res.Patterns = append(res.Patterns, p)
	}

	for _, p := range res.Patterns {
		d.emit(p)
	}

	if d.bufLen == 0 {
		d.bufLen = len(buf.Samples)
	}
	d.history.Push(buf.Samples)
	d.index++
	d.samples += int64(len(buf.Samples))

	if d.rec != nil {
		d.rec.RecordBuffer(time.Since(start), reading)
	}

	return res, nil
}

// Flush closes the open pattern at end of stream.
func (d *Detector) Flush() []pattern.Pattern {
	p, ok := d.patterns.Flush()
	if !ok {
		return nil
	}
	d.emit(p)
	return []pattern.Pattern{p}
}

// Patterns runs every buffer of seq through the session and yields patterns
// as they close, flushing at the end. Iteration stops at the first error,
// which is yielded with a zero Pattern. The sequence shares the session, so
// iterating it twice continues the same stream rather than restarting.
func (d *Detector) Patterns(seq iter.Seq[core.SampleBuffer]) iter.Seq2[pattern.Pattern, error] {
	return func(yield func(pattern.Pattern, error) bool) {
		for buf := range seq {
			res, err := d.Process(buf)
			if err != nil {
				yield(pattern.Pattern{}, err)
				return
			}
			for _, p := range res.Patterns {
				if !yield(p, nil) {
					return
				}
			}
		}

		for _, p := range d.Flush() {
			if !yield(p, nil) {
				return
			}
		}
	}
}

// History returns copies of the most recent raw buffers, oldest first,
// covering at least HistoryLength once enough audio has been seen.
func (d *Detector) History() []core.SampleBuffer {
	blocks := d.history.Snapshot()
	out := make([]core.SampleBuffer, len(blocks))
	for i, b := range blocks {
		out[i] = core.SampleBuffer{Samples: b, SampleRate: d.cfg.SampleRate}
	}
	return out
}

// Pending returns the onsets of the pattern still open.
func (d *Detector) Pending() []onset.Event { return d.patterns.Pending() }

// Floor returns the current ambient energy estimate.
func (d *Detector) Floor() float64 { return d.energy.Floor() }

// StreamTime returns the time at which the next buffer starts.
func (d *Detector) StreamTime() time.Duration { return d.streamTime() }

// Retune moves the pass band while keeping the filter's delay lines.
func (d *Detector) Retune(lowCut, highCut float64) error {
	if err := d.filter.Retune(lowCut, highCut); err != nil {
		return fmt.Errorf("clap: %w", err)
	}
	d.cfg.LowCut = lowCut
	d.cfg.HighCut = highCut
	d.log.Info("clap band retuned", "lowcut", lowCut, "highcut", highCut)
	return nil
}

// SetBias changes the threshold bias for subsequent buffers.
func (d *Detector) SetBias(bias float64) error {
	if err := d.energy.SetBias(bias); err != nil {
		return fmt.Errorf("clap: %w", err)
	}
	d.cfg.ThresholdBias = bias
	return nil
}

// Reset starts a fresh stream with the same configuration.
func (d *Detector) Reset() {
	d.filter.Reset()
	d.energy.Reset()
	d.onsets.Reset()
	d.patterns.Reset()
	d.history.Reset()
	d.bufLen = d.cfg.BufferSize
	d.index = 0
	d.samples = 0
}

func (d *Detector) check(buf core.SampleBuffer) error {
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("clap: %w", err)
	}
	if buf.SampleRate != d.cfg.SampleRate {
		return fmt.Errorf("clap: %w: buffer rate %v differs from session rate %v",
			core.ErrInvalidConfiguration, buf.SampleRate, d.cfg.SampleRate)
	}
	if d.bufLen > 0 && len(buf.Samples) != d.bufLen {
		return fmt.Errorf("clap: %w: buffer has %d samples, session expects %d",
			core.ErrInvalidInput, len(buf.Samples), d.bufLen)
	}
	return nil
}

func (d *Detector) streamTime() time.Duration {
	return time.Duration(math.Round(float64(d.samples) / d.cfg.SampleRate * float64(time.Second)))
}

func (d *Detector) emit(p pattern.Pattern) {
	d.log.Info("clap pattern", "kind", p.Kind(), "count", p.Count(), "start", p.Start(), "end", p.End(), "peak", p.PeakEnergy())
	if d.rec != nil {
		d.rec.RecordPattern(p)
	}
}

func (d *Detector) fail(stage string, err error) {
	d.log.Warn("clap buffer rejected", "stage", stage, "index", d.index, "err", err)
	if d.rec != nil {
		d.rec.RecordError(stage, err)
	}
}
