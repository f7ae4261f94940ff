package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-clap/clap"
	"github.com/cwbudde/algo-clap/dsp/core"
	"github.com/cwbudde/algo-clap/dsp/onset"
	"github.com/cwbudde/algo-clap/dsp/pattern"
	"github.com/cwbudde/algo-clap/dsp/spectrum"
	"github.com/cwbudde/algo-clap/internal/audiofile"
	"github.com/cwbudde/algo-clap/internal/observe"
	"github.com/cwbudde/algo-clap/internal/wavsink"
	timestats "github.com/cwbudde/algo-clap/stats/time"
)

// int16Scale maps decoded [-1, 1] samples back to int16 amplitude, the scale
// the default threshold bias is tuned for.
const int16Scale = 32768

type options struct {
	config  clap.Config
	saveOn  int
	analyze bool
	out     io.Writer
	log     *slog.Logger
	sink    *wavsink.Sink
	metrics *observe.Metrics
}

// detect runs one Detector per input channel until the source is drained or
// ctx is cancelled.
func detect(ctx context.Context, src audiofile.Source, opts options) error {
	channels := src.Channels()
	cfg := opts.config
	rate := float64(src.SampleRate())
	if cfg.SampleRate != rate {
		opts.log.Info("using input sample rate", "configured", cfg.SampleRate, "input", rate)
		cfg.SampleRate = rate
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = max(int(rate/10), 1)
	}

	p := &printer{w: opts.out}
	workers := make([]*worker, channels)
	for ch := range workers {
		w, err := newWorker(ch, cfg, opts, p)
		if err != nil {
			return err
		}
		workers[ch] = w
	}

	opts.log.Info("listening for claps",
		"channels", channels,
		"sample_rate", rate,
		"buffer", cfg.BufferSize,
		"band", fmt.Sprintf("%g-%g Hz", cfg.LowCut, cfg.HighCut),
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		g.Go(func() error { return w.run(gctx) })
	}
	g.Go(func() error {
		defer func() {
			for _, w := range workers {
				close(w.in)
			}
		}()
		return readBuffers(gctx, src, cfg.BufferSize, workers)
	})

	return g.Wait()
}

// readBuffers splits the interleaved stream into per-channel buffers of size
// samples. The final partial buffer is padded with silence.
func readBuffers(ctx context.Context, src audiofile.Source, size int, workers []*worker) error {
	channels := len(workers)
	rate := float64(src.SampleRate())
	frame := make([]float32, size*channels)

	for {
		n, err := fill(src, frame)
		if n == 0 {
			return err
		}
		clear(frame[n:])

		interleaved := core.FromFloat32(frame, rate, int16Scale)
		perChannel := [][]float64{interleaved.Samples}
		if channels > 1 {
			perChannel = core.Deinterleave(interleaved.Samples, channels)
		}

		for ch, w := range workers {
			select {
			case w.in <- core.SampleBuffer{Samples: perChannel[ch], SampleRate: rate}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// fill reads until dst is full or the source ends. A partial final read comes
// back with io.EOF; an exhausted source returns 0 and nil.
func fill(src audiofile.Source, dst []float32) (int, error) {
	total := 0
	for total < len(dst) {
		n, err := src.ReadSamples(dst[total:])
		total += n
		if errors.Is(err, io.EOF) {
			if total == 0 {
				return 0, nil
			}
			return total, io.EOF
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

type worker struct {
	ch   int
	det  *clap.Detector
	in   chan core.SampleBuffer
	opts options
	out  *printer
}

func newWorker(ch int, cfg clap.Config, opts options, out *printer) (*worker, error) {
	detOpts := []clap.Option{clap.WithLogger(opts.log.With("channel", ch))}
	if opts.metrics != nil {
		detOpts = append(detOpts, clap.WithRecorder(opts.metrics.Channel(ch)))
	}

	det, err := clap.New(cfg, detOpts...)
	if err != nil {
		return nil, err
	}

	return &worker{ch: ch, det: det, in: make(chan core.SampleBuffer, 4), opts: opts, out: out}, nil
}

func (w *worker) run(ctx context.Context) error {
	for buf := range w.in {
		if ctx.Err() != nil {
			continue
		}

		res, err := w.det.Process(buf)
		if err != nil {
			return fmt.Errorf("channel %d: %w", w.ch, err)
		}

		if res.Onset != nil && w.opts.analyze {
			w.reportOnset(*res.Onset, buf)
		}
		for _, p := range res.Patterns {
			w.pattern(p)
		}
	}

	if ctx.Err() != nil {
		return nil
	}
	for _, p := range w.det.Flush() {
		w.pattern(p)
	}
	return nil
}

func (w *worker) pattern(p pattern.Pattern) {
	w.out.printf("ch%d %s start=%s end=%s claps=%d intervals=%v peak=%.0f\n",
		w.ch, p.Kind(), seconds(p.Start()), seconds(p.End()), p.Count(), p.Intervals(), p.PeakEnergy())

	if w.opts.sink == nil || p.Count() < w.opts.saveOn {
		return
	}

	path, err := w.opts.sink.Save(fmt.Sprintf("ch%d-%s", w.ch, p.Kind()), w.det.History(), int(w.det.Config().SampleRate))
	if err != nil {
		w.opts.log.Warn("failed to save clip", "channel", w.ch, "err", err)
		return
	}
	w.opts.log.Info("saved clip", "channel", w.ch, "path", path)
}

// reportOnset describes the raw buffer that fired: where its energy sits in
// frequency and how impulsive it is. Both help when tuning the band and bias.
func (w *worker) reportOnset(ev onset.Event, raw core.SampleBuffer) {
	spec, err := spectrum.PowerSpectrum(raw.Samples, raw.SampleRate)
	if err != nil {
		w.opts.log.Warn("spectrum failed", "channel", w.ch, "err", err)
		return
	}

	cfg := w.det.Config()
	inBand := 0.0
	if total := spec.Total(); total > 0 {
		inBand = spec.Band(cfg.LowCut, cfg.HighCut) / total
	}

	ts := timestats.Calculate(raw.Samples)

	w.out.printf("ch%d onset at=%s energy=%.0f threshold=%.0f centroid=%.0fHz in-band=%.0f%% crest=%.1fdB zcr=%.0f/s\n",
		w.ch, seconds(ev.Time), ev.Energy, ev.Threshold, spec.Centroid(), inBand*100,
		ts.CrestFactorDB, ts.ZeroCrossingRate(raw.SampleRate))
}

type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}
