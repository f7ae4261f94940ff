// Package observe records clap detector telemetry through the OpenTelemetry
// metrics API. A Prometheus exporter bridge is available via [InitProvider]
// so the instruments can be scraped over HTTP. Tests should use [NewMetrics]
// with their own [metric.MeterProvider].
package observe

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cwbudde/algo-clap/dsp/energy"
	"github.com/cwbudde/algo-clap/dsp/onset"
	"github.com/cwbudde/algo-clap/dsp/pattern"
)

// meterName is the instrumentation scope for every clap metric.
const meterName = "github.com/cwbudde/algo-clap"

// Metrics holds the detector instruments. The OTel types are safe for
// concurrent use, so one Metrics can serve every channel.
type Metrics struct {
	// Buffers counts processed buffers. Attribute: channel.
	Buffers metric.Int64Counter

	// Onsets counts detected clap onsets. Attribute: channel.
	Onsets metric.Int64Counter

	// Patterns counts closed patterns. Attributes: channel, kind.
	Patterns metric.Int64Counter

	// Errors counts rejected buffers. Attributes: channel, stage.
	Errors metric.Int64Counter

	// ProcessDuration tracks per-buffer processing time.
	ProcessDuration metric.Float64Histogram

	// Floor reports the latest ambient energy estimate. Attribute: channel.
	Floor metric.Float64Gauge

	// OnsetEnergy tracks the energy of buffers that fired an onset.
	OnsetEnergy metric.Float64Histogram
}

// latencyBuckets are in seconds; a 100 ms buffer normally takes well under
// a millisecond.
var latencyBuckets = []float64{
	0.00001, 0.000025, 0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.01, 0.1,
}

// NewMetrics creates every instrument from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Buffers, err = m.Int64Counter("clap.buffers",
		metric.WithDescription("Buffers processed by the detector."),
	); err != nil {
		return nil, err
	}
	if met.Onsets, err = m.Int64Counter("clap.onsets",
		metric.WithDescription("Clap onsets detected."),
	); err != nil {
		return nil, err
	}
	if met.Patterns, err = m.Int64Counter("clap.patterns",
		metric.WithDescription("Clap patterns closed, by kind."),
	); err != nil {
		return nil, err
	}
	if met.Errors, err = m.Int64Counter("clap.errors",
		metric.WithDescription("Buffers rejected, by pipeline stage."),
	); err != nil {
		return nil, err
	}
	if met.ProcessDuration, err = m.Float64Histogram("clap.process.duration",
		metric.WithDescription("Time spent processing one buffer."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Floor, err = m.Float64Gauge("clap.energy.floor",
		metric.WithDescription("Current ambient energy estimate."),
	); err != nil {
		return nil, err
	}
	if met.OnsetEnergy, err = m.Float64Histogram("clap.onset.energy",
		metric.WithDescription("Filtered energy of buffers that started a clap."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns a package-level Metrics built from the global
// meter provider on first use.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Channel returns a recorder that tags every observation with the channel
// number. It satisfies clap.Recorder.
func (m *Metrics) Channel(ch int) *ChannelRecorder {
	attr := attribute.String("channel", strconv.Itoa(ch))
	return &ChannelRecorder{
		m:     m,
		attr:  attr,
		attrs: metric.WithAttributes(attr),
	}
}

// ChannelRecorder feeds one detector's events into Metrics.
type ChannelRecorder struct {
	m     *Metrics
	attr  attribute.KeyValue
	attrs metric.MeasurementOption
}

// RecordBuffer counts a processed buffer and updates the floor gauge.
func (r *ChannelRecorder) RecordBuffer(elapsed time.Duration, reading energy.Reading) {
	ctx := context.Background()
	r.m.Buffers.Add(ctx, 1, r.attrs)
	r.m.ProcessDuration.Record(ctx, elapsed.Seconds(), r.attrs)
	r.m.Floor.Record(ctx, reading.Floor, r.attrs)
}

// RecordOnset counts an onset.
func (r *ChannelRecorder) RecordOnset(ev onset.Event) {
	ctx := context.Background()
	r.m.Onsets.Add(ctx, 1, r.attrs)
	r.m.OnsetEnergy.Record(ctx, ev.Energy, r.attrs)
}

// RecordPattern counts a closed pattern by kind.
func (r *ChannelRecorder) RecordPattern(p pattern.Pattern) {
	r.m.Patterns.Add(context.Background(), 1,
		metric.WithAttributes(r.attr, attribute.String("kind", p.Kind())),
	)
}

// RecordError counts a rejected buffer by stage.
func (r *ChannelRecorder) RecordError(stage string, _ error) {
	r.m.Errors.Add(context.Background(), 1,
		metric.WithAttributes(r.attr, attribute.String("stage", stage)),
	)
}
