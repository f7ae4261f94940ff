package clap

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/cwbudde/algo-clap/dsp/core"
	"github.com/cwbudde/algo-clap/dsp/energy"
	"github.com/cwbudde/algo-clap/dsp/filter/bandpass"
	"github.com/cwbudde/algo-clap/dsp/pattern"
	"gopkg.in/yaml.v3"
)

// Config holds every detector setting. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	SampleRate float64 `yaml:"sample_rate"`
	// BufferSize fixes the expected samples per buffer. Zero lets the first
	// buffer decide.
	BufferSize int `yaml:"buffer_size"`

	LowCut      float64 `yaml:"lowcut"`
	HighCut     float64 `yaml:"highcut"`
	FilterOrder int     `yaml:"filter_order"`

	ThresholdBias  float64        `yaml:"threshold_bias"`
	FloorSmoothing float64        `yaml:"floor_smoothing"`
	EnergyMeasure  energy.Measure `yaml:"energy_measure"`

	InterOnsetWindow time.Duration `yaml:"inter_onset_window"`
	MinOnsetInterval time.Duration `yaml:"min_onset_interval"`
	MaxPatternSize   int           `yaml:"max_pattern_size"`

	// HistoryLength is how much raw audio History keeps.
	HistoryLength time.Duration `yaml:"history_length"`
}

// DefaultConfig returns settings tuned for int16-scale audio at 44.1 kHz.
func DefaultConfig() Config {
	return Config{
		SampleRate:       44100,
		LowCut:           200,
		HighCut:          3200,
		FilterOrder:      bandpass.DefaultOrder,
		ThresholdBias:    energy.DefaultBias,
		FloorSmoothing:   energy.DefaultSmoothing,
		EnergyMeasure:    energy.MeasurePeak,
		InterOnsetWindow: pattern.DefaultWindow,
		HistoryLength:    3 * time.Second,
	}
}

// Validate checks cfg and returns every violation joined into one error.
// Each violation wraps core.ErrInvalidConfiguration.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{core.ErrInvalidConfiguration}, args...)...))
	}

	if !(c.SampleRate > 0) || math.IsInf(c.SampleRate, 0) {
		bad("sample_rate %v must be positive and finite", c.SampleRate)
	}
	if c.BufferSize < 0 {
		bad("buffer_size %d must not be negative", c.BufferSize)
	}
	if !(c.LowCut > 0) {
		bad("lowcut %v must be positive", c.LowCut)
	}
	if !(c.HighCut > c.LowCut) {
		bad("highcut %v must exceed lowcut %v", c.HighCut, c.LowCut)
	}
	if c.SampleRate > 0 && !(c.HighCut < c.SampleRate/2) {
		bad("highcut %v must be below Nyquist %v", c.HighCut, c.SampleRate/2)
	}
	if c.FilterOrder < 1 {
		bad("filter_order %d must be at least 1", c.FilterOrder)
	}
	if !(c.ThresholdBias >= 0) || math.IsInf(c.ThresholdBias, 0) {
		bad("threshold_bias %v must be finite and non-negative", c.ThresholdBias)
	}
	if !(c.FloorSmoothing >= 0 && c.FloorSmoothing < 1) {
		bad("floor_smoothing %v must be in [0, 1)", c.FloorSmoothing)
	}
	if c.EnergyMeasure != energy.MeasurePeak && c.EnergyMeasure != energy.MeasureRMS {
		bad("energy_measure %d is unknown", int(c.EnergyMeasure))
	}
	if c.InterOnsetWindow < 0 {
		bad("inter_onset_window %v must not be negative", c.InterOnsetWindow)
	}
	if c.MinOnsetInterval < 0 {
		bad("min_onset_interval %v must not be negative", c.MinOnsetInterval)
	}
	if c.MaxPatternSize < 0 {
		bad("max_pattern_size %d must not be negative", c.MaxPatternSize)
	}
	if c.HistoryLength < 0 {
		bad("history_length %v must not be negative", c.HistoryLength)
	}

	return errors.Join(errs...)
}

// LoadConfig decodes YAML from r over DefaultConfig and validates the result.
// Unknown keys are rejected. Durations use Go syntax such as "500ms".
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("clap: decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads the YAML configuration at path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("clap: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("clap: parse %q: %w", path, err)
	}
	return cfg, nil
}

// YAML encodes cfg in the same form LoadConfig reads.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
