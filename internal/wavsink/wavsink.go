// Package wavsink writes captured sample buffers to 16-bit mono WAV files.
package wavsink

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-clap/dsp/core"
)

const pcmFormat = 1

// Sink saves recordings into one directory.
type Sink struct {
	dir string
	now func() time.Time
}

// New returns a Sink writing into dir, creating it if needed.
func New(dir string) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("wavsink: %w", err)
	}
	return &Sink{dir: dir, now: time.Now}, nil
}

// Dir returns the output directory.
func (s *Sink) Dir() string { return s.dir }

// Save concatenates buffers into <dir>/<name>-<timestamp>.wav and returns the
// path. Samples are taken in int16 amplitude scale and clamped.
func (s *Sink) Save(name string, buffers []core.SampleBuffer, sampleRate int) (string, error) {
	if sampleRate <= 0 {
		return "", fmt.Errorf("wavsink: %w: sample rate %d", core.ErrInvalidConfiguration, sampleRate)
	}

	total := 0
	for _, b := range buffers {
		total += len(b.Samples)
	}

	data := make([]int, 0, total)
	for _, b := range buffers {
		for _, v := range b.Samples {
			data = append(data, int(core.Clamp(math.Round(v), math.MinInt16, math.MaxInt16)))
		}
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%s-%s.wav", name, s.now().Format("20060102-150405.000")))
	if err := writeWAV(path, data, sampleRate); err != nil {
		return "", err
	}

	return path, nil
}

func writeWAV(path string, data []int, sampleRate int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavsink: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("wavsink: %w", cerr)
		}
	}()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, pcmFormat)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavsink: write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavsink: finalize %s: %w", path, err)
	}

	return nil
}
