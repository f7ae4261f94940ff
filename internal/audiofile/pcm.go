package audiofile

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// pcmReader is the part of the go-audio WAV and AIFF decoders used here.
type pcmReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// intSource adapts a go-audio decoder producing integer PCM.
type intSource struct {
	dec        pcmReader
	sampleRate int
	channels   int
	scale      float32
	buf        *goaudio.IntBuffer
}

func newIntSource(dec pcmReader, bitDepth int) (*intSource, error) {
	if bitDepth != 16 {
		return nil, fmt.Errorf("%w: got %d bits", ErrOnlyPCM16, bitDepth)
	}

	f := dec.Format()
	if f == nil || f.SampleRate <= 0 || f.NumChannels <= 0 {
		return nil, ErrNotAudio
	}

	return &intSource{
		dec:        dec,
		sampleRate: f.SampleRate,
		channels:   f.NumChannels,
		scale:      1 << 15,
		buf:        &goaudio.IntBuffer{Format: f, SourceBitDepth: bitDepth},
	}, nil
}

func (s *intSource) SampleRate() int { return s.sampleRate }
func (s *intSource) Channels() int   { return s.channels }
func (s *intSource) Close() error    { return nil }

func (s *intSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if cap(s.buf.Data) < len(dst) {
		s.buf.Data = make([]int, len(dst))
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.buf)
	for i := range n {
		dst[i] = float32(s.buf.Data[i]) / s.scale
	}

	if n == 0 && err == nil {
		return 0, io.EOF
	}

	return n, err
}

func decodeWAV(r io.Reader) (Source, error) {
	rs, err := asReadSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: wav", ErrNotAudio)
	}
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	return newIntSource(dec, int(dec.BitDepth))
}

func decodeAIFF(r io.Reader) (Source, error) {
	rs, err := asReadSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("aiff: %w", err)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: aiff", ErrNotAudio)
	}
	dec.ReadInfo()

	return newIntSource(dec, int(dec.BitDepth))
}

// asReadSeeker buffers r in memory when it cannot seek.
func asReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
