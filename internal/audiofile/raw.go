package audiofile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cwbudde/algo-clap/dsp/core"
)

// rawSource reads headerless signed 16-bit little-endian PCM, the format
// capture tools such as arecord or sox write to a pipe.
type rawSource struct {
	r          io.Reader
	sampleRate int
	channels   int
	buf        []byte
}

// Raw wraps a stream of interleaved s16le frames.
func Raw(r io.Reader, sampleRate, channels int) (Source, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("audiofile: %w: raw rate %d, channels %d",
			core.ErrInvalidConfiguration, sampleRate, channels)
	}

	return &rawSource{r: r, sampleRate: sampleRate, channels: channels}, nil
}

func (s *rawSource) SampleRate() int { return s.sampleRate }
func (s *rawSource) Channels() int   { return s.channels }

func (s *rawSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ReadSamples blocks until dst is full or the stream ends, so a live pipe
// yields whole buffers.
func (s *rawSource) ReadSamples(dst []float32) (int, error) {
	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	n, err := io.ReadFull(s.r, s.buf)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}

	return s16leToFloat(dst, s.buf[:n&^1]), err
}

func s16leToFloat(dst []float32, src []byte) int {
	n := min(len(src)/2, len(dst))
	for i := range n {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(src[2*i:]))) / 32768
	}
	return n
}
