package audiofile

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// mp3Reader is the part of gomp3.Decoder used here.
type mp3Reader interface {
	Read(p []byte) (int, error)
	SampleRate() int
}

// mp3Source exposes go-mp3 output, which is always 16-bit stereo.
type mp3Source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
	carry      []byte
}

func decodeMP3(r io.Reader) (Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	return &mp3Source{dec: dec, sampleRate: dec.SampleRate()}, nil
}

func (s *mp3Source) SampleRate() int { return s.sampleRate }
func (s *mp3Source) Channels() int   { return 2 }
func (s *mp3Source) Close() error    { return nil }

func (s *mp3Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	// A read can end on an odd byte; keep it for the next call.
	k := copy(s.buf, s.carry)
	s.carry = s.carry[:0]

	n, err := s.dec.Read(s.buf[k:])
	n += k
	whole := n &^ 1
	if whole < n {
		s.carry = append(s.carry, s.buf[whole])
	}

	samples := s16leToFloat(dst, s.buf[:whole])
	if samples == 0 && err == nil {
		return 0, nil
	}

	return samples, err
}

// vorbisReader is the part of oggvorbis.Reader used here.
type vorbisReader interface {
	SampleRate() int
	Channels() int
	Read(p []float32) (int, error)
}

type vorbisSource struct {
	dec vorbisReader
}

func decodeVorbis(r io.Reader) (Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("ogg: %w", err)
	}

	return &vorbisSource{dec: dec}, nil
}

func (s *vorbisSource) SampleRate() int { return s.dec.SampleRate() }
func (s *vorbisSource) Channels() int   { return s.dec.Channels() }
func (s *vorbisSource) Close() error    { return nil }

func (s *vorbisSource) ReadSamples(dst []float32) (int, error) {
	// Only whole frames are requested so channels never drift.
	ch := max(s.dec.Channels(), 1)
	frames := len(dst) / ch
	if frames == 0 {
		return 0, nil
	}

	return s.dec.Read(dst[:frames*ch])
}
