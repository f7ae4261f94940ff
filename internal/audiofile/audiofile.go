// Package audiofile decodes audio files and raw PCM streams into
// interleaved float32 samples in [-1, 1].
package audiofile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned when no decoder handles the input.
	ErrUnsupportedFormat = errors.New("audiofile: unsupported format")

	// ErrOnlyPCM16 is returned for WAV or AIFF files that are not 16-bit PCM.
	ErrOnlyPCM16 = errors.New("audiofile: only 16-bit PCM is supported")

	// ErrNotAudio is returned when the container header is not recognised.
	ErrNotAudio = errors.New("audiofile: not a valid audio file")
)

// Source yields interleaved samples until io.EOF.
type Source interface {
	SampleRate() int
	Channels() int
	// ReadSamples fills dst with interleaved samples and returns how many
	// were written. A short read is not an error; io.EOF marks the end.
	ReadSamples(dst []float32) (int, error)
	Close() error
}

// Format names a container.
type Format string

const (
	FormatWAV    Format = "wav"
	FormatAIFF   Format = "aiff"
	FormatMP3    Format = "mp3"
	FormatVorbis Format = "ogg"
)

// FormatOf maps a file extension to a Format.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return FormatWAV, nil
	case ".aif", ".aiff":
		return FormatAIFF, nil
	case ".mp3":
		return FormatMP3, nil
	case ".ogg", ".oga":
		return FormatVorbis, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Decode wraps r in a Source for the given format.
func Decode(format Format, r io.Reader) (Source, error) {
	switch format {
	case FormatWAV:
		return decodeWAV(r)
	case FormatAIFF:
		return decodeAIFF(r)
	case FormatMP3:
		return decodeMP3(r)
	case FormatVorbis:
		return decodeVorbis(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Open decodes the file at path, choosing the decoder by extension. Closing
// the Source closes the file.
func Open(path string) (Source, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: %w", err)
	}

	src, err := Decode(format, f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("audiofile: %s: %w", path, err)
	}

	return &fileSource{Source: src, file: f}, nil
}

type fileSource struct {
	Source
	file *os.File
}

func (s *fileSource) Close() error {
	return errors.Join(s.Source.Close(), s.file.Close())
}

// ReadAll drains src and returns every sample read.
func ReadAll(src Source) ([]float32, error) {
	var out []float32
	chunk := make([]float32, 4096*max(src.Channels(), 1))
	for {
		n, err := src.ReadSamples(chunk)
		out = append(out, chunk[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		if n == 0 {
			return out, nil
		}
	}
}
