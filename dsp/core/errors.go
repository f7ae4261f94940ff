package core

import "errors"

var (
	// ErrInvalidConfiguration reports out-of-range settings: cutoffs outside
	// (0, Nyquist), a non-positive sample rate, negative bias or window, or a
	// sample rate that changes mid-session.
	ErrInvalidConfiguration = errors.New("clap: invalid configuration")

	// ErrInvalidInput reports a malformed buffer: empty, wrong length, or
	// containing NaN/Inf samples.
	ErrInvalidInput = errors.New("clap: invalid input")
)
