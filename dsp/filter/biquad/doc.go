// Package biquad provides the second-order IIR runtime used by the clap
// bandpass filter.
//
// A [Section] runs Direct Form II Transposed processing for one set of
// [Coefficients]. A [Chain] cascades sections and owns their delay lines, so a
// stream split into consecutive buffers filters exactly as if it had been
// processed in one piece. Coefficient design lives in dsp/filter/design/pass.
package biquad
