// Package pass designs pass-band IIR filters as cascades of biquad sections.
//
// [ButterworthBP] builds a digital Butterworth bandpass from its analog
// lowpass prototype: the prototype poles are shifted to the band with the
// lowpass-to-bandpass transform, mapped to the z-plane with the bilinear
// transform on pre-warped band edges, and paired into second-order sections
// consumable by dsp/filter/biquad.
package pass
