// Package spectrum measures where in frequency a buffer's energy sits.
//
// [PowerSpectrum] frames a buffer with a Hann window and transforms it with an
// algo-fft plan. The resulting one-sided [Spectrum] answers band questions
// such as how much of a filtered buffer's power falls inside the clap band.
package spectrum
