// Package energy measures the strength of filtered buffers and tracks the
// adaptive threshold that separates claps from ambient sound.
//
// The [Estimator] keeps a floor estimate, an exponential moving average of
// buffer energy taken only while the signal stays at or below the threshold,
// so that loud events never pull the baseline up. The threshold is the floor
// plus a fixed bias.
package energy
