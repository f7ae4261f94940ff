// Package buffer provides reusable float64 storage for the detector's hot
// path: a [Buffer] with capacity reuse, a [Pool] of scratch buffers, and a
// [Ring] that retains the most recent audio for persistence.
package buffer
