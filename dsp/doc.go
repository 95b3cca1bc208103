// SPDX-License-Identifier: EPL-2.0

// Package dsp holds the block processors of the voice effects: RBJ biquad
// filters chained in order, and a feedback delay that produces decaying
// echoes. Processors work in place on planar float32 data and keep their
// arithmetic in float64.
package dsp
