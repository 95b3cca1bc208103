// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes 16-bit PCM AIFF files through
// github.com/go-audio/aiff.
//
// Samples use the same asymmetric 16-bit scale as the wav package, so
// full-scale negative values map to -1 and full-scale positive values
// to 1.
package aiff
