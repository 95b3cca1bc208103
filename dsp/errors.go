// SPDX-License-Identifier: EPL-2.0

package dsp

import "errors"

var (
	// ErrInvalidFilter indicates a filter with a non-positive or
	// non-finite frequency, or an unknown kind.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrInvalidDelay indicates a feedback stage with a non-positive delay,
	// a feedback gain outside [0, 1) or a negative dry gain.
	ErrInvalidDelay = errors.New("invalid feedback delay")

	// ErrInvalidRate indicates a non-positive processing sample rate.
	ErrInvalidRate = errors.New("sample rate must be positive")
)
