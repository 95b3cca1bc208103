// SPDX-License-Identifier: EPL-2.0

package render

import "errors"

var (
	// ErrInvalidOptions indicates a target rate or channel count that
	// cannot be rendered.
	ErrInvalidOptions = errors.New("invalid render options")

	// ErrEmptyInput indicates a buffer without frames.
	ErrEmptyInput = errors.New("empty input buffer")
)
