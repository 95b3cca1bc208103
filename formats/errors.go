// SPDX-License-Identifier: EPL-2.0

package formats

import "errors"

var (
	// ErrDecode wraps every decoding failure.
	ErrDecode = errors.New("decode failed")

	// ErrUnknownFormat indicates no registered decoder recognised the data.
	ErrUnknownFormat = errors.New("unrecognised container")

	// ErrNoFrames indicates a container that decodes to silence of length zero.
	ErrNoFrames = errors.New("container holds no audio frames")
)
