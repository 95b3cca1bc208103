// SPDX-License-Identifier: EPL-2.0

package encode

import "errors"

var (
	// ErrEncodeTimeout indicates the compressed path did not finish within
	// its deadline.
	ErrEncodeTimeout = errors.New("compressed encode timed out")

	// ErrInvalidOptions indicates encoder options outside their range.
	ErrInvalidOptions = errors.New("invalid encoder options")

	// ErrNoCodec indicates no preferred compressed codec is supported.
	ErrNoCodec = errors.New("no supported compressed codec")
)
