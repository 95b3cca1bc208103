// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize   = errors.New("dst size must be multiple of channels")
	ErrRaggedBuffer     = errors.New("buffer channels differ in length")
	ErrInvalidRate      = errors.New("sample rate must be positive")
	ErrInvalidChannels  = errors.New("channel count must be positive")
	ErrInvalidRateRatio = errors.New("resampling ratio must be positive and finite")
)
