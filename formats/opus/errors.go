// SPDX-License-Identifier: EPL-2.0

package opus

import "errors"

var (
	// ErrNotOpusStream indicates the data does not start with an Ogg page
	// carrying an OpusHead packet.
	ErrNotOpusStream = errors.New("not an Ogg Opus stream")

	// ErrInvalidBitrate indicates a negative Encoder.Bitrate.
	ErrInvalidBitrate = errors.New("invalid opus bitrate")

	// ErrUnsupportedChannelCnt indicates a channel mapping other than
	// mono or stereo.
	ErrUnsupportedChannelCnt = errors.New("unsupported opus channel count")
)
