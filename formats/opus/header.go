// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"bytes"
	"encoding/binary"
)

// SampleRate is the rate libopus decodes to and encodes from.
const SampleRate = 48000

// MimeType identifies the containers produced by Encoder.
const MimeType = "audio/ogg;codecs=opus"

const (
	oggPageHeaderSize = 27
	opusHeadMagic     = "OpusHead"
	opusHeadMinSize   = 19
)

// Head is the identification header of an Ogg Opus stream.
type Head struct {
	Channels        int
	PreSkip         int
	InputSampleRate int
}

// ParseHead reads the OpusHead packet from the first Ogg page of data.
func ParseHead(data []byte) (Head, error) {
	if len(data) < oggPageHeaderSize || string(data[:4]) != "OggS" {
		return Head{}, ErrNotOpusStream
	}

	segments := int(data[26])
	start := oggPageHeaderSize + segments
	if len(data) < start+opusHeadMinSize {
		return Head{}, ErrNotOpusStream
	}

	packet := data[start:]
	if !bytes.HasPrefix(packet, []byte(opusHeadMagic)) {
		return Head{}, ErrNotOpusStream
	}

	return Head{
		Channels:        int(packet[9]),
		PreSkip:         int(binary.LittleEndian.Uint16(packet[10:12])),
		InputSampleRate: int(binary.LittleEndian.Uint32(packet[12:16])),
	}, nil
}

// LastGranule scans data for the granule position of the final Ogg page.
// It returns -1 when no page carries one.
func LastGranule(data []byte) int64 {
	idx := bytes.LastIndex(data, []byte("OggS"))
	for idx >= 0 {
		if idx+oggPageHeaderSize <= len(data) && data[idx+4] == 0 {
			granule := int64(binary.LittleEndian.Uint64(data[idx+6 : idx+14]))
			if granule >= 0 {
				return granule
			}
		}
		idx = bytes.LastIndex(data[:idx], []byte("OggS"))
	}

	return -1
}
