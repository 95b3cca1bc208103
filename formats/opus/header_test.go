// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"encoding/binary"
	"errors"
	"testing"
)

// oggPage builds a single Ogg page with one packet.
func oggPage(packet []byte, granule int64) []byte {
	page := make([]byte, oggPageHeaderSize+1, oggPageHeaderSize+1+len(packet))
	copy(page, "OggS")
	binary.LittleEndian.PutUint64(page[6:14], uint64(granule))
	page[26] = 1
	page[27] = byte(len(packet))

	return append(page, packet...)
}

func opusHead(channels int, preSkip uint16) []byte {
	head := make([]byte, opusHeadMinSize)
	copy(head, opusHeadMagic)
	head[8] = 1
	head[9] = byte(channels)
	binary.LittleEndian.PutUint16(head[10:12], preSkip)
	binary.LittleEndian.PutUint32(head[12:16], 48000)

	return head
}

func TestParseHead(t *testing.T) {
	t.Parallel()

	head, err := ParseHead(oggPage(opusHead(2, 312), 0))
	if err != nil {
		t.Fatalf("ParseHead() error = %v", err)
	}

	if head.Channels != 2 || head.PreSkip != 312 || head.InputSampleRate != 48000 {
		t.Errorf("ParseHead() = %+v", head)
	}
}

func TestParseHead_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "not ogg", data: []byte("RIFF\x00\x00\x00\x00WAVEfmt ")},
		{name: "vorbis", data: oggPage(append([]byte("\x01vorbis"), make([]byte, 22)...), 0)},
		{name: "truncated", data: oggPage([]byte("OpusHead"), 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := ParseHead(tt.data); !errors.Is(err, ErrNotOpusStream) {
				t.Errorf("ParseHead() error = %v, want ErrNotOpusStream", err)
			}
		})
	}
}

func TestLastGranule(t *testing.T) {
	t.Parallel()

	var data []byte
	data = append(data, oggPage(opusHead(1, 0), 0)...)
	data = append(data, oggPage([]byte{1, 2, 3}, 960)...)
	data = append(data, oggPage([]byte{4, 5, 6}, 1920)...)

	if got := LastGranule(data); got != 1920 {
		t.Errorf("LastGranule() = %d, want 1920", got)
	}

	// A final page without a completed packet carries granule -1.
	data = append(data, oggPage([]byte{7}, -1)...)
	if got := LastGranule(data); got != 1920 {
		t.Errorf("LastGranule() with open page = %d, want 1920", got)
	}

	if got := LastGranule([]byte("no pages here")); got != -1 {
		t.Errorf("LastGranule() = %d, want -1", got)
	}
}

func TestDecoder_Match(t *testing.T) {
	t.Parallel()

	if !(Decoder{}).Match(oggPage(opusHead(1, 0), 0)) {
		t.Error("Match() = false for an OpusHead page")
	}
	if (Decoder{}).Match([]byte("OggS")) {
		t.Error("Match() = true for a bare capture pattern")
	}
}
