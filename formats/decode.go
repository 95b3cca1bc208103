// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/ik5/voxbooth/audio"
	"github.com/ik5/voxbooth/formats/aiff"
	"github.com/ik5/voxbooth/formats/mp3"
	"github.com/ik5/voxbooth/formats/opus"
	"github.com/ik5/voxbooth/formats/vorbis"
	"github.com/ik5/voxbooth/formats/wav"
)

// Format keys of the default registry.
const (
	WAV    = "wav"
	AIFF   = "aiff"
	Opus   = "ogg opus"
	Vorbis = "ogg vorbis"
	MP3    = "mp3"
)

// sniffSize covers the first Ogg page header plus its identification packet.
const sniffSize = 64

// NewRegistry returns a registry with every bundled decoder. MP3 is
// registered last because its frame-sync test is the loosest.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register(WAV, wav.Decoder{})
	reg.Register(AIFF, aiff.Decoder{})
	reg.Register(Opus, opus.Decoder{})
	reg.Register(Vorbis, vorbis.Decoder{})
	reg.Register(MP3, mp3.Decoder{})

	return reg
}

var (
	defaultOnce     sync.Once
	defaultRegistry *audio.Registry
)

func registry() *audio.Registry {
	defaultOnce.Do(func() { defaultRegistry = NewRegistry() })
	return defaultRegistry
}

// Detect names the container of raw, using the default registry.
func Detect(raw []byte) (string, bool) {
	format, _, ok := registry().Detect(raw[:min(len(raw), sniffSize)])
	return format, ok
}

// Decode converts an encoded container into a planar PCM buffer using the
// default registry. See DecodeWith.
func Decode(raw []byte) (*audio.Buffer, error) {
	return DecodeWith(registry(), raw)
}

// DecodeWith identifies the container of raw by its leading bytes, decodes
// it fully and closes the decoder on every path. The result is a pure
// function of raw. Every failure wraps ErrDecode.
func DecodeWith(reg *audio.Registry, raw []byte) (buf *audio.Buffer, err error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}

	format, dec, ok := reg.Detect(raw[:min(len(raw), sniffSize)])
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrDecode, ErrUnknownFormat)
	}

	src, err := dec.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, format, err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			buf, err = nil, fmt.Errorf("%w: %s: %w", ErrDecode, format, cerr)
		}
	}()

	buf, err = audio.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, format, err)
	}
	if buf.Frames() == 0 {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, format, ErrNoFrames)
	}

	return buf, nil
}

// IsDecodeError reports whether err came from Decode.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecode)
}
