// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ik5/voxbooth/audio"
	"github.com/jfreymuth/oggvorbis"
)

// oggReader is the part of oggvorbis.Reader used by source.
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec      oggReader
	channels int
	finished bool
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 * s.channels }

// ReadSamples fills dst with interleaved samples. oggvorbis always returns
// whole frames, so n is a multiple of Channels.
func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.finished {
		return 0, io.EOF
	}

	n, err := s.dec.Read(dst[:len(dst)-len(dst)%s.channels])
	if err == io.EOF {
		s.finished = true
		return n, io.EOF
	}
	if err != nil {
		return n, fmt.Errorf("vorbis read: %w", err)
	}

	return n, nil
}

// Decoder decodes Ogg Vorbis streams.
type Decoder struct{}

// Match reports whether header is the first page of an Ogg stream whose
// first packet is a Vorbis identification header.
func (Decoder) Match(header []byte) bool {
	if len(header) < 4 || string(header[:4]) != "OggS" {
		return false
	}

	return bytes.Contains(header[:min(len(header), 64)], []byte("\x01vorbis"))
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("vorbis: %w", err)
	}
	if dec.Channels() <= 0 {
		return nil, fmt.Errorf("vorbis: %w", audio.ErrInvalidChannels)
	}

	return &source{dec: dec, channels: dec.Channels()}, nil
}

// Length returns the number of frames in an Ogg Vorbis stream and its
// sample rate, read from the granule position of the last page.
func Length(r io.ReadSeeker) (frames int64, sampleRate int, err error) {
	frames, format, err := oggvorbis.GetLength(r)
	if err != nil {
		return 0, 0, fmt.Errorf("vorbis: %w", err)
	}

	return frames, format.SampleRate, nil
}
