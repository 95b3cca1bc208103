// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/voxbooth/audio"
	"github.com/ik5/voxbooth/utils"
)

// go-mp3 always produces interleaved 16-bit little-endian stereo.
const (
	outputChannels = 2
	bytesPerSample = 2
)

// pcmStream is the part of gomp3.Decoder used by source.
type pcmStream interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        pcmStream
	sampleRate int
	buf        []byte
	// carry holds a trailing odd byte between reads.
	carry    []byte
	finished bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return outputChannels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.finished {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	size := len(dst) * bytesPerSample
	if cap(s.buf) < size {
		s.buf = make([]byte, size)
	}
	s.buf = s.buf[:size]
	held := copy(s.buf, s.carry)
	s.carry = s.carry[:0]

	n, err := s.dec.Read(s.buf[held:])
	n += held

	samples := n / bytesPerSample
	for i := range samples {
		v := int16(uint16(s.buf[2*i]) | uint16(s.buf[2*i+1])<<8)
		dst[i] = utils.Int16ToFloat32(v)
	}
	if rem := n % bytesPerSample; rem > 0 {
		s.carry = append(s.carry, s.buf[n-rem:n]...)
	}

	if err == io.EOF {
		s.finished = true
		return samples, io.EOF
	}
	if err != nil {
		return samples, fmt.Errorf("mp3 read: %w", err)
	}

	return samples, nil
}

// Decoder decodes MPEG-1/2 Layer III streams.
type Decoder struct{}

// Match reports whether header starts with an ID3v2 tag or an MPEG
// Layer III frame sync.
func (Decoder) Match(header []byte) bool {
	if len(header) >= 3 && string(header[:3]) == "ID3" {
		return true
	}

	return len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0 && header[1]&0x06 == 0x02
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	return &source{dec: dec, sampleRate: dec.SampleRate()}, nil
}

// Length returns the decoded length of an MP3 stream in frames using
// go-mp3's frame index. r must be seekable for the index to be built.
func Length(r io.Reader) (frames int64, sampleRate int, err error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return 0, 0, fmt.Errorf("mp3: %w", err)
	}

	length := dec.Length()
	if length < 0 {
		return 0, dec.SampleRate(), ErrUnknownLength
	}

	return length / (outputChannels * bytesPerSample), dec.SampleRate(), nil
}
