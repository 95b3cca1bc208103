// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ik5/voxbooth/audio"
	hraban "gopkg.in/hraban/opus.v2"
)

// floatStream is the part of hraban's libopusfile Stream used by source.
type floatStream interface {
	ReadFloat32(pcm []float32) (int, error)
	Close() error
}

type source struct {
	stream   floatStream
	channels int
	finished bool
}

func (s *source) SampleRate() int { return SampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 5760 * s.channels }

func (s *source) Close() error {
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("opus close: %w", err)
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.finished {
		return 0, io.EOF
	}

	usable := len(dst) - len(dst)%s.channels
	if usable == 0 {
		return 0, audio.ErrInvalidDstSize
	}

	// libopusfile reports samples per channel.
	n, err := s.stream.ReadFloat32(dst[:usable])
	if err == io.EOF {
		s.finished = true
		return n * s.channels, io.EOF
	}
	if err != nil {
		return 0, fmt.Errorf("opus read: %w", err)
	}

	return n * s.channels, nil
}

// Decoder decodes Ogg Opus streams to 48 kHz float samples.
type Decoder struct{}

// Match reports whether header is an Ogg page starting an Opus stream.
func (Decoder) Match(header []byte) bool {
	_, err := ParseHead(header)
	return err == nil
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading opus data: %w", err)
	}

	head, err := ParseHead(data)
	if err != nil {
		return nil, err
	}
	if head.Channels < 1 || head.Channels > 2 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannelCnt, head.Channels)
	}

	stream, err := hraban.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opus: %w", err)
	}

	return &source{stream: stream, channels: head.Channels}, nil
}
