// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// Buffer is a fully decoded, planar PCM signal. Data holds one slice per
// channel and every channel has the same number of frames.
type Buffer struct {
	SampleRate int
	Data       [][]float32
}

// NewBuffer allocates a silent buffer of the given shape.
func NewBuffer(sampleRate, channels, frames int) *Buffer {
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
	}

	return &Buffer{SampleRate: sampleRate, Data: data}
}

// Channels returns the number of channels.
func (b *Buffer) Channels() int { return len(b.Data) }

// Frames returns the number of samples per channel.
func (b *Buffer) Frames() int {
	if len(b.Data) == 0 {
		return 0
	}

	return len(b.Data[0])
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}

	return float64(b.Frames()) / float64(b.SampleRate)
}

// Validate checks the shape invariants of the buffer.
func (b *Buffer) Validate() error {
	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRate, b.SampleRate)
	}
	if len(b.Data) == 0 {
		return ErrInvalidChannels
	}

	frames := len(b.Data[0])
	for c := 1; c < len(b.Data); c++ {
		if len(b.Data[c]) != frames {
			return fmt.Errorf("%w: channel %d has %d frames, want %d",
				ErrRaggedBuffer, c, len(b.Data[c]), frames)
		}
	}

	return nil
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{SampleRate: b.SampleRate, Data: make([][]float32, len(b.Data))}
	for c, ch := range b.Data {
		out.Data[c] = append([]float32(nil), ch...)
	}

	return out
}

// Interleave returns the samples frame by frame across channels.
func (b *Buffer) Interleave() []float32 {
	channels := b.Channels()
	frames := b.Frames()
	out := make([]float32, frames*channels)

	for c, ch := range b.Data {
		for f, v := range ch {
			out[f*channels+c] = v
		}
	}

	return out
}

// Source returns a streaming view of the buffer. The buffer must not be
// modified while the source is in use.
func (b *Buffer) Source() Source {
	return &bufferSource{buf: b}
}

type bufferSource struct {
	buf *Buffer
	pos int
}

func (s *bufferSource) SampleRate() int { return s.buf.SampleRate }
func (s *bufferSource) Channels() int   { return s.buf.Channels() }
func (s *bufferSource) BufSize() int    { return 4096 }
func (s *bufferSource) Close() error    { return nil }

func (s *bufferSource) ReadSamples(dst []float32) (int, error) {
	channels := s.buf.Channels()
	if channels == 0 {
		return 0, io.EOF
	}
	if len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}

	total := s.buf.Frames()
	if s.pos >= total {
		return 0, io.EOF
	}

	frames := min(len(dst)/channels, total-s.pos)
	for f := range frames {
		for c := range channels {
			dst[f*channels+c] = s.buf.Data[c][s.pos+f]
		}
	}
	s.pos += frames

	if s.pos >= total {
		return frames * channels, io.EOF
	}

	return frames * channels, nil
}

// maxEmptyReads bounds consecutive (0, nil) reads before ReadAll gives up.
const maxEmptyReads = 100

// ReadAll drains src into a planar Buffer. It does not close src. A source
// that stops making progress without io.EOF yields io.ErrNoProgress.
func ReadAll(src Source) (*Buffer, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrInvalidChannels
	}
	if src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRate, src.SampleRate())
	}

	bufSize := src.BufSize()
	if bufSize < channels {
		bufSize = 4096
	}
	bufSize -= bufSize % channels
	if bufSize == 0 {
		bufSize = channels
	}

	out := &Buffer{SampleRate: src.SampleRate(), Data: make([][]float32, channels)}
	buf := make([]float32, bufSize)
	pending := make([]float32, 0, channels)
	empty := 0

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			samples := buf[:n]
			// Some decoders hand back partial frames; carry the remainder over.
			if len(pending) > 0 {
				need := channels - len(pending)
				if need > len(samples) {
					need = len(samples)
				}
				pending = append(pending, samples[:need]...)
				samples = samples[need:]
				if len(pending) == channels {
					for c := range channels {
						out.Data[c] = append(out.Data[c], pending[c])
					}
					pending = pending[:0]
				}
			}

			frames := len(samples) / channels
			for f := range frames {
				for c := range channels {
					out.Data[c] = append(out.Data[c], samples[f*channels+c])
				}
			}
			pending = append(pending, samples[frames*channels:]...)
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		if n > 0 {
			empty = 0
			continue
		}
		if empty++; empty >= maxEmptyReads {
			return nil, io.ErrNoProgress
		}
	}

	return out, nil
}
