// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"
)

// Source is a scripted stream satisfying audio.Source. Frames come from a
// generator; MaxFrames and Err shape how they are handed out.
type Source struct {
	rate     int
	channels int
	frames   int
	gen      func(frame, channel int) float32
	pos      int
	closed   bool

	// MaxFrames caps the frames returned by one read. Zero means no cap.
	MaxFrames int
	// Err replaces io.EOF once every frame has been served.
	Err error
}

// NewSource serves frames frames of gen at rate.
func NewSource(rate, channels, frames int, gen func(frame, channel int) float32) *Source {
	return &Source{rate: rate, channels: channels, frames: frames, gen: gen}
}

// Silence serves zeros.
func Silence(rate, channels, frames int) *Source {
	return NewSource(rate, channels, frames, func(int, int) float32 { return 0 })
}

// Sine serves a full-scale sine tone on every channel.
func Sine(rate, channels, frames int, frequency float64) *Source {
	return NewSource(rate, channels, frames, func(frame, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * frequency * float64(frame) / float64(rate)))
	})
}

// Constant serves v on every sample.
func Constant(rate, channels, frames int, v float32) *Source {
	return NewSource(rate, channels, frames, func(int, int) float32 { return v })
}

// Ramp serves (frame+channel)/scale, which makes sample placement easy to
// check.
func Ramp(rate, channels, frames int, scale float32) *Source {
	return NewSource(rate, channels, frames, func(frame, channel int) float32 {
		return float32(frame+channel) / scale
	})
}

// Impulse serves 1 on frame 0 and silence after it.
func Impulse(rate, channels, frames int) *Source {
	return NewSource(rate, channels, frames, func(frame, _ int) float32 {
		if frame == 0 {
			return 1
		}
		return 0
	})
}

// FromData serves planar data, one slice per channel.
func FromData(rate int, data [][]float32) *Source {
	frames := 0
	if len(data) > 0 {
		frames = len(data[0])
	}

	return NewSource(rate, len(data), frames, func(frame, channel int) float32 {
		return data[channel][frame]
	})
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return 4096 }

func (s *Source) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *Source) Closed() bool { return s.closed }

// Reset rewinds the stream.
func (s *Source) Reset() { s.pos = 0 }

func (s *Source) end() error {
	if s.Err != nil {
		return s.Err
	}
	return io.EOF
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.pos >= s.frames {
		return 0, s.end()
	}

	n := min(len(dst)/s.channels, s.frames-s.pos)
	if s.MaxFrames > 0 {
		n = min(n, s.MaxFrames)
	}

	for f := range n {
		for c := range s.channels {
			dst[f*s.channels+c] = s.gen(s.pos+f, c)
		}
	}
	s.pos += n

	if s.pos >= s.frames {
		return n * s.channels, s.end()
	}

	return n * s.channels, nil
}
