// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"

	"github.com/ik5/voxbooth/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation, optionally changing playback speed at the same time.
// Works on interleaved samples; preserves channel count.
//
// Output frame i reads the source at position i*ratio, where
// ratio = playbackRate * srcRate / dstRate. The stream ends once that
// position passes the last source frame, so a source of N frames yields
// ceil(N / ratio) output frames. With a ratio of exactly 1 every output
// sample is the matching source sample, bit for bit.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64
	channels int

	// window[1] holds source frame base; window[0] the frame before it,
	// window[2] and window[3] the two after it.
	window [4][]float32
	have   [4]bool
	base   int64
	out    int64
	primed bool

	srcBuf []float32
	eof    bool

	// One-pole low-pass state applied to fetched frames when the read
	// position advances faster than one source frame per output frame.
	filterState []float32
	useFilter   bool
	filterAlpha float32
	filterInit  bool
}

// NewResampler converts src to dstRate at normal playback speed.
func NewResampler(src Source, dstRate int) *Resampler {
	r, err := NewVariableResampler(src, dstRate, 1)
	if err != nil {
		// Invalid rates surface as ErrInvalidRateRatio on the first read.
		return &Resampler{src: src, dstRate: dstRate, channels: src.Channels(), primed: true, eof: true}
	}

	return r
}

// NewVariableResampler converts src to dstRate while reading the source
// playbackRate times faster than real time (rates above 1 shorten and
// raise the signal, rates below 1 lengthen and lower it).
func NewVariableResampler(src Source, dstRate int, playbackRate float64) (*Resampler, error) {
	if dstRate <= 0 || src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrInvalidRate, src.SampleRate(), dstRate)
	}

	ratio := playbackRate * float64(src.SampleRate()) / float64(dstRate)
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRateRatio, ratio)
	}

	channels := src.Channels()
	r := &Resampler{
		src:         src,
		dstRate:     dstRate,
		ratio:       ratio,
		channels:    channels,
		srcBuf:      make([]float32, channels),
		filterState: make([]float32, channels),
	}

	if ratio > 1 {
		// Cut-off near the Nyquist frequency of the consumed stream.
		r.useFilter = true
		r.filterAlpha = float32(1 - math.Exp(-math.Pi/ratio))
	}

	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r, nil
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

// Ratio returns the number of source frames consumed per output frame.
func (r *Resampler) Ratio() float64 { return r.ratio }

func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// pull reads the next source frame into window[slot].
func (r *Resampler) pull(slot int) error {
	r.have[slot] = false
	if r.eof {
		return nil
	}

	for {
		n, err := r.src.ReadSamples(r.srcBuf)
		if n == r.channels {
			copy(r.window[slot], r.srcBuf)
			r.have[slot] = true
			r.lowPass(r.window[slot])
		}

		if err == io.EOF || (n > 0 && n < r.channels) {
			r.eof = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w", err)
		}
		if n > 0 {
			return nil
		}
	}
}

func (r *Resampler) lowPass(frame []float32) {
	if !r.useFilter {
		return
	}
	if !r.filterInit {
		// Seed with the first frame to avoid a warm-up transient.
		copy(r.filterState, frame)
		r.filterInit = true
	}

	for c := range frame {
		frame[c] = r.filterAlpha*frame[c] + (1-r.filterAlpha)*r.filterState[c]
		r.filterState[c] = frame[c]
	}
}

func (r *Resampler) prime() error {
	r.primed = true

	if err := r.pull(1); err != nil {
		return err
	}
	if !r.have[1] {
		return nil
	}

	// Hold the first frame as its own predecessor.
	copy(r.window[0], r.window[1])
	r.have[0] = true

	if err := r.pull(2); err != nil {
		return err
	}

	return r.pull(3)
}

// advance shifts the window forward by one source frame.
func (r *Resampler) advance() error {
	r.window[0], r.window[1], r.window[2], r.window[3] = r.window[1], r.window[2], r.window[3], r.window[0]
	r.have[0], r.have[1], r.have[2] = r.have[1], r.have[2], r.have[3]
	r.base++

	return r.pull(3)
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if r.channels <= 0 || len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if r.ratio <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRateRatio, r.ratio)
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	framesNeeded := len(dst) / r.channels

	for written < framesNeeded {
		pos := float64(r.out) * r.ratio

		for r.have[1] && pos >= float64(r.base+1) {
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.have[1] {
			if written == 0 {
				return 0, io.EOF
			}
			return written * r.channels, io.EOF
		}

		// Missing neighbours repeat the nearest frame inside the window.
		y0, y2 := r.window[1], r.window[1]
		if r.have[0] {
			y0 = r.window[0]
		}
		if r.have[2] {
			y2 = r.window[2]
		}
		y3 := y2
		if r.have[3] {
			y3 = r.window[3]
		}

		frame := dst[written*r.channels : (written+1)*r.channels]
		utils.CubicFrame(frame, y0, r.window[1], y2, y3, float32(pos-float64(r.base)))

		written++
		r.out++
	}

	return written * r.channels, nil
}
