// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"fmt"
	"math"
)

// FeedbackDelay is a feedback comb: the input plus the scaled delay tap is
// written into a delay line, and the output is the tap plus a dry copy of
// the input.
//
//	tap[n] = line[n-D]
//	line[n] = x[n] + g*tap[n]
//	y[n] = dry*x[n] + tap[n]
//
// An impulse therefore echoes at D, 2D, 3D... with amplitudes 1, g, g^2...
type FeedbackDelay struct {
	delay    int
	feedback float64
	dry      float64
	lines    [][]float64
	pos      []int
}

// NewFeedbackDelay builds a delay of delaySeconds rounded to whole samples.
func NewFeedbackDelay(delaySeconds, feedbackGain, dryGain float64, sampleRate, channels int) (*FeedbackDelay, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRate, sampleRate)
	}
	if !(delaySeconds > 0) || math.IsInf(delaySeconds, 0) {
		return nil, fmt.Errorf("%w: delay %v s", ErrInvalidDelay, delaySeconds)
	}
	if !(feedbackGain >= 0 && feedbackGain < 1) {
		return nil, fmt.Errorf("%w: feedback gain %v", ErrInvalidDelay, feedbackGain)
	}
	if !(dryGain >= 0) || math.IsInf(dryGain, 0) {
		return nil, fmt.Errorf("%w: dry gain %v", ErrInvalidDelay, dryGain)
	}

	delay := max(int(math.Round(delaySeconds*float64(sampleRate))), 1)
	channels = max(channels, 1)

	d := &FeedbackDelay{
		delay:    delay,
		feedback: feedbackGain,
		dry:      dryGain,
		lines:    make([][]float64, channels),
		pos:      make([]int, channels),
	}
	for c := range d.lines {
		d.lines[c] = make([]float64, delay)
	}

	return d, nil
}

// DelaySamples returns the delay length in samples.
func (d *FeedbackDelay) DelaySamples() int { return d.delay }

// Process applies the delay to planar data in place.
func (d *FeedbackDelay) Process(data [][]float32) {
	for len(d.lines) < len(data) {
		d.lines = append(d.lines, make([]float64, d.delay))
		d.pos = append(d.pos, 0)
	}

	for ch, samples := range data {
		line := d.lines[ch]
		pos := d.pos[ch]

		for i, v := range samples {
			x := float64(v)
			tap := line[pos]
			line[pos] = x + d.feedback*tap
			samples[i] = float32(d.dry*x + tap)

			pos++
			if pos == d.delay {
				pos = 0
			}
		}

		d.pos[ch] = pos
	}
}
