// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"fmt"
	"math"
)

// FilterKind selects the response of a Biquad.
type FilterKind string

const (
	Lowpass   FilterKind = "lowpass"
	Highpass  FilterKind = "highpass"
	Lowshelf  FilterKind = "lowshelf"
	Highshelf FilterKind = "highshelf"
)

// passQ is the resonance of the pass filters in dB. 1 dB gives a slightly
// peaked corner.
const passQ = 1.0

// FilterSpec describes one filter of a chain. GainDB only applies to the
// shelf kinds.
type FilterSpec struct {
	Kind        FilterKind `yaml:"kind"`
	FrequencyHz float64    `yaml:"frequency_hz"`
	GainDB      float64    `yaml:"gain_db,omitempty"`
}

// Validate reports ErrInvalidFilter for an unknown kind or a frequency that
// is not a positive finite number.
func (s FilterSpec) Validate() error {
	switch s.Kind {
	case Lowpass, Highpass, Lowshelf, Highshelf:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidFilter, s.Kind)
	}

	if !(s.FrequencyHz > 0) || math.IsInf(s.FrequencyHz, 0) {
		return fmt.Errorf("%w: %s frequency %v Hz", ErrInvalidFilter, s.Kind, s.FrequencyHz)
	}
	if math.IsNaN(s.GainDB) || math.IsInf(s.GainDB, 0) {
		return fmt.Errorf("%w: %s gain %v dB", ErrInvalidFilter, s.Kind, s.GainDB)
	}

	return nil
}

// DecibelsToGain converts a level in dB to a linear amplitude factor.
func DecibelsToGain(db float64) float64 {
	return math.Pow(10, db/20)
}

type biquadState struct {
	x1, x2, y1, y2 float64
}

// Biquad is a second order IIR section with coefficients from the RBJ
// audio EQ cookbook, parameterised the way Web Audio's BiquadFilterNode
// is: pass filters take Q in dB, shelves use a slope of 1.
// Each channel keeps its own state.
type Biquad struct {
	spec               FilterSpec
	b0, b1, b2, a1, a2 float64
	state              []biquadState
}

// NewBiquad designs a filter for sampleRate and channels.
func NewBiquad(spec FilterSpec, sampleRate, channels int) (*Biquad, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRate, sampleRate)
	}

	b := &Biquad{spec: spec, state: make([]biquadState, max(channels, 1))}
	b.design(spec.FrequencyHz / (float64(sampleRate) / 2))

	return b, nil
}

// design sets normalised coefficients for a cutoff given as a fraction of
// the Nyquist frequency.
func (b *Biquad) design(normalized float64) {
	A := math.Pow(10, b.spec.GainDB/40)

	if normalized >= 1 {
		switch b.spec.Kind {
		case Lowpass, Highshelf:
			b.set(1, 0, 0, 1, 0, 0)
		case Highpass:
			b.set(0, 0, 0, 1, 0, 0)
		case Lowshelf:
			b.set(A*A, 0, 0, 1, 0, 0)
		}
		return
	}

	w0 := math.Pi * normalized
	cosw := math.Cos(w0)
	sinw := math.Sin(w0)

	switch b.spec.Kind {
	case Lowpass:
		alpha := sinw / (2 * math.Pow(10, passQ/20))
		b.set((1-cosw)/2, 1-cosw, (1-cosw)/2, 1+alpha, -2*cosw, 1-alpha)
	case Highpass:
		alpha := sinw / (2 * math.Pow(10, passQ/20))
		b.set((1+cosw)/2, -(1 + cosw), (1+cosw)/2, 1+alpha, -2*cosw, 1-alpha)
	case Lowshelf:
		alpha := sinw / 2 * math.Sqrt2
		k := 2 * math.Sqrt(A) * alpha
		b.set(
			A*((A+1)-(A-1)*cosw+k),
			2*A*((A-1)-(A+1)*cosw),
			A*((A+1)-(A-1)*cosw-k),
			(A+1)+(A-1)*cosw+k,
			-2*((A-1)+(A+1)*cosw),
			(A+1)+(A-1)*cosw-k,
		)
	case Highshelf:
		alpha := sinw / 2 * math.Sqrt2
		k := 2 * math.Sqrt(A) * alpha
		b.set(
			A*((A+1)+(A-1)*cosw+k),
			-2*A*((A-1)+(A+1)*cosw),
			A*((A+1)+(A-1)*cosw-k),
			(A+1)-(A-1)*cosw+k,
			2*((A-1)-(A+1)*cosw),
			(A+1)-(A-1)*cosw-k,
		)
	}
}

func (b *Biquad) set(b0, b1, b2, a0, a1, a2 float64) {
	b.b0, b.b1, b.b2 = b0/a0, b1/a0, b2/a0
	b.a1, b.a2 = a1/a0, a2/a0
}

// Spec returns the design parameters of b.
func (b *Biquad) Spec() FilterSpec { return b.spec }

// Response returns the magnitude of the frequency response at freq Hz.
func (b *Biquad) Response(freq float64, sampleRate int) float64 {
	w := 2 * math.Pi * freq / float64(sampleRate)
	z1 := complex(math.Cos(-w), math.Sin(-w))
	z2 := z1 * z1

	num := complex(b.b0, 0) + complex(b.b1, 0)*z1 + complex(b.b2, 0)*z2
	den := 1 + complex(b.a1, 0)*z1 + complex(b.a2, 0)*z2

	return cabs(num / den)
}

func cabs(c complex128) float64 { return math.Hypot(real(c), imag(c)) }

// Process filters samples of channel ch in place.
func (b *Biquad) Process(ch int, samples []float32) {
	for ch >= len(b.state) {
		b.state = append(b.state, biquadState{})
	}

	s := &b.state[ch]
	for i, v := range samples {
		x := float64(v)
		y := b.b0*x + b.b1*s.x1 + b.b2*s.x2 - b.a1*s.y1 - b.a2*s.y2
		s.x2, s.x1 = s.x1, x
		s.y2, s.y1 = s.y1, y
		samples[i] = float32(y)
	}
}

// Reset clears the filter history of every channel.
func (b *Biquad) Reset() {
	clear(b.state)
}

// Chain runs filters in their declared order; each filter sees the output
// of the one before it.
type Chain struct {
	filters []*Biquad
}

// NewChain designs every filter of specs up front, so an invalid entry
// fails before any sample is touched.
func NewChain(specs []FilterSpec, sampleRate, channels int) (*Chain, error) {
	c := &Chain{filters: make([]*Biquad, 0, len(specs))}

	for i, spec := range specs {
		b, err := NewBiquad(spec, sampleRate, channels)
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		c.filters = append(c.filters, b)
	}

	return c, nil
}

// Len returns the number of filters.
func (c *Chain) Len() int { return len(c.filters) }

// Process filters planar data in place, one channel per slice.
func (c *Chain) Process(data [][]float32) {
	for _, f := range c.filters {
		for ch, samples := range data {
			f.Process(ch, samples)
		}
	}
}
