// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMapper adapts src to a fixed channel count.
//
// Mapping to one channel averages all input channels (see MonoMixer).
// When more channels are requested than src provides, the extra output
// channels repeat the highest-index input channel instead of staying
// silent. When fewer (but more than one) are requested, the leading input
// channels are kept.
type ChannelMapper struct {
	src      Source
	mono     *MonoMixer
	channels int
	tmp      []float32
}

func NewChannelMapper(src Source, channels int) (*ChannelMapper, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	m := &ChannelMapper{src: src, channels: channels}
	if channels == 1 && src.Channels() != 1 {
		m.mono = NewMonoMixer(src)
	}

	return m, nil
}

func (m *ChannelMapper) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMapper) Channels() int   { return m.channels }
func (m *ChannelMapper) BufSize() int    { return m.src.BufSize() }
func (m *ChannelMapper) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (m *ChannelMapper) ReadSamples(dst []float32) (int, error) {
	if len(dst)%m.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if m.mono != nil {
		return m.mono.ReadSamples(dst)
	}

	in := m.src.Channels()
	if in == m.channels {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.channels
	need := frames * in
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}
	m.tmp = m.tmp[:need]

	n, err := m.src.ReadSamples(m.tmp)
	got := n / in
	for f := range got {
		for c := range m.channels {
			srcCh := min(c, in-1)
			dst[f*m.channels+c] = m.tmp[f*in+srcCh]
		}
	}

	return got * m.channels, err
}
