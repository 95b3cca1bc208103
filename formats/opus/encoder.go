// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ik5/voxbooth/audio"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4/pkg/media/oggwriter"
	hraban "gopkg.in/hraban/opus.v2"
)

const (
	// FrameDuration is the length of one encoded packet.
	FrameDuration = 20 * time.Millisecond
	// FrameSamples is the per-channel sample count of one packet at 48 kHz.
	FrameSamples = SampleRate / 50

	maxPacketSize   = 4000
	opusPayloadType = 111
	opusSSRC        = 0x766f78
)

var (
	probeOnce sync.Once
	probeErr  error
)

// Encoder turns PCM buffers into Ogg Opus containers. The zero value
// encodes voice at the libopus default bitrate without pacing.
type Encoder struct {
	// Bitrate in bits per second; zero keeps the libopus default and a
	// negative value is rejected.
	Bitrate int
	// Realtime paces encoding at one frame per FrameDuration, the way a
	// live capture session would deliver it.
	Realtime bool
	// Music selects the general audio application instead of VoIP tuning.
	Music bool
}

// MimeType returns the container type produced by Encode.
func (e *Encoder) MimeType() string { return MimeType }

// Supported reports whether libopus can create an encoder in this process.
func (e *Encoder) Supported() bool {
	probeOnce.Do(func() {
		_, probeErr = hraban.NewEncoder(SampleRate, 1, hraban.AppVoIP)
	})

	return probeErr == nil
}

func (e *Encoder) application() hraban.Application {
	if e.Music {
		return hraban.AppAudio
	}
	return hraban.AppVoIP
}

// Encode resamples pcm to 48 kHz, encodes it in FrameDuration packets and
// muxes the packets into an Ogg container. The trailing partial frame is
// padded with silence. A cancelled ctx aborts encoding and no bytes are
// returned.
func (e *Encoder) Encode(ctx context.Context, pcm *audio.Buffer) ([]byte, error) {
	if e.Bitrate < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBitrate, e.Bitrate)
	}
	if err := pcm.Validate(); err != nil {
		return nil, fmt.Errorf("opus encode: %w", err)
	}

	channels := min(pcm.Channels(), 2)

	var src audio.Source = pcm.Source()
	if pcm.Channels() > channels {
		mapper, err := audio.NewChannelMapper(src, channels)
		if err != nil {
			return nil, fmt.Errorf("opus encode: %w", err)
		}
		src = mapper
	}
	if pcm.SampleRate != SampleRate {
		src = audio.NewResampler(src, SampleRate)
	}
	defer src.Close()

	enc, err := hraban.NewEncoder(SampleRate, channels, e.application())
	if err != nil {
		return nil, fmt.Errorf("opus encoder: %w", err)
	}
	if e.Bitrate > 0 {
		if err := enc.SetBitrate(e.Bitrate); err != nil {
			return nil, fmt.Errorf("opus bitrate %d: %w", e.Bitrate, err)
		}
	}

	resampled, err := audio.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("opus encode: %w", err)
	}

	out := new(bytes.Buffer)
	ogg, err := oggwriter.NewWith(out, SampleRate, uint16(channels))
	if err != nil {
		return nil, fmt.Errorf("ogg writer: %w", err)
	}

	// Decoders drop the first PreSkip samples of the stream, so lead in
	// with that much silence. A trailing silent frame covers the granule
	// the writer spends on its first packet.
	preSkip := 0
	if head, err := ParseHead(out.Bytes()); err == nil {
		preSkip = head.PreSkip
	}

	samples := make([]float32, 0, (preSkip+resampled.Frames()+2*FrameSamples)*channels)
	samples = append(samples, make([]float32, preSkip*channels)...)
	samples = append(samples, resampled.Interleave()...)
	samples = append(samples, make([]float32, FrameSamples*channels)...)

	var tick <-chan time.Time
	if e.Realtime {
		ticker := time.NewTicker(FrameDuration)
		defer ticker.Stop()
		tick = ticker.C
	}

	frame := make([]float32, FrameSamples*channels)
	packet := make([]byte, maxPacketSize)
	ts := uint32(0)

	for seq := 0; len(samples) > 0; seq++ {
		n := copy(frame, samples)
		clear(frame[n:])
		samples = samples[n:]

		if tick != nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return nil, err
		}

		size, err := enc.EncodeFloat32(frame, packet)
		if err != nil {
			return nil, fmt.Errorf("opus encode frame %d: %w", seq, err)
		}

		err = ogg.WriteRTP(&rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				PayloadType:    opusPayloadType,
				SequenceNumber: uint16(seq),
				Timestamp:      ts,
				SSRC:           opusSSRC,
			},
			Payload: append([]byte(nil), packet[:size]...),
		})
		if err != nil {
			return nil, fmt.Errorf("ogg write: %w", err)
		}

		ts += FrameSamples
	}

	if err := ogg.Close(); err != nil {
		return nil, fmt.Errorf("ogg close: %w", err)
	}

	return out.Bytes(), nil
}
