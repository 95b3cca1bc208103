// SPDX-License-Identifier: EPL-2.0

package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	goaiff "github.com/go-audio/aiff"
	goaudiowav "github.com/go-audio/wav"

	"github.com/ik5/voxbooth/formats"
	"github.com/ik5/voxbooth/formats/mp3"
	"github.com/ik5/voxbooth/formats/opus"
	"github.com/ik5/voxbooth/formats/vorbis"
)

// DefaultTimeout bounds a probe when Prober.Timeout is zero.
const DefaultTimeout = 2 * time.Second

// Prober reads a container's length from its metadata without decoding
// the audio.
type Prober struct {
	Timeout time.Duration

	// lookup replaces the metadata reader in tests.
	lookup func([]byte) (float64, error)
}

type result struct {
	seconds float64
	err     error
}

// Duration returns the length of raw in seconds. It fails with
// ErrUnknownDuration when the container does not say, and with
// ErrProbeTimeout when the lookup takes longer than the timeout.
func (p Prober) Duration(ctx context.Context, raw []byte) (float64, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	read := p.lookup
	if read == nil {
		read = lookup
	}

	done := make(chan result, 1)
	go func() {
		seconds, err := read(raw)
		done <- result{seconds: seconds, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return 0, res.err
		}
		if !(res.seconds > 0) || math.IsInf(res.seconds, 0) {
			return 0, fmt.Errorf("%w: got %v", ErrUnknownDuration, res.seconds)
		}

		return res.seconds, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, fmt.Errorf("%w after %s", ErrProbeTimeout, timeout)
		}

		return 0, ctx.Err()
	}
}

func lookup(raw []byte) (float64, error) {
	format, ok := formats.Detect(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %w", ErrUnknownDuration, formats.ErrUnknownFormat)
	}

	switch format {
	case formats.WAV:
		d, err := goaudiowav.NewDecoder(bytes.NewReader(raw)).Duration()
		if err != nil {
			return 0, fmt.Errorf("%w: wav: %w", ErrUnknownDuration, err)
		}
		return d.Seconds(), nil

	case formats.AIFF:
		d, err := goaiff.NewDecoder(bytes.NewReader(raw)).Duration()
		if err != nil {
			return 0, fmt.Errorf("%w: aiff: %w", ErrUnknownDuration, err)
		}
		return d.Seconds(), nil

	case formats.MP3:
		frames, rate, err := mp3.Length(bytes.NewReader(raw))
		if err != nil || rate <= 0 {
			return 0, fmt.Errorf("%w: mp3: %w", ErrUnknownDuration, err)
		}
		return float64(frames) / float64(rate), nil

	case formats.Vorbis:
		frames, rate, err := vorbis.Length(bytes.NewReader(raw))
		if err != nil || rate <= 0 {
			return 0, fmt.Errorf("%w: %w", ErrUnknownDuration, err)
		}
		return float64(frames) / float64(rate), nil

	case formats.Opus:
		return opusDuration(raw)
	}

	return 0, fmt.Errorf("%w: %s", ErrUnknownDuration, format)
}

// opusDuration uses the final granule position, which counts 48 kHz
// samples including the encoder pre-skip.
func opusDuration(raw []byte) (float64, error) {
	head, err := opus.ParseHead(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnknownDuration, err)
	}

	granule := opus.LastGranule(raw)
	if granule < 0 {
		return 0, fmt.Errorf("%w: no granule position", ErrUnknownDuration)
	}

	return float64(granule-int64(head.PreSkip)) / opus.SampleRate, nil
}
