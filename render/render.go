// SPDX-License-Identifier: EPL-2.0

package render

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/ik5/voxbooth/audio"
	"github.com/ik5/voxbooth/dsp"
	"github.com/ik5/voxbooth/voice"
)

// Defaults applied to unset options.
const (
	DefaultSampleRate = 22050
	DefaultChannels   = 1
	MaxChannels       = 2
)

// Options sets the shape of the rendered buffer. Zero fields take the
// defaults; negative values are rejected.
type Options struct {
	SampleRate int
	Channels   int
}

func (o Options) resolve() (Options, error) {
	if o.SampleRate == 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.Channels == 0 {
		o.Channels = DefaultChannels
	}

	if o.SampleRate < 0 {
		return o, fmt.Errorf("%w: sample rate %d", ErrInvalidOptions, o.SampleRate)
	}
	if o.Channels < 0 || o.Channels > MaxChannels {
		return o, fmt.Errorf("%w: %d channels", ErrInvalidOptions, o.Channels)
	}

	return o, nil
}

// Result is a rendered buffer and its length in seconds.
type Result struct {
	PCM      *audio.Buffer
	Duration float64
}

// OutputFrames returns the length of a render:
// ceil(inputFrames / playbackRate * targetRate / inputRate).
func OutputFrames(inputFrames int, playbackRate float64, targetRate, inputRate int) int {
	return int(math.Ceil(float64(inputFrames) / playbackRate * float64(targetRate) / float64(inputRate)))
}

// Renderer applies voice recipes to PCM buffers offline. The zero value
// is ready to use.
type Renderer struct {
	Logger *slog.Logger
}

func (r *Renderer) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Render produces the recipe's rendition of pcm at the requested shape.
//
// The signal is channel-mapped, then read at playbackRate against the
// output clock with cubic interpolation, then filtered in declared order,
// then passed through the echo if the recipe has one. The filter chain and
// echo are built before any sample is read, so a bad recipe fails without
// work being done.
func (r *Renderer) Render(pcm *audio.Buffer, recipe voice.Recipe, opts Options) (Result, error) {
	opts, err := opts.resolve()
	if err != nil {
		return Result{}, err
	}
	if err := pcm.Validate(); err != nil {
		return Result{}, fmt.Errorf("render input: %w", err)
	}
	if pcm.Frames() == 0 {
		return Result{}, ErrEmptyInput
	}
	if err := recipe.Validate(); err != nil {
		return Result{}, err
	}

	chain, err := dsp.NewChain(recipe.Filters, opts.SampleRate, opts.Channels)
	if err != nil {
		return Result{}, err
	}

	var echo *dsp.FeedbackDelay
	if fb := recipe.Feedback; fb != nil {
		echo, err = dsp.NewFeedbackDelay(fb.DelaySeconds, fb.FeedbackGain, fb.DryGain, opts.SampleRate, opts.Channels)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %w", voice.ErrInvalidRecipe, err)
		}
	}

	start := time.Now()
	frames := OutputFrames(pcm.Frames(), recipe.PlaybackRate, opts.SampleRate, pcm.SampleRate)

	mapped, err := audio.NewChannelMapper(pcm.Source(), opts.Channels)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	src, err := audio.NewVariableResampler(mapped, opts.SampleRate, recipe.PlaybackRate)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	defer src.Close()

	out, err := readFrames(src, frames)
	if err != nil {
		return Result{}, fmt.Errorf("render read: %w", err)
	}

	chain.Process(out.Data)
	if echo != nil {
		echo.Process(out.Data)
	}

	r.logger().Debug("rendered voice",
		slog.Int("input_frames", pcm.Frames()),
		slog.Int("input_rate", pcm.SampleRate),
		slog.Int("output_frames", out.Frames()),
		slog.Int("output_rate", out.SampleRate),
		slog.Float64("playback_rate", recipe.PlaybackRate),
		slog.Int("filters", chain.Len()),
		slog.Bool("echo", echo != nil),
		slog.Duration("elapsed", time.Since(start)),
	)

	return Result{PCM: out, Duration: out.Duration()}, nil
}

// readFrames reads exactly frames frames from src into a planar buffer,
// padding with silence if the stream ends early.
func readFrames(src audio.Source, frames int) (*audio.Buffer, error) {
	channels := src.Channels()
	out := audio.NewBuffer(src.SampleRate(), channels, frames)

	chunk := make([]float32, 1024*channels)
	pos := 0

	for pos < frames {
		want := min(frames-pos, 1024) * channels
		n, err := src.ReadSamples(chunk[:want])

		got := n / channels
		for f := range got {
			for c := range channels {
				out.Data[c][pos+f] = chunk[f*channels+c]
			}
		}
		pos += got

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, io.ErrNoProgress
		}
	}

	return out, nil
}
