// SPDX-License-Identifier: EPL-2.0

package encode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ik5/voxbooth/audio"
	"github.com/ik5/voxbooth/formats/opus"
	"github.com/ik5/voxbooth/formats/wav"
	"github.com/ik5/voxbooth/metrics"
)

// DefaultBitrate of the compressed path in bits per second.
const DefaultBitrate = 64000

// Codec is a compressed encoding strategy.
type Codec interface {
	MimeType() string
	// Supported reports whether the codec can run in this process.
	Supported() bool
	Encode(ctx context.Context, pcm *audio.Buffer) ([]byte, error)
}

// Options configures an Encoder.
type Options struct {
	// Bitrate for the compressed path; zero means DefaultBitrate.
	Bitrate int
	// Preference lists compressed MIME types, best first. Empty disables
	// the compressed path.
	Preference []string
	// Realtime paces compressed encoding at the signal's own speed.
	Realtime bool
	// Timeout bounds one compressed encode. Zero derives a budget from
	// the signal length.
	Timeout time.Duration
}

// Validate rejects a negative bitrate or timeout.
func (o Options) Validate() error {
	if o.Bitrate < 0 {
		return fmt.Errorf("%w: bitrate %d", ErrInvalidOptions, o.Bitrate)
	}
	if o.Timeout < 0 {
		return fmt.Errorf("%w: timeout %s", ErrInvalidOptions, o.Timeout)
	}

	return nil
}

// DefaultOptions prefers Ogg Opus at DefaultBitrate.
func DefaultOptions() Options {
	return Options{
		Bitrate:    DefaultBitrate,
		Preference: []string{opus.MimeType},
	}
}

// Encoder turns rendered PCM into artifacts, preferring a compressed codec
// and falling back to WAV.
type Encoder struct {
	opts    Options
	codecs  map[string]Codec
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New builds an encoder over codecs. logger and m may be nil. Invalid
// options are reported by Encode.
func New(opts Options, logger *slog.Logger, m *metrics.Metrics, codecs ...Codec) *Encoder {
	if opts.Bitrate == 0 {
		opts.Bitrate = DefaultBitrate
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Encoder{
		opts:    opts,
		codecs:  make(map[string]Codec, len(codecs)),
		logger:  logger,
		metrics: m,
	}
	for _, c := range codecs {
		e.codecs[c.MimeType()] = c
	}

	return e
}

// NewDefault builds an encoder with the Ogg Opus codec configured from
// opts.
func NewDefault(opts Options, logger *slog.Logger, m *metrics.Metrics) *Encoder {
	if opts.Bitrate == 0 {
		opts.Bitrate = DefaultBitrate
	}

	return New(opts, logger, m, &opus.Encoder{Bitrate: opts.Bitrate, Realtime: opts.Realtime})
}

// Select returns the first preferred codec that is registered and
// supported.
func (e *Encoder) Select() (Codec, error) {
	for _, mime := range e.opts.Preference {
		if c, ok := e.codecs[mime]; ok && c.Supported() {
			return c, nil
		}
	}

	return nil, ErrNoCodec
}

// Encode produces the artifact of pcm for voice. The compressed path is
// tried first; any failure or timeout there is logged and the WAV strategy
// is used instead, so a returned artifact always holds every frame.
func (e *Encoder) Encode(ctx context.Context, voice string, pcm *audio.Buffer) (Artifact, error) {
	if err := e.opts.Validate(); err != nil {
		return Artifact{}, fmt.Errorf("encode %s: %w", voice, err)
	}
	if err := pcm.Validate(); err != nil {
		return Artifact{}, fmt.Errorf("encode %s: %w", voice, err)
	}

	if codec, err := e.Select(); err == nil {
		data, err := e.compressed(ctx, codec, pcm)
		if err == nil {
			return e.finish(voice, data, codec.MimeType(), pcm), nil
		}

		reason := "error"
		if errors.Is(err, ErrEncodeTimeout) {
			reason = "timeout"
		}
		e.metrics.Fallback(reason)
		e.logger.Warn("compressed encode failed, using wav",
			slog.String("voice", voice),
			slog.String("mime_type", codec.MimeType()),
			slog.Any("error", err),
		)
	}

	data, err := EncodeWAV(pcm)
	if err != nil {
		return Artifact{}, fmt.Errorf("encode %s: %w", voice, err)
	}

	return e.finish(voice, data, wav.MimeType, pcm), nil
}

func (e *Encoder) finish(voice string, data []byte, mime string, pcm *audio.Buffer) Artifact {
	e.metrics.ObserveArtifact(mime, len(data))
	return NewArtifact(voice, data, mime, pcm.Duration(), DurationDecoded)
}

func (e *Encoder) compressed(ctx context.Context, codec Codec, pcm *audio.Buffer) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.budget(pcm))
	defer cancel()

	data, err := codec.Encode(ctx, pcm)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrEncodeTimeout, err)
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s produced no data", codec.MimeType())
	}

	return data, nil
}

// budget is the deadline of one compressed encode: the configured
// timeout, or twice the signal length plus two seconds.
func (e *Encoder) budget(pcm *audio.Buffer) time.Duration {
	if e.opts.Timeout > 0 {
		return e.opts.Timeout
	}

	return 2*time.Duration(pcm.Duration()*float64(time.Second)) + 2*time.Second
}

// EncodeWAV is the portable strategy: 16-bit PCM behind a 44-byte header.
func EncodeWAV(pcm *audio.Buffer) ([]byte, error) {
	out := bytes.NewBuffer(make([]byte, 0, wav.HeaderSize+pcm.Frames()*pcm.Channels()*2))
	if err := wav.Encode(out, pcm); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}
