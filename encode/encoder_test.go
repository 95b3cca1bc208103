// SPDX-License-Identifier: EPL-2.0

package encode

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/ik5/voxbooth/audio"
	"github.com/ik5/voxbooth/formats/wav"
	"github.com/ik5/voxbooth/internal/audiotest"
	"github.com/ik5/voxbooth/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// fakeCodec is a scripted compressed strategy.
type fakeCodec struct {
	mime      string
	supported bool
	err       error
	block     bool
	calls     int
}

func (f *fakeCodec) MimeType() string { return f.mime }
func (f *fakeCodec) Supported() bool  { return f.supported }

func (f *fakeCodec) Encode(ctx context.Context, pcm *audio.Buffer) ([]byte, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}

	return []byte(f.mime), nil
}

func tone() *audio.Buffer {
	return &audio.Buffer{SampleRate: 22050, Data: audiotest.SineBuffer(22050, 1, 22050/2, 440, 0.5)}
}

func quietLogger() (*slog.Logger, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func TestEncoder_PrefersFirstSupportedCodec(t *testing.T) {
	t.Parallel()

	first := &fakeCodec{mime: "audio/webm;codecs=opus", supported: false}
	second := &fakeCodec{mime: "audio/ogg;codecs=opus", supported: true}
	third := &fakeCodec{mime: "audio/mp4", supported: true}

	logger, _ := quietLogger()
	enc := New(Options{Preference: []string{first.mime, second.mime, third.mime}}, logger, nil, first, second, third)

	art, err := enc.Encode(context.Background(), "deep", tone())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if art.MimeType != second.mime || string(art.Bytes) != second.mime {
		t.Errorf("artifact = %q %q, want %q", art.MimeType, art.Bytes, second.mime)
	}
	if first.calls != 0 || third.calls != 0 {
		t.Errorf("unexpected codec calls: first=%d third=%d", first.calls, third.calls)
	}
	if art.Voice != "deep" || art.ID == "" {
		t.Errorf("artifact identity = %q %q", art.Voice, art.ID)
	}
	if math.Abs(art.Duration-0.5) > 1e-9 || art.DurationSource != DurationDecoded {
		t.Errorf("duration = %v (%s), want 0.5 decoded", art.Duration, art.DurationSource)
	}
}

func TestEncoder_FallsBackToWAV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		codec  *fakeCodec
		reason string
	}{
		{name: "unsupported", codec: &fakeCodec{mime: "audio/ogg;codecs=opus"}},
		{name: "error", codec: &fakeCodec{mime: "audio/ogg;codecs=opus", supported: true, err: errors.New("boom")}, reason: "error"},
		{name: "timeout", codec: &fakeCodec{mime: "audio/ogg;codecs=opus", supported: true, block: true}, reason: "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg := prometheus.NewRegistry()
			m := metrics.New(reg)
			logger, logs := quietLogger()

			opts := Options{Preference: []string{tt.codec.mime}, Timeout: 20 * time.Millisecond}
			enc := New(opts, logger, m, tt.codec)

			pcm := tone()
			art, err := enc.Encode(context.Background(), "radio", pcm)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			if art.MimeType != wav.MimeType {
				t.Fatalf("MimeType = %q, want %q", art.MimeType, wav.MimeType)
			}
			if want := wav.HeaderSize + pcm.Frames()*2; len(art.Bytes) != want {
				t.Errorf("len(Bytes) = %d, want %d", len(art.Bytes), want)
			}

			if tt.reason == "" {
				return
			}
			if got := testutil.ToFloat64(m.EncodeFallbacks.WithLabelValues(tt.reason)); got != 1 {
				t.Errorf("fallbacks{%s} = %v, want 1", tt.reason, got)
			}
			if !strings.Contains(logs.String(), "compressed encode failed") {
				t.Errorf("fallback not logged: %s", logs.String())
			}
		})
	}
}

func TestEncoder_CompressedTimeoutWraps(t *testing.T) {
	t.Parallel()

	codec := &fakeCodec{mime: "x", supported: true, block: true}
	enc := New(Options{Timeout: 10 * time.Millisecond}, nil, nil, codec)

	_, err := enc.compressed(context.Background(), codec, tone())
	if !errors.Is(err, ErrEncodeTimeout) {
		t.Errorf("compressed() error = %v, want ErrEncodeTimeout", err)
	}
}

func TestEncoder_NoPreference(t *testing.T) {
	t.Parallel()

	codec := &fakeCodec{mime: "audio/ogg;codecs=opus", supported: true}
	enc := New(Options{}, nil, nil, codec)

	if _, err := enc.Select(); !errors.Is(err, ErrNoCodec) {
		t.Errorf("Select() error = %v, want ErrNoCodec", err)
	}

	art, err := enc.Encode(context.Background(), Original, tone())
	if err != nil || art.MimeType != wav.MimeType || codec.calls != 0 {
		t.Errorf("Encode() = %q, %v, calls %d", art.MimeType, err, codec.calls)
	}
}

func TestEncoder_RejectsInvalidBuffer(t *testing.T) {
	t.Parallel()

	enc := New(Options{}, nil, nil)
	if _, err := enc.Encode(context.Background(), "x", &audio.Buffer{}); !errors.Is(err, audio.ErrInvalidRate) {
		t.Errorf("Encode() error = %v, want ErrInvalidRate", err)
	}
}

func TestEncoder_RejectsInvalidOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
	}{
		{name: "negative bitrate", opts: Options{Bitrate: -1}},
		{name: "negative timeout", opts: Options{Timeout: -time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			codec := &fakeCodec{mime: "audio/ogg;codecs=opus", supported: true}
			tt.opts.Preference = []string{codec.mime}
			enc := New(tt.opts, nil, nil, codec)

			art, err := enc.Encode(context.Background(), "deep", tone())
			if !errors.Is(err, ErrInvalidOptions) {
				t.Fatalf("Encode() error = %v, want ErrInvalidOptions", err)
			}
			if art.Bytes != nil || codec.calls != 0 {
				t.Errorf("Encode() produced %d bytes after %d codec calls", len(art.Bytes), codec.calls)
			}
		})
	}

	if err := DefaultOptions().Validate(); err != nil {
		t.Errorf("DefaultOptions().Validate() error = %v", err)
	}
}

func TestEncoder_Budget(t *testing.T) {
	t.Parallel()

	enc := New(Options{}, nil, nil)
	if got := enc.budget(tone()); got != 3*time.Second {
		t.Errorf("budget = %v, want 3s", got)
	}

	enc = New(Options{Timeout: time.Second}, nil, nil)
	if got := enc.budget(tone()); got != time.Second {
		t.Errorf("budget = %v, want 1s", got)
	}
}

func TestEncodeWAV_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, channels := range []int{1, 2} {
		in := &audio.Buffer{SampleRate: 22050, Data: audiotest.NoiseBuffer(channels, 2000, 21, 1)}

		data, err := EncodeWAV(in)
		if err != nil {
			t.Fatalf("EncodeWAV() error = %v", err)
		}

		src, err := wav.Decoder{}.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		out, err := audio.ReadAll(src)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}

		for c := range channels {
			for i := range in.Data[c] {
				if d := math.Abs(float64(out.Data[c][i] - in.Data[c][i])); d > 1.0/32768 {
					t.Fatalf("%dch channel %d frame %d off by %v", channels, c, i, d)
				}
			}
		}
	}
}

func TestNewArtifact_UnknownDuration(t *testing.T) {
	t.Parallel()

	for _, d := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		art := NewArtifact(Original, nil, wav.MimeType, d, DurationProbed)
		if art.Duration != 0 || art.DurationSource != DurationUnknown || art.Known() {
			t.Errorf("NewArtifact(%v) = %v %s", d, art.Duration, art.DurationSource)
		}
	}

	a, b := NewArtifact("x", nil, "", 1, DurationProbed), NewArtifact("x", nil, "", 1, DurationProbed)
	if a.ID == b.ID {
		t.Error("artifacts share an id")
	}
	if !a.Known() {
		t.Error("Known() = false for a probed duration")
	}
}
