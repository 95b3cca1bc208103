// SPDX-License-Identifier: EPL-2.0

package config

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ik5/voxbooth/booth"
	"github.com/ik5/voxbooth/encode"
	"github.com/ik5/voxbooth/formats/opus"
	"github.com/ik5/voxbooth/probe"
	"github.com/ik5/voxbooth/render"
	"github.com/ik5/voxbooth/voice"
)

// Config is the complete application configuration.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Encode  EncodeConfig  `yaml:"encode"`
	Capture CaptureConfig `yaml:"capture"`
	Probe   ProbeConfig   `yaml:"probe"`
	Voices  voice.Config  `yaml:"voices"`
	Log     LogConfig     `yaml:"log"`
	Upload  UploadConfig  `yaml:"upload"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// RenderConfig is the output shape of every voice.
type RenderConfig struct {
	SampleRate int `yaml:"sample_rate"`
	Channels   int `yaml:"channels"`
}

// EncodeConfig selects the artifact encoding.
type EncodeConfig struct {
	Bitrate    int           `yaml:"bitrate"`
	Preference []string      `yaml:"preference"`
	Realtime   bool          `yaml:"realtime"`
	Timeout    time.Duration `yaml:"timeout"` // zero derives from signal length
}

// CaptureConfig bounds a recording session.
type CaptureConfig struct {
	MaxDuration  time.Duration `yaml:"max_duration"`
	TickInterval time.Duration `yaml:"tick_interval"`
}

type ProbeConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"` // stdout, stderr or a file path
}

// UploadConfig enables artifact submission when Endpoint is set.
type UploadConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// MetricsConfig exposes Prometheus metrics over HTTP.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// Default returns the documented defaults.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			SampleRate: render.DefaultSampleRate,
			Channels:   render.DefaultChannels,
		},
		Encode: EncodeConfig{
			Bitrate:    encode.DefaultBitrate,
			Preference: []string{opus.MimeType},
		},
		Capture: CaptureConfig{
			MaxDuration:  booth.DefaultMaxDuration,
			TickInterval: booth.DefaultTickInterval,
		},
		Probe:  ProbeConfig{Timeout: probe.DefaultTimeout},
		Voices: voice.Config{Set: voice.SetQuartet},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Upload: UploadConfig{Timeout: 30 * time.Second},
		Metrics: MetricsConfig{
			Address: "127.0.0.1:9464",
		},
	}
}

// Load reads the YAML file at path over Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML from r over Default and validates the result.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	checks := []struct {
		section string
		check   func() error
	}{
		{"render", c.Render.Validate},
		{"encode", c.Encode.Validate},
		{"capture", c.Capture.Validate},
		{"probe", c.Probe.Validate},
		{"voices", c.validateVoices},
		{"log", c.Log.Validate},
		{"upload", c.Upload.Validate},
		{"metrics", c.Metrics.Validate},
	}

	for _, ch := range checks {
		if err := ch.check(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, ch.section, err)
		}
	}

	return nil
}

// validateVoices rejects a voice section that cannot form a table. Invalid
// recipes are left for Lookup to report per voice.
func (c *Config) validateVoices() error {
	_, err := c.Voices.Table()
	return err
}

func (r RenderConfig) Validate() error {
	if r.SampleRate < 8000 || r.SampleRate > 192000 {
		return fmt.Errorf("sample_rate must be between 8000 and 192000, got %d", r.SampleRate)
	}
	if r.Channels < 1 || r.Channels > render.MaxChannels {
		return fmt.Errorf("channels must be between 1 and %d, got %d", render.MaxChannels, r.Channels)
	}

	return nil
}

func (e EncodeConfig) Validate() error {
	if e.Bitrate < 6000 || e.Bitrate > 510000 {
		return fmt.Errorf("bitrate must be between 6000 and 510000, got %d", e.Bitrate)
	}
	if e.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative, got %s", e.Timeout)
	}
	for _, mime := range e.Preference {
		if mime == "" {
			return fmt.Errorf("preference cannot hold an empty mime type")
		}
	}

	return nil
}

func (c CaptureConfig) Validate() error {
	if c.MaxDuration <= 0 {
		return fmt.Errorf("max_duration must be positive, got %s", c.MaxDuration)
	}
	if c.TickInterval <= 0 || c.TickInterval > c.MaxDuration {
		return fmt.Errorf("tick_interval must be positive and at most max_duration, got %s", c.TickInterval)
	}

	return nil
}

func (p ProbeConfig) Validate() error {
	if p.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", p.Timeout)
	}

	return nil
}

func (l LogConfig) Validate() error {
	if _, err := parseLevel(l.Level); err != nil {
		return err
	}

	switch l.Format {
	case "text", "json":
	default:
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

func (u UploadConfig) Validate() error {
	if u.Endpoint == "" {
		return nil
	}

	endpoint, err := url.Parse(u.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		return fmt.Errorf("endpoint must be an http or https url, got %q", u.Endpoint)
	}
	if u.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", u.Timeout)
	}

	return nil
}

func (m MetricsConfig) Validate() error {
	if m.Enabled && m.Address == "" {
		return fmt.Errorf("address cannot be empty when metrics are enabled")
	}

	return nil
}

// RenderOptions converts the render section.
func (c *Config) RenderOptions() render.Options {
	return render.Options{SampleRate: c.Render.SampleRate, Channels: c.Render.Channels}
}

// EncodeOptions converts the encode section.
func (c *Config) EncodeOptions() encode.Options {
	return encode.Options{
		Bitrate:    c.Encode.Bitrate,
		Preference: append([]string(nil), c.Encode.Preference...),
		Realtime:   c.Encode.Realtime,
		Timeout:    c.Encode.Timeout,
	}
}

// BoothOptions converts the capture, probe and render sections. The
// caller fills in the collaborators.
func (c *Config) BoothOptions() booth.Options {
	return booth.Options{
		MaxDuration:  c.Capture.MaxDuration,
		TickInterval: c.Capture.TickInterval,
		Render:       c.RenderOptions(),
		Prober:       probe.Prober{Timeout: c.Probe.Timeout},
	}
}
