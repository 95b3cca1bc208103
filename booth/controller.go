// SPDX-License-Identifier: EPL-2.0

package booth

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ik5/voxbooth/audio"
	"github.com/ik5/voxbooth/capture"
	"github.com/ik5/voxbooth/encode"
	"github.com/ik5/voxbooth/formats"
	"github.com/ik5/voxbooth/metrics"
	"github.com/ik5/voxbooth/playback"
	"github.com/ik5/voxbooth/probe"
	"github.com/ik5/voxbooth/render"
	"github.com/ik5/voxbooth/voice"
)

const (
	// DefaultMaxDuration is the hard limit of one recording.
	DefaultMaxDuration = 5 * time.Minute
	// DefaultTickInterval paces elapsed-time updates while recording.
	DefaultTickInterval = time.Second
)

// Options configures a Controller. Nil collaborators get working
// defaults.
type Options struct {
	MaxDuration  time.Duration
	TickInterval time.Duration

	// Render is the output shape of every voice.
	Render render.Options
	// Voices overrides the table's active list.
	Voices []voice.ID

	Renderer *render.Renderer
	Prober   probe.Prober
	Playback *playback.Registry
	Observer Observer
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

// Snapshot is a copy of the controller's visible state.
type Snapshot struct {
	State    State
	Elapsed  time.Duration
	Progress Progress

	Original  *encode.Artifact
	Artifacts map[voice.ID]encode.Artifact
	Failures  map[voice.ID]error

	// Err is the session error behind State Error.
	Err error
}

// Status describes one voice of the batch: "ready", NotGenerated or
// "pending".
func (s Snapshot) Status(id voice.ID) string {
	if _, ok := s.Artifacts[id]; ok {
		return "ready"
	}
	if _, ok := s.Failures[id]; ok {
		return NotGenerated
	}

	return "pending"
}

// Message is the user-facing line for the session error.
func (s Snapshot) Message() string { return UserMessage(s.Err) }

type batch struct {
	original  *encode.Artifact
	artifacts map[voice.ID]encode.Artifact
	failures  map[voice.ID]error
	progress  Progress
}

func newBatch() *batch {
	return &batch{
		artifacts: make(map[voice.ID]encode.Artifact),
		failures:  make(map[voice.ID]error),
	}
}

// Controller runs recording sessions: it records from a Microphone, then
// renders and encodes every active voice of the recording one at a time.
type Controller struct {
	mic     capture.Microphone
	voices  *voice.Table
	encoder *encode.Encoder
	opts    Options
	logger  *slog.Logger

	mtx      sync.Mutex
	state    State
	starting bool
	rec      capture.Recorder
	started  time.Time
	elapsed  time.Duration
	timer    *time.Timer
	stopTick chan struct{}
	done     chan struct{}
	current  *batch
	err      error
}

// New returns an idle controller.
func New(mic capture.Microphone, voices *voice.Table, encoder *encode.Encoder, opts Options) *Controller {
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = DefaultMaxDuration
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Renderer == nil {
		opts.Renderer = &render.Renderer{Logger: opts.Logger}
	}
	if opts.Playback == nil {
		opts.Playback = playback.NewRegistry(nil, opts.Logger)
	}
	if opts.Observer == nil {
		opts.Observer = ObserverFuncs{}
	}

	return &Controller{
		mic:     mic,
		voices:  voices,
		encoder: encoder,
		opts:    opts,
		logger:  opts.Logger,
		current: newBatch(),
	}
}

// Playback returns the registry holding the artifacts of the last batch.
func (c *Controller) Playback() *playback.Registry { return c.opts.Playback }

// Start releases the previous batch and begins recording. A refused
// microphone leaves the controller in Error and returns an error wrapping
// capture.ErrPermission.
func (c *Controller) Start(ctx context.Context) error {
	c.mtx.Lock()
	if c.state.busy() || c.starting {
		c.mtx.Unlock()
		return ErrBusy
	}
	c.starting = true
	from := c.state

	if err := c.opts.Playback.Reset(); err != nil {
		c.logger.Warn("releasing previous playback failed", slog.Any("error", err))
	}
	c.current = newBatch()
	c.err = nil
	c.elapsed = 0
	c.done = nil
	c.mtx.Unlock()

	rec, err := c.mic.Open(ctx)

	c.mtx.Lock()
	c.starting = false
	if err != nil {
		c.state = Error
		c.err = fmt.Errorf("open microphone: %w", err)
		c.mtx.Unlock()

		c.opts.Metrics.SessionFailed()
		c.logger.Error("recording not started", slog.Any("error", err))
		c.opts.Observer.StateChanged(from, Error)

		return c.err
	}

	c.rec = rec
	c.state = Recording
	c.started = time.Now()
	c.done = make(chan struct{})
	c.stopTick = make(chan struct{})
	c.timer = time.AfterFunc(c.opts.MaxDuration, c.safetyStop)
	go c.tick(c.started, c.stopTick)
	c.mtx.Unlock()

	c.opts.Metrics.SessionStarted()
	c.logger.Info("recording started", slog.Duration("max_duration", c.opts.MaxDuration))
	c.opts.Observer.StateChanged(from, Recording)

	return nil
}

func (c *Controller) tick(start time.Time, stop <-chan struct{}) {
	ticker := time.NewTicker(c.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			c.opts.Observer.Tick(now.Sub(start))
		}
	}
}

func (c *Controller) safetyStop() {
	err := c.stop(context.Background())
	if err == nil {
		c.logger.Warn("recording reached its maximum length", slog.Duration("max_duration", c.opts.MaxDuration))
	}
}

// Stop ends the recording and starts processing it in the background.
// Use Wait to block until processing has finished.
func (c *Controller) Stop(ctx context.Context) error {
	return c.stop(ctx)
}

func (c *Controller) stop(ctx context.Context) error {
	c.mtx.Lock()
	if c.state != Recording {
		c.mtx.Unlock()
		return ErrNotRecording
	}

	c.state = Stopping
	c.timer.Stop()
	close(c.stopTick)
	c.elapsed = time.Since(c.started)
	rec := c.rec
	c.rec = nil
	elapsed := c.elapsed
	c.mtx.Unlock()

	c.opts.Observer.StateChanged(Recording, Stopping)
	c.opts.Metrics.ObserveRecording(elapsed.Seconds())

	raw, err := rec.Stop(ctx)
	if cerr := rec.Close(); cerr != nil {
		c.logger.Warn("closing recorder failed", slog.Any("error", cerr))
	}
	if err != nil {
		c.fail(Stopping, fmt.Errorf("stop recording: %w", err))
		return c.Err()
	}

	if raw.MimeType == "" {
		raw.MimeType = capture.MimeTypeOf(raw.Bytes)
	}

	c.setState(Processing)
	c.opts.Observer.StateChanged(Stopping, Processing)

	go c.process(context.WithoutCancel(ctx), raw)

	return nil
}

// Wait blocks until the current session has finished processing or ctx
// is done.
func (c *Controller) Wait(ctx context.Context) error {
	c.mtx.Lock()
	done := c.done
	c.mtx.Unlock()

	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the error of the last session, if it failed.
func (c *Controller) Err() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.err
}

// State returns the current state.
func (c *Controller) State() State {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.state
}

// Snapshot copies the controller's current state and batch.
func (c *Controller) Snapshot() Snapshot {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	elapsed := c.elapsed
	if c.state == Recording {
		elapsed = time.Since(c.started)
	}

	s := Snapshot{
		State:     c.state,
		Elapsed:   elapsed,
		Progress:  c.current.progress,
		Artifacts: make(map[voice.ID]encode.Artifact, len(c.current.artifacts)),
		Failures:  make(map[voice.ID]error, len(c.current.failures)),
		Err:       c.err,
	}
	if c.current.original != nil {
		original := *c.current.original
		s.Original = &original
	}
	for id, a := range c.current.artifacts {
		s.Artifacts[id] = a
	}
	for id, err := range c.current.failures {
		s.Failures[id] = err
	}

	return s
}

func (c *Controller) setState(s State) {
	c.mtx.Lock()
	c.state = s
	c.mtx.Unlock()
}

// fail moves the session to Error and ends it.
func (c *Controller) fail(from State, err error) {
	c.mtx.Lock()
	c.state = Error
	c.err = err
	done := c.done
	c.mtx.Unlock()

	c.opts.Metrics.SessionFailed()
	c.logger.Error("recording session failed", slog.Any("error", err))
	c.opts.Observer.StateChanged(from, Error)
	close(done)
}

func (c *Controller) activeVoices() []voice.ID {
	if len(c.opts.Voices) > 0 {
		return append([]voice.ID(nil), c.opts.Voices...)
	}

	return c.voices.Active()
}

// process decodes the recording, keeps it as the original artifact, then
// renders each voice in order. A voice failure is recorded and skipped.
func (c *Controller) process(ctx context.Context, raw capture.Capture) {
	pcm, decodeErr := formats.Decode(raw.Bytes)
	duration, source := c.resolveDuration(ctx, raw.Bytes, pcm, decodeErr)

	original := encode.NewArtifact(encode.Original, raw.Bytes, raw.MimeType, duration, source)
	ids := c.activeVoices()

	c.mtx.Lock()
	c.current.original = &original
	c.current.progress = Progress{Total: len(ids)}
	c.mtx.Unlock()

	c.register(original)
	c.logger.Info("recording captured",
		slog.String("mime_type", original.MimeType),
		slog.Int("bytes", len(original.Bytes)),
		slog.Float64("duration", original.Duration),
		slog.String("duration_source", string(original.DurationSource)),
	)
	c.opts.Observer.ProgressChanged(Progress{Total: len(ids)})

	for _, id := range ids {
		start := time.Now()
		artifact, err := c.renderVoice(ctx, pcm, decodeErr, id)
		c.opts.Metrics.ObserveVoice(string(id), time.Since(start), err)

		c.mtx.Lock()
		if err != nil {
			c.current.failures[id] = err
		} else {
			c.current.artifacts[id] = artifact
		}
		c.current.progress.Completed++
		progress := c.current.progress
		c.mtx.Unlock()

		if err != nil {
			c.logger.Warn("voice not generated", slog.String("voice", string(id)), slog.Any("error", err))
		} else {
			c.register(artifact)
			c.logger.Debug("voice ready",
				slog.String("voice", string(id)),
				slog.String("mime_type", artifact.MimeType),
				slog.Float64("duration", artifact.Duration),
			)
		}

		c.opts.Observer.VoiceDone(id, err)
		c.opts.Observer.ProgressChanged(progress)
	}

	if decodeErr != nil && source == encode.DurationUnknown {
		c.fail(Processing, decodeErr)
		return
	}

	c.mtx.Lock()
	c.state = Idle
	done := c.done
	c.mtx.Unlock()

	c.opts.Observer.StateChanged(Processing, Idle)
	close(done)
}

// resolveDuration prefers the decoded length, then a probe of the
// container, then reports the duration as unknown.
func (c *Controller) resolveDuration(ctx context.Context, raw []byte, pcm *audio.Buffer, decodeErr error) (float64, encode.DurationSource) {
	if decodeErr == nil {
		if d := pcm.Duration(); d > 0 && !math.IsInf(d, 0) {
			return d, encode.DurationDecoded
		}
	}

	d, err := c.opts.Prober.Duration(ctx, raw)
	if err != nil {
		c.logger.Warn("recording duration unknown", slog.Any("decode_error", decodeErr), slog.Any("probe_error", err))
		return 0, encode.DurationUnknown
	}

	return d, encode.DurationProbed
}

func (c *Controller) renderVoice(ctx context.Context, pcm *audio.Buffer, decodeErr error, id voice.ID) (encode.Artifact, error) {
	if decodeErr != nil {
		return encode.Artifact{}, decodeErr
	}

	recipe, err := c.voices.Lookup(id)
	if err != nil {
		return encode.Artifact{}, err
	}

	res, err := c.opts.Renderer.Render(pcm, recipe, c.opts.Render)
	if err != nil {
		return encode.Artifact{}, fmt.Errorf("render %s: %w", id, err)
	}

	return c.encoder.Encode(ctx, string(id), res.PCM)
}

func (c *Controller) register(a encode.Artifact) {
	if err := c.opts.Playback.Register(a.ID, a.Duration); err != nil {
		c.logger.Warn("artifact not playable", slog.String("id", a.ID), slog.Any("error", err))
	}
}
