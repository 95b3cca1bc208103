// SPDX-License-Identifier: EPL-2.0

package capture

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/ik5/voxbooth/formats"
)

// Capture is the raw container produced by one recording.
type Capture struct {
	Bytes    []byte
	MimeType string
}

// Recorder is an open microphone stream.
type Recorder interface {
	// Stop ends the recording and returns what was captured. It may be
	// called once.
	Stop(ctx context.Context) (Capture, error)
	// Close releases the microphone. It is safe to call more than once.
	Close() error
}

// Microphone hands out recorders. Implementations return ErrPermission
// when access is denied.
type Microphone interface {
	Open(ctx context.Context) (Recorder, error)
}

// MimeTypes of the containers formats can decode.
var mimeTypes = map[string]string{
	formats.WAV:    "audio/wav",
	formats.AIFF:   "audio/aiff",
	formats.Opus:   "audio/ogg;codecs=opus",
	formats.Vorbis: "audio/ogg;codecs=vorbis",
	formats.MP3:    "audio/mpeg",
}

// MimeTypeOf names the container of data, or application/octet-stream.
func MimeTypeOf(data []byte) string {
	if format, ok := formats.Detect(data); ok {
		return mimeTypes[format]
	}

	return "application/octet-stream"
}

// Replay is a Microphone that serves a pre-recorded container. Only one
// recorder may be open at a time.
type Replay struct {
	data     []byte
	mimeType string

	mtx   sync.Mutex
	open  bool
	opens int
}

// NewReplay serves data on every Open.
func NewReplay(data []byte) *Replay {
	return &Replay{data: data, mimeType: MimeTypeOf(data)}
}

// ReplayFile reads a recording from disk.
func ReplayFile(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recording %s: %w", path, err)
	}

	return NewReplay(data), nil
}

func (r *Replay) Open(ctx context.Context) (Recorder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.open {
		return nil, ErrInUse
	}
	r.open = true
	r.opens++

	return &replayRecorder{owner: r}, nil
}

// Opens returns how many recorders have been handed out.
func (r *Replay) Opens() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return r.opens
}

// InUse reports whether a recorder is currently open.
func (r *Replay) InUse() bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return r.open
}

func (r *Replay) release() {
	r.mtx.Lock()
	r.open = false
	r.mtx.Unlock()
}

type replayRecorder struct {
	owner   *Replay
	once    sync.Once
	stopped bool
	closed  bool
	mtx     sync.Mutex
}

func (rec *replayRecorder) Stop(ctx context.Context) (Capture, error) {
	rec.mtx.Lock()
	defer rec.mtx.Unlock()

	if rec.closed {
		return Capture{}, ErrClosed
	}
	if rec.stopped {
		return Capture{}, fmt.Errorf("%w: already stopped", ErrClosed)
	}
	rec.stopped = true

	data := append([]byte(nil), rec.owner.data...)

	return Capture{Bytes: data, MimeType: rec.owner.mimeType}, nil
}

func (rec *replayRecorder) Close() error {
	rec.mtx.Lock()
	rec.closed = true
	rec.mtx.Unlock()

	rec.once.Do(rec.owner.release)

	return nil
}

// Denied is a Microphone whose access is always refused.
type Denied struct{}

func (Denied) Open(context.Context) (Recorder, error) {
	return nil, ErrPermission
}
