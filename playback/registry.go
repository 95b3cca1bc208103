// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"fmt"
	"log/slog"
	"sync"
)

// State of a registered artifact.
type State int

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// Entry is a playable artifact known to the registry.
type Entry struct {
	ID       string
	State    State
	Duration float64
}

// Player drives the actual output device. Registry calls it with its lock
// held, so implementations must not call back into the registry.
type Player interface {
	Play(id string) error
	Stop(id string) error
}

// Registry tracks which artifact is playing. At most one entry plays at a
// time: Play stops the current entry before starting the next.
type Registry struct {
	player Player
	logger *slog.Logger

	mtx     sync.Mutex
	entries map[string]*Entry
	order   []string
	active  string
}

// NewRegistry returns an empty registry. player may be nil when only the
// bookkeeping is wanted.
func NewRegistry(player Player, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		player:  player,
		logger:  logger,
		entries: make(map[string]*Entry),
	}
}

// Register adds a stopped entry.
func (r *Registry) Register(id string, duration float64) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.entries[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, id)
	}

	r.entries[id] = &Entry{ID: id, State: Stopped, Duration: duration}
	r.order = append(r.order, id)

	return nil
}

// Play starts id, stopping whatever played before.
func (r *Registry) Play(id string) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}

	if r.active != "" && r.active != id {
		if err := r.stopLocked(r.active); err != nil {
			return err
		}
	}

	if r.player != nil {
		if err := r.player.Play(id); err != nil {
			return fmt.Errorf("play %s: %w", id, err)
		}
	}

	entry.State = Playing
	r.active = id
	r.logger.Debug("playback started", slog.String("id", id), slog.Float64("duration", entry.Duration))

	return nil
}

// Stop halts id. Stopping an entry that is not playing is a no-op.
func (r *Registry) Stop(id string) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.entries[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}

	return r.stopLocked(id)
}

func (r *Registry) stopLocked(id string) error {
	entry := r.entries[id]
	if entry == nil || entry.State != Playing {
		return nil
	}

	if r.player != nil {
		if err := r.player.Stop(id); err != nil {
			return fmt.Errorf("stop %s: %w", id, err)
		}
	}

	entry.State = Stopped
	if r.active == id {
		r.active = ""
	}
	r.logger.Debug("playback stopped", slog.String("id", id))

	return nil
}

// Release stops and forgets id.
func (r *Registry) Release(id string) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.entries[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}

	if err := r.stopLocked(id); err != nil {
		return err
	}

	r.forget(id)

	return nil
}

func (r *Registry) forget(id string) {
	delete(r.entries, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Reset stops the active entry and forgets every entry. Entries are
// dropped even when the player fails to stop; the error is returned.
func (r *Registry) Reset() error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	var err error
	if r.active != "" {
		err = r.stopLocked(r.active)
	}

	r.entries = make(map[string]*Entry)
	r.order = nil
	r.active = ""

	return err
}

// Active returns the playing entry, if any.
func (r *Registry) Active() (Entry, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.active == "" {
		return Entry{}, false
	}

	return *r.entries[r.active], true
}

// Lookup returns the entry registered as id.
func (r *Registry) Lookup(id string) (Entry, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return Entry{}, false
	}

	return *entry, true
}

// Entries returns a copy of every entry in registration order.
func (r *Registry) Entries() []Entry {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.entries[id])
	}

	return out
}
