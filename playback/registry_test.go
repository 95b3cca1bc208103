// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"errors"
	"reflect"
	"testing"
)

type recordingPlayer struct {
	calls   []string
	failOn  string
	failErr error
}

func (p *recordingPlayer) Play(id string) error {
	p.calls = append(p.calls, "play "+id)
	if id == p.failOn {
		return p.failErr
	}
	return nil
}

func (p *recordingPlayer) Stop(id string) error {
	p.calls = append(p.calls, "stop "+id)
	return nil
}

func TestRegistry_PlayStopsPrevious(t *testing.T) {
	t.Parallel()

	player := &recordingPlayer{}
	reg := NewRegistry(player, nil)

	for _, id := range []string{"original", "deep", "radio"} {
		if err := reg.Register(id, 1.5); err != nil {
			t.Fatalf("Register(%q) error = %v", id, err)
		}
	}

	mustPlay := func(id string) {
		t.Helper()
		if err := reg.Play(id); err != nil {
			t.Fatalf("Play(%q) error = %v", id, err)
		}
	}

	mustPlay("original")
	mustPlay("deep")
	mustPlay("deep")

	active, ok := reg.Active()
	if !ok || active.ID != "deep" || active.State != Playing {
		t.Fatalf("Active() = %+v, %v", active, ok)
	}

	if e, _ := reg.Lookup("original"); e.State != Stopped {
		t.Errorf("original state = %v, want stopped", e.State)
	}

	want := []string{"play original", "stop original", "play deep", "play deep"}
	if !reflect.DeepEqual(player.calls, want) {
		t.Errorf("player calls = %v, want %v", player.calls, want)
	}
}

func TestRegistry_Stop(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil, nil)
	_ = reg.Register("a", 1)

	if err := reg.Stop("a"); err != nil {
		t.Errorf("Stop() on stopped entry error = %v", err)
	}

	_ = reg.Play("a")
	if err := reg.Stop("a"); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if _, ok := reg.Active(); ok {
		t.Error("Active() reports an entry after Stop")
	}

	if err := reg.Stop("missing"); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("Stop(missing) error = %v, want ErrUnknownEntry", err)
	}
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil, nil)
	_ = reg.Register("a", 1)

	if err := reg.Register("a", 2); !errors.Is(err, ErrDuplicateEntry) {
		t.Errorf("Register() error = %v, want ErrDuplicateEntry", err)
	}
}

func TestRegistry_ReleaseAndReset(t *testing.T) {
	t.Parallel()

	player := &recordingPlayer{}
	reg := NewRegistry(player, nil)
	_ = reg.Register("a", 1)
	_ = reg.Register("b", 2)
	_ = reg.Register("c", 3)
	_ = reg.Play("b")

	if err := reg.Release("b"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, ok := reg.Lookup("b"); ok {
		t.Error("Lookup() finds a released entry")
	}

	got := reg.Entries()
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("Entries() = %+v", got)
	}

	_ = reg.Play("c")
	if err := reg.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if len(reg.Entries()) != 0 {
		t.Error("Entries() not empty after Reset")
	}
	if player.calls[len(player.calls)-1] != "stop c" {
		t.Errorf("last player call = %q, want stop c", player.calls[len(player.calls)-1])
	}

	if err := reg.Release("a"); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("Release() after Reset error = %v, want ErrUnknownEntry", err)
	}
}

func TestRegistry_PlayerFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("device busy")
	reg := NewRegistry(&recordingPlayer{failOn: "a", failErr: boom}, nil)
	_ = reg.Register("a", 1)

	if err := reg.Play("a"); !errors.Is(err, boom) {
		t.Fatalf("Play() error = %v, want %v", err, boom)
	}
	if _, ok := reg.Active(); ok {
		t.Error("failed Play() left an active entry")
	}

	if err := reg.Play("zzz"); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("Play(unknown) error = %v, want ErrUnknownEntry", err)
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	if Playing.String() != "playing" || Stopped.String() != "stopped" || State(9).String() != "State(9)" {
		t.Error("State.String() mismatch")
	}
}
