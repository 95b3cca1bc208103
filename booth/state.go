// SPDX-License-Identifier: EPL-2.0

package booth

import (
	"fmt"
	"time"

	"github.com/ik5/voxbooth/voice"
)

// State of a Controller.
type State int

const (
	Idle State = iota
	Recording
	Stopping
	Processing
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Stopping:
		return "stopping"
	case Processing:
		return "processing"
	case Error:
		return "error"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// busy reports whether s belongs to a live session.
func (s State) busy() bool {
	return s == Recording || s == Stopping || s == Processing
}

// Progress counts finished voices of a batch. Failed voices count as
// finished.
type Progress struct {
	Completed int
	Total     int
}

// Percent returns Completed/Total in [0, 100]. An empty batch is complete.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 100
	}

	return 100 * float64(p.Completed) / float64(p.Total)
}

// Done reports whether every voice has finished.
func (p Progress) Done() bool { return p.Completed >= p.Total }

// Observer is told about controller events. Calls are made without the
// controller's lock held but may come from different goroutines.
type Observer interface {
	StateChanged(from, to State)
	Tick(elapsed time.Duration)
	VoiceDone(id voice.ID, err error)
	ProgressChanged(p Progress)
}

// ObserverFuncs adapts optional functions to Observer.
type ObserverFuncs struct {
	OnState    func(from, to State)
	OnTick     func(elapsed time.Duration)
	OnVoice    func(id voice.ID, err error)
	OnProgress func(p Progress)
}

func (o ObserverFuncs) StateChanged(from, to State) {
	if o.OnState != nil {
		o.OnState(from, to)
	}
}

func (o ObserverFuncs) Tick(elapsed time.Duration) {
	if o.OnTick != nil {
		o.OnTick(elapsed)
	}
}

func (o ObserverFuncs) VoiceDone(id voice.ID, err error) {
	if o.OnVoice != nil {
		o.OnVoice(id, err)
	}
}

func (o ObserverFuncs) ProgressChanged(p Progress) {
	if o.OnProgress != nil {
		o.OnProgress(p)
	}
}
