// SPDX-License-Identifier: EPL-2.0

package booth

import (
	"errors"

	"github.com/ik5/voxbooth/capture"
	"github.com/ik5/voxbooth/formats"
)

var (
	// ErrBusy indicates Start was called while a session is in progress.
	ErrBusy = errors.New("recording session in progress")

	// ErrNotRecording indicates Stop was called outside Recording.
	ErrNotRecording = errors.New("not recording")
)

// NotGenerated is shown in place of a voice whose artifact is absent.
const NotGenerated = "not generated"

// UserMessage turns a session error into the single actionable line shown
// to the user. It returns "" for nil.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, capture.ErrPermission):
		return "Microphone access was denied. Check microphone permissions and try again."
	case errors.Is(err, capture.ErrInUse):
		return "The microphone is used by another recording. Stop it and try again."
	case errors.Is(err, formats.ErrDecode):
		return "The recording could not be read. Please record again."
	}

	return "Recording failed. Please try again."
}
