// SPDX-License-Identifier: EPL-2.0

package capture

import "errors"

var (
	// ErrPermission indicates the user or platform denied microphone access.
	ErrPermission = errors.New("microphone permission denied")

	// ErrInUse indicates the microphone already has an open recorder.
	ErrInUse = errors.New("microphone already in use")

	// ErrClosed indicates use of a recorder after Close.
	ErrClosed = errors.New("recorder closed")
)
