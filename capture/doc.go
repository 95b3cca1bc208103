// SPDX-License-Identifier: EPL-2.0

// Package capture defines the microphone collaborator of a recording
// session: a Microphone opens one Recorder, and stopping the recorder
// yields the raw container it captured.
//
// Replay stands in for a live device by serving a recording from memory
// or disk; Denied models a refused permission prompt.
package capture
