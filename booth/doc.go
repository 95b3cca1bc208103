// SPDX-License-Identifier: EPL-2.0

// Package booth orchestrates a recording session. A Controller moves
// through Idle, Recording, Stopping and Processing:
//
//   - Start releases the previous batch and opens the microphone. A hard
//     timeout stops the recording if Stop is never called.
//   - Stop collects the captured container and hands it to processing.
//   - Processing decodes the recording, resolves its duration (decoded,
//     then probed, then unknown), keeps it as the original artifact and
//     renders every active voice in order, one at a time.
//
// A failing voice is recorded and skipped; the batch always runs to the
// end. Session failures leave the controller in Error until the next
// Start.
package booth
