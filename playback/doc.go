// SPDX-License-Identifier: EPL-2.0

// Package playback keeps the single-writer registry of playable artifacts
// for one recording batch.
package playback
