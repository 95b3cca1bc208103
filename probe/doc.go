// SPDX-License-Identifier: EPL-2.0

// Package probe reads the playable length of an encoded recording from
// container metadata (WAV and AIFF headers, the MP3 frame index, the last
// Ogg granule position) under a bounded timeout. It is the fallback when
// decoding did not yield a length.
package probe
