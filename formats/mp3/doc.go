// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// Decoding is backed by github.com/hajimehoshi/go-mp3. The returned
// audio.Source is always stereo at the stream's sample rate; mono input
// is duplicated into both channels by the library, so averaging the two
// channels restores the original signal.
//
//	source, err := mp3.Decoder{}.Decode(file)
//
// Length reads the frame index without decoding and serves cheap
// duration probes.
package mp3
