// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis decoding backed by
// github.com/jfreymuth/oggvorbis.
//
// The decoder yields float32 samples natively, so no integer conversion
// takes place and the channel layout of the stream is kept:
//
//	source, err := vorbis.Decoder{}.Decode(file)
package vorbis
