// SPDX-License-Identifier: EPL-2.0

// Package formats turns an encoded audio container into a PCM buffer.
//
// The container is identified from its first bytes (RIFF/WAVE, FORM/AIFF,
// Ogg with an OpusHead or Vorbis packet, ID3 or an MPEG frame sync) and
// handed to the matching decoder subpackage:
//
//	buf, err := formats.Decode(raw)
//	if errors.Is(err, formats.ErrDecode) {
//	    // unrecognised, corrupt or empty recording
//	}
package formats
