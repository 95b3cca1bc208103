// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// Decoding is backed by github.com/go-audio/wav and accepts integer PCM
// at 8, 16, 24 and 32 bits with any chunk layout go-audio understands.
// Encoding always produces the canonical 44-byte header followed by
// interleaved 16-bit little-endian samples, which is the portable output
// container of the voice pipeline.
//
// # Decoding WAV Files
//
//	source, err := wav.Decoder{}.Decode(file)
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// # Writing WAV Files
//
// Encode narrows a planar audio.Buffer to 16 bits. Each sample is clamped
// to [-1, 1]; negative values scale by 32768 and non-negative values by
// 32767. The decoder applies the inverse scale to 16-bit data, so a round
// trip through Encode and Decoder stays within one quantization step:
//
//	err := wav.Encode(w, buffer)
//
// WriteWAV16 writes samples that are already int16:
//
//	err := wav.WriteWAV16(w, 8000, 1, []int16{100, -100})
package wav
