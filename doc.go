// SPDX-License-Identifier: EPL-2.0

// Package voxbooth turns a recorded voice message into playful
// renditions: deeper, faster, band-limited like a radio, or with an echo.
//
// The one-shot helpers in this package cover the common case of a single
// recording and a single voice:
//
//	raw, _ := os.ReadFile("message.wav")
//	out, _ := voxbooth.TransformWAV(raw, voice.Deep, render.Options{})
//	_ = os.WriteFile("deep.wav", out, 0o644)
//
// For telephony sinks that want 16-bit mono at a fixed rate:
//
//	pcm16, _ := voxbooth.VoiceToMono16(raw, voice.Radio, 8000)
//
// # Packages
//
// The pipeline is split into subpackages that can be used on their own:
//   - formats decodes WAV, AIFF, MP3, Ogg Vorbis and Ogg Opus containers
//   - voice holds the effect recipes and the active voice set
//   - render applies a recipe offline (resample, filters, echo)
//   - encode writes WAV or, when available, Ogg Opus artifacts
//   - booth runs full recording sessions over a capture.Microphone
//   - probe, playback and upload are the session's collaborators
//
// The audio subpackage carries the streaming Source stages (resampler,
// channel mapper, mono mixer) the renderer is built from.
package voxbooth
