// SPDX-License-Identifier: EPL-2.0

// Package render synthesises voice effects offline.
//
// A render turns one PCM buffer into another at a target sample rate and
// channel count. Its length is fixed by OutputFrames before any audio is
// read, so a recipe that changes playback speed produces a predictable
// duration:
//
//	r := render.Renderer{}
//	res, err := r.Render(buf, recipe, render.Options{SampleRate: 22050, Channels: 1})
//
// Mono output averages every input channel. Output with more channels
// than the input repeats the last input channel.
package render
