// SPDX-License-Identifier: EPL-2.0

package audiotest

import "math"

// SineBuffer returns planar samples of a sine tone, one slice per channel,
// scaled by amplitude. The shape matches audio.Buffer.Data.
func SineBuffer(sampleRate, channels, frames int, frequency, amplitude float64) [][]float32 {
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
		for i := range frames {
			t := float64(i) / float64(sampleRate)
			data[c][i] = float32(amplitude * math.Sin(2*math.Pi*frequency*t))
		}
	}

	return data
}

// NoiseBuffer returns deterministic pseudo-random samples in
// [-amplitude, amplitude] from a fixed linear congruential generator.
func NoiseBuffer(channels, frames int, seed uint32, amplitude float32) [][]float32 {
	state := seed
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
		for i := range frames {
			state = state*1664525 + 1013904223
			data[c][i] = amplitude * (float32(state>>8)/float32(1<<24)*2 - 1)
		}
	}

	return data
}

// RMS returns the root mean square of samples.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, v := range samples {
		sum += float64(v) * float64(v)
	}

	return math.Sqrt(sum / float64(len(samples)))
}
