// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToInt16 narrows a sample to signed 16-bit PCM.
//
// The sample is clamped to [-1, 1] first and NaN is treated as 0. Negative values scale by 32768
// and non-negative values by 32767, so both -1 and 1 map to the ends of the
// int16 range. The scaled value is rounded to the nearest integer.
func Float32ToInt16(x float32) int16 {
	x = Clamp(x)

	if x < 0 {
		return int16(math.Round(float64(x) * 32768.0))
	}

	return int16(math.Round(float64(x) * 32767.0))
}

// Int16ToFloat32 widens a 16-bit PCM sample to [-1, 1] using the same
// asymmetric scale as Float32ToInt16, so a round trip is off by at most
// half a quantization step.
func Int16ToFloat32(v int16) float32 {
	if v < 0 {
		return float32(float64(v) / 32768.0)
	}

	return float32(float64(v) / 32767.0)
}

// Clamp limits x to [-1, 1]. NaN becomes silence.
func Clamp(x float32) float32 {
	if x != x {
		return 0
	}
	if x > 1 {
		return 1
	} else if x < -1 {
		return -1
	}

	return x
}
