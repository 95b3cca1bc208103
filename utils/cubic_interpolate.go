// SPDX-License-Identifier: EPL-2.0

package utils

// CubicInterpolate evaluates the Catmull-Rom segment between y1 and y2 at
// x in [0, 1], using y0 and y3 as the outer control points. x == 0 yields
// y1 exactly.
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	if x == 0 {
		return y1
	}

	c3 := 0.5 * (y3 - y0 + 3*(y1-y2))
	c2 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c1 := 0.5 * (y2 - y0)

	return ((c3*x+c2)*x+c1)*x + y1
}

// CubicFrame interpolates every channel of one interleaved frame. The four
// neighbour frames must be at least len(dst) samples long.
func CubicFrame(dst, y0, y1, y2, y3 []float32, x float32) {
	for c := range dst {
		dst[c] = CubicInterpolate(y0[c], y1[c], y2[c], y3[c], x)
	}
}
