// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"errors"
	"math"
	"testing"
)

func impulse(n int) [][]float32 {
	data := [][]float32{make([]float32, n)}
	data[0][0] = 1
	return data
}

func TestFeedbackDelay_SingleEchoWithoutFeedback(t *testing.T) {
	t.Parallel()

	d, err := NewFeedbackDelay(0.01, 0, 0, 1000, 1)
	if err != nil {
		t.Fatalf("NewFeedbackDelay() error = %v", err)
	}
	if d.DelaySamples() != 10 {
		t.Fatalf("DelaySamples() = %d, want 10", d.DelaySamples())
	}

	data := impulse(100)
	d.Process(data)

	for i, v := range data[0] {
		want := float32(0)
		if i == 10 {
			want = 1
		}
		if v != want {
			t.Errorf("sample %d = %v, want %v", i, v, want)
		}
	}
}

func TestFeedbackDelay_EchoesDecayGeometrically(t *testing.T) {
	t.Parallel()

	for _, g := range []float64{0.3, 0.5, 0.9} {
		d, err := NewFeedbackDelay(0.005, g, 0, 1000, 1)
		if err != nil {
			t.Fatalf("NewFeedbackDelay() error = %v", err)
		}

		data := impulse(200)
		d.Process(data)

		prev := math.Inf(1)
		for k := 1; k*5 < 200; k++ {
			got := float64(data[0][k*5])
			want := math.Pow(g, float64(k-1))
			if math.Abs(got-want) > 1e-6 {
				t.Errorf("g=%v tap %d = %v, want %v", g, k, got, want)
			}
			if got >= prev {
				t.Errorf("g=%v tap %d did not decay: %v >= %v", g, k, got, prev)
			}
			prev = got

			// Nothing between taps.
			for j := k*5 - 4; j < k*5; j++ {
				if data[0][j] != 0 {
					t.Fatalf("g=%v sample %d = %v between taps", g, j, data[0][j])
				}
			}
		}
	}
}

func TestFeedbackDelay_DryPath(t *testing.T) {
	t.Parallel()

	d, err := NewFeedbackDelay(0.002, 0.5, 0.8, 1000, 2)
	if err != nil {
		t.Fatalf("NewFeedbackDelay() error = %v", err)
	}

	data := [][]float32{{1, 0, 0, 0, 0}, {0, 1, 0, 0, 0}}
	d.Process(data)

	wantL := []float32{0.8, 0, 1, 0, 0.5}
	wantR := []float32{0, 0.8, 0, 1, 0}
	for i := range wantL {
		if math.Abs(float64(data[0][i]-wantL[i])) > 1e-6 || math.Abs(float64(data[1][i]-wantR[i])) > 1e-6 {
			t.Fatalf("frame %d = (%v, %v), want (%v, %v)", i, data[0][i], data[1][i], wantL[i], wantR[i])
		}
	}
}

func TestFeedbackDelay_StateCarriesAcrossBlocks(t *testing.T) {
	t.Parallel()

	d, _ := NewFeedbackDelay(0.003, 0, 0, 1000, 1)

	first := [][]float32{{1, 0}}
	second := [][]float32{{0, 0, 0}}
	d.Process(first)
	d.Process(second)

	if second[0][1] != 1 {
		t.Errorf("echo after block boundary = %v, want 1", second[0])
	}
}

func TestNewFeedbackDelay_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		delay, gain, dry float64
		rate             int
		want             error
	}{
		{name: "zero delay", delay: 0, gain: 0.5, dry: 1, rate: 1000, want: ErrInvalidDelay},
		{name: "unity feedback", delay: 0.1, gain: 1, dry: 1, rate: 1000, want: ErrInvalidDelay},
		{name: "negative feedback", delay: 0.1, gain: -0.1, dry: 1, rate: 1000, want: ErrInvalidDelay},
		{name: "negative dry", delay: 0.1, gain: 0.5, dry: -1, rate: 1000, want: ErrInvalidDelay},
		{name: "zero rate", delay: 0.1, gain: 0.5, dry: 1, rate: 0, want: ErrInvalidRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewFeedbackDelay(tt.delay, tt.gain, tt.dry, tt.rate, 1)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewFeedbackDelay() error = %v, want %v", err, tt.want)
			}
		})
	}
}
