// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/voxbooth/audio"
	"github.com/ik5/voxbooth/internal/audiotest"
)

func encodeBuffer(t *testing.T, buf *audio.Buffer) []byte {
	t.Helper()

	out := new(bytes.Buffer)
	if err := Encode(out, buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	return out.Bytes()
}

func decodeBytes(t *testing.T, data []byte) *audio.Buffer {
	t.Helper()

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	buf, err := audio.ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	return buf
}

func TestDecoder_RoundTripWithinQuantization(t *testing.T) {
	t.Parallel()

	const bound = 1.0 / 32768.0

	for _, channels := range []int{1, 2} {
		in := &audio.Buffer{SampleRate: 22050, Data: audiotest.NoiseBuffer(channels, 4000, 42, 1)}
		// Include the extremes and out-of-range values.
		in.Data[0][0], in.Data[0][1], in.Data[0][2] = 1, -1, 0

		out := decodeBytes(t, encodeBuffer(t, in))

		if out.SampleRate != 22050 || out.Channels() != channels || out.Frames() != 4000 {
			t.Fatalf("%dch: decoded shape %d Hz %dch %d frames", channels, out.SampleRate, out.Channels(), out.Frames())
		}

		for c := range channels {
			for f := range 4000 {
				diff := math.Abs(float64(out.Data[c][f]) - float64(in.Data[c][f]))
				if diff > bound {
					t.Fatalf("%dch: channel %d frame %d = %v, want %v (diff %v)",
						channels, c, f, out.Data[c][f], in.Data[c][f], diff)
				}
			}
		}
	}
}

func TestDecoder_ClampsOutOfRange(t *testing.T) {
	t.Parallel()

	in := &audio.Buffer{SampleRate: 8000, Data: [][]float32{{2, -3}}}
	out := decodeBytes(t, encodeBuffer(t, in))

	if out.Data[0][0] != 1 || out.Data[0][1] != -1 {
		t.Errorf("decoded = %v, want [1 -1]", out.Data[0])
	}
}

func TestDecoder_Idempotent(t *testing.T) {
	t.Parallel()

	data := encodeBuffer(t, &audio.Buffer{SampleRate: 16000, Data: audiotest.SineBuffer(16000, 2, 1600, 440, 0.8)})

	first := decodeBytes(t, data)
	second := decodeBytes(t, data)

	for c := range first.Data {
		for f := range first.Data[c] {
			if first.Data[c][f] != second.Data[c][f] {
				t.Fatalf("decode differs at channel %d frame %d", c, f)
			}
		}
	}
}

func TestDecoder_NonSeekableReader(t *testing.T) {
	t.Parallel()

	data := encodeBuffer(t, &audio.Buffer{SampleRate: 8000, Data: [][]float32{{0.5, -0.5, 0.25}}})

	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	buf, err := audio.ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if buf.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", buf.Frames())
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "garbage", data: []byte("this is not a wav file at all, not even close....")},
		{name: "riff without wave", data: append([]byte("RIFF\x24\x00\x00\x00AVI "), make([]byte, 40)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(bytes.NewReader(tt.data)); err == nil {
				t.Error("Decode() error = nil, want error")
			}
		})
	}
}

func TestDecoder_RejectsFloatFormat(t *testing.T) {
	t.Parallel()

	data := encodeBuffer(t, &audio.Buffer{SampleRate: 8000, Data: [][]float32{{0, 0}}})
	binary.LittleEndian.PutUint16(data[20:22], 3) // IEEE float

	_, err := Decoder{}.Decode(bytes.NewReader(data))
	if !errors.Is(err, ErrUnsupportedWavLayout) {
		t.Errorf("Decode() error = %v, want ErrUnsupportedWavLayout", err)
	}
}

func TestDecoder_Match(t *testing.T) {
	t.Parallel()

	data := encodeBuffer(t, &audio.Buffer{SampleRate: 8000, Data: [][]float32{{0}}})

	if !(Decoder{}).Match(data) {
		t.Error("Match() = false for an encoded WAV")
	}
	if (Decoder{}).Match([]byte("OggS\x00\x02")) {
		t.Error("Match() = true for an Ogg header")
	}
}

// mockPCMReader feeds fixed integer samples to wavSource.
type mockPCMReader struct {
	data []int
	pos  int
}

func (m *mockPCMReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	n := copy(buf.Data, m.data[m.pos:])
	m.pos += n
	return n, nil
}

func TestWavSource_BitDepths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bitDepth int
		in       int
		want     float32
	}{
		{bitDepth: 8, in: 0, want: -1},
		{bitDepth: 8, in: 128, want: 0},
		{bitDepth: 16, in: 32767, want: 1},
		{bitDepth: 16, in: -32768, want: -1},
		{bitDepth: 24, in: -8388608, want: -1},
		{bitDepth: 32, in: 1073741824, want: 0.5},
	}

	for _, tt := range tests {
		src := &wavSource{dec: &mockPCMReader{data: []int{tt.in}}, sampleRate: 8000, channels: 1, bitDepth: tt.bitDepth}
		dst := make([]float32, 4)

		n, err := src.ReadSamples(dst)
		if err != nil || n != 1 {
			t.Fatalf("%d-bit ReadSamples() = (%d, %v)", tt.bitDepth, n, err)
		}
		if dst[0] != tt.want {
			t.Errorf("%d-bit %d -> %v, want %v", tt.bitDepth, tt.in, dst[0], tt.want)
		}

		if n, err := src.ReadSamples(dst); n != 0 || err != io.EOF {
			t.Errorf("%d-bit second read = (%d, %v), want (0, EOF)", tt.bitDepth, n, err)
		}
	}
}
