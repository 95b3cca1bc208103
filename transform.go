// SPDX-License-Identifier: EPL-2.0

package voxbooth

import (
	"fmt"
	"io"

	"github.com/ik5/voxbooth/audio"
	"github.com/ik5/voxbooth/encode"
	"github.com/ik5/voxbooth/formats"
	"github.com/ik5/voxbooth/render"
	"github.com/ik5/voxbooth/utils"
	"github.com/ik5/voxbooth/voice"
)

var renderer render.Renderer

// Transform decodes raw and renders it with the built-in voice id.
func Transform(raw []byte, id voice.ID, opts render.Options) (render.Result, error) {
	recipe, ok := voice.Presets()[id]
	if !ok {
		return render.Result{}, fmt.Errorf("%w: %q", voice.ErrUnknownVoice, id)
	}

	return TransformWith(raw, recipe, opts)
}

// TransformWith decodes raw and renders it with recipe.
func TransformWith(raw []byte, recipe voice.Recipe, opts render.Options) (render.Result, error) {
	pcm, err := formats.Decode(raw)
	if err != nil {
		return render.Result{}, err
	}

	return renderer.Render(pcm, recipe, opts)
}

// TransformWAV is Transform followed by 16-bit WAV encoding.
func TransformWAV(raw []byte, id voice.ID, opts render.Options) ([]byte, error) {
	res, err := Transform(raw, id, opts)
	if err != nil {
		return nil, err
	}

	return encode.EncodeWAV(res.PCM)
}

// VoiceToMono16 renders raw with the built-in voice id as mono 16-bit
// samples at targetRate.
func VoiceToMono16(raw []byte, id voice.ID, targetRate int) ([]int16, error) {
	res, err := Transform(raw, id, render.Options{SampleRate: targetRate, Channels: 1})
	if err != nil {
		return nil, err
	}

	pcm16, _, err := ResampleToMono16(res.PCM.Source(), targetRate, 4096)
	if err != nil {
		return nil, err
	}

	return pcm16, nil
}

// ResampleToMono16 drains src through a resampler to targetRate and a
// mono mixer, and narrows the result to 16-bit PCM with the same scaling
// as the WAV writer. It returns the samples and targetRate.
//
// bufferSize is the number of float samples read per call; larger
// buffers trade memory for fewer calls.
func ResampleToMono16(src audio.Source, targetRate int, bufferSize int) ([]int16, int, error) {
	if bufferSize <= 0 {
		bufferSize = 4096
	}

	resampler, err := audio.NewVariableResampler(src, targetRate, 1)
	if err != nil {
		return nil, targetRate, err
	}
	mono := audio.NewMonoMixer(resampler)

	pcm16 := make([]int16, 0, targetRate)
	buf := make([]float32, bufferSize)

	for {
		n, err := mono.ReadSamples(buf)
		for _, x := range buf[:n] {
			pcm16 = append(pcm16, utils.Float32ToInt16(x))
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, targetRate, fmt.Errorf("%w", err)
		}
	}

	return pcm16, targetRate, nil
}
