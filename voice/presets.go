// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"fmt"

	"github.com/ik5/voxbooth/dsp"
)

// Built-in voice ids.
const (
	Deep     ID = "deep"
	Chipmunk ID = "chipmunk"
	Radio    ID = "radio"
	Echo     ID = "echo"
)

// Built-in voice sets.
const (
	SetSingle  = "single"
	SetDuo     = "duo"
	SetQuartet = "quartet"
)

// Presets returns a fresh copy of the built-in recipes.
func Presets() map[ID]Recipe {
	return map[ID]Recipe{
		Deep: {
			PlaybackRate: 0.8,
			Filters: []FilterSpec{
				{Kind: dsp.Lowshelf, FrequencyHz: 250, GainDB: 6},
				{Kind: dsp.Highshelf, FrequencyHz: 3000, GainDB: -4},
			},
		},
		Chipmunk: {
			PlaybackRate: 1.35,
			Filters: []FilterSpec{
				{Kind: dsp.Highshelf, FrequencyHz: 2500, GainDB: 4},
			},
		},
		Radio: {
			PlaybackRate: 1,
			Filters: []FilterSpec{
				{Kind: dsp.Highpass, FrequencyHz: 400},
				{Kind: dsp.Lowpass, FrequencyHz: 3200},
				{Kind: dsp.Highshelf, FrequencyHz: 2000, GainDB: 3},
			},
		},
		Echo: {
			PlaybackRate: 1,
			Filters: []FilterSpec{
				{Kind: dsp.Lowpass, FrequencyHz: 5000},
			},
			Feedback: &FeedbackStage{DelaySeconds: 0.25, FeedbackGain: 0.4, DryGain: 1},
		},
	}
}

// Sets lists the voices of each built-in set in render order.
func Sets() map[string][]ID {
	return map[string][]ID{
		SetSingle:  {Deep},
		SetDuo:     {Deep, Chipmunk},
		SetQuartet: {Deep, Chipmunk, Radio, Echo},
	}
}

// Builtin returns the table of a built-in set.
func Builtin(set string) (*Table, error) {
	active, ok := Sets()[set]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSet, set)
	}

	return NewTable(Presets(), active)
}
