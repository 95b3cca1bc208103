// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"fmt"
	"math"

	"github.com/ik5/voxbooth/dsp"
)

// ID names a voice preset.
type ID string

// FilterSpec is one stage of a recipe's filter chain.
type FilterSpec = dsp.FilterSpec

// FeedbackStage configures the echo of a recipe.
type FeedbackStage struct {
	DelaySeconds float64 `yaml:"delay_seconds"`
	FeedbackGain float64 `yaml:"feedback_gain"`
	DryGain      float64 `yaml:"dry_gain"`
}

// Recipe is the effect applied to a recording for one voice.
type Recipe struct {
	PlaybackRate float64        `yaml:"playback_rate"`
	Filters      []FilterSpec   `yaml:"filters"`
	Feedback     *FeedbackStage `yaml:"feedback,omitempty"`
}

// Validate checks every parameter of r. Filter problems wrap
// dsp.ErrInvalidFilter.
func (r Recipe) Validate() error {
	if !(r.PlaybackRate > 0) || math.IsInf(r.PlaybackRate, 0) {
		return fmt.Errorf("%w: playback rate %v", ErrInvalidRecipe, r.PlaybackRate)
	}

	for i, f := range r.Filters {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("%w: filter %d: %w", ErrInvalidRecipe, i, err)
		}
	}

	if fb := r.Feedback; fb != nil {
		switch {
		case !(fb.DelaySeconds > 0) || math.IsInf(fb.DelaySeconds, 0):
			return fmt.Errorf("%w: delay %v s", ErrInvalidRecipe, fb.DelaySeconds)
		case !(fb.FeedbackGain >= 0 && fb.FeedbackGain < 1):
			return fmt.Errorf("%w: feedback gain %v", ErrInvalidRecipe, fb.FeedbackGain)
		case !(fb.DryGain >= 0) || math.IsInf(fb.DryGain, 0):
			return fmt.Errorf("%w: dry gain %v", ErrInvalidRecipe, fb.DryGain)
		}
	}

	return nil
}

// Clone returns a deep copy of r.
func (r Recipe) Clone() Recipe {
	out := r
	out.Filters = append([]FilterSpec(nil), r.Filters...)
	if r.Feedback != nil {
		fb := *r.Feedback
		out.Feedback = &fb
	}

	return out
}

// Identity is the recipe that leaves a recording unchanged.
func Identity() Recipe {
	return Recipe{PlaybackRate: 1}
}
