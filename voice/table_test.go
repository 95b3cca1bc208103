// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ik5/voxbooth/dsp"
)

func TestBuiltin_Sets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		set  string
		want []ID
	}{
		{set: SetSingle, want: []ID{Deep}},
		{set: SetDuo, want: []ID{Deep, Chipmunk}},
		{set: SetQuartet, want: []ID{Deep, Chipmunk, Radio, Echo}},
	}

	for _, tt := range tests {
		t.Run(tt.set, func(t *testing.T) {
			t.Parallel()

			table, err := Builtin(tt.set)
			if err != nil {
				t.Fatalf("Builtin() error = %v", err)
			}

			if got := table.Active(); !slices.Equal(got, tt.want) {
				t.Errorf("Active() = %v, want %v", got, tt.want)
			}
			if table.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", table.Len(), len(tt.want))
			}
		})
	}

	if _, err := Builtin("octet"); !errors.Is(err, ErrUnknownSet) {
		t.Errorf("Builtin(octet) error = %v, want ErrUnknownSet", err)
	}
}

func TestTable_Lookup(t *testing.T) {
	t.Parallel()

	table, err := Builtin(SetDuo)
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}

	r, err := table.Lookup(Chipmunk)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if r.PlaybackRate != 1.35 {
		t.Errorf("chipmunk PlaybackRate = %v, want 1.35", r.PlaybackRate)
	}

	// Outside the active set even though a preset exists.
	if _, err := table.Lookup(Echo); !errors.Is(err, ErrUnknownVoice) {
		t.Errorf("Lookup(echo) error = %v, want ErrUnknownVoice", err)
	}
	if _, err := table.Lookup("robot"); !errors.Is(err, ErrUnknownVoice) {
		t.Errorf("Lookup(robot) error = %v, want ErrUnknownVoice", err)
	}
}

func TestTable_LookupReturnsCopy(t *testing.T) {
	t.Parallel()

	table, err := Builtin(SetQuartet)
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}

	r, _ := table.Lookup(Echo)
	r.Filters[0].FrequencyHz = -1
	r.Feedback.FeedbackGain = 0.99

	again, _ := table.Lookup(Echo)
	if again.Filters[0].FrequencyHz != 5000 || again.Feedback.FeedbackGain != 0.4 {
		t.Errorf("table recipe mutated through lookup: %+v", again)
	}

	active := table.Active()
	active[0] = "changed"
	if table.Active()[0] != Deep {
		t.Error("Active() exposes internal slice")
	}
}

func TestNewTable_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		recipes map[ID]Recipe
		active  []ID
		want    error
	}{
		{
			name:    "missing recipe",
			recipes: map[ID]Recipe{},
			active:  []ID{"ghost"},
			want:    ErrUnknownVoice,
		},
		{
			name:    "duplicate id",
			recipes: map[ID]Recipe{"a": Identity()},
			active:  []ID{"a", "a"},
			want:    ErrInvalidRecipe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewTable(tt.recipes, tt.active); !errors.Is(err, tt.want) {
				t.Errorf("NewTable() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewTable_InvalidRecipeIsolated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		recipe Recipe
		want   error
	}{
		{name: "zero playback rate", recipe: Recipe{PlaybackRate: 0}, want: ErrInvalidRecipe},
		{
			name: "non-positive frequency",
			recipe: Recipe{
				PlaybackRate: 1,
				Filters:      []FilterSpec{{Kind: dsp.Lowpass, FrequencyHz: 0}},
			},
			want: dsp.ErrInvalidFilter,
		},
		{
			name: "runaway feedback",
			recipe: Recipe{
				PlaybackRate: 1,
				Feedback:     &FeedbackStage{DelaySeconds: 0.1, FeedbackGain: 1.2},
			},
			want: ErrInvalidRecipe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			recipes := map[ID]Recipe{Deep: Presets()[Deep], "broken": tt.recipe}
			table, err := NewTable(recipes, []ID{Deep, "broken"})
			if err != nil {
				t.Fatalf("NewTable() error = %v", err)
			}

			if _, err := table.Lookup("broken"); !errors.Is(err, tt.want) {
				t.Errorf("Lookup(broken) error = %v, want %v", err, tt.want)
			}
			if _, err := table.Lookup(Deep); err != nil {
				t.Errorf("Lookup(deep) error = %v", err)
			}
			if got := table.Active(); !slices.Equal(got, []ID{Deep, "broken"}) {
				t.Errorf("Active() = %v", got)
			}

			invalid := table.Invalid()
			if len(invalid) != 1 || !errors.Is(invalid["broken"], tt.want) {
				t.Errorf("Invalid() = %v", invalid)
			}
		})
	}
}

func TestPresets_AllValid(t *testing.T) {
	t.Parallel()

	for id, r := range Presets() {
		if err := r.Validate(); err != nil {
			t.Errorf("preset %q: %v", id, err)
		}
	}
}

func TestLoadTable(t *testing.T) {
	t.Parallel()

	doc := `
voices:
  robot:
    playback_rate: 1.1
    filters:
      - {kind: highpass, frequency_hz: 800}
      - {kind: highshelf, frequency_hz: 2500, gain_db: 6}
    feedback:
      delay_seconds: 0.05
      feedback_gain: 0.2
      dry_gain: 1
active: [robot, deep]
`

	table, err := LoadTable(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}

	if got := table.Active(); !slices.Equal(got, []ID{"robot", Deep}) {
		t.Errorf("Active() = %v", got)
	}

	r, err := table.Lookup("robot")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if len(r.Filters) != 2 || r.Filters[1].Kind != dsp.Highshelf || r.Filters[1].GainDB != 6 {
		t.Errorf("robot filters = %+v", r.Filters)
	}
	if r.Feedback == nil || r.Feedback.DelaySeconds != 0.05 {
		t.Errorf("robot feedback = %+v", r.Feedback)
	}
}

func TestLoadTable_SetAndDefaults(t *testing.T) {
	t.Parallel()

	table, err := LoadTable(strings.NewReader("set: single\n"))
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	if got := table.Active(); !slices.Equal(got, []ID{Deep}) {
		t.Errorf("Active() = %v", got)
	}

	table, err = LoadTable(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadTable(empty) error = %v", err)
	}
	if table.Len() != 4 {
		t.Errorf("empty document Len() = %d, want 4", table.Len())
	}
}

func TestLoadTable_BadFilterOnlyLosesThatVoice(t *testing.T) {
	t.Parallel()

	doc := `
voices:
  broken:
    playback_rate: 1
    filters: [{kind: lowpass, frequency_hz: 0}]
active: [deep, broken, radio]
`

	table, err := LoadTable(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}

	if _, err := table.Lookup("broken"); !errors.Is(err, dsp.ErrInvalidFilter) {
		t.Errorf("Lookup(broken) error = %v, want ErrInvalidFilter", err)
	}
	for _, id := range []ID{Deep, Radio} {
		if _, err := table.Lookup(id); err != nil {
			t.Errorf("Lookup(%s) error = %v", id, err)
		}
	}
}

func TestLoadTable_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want error
	}{
		{name: "unknown set", doc: "set: choir\n", want: ErrUnknownSet},
		{name: "unknown active", doc: "active: [nobody]\n", want: ErrUnknownVoice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := LoadTable(strings.NewReader(tt.doc)); !errors.Is(err, tt.want) {
				t.Errorf("LoadTable() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := LoadTable(strings.NewReader("unexpected: true\n")); err == nil {
		t.Error("LoadTable() accepted an unknown field")
	}
}
