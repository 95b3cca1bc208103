// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Table maps the active voice ids to their recipes. A Table is immutable
// once built and safe for concurrent use.
type Table struct {
	recipes map[ID]Recipe
	invalid map[ID]error
	active  []ID
}

// NewTable fixes the active set and its order. Every active id must have
// a recipe and appear once. A recipe that fails validation stays in the
// table; Lookup reports its error so only that voice is lost.
func NewTable(recipes map[ID]Recipe, active []ID) (*Table, error) {
	t := &Table{
		recipes: make(map[ID]Recipe, len(active)),
		invalid: make(map[ID]error),
	}

	for _, id := range active {
		r, ok := recipes[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q has no recipe", ErrUnknownVoice, id)
		}
		if _, dup := t.recipes[id]; dup {
			return nil, fmt.Errorf("%w: %q listed twice", ErrInvalidRecipe, id)
		}
		if err := r.Validate(); err != nil {
			t.invalid[id] = fmt.Errorf("voice %q: %w", id, err)
		}

		t.recipes[id] = r.Clone()
		t.active = append(t.active, id)
	}

	return t, nil
}

// Lookup returns a copy of the recipe for id. An active voice whose recipe
// is invalid returns its validation error, wrapping ErrInvalidRecipe.
func (t *Table) Lookup(id ID) (Recipe, error) {
	r, ok := t.recipes[id]
	if !ok {
		return Recipe{}, fmt.Errorf("%w: %q", ErrUnknownVoice, id)
	}
	if err := t.invalid[id]; err != nil {
		return Recipe{}, err
	}

	return r.Clone(), nil
}

// Active returns the active ids in declared order.
func (t *Table) Active() []ID {
	return append([]ID(nil), t.active...)
}

// Invalid returns the validation error of every active voice that cannot
// be rendered.
func (t *Table) Invalid() map[ID]error {
	out := make(map[ID]error, len(t.invalid))
	for id, err := range t.invalid {
		out[id] = err
	}

	return out
}

// Len returns the size of the active set.
func (t *Table) Len() int { return len(t.active) }

// tableFile is the YAML layout read by LoadTable.
type tableFile struct {
	Set    string        `yaml:"set"`
	Active []ID          `yaml:"active"`
	Voices map[ID]Recipe `yaml:"voices"`
}

// LoadTable reads a table from YAML. Voices declared in the document
// override or extend the built-in presets; the active set is either a
// built-in set name or an explicit list.
//
//	set: duo
//	voices:
//	  robot:
//	    playback_rate: 1
//	    filters:
//	      - {kind: highpass, frequency_hz: 800}
//	active: [deep, robot]
func LoadTable(r io.Reader) (*Table, error) {
	var doc tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse voice table: %w", err)
	}

	return doc.table()
}

func (doc tableFile) table() (*Table, error) {
	recipes := Presets()
	for id, r := range doc.Voices {
		recipes[id] = r
	}

	active := doc.Active
	if len(active) == 0 {
		set := doc.Set
		if set == "" {
			set = SetQuartet
		}

		ids, ok := Sets()[set]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSet, set)
		}
		active = ids
	}

	return NewTable(recipes, active)
}

// Config is the voice section of the application configuration.
type Config struct {
	Set    string        `yaml:"set"`
	Active []ID          `yaml:"active"`
	Voices map[ID]Recipe `yaml:"voices"`
}

// Table builds the voice table described by c.
func (c Config) Table() (*Table, error) {
	return tableFile(c).table()
}
