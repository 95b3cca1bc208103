// SPDX-License-Identifier: EPL-2.0

// Package voice defines the voice presets: a playback-rate change, an
// ordered filter chain and an optional echo per voice id.
//
// The set of voices rendered for a recording is data. Built-in sets ship
// one, two and four voices; a YAML document can add recipes and choose a
// different active list:
//
//	table, err := voice.Builtin(voice.SetDuo)
//	recipe, err := table.Lookup(voice.Chipmunk)
package voice
