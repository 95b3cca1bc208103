// SPDX-License-Identifier: EPL-2.0

package voice

import "errors"

var (
	// ErrUnknownVoice indicates an id outside the table's active set.
	ErrUnknownVoice = errors.New("unknown voice")

	// ErrInvalidRecipe indicates a recipe that cannot be rendered.
	ErrInvalidRecipe = errors.New("invalid voice recipe")

	// ErrUnknownSet indicates a built-in voice set name that does not exist.
	ErrUnknownSet = errors.New("unknown voice set")
)
