// SPDX-License-Identifier: EPL-2.0

package playback

import "errors"

var (
	ErrUnknownEntry   = errors.New("unknown playback entry")
	ErrDuplicateEntry = errors.New("playback entry already registered")
)
