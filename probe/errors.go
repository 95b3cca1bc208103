// SPDX-License-Identifier: EPL-2.0

package probe

import "errors"

var (
	// ErrUnknownDuration indicates the container carries no usable length.
	ErrUnknownDuration = errors.New("duration unknown")

	// ErrProbeTimeout indicates the probe exceeded its time budget.
	ErrProbeTimeout = errors.New("duration probe timed out")
)
