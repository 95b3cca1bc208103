// SPDX-License-Identifier: EPL-2.0

package encode

import (
	"math"

	"github.com/google/uuid"
)

// Original labels the artifact of the unprocessed recording.
const Original = "original"

// DurationSource records how an artifact's duration was obtained.
type DurationSource string

const (
	// DurationDecoded comes from the decoded or rendered PCM.
	DurationDecoded DurationSource = "decoded"
	// DurationProbed comes from container metadata.
	DurationProbed DurationSource = "probed"
	// DurationUnknown means no duration could be resolved. Duration is 0
	// and must not be read as an empty recording.
	DurationUnknown DurationSource = "unknown"
)

// Artifact is one encoded recording. Its bytes are shared read-only once
// handed out.
type Artifact struct {
	ID             string
	Voice          string
	Bytes          []byte
	MimeType       string
	Duration       float64
	DurationSource DurationSource
}

// NewArtifact wraps data under a fresh id. A duration that is not a
// positive finite number is stored as 0 with DurationUnknown.
func NewArtifact(voice string, data []byte, mimeType string, duration float64, source DurationSource) Artifact {
	if !(duration > 0) || math.IsInf(duration, 0) {
		duration, source = 0, DurationUnknown
	}

	return Artifact{
		ID:             uuid.NewString(),
		Voice:          voice,
		Bytes:          data,
		MimeType:       mimeType,
		Duration:       duration,
		DurationSource: source,
	}
}

// Known reports whether the artifact carries a usable duration.
func (a Artifact) Known() bool {
	return a.DurationSource != DurationUnknown && a.Duration > 0
}
