// SPDX-License-Identifier: EPL-2.0

package upload

import "errors"

var (
	// ErrUploadRejected indicates the server answered with a non-2xx status.
	ErrUploadRejected = errors.New("upload rejected")

	ErrNoEndpoint = errors.New("upload endpoint not configured")
	ErrNoArtifact = errors.New("nothing to upload")
)
