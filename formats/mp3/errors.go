// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

// ErrUnknownLength indicates the stream could not be indexed.
var ErrUnknownLength = errors.New("mp3 length unknown")
