// SPDX-License-Identifier: EPL-2.0

// Package encode packages rendered PCM into artifacts.
//
// WAV is always available. A compressed codec is used when one of the
// preferred MIME types is registered and supported; if it fails or runs
// past its deadline the encoder logs the problem and returns WAV instead.
// The artifact's MimeType always names what its bytes actually are.
//
//	enc := encode.NewDefault(encode.DefaultOptions(), logger, nil)
//	art, err := enc.Encode(ctx, "deep", result.PCM)
package encode
