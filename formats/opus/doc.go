// SPDX-License-Identifier: EPL-2.0

// Package opus reads and writes Ogg Opus containers.
//
// Decoding goes through libopusfile (gopkg.in/hraban/opus.v2 Stream) and
// always yields 48 kHz float samples; the channel count comes from the
// OpusHead packet of the first page.
//
// Encoding feeds libopus 20 ms frames and muxes the packets with pion's
// oggwriter, carrying each packet as an RTP payload whose timestamp
// advances by one frame:
//
//	enc := &opus.Encoder{Bitrate: 64000}
//	if enc.Supported() {
//	    data, err := enc.Encode(ctx, buffer)
//	}
//
// With Realtime set the encoder paces itself at one frame per tick, the
// same cadence a live capture session has, so a deadline on ctx bounds
// the wall-clock cost of a compressed encode.
package opus
