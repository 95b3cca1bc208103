// SPDX-License-Identifier: EPL-2.0

// Package config loads the YAML configuration of voxbooth. Missing keys
// keep the values of Default; invalid values are rejected, never replaced.
//
//	render:
//	  sample_rate: 22050
//	  channels: 1
//	encode:
//	  bitrate: 64000
//	  preference: ["audio/ogg;codecs=opus"]
//	capture:
//	  max_duration: 5m
//	voices:
//	  set: quartet
//	log:
//	  level: info
//	  format: text
package config
