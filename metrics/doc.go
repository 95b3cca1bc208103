// SPDX-License-Identifier: EPL-2.0

// Package metrics exposes Prometheus instruments for capture sessions,
// voice renders and encoder fallbacks.
package metrics
