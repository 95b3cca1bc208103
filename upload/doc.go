// SPDX-License-Identifier: EPL-2.0

// Package upload submits encoded artifacts to a delivery endpoint as
// multipart forms.
package upload
