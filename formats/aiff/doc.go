// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files through github.com/go-audio/aiff.
//
// Only uncompressed integer PCM at 16 or 24 bits is accepted. AIFF stores
// samples big-endian; the go-audio decoder swaps them, so sources from this
// package look the same as those from the wav package.
package aiff
