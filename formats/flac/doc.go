// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC streams through github.com/mewkiz/flac.
//
// Frames are parsed one at a time and their subframes are interleaved into
// float32 samples scaled by the stream's bit depth. Streams of 16 bits or
// fewer report a native encoding of pcm16; deeper ones report float.
package flac
