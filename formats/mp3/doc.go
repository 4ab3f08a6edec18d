// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio through
// github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces interleaved 16-bit stereo, so every source from
// this package reports two channels and a native encoding of pcm16. Mono
// files come out with the same signal on both sides.
//
// Decoding is read-only; the package does not write MP3.
package mp3
