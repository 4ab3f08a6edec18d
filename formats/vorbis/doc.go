// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams through
// github.com/jfreymuth/oggvorbis.
//
// Samples are produced directly as float32, so sources report a native
// encoding of float. ReadSamples only ever returns whole frames.
package vorbis
