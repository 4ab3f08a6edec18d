// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	// ErrUnsupportedBitDepth indicates samples wider than 32 bits or narrower than 4.
	ErrUnsupportedBitDepth = errors.New("unsupported FLAC bit depth")

	// ErrChannelMismatch indicates a frame whose subframe count differs from
	// the stream info.
	ErrChannelMismatch = errors.New("FLAC frame channel count does not match stream")
)
