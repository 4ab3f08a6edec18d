// SPDX-License-Identifier: EPL-2.0

package player

import "errors"

var (
	ErrUnsupportedFile    = errors.New("no decoder for file")
	ErrSampleRateMismatch = errors.New("track sample rate differs from output")
	ErrNotLoaded          = errors.New("no track loaded on this side")
	ErrInvalidVolume      = errors.New("volume must be within [0, 1]")
	ErrClosed             = errors.New("player closed")
	ErrInvalidPosition    = errors.New("seek position must not be negative")
)
