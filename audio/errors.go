// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrUnsupportedFormat is matched by every *UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	ErrUnknownEncoding = errors.New("unknown sample encoding")

	// ErrNotConfigured is returned when input is queued before Configure
	// or after Reset.
	ErrNotConfigured = errors.New("processor is not configured")

	// ErrInputEnded is returned when input is queued after end of stream
	// without an intervening Flush.
	ErrInputEnded = errors.New("input already ended")

	// ErrPartialFrame is returned when an input buffer does not hold a
	// whole number of frames.
	ErrPartialFrame = errors.New("input holds a partial frame")

	ErrNotSeekable = errors.New("source does not support seeking")
	ErrInvalidSeek = errors.New("invalid seek position")
)

// UnsupportedFormatError is returned by Configure for formats a processor
// cannot handle. It carries the rejected format.
type UnsupportedFormatError struct {
	Format Format
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported audio format: %s", e.Format)
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }
