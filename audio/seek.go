// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"time"
)

// Seeker is implemented by sources that can jump to a frame. A frame past
// the end positions the source at its end.
type Seeker interface {
	SeekFrame(frame int64) error
}

// Lengther is implemented by sources that know their length in frames.
// Length returns -1 when the length is unknown.
type Lengther interface {
	Length() int64
}

// SeekFrame positions src at frame. Sources that cannot seek return
// ErrNotSeekable.
func SeekFrame(src Source, frame int64) error {
	sk, ok := src.(Seeker)
	if !ok {
		return ErrNotSeekable
	}
	if frame < 0 {
		return fmt.Errorf("%w: frame %d", ErrInvalidSeek, frame)
	}
	return sk.SeekFrame(frame)
}

// Length returns the length of src in frames, or -1 if unknown.
func Length(src Source) int64 {
	if l, ok := src.(Lengther); ok {
		if n := l.Length(); n >= 0 {
			return n
		}
	}
	return -1
}

// FramesToDuration converts a frame count at sampleRate to time.
func FramesToDuration(frames int64, sampleRate int) time.Duration {
	if sampleRate <= 0 || frames <= 0 {
		return 0
	}
	rate := int64(sampleRate)
	return time.Duration(frames/rate)*time.Second +
		time.Duration(frames%rate)*time.Second/time.Duration(rate)
}

// DurationToFrames is the frame at d, rounded down.
func DurationToFrames(d time.Duration, sampleRate int) int64 {
	if sampleRate <= 0 || d <= 0 {
		return 0
	}
	rate := int64(sampleRate)
	return int64(d/time.Second)*rate + int64(d%time.Second)*rate/int64(time.Second)
}
