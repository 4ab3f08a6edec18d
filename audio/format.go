// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Encoding identifies how a single PCM sample is laid out in a byte stream.
// All encodings are little-endian.
type Encoding int

const (
	EncodingInvalid Encoding = iota
	// EncodingPCM16 is signed 16-bit integer PCM.
	EncodingPCM16
	// EncodingPCMFloat is 32-bit IEEE-754 floating point PCM.
	EncodingPCMFloat
)

// BytesPerSample returns the size of one sample, or 0 for unknown encodings.
func (e Encoding) BytesPerSample() int {
	switch e {
	case EncodingPCM16:
		return 2
	case EncodingPCMFloat:
		return 4
	default:
		return 0
	}
}

func (e Encoding) String() string {
	switch e {
	case EncodingPCM16:
		return "pcm16"
	case EncodingPCMFloat:
		return "float"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

// ParseEncoding maps "pcm16" / "float" (and a few aliases) to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "pcm16", "s16", "int16":
		return EncodingPCM16, nil
	case "float", "f32", "float32":
		return EncodingPCMFloat, nil
	default:
		return EncodingInvalid, fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
	}
}

// Format describes an interleaved PCM stream.
type Format struct {
	SampleRate int
	Channels   int
	Encoding   Encoding
}

// FormatNotSet is the format held by a processor that was never configured.
var FormatNotSet = Format{}

// FrameSize is the number of bytes one frame occupies.
func (f Format) FrameSize() int {
	return f.Channels * f.Encoding.BytesPerSample()
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch/%s", f.SampleRate, f.Channels, f.Encoding)
}

// Channel selects one side of a stereo pair.
type Channel int

const (
	Left Channel = iota
	Right
)

func (c Channel) String() string {
	if c == Right {
		return "right"
	}
	return "left"
}
