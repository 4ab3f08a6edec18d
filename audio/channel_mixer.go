// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"fmt"
)

type mixerState int

const (
	stateUnconfigured mixerState = iota
	stateActive
	stateEnded
)

func (s mixerState) String() string {
	switch s {
	case stateActive:
		return "active"
	case stateEnded:
		return "ended"
	default:
		return "unconfigured"
	}
}

// MixerOption customizes a ChannelMixer.
type MixerOption func(*ChannelMixer)

// WithStereo16Only restricts the mixer to stereo PCM16 input. Every other
// format is rejected by Configure.
func WithStereo16Only() MixerOption {
	return func(m *ChannelMixer) {
		m.stereo16Only = true
	}
}

// ChannelMixer isolates one side of a stereo stream. Every output frame is
// stereo; the kept side carries the source sample and the other side is
// silent. Mono input is placed on the kept side.
//
// The mixer owns a single output arena that grows on demand and is reused
// across calls, so steady-state streaming does not allocate.
type ChannelMixer struct {
	keep         Channel
	stereo16Only bool

	state mixerState
	in    Format

	arena   []byte
	pending []byte
}

// NewChannelMixer returns an unconfigured mixer that keeps the given channel.
func NewChannelMixer(keep Channel, opts ...MixerOption) *ChannelMixer {
	m := &ChannelMixer{keep: keep}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Keep reports which channel survives.
func (m *ChannelMixer) Keep() Channel { return m.keep }

// InputFormat returns the negotiated input format, or FormatNotSet.
func (m *ChannelMixer) InputFormat() Format { return m.in }

func (m *ChannelMixer) supports(f Format) bool {
	if m.stereo16Only {
		return f.Channels == 2 && f.Encoding == EncodingPCM16
	}
	if f.Encoding != EncodingPCM16 && f.Encoding != EncodingPCMFloat {
		return false
	}
	return f.Channels == 1 || f.Channels == 2
}

// Configure stores in and returns the stereo output format. A rejected
// format leaves the mixer exactly as it was.
func (m *ChannelMixer) Configure(in Format) (Format, error) {
	if !m.supports(in) {
		return FormatNotSet, &UnsupportedFormatError{Format: in}
	}

	m.in = in
	m.state = stateActive
	m.pending = nil

	out := in
	out.Channels = 2
	return out, nil
}

func (m *ChannelMixer) IsActive() bool {
	return m.state != stateUnconfigured && (m.in.Channels == 1 || m.in.Channels == 2)
}

// QueueInput transforms in into the pending output. The input must hold a
// whole number of frames; otherwise nothing is consumed and ErrPartialFrame
// is returned.
func (m *ChannelMixer) QueueInput(in []byte) (int, error) {
	switch m.state {
	case stateUnconfigured:
		return 0, ErrNotConfigured
	case stateEnded:
		return 0, ErrInputEnded
	}

	if len(in) == 0 {
		return 0, nil
	}

	inFrame := m.in.FrameSize()
	if len(in)%inFrame != 0 {
		return 0, fmt.Errorf("%w: %d bytes with %d-byte frames", ErrPartialFrame, len(in), inFrame)
	}

	frames := len(in) / inFrame
	width := m.in.Encoding.BytesPerSample()
	out := m.grow(frames * 2 * width)

	// Offset of the kept sample inside a source frame.
	srcOff := 0
	if m.in.Channels == 2 && m.keep == Right {
		srcOff = 1
	}

	switch width {
	case 2:
		isolate16(out, in, frames, m.in.Channels, srcOff, m.keep)
	case 4:
		isolate32(out, in, frames, m.in.Channels, srcOff, m.keep)
	}

	m.pending = out
	return len(in), nil
}

// grow returns an arena slice of exactly size bytes. The arena is replaced
// only when its capacity is too small.
func (m *ChannelMixer) grow(size int) []byte {
	if cap(m.arena) < size {
		m.arena = make([]byte, size)
	}
	return m.arena[:size]
}

func isolate16(dst, src []byte, frames, channels, srcOff int, keep Channel) {
	le := binary.LittleEndian
	for f := range frames {
		s := le.Uint16(src[(f*channels+srcOff)*2:])
		o := dst[f*4 : f*4+4]
		if keep == Left {
			le.PutUint16(o[0:], s)
			le.PutUint16(o[2:], 0)
		} else {
			le.PutUint16(o[0:], 0)
			le.PutUint16(o[2:], s)
		}
	}
}

// isolate32 moves float samples as raw bits so the kept value is preserved
// exactly, NaN payloads and negative zero included.
func isolate32(dst, src []byte, frames, channels, srcOff int, keep Channel) {
	le := binary.LittleEndian
	for f := range frames {
		s := le.Uint32(src[(f*channels+srcOff)*4:])
		o := dst[f*8 : f*8+8]
		if keep == Left {
			le.PutUint32(o[0:], s)
			le.PutUint32(o[4:], 0)
		} else {
			le.PutUint32(o[0:], 0)
			le.PutUint32(o[4:], s)
		}
	}
}

// Output returns the pending output and clears it. The slice is valid until
// the next call to QueueInput, Configure, Flush or Reset.
func (m *ChannelMixer) Output() []byte {
	out := m.pending
	m.pending = nil
	return out
}

func (m *ChannelMixer) QueueEndOfStream() {
	if m.state == stateActive {
		m.state = stateEnded
	}
}

// IsEnded reports whether end of stream was queued and all output drained.
func (m *ChannelMixer) IsEnded() bool {
	return m.state == stateEnded && len(m.pending) == 0
}

// Flush drops pending output and the end-of-stream mark. The format is kept.
func (m *ChannelMixer) Flush() {
	m.pending = nil
	if m.state == stateEnded {
		m.state = stateActive
	}
}

// Reset flushes and forgets the format. Configure must be called again
// before queueing input.
func (m *ChannelMixer) Reset() {
	m.Flush()
	m.state = stateUnconfigured
	m.in = FormatNotSet
	m.arena = nil
}

func (m *ChannelMixer) String() string {
	return fmt.Sprintf("ChannelMixer(keep=%s, state=%s, in=%s)", m.keep, m.state, m.in)
}

var _ Processor = (*ChannelMixer)(nil)
