// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts go-audio integer PCM decoders to audio.Source.
package intpcm

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/dualplayer/audio"
)

// Reader is the part of the go-audio wav and aiff decoders a Source needs.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source streams normalized float32 samples out of a Reader.
type Source struct {
	dec        Reader
	format     *goaudio.Format
	sampleRate int
	channels   int
	bitDepth   int
	intBuf     *goaudio.IntBuffer
	closer     io.Closer

	frames int64 // -1 when unknown
	seek   func(frame int64) error
}

// New wraps dec, normalizing samples by bitDepth.
func New(dec Reader, format *goaudio.Format, bitDepth int) *Source {
	return &Source{
		dec:        dec,
		format:     format,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   bitDepth,
		frames:     -1,
	}
}

// WithLength records the stream length in frames.
func (s *Source) WithLength(frames int64) *Source {
	s.frames = frames
	return s
}

// WithSeek enables SeekFrame. seek receives a frame already clamped to
// the length, when the length is known.
func (s *Source) WithSeek(seek func(frame int64) error) *Source {
	s.seek = seek
	return s
}

func (s *Source) Length() int64 { return s.frames }

func (s *Source) SeekFrame(frame int64) error {
	if s.seek == nil {
		return audio.ErrNotSeekable
	}
	if s.frames >= 0 {
		frame = min(frame, s.frames)
	}
	if err := s.seek(frame); err != nil {
		return fmt.Errorf("seek to frame %d: %w", frame, err)
	}
	return nil
}

// WithCloser makes Close release c.
func (s *Source) WithCloser(c io.Closer) *Source {
	s.closer = c
	return s
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BitDepth() int   { return s.bitDepth }

func (s *Source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	if err := s.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// NativeEncoding reports the encoding that represents the stored samples
// without loss.
func (s *Source) NativeEncoding() audio.Encoding {
	if s.bitDepth > 16 {
		return audio.EncodingPCMFloat
	}
	return audio.EncodingPCM16
}

func (s *Source) scale() float32 {
	switch s.bitDepth {
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0
	}
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.format,
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("%w", err)
		}
		return 0, io.EOF
	}

	maxVal := s.scale()
	for i, v := range s.intBuf.Data[:n] {
		dst[i] = float32(v) / maxVal
	}

	if err == io.EOF || (err == nil && n < len(dst)) {
		return n, io.EOF
	}
	if err != nil {
		return n, fmt.Errorf("%w", err)
	}

	return n, nil
}
