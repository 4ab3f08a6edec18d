// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/dualplayer/audio"
)

// oggReader is the subset of oggvorbis.Reader the source uses.
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

// oggSeeker is the seeking half of oggvorbis.Reader. Positions count
// frames; Length is 0 when the input cannot seek.
type oggSeeker interface {
	SetPosition(pos int64) error
	Length() int64
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
	closer     io.Closer
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 }

// NativeEncoding is float: vorbis synthesis yields float samples.
func (s *source) NativeEncoding() audio.Encoding { return audio.EncodingPCMFloat }

func (s *source) Close() error {
	if s.closer == nil {
		return nil
	}
	if err := s.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (s *source) Length() int64 {
	sk, ok := s.dec.(oggSeeker)
	if !ok || sk.Length() <= 0 {
		return -1
	}
	return sk.Length()
}

func (s *source) SeekFrame(frame int64) error {
	n := s.Length()
	if n < 0 {
		return audio.ErrNotSeekable
	}
	if err := s.dec.(oggSeeker).SetPosition(min(frame, n)); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// ReadSamples reads whole frames only; a dst shorter than one frame
// yields audio.ErrInvalidDstSize.
func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	whole := len(dst) - len(dst)%s.channels
	if whole == 0 {
		return 0, fmt.Errorf("%w: %d samples for %d channels", audio.ErrInvalidDstSize, len(dst), s.channels)
	}

	// oggvorbis returns a count of values, always a multiple of the channel count.
	n, err := s.dec.Read(dst[:whole])
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w", err)
	}
	return n, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	src := &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}
	return src, nil
}
