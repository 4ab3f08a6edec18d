// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/dualplayer/audio"
)

// frameParser is the subset of flac.Stream the source uses.
type frameParser interface {
	ParseNext() (*frame.Frame, error)
}

// frameSeeker is implemented by streams opened with flac.NewSeek. Seek
// lands on the start of the frame holding sampleNum and returns that
// frame's first sample number.
type frameSeeker interface {
	Seek(sampleNum uint64) (uint64, error)
}

type source struct {
	stream     frameParser
	sampleRate int
	channels   int
	bitDepth   int
	scale      float32

	cur *frame.Frame // frame being drained
	pos int          // next sample index within cur
	eof bool

	length int64 // frames, -1 when unknown
	skip   int64 // frames to drop from the next parsed frame

	closer io.Closer
}

func newSource(stream frameParser, sampleRate, channels, bitDepth int) *source {
	return &source{
		stream:     stream,
		sampleRate: sampleRate,
		channels:   channels,
		bitDepth:   bitDepth,
		scale:      float32(int64(1) << (bitDepth - 1)),
		length:     -1,
	}
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 }

func (s *source) NativeEncoding() audio.Encoding {
	if s.bitDepth > 16 {
		return audio.EncodingPCMFloat
	}
	return audio.EncodingPCM16
}

func (s *source) Close() error {
	if s.closer == nil {
		return nil
	}
	if err := s.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// next loads the following frame once the current one is drained.
func (s *source) next() error {
	f, err := s.stream.ParseNext()
	if err == io.EOF {
		s.eof = true
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	if len(f.Subframes) != s.channels {
		return fmt.Errorf("%w: %d subframes, %d channels", ErrChannelMismatch, len(f.Subframes), s.channels)
	}

	s.cur = f
	s.pos = 0
	if s.skip > 0 {
		adv := min(s.skip, int64(f.BlockSize))
		s.pos = int(adv)
		s.skip -= adv
	}
	return nil
}

func (s *source) Length() int64 { return s.length }

func (s *source) SeekFrame(frame int64) error {
	sk, ok := s.stream.(frameSeeker)
	if !ok || s.length < 0 {
		return audio.ErrNotSeekable
	}

	s.cur = nil
	s.pos = 0
	s.skip = 0
	if frame >= s.length {
		s.eof = true
		return nil
	}

	start, err := sk.Seek(uint64(frame))
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	s.eof = false
	s.skip = frame - int64(start)
	return nil
}

// ReadSamples interleaves the per-channel subframes into dst. Only whole
// frames are written.
func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst) < s.channels {
		return 0, fmt.Errorf("%w: %d samples for %d channels", audio.ErrInvalidDstSize, len(dst), s.channels)
	}

	n := 0
	for n+s.channels <= len(dst) {
		if s.cur == nil || s.pos >= int(s.cur.BlockSize) {
			if s.eof {
				break
			}
			if err := s.next(); err == io.EOF {
				break
			} else if err != nil {
				return n, err
			}
			continue
		}

		for ch := range s.channels {
			dst[n+ch] = float32(s.cur.Subframes[ch].Samples[s.pos]) / s.scale
		}
		s.pos++
		n += s.channels
	}

	if s.eof && (s.cur == nil || s.pos >= int(s.cur.BlockSize)) {
		return n, io.EOF
	}
	return n, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	var (
		stream *flac.Stream
		err    error
	)
	rs, seekable := r.(io.ReadSeeker)
	if seekable {
		stream, err = flac.NewSeek(rs)
	} else {
		stream, err = flac.New(r)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding flac header: %w", err)
	}

	info := stream.Info
	bitDepth := int(info.BitsPerSample)
	if bitDepth < 4 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	src := newSource(stream, int(info.SampleRate), int(info.NChannels), bitDepth)
	// NSamples is 0 when the encoder did not record it.
	if seekable && info.NSamples > 0 {
		src.length = int64(info.NSamples)
	}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}
	return src, nil
}
