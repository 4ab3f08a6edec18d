// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/dualplayer/audio"
	"github.com/ik5/dualplayer/utils"
)

// mp3Reader is the subset of gomp3.Decoder the source uses.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// mp3Seeker is the seeking half of gomp3.Decoder. Offsets are in bytes of
// decoded PCM; Length is -1 when the input cannot seek.
type mp3Seeker interface {
	Seek(offset int64, whence int) (int64, error)
	Length() int64
}

// go-mp3 decodes 16-bit stereo: 4 bytes a frame.
const frameBytes = 4

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
	odd        []byte // trailing byte of a sample split across reads
	closer     io.Closer
}

// go-mp3 always decodes to interleaved stereo.
const channels = 2

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

// NativeEncoding is pcm16: go-mp3 emits 16-bit samples.
func (s *source) NativeEncoding() audio.Encoding { return audio.EncodingPCM16 }

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
	sk, ok := s.dec.(mp3Seeker)
	if !ok || sk.Length() < 0 {
		return -1
	}
	return sk.Length() / frameBytes
}

func (s *source) SeekFrame(frame int64) error {
	sk, ok := s.dec.(mp3Seeker)
	if !ok || sk.Length() < 0 {
		return audio.ErrNotSeekable
	}

	off := min(frame*frameBytes, sk.Length()/frameBytes*frameBytes)
	if _, err := sk.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}
	s.odd = s.odd[:0]
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	held := copy(s.buf, s.odd)
	s.odd = s.odd[:0]

	n, err := s.dec.Read(s.buf[held:])
	n += held
	if n < 2 {
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("%w", err)
		}
		if err == io.EOF {
			return 0, io.EOF
		}
		s.odd = append(s.odd, s.buf[:n]...)
		return 0, nil
	}

	samples := n / 2
	for i := range samples {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.buf[2*i:])))
	}
	if n%2 == 1 {
		s.odd = append(s.odd, s.buf[n-1])
	}

	if err != nil && err != io.EOF {
		return samples, fmt.Errorf("%w", err)
	}
	return samples, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	src := &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}
	return src, nil
}
