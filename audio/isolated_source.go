// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// IsolatedSource exposes a Source through a ChannelMixer. It is always
// stereo, with one side silent.
type IsolatedSource struct {
	src   Source
	mixer *ChannelMixer
	tmp   []float32
	held  int // samples of an incomplete frame kept at the start of tmp
	pcm   []byte
}

// NewIsolatedSource configures a mixer for src. Sources with more than two
// channels are rejected with an *UnsupportedFormatError.
func NewIsolatedSource(src Source, keep Channel) (*IsolatedSource, error) {
	mixer := NewChannelMixer(keep)
	_, err := mixer.Configure(Format{
		SampleRate: src.SampleRate(),
		Channels:   src.Channels(),
		Encoding:   EncodingPCMFloat,
	})
	if err != nil {
		return nil, err
	}

	return &IsolatedSource{
		src:   src,
		mixer: mixer,
		tmp:   make([]float32, 4096),
	}, nil
}

func (s *IsolatedSource) SampleRate() int { return s.src.SampleRate() }
func (s *IsolatedSource) Channels() int   { return 2 }
func (s *IsolatedSource) BufSize() int    { return s.src.BufSize() }
func (s *IsolatedSource) Close() error {
	err := s.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (s *IsolatedSource) ReadSamples(dst []float32) (int, error) {
	if len(dst)%2 != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}
	if s.mixer.IsEnded() {
		return 0, io.EOF
	}

	channels := s.src.Channels()
	samplesNeeded := (len(dst) / 2) * channels

	// Grow tmp buffer if needed (but don't shrink to avoid thrashing)
	if cap(s.tmp) < samplesNeeded {
		grown := make([]float32, samplesNeeded)
		copy(grown, s.tmp[:s.held])
		s.tmp = grown
	} else if len(s.tmp) < samplesNeeded {
		s.tmp = s.tmp[:samplesNeeded]
	}

	n, err := s.src.ReadSamples(s.tmp[s.held:samplesNeeded])
	total := s.held + n
	whole := total - total%channels

	if whole > 0 {
		s.pcm = AppendPCM(s.pcm[:0], s.tmp[:whole], EncodingPCMFloat)
		if _, qerr := s.mixer.QueueInput(s.pcm); qerr != nil {
			return 0, qerr
		}
	}
	s.held = copy(s.tmp, s.tmp[whole:total])

	if err == io.EOF {
		// A trailing incomplete frame cannot be placed on either side.
		s.held = 0
		s.mixer.QueueEndOfStream()
	}

	written := DecodePCM(dst, s.mixer.Output(), EncodingPCMFloat)

	if err != nil && err != io.EOF {
		return written, fmt.Errorf("%w", err)
	}

	return written, err
}
