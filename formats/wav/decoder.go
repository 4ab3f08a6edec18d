// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/dualplayer/audio"
	"github.com/ik5/dualplayer/internal/intpcm"
)

const formatPCM = 1

type Decoder struct{}

// Decode parses the WAV headers and returns a streaming source positioned at
// the first sample. Readers that cannot seek are buffered in memory first.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	if dec.WavAudioFormat != formatPCM || (dec.BitDepth != 16 && dec.BitDepth != 24) {
		return nil, fmt.Errorf("%w: format %d, %d bits", ErrUnsupportedWavEncoding, dec.WavAudioFormat, dec.BitDepth)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("seeking to wav data: %w", err)
	}

	format := dec.Format()
	if format == nil || format.NumChannels < 1 {
		return nil, ErrNotWavFile
	}

	dataStart, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locating wav data: %w", err)
	}

	frameBytes := int64(format.NumChannels) * int64(dec.BitDepth/8)
	pcmSize := int64(dec.PCMSize)

	src := intpcm.New(dec, format, int(dec.BitDepth)).
		WithLength(pcmSize / frameBytes).
		WithSeek(func(frame int64) error {
			off := frame * frameBytes
			if _, err := rs.Seek(dataStart+off, io.SeekStart); err != nil {
				return err
			}
			// The data chunk reader counts down from the chunk size, so it
			// is rebuilt for the bytes left after the new position.
			dec.PCMChunk.R = io.LimitReader(rs, pcmSize-off)
			return nil
		})
	if c, ok := r.(io.Closer); ok {
		src = src.WithCloser(c)
	}
	return src, nil
}
