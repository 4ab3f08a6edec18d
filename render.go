// SPDX-License-Identifier: EPL-2.0

package dualplayer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/dualplayer/audio"
	"github.com/ik5/dualplayer/formats/wav"
	"github.com/ik5/dualplayer/internal/track"
	"github.com/ik5/dualplayer/utils"
)

var ErrSampleRateMismatch = errors.New("tracks have different sample rates")

// RenderDualTrack isolates left to the left channel and right to the right
// channel, sums them and writes the result to w as a stereo 16-bit WAV.
// The shorter track is padded with silence. It returns the number of frames
// written. The sources are not closed.
func RenderDualTrack(w io.WriteSeeker, left, right audio.Source, bufferFrames int) (int, error) {
	if left.SampleRate() != right.SampleRate() {
		return 0, fmt.Errorf("%w: %d Hz and %d Hz", ErrSampleRateMismatch, left.SampleRate(), right.SampleRate())
	}
	if bufferFrames <= 0 {
		bufferFrames = track.DefaultBufferFrames
	}

	opts := track.Options{Encoding: audio.EncodingPCM16, BufferFrames: bufferFrames}
	lr, err := track.New(left, audio.NewChannelMixer(audio.Left), opts)
	if err != nil {
		return 0, fmt.Errorf("left track: %w", err)
	}
	rr, err := track.New(right, audio.NewChannelMixer(audio.Right), opts)
	if err != nil {
		return 0, fmt.Errorf("right track: %w", err)
	}

	out, err := wav.NewWriter(w, left.SampleRate(), 2)
	if err != nil {
		return 0, err
	}

	const frameSize = 4 // stereo pcm16
	lbuf := make([]byte, bufferFrames*frameSize)
	rbuf := make([]byte, bufferFrames*frameSize)
	mixed := make([]int16, 0, bufferFrames*2)
	lDone, rDone := false, false

	for !lDone || !rDone {
		ln, err := readChunk(lr, lbuf, &lDone)
		if err != nil {
			return out.Frames(), fmt.Errorf("left track: %w", err)
		}
		rn, err := readChunk(rr, rbuf, &rDone)
		if err != nil {
			return out.Frames(), fmt.Errorf("right track: %w", err)
		}

		n := max(ln, rn)
		clear(lbuf[ln:n])
		clear(rbuf[rn:n])

		mixed = mixed[:0]
		for i := 0; i < n; i += 2 {
			l := int16(binary.LittleEndian.Uint16(lbuf[i:]))
			r := int16(binary.LittleEndian.Uint16(rbuf[i:]))
			mixed = append(mixed, utils.MixInt16(l, r))
		}
		if err := out.Write(mixed); err != nil {
			return out.Frames(), err
		}
	}

	if err := out.Close(); err != nil {
		return out.Frames(), err
	}
	return out.Frames(), nil
}

// readChunk fills buf from r unless done is set, marking done at the end
// of the stream. The byte count is always a whole number of frames.
func readChunk(r io.Reader, buf []byte, done *bool) (int, error) {
	if *done {
		return 0, nil
	}

	n, err := io.ReadFull(r, buf)
	switch err {
	case nil:
		return n, nil
	case io.EOF, io.ErrUnexpectedEOF:
		*done = true
		return n, nil
	default:
		return n, err
	}
}
