// SPDX-License-Identifier: EPL-2.0

package dualplayer

import (
	"fmt"
	"io"

	"github.com/ik5/dualplayer/audio"
	"github.com/ik5/dualplayer/utils"
)

// IsolateToStereo16 runs src through a ChannelMixer that keeps only the keep
// side and collects the result as interleaved stereo 16-bit PCM.
//
// bufferSize is the number of float32 samples read per step; it is rounded
// down to an even number. The returned int is the sample rate of src.
//
// Example:
//
//	src, _ := wav.Decoder{}.Decode(file)
//	pcm16, rate, err := dualplayer.IsolateToStereo16(src, audio.Left, 4096)
//	if err != nil {
//	    return err
//	}
//	// pcm16 holds (l, 0) frames at rate Hz
func IsolateToStereo16(src audio.Source, keep audio.Channel, bufferSize int) ([]int16, int, error) {
	rate := src.SampleRate()

	isolated, err := audio.NewIsolatedSource(src, keep)
	if err != nil {
		return nil, rate, fmt.Errorf("isolate %s: %w", keep, err)
	}

	bufferSize -= bufferSize % 2
	if bufferSize <= 0 {
		bufferSize = 4096
	}

	pcm16 := make([]int16, 0, rate*2)
	buf := make([]float32, bufferSize)

	for {
		n, err := isolated.ReadSamples(buf)
		if n > 0 {
			if cap(pcm16)-len(pcm16) < n {
				grown := make([]int16, len(pcm16), len(pcm16)+max(n, cap(pcm16)))
				copy(grown, pcm16)
				pcm16 = grown
			}

			start := len(pcm16)
			pcm16 = pcm16[:start+n]
			for i, x := range buf[:n] {
				pcm16[start+i] = utils.Float32ToInt16(x)
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rate, fmt.Errorf("%w", err)
		}
	}

	return pcm16, rate, nil
}
