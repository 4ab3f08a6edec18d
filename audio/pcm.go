// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"math"

	"github.com/ik5/dualplayer/utils"
)

// AppendPCM encodes normalized float32 samples in enc and appends them to dst.
func AppendPCM(dst []byte, src []float32, enc Encoding) []byte {
	width := enc.BytesPerSample()
	if width == 0 || len(src) == 0 {
		return dst
	}

	start := len(dst)
	need := start + len(src)*width
	if cap(dst) < need {
		grown := make([]byte, start, need)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:need]
	out := dst[start:]

	le := binary.LittleEndian
	switch enc {
	case EncodingPCM16:
		for i, s := range src {
			le.PutUint16(out[i*2:], uint16(utils.Float32ToInt16(s)))
		}
	case EncodingPCMFloat:
		for i, s := range src {
			le.PutUint32(out[i*4:], math.Float32bits(s))
		}
	}

	return dst
}

// DecodePCM converts whole samples of src, encoded as enc, into dst and
// returns the number of samples written. It stops at whichever of src or
// dst runs out first.
func DecodePCM(dst []float32, src []byte, enc Encoding) int {
	width := enc.BytesPerSample()
	if width == 0 {
		return 0
	}

	n := min(len(src)/width, len(dst))
	le := binary.LittleEndian
	switch enc {
	case EncodingPCM16:
		for i := range n {
			dst[i] = utils.Int16ToFloat32(int16(le.Uint16(src[i*2:])))
		}
	case EncodingPCMFloat:
		for i := range n {
			dst[i] = math.Float32frombits(le.Uint32(src[i*4:]))
		}
	}

	return n
}
