// SPDX-License-Identifier: EPL-2.0

package output

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/dualplayer/audio"
)

// converter re-encodes a PCM byte stream between encodings. Sample
// boundaries may fall anywhere in the reads of the underlying reader.
type converter struct {
	r        io.Reader
	from, to audio.Encoding

	in      []byte
	held    int // bytes of a split sample at the start of in
	floats  []float32
	out     []byte
	pending []byte
	err     error
	pos     int64 // output bytes handed out
}

var errNotSeeker = errors.New("converted stream cannot seek")

// NewConverter returns r itself when from equals to.
func NewConverter(r io.Reader, from, to audio.Encoding) (io.Reader, error) {
	for _, enc := range []audio.Encoding{from, to} {
		if enc.BytesPerSample() == 0 {
			return nil, &audio.UnsupportedFormatError{Format: audio.Format{Channels: 2, Encoding: enc}}
		}
	}
	if from == to {
		return r, nil
	}
	return &converter{r: r, from: from, to: to}, nil
}

func (c *converter) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for len(c.pending) == 0 {
		if c.err != nil {
			return 0, c.err
		}
		c.fill(len(p))
	}

	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	c.pos += int64(n)
	return n, nil
}

// Seek translates offset from the output encoding to the input encoding
// and seeks the underlying reader, which must be an io.Seeker. Buffered
// data and a sticky read error are dropped.
func (c *converter) Seek(offset int64, whence int) (int64, error) {
	sk, ok := c.r.(io.Seeker)
	if !ok {
		return c.pos, errNotSeeker
	}

	fw, tw := int64(c.from.BytesPerSample()), int64(c.to.BytesPerSample())
	switch whence {
	case io.SeekCurrent:
		offset += c.pos
		whence = io.SeekStart
	case io.SeekStart, io.SeekEnd:
	default:
		return c.pos, fmt.Errorf("%w: whence %d", audio.ErrInvalidSeek, whence)
	}

	in, err := sk.Seek(offset/tw*fw, whence)
	if err != nil {
		return c.pos, err
	}

	c.held = 0
	c.pending = nil
	c.err = nil
	c.pos = in / fw * tw
	return c.pos, nil
}

func (c *converter) fill(want int) {
	fw := c.from.BytesPerSample()
	samples := max(want/c.to.BytesPerSample(), 1)
	need := samples * fw

	if cap(c.in) < need {
		grown := make([]byte, need)
		copy(grown, c.in[:c.held])
		c.in = grown
	}
	c.in = c.in[:need]

	n, err := c.r.Read(c.in[c.held:])
	total := c.held + n
	whole := total - total%fw

	if len(c.floats) < whole/fw {
		c.floats = make([]float32, whole/fw)
	}
	k := audio.DecodePCM(c.floats, c.in[:whole], c.from)
	c.out = audio.AppendPCM(c.out[:0], c.floats[:k], c.to)
	c.pending = c.out
	c.held = copy(c.in, c.in[whole:total])

	if err != nil {
		c.err = err
	}
}
