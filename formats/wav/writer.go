// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

// Writer streams interleaved 16-bit PCM into a WAV container. The header
// sizes are patched by Close, so the destination must be seekable.
type Writer struct {
	enc      *gowav.Encoder
	channels int
	buf      *goaudio.IntBuffer
	frames   int
}

func NewWriter(w io.WriteSeeker, sampleRate, channels int) (*Writer, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannelCount, channels)
	}

	return &Writer{
		enc:      gowav.NewEncoder(w, sampleRate, 16, channels, formatPCM),
		channels: channels,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
	}, nil
}

// Write appends whole frames of interleaved samples.
func (w *Writer) Write(samples []int16) error {
	if len(samples)%w.channels != 0 {
		return fmt.Errorf("%w: %d samples, %d channels", ErrPartialFrame, len(samples), w.channels)
	}
	if len(samples) == 0 {
		return nil
	}

	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, s := range samples {
		w.buf.Data[i] = int(s)
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("%w", err)
	}
	w.frames += len(samples) / w.channels
	return nil
}

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int { return w.frames }

// Close finalizes the header. It does not close the destination.
func (w *Writer) Close() error {
	if w.frames == 0 {
		// The encoder only emits its header on the first write.
		w.buf.Data = w.buf.Data[:0]
		if err := w.enc.Write(w.buf); err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// WriteWAV16 writes interleaved 16-bit PCM samples as a complete WAV file.
func WriteWAV16(w io.WriteSeeker, sampleRate, channels int, samples []int16) error {
	ww, err := NewWriter(w, sampleRate, channels)
	if err != nil {
		return err
	}

	const chunkSize = 8192
	for i := 0; i < len(samples); i += chunkSize {
		end := min(i+chunkSize, len(samples))
		if err := ww.Write(samples[i:end]); err != nil {
			return err
		}
	}

	return ww.Close()
}
