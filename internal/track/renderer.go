// SPDX-License-Identifier: EPL-2.0

// Package track turns a decoded Source into a byte stream of processed PCM.
package track

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ik5/dualplayer/audio"
)

const DefaultBufferFrames = 4096

var ErrClosed = errors.New("track renderer closed")

type Options struct {
	// Encoding fed to the processor. EncodingInvalid selects the source's
	// native encoding.
	Encoding     audio.Encoding
	BufferFrames int
}

// Renderer pulls float samples from a Source, encodes them as PCM bytes,
// runs them through a Processor and serves the processor output as an
// io.Reader. It is safe for concurrent use; the sink reads from its own
// goroutine while the player may close it.
type Renderer struct {
	mtx sync.Mutex

	src  audio.Source
	proc audio.Processor
	in   audio.Format
	out  audio.Format

	samples []float32
	held    int // samples of an incomplete frame at the start of samples
	raw     []byte
	pending []byte // processor output not yet read

	written int64 // bytes handed to readers
	closed  bool
}

// New configures proc for src and returns a Renderer driving it.
func New(src audio.Source, proc audio.Processor, opts Options) (*Renderer, error) {
	enc := opts.Encoding
	if enc.BytesPerSample() == 0 {
		enc = audio.NativeEncoding(src)
	}
	frames := opts.BufferFrames
	if frames <= 0 {
		frames = DefaultBufferFrames
	}

	in := audio.Format{
		SampleRate: src.SampleRate(),
		Channels:   src.Channels(),
		Encoding:   enc,
	}
	out, err := proc.Configure(in)
	if err != nil {
		return nil, fmt.Errorf("configure %T: %w", proc, err)
	}

	return &Renderer{
		src:     src,
		proc:    proc,
		in:      in,
		out:     out,
		samples: make([]float32, frames*max(in.Channels, 1)),
	}, nil
}

// InputFormat is the format fed to the processor.
func (r *Renderer) InputFormat() audio.Format { return r.in }

// Format is the format of the bytes returned by Read.
func (r *Renderer) Format() audio.Format { return r.out }

func (r *Renderer) Read(p []byte) (int, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if len(p) == 0 {
		return 0, nil
	}

	for len(r.pending) == 0 {
		if r.closed || r.proc.IsEnded() {
			return 0, io.EOF
		}
		if err := r.fill(); err != nil {
			return 0, err
		}
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	r.written += int64(n)
	return n, nil
}

// fill pushes one buffer of source samples through the processor.
func (r *Renderer) fill() error {
	channels := r.in.Channels

	n, err := r.src.ReadSamples(r.samples[r.held:])
	total := r.held + n
	whole := total - total%channels

	if whole > 0 {
		r.raw = audio.AppendPCM(r.raw[:0], r.samples[:whole], r.in.Encoding)
		if _, qerr := r.proc.QueueInput(r.raw); qerr != nil {
			return fmt.Errorf("queue input: %w", qerr)
		}
	}
	r.held = copy(r.samples, r.samples[whole:total])

	switch {
	case err == io.EOF:
		// A trailing incomplete frame has no place in the output.
		r.held = 0
		r.proc.QueueEndOfStream()
	case err != nil:
		return fmt.Errorf("read samples: %w", err)
	}

	r.pending = r.proc.Output()
	return nil
}

// Ended reports whether every processed byte has been read.
func (r *Renderer) Ended() bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return r.closed || (len(r.pending) == 0 && r.proc.IsEnded())
}

// Position is the playback time of the bytes read so far.
func (r *Renderer) Position() time.Duration {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	frameSize := int64(r.out.FrameSize())
	if frameSize == 0 {
		return 0
	}
	return audio.FramesToDuration(r.written/frameSize, r.out.SampleRate)
}

// Duration is the length of the track. It reports false when the source
// does not know its length.
func (r *Renderer) Duration() (time.Duration, bool) {
	n := audio.Length(r.src)
	if n < 0 {
		return 0, false
	}
	return audio.FramesToDuration(n, r.out.SampleRate), true
}

// Seek moves the stream to a byte offset of the processed output, rounded
// down to a whole frame, and returns the new offset. Output buffered before
// the seek is dropped and the processor is flushed, so the next Read starts
// at the new position even after the end of the stream was reached.
// io.SeekEnd needs a source that knows its length.
func (r *Renderer) Seek(offset int64, whence int) (int64, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.closed {
		return 0, ErrClosed
	}

	frameSize := int64(r.out.FrameSize())
	length := audio.Length(r.src)

	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = r.written + offset
	case io.SeekEnd:
		if length < 0 {
			return r.written, fmt.Errorf("seek from end: %w", audio.ErrNotSeekable)
		}
		abs = length*frameSize + offset
	default:
		return r.written, fmt.Errorf("%w: whence %d", audio.ErrInvalidSeek, whence)
	}
	if abs < 0 {
		return r.written, fmt.Errorf("%w: offset %d", audio.ErrInvalidSeek, abs)
	}

	frame := abs / frameSize
	if length >= 0 {
		frame = min(frame, length)
	}
	if err := audio.SeekFrame(r.src, frame); err != nil {
		return r.written, fmt.Errorf("seek source: %w", err)
	}

	r.proc.Flush()
	r.pending = nil
	r.held = 0
	r.written = frame * frameSize
	return r.written, nil
}

// Close resets the processor and closes the source. Reads after Close
// return io.EOF.
func (r *Renderer) Close() error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.closed {
		return ErrClosed
	}
	r.closed = true
	r.pending = nil
	r.proc.Reset()

	if err := r.src.Close(); err != nil {
		return fmt.Errorf("close source: %w", err)
	}
	return nil
}
