// SPDX-License-Identifier: EPL-2.0

// Package output plays PCM streams on the system audio device through
// github.com/ebitengine/oto/v3.
package output

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"

	"github.com/ik5/dualplayer/audio"
)

var (
	ErrAlreadyOpen = errors.New("audio device already open")
	ErrSinkClosed  = errors.New("audio sink closed")
)

// Voice is one stream mixed by the device. *oto.Player implements it.
type Voice interface {
	Play()
	Pause()
	IsPlaying() bool
	Volume() float64
	SetVolume(volume float64)
	// Seek drops buffered audio and seeks the voice's reader, which must be
	// an io.Seeker.
	Seek(offset int64, whence int) (int64, error)
	Close() error
}

// Sink creates voices that share one device format.
type Sink interface {
	Format() audio.Format
	NewVoice(r io.Reader, enc audio.Encoding) (Voice, error)
	Close() error
}

// oto allows a single context per process.
var (
	openMtx sync.Mutex
	opened  bool
)

// OtoSink mixes every voice into one stereo device stream.
type OtoSink struct {
	ctx    *oto.Context
	format audio.Format
	logger *zap.Logger

	mtx    sync.Mutex
	closed bool
}

var _ Sink = (*OtoSink)(nil)

func otoFormat(enc audio.Encoding) (oto.Format, error) {
	switch enc {
	case audio.EncodingPCM16:
		return oto.FormatSignedInt16LE, nil
	case audio.EncodingPCMFloat:
		return oto.FormatFloat32LE, nil
	default:
		return 0, &audio.UnsupportedFormatError{Format: audio.Format{Channels: 2, Encoding: enc}}
	}
}

// Open starts the device at sampleRate in stereo, using enc on the wire.
// It blocks until the device is ready.
func Open(sampleRate int, enc audio.Encoding, logger *zap.Logger) (*OtoSink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	format, err := otoFormat(enc)
	if err != nil {
		return nil, err
	}

	openMtx.Lock()
	defer openMtx.Unlock()
	if opened {
		return nil, ErrAlreadyOpen
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready
	opened = true

	s := &OtoSink{
		ctx:    ctx,
		format: audio.Format{SampleRate: sampleRate, Channels: 2, Encoding: enc},
		logger: logger,
	}
	logger.Info("audio output initialized",
		zap.Int("sampleRate", sampleRate),
		zap.String("encoding", enc.String()))
	return s, nil
}

func (s *OtoSink) Format() audio.Format { return s.format }

// NewVoice wraps r, a stereo stream in enc, converting it to the device
// encoding when they differ. The voice starts paused.
func (s *OtoSink) NewVoice(r io.Reader, enc audio.Encoding) (Voice, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return nil, ErrSinkClosed
	}

	conv, err := NewConverter(r, enc, s.format.Encoding)
	if err != nil {
		return nil, err
	}

	if enc != s.format.Encoding {
		s.logger.Debug("converting voice",
			zap.String("from", enc.String()),
			zap.String("to", s.format.Encoding.String()))
	}
	return s.ctx.NewPlayer(conv), nil
}

// Close suspends the device. Existing voices must be closed by their owners.
func (s *OtoSink) Close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.ctx.Suspend(); err != nil {
		return fmt.Errorf("suspend oto context: %w", err)
	}
	s.logger.Info("audio output closed")
	return nil
}
