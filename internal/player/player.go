// SPDX-License-Identifier: EPL-2.0

// Package player plays two tracks at once, one isolated to each side of the
// stereo output.
package player

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ik5/dualplayer/audio"
	"github.com/ik5/dualplayer/internal/output"
	"github.com/ik5/dualplayer/internal/track"
)

// deck is the playback chain of one side.
type deck struct {
	path     string
	renderer *track.Renderer
	voice    output.Voice
}

type Player struct {
	mtx sync.Mutex

	sink     output.Sink
	registry *audio.Registry
	opts     track.Options
	logger   *zap.Logger

	decks   [2]*deck
	volumes [2]float64
	closed  bool
}

type Option func(*Player)

// WithEncoding forces the encoding fed to the channel mixers.
func WithEncoding(enc audio.Encoding) Option {
	return func(p *Player) { p.opts.Encoding = enc }
}

func WithBufferFrames(frames int) Option {
	return func(p *Player) { p.opts.BufferFrames = frames }
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Player) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func New(sink output.Sink, registry *audio.Registry, opts ...Option) *Player {
	p := &Player{
		sink:     sink,
		registry: registry,
		logger:   zap.NewNop(),
		volumes:  [2]float64{1, 1},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func index(side audio.Channel) int {
	if side == audio.Right {
		return 1
	}
	return 0
}

// Load decodes path and queues it, paused, on side. A track already on
// that side is stopped first.
func (p *Player) Load(side audio.Channel, path string) error {
	dec, ok := p.registry.ForPath(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open track: %w", err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", path, err)
	}

	if rate := p.sink.Format().SampleRate; src.SampleRate() != rate {
		src.Close()
		return fmt.Errorf("%w: %s is %d Hz, output is %d Hz", ErrSampleRateMismatch, path, src.SampleRate(), rate)
	}

	r, err := track.New(src, audio.NewChannelMixer(side), p.opts)
	if err != nil {
		src.Close()
		return fmt.Errorf("load %s: %w", path, err)
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.closed {
		r.Close()
		return ErrClosed
	}

	voice, err := p.sink.NewVoice(r, r.Format().Encoding)
	if err != nil {
		r.Close()
		return fmt.Errorf("create voice: %w", err)
	}

	i := index(side)
	voice.SetVolume(p.volumes[i])
	p.unload(i)
	p.decks[i] = &deck{path: path, renderer: r, voice: voice}

	length, _ := r.Duration()
	p.logger.Info("track loaded",
		zap.String("side", side.String()),
		zap.String("path", path),
		zap.String("format", r.InputFormat().String()),
		zap.Duration("length", length))
	return nil
}

// unload stops and releases a deck. Callers hold mtx.
func (p *Player) unload(i int) {
	d := p.decks[i]
	if d == nil {
		return
	}
	p.decks[i] = nil

	d.voice.Pause()
	if err := d.voice.Close(); err != nil {
		p.logger.Warn("close voice", zap.String("path", d.path), zap.Error(err))
	}
	if err := d.renderer.Close(); err != nil {
		p.logger.Warn("close track", zap.String("path", d.path), zap.Error(err))
	}
}

func (p *Player) deck(side audio.Channel) (*deck, error) {
	if p.closed {
		return nil, ErrClosed
	}
	d := p.decks[index(side)]
	if d == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, side)
	}
	return d, nil
}

func (p *Player) PlaySide(side audio.Channel) error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	d, err := p.deck(side)
	if err != nil {
		return err
	}
	d.voice.Play()
	p.logger.Debug("play", zap.String("side", side.String()))
	return nil
}

func (p *Player) PauseSide(side audio.Channel) error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	d, err := p.deck(side)
	if err != nil {
		return err
	}
	d.voice.Pause()
	p.logger.Debug("pause", zap.String("side", side.String()))
	return nil
}

// ToggleSide pauses side if it is playing and plays it otherwise.
func (p *Player) ToggleSide(side audio.Channel) error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	d, err := p.deck(side)
	if err != nil {
		return err
	}
	if d.voice.IsPlaying() {
		d.voice.Pause()
	} else {
		d.voice.Play()
	}
	return nil
}

// Play starts every loaded side.
func (p *Player) Play() error {
	return p.each(func(d *deck) { d.voice.Play() })
}

func (p *Player) Pause() error {
	return p.each(func(d *deck) { d.voice.Pause() })
}

// Toggle pauses both sides if either is playing, otherwise plays both.
func (p *Player) Toggle() error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.playing() {
		return p.eachLocked(func(d *deck) { d.voice.Pause() })
	}
	return p.eachLocked(func(d *deck) { d.voice.Play() })
}

func (p *Player) each(fn func(*deck)) error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return p.eachLocked(fn)
}

// eachLocked runs fn on every loaded deck. Callers hold mtx.
func (p *Player) eachLocked(fn func(*deck)) error {
	if p.closed {
		return ErrClosed
	}
	loaded := 0
	for _, d := range p.decks {
		if d != nil {
			fn(d)
			loaded++
		}
	}
	if loaded == 0 {
		return ErrNotLoaded
	}
	return nil
}

// Playing reports whether either side is playing.
func (p *Player) Playing() bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return p.playing()
}

func (p *Player) playing() bool {
	for _, d := range p.decks {
		if d != nil && d.voice.IsPlaying() {
			return true
		}
	}
	return false
}

func (p *Player) SidePlaying(side audio.Channel) bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	d := p.decks[index(side)]
	return d != nil && d.voice.IsPlaying()
}

// Finished reports whether every loaded track has been fully rendered.
func (p *Player) Finished() bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	for _, d := range p.decks {
		if d != nil && !d.renderer.Ended() {
			return false
		}
	}
	return true
}

// SetVolume sets the sink volume of side. The value is kept for tracks
// loaded later.
func (p *Player) SetVolume(side audio.Channel, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidVolume, v)
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.closed {
		return ErrClosed
	}
	i := index(side)
	p.volumes[i] = v
	if d := p.decks[i]; d != nil {
		d.voice.SetVolume(v)
	}
	p.logger.Debug("volume", zap.String("side", side.String()), zap.Float64("volume", v))
	return nil
}

func (p *Player) Volume(side audio.Channel) float64 {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return p.volumes[index(side)]
}

// Position is the time rendered on side so far.
func (p *Player) Position(side audio.Channel) time.Duration {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	d := p.decks[index(side)]
	if d == nil {
		return 0
	}
	return d.renderer.Position()
}

// Duration is the length of the track on side, or 0 when nothing is
// loaded or the length is unknown.
func (p *Player) Duration(side audio.Channel) time.Duration {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	d := p.decks[index(side)]
	if d == nil {
		return 0
	}
	length, _ := d.renderer.Duration()
	return length
}

// Seek moves side to pos. Positions past the end land at the end; a side
// that had finished can be played again after seeking back.
func (p *Player) Seek(side audio.Channel, pos time.Duration) error {
	if pos < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, pos)
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()

	d, err := p.deck(side)
	if err != nil {
		return err
	}

	// The voice carries the device encoding, which may differ from the
	// renderer's; offsets are counted in device frames.
	out := p.sink.Format()
	frame := audio.DurationToFrames(pos, out.SampleRate)
	if _, err := d.voice.Seek(frame*int64(out.FrameSize()), io.SeekStart); err != nil {
		return fmt.Errorf("seek %s: %w", side, err)
	}

	p.logger.Debug("seek", zap.String("side", side.String()), zap.Duration("position", pos))
	return nil
}

// Stop halts both sides and resets their pipelines. Tracks must be loaded
// again before playing.
func (p *Player) Stop() {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	for i := range p.decks {
		p.unload(i)
	}
	p.logger.Info("stopped")
}

// Close stops playback and closes the sink.
func (p *Player) Close() error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.closed {
		return nil
	}
	for i := range p.decks {
		p.unload(i)
	}
	p.closed = true

	if err := p.sink.Close(); err != nil {
		return fmt.Errorf("close sink: %w", err)
	}
	return nil
}
