// SPDX-License-Identifier: EPL-2.0

// Command dualplayer plays two audio files at once, the first in the left
// ear and the second in the right.
//
//	dualplayer [flags] <left-track> <right-track>
//
// While playing, type p to pause or resume both tracks, l or r to toggle
// one side, sl or sr followed by a position (90, 1m30s) to seek one side,
// i to print positions and lengths, and q to quit. With -render the tracks are mixed into a WAV
// file instead.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ik5/dualplayer"
	"github.com/ik5/dualplayer/audio"
	"github.com/ik5/dualplayer/formats/aiff"
	"github.com/ik5/dualplayer/formats/flac"
	"github.com/ik5/dualplayer/formats/mp3"
	"github.com/ik5/dualplayer/formats/vorbis"
	"github.com/ik5/dualplayer/formats/wav"
	"github.com/ik5/dualplayer/internal/config"
	"github.com/ik5/dualplayer/internal/output"
	"github.com/ik5/dualplayer/internal/player"
)

func main() {
	cfg := config.Load()
	fs := flag.NewFlagSet("dualplayer", flag.ExitOnError)
	cfg.BindFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: dualplayer [flags] <left-track> <right-track>\n")
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])

	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	leftPath, rightPath := fs.Arg(0), fs.Arg(1)
	reg := newRegistry()

	if cfg.RenderPath != "" {
		if err := render(reg, cfg, leftPath, rightPath, logger); err != nil {
			logger.Fatal("render failed", zap.Error(err))
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := play(ctx, reg, cfg, leftPath, rightPath, logger); err != nil {
		logger.Fatal("playback failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	return zc.Build()
}

func newRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("flac", flac.Decoder{})
	return reg
}

func open(reg *audio.Registry, path string) (audio.Source, error) {
	dec, ok := reg.ForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s (supported: %s)", player.ErrUnsupportedFile, path, strings.Join(reg.Formats(), ", "))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return src, nil
}

func render(reg *audio.Registry, cfg *config.Config, leftPath, rightPath string, logger *zap.Logger) error {
	left, err := open(reg, leftPath)
	if err != nil {
		return err
	}
	defer left.Close()

	right, err := open(reg, rightPath)
	if err != nil {
		return err
	}
	defer right.Close()

	out, err := os.Create(cfg.RenderPath)
	if err != nil {
		return err
	}
	defer out.Close()

	start := time.Now()
	frames, err := dualplayer.RenderDualTrack(out, left, right, cfg.BufferFrames)
	if err != nil {
		return err
	}

	logger.Info("rendered",
		zap.String("path", cfg.RenderPath),
		zap.Int("frames", frames),
		zap.Int("sampleRate", left.SampleRate()),
		zap.Duration("took", time.Since(start)))
	return nil
}

// sourceRate decodes the header of path to learn its sample rate.
func sourceRate(reg *audio.Registry, path string) (int, error) {
	src, err := open(reg, path)
	if err != nil {
		return 0, err
	}
	defer src.Close()
	return src.SampleRate(), nil
}

func play(ctx context.Context, reg *audio.Registry, cfg *config.Config, leftPath, rightPath string, logger *zap.Logger) error {
	enc, err := cfg.ParseEncoding()
	if err != nil {
		return err
	}
	deviceEnc := enc
	if deviceEnc == audio.EncodingInvalid {
		deviceEnc = audio.EncodingPCMFloat
	}

	rate, err := sourceRate(reg, leftPath)
	if err != nil {
		return err
	}

	sink, err := output.Open(rate, deviceEnc, logger)
	if err != nil {
		return err
	}

	p := player.New(sink, reg,
		player.WithEncoding(enc),
		player.WithBufferFrames(cfg.BufferFrames),
		player.WithLogger(logger))
	defer p.Close()

	if err := p.SetVolume(audio.Left, cfg.LeftVolume); err != nil {
		return err
	}
	if err := p.SetVolume(audio.Right, cfg.RightVolume); err != nil {
		return err
	}
	if err := p.Load(audio.Left, leftPath); err != nil {
		return err
	}
	if err := p.Load(audio.Right, rightPath); err != nil {
		return err
	}
	if err := p.Play(); err != nil {
		return err
	}

	commands := make(chan string)
	go readCommands(commands)

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	progress := time.Now()
	for {
		select {
		case <-ctx.Done():
			logger.Info("interrupted")
			p.Stop()
			return nil

		case cmd, ok := <-commands:
			if !ok {
				// stdin closed; keep playing until the tracks end.
				commands = nil
				continue
			}
			if cmd == "q" {
				p.Stop()
				return nil
			}
			if err := handle(p, cmd, logger); err != nil {
				logger.Warn("command failed", zap.String("command", cmd), zap.Error(err))
			}

		case <-ticker.C:
			if p.Finished() && !p.Playing() {
				logger.Info("playback finished")
				return nil
			}
			if time.Since(progress) >= 5*time.Second {
				progress = time.Now()
				logger.Debug("position",
					zap.Duration("left", p.Position(audio.Left)),
					zap.Duration("right", p.Position(audio.Right)))
			}
		}
	}
}

func handle(p *player.Player, cmd string, logger *zap.Logger) error {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return p.Toggle()
	}

	switch fields[0] {
	case "p":
		return p.Toggle()
	case "l":
		return p.ToggleSide(audio.Left)
	case "r":
		return p.ToggleSide(audio.Right)
	case "sl", "sr":
		if len(fields) != 2 {
			return fmt.Errorf("usage: %s <position>", fields[0])
		}
		pos, err := parsePosition(fields[1])
		if err != nil {
			return err
		}
		side := audio.Left
		if fields[0] == "sr" {
			side = audio.Right
		}
		return p.Seek(side, pos)
	case "i":
		for _, side := range []audio.Channel{audio.Left, audio.Right} {
			logger.Info("track",
				zap.String("side", side.String()),
				zap.Bool("playing", p.SidePlaying(side)),
				zap.Duration("position", p.Position(side)),
				zap.Duration("length", p.Duration(side)))
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// parsePosition accepts plain seconds ("90", "12.5") or a Go duration
// ("1m30s").
func parsePosition(s string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q", s)
	}
	return d, nil
}

func readCommands(out chan<- string) {
	defer close(out)

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		out <- strings.ToLower(strings.TrimSpace(sc.Text()))
	}
}
