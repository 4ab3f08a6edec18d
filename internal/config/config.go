// SPDX-License-Identifier: EPL-2.0

// Package config loads player settings from the environment and flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap/zapcore"

	"github.com/ik5/dualplayer/audio"
)

// EncodingAuto picks each track's native encoding.
const EncodingAuto = "auto"

var (
	ErrInvalidBufferFrames = errors.New("buffer frames must be positive")
	ErrInvalidVolume       = errors.New("volume must be within [0, 1]")
)

type Config struct {
	BufferFrames int
	Encoding     string // auto, pcm16 or float
	LeftVolume   float64
	RightVolume  float64
	LogLevel     string
	RenderPath   string
}

// Load reads DUALPLAYER_* variables, falling back to defaults.
// Malformed numbers keep their default; Validate reports out of range values.
func Load() *Config {
	return &Config{
		BufferFrames: getEnvInt("DUALPLAYER_BUFFER_FRAMES", 4096),
		Encoding:     getEnv("DUALPLAYER_ENCODING", EncodingAuto),
		LeftVolume:   getEnvFloat("DUALPLAYER_LEFT_VOLUME", 1),
		RightVolume:  getEnvFloat("DUALPLAYER_RIGHT_VOLUME", 1),
		LogLevel:     getEnv("DUALPLAYER_LOG_LEVEL", "info"),
	}
}

// BindFlags registers flags on fs that override the loaded values.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.BufferFrames, "buffer", c.BufferFrames, "frames decoded per read")
	fs.StringVar(&c.Encoding, "encoding", c.Encoding, "PCM encoding fed to the channel mixer: auto, pcm16 or float")
	fs.Float64Var(&c.LeftVolume, "left-volume", c.LeftVolume, "volume of the left track (0..1)")
	fs.Float64Var(&c.RightVolume, "right-volume", c.RightVolume, "volume of the right track (0..1)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.StringVar(&c.RenderPath, "render", c.RenderPath, "render both tracks to this WAV file instead of playing")
}

func (c *Config) Validate() error {
	if c.BufferFrames <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBufferFrames, c.BufferFrames)
	}
	if _, err := c.ParseEncoding(); err != nil {
		return err
	}
	for _, v := range []float64{c.LeftVolume, c.RightVolume} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %g", ErrInvalidVolume, v)
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// ParseEncoding returns EncodingInvalid for auto.
func (c *Config) ParseEncoding() (audio.Encoding, error) {
	if c.Encoding == EncodingAuto || c.Encoding == "" {
		return audio.EncodingInvalid, nil
	}
	return audio.ParseEncoding(c.Encoding)
}

func (c *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return f
}
