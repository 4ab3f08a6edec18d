// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
)

// mockSource generates frames from a waveform function. When chunk is set,
// each ReadSamples call returns at most chunk samples, which may split a
// frame across calls the way byte-oriented decoders do.
type mockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // per channel
	emitted      int // samples emitted across all channels
	chunk        int
	failAfter    int // fail with errMockRead once emitted reaches this (0 = never)
	closed       bool
	waveform     func(sample int, channel int) float32
}

var errMockRead = errors.New("mock read failure")

func newMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) float32) *mockSource {
	return &mockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

func newSilentSource(sampleRate, channels, totalSamples int) *mockSource {
	return newMockSource(sampleRate, channels, totalSamples, func(int, int) float32 { return 0 })
}

// newSideSource emits left on channel 0 and right on channel 1.
func newSideSource(sampleRate, totalSamples int, left, right float32) *mockSource {
	return newMockSource(sampleRate, 2, totalSamples, func(_ int, channel int) float32 {
		if channel == 0 {
			return left
		}
		return right
	})
}

func (m *mockSource) SampleRate() int { return m.sampleRate }
func (m *mockSource) Channels() int   { return m.channels }
func (m *mockSource) BufSize() int    { return 4096 }
func (m *mockSource) Close() error {
	m.closed = true
	return nil
}

func (m *mockSource) ReadSamples(dst []float32) (int, error) {
	limit := m.totalSamples * m.channels
	if m.failAfter > 0 && m.emitted >= m.failAfter {
		return 0, errMockRead
	}
	if m.emitted >= limit {
		return 0, io.EOF
	}

	n := min(len(dst), limit-m.emitted)
	if m.chunk > 0 {
		n = min(n, m.chunk)
	}

	for i := range n {
		idx := m.emitted + i
		dst[i] = m.waveform(idx/m.channels, idx%m.channels)
	}
	m.emitted += n

	if m.emitted >= limit {
		return n, io.EOF
	}
	return n, nil
}
