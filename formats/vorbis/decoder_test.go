// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/dualplayer/audio"
)

// mockOggVorbisReader simulates oggvorbis.Reader, returning whole frames.
type mockOggVorbisReader struct {
	sampleRate int
	channels   int
	samples    []float32
	offset     int
	err        error
}

func (m *mockOggVorbisReader) SampleRate() int { return m.sampleRate }
func (m *mockOggVorbisReader) Channels() int   { return m.channels }

func (m *mockOggVorbisReader) Read(buf []float32) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	frames := min(len(buf), len(m.samples)-m.offset) / m.channels
	n := copy(buf, m.samples[m.offset:m.offset+frames*m.channels])
	m.offset += n
	return n, nil
}

func newTestSource(channels int, samples []float32) (*source, *mockOggVorbisReader) {
	r := &mockOggVorbisReader{sampleRate: 44100, channels: channels, samples: samples}
	return &source{dec: r, sampleRate: r.sampleRate, channels: channels}, r
}

func drain(t *testing.T, src *source, bufLen int) []float32 {
	t.Helper()

	var all []float32
	dst := make([]float32, bufLen)
	for range 10000 {
		n, err := src.ReadSamples(dst)
		all = append(all, dst[:n]...)
		if err == io.EOF {
			return all
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
	t.Fatal("source never reached io.EOF")
	return nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"garbage": []byte("This is not Ogg Vorbis data"),
		"empty":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
				t.Error("Decode() error = nil, want error")
			}
		})
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src, _ := newTestSource(2, nil)

	if src.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", src.SampleRate())
	}
	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}
	if enc := audio.NativeEncoding(src); enc != audio.EncodingPCMFloat {
		t.Errorf("NativeEncoding() = %v, want float", enc)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		bufLen   int
		samples  []float32
	}{
		{"mono", 1, 3, []float32{0.1, 0.2, 0.3, 0.4, 0.5}},
		{"stereo", 2, 4, []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}},
		{"stereo odd dst", 2, 5, []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}},
		{"surround", 6, 12, make([]float32, 6*7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, _ := newTestSource(tt.channels, tt.samples)
			got := drain(t, src, tt.bufLen)

			if len(got) != len(tt.samples) {
				t.Fatalf("read %d samples, want %d", len(got), len(tt.samples))
			}
			for i := range got {
				if got[i] != tt.samples[i] {
					t.Errorf("sample %d = %v, want %v", i, got[i], tt.samples[i])
				}
			}
		})
	}
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	src, _ := newTestSource(2, make([]float32, 10))

	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v; want 0, nil", n, err)
	}
}

func TestSource_ReadSamples_ShorterThanFrame(t *testing.T) {
	t.Parallel()

	src, _ := newTestSource(6, make([]float32, 12))

	_, err := src.ReadSamples(make([]float32, 4))
	if !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples() error = %v, want ErrInvalidDstSize", err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src, r := newTestSource(2, make([]float32, 10))
	r.err = io.ErrUnexpectedEOF

	_, err := src.ReadSamples(make([]float32, 4))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	src, r := newTestSource(2, make([]float32, 44100*2))
	dst := make([]float32, 4096)

	b.ReportAllocs()

	for b.Loop() {
		r.offset = 0
		_, _ = src.ReadSamples(dst)
	}
}

// seekableOggReader adds oggvorbis.Reader's SetPosition and Length.
type seekableOggReader struct {
	*mockOggVorbisReader
}

func (m seekableOggReader) Length() int64 { return int64(len(m.samples) / m.channels) }

func (m seekableOggReader) SetPosition(pos int64) error {
	if pos < 0 || pos > m.Length() {
		return errors.New("bad position")
	}
	m.offset = int(pos) * m.channels
	return nil
}

func TestSource_SeekFrame(t *testing.T) {
	t.Parallel()

	samples := make([]float32, 2*10)
	for i := range samples {
		samples[i] = float32(i) / 100
	}
	r := &mockOggVorbisReader{sampleRate: 44100, channels: 2, samples: samples}
	src := &source{dec: seekableOggReader{r}, sampleRate: 44100, channels: 2}

	if got := src.Length(); got != 10 {
		t.Errorf("Length() = %d, want 10", got)
	}

	tests := []struct {
		frame   int64
		wantLen int
	}{
		{7, 6},
		{2, 16},
		{10, 0},
		{50, 0},
	}

	for _, tt := range tests {
		if err := src.SeekFrame(tt.frame); err != nil {
			t.Fatalf("SeekFrame(%d) error = %v", tt.frame, err)
		}
		got := drain(t, src, 8)
		if len(got) != tt.wantLen {
			t.Fatalf("after SeekFrame(%d) read %d samples, want %d", tt.frame, len(got), tt.wantLen)
		}
		if tt.wantLen > 0 && got[0] != samples[2*tt.frame] {
			t.Errorf("after SeekFrame(%d) first sample = %v, want %v", tt.frame, got[0], samples[2*tt.frame])
		}
	}
}

func TestSource_SeekUnsupported(t *testing.T) {
	t.Parallel()

	src, _ := newTestSource(2, []float32{0, 0})
	if err := src.SeekFrame(0); !errors.Is(err, audio.ErrNotSeekable) {
		t.Errorf("SeekFrame() error = %v, want ErrNotSeekable", err)
	}
}
