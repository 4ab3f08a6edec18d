// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"testing"
)

func TestAppendPCM_PCM16(t *testing.T) {
	t.Parallel()

	got := AppendPCM(nil, []float32{0, 1, -1, 0.5}, EncodingPCM16)
	want := pcm16Bytes(0, 32767, -32768, 16384)

	if string(got) != string(want) {
		t.Errorf("AppendPCM() = % x, want % x", got, want)
	}
}

func TestAppendPCM_AppendsAfterPrefix(t *testing.T) {
	t.Parallel()

	prefix := []byte{0xde, 0xad}
	got := AppendPCM(prefix, []float32{0.25}, EncodingPCMFloat)

	if len(got) != 6 || got[0] != 0xde || got[1] != 0xad {
		t.Fatalf("AppendPCM() = % x, want prefix kept", got)
	}
	if f := readFloats(got[2:]); f[0] != 0.25 {
		t.Errorf("encoded sample = %v, want 0.25", f[0])
	}
}

func TestAppendPCM_InvalidEncoding(t *testing.T) {
	t.Parallel()

	if got := AppendPCM(nil, []float32{0.1}, EncodingInvalid); len(got) != 0 {
		t.Errorf("AppendPCM() with invalid encoding = % x, want empty", got)
	}
}

func TestDecodePCM_RoundTripFloat(t *testing.T) {
	t.Parallel()

	src := []float32{0, 0.125, -0.75, 1, -1}
	enc := AppendPCM(nil, src, EncodingPCMFloat)

	dst := make([]float32, len(src))
	n := DecodePCM(dst, enc, EncodingPCMFloat)
	if n != len(src) {
		t.Fatalf("DecodePCM() = %d, want %d", n, len(src))
	}
	for i := range src {
		if dst[i] != src[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], src[i])
		}
	}
}

func TestDecodePCM_PCM16(t *testing.T) {
	t.Parallel()

	dst := make([]float32, 3)
	n := DecodePCM(dst, pcm16Bytes(0, 16384, -32768), EncodingPCM16)
	if n != 3 {
		t.Fatalf("DecodePCM() = %d, want 3", n)
	}

	want := []float32{0, 0.5, -1}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestDecodePCM_Bounds(t *testing.T) {
	t.Parallel()

	// Short dst and a trailing odd byte both limit the count.
	dst := make([]float32, 2)
	if n := DecodePCM(dst, pcm16Bytes(1, 2, 3), EncodingPCM16); n != 2 {
		t.Errorf("DecodePCM() with short dst = %d, want 2", n)
	}

	dst = make([]float32, 8)
	if n := DecodePCM(dst, append(pcm16Bytes(1, 2), 0x7f), EncodingPCM16); n != 2 {
		t.Errorf("DecodePCM() with trailing byte = %d, want 2", n)
	}
}

func TestEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		want  Encoding
		bytes int
	}{
		{"pcm16", EncodingPCM16, 2},
		{"s16", EncodingPCM16, 2},
		{"float", EncodingPCMFloat, 4},
		{"f32", EncodingPCMFloat, 4},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseEncoding(tt.in)
			if err != nil {
				t.Fatalf("ParseEncoding(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseEncoding(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got.BytesPerSample() != tt.bytes {
				t.Errorf("BytesPerSample() = %d, want %d", got.BytesPerSample(), tt.bytes)
			}
		})
	}

	if _, err := ParseEncoding("pcm24"); !errors.Is(err, ErrUnknownEncoding) {
		t.Errorf("ParseEncoding(pcm24) error = %v, want ErrUnknownEncoding", err)
	}
}

func TestFormat_FrameSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		f    Format
		want int
	}{
		{Format{Channels: 1, Encoding: EncodingPCM16}, 2},
		{Format{Channels: 2, Encoding: EncodingPCM16}, 4},
		{Format{Channels: 2, Encoding: EncodingPCMFloat}, 8},
		{FormatNotSet, 0},
	}

	for _, tt := range tests {
		if got := tt.f.FrameSize(); got != tt.want {
			t.Errorf("%v.FrameSize() = %d, want %d", tt.f, got, tt.want)
		}
	}

	if Left.String() != "left" || Right.String() != "right" {
		t.Errorf("Channel strings = %q, %q", Left, Right)
	}
}
