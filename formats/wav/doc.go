// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF/WAVE files through github.com/go-audio/wav.
//
// The Decoder accepts integer PCM at 16 or 24 bits per sample with any
// channel count. Decoded sources report their samples as float32 in
// [-1, 1] and advertise a native encoding (pcm16 for 16-bit input, float
// otherwise) so downstream stages can pick a lossless byte layout.
//
// Files are written as 16-bit PCM:
//
//	f, _ := os.Create("out.wav")
//	w, err := wav.NewWriter(f, 44100, 2)
//	if err != nil {
//	    return err
//	}
//	_ = w.Write(frames) // interleaved int16, whole frames only
//	err = w.Close()
//
// WriteWAV16 does the same for a complete in-memory buffer.
package wav
