// SPDX-License-Identifier: EPL-2.0

// Package dualplayer plays two tracks at once, one in each ear.
//
// The core is audio.ChannelMixer, a pipeline stage that rewrites a PCM stream
// so only one side of a stereo pair carries signal. Each track gets its own
// mixer: the first keeps its left channel, the second its right, and the
// output device (or RenderDualTrack) sums the two.
//
// # Supported Formats
//
// Decoders live under formats/:
//   - WAV (16/24-bit PCM) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF (16/24-bit PCM) via formats/aiff
//   - FLAC via formats/flac
//
// # Quick Start
//
// Render two files into one stereo WAV:
//
//	a, _ := os.Open("voice.wav")
//	b, _ := os.Open("music.mp3")
//	left, _ := wav.Decoder{}.Decode(a)
//	right, _ := mp3.Decoder{}.Decode(b)
//
//	out, _ := os.Create("both.wav")
//	frames, err := dualplayer.RenderDualTrack(out, left, right, 4096)
//
// Or keep one side of a single track:
//
//	pcm16, rate, err := dualplayer.IsolateToStereo16(src, audio.Right, 4096)
//
// # Stage Contract
//
// For lower level use, drive the mixer directly with PCM bytes:
//
//	m := audio.NewChannelMixer(audio.Left)
//	out, err := m.Configure(audio.Format{SampleRate: 44100, Channels: 2, Encoding: audio.EncodingPCM16})
//	_, err = m.QueueInput(pcm)
//	processed := m.Output()
//
// The cmd/dualplayer command plays two tracks on the default audio device.
package dualplayer
