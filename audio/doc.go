// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM building blocks of the player.
//
// # Sources
//
// Decoders produce a Source: interleaved float32 samples in [-1, 1] read
// through ReadSamples. A Source may also implement NativeEncoder to report
// which byte encoding holds its samples without loss.
//
// # Processors
//
// A Processor is a pipeline stage working on encoded PCM bytes. It is
// configured with a Format, fed with QueueInput and drained with Output:
//
//	m := audio.NewChannelMixer(audio.Right)
//	out, err := m.Configure(audio.Format{SampleRate: 48000, Channels: 1, Encoding: audio.EncodingPCMFloat})
//	if err != nil {
//	    return err // *UnsupportedFormatError
//	}
//	// out.Channels == 2
//	if _, err := m.QueueInput(pcm); err != nil {
//	    return err
//	}
//	stereo := m.Output() // valid until the next QueueInput
//	m.QueueEndOfStream()
//
// ChannelMixer is the only Processor here. It accepts mono or stereo PCM16
// or float input and always emits stereo, keeping one side and writing
// silence to the other. IsolatedSource wraps it back into a Source.
//
// # Format Registry
//
// The registry maps file extensions to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	registry.Register("flac", flac.Decoder{})
//
//	decoder, ok := registry.ForPath("song.flac")
package audio
