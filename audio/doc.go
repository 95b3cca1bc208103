// SPDX-License-Identifier: EPL-2.0

// Package audio provides low-level audio processing primitives.
//
// This package contains the core audio processing building blocks:
//   - Source interface for streamed audio
//   - Buffer, a fully decoded planar PCM signal
//   - Resampler for sample rate and playback speed conversion
//   - MonoMixer and ChannelMapper for channel adaptation
//   - Registry for decoder registration and container detection
//
// # Source Interface
//
// The Source interface is the foundation of audio processing:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders and processors implement this interface so they can be chained
// into pipelines. Buffer.Source turns a decoded buffer back into a stream
// and ReadAll collects a stream into a Buffer.
//
// # Resampling
//
// The Resampler reads its source at a fractional position with cubic
// interpolation. Besides changing the sample rate it can change playback
// speed, which shifts pitch and duration together:
//
//	r, err := audio.NewVariableResampler(source, 22050, 1.35)
//
// A source of N frames yields ceil(N / ratio) frames where
// ratio = playbackRate * sourceRate / targetRate.
//
// # Channel Mixing
//
// The MonoMixer folds multi-channel audio to mono with a plain mean.
// ChannelMapper generalises this to any target count; extra channels
// repeat the highest input channel.
//
// # Format Registry
//
// The registry maps format keys to decoders. Decoders that implement
// Matcher take part in container detection:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	format, decoder, ok := registry.Detect(header)
//
// # Sample Format
//
// Audio samples are represented as float32 in the range [-1.0, 1.0].
// Values are only clamped when narrowed to an integer encoding.
//
// # Error Handling
//
// Sources return io.EOF when no more data is available, possibly together
// with the final samples:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    // process buf[:n]
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
