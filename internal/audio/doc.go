// Package audio converts between raw 16-bit PCM, normalized float samples
// and WAV files.
//
// Speech synthesis returns headerless PCM16 little-endian audio whose sample
// rate and channel count are known out of band (24000 Hz mono by default).
// DecodePCM16 turns it into a Buffer of float32 samples, one slice per
// channel:
//
//	buf, err := audio.DecodePCM16(pcm, audio.DefaultSampleRate, audio.DefaultChannels)
//
// EncodeWAV writes a Buffer back out as a canonical 44-byte-header RIFF/WAVE
// file for download or sharing, and ParseWAV reads such a file back.
//
// # Sample Scaling
//
// Decoding divides by 32768, so samples fall in [-1, 1). Encoding clamps to
// [-1, 1], scales negative values by 32768 and non-negative values by 32767
// and rounds to the nearest integer, so a round trip through either
// direction stays within one quantization step.
//
// # Errors
//
// A payload whose length is not a whole number of frames is rejected with
// ErrTruncatedAudioData; no partial frame is ever dropped silently. Bad
// sample rates, channel counts or WAV headers return ErrInvalidFormat.
package audio
