package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-audio/wav"
)

// WAV format constants.
const (
	// WAVHeaderSize is the size of the canonical header written by EncodeWAV.
	WAVHeaderSize = 44

	// formatPCM is the fmt chunk audio format code for integer PCM.
	formatPCM = 1

	bitsPerSample = 16
	fmtChunkSize  = 16
)

// EncodeWAV serializes a Buffer as a RIFF/WAVE file with 16-bit PCM samples.
//
// Channels are interleaved frame by frame. Each sample is clamped to [-1, 1]
// and scaled by 32768 when negative or 32767 otherwise, rounded to nearest.
func EncodeWAV(b *Buffer) ([]byte, error) {
	if b == nil || b.ChannelCount() == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrInvalidFormat)
	}
	if b.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, b.SampleRate)
	}

	channels := b.ChannelCount()
	frames := b.FrameCount()
	for c, ch := range b.Channels {
		if len(ch) != frames {
			return nil, fmt.Errorf("%w: channel %d has %d frames, want %d", ErrInvalidFormat, c, len(ch), frames)
		}
	}

	blockAlign := channels * BytesPerSample
	dataSize := uint64(frames) * uint64(blockAlign)
	if channels > math.MaxUint16 || dataSize > math.MaxUint32-36 {
		return nil, fmt.Errorf("%w: %d frames of %d channels does not fit in a WAV file", ErrInvalidFormat, frames, channels)
	}

	out := make([]byte, WAVHeaderSize+int(dataSize))
	le := binary.LittleEndian

	// RIFF header
	copy(out[0:4], "RIFF")
	le.PutUint32(out[4:8], uint32(36+dataSize))
	copy(out[8:12], "WAVE")

	// fmt subchunk
	copy(out[12:16], "fmt ")
	le.PutUint32(out[16:20], fmtChunkSize)
	le.PutUint16(out[20:22], formatPCM)
	le.PutUint16(out[22:24], uint16(channels))
	le.PutUint32(out[24:28], uint32(b.SampleRate))
	le.PutUint32(out[28:32], uint32(b.SampleRate*blockAlign))
	le.PutUint16(out[32:34], uint16(blockAlign))
	le.PutUint16(out[34:36], bitsPerSample)

	// data subchunk
	copy(out[36:40], "data")
	le.PutUint32(out[40:44], uint32(dataSize))

	pos := WAVHeaderSize
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			le.PutUint16(out[pos:], uint16(quantize(b.Channels[c][i])))
			pos += BytesPerSample
		}
	}

	return out, nil
}

// quantize converts a normalized sample to int16. NaN is written as silence.
func quantize(s float32) int16 {
	v := float64(s)
	switch {
	case math.IsNaN(v):
		return 0
	case v < -1:
		v = -1
	case v > 1:
		v = 1
	}
	if v < 0 {
		return int16(math.Round(v * 0x8000))
	}
	return int16(math.Round(v * 0x7FFF))
}

// ParseWAV reads a RIFF/WAVE file with 16-bit integer PCM samples. Chunks
// other than "fmt " and "data" are skipped.
func ParseWAV(data []byte) (*Buffer, error) {
	r := bytes.NewReader(data)
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		if err := d.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return nil, fmt.Errorf("%w: not a RIFF/WAVE file", ErrInvalidFormat)
	}
	if d.WavAudioFormat != formatPCM {
		return nil, fmt.Errorf("%w: audio format %d, only PCM is supported", ErrInvalidFormat, d.WavAudioFormat)
	}
	if d.BitDepth != bitsPerSample {
		return nil, fmt.Errorf("%w: %d bits per sample, only 16 is supported", ErrInvalidFormat, d.BitDepth)
	}
	channels := int(d.NumChans)
	sampleRate := int(d.SampleRate)
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, sampleRate)
	}

	if err := d.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: no data chunk: %v", ErrInvalidFormat, err)
	}

	// PCMSize is rounded up to a word boundary, so take the declared size
	// from the chunk header that was just read.
	start := len(data) - r.Len()
	size := int(binary.LittleEndian.Uint32(data[start-4 : start]))
	frameSize := BytesPerSample * channels
	if size > len(data)-start {
		return nil, fmt.Errorf("%w: data chunk declares %d bytes, %d present",
			ErrTruncatedAudioData, size, len(data)-start)
	}
	if size%frameSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of the %d-byte frame",
			ErrTruncatedAudioData, size, frameSize)
	}

	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if len(pcm.Data) != size/BytesPerSample {
		return nil, fmt.Errorf("%w: read %d samples, data chunk holds %d",
			ErrTruncatedAudioData, len(pcm.Data), size/BytesPerSample)
	}

	return deinterleave(pcm.Data, sampleRate, channels), nil
}

// deinterleave splits interleaved 16-bit sample values into one slice per
// channel, dividing each by 32768.
func deinterleave(samples []int, sampleRate, channels int) *Buffer {
	frames := len(samples) / channels
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frames)
	}
	for i, v := range samples[:frames*channels] {
		out[i%channels][i/channels] = float32(v) / 32768.0
	}
	return &Buffer{SampleRate: sampleRate, Channels: out}
}
