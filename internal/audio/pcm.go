package audio

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTruncatedAudioData means the payload length is not a whole number of
	// frames. The payload is malformed or partial and must not be retried.
	ErrTruncatedAudioData = errors.New("truncated audio data")

	// ErrInvalidFormat reports an unusable sample rate, channel count or
	// container header.
	ErrInvalidFormat = errors.New("invalid audio format")
)

// DecodePCM16 decodes interleaved signed 16-bit little-endian PCM into a
// Buffer. Each sample is divided by 32768 and the frames are de-interleaved
// into one slice per channel.
func DecodePCM16(data []byte, sampleRate, channels int) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("%w: channel count %d", ErrInvalidFormat, channels)
	}

	frameSize := BytesPerSample * channels
	if len(data)%frameSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of the %d-byte frame",
			ErrTruncatedAudioData, len(data), frameSize)
	}

	frames := len(data) / frameSize
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frames)
	}

	pos := 0
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			s := int16(uint16(data[pos]) | uint16(data[pos+1])<<8)
			out[c][i] = float32(s) / 32768.0
			pos += BytesPerSample
		}
	}

	return &Buffer{SampleRate: sampleRate, Channels: out}, nil
}

// DecodeBase64PCM16 unwraps a base64 payload, optionally prefixed with a
// "data:<mime>;base64," header, and decodes it with DecodePCM16.
func DecodeBase64PCM16(payload string, sampleRate, channels int) (*Buffer, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		if i := strings.IndexByte(payload, ','); i >= 0 {
			payload = payload[i+1:]
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 audio: %w", err)
	}
	return DecodePCM16(data, sampleRate, channels)
}
