package audio

import (
	"fmt"
	"time"
)

// Output format of the speech synthesis collaborator.
const (
	DefaultSampleRate = 24000
	DefaultChannels   = 1

	// BytesPerSample is the width of one PCM16 sample.
	BytesPerSample = 2
)

// Buffer holds normalized float samples, one contiguous slice per channel.
// All channels have the same length. A Buffer is never modified after it is
// created; a new synthesis produces a new Buffer.
type Buffer struct {
	SampleRate int
	Channels   [][]float32
}

// NewBuffer wraps per-channel samples. Every channel must have the same
// number of frames.
func NewBuffer(sampleRate int, channels ...[]float32) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, sampleRate)
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidFormat)
	}
	for i, ch := range channels[1:] {
		if len(ch) != len(channels[0]) {
			return nil, fmt.Errorf("%w: channel %d has %d frames, channel 0 has %d",
				ErrInvalidFormat, i+1, len(ch), len(channels[0]))
		}
	}
	return &Buffer{SampleRate: sampleRate, Channels: channels}, nil
}

// ChannelCount returns the number of channels.
func (b *Buffer) ChannelCount() int {
	return len(b.Channels)
}

// FrameCount returns the number of samples per channel.
func (b *Buffer) FrameCount() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the playing time of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.FrameCount()) * time.Second / time.Duration(b.SampleRate)
}
