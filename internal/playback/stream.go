package playback

import (
	"fmt"

	"github.com/gopxl/beep/v2"

	"github.com/ironsheep/screen-speak-mcp/internal/audio"
)

// Streamer plays an audio.Buffer through beep. Mono buffers are sent to both
// output channels; buffers with more than two channels play their first two.
type Streamer struct {
	buf *audio.Buffer
	pos int
}

// NewStreamer returns a Streamer positioned at the start of buf.
func NewStreamer(buf *audio.Buffer) *Streamer {
	return &Streamer{buf: buf}
}

// Stream implements beep.Streamer.
func (s *Streamer) Stream(samples [][2]float64) (n int, ok bool) {
	frames := s.buf.FrameCount()
	if s.pos >= frames {
		return 0, false
	}

	left := s.buf.Channels[0]
	right := left
	if s.buf.ChannelCount() > 1 {
		right = s.buf.Channels[1]
	}

	for n < len(samples) && s.pos < frames {
		samples[n][0] = float64(left[s.pos])
		samples[n][1] = float64(right[s.pos])
		s.pos++
		n++
	}
	return n, true
}

// Err implements beep.Streamer.
func (s *Streamer) Err() error {
	return nil
}

// Len returns the number of frames.
func (s *Streamer) Len() int {
	return s.buf.FrameCount()
}

// Position returns the current frame.
func (s *Streamer) Position() int {
	return s.pos
}

// Seek moves to frame p.
func (s *Streamer) Seek(p int) error {
	if p < 0 || p > s.Len() {
		return fmt.Errorf("seek position %d out of range [0, %d]", p, s.Len())
	}
	s.pos = p
	return nil
}

var _ beep.StreamSeeker = (*Streamer)(nil)
