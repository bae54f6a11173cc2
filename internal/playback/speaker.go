// Package playback sends decoded speech to the system audio output.
package playback

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/ironsheep/screen-speak-mcp/internal/audio"
)

// ErrNoAudio is returned by Play for a nil or empty buffer.
var ErrNoAudio = errors.New("no audio to play")

// resampleQuality is passed to beep.Resample when a buffer's rate differs
// from the device rate.
const resampleQuality = 4

// Speaker plays one buffer at a time on the default output device. The
// device is opened on the first Play.
type Speaker struct {
	mu         sync.Mutex
	sampleRate beep.SampleRate
	open       bool
}

// NewSpeaker returns a Speaker that opens the device at sampleRate.
func NewSpeaker(sampleRate int) *Speaker {
	if sampleRate <= 0 {
		sampleRate = audio.DefaultSampleRate
	}
	return &Speaker{sampleRate: beep.SampleRate(sampleRate)}
}

// Play stops whatever is playing and starts buf. done, if not nil, is called
// on its own goroutine once the whole buffer has been played. It is not
// called when playback is cut short by Stop or another Play.
func (s *Speaker) Play(buf *audio.Buffer, done func()) error {
	if buf == nil || buf.FrameCount() == 0 {
		return ErrNoAudio
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		if err := speaker.Init(s.sampleRate, s.sampleRate.N(time.Second/10)); err != nil {
			return fmt.Errorf("failed to open audio output: %w", err)
		}
		s.open = true
	}
	speaker.Clear()

	var stream beep.Streamer = NewStreamer(buf)
	if rate := beep.SampleRate(buf.SampleRate); rate != s.sampleRate {
		stream = beep.Resample(resampleQuality, rate, s.sampleRate, stream)
	}

	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		if done != nil {
			go done()
		}
	})))
	return nil
}

// Stop silences the output. It is safe to call when nothing is playing.
func (s *Speaker) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		speaker.Clear()
	}
	return nil
}

// Close releases the output device.
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		speaker.Close()
		s.open = false
	}
	return nil
}
