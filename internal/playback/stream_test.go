package playback

import (
	"errors"
	"testing"

	"github.com/gopxl/beep/v2"

	"github.com/ironsheep/screen-speak-mcp/internal/audio"
)

func TestStreamer_Mono(t *testing.T) {
	buf, _ := audio.NewBuffer(24000, []float32{0.5, -0.5, 0.25})
	s := NewStreamer(buf)

	samples := make([][2]float64, 2)
	n, ok := s.Stream(samples)
	if n != 2 || !ok {
		t.Fatalf("first Stream: got (%d, %v), want (2, true)", n, ok)
	}
	if samples[0] != [2]float64{0.5, 0.5} || samples[1] != [2]float64{-0.5, -0.5} {
		t.Errorf("mono should be copied to both channels, got %v", samples)
	}

	n, ok = s.Stream(samples)
	if n != 1 || !ok {
		t.Fatalf("second Stream: got (%d, %v), want (1, true)", n, ok)
	}

	n, ok = s.Stream(samples)
	if n != 0 || ok {
		t.Errorf("drained Stream: got (%d, %v), want (0, false)", n, ok)
	}
}

func TestStreamer_Stereo(t *testing.T) {
	buf, _ := audio.NewBuffer(24000, []float32{0.1, 0.2}, []float32{-0.1, -0.2})
	s := NewStreamer(buf)

	samples := make([][2]float64, 4)
	n, _ := s.Stream(samples)
	if n != 2 {
		t.Fatalf("Stream: got %d samples, want 2", n)
	}
	if samples[1][0] != float64(float32(0.2)) || samples[1][1] != float64(float32(-0.2)) {
		t.Errorf("frame 1: got %v", samples[1])
	}
}

func TestStreamer_Seek(t *testing.T) {
	buf, _ := audio.NewBuffer(24000, make([]float32, 100))
	s := NewStreamer(buf)

	if s.Len() != 100 {
		t.Errorf("Len: got %d, want 100", s.Len())
	}
	if err := s.Seek(40); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	if s.Position() != 40 {
		t.Errorf("Position: got %d, want 40", s.Position())
	}
	for _, p := range []int{-1, 101} {
		if err := s.Seek(p); err == nil {
			t.Errorf("Seek(%d) should fail", p)
		}
	}
}

func TestStreamer_WithBeepTakeAndSeq(t *testing.T) {
	buf, _ := audio.NewBuffer(24000, []float32{0.1, 0.2, 0.3, 0.4})

	called := false
	seq := beep.Seq(beep.Take(3, NewStreamer(buf)), beep.Callback(func() { called = true }))

	samples := make([][2]float64, 8)
	total := 0
	for {
		n, ok := seq.Stream(samples[total:])
		total += n
		if !ok || total == len(samples) {
			break
		}
	}
	if total != 3 {
		t.Errorf("streamed %d samples, want 3", total)
	}
	if !called {
		t.Error("callback after the buffer was not run")
	}
}

func TestSpeaker_PlayEmpty(t *testing.T) {
	sp := NewSpeaker(0)

	if err := sp.Play(nil, nil); !errors.Is(err, ErrNoAudio) {
		t.Errorf("Play(nil): got %v, want ErrNoAudio", err)
	}
	empty, _ := audio.NewBuffer(24000, []float32{})
	if err := sp.Play(empty, nil); !errors.Is(err, ErrNoAudio) {
		t.Errorf("Play(empty): got %v, want ErrNoAudio", err)
	}
	if err := sp.Stop(); err != nil {
		t.Errorf("Stop on unopened speaker: %v", err)
	}
}
