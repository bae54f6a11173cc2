// Package session ties region selection, audio decoding, playback and WAV
// export into one screen-to-speech session.
//
// A Session owns at most one source image, one confirmed crop, one audio
// buffer and one exported WAV file. Replacing any of them releases the old
// one, and Reset releases everything.
package session

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/ironsheep/screen-speak-mcp/internal/audio"
	"github.com/ironsheep/screen-speak-mcp/internal/imaging"
	"github.com/ironsheep/screen-speak-mcp/internal/selection"
)

var (
	// ErrInvalidState is returned for an operation the current state does
	// not allow.
	ErrInvalidState = errors.New("invalid session state")

	// ErrNoAudio is returned when playback or export is requested before any
	// audio was delivered.
	ErrNoAudio = errors.New("no audio in session")

	// ErrUnknownVoice is returned by SetVoice for a name not in the voice
	// list.
	ErrUnknownVoice = errors.New("unknown voice")
)

// Player is the audio output used by a session.
type Player interface {
	// Play starts buf, replacing anything already playing. done is called
	// once if buf plays to the end.
	Play(buf *audio.Buffer, done func()) error

	// Stop silences the output.
	Stop() error
}

// Options configures a Session.
type Options struct {
	// Selection configures the region selection engine.
	Selection selection.Options

	// Player plays delivered audio. It must not be nil.
	Player Player

	// ExportDir is where ExportWAV writes files. Empty means os.TempDir().
	ExportDir string

	// Voices lists the voice names SetVoice accepts. Voice is the initial
	// choice and must be one of them when Voices is not empty.
	Voices []string
	Voice  string

	// Debug enables verbose logging.
	Debug bool
}

// Session is a single screen-to-speech interaction. All methods are safe for
// concurrent use.
type Session struct {
	mu   sync.Mutex
	id   string
	opts Options

	state   State
	lastErr error
	engine  *selection.Engine
	image   *imaging.ImageInfo
	source  string
	crop    *imaging.CropResult
	buffer  *audio.Buffer
	export  string
	voice   string
	playGen uint64
}

// New creates an idle session.
func New(opts Options) *Session {
	return &Session{
		id:     uuid.NewString(),
		opts:   opts,
		state:  StateIdle,
		engine: selection.New(opts.Selection),
		voice:  opts.Voice,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LoadImage installs a captured or uploaded image and starts cropping.
// Anything playing is stopped; a previous crop is dropped.
func (s *Session) LoadImage(img image.Image, format, source string) (*imaging.ImageInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require(StateIdle, StateCropping, StatePlaying); err != nil {
		return nil, err
	}
	if err := s.engine.Load(img); err != nil {
		return nil, err
	}
	s.haltLocked()

	s.image = imaging.Describe(img, format)
	s.source = source
	s.crop = nil
	s.state = StateCropping
	s.debugf("loaded %dx%d %s image from %s", s.image.Width, s.image.Height, format, source)
	return s.image, nil
}

// Resize refits the image into a container of the given size.
func (s *Session) Resize(containerW, containerH float64) (imaging.Viewport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require(StateCropping); err != nil {
		return imaging.Viewport{}, err
	}
	if err := s.engine.Resize(containerW, containerH); err != nil {
		return s.engine.Viewport(), err
	}
	return s.engine.Viewport(), nil
}

// StartSelection begins a drag at p.
func (s *Session) StartSelection(p imaging.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require(StateCropping); err != nil {
		return err
	}
	return s.engine.Start(p)
}

// MoveSelection extends the drag to p.
func (s *Session) MoveSelection(p imaging.Point) (imaging.Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require(StateCropping); err != nil {
		return imaging.Rect{}, err
	}
	if err := s.engine.Move(p); err != nil {
		return imaging.Rect{}, err
	}
	r, _ := s.engine.Region()
	return r, nil
}

// EndSelection finishes the drag and returns the candidate region.
func (s *Session) EndSelection() (imaging.Rect, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require(StateCropping); err != nil {
		return imaging.Rect{}, false, err
	}
	s.engine.End()
	r, ok := s.engine.Region()
	return r, ok, nil
}

// Preview returns the current selection preview as PNG.
func (s *Session) Preview() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require(StateCropping); err != nil {
		return nil, err
	}
	return s.engine.Preview()
}

// Confirm crops the selected region and moves the session to Processing.
//
// selection.ErrSelectionTooSmall leaves the session in Cropping so the user
// can adjust the selection.
func (s *Session) Confirm() (*imaging.CropResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require(StateCropping); err != nil {
		return nil, err
	}
	crop, err := s.engine.Confirm()
	if err != nil {
		return nil, err
	}

	s.engine.Cancel()
	s.crop = crop
	s.state = StateProcessing
	s.debugf("confirmed region %v (%dx%d)", crop.Bounds, crop.Width, crop.Height)
	return crop, nil
}

// CancelSelection drops the image and selection and returns to Idle.
func (s *Session) CancelSelection() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require(StateCropping); err != nil {
		return err
	}
	s.engine.Cancel()
	s.image = nil
	s.source = ""
	s.state = StateIdle
	return nil
}

// Crop returns the last confirmed region, or nil.
func (s *Session) Crop() *imaging.CropResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.crop
}

// DeliverPCM decodes synthesized PCM16 audio and makes it the session's
// buffer. A malformed payload is fatal: the session moves to Error and must
// be reset. A bad sample rate or channel count is rejected without touching
// the session.
func (s *Session) DeliverPCM(data []byte, sampleRate, channels int) (*audio.Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require(StateIdle, StateProcessing, StatePlaying); err != nil {
		return nil, err
	}
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: %d Hz, %d channels", audio.ErrInvalidFormat, sampleRate, channels)
	}
	buf, err := audio.DecodePCM16(data, sampleRate, channels)
	if err != nil {
		return nil, s.failLocked(err)
	}
	s.replaceBufferLocked(buf)
	return buf, nil
}

// DeliverWAV is DeliverPCM for audio wrapped in a WAV file.
func (s *Session) DeliverWAV(data []byte) (*audio.Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require(StateIdle, StateProcessing, StatePlaying); err != nil {
		return nil, err
	}
	buf, err := audio.ParseWAV(data)
	if err != nil {
		return nil, s.failLocked(err)
	}
	s.replaceBufferLocked(buf)
	return buf, nil
}

// Play starts (or restarts) the session's buffer. The session returns to
// Idle when it finishes.
func (s *Session) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require(StateIdle, StatePlaying); err != nil {
		return err
	}
	if s.buffer == nil {
		return ErrNoAudio
	}

	s.playGen++
	gen := s.playGen
	// done may run before Play returns, while s.mu is still held
	if err := s.opts.Player.Play(s.buffer, func() { go s.finished(gen) }); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}
	s.state = StatePlaying
	s.debugf("playing %v of audio", s.buffer.Duration())
	return nil
}

// Stop halts playback. It does nothing when the session is not playing.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlaying {
		return nil
	}
	err := s.stopLocked()
	s.state = StateIdle
	return err
}

// WAV encodes the session's buffer as a WAV file.
func (s *Session) WAV() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require(StateIdle, StateCropping, StateProcessing, StatePlaying); err != nil {
		return nil, err
	}
	if s.buffer == nil {
		return nil, ErrNoAudio
	}
	return audio.EncodeWAV(s.buffer)
}

// ExportWAV writes the session's buffer to a new WAV file in the export
// directory and returns its path. The previously exported file is removed.
func (s *Session) ExportWAV() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require(StateIdle, StateCropping, StateProcessing, StatePlaying); err != nil {
		return "", err
	}
	if s.buffer == nil {
		return "", ErrNoAudio
	}

	data, err := audio.EncodeWAV(s.buffer)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(s.opts.ExportDir, "speech-*.wav")
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	s.revokeExportLocked()
	s.export = f.Name()
	s.debugf("exported %d bytes to %s", len(data), s.export)
	return s.export, nil
}

// SetVoice selects the synthesis voice reported to the client.
func (s *Session) SetVoice(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.opts.Voices) > 0 && !slices.Contains(s.opts.Voices, name) {
		return fmt.Errorf("%w: %q (available: %v)", ErrUnknownVoice, name, s.opts.Voices)
	}
	s.voice = name
	return nil
}

// Reset stops playback and releases the image, crop, audio and exported file.
// It is the only way out of Error.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Close releases everything the session holds.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	return nil
}

// Status is a snapshot of the session for clients.
type Status struct {
	ID           string             `json:"id"`
	State        string             `json:"state"`
	Error        string             `json:"error,omitempty"`
	Image        *imaging.ImageInfo `json:"image,omitempty"`
	Source       string             `json:"source,omitempty"`
	Viewport     *imaging.Viewport  `json:"viewport,omitempty"`
	Drag         string             `json:"drag"`
	Selection    *imaging.Rect      `json:"selection,omitempty"`
	SourceRegion *RegionInfo        `json:"source_region,omitempty"`
	HasSelection bool               `json:"has_selection"`
	Crop         *RegionInfo        `json:"crop,omitempty"`
	Audio        *AudioInfo         `json:"audio,omitempty"`
	ExportPath   string             `json:"export_path,omitempty"`
	Voice        string             `json:"voice"`
	Voices       []string           `json:"voices,omitempty"`
}

// RegionInfo is a source pixel rectangle.
type RegionInfo struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRegionInfo converts an image.Rectangle.
func NewRegionInfo(r image.Rectangle) *RegionInfo {
	return &RegionInfo{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// AudioInfo describes an audio buffer.
type AudioInfo struct {
	SampleRate int   `json:"sample_rate"`
	Channels   int   `json:"channels"`
	Frames     int   `json:"frames"`
	DurationMS int64 `json:"duration_ms"`
}

// NewAudioInfo describes buf.
func NewAudioInfo(buf *audio.Buffer) *AudioInfo {
	return &AudioInfo{
		SampleRate: buf.SampleRate,
		Channels:   buf.ChannelCount(),
		Frames:     buf.FrameCount(),
		DurationMS: buf.Duration().Milliseconds(),
	}
}

// Status returns a snapshot of the session.
func (s *Session) Status() *Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &Status{
		ID:           s.id,
		State:        s.state.String(),
		Image:        s.image,
		Source:       s.source,
		Drag:         s.engine.State().Name(),
		HasSelection: s.engine.HasSelection(),
		ExportPath:   s.export,
		Voice:        s.voice,
		Voices:       s.opts.Voices,
	}
	if s.lastErr != nil {
		st.Error = s.lastErr.Error()
	}
	if v := s.engine.Viewport(); !v.Empty() {
		st.Viewport = &v
	}
	if r, ok := s.engine.Region(); ok {
		st.Selection = &r
	}
	if r, ok := s.engine.SourceRegion(); ok {
		st.SourceRegion = NewRegionInfo(r)
	}
	if s.crop != nil {
		st.Crop = NewRegionInfo(s.crop.Bounds)
	}
	if s.buffer != nil {
		st.Audio = NewAudioInfo(s.buffer)
	}
	return st
}

// require checks the session is in one of the given states. Error always
// fails and reports the error that caused it.
func (s *Session) require(allowed ...State) error {
	if s.state == StateError {
		return fmt.Errorf("%w: session failed (%v), reset required", ErrInvalidState, s.lastErr)
	}
	if slices.Contains(allowed, s.state) {
		return nil
	}
	return fmt.Errorf("%w: not allowed while %s", ErrInvalidState, s.state)
}

// finished is the playback completion callback. Stale callbacks from a
// replaced or stopped playback are ignored.
func (s *Session) finished(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen == s.playGen && s.state == StatePlaying {
		s.state = StateIdle
		s.debugf("playback finished")
	}
}

func (s *Session) replaceBufferLocked(buf *audio.Buffer) {
	s.haltLocked()
	s.revokeExportLocked()
	s.buffer = buf
	s.state = StateIdle
	s.debugf("received %v of audio (%d Hz, %d channels)", buf.Duration(), buf.SampleRate, buf.ChannelCount())
}

// failLocked moves the session to Error, releasing audio resources.
func (s *Session) failLocked(err error) error {
	s.haltLocked()
	s.revokeExportLocked()
	s.buffer = nil
	s.lastErr = err
	s.state = StateError
	log.Printf("session %s failed: %v", s.id, err)
	return err
}

// stopLocked stops playback if it is running and invalidates its completion
// callback.
func (s *Session) stopLocked() error {
	s.playGen++
	if s.state != StatePlaying {
		return nil
	}
	if err := s.opts.Player.Stop(); err != nil {
		return fmt.Errorf("failed to stop playback: %w", err)
	}
	return nil
}

// haltLocked is stopLocked for callers that carry on whether or not the
// player stopped cleanly.
func (s *Session) haltLocked() {
	if err := s.stopLocked(); err != nil {
		log.Printf("session %s: %v", s.id, err)
	}
}

func (s *Session) revokeExportLocked() {
	if s.export == "" {
		return
	}
	if err := os.Remove(s.export); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove exported file %s: %v", s.export, err)
	}
	s.export = ""
}

func (s *Session) resetLocked() {
	s.haltLocked()
	s.engine.Cancel()
	s.revokeExportLocked()
	s.image = nil
	s.source = ""
	s.crop = nil
	s.buffer = nil
	s.lastErr = nil
	s.state = StateIdle
}

func (s *Session) debugf(format string, args ...any) {
	if s.opts.Debug {
		log.Printf("[DEBUG] session %s: "+format, append([]any{s.id}, args...)...)
	}
}
