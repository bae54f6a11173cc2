package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/screen-speak-mcp/internal/audio"
	"github.com/ironsheep/screen-speak-mcp/internal/capture"
	"github.com/ironsheep/screen-speak-mcp/internal/imaging"
	"github.com/ironsheep/screen-speak-mcp/internal/ocr"
	"github.com/ironsheep/screen-speak-mcp/internal/session"
)

// ErrNoCrop is returned by selection_ocr before a region was confirmed.
var ErrNoCrop = errors.New("no confirmed region")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "selection_confirm").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// imageContent is implemented by results that carry a PNG for the client to
// display next to the JSON text.
type imageContent interface {
	pngData() []byte
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Results with an image add a second {"type": "image"} item.
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	content := []map[string]interface{}{
		{
			"type": "text",
			"text": mustMarshalJSON(result),
		},
	}
	if img, ok := result.(imageContent); ok && len(img.pngData()) > 0 {
		content = append(content, map[string]interface{}{
			"type":     "image",
			"data":     base64.StdEncoding.EncodeToString(img.pngData()),
			"mimeType": "image/png",
		})
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": content,
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Image Input
	case "image_load":
		return s.handleImageLoad(args)
	case "screen_capture":
		return s.handleScreenCapture(args)
	case "viewport_resize":
		return s.handleViewportResize(args)

	// Region Selection
	case "selection_start":
		return s.handleSelectionStart(args)
	case "selection_move":
		return s.handleSelectionMove(args)
	case "selection_end":
		return s.handleSelectionEnd()
	case "selection_confirm":
		return s.handleSelectionConfirm()
	case "selection_cancel":
		return s.handleSelectionCancel()
	case "selection_preview":
		return s.handleSelectionPreview()
	case "selection_ocr":
		return s.handleSelectionOCR(args)

	// Audio
	case "audio_load_pcm":
		return s.handleAudioLoadPCM(args)
	case "audio_load_wav":
		return s.handleAudioLoadWAV(args)
	case "audio_export_wav":
		return s.handleAudioExportWAV(args)
	case "audio_play":
		return s.handleAudioPlay()
	case "audio_stop":
		return s.handleAudioStop()

	// Session
	case "voice_select":
		return s.handleVoiceSelect(args)
	case "session_status":
		return s.session.Status(), nil
	case "session_reset":
		s.session.Reset()
		return s.session.Status(), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeBase64 decodes a base64 payload, optionally wrapped in a data URL.
func decodeBase64(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(imaging.StripDataURL(payload))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 data: %w", err)
	}
	return data, nil
}

// === Image Input Handlers ===

type containerArgs struct {
	ContainerWidth  float64 `json:"container_width"`
	ContainerHeight float64 `json:"container_height"`
}

type imageLoadArgs struct {
	Path string `json:"path"`
	Data string `json:"data"`
	containerArgs
}

type imageLoadResult struct {
	Image    *imaging.ImageInfo `json:"image"`
	Source   string             `json:"source"`
	State    string             `json:"state"`
	Viewport *imaging.Viewport  `json:"viewport,omitempty"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var (
		img    image.Image
		format string
		source string
		err    error
	)
	switch {
	case a.Path != "" && a.Data != "":
		return nil, fmt.Errorf("give either path or data, not both")
	case a.Path != "":
		img, err = s.cache.Load(a.Path)
		if err != nil {
			return nil, err
		}
		format = formatFromPath(a.Path)
		source = a.Path
	case a.Data != "":
		img, format, err = imaging.DecodeUpload(a.Data)
		if err != nil {
			return nil, err
		}
		source = "upload"
	default:
		return nil, fmt.Errorf("path or data is required")
	}

	return s.loadImage(img, format, source, a.containerArgs)
}

type screenCaptureArgs struct {
	Display int `json:"display"`
	containerArgs
}

func (s *Server) handleScreenCapture(args json.RawMessage) (interface{}, error) {
	var a screenCaptureArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	img, err := capture.Capture(a.Display)
	if err != nil {
		return nil, err
	}

	source := fmt.Sprintf("display:%d", a.Display)
	if a.Display == capture.AllDisplays {
		source = "display:all"
	}
	return s.loadImage(img, "capture", source, a.containerArgs)
}

func (s *Server) loadImage(img image.Image, format, source string, c containerArgs) (*imageLoadResult, error) {
	info, err := s.session.LoadImage(img, format, source)
	if err != nil {
		return nil, err
	}

	result := &imageLoadResult{Image: info, Source: source}
	if c.ContainerWidth > 0 || c.ContainerHeight > 0 {
		v, err := s.session.Resize(c.ContainerWidth, c.ContainerHeight)
		if err != nil {
			return nil, err
		}
		result.Viewport = &v
	}
	result.State = s.session.State().String()
	return result, nil
}

// formatFromPath guesses the image format from the file extension.
func formatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "jpg" {
		return "jpeg"
	}
	return ext
}

type viewportResizeArgs struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleViewportResize(args json.RawMessage) (interface{}, error) {
	var a viewportResizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	v, err := s.session.Resize(a.Width, a.Height)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"viewport":      v,
		"has_selection": s.session.Status().HasSelection,
	}, nil
}

// === Region Selection Handlers ===

type pointArgs struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (a pointArgs) point() imaging.Point {
	return imaging.Point{X: a.X, Y: a.Y}
}

type selectionResult struct {
	Drag         string              `json:"drag"`
	Selection    *imaging.Rect       `json:"selection,omitempty"`
	SourceRegion *session.RegionInfo `json:"source_region,omitempty"`
}

func (s *Server) selectionResult() *selectionResult {
	st := s.session.Status()
	return &selectionResult{
		Drag:         st.Drag,
		Selection:    st.Selection,
		SourceRegion: st.SourceRegion,
	}
}

func (s *Server) handleSelectionStart(args json.RawMessage) (interface{}, error) {
	var a pointArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := s.session.StartSelection(a.point()); err != nil {
		return nil, err
	}
	return s.selectionResult(), nil
}

func (s *Server) handleSelectionMove(args json.RawMessage) (interface{}, error) {
	var a pointArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if _, err := s.session.MoveSelection(a.point()); err != nil {
		return nil, err
	}
	return s.selectionResult(), nil
}

func (s *Server) handleSelectionEnd() (interface{}, error) {
	if _, _, err := s.session.EndSelection(); err != nil {
		return nil, err
	}
	return s.selectionResult(), nil
}

type confirmResult struct {
	Region   *session.RegionInfo `json:"region"`
	Width    int                 `json:"width"`
	Height   int                 `json:"height"`
	MimeType string              `json:"mime_type"`
	State    string              `json:"state"`
	data     []byte
}

func (r *confirmResult) pngData() []byte { return r.data }

func (s *Server) handleSelectionConfirm() (interface{}, error) {
	crop, err := s.session.Confirm()
	if err != nil {
		return nil, err
	}
	return &confirmResult{
		Region:   session.NewRegionInfo(crop.Bounds),
		Width:    crop.Width,
		Height:   crop.Height,
		MimeType: crop.MimeType,
		State:    s.session.State().String(),
		data:     crop.Data,
	}, nil
}

func (s *Server) handleSelectionCancel() (interface{}, error) {
	if err := s.session.CancelSelection(); err != nil {
		return nil, err
	}
	return s.session.Status(), nil
}

type previewResult struct {
	Viewport     *imaging.Viewport `json:"viewport,omitempty"`
	Selection    *imaging.Rect     `json:"selection,omitempty"`
	HasSelection bool              `json:"has_selection"`
	data         []byte
}

func (r *previewResult) pngData() []byte { return r.data }

func (s *Server) handleSelectionPreview() (interface{}, error) {
	data, err := s.session.Preview()
	if err != nil {
		return nil, err
	}
	st := s.session.Status()
	return &previewResult{
		Viewport:     st.Viewport,
		Selection:    st.Selection,
		HasSelection: st.HasSelection,
		data:         data,
	}, nil
}

type selectionOCRArgs struct {
	Language string `json:"language"`
}

func (s *Server) handleSelectionOCR(args json.RawMessage) (interface{}, error) {
	var a selectionOCRArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Language == "" {
		a.Language = s.cfg.OCRLanguage
	}

	crop := s.session.Crop()
	if crop == nil {
		return nil, ErrNoCrop
	}
	return ocr.RecognizeCrop(crop, a.Language)
}

// === Audio Handlers ===

type audioResult struct {
	Audio   *session.AudioInfo `json:"audio"`
	State   string             `json:"state"`
	Playing bool               `json:"playing"`
}

type audioLoadPCMArgs struct {
	Data       string `json:"data"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Play       *bool  `json:"play"`
}

func (s *Server) handleAudioLoadPCM(args json.RawMessage) (interface{}, error) {
	var a audioLoadPCMArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.SampleRate == 0 {
		a.SampleRate = s.cfg.SampleRate
	}
	if a.Channels == 0 {
		a.Channels = s.cfg.Channels
	}

	data, err := decodeBase64(a.Data)
	if err != nil {
		return nil, err
	}
	buf, err := s.session.DeliverPCM(data, a.SampleRate, a.Channels)
	if err != nil {
		return nil, err
	}
	return s.afterDelivery(buf, a.Play)
}

type audioLoadWAVArgs struct {
	Path string `json:"path"`
	Data string `json:"data"`
	Play *bool  `json:"play"`
}

func (s *Server) handleAudioLoadWAV(args json.RawMessage) (interface{}, error) {
	var a audioLoadWAVArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	switch {
	case a.Path != "" && a.Data != "":
		return nil, fmt.Errorf("give either path or data, not both")
	case a.Path != "":
		data, err = os.ReadFile(a.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read audio: %w", err)
		}
	case a.Data != "":
		data, err = decodeBase64(a.Data)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("path or data is required")
	}

	buf, err := s.session.DeliverWAV(data)
	if err != nil {
		return nil, err
	}
	return s.afterDelivery(buf, a.Play)
}

// afterDelivery starts playback unless the caller opted out. Empty audio is
// stored but not played.
func (s *Server) afterDelivery(buf *audio.Buffer, play *bool) (*audioResult, error) {
	playing := (play == nil || *play) && buf.FrameCount() > 0
	if playing {
		if err := s.session.Play(); err != nil {
			return nil, err
		}
	}
	return &audioResult{
		Audio:   session.NewAudioInfo(buf),
		State:   s.session.State().String(),
		Playing: playing,
	}, nil
}

type audioExportArgs struct {
	IncludeData bool `json:"include_data"`
}

type audioExportResult struct {
	Path     string             `json:"path"`
	Size     int64              `json:"size"`
	Audio    *session.AudioInfo `json:"audio"`
	MimeType string             `json:"mime_type"`
	Data     string             `json:"data,omitempty"`
}

func (s *Server) handleAudioExportWAV(args json.RawMessage) (interface{}, error) {
	var a audioExportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	path, err := s.session.ExportWAV()
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat export: %w", err)
	}

	result := &audioExportResult{
		Path:     path,
		Size:     fi.Size(),
		Audio:    s.session.Status().Audio,
		MimeType: "audio/wav",
	}
	if a.IncludeData {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read export: %w", err)
		}
		result.Data = base64.StdEncoding.EncodeToString(data)
	}
	return result, nil
}

func (s *Server) handleAudioPlay() (interface{}, error) {
	if err := s.session.Play(); err != nil {
		return nil, err
	}
	return &audioResult{
		Audio:   s.session.Status().Audio,
		State:   s.session.State().String(),
		Playing: true,
	}, nil
}

func (s *Server) handleAudioStop() (interface{}, error) {
	if err := s.session.Stop(); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"state": s.session.State().String(),
	}, nil
}

// === Session Handlers ===

type voiceSelectArgs struct {
	Voice string `json:"voice"`
}

func (s *Server) handleVoiceSelect(args json.RawMessage) (interface{}, error) {
	var a voiceSelectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := s.session.SetVoice(a.Voice); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"voice": a.Voice,
	}, nil
}
