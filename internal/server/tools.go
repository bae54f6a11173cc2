package server

import "github.com/ironsheep/screen-speak-mcp/internal/config"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pointSchema(required ...string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x": map[string]interface{}{
				"type":        "number",
				"description": "X coordinate in viewport pixels (0 = left edge of the displayed image)",
			},
			"y": map[string]interface{}{
				"type":        "number",
				"description": "Y coordinate in viewport pixels (0 = top edge of the displayed image)",
			},
		},
		"required": required,
	}
}

func emptySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Input
		{
			Name:        "image_load",
			Description: "Load a screenshot or image to select a region from. Give either a file path or base64 data (a data URL is accepted). Starts cropping; stops any audio that is playing.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a PNG, JPEG or GIF file",
					},
					"data": map[string]interface{}{
						"type":        "string",
						"description": "Base64-encoded image, optionally as a data URL",
					},
					"container_width": map[string]interface{}{
						"type":        "number",
						"description": "Optional width of the display area; fits the viewport immediately",
					},
					"container_height": map[string]interface{}{
						"type":        "number",
						"description": "Optional height of the display area",
					},
				},
			},
		},
		{
			Name:        "screen_capture",
			Description: "Capture the screen and load it as the source image for region selection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"display": map[string]interface{}{
						"type":        "integer",
						"description": "Display index (0 = primary). -1 captures all displays as one image. Default 0",
						"default":     0,
					},
					"container_width": map[string]interface{}{
						"type":        "number",
						"description": "Optional width of the display area; fits the viewport immediately",
					},
					"container_height": map[string]interface{}{
						"type":        "number",
						"description": "Optional height of the display area",
					},
				},
			},
		},
		{
			Name:        "viewport_resize",
			Description: "Fit the source image into a display area of the given size, preserving aspect ratio. An existing selection keeps covering the same source pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "number",
						"description": "Container width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "number",
						"description": "Container height in pixels",
					},
				},
				"required": []string{"width", "height"},
			},
		},

		// Region Selection
		{
			Name:        "selection_start",
			Description: "Begin dragging a selection at a viewport point. The point is clamped to the viewport.",
			InputSchema: pointSchema("x", "y"),
		},
		{
			Name:        "selection_move",
			Description: "Extend the selection being dragged to a viewport point. Returns the current selection rectangle.",
			InputSchema: pointSchema("x", "y"),
		},
		{
			Name:        "selection_end",
			Description: "Finish dragging. The selection is kept until it is confirmed or cancelled.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "selection_confirm",
			Description: "Confirm the selection and return the selected source pixels as a PNG. Selections smaller than the minimum size (10 px by default) are rejected.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "selection_cancel",
			Description: "Discard the selection and the source image.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "selection_preview",
			Description: "Render the viewport as the user sees it: the image dimmed, the selection at full brightness with a border.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "selection_ocr",
			Description: "Read the text in the confirmed region with local OCR. Word bounds are in source image coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code (e.g., 'eng', 'deu'). Defaults to the configured language",
					},
				},
			},
		},

		// Audio
		{
			Name:        "audio_load_pcm",
			Description: "Deliver synthesized speech as base64 raw PCM16 little-endian audio. A malformed payload puts the session in the error state.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"data": map[string]interface{}{
						"type":        "string",
						"description": "Base64-encoded interleaved 16-bit PCM",
					},
					"sample_rate": map[string]interface{}{
						"type":        "integer",
						"description": "Sample rate in Hz. Defaults to the configured rate (24000)",
					},
					"channels": map[string]interface{}{
						"type":        "integer",
						"description": "Channel count. Defaults to the configured count (1)",
					},
					"play": map[string]interface{}{
						"type":        "boolean",
						"description": "Start playback immediately. Default true",
						"default":     true,
					},
				},
				"required": []string{"data"},
			},
		},
		{
			Name:        "audio_load_wav",
			Description: "Deliver synthesized speech as a 16-bit PCM WAV file, by path or base64 data. A malformed file puts the session in the error state.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a WAV file",
					},
					"data": map[string]interface{}{
						"type":        "string",
						"description": "Base64-encoded WAV file",
					},
					"play": map[string]interface{}{
						"type":        "boolean",
						"description": "Start playback immediately. Default true",
						"default":     true,
					},
				},
			},
		},
		{
			Name:        "audio_export_wav",
			Description: "Write the current audio to a new WAV file and return its path. The previously exported file is deleted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"include_data": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the WAV file as base64. Default false",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "audio_play",
			Description: "Play (or replay) the current audio from the start.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "audio_stop",
			Description: "Stop playback.",
			InputSchema: emptySchema(),
		},

		// Session
		{
			Name:        "voice_select",
			Description: "Choose the speech synthesis voice reported in the session status.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"voice": map[string]interface{}{
						"type":        "string",
						"enum":        config.Voices,
						"description": "Voice name",
					},
				},
				"required": []string{"voice"},
			},
		},
		{
			Name:        "session_status",
			Description: "Report the session state, image, viewport, selection, audio and voice.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "session_reset",
			Description: "Stop playback and discard the image, selection, audio and exported file. Leaves the error state.",
			InputSchema: emptySchema(),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
