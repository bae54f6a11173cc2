// Package server implements the MCP (Model Context Protocol) server for
// screen-to-speech sessions.
//
// A client loads a screenshot, lets the user drag a region over it, confirms
// the region as a PNG for text extraction, then hands back synthesized speech
// which the server decodes, plays and can export as a WAV file.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Input:
//   - image_load: Load a screenshot from a file path or base64 data
//   - screen_capture: Capture a display as the source image
//   - viewport_resize: Fit the image into the display area
//
// Region Selection:
//   - selection_start, selection_move, selection_end: Drag a selection
//   - selection_confirm: Crop the selected source pixels to PNG
//   - selection_cancel: Discard the selection and image
//   - selection_preview: Render the dimmed viewport with the selection
//   - selection_ocr: Read the confirmed region with Tesseract
//
// Audio:
//   - audio_load_pcm: Deliver base64 PCM16 speech
//   - audio_load_wav: Deliver speech as a WAV file
//   - audio_export_wav: Write the speech to a WAV file
//   - audio_play, audio_stop: Control playback
//
// Session:
//   - voice_select: Choose the synthesis voice
//   - session_status: Report the session snapshot
//   - session_reset: Release everything and leave the error state
//
// Confirm and preview results carry the PNG as an MCP image content item
// alongside the JSON text item.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Malformed audio is fatal to the session: every later tool that needs the
// session fails until session_reset is called.
//
// # Usage
//
//	srv, err := server.New(cfg, playback.NewSpeaker(cfg.SampleRate))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Close()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
