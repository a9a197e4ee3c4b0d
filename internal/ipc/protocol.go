package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPing        CommandType = "PING"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetWindow   CommandType = "GET_WINDOW"
	CommandRunCommand  CommandType = "RUN_COMMAND"
	CommandFocusWindow CommandType = "FOCUS_WINDOW"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	UptimeSeconds int64       `json:"uptime_seconds"`
	DaemonRunning bool        `json:"daemon_running"`
	State         wm.Snapshot `json:"state"`
}

// WindowPayload names a window for GET_WINDOW and FOCUS_WINDOW.
type WindowPayload struct {
	WindowID platform.WindowID `json:"window_id"`
}

// RunCommandPayload carries one command line, e.g. "swap master".
type RunCommandPayload struct {
	Command string `json:"command"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
