package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/progman/internal/apps"
	"github.com/1broseidon/progman/internal/desktop"
	"github.com/1broseidon/progman/internal/geometry"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandLaunch     CommandType = "LAUNCH"
	CommandClose      CommandType = "CLOSE"
	CommandCloseAll   CommandType = "CLOSE_ALL"
	CommandMinimize   CommandType = "MINIMIZE"
	CommandMaximize   CommandType = "MAXIMIZE"
	CommandRestore    CommandType = "RESTORE"
	CommandFocus      CommandType = "FOCUS"
	CommandMove       CommandType = "MOVE"
	CommandResize     CommandType = "RESIZE"
	CommandDrag       CommandType = "DRAG"
	CommandResizeEdge CommandType = "RESIZE_EDGE"
	CommandSetTitle   CommandType = "SET_TITLE"
	CommandCascade    CommandType = "CASCADE"
	CommandTile       CommandType = "TILE"
	CommandList       CommandType = "LIST"
	CommandGetWindow  CommandType = "GET_WINDOW"
	CommandListApps   CommandType = "LIST_APPS"
	CommandStatus     CommandType = "STATUS"
	CommandReload     CommandType = "RELOAD"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
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

// WindowPayload addresses a single window. Used by CLOSE, MINIMIZE,
// MAXIMIZE, RESTORE, FOCUS and GET_WINDOW.
type WindowPayload struct {
	WindowID string `json:"window_id"`
}

// LaunchPayload represents the payload for LAUNCH.
type LaunchPayload struct {
	AppID    string          `json:"app_id"`
	Title    string          `json:"title,omitempty"`
	Position *geometry.Point `json:"position,omitempty"`
	Size     *geometry.Size  `json:"size,omitempty"`
}

type MovePayload struct {
	WindowID string `json:"window_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

type ResizePayload struct {
	WindowID string `json:"window_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// GesturePayload replays a complete pointer gesture: pointer down at From,
// pointer up at To. Handle is required for RESIZE_EDGE and ignored by DRAG.
type GesturePayload struct {
	WindowID string          `json:"window_id"`
	Handle   geometry.Handle `json:"handle,omitempty"`
	From     geometry.Point  `json:"from"`
	To       geometry.Point  `json:"to"`
}

type SetTitlePayload struct {
	WindowID string `json:"window_id"`
	Title    string `json:"title"`
}

// LaunchData is returned by LAUNCH.
type LaunchData struct {
	WindowID string         `json:"window_id"`
	Window   desktop.Window `json:"window"`
}

// ChangedData is returned by single-window commands. Changed is false when
// the window does not exist or the command did not apply to its state.
type ChangedData struct {
	Changed bool            `json:"changed"`
	Window  *desktop.Window `json:"window,omitempty"`
}

// CountData is returned by CLOSE_ALL, CASCADE and TILE.
type CountData struct {
	Count int `json:"count"`
}

type AppsData struct {
	Apps []apps.Descriptor `json:"apps"`
}

// StatusData represents the data returned by STATUS
type StatusData struct {
	SessionID     string        `json:"session_id"`
	Seq           uint64        `json:"seq"`
	Desktop       geometry.Size `json:"desktop"`
	WindowCount   int           `json:"window_count"`
	ActiveID      string        `json:"active_id,omitempty"`
	AppCount      int           `json:"app_count"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	DaemonRunning bool          `json:"daemon_running"`
}

type ReloadData struct {
	AppCount int `json:"app_count"`
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
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// NewRequest builds a request, marshaling payload when it is non-nil.
func NewRequest(cmd CommandType, payload interface{}) (*Request, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}
	return req, nil
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// decodePayload unmarshals a request payload into out. An empty payload is
// an error; every command that calls this needs one.
func decodePayload(req *Request, out interface{}) error {
	if len(req.Payload) == 0 {
		return fmt.Errorf("%s requires a payload", req.Command)
	}
	if err := json.Unmarshal(req.Payload, out); err != nil {
		return fmt.Errorf("invalid %s payload: %w", req.Command, err)
	}
	return nil
}
