package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/progman/internal/desktop"
	"github.com/1broseidon/progman/internal/geometry"
	"github.com/1broseidon/progman/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for the socket at socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends cmd with payload and decodes the response data into out, if
// out is non-nil.
func (c *Client) call(cmd CommandType, payload, out interface{}) error {
	req, err := NewRequest(cmd, payload)
	if err != nil {
		return err
	}
	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

func (c *Client) windowCommand(cmd CommandType, id string) (*ChangedData, error) {
	var data ChangedData
	if err := c.call(cmd, WindowPayload{WindowID: id}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Launch opens a window for appID.
func (c *Client) Launch(p LaunchPayload) (*LaunchData, error) {
	var data LaunchData
	if err := c.call(CommandLaunch, p, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) Close(id string) (*ChangedData, error) {
	return c.windowCommand(CommandClose, id)
}

// CloseAll closes every window and returns how many were open.
func (c *Client) CloseAll() (int, error) {
	var data CountData
	if err := c.call(CommandCloseAll, nil, &data); err != nil {
		return 0, err
	}
	return data.Count, nil
}

func (c *Client) Minimize(id string) (*ChangedData, error) {
	return c.windowCommand(CommandMinimize, id)
}

func (c *Client) Maximize(id string) (*ChangedData, error) {
	return c.windowCommand(CommandMaximize, id)
}

func (c *Client) Restore(id string) (*ChangedData, error) {
	return c.windowCommand(CommandRestore, id)
}

func (c *Client) Focus(id string) (*ChangedData, error) {
	return c.windowCommand(CommandFocus, id)
}

func (c *Client) Move(id string, x, y int) (*ChangedData, error) {
	var data ChangedData
	if err := c.call(CommandMove, MovePayload{WindowID: id, X: x, Y: y}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) Resize(id string, width, height int) (*ChangedData, error) {
	var data ChangedData
	if err := c.call(CommandResize, ResizePayload{WindowID: id, Width: width, Height: height}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Drag replays a title-bar drag from one pointer position to another.
func (c *Client) Drag(id string, from, to geometry.Point) (*ChangedData, error) {
	var data ChangedData
	if err := c.call(CommandDrag, GesturePayload{WindowID: id, From: from, To: to}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ResizeEdge replays a resize gesture on handle.
func (c *Client) ResizeEdge(id string, h geometry.Handle, from, to geometry.Point) (*ChangedData, error) {
	var data ChangedData
	p := GesturePayload{WindowID: id, Handle: h, From: from, To: to}
	if err := c.call(CommandResizeEdge, p, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) SetTitle(id, title string) (*ChangedData, error) {
	var data ChangedData
	if err := c.call(CommandSetTitle, SetTitlePayload{WindowID: id, Title: title}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Cascade arranges the visible windows and returns how many moved.
func (c *Client) Cascade() (int, error) {
	var data CountData
	if err := c.call(CommandCascade, nil, &data); err != nil {
		return 0, err
	}
	return data.Count, nil
}

// Tile arranges the visible windows in a grid and returns how many moved.
func (c *Client) Tile() (int, error) {
	var data CountData
	if err := c.call(CommandTile, nil, &data); err != nil {
		return 0, err
	}
	return data.Count, nil
}

// List returns a snapshot of the desktop.
func (c *Client) List() (*desktop.Snapshot, error) {
	var snap desktop.Snapshot
	if err := c.call(CommandList, nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Client) GetWindow(id string) (*desktop.Window, error) {
	var w desktop.Window
	if err := c.call(CommandGetWindow, WindowPayload{WindowID: id}, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) ListApps() (*AppsData, error) {
	var data AppsData
	if err := c.call(CommandListApps, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Status retrieves daemon status
func (c *Client) Status() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Reload asks the daemon to re-read its application catalog.
func (c *Client) Reload() (int, error) {
	var data ReloadData
	if err := c.call(CommandReload, nil, &data); err != nil {
		return 0, err
	}
	return data.AppCount, nil
}

// Ping checks if the daemon is running
func (c *Client) Ping() error {
	_, err := c.Status()
	return err
}
