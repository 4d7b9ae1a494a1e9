package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/progman/internal/apps"
	"github.com/1broseidon/progman/internal/desktop"
	"github.com/1broseidon/progman/internal/geometry"
	"github.com/1broseidon/progman/internal/metrics"
)

type fixture struct {
	store   *desktop.Store
	metrics *metrics.Metrics
	server  *Server
	client  *Client
	reloads int
}

// startServer runs a server on a short socket path; unix socket paths are
// limited to about a hundred bytes, which t.TempDir can exceed.
func startServer(t *testing.T) *fixture {
	t.Helper()

	dir, err := os.MkdirTemp("", "pm")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	f := &fixture{
		store:   desktop.NewStore(apps.Builtin(), desktop.DefaultOptions()),
		metrics: metrics.New(),
	}
	live := apps.NewLive(apps.Builtin())
	f.server, err = NewServer(filepath.Join(dir, "s.sock"), Deps{
		Store:   f.store,
		Apps:    live,
		Metrics: f.metrics,
		Reload: func() (int, error) {
			f.reloads++
			if f.reloads > 1 {
				return 0, errors.New("bad catalog")
			}
			return live.Registry().Len(), nil
		},
	})
	require.NoError(t, err)
	require.NoError(t, f.server.Start())
	t.Cleanup(f.server.Stop)

	f.client = NewClientAt(f.server.SocketPath())
	return f
}

func TestServer_LaunchAndList(t *testing.T) {
	f := startServer(t)

	first, err := f.client.Launch(LaunchPayload{AppID: "notepad"})
	require.NoError(t, err)
	second, err := f.client.Launch(LaunchPayload{AppID: "notepad"})
	require.NoError(t, err)

	assert.NotEqual(t, first.WindowID, second.WindowID)
	assert.Equal(t, first.Window.Position.Add(geometry.Point{X: 30, Y: 30}), second.Window.Position)

	snap, err := f.client.List()
	require.NoError(t, err)
	require.Len(t, snap.Windows, 2)
	assert.Equal(t, second.WindowID, snap.ActiveID)
	assert.Equal(t, f.store.SessionID(), snap.SessionID)
}

func TestServer_LaunchUnknownApp(t *testing.T) {
	f := startServer(t)

	_, err := f.client.Launch(LaunchPayload{AppID: "solitaire-deluxe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app not found")
	assert.Empty(t, f.store.Windows())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.IPCRequests.WithLabelValues("LAUNCH", "ERROR")))
}

func TestServer_WindowCommands(t *testing.T) {
	f := startServer(t)

	launched, err := f.client.Launch(LaunchPayload{
		AppID:    "notepad",
		Position: &geometry.Point{X: 50, Y: 30},
	})
	require.NoError(t, err)
	id := launched.WindowID

	res, err := f.client.Maximize(id)
	require.NoError(t, err)
	require.True(t, res.Changed)
	assert.Equal(t, desktop.StateMaximized, res.Window.State)

	res, err = f.client.Restore(id)
	require.NoError(t, err)
	assert.Equal(t, geometry.Point{X: 50, Y: 30}, res.Window.Position)
	assert.Equal(t, geometry.Size{Width: 500, Height: 400}, res.Window.Size)

	res, err = f.client.Minimize(id)
	require.NoError(t, err)
	assert.False(t, res.Window.Active)

	res, err = f.client.Minimize(id)
	require.NoError(t, err)
	assert.False(t, res.Changed, "already minimized")
	require.NotNil(t, res.Window)

	res, err = f.client.Focus(id)
	require.NoError(t, err)
	assert.True(t, res.Window.Active)
	assert.Equal(t, desktop.StateNormal, res.Window.State)

	res, err = f.client.Restore(id)
	require.NoError(t, err)
	assert.False(t, res.Changed, "already normal")
	assert.Equal(t, desktop.StateNormal, res.Window.State)

	res, err = f.client.Move(id, 5, 6)
	require.NoError(t, err)
	assert.Equal(t, geometry.Point{X: 5, Y: 6}, res.Window.Position)

	res, err = f.client.Resize(id, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, launched.Window.MinSize, res.Window.Size)

	res, err = f.client.SetTitle(id, "notes.txt - Notepad")
	require.NoError(t, err)
	assert.Equal(t, "notes.txt - Notepad", res.Window.Title)

	w, err := f.client.GetWindow(id)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt - Notepad", w.Title)

	res, err = f.client.Close(id)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Nil(t, res.Window)

	_, err = f.client.GetWindow(id)
	assert.Error(t, err)
}

func TestServer_UnknownWindowIsNoOp(t *testing.T) {
	f := startServer(t)

	for _, op := range []func(string) (*ChangedData, error){
		f.client.Close, f.client.Minimize, f.client.Maximize, f.client.Restore, f.client.Focus,
	} {
		res, err := op("ghost-1")
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.Nil(t, res.Window)
	}
}

func TestServer_Gestures(t *testing.T) {
	f := startServer(t)

	launched, err := f.client.Launch(LaunchPayload{AppID: "notepad", Position: &geometry.Point{X: 100, Y: 100}})
	require.NoError(t, err)
	id := launched.WindowID

	res, err := f.client.Drag(id, geometry.Point{X: 150, Y: 110}, geometry.Point{X: 170, Y: 90})
	require.NoError(t, err)
	require.True(t, res.Changed)
	assert.Equal(t, geometry.Point{X: 120, Y: 80}, res.Window.Position)

	res, err = f.client.ResizeEdge(id, geometry.HandleSE, geometry.Point{X: 620, Y: 480}, geometry.Point{X: 520, Y: 430})
	require.NoError(t, err)
	assert.Equal(t, geometry.Point{X: 120, Y: 80}, res.Window.Position)
	assert.Equal(t, geometry.Size{Width: 400, Height: 350}, res.Window.Size)

	_, err = f.client.Maximize(id)
	require.NoError(t, err)
	res, err = f.client.Drag(id, geometry.Point{}, geometry.Point{X: 10, Y: 10})
	require.NoError(t, err)
	assert.False(t, res.Changed, "maximized windows do not drag")
}

func TestServer_ResizeEdgeRequiresHandle(t *testing.T) {
	f := startServer(t)
	launched, err := f.client.Launch(LaunchPayload{AppID: "notepad"})
	require.NoError(t, err)

	_, err = f.client.ResizeEdge(launched.WindowID, 0, geometry.Point{}, geometry.Point{X: 1, Y: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handle is required")
}

func TestServer_Layouts(t *testing.T) {
	f := startServer(t)
	for i := 0; i < 3; i++ {
		_, err := f.client.Launch(LaunchPayload{AppID: "clock"})
		require.NoError(t, err)
	}

	n, err := f.client.Tile()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = f.client.Cascade()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = f.client.CloseAll()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Empty(t, f.store.Windows())
}

func TestServer_AppsStatusReload(t *testing.T) {
	f := startServer(t)

	list, err := f.client.ListApps()
	require.NoError(t, err)
	assert.Len(t, list.Apps, apps.Builtin().Len())

	_, err = f.client.Launch(LaunchPayload{AppID: "notepad"})
	require.NoError(t, err)

	status, err := f.client.Status()
	require.NoError(t, err)
	assert.True(t, status.DaemonRunning)
	assert.Equal(t, 1, status.WindowCount)
	assert.Equal(t, apps.Builtin().Len(), status.AppCount)
	assert.Equal(t, f.store.SessionID(), status.SessionID)
	assert.NoError(t, f.client.Ping())

	n, err := f.client.Reload()
	require.NoError(t, err)
	assert.Equal(t, apps.Builtin().Len(), n)

	_, err = f.client.Reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad catalog")
}

func TestServer_MalformedRequests(t *testing.T) {
	f := startServer(t)

	send := func(line string) Response {
		conn, err := net.Dial("unix", f.server.SocketPath())
		require.NoError(t, err)
		defer conn.Close()
		_, err = conn.Write([]byte(line + "\n"))
		require.NoError(t, err)
		data, err := bufio.NewReader(conn).ReadBytes('\n')
		require.NoError(t, err)
		var resp Response
		require.NoError(t, json.Unmarshal(data, &resp))
		return resp
	}

	resp := send("not json")
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "Invalid request")

	resp = send(`{"command":"SHUFFLE"}`)
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "Unknown command")

	resp = send(`{"command":"MOVE"}`)
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "requires a payload")
}

func TestClient_NoDaemon(t *testing.T) {
	c := NewClientAt(filepath.Join(t.TempDir(), "missing.sock"))
	err := c.Ping()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is the daemon running?")
}

func TestServer_StopRemovesSocket(t *testing.T) {
	f := startServer(t)
	f.server.Stop()

	_, err := os.Stat(f.server.SocketPath())
	assert.True(t, os.IsNotExist(err))
}
