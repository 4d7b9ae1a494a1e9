package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/progman/internal/apps"
	"github.com/1broseidon/progman/internal/desktop"
	"github.com/1broseidon/progman/internal/ipc"
)

// captureOutput swaps stdout and stderr for buffers and pins the output mode.
func captureOutput(t *testing.T, terminal bool) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr, oldTerm := stdout, stderr, isTerminal
	stdout, stderr = &out, &errOut
	isTerminal = func() bool { return terminal }
	t.Cleanup(func() {
		stdout, stderr, isTerminal = oldOut, oldErr, oldTerm
	})
	return &out, &errOut
}

// startDaemon serves a fresh store over IPC and points newClient at it.
func startDaemon(t *testing.T) *desktop.Store {
	t.Helper()

	dir, err := os.MkdirTemp("", "pm")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	store := desktop.NewStore(apps.Builtin(), desktop.DefaultOptions())
	live := apps.NewLive(apps.Builtin())
	server, err := ipc.NewServer(filepath.Join(dir, "s.sock"), ipc.Deps{
		Store:  store,
		Apps:   live,
		Reload: func() (int, error) { return live.Registry().Len(), nil },
	})
	require.NoError(t, err)
	require.NoError(t, server.Start())
	t.Cleanup(server.Stop)

	old := newClient
	newClient = func() *ipc.Client { return ipc.NewClientAt(server.SocketPath()) }
	t.Cleanup(func() { newClient = old })
	return store
}

func TestRun_UsageAndUnknownCommand(t *testing.T) {
	out, errOut := captureOutput(t, true)

	assert.Equal(t, 0, run(nil))
	assert.Contains(t, out.String(), "Usage: progman <command>")

	assert.Equal(t, 2, run([]string{"frobnicate"}))
	assert.Contains(t, errOut.String(), "Unknown command: frobnicate")
}

func TestRun_ArgumentErrors(t *testing.T) {
	_, errOut := captureOutput(t, true)

	assert.Equal(t, 2, run([]string{"close"}))
	assert.Contains(t, errOut.String(), "expected 1 argument(s), got 0")

	assert.Equal(t, 2, run([]string{"move", "notepad-1", "ten", "20"}))
	assert.Contains(t, errOut.String(), `invalid x "ten"`)

	assert.Equal(t, 2, run([]string{"drag", "notepad-1", "--from", "1"}))
	assert.Equal(t, 2, run([]string{"resize-edge", "notepad-1", "--handle", "middle", "--from", "0,0", "--to", "1,1"}))
	assert.Equal(t, 2, run([]string{"launch", "notepad", "--x", "10"}))
	assert.Equal(t, 2, run([]string{"daemon", "--bogus"}))
	assert.Equal(t, 0, run([]string{"list", "--help"}))
}

func TestRun_NoDaemon(t *testing.T) {
	_, errOut := captureOutput(t, true)
	old := newClient
	newClient = func() *ipc.Client { return ipc.NewClientAt(filepath.Join(t.TempDir(), "missing.sock")) }
	t.Cleanup(func() { newClient = old })

	assert.Equal(t, 1, run([]string{"status"}))
	assert.Contains(t, errOut.String(), "is the daemon running?")
}

func TestRun_LaunchJSON(t *testing.T) {
	store := startDaemon(t)
	out, _ := captureOutput(t, false)

	require.Equal(t, 0, run([]string{"launch", "notepad", "--title", "todo.txt", "--x", "10", "--y", "20"}))

	var data ipc.LaunchData
	require.NoError(t, json.Unmarshal(out.Bytes(), &data))
	assert.Equal(t, "todo.txt", data.Window.Title)
	assert.Equal(t, 10, data.Window.Position.X)
	assert.Equal(t, 20, data.Window.Position.Y)
	assert.Equal(t, data.WindowID, store.ActiveID())
}

func TestRun_LaunchUnknownApp(t *testing.T) {
	startDaemon(t)
	_, errOut := captureOutput(t, false)

	assert.Equal(t, 1, run([]string{"launch", "doom"}))
	assert.Contains(t, errOut.String(), "daemon error")
}

func TestRun_WindowCommands(t *testing.T) {
	store := startDaemon(t)
	out, errOut := captureOutput(t, true)

	id, err := store.Launch("notepad", desktop.LaunchOptions{})
	require.NoError(t, err)

	require.Equal(t, 0, run([]string{"move", id, "10", "20"}))
	w, _ := store.Window(id)
	assert.Equal(t, 10, w.Position.X)
	assert.Equal(t, 20, w.Position.Y)
	assert.Contains(t, out.String(), id)

	require.Equal(t, 0, run([]string{"resize", id, "400", "300"}))
	w, _ = store.Window(id)
	assert.Equal(t, 400, w.Size.Width)

	require.Equal(t, 0, run([]string{"drag", id, "--from", "20,30", "--to", "50,70"}))
	w, _ = store.Window(id)
	assert.Equal(t, 40, w.Position.X)
	assert.Equal(t, 60, w.Position.Y)

	require.Equal(t, 0, run([]string{"title", id, "renamed"}))
	w, _ = store.Window(id)
	assert.Equal(t, "renamed", w.Title)

	require.Equal(t, 0, run([]string{"minimize", id}))
	w, _ = store.Window(id)
	assert.Equal(t, desktop.StateMinimized, w.State)

	// Minimizing twice is a no-op, not an error.
	require.Equal(t, 0, run([]string{"minimize", id}))
	assert.Contains(t, errOut.String(), id+" unchanged")

	require.Equal(t, 0, run([]string{"restore", id}))
	w, _ = store.Window(id)
	assert.Equal(t, desktop.StateNormal, w.State)

	out.Reset()
	require.Equal(t, 0, run([]string{"close", id}))
	assert.Contains(t, out.String(), id+" closed")
	assert.Empty(t, store.Windows())
}

func TestRun_UnknownWindow(t *testing.T) {
	startDaemon(t)
	_, errOut := captureOutput(t, true)

	assert.Equal(t, 1, run([]string{"focus", "nope-1"}))
	assert.Contains(t, errOut.String(), `window "nope-1" not found`)

	assert.Equal(t, 1, run([]string{"window", "nope-1"}))
}

func TestRun_LayoutsAndList(t *testing.T) {
	store := startDaemon(t)
	out, _ := captureOutput(t, false)

	for i := 0; i < 3; i++ {
		_, err := store.Launch("clock", desktop.LaunchOptions{})
		require.NoError(t, err)
	}

	require.Equal(t, 0, run([]string{"tile"}))
	var count ipc.CountData
	require.NoError(t, json.Unmarshal(out.Bytes(), &count))
	assert.Equal(t, 3, count.Count)

	out.Reset()
	require.Equal(t, 0, run([]string{"list"}))
	var snap desktop.Snapshot
	require.NoError(t, json.Unmarshal(out.Bytes(), &snap))
	assert.Len(t, snap.Windows, 3)

	out.Reset()
	require.Equal(t, 0, run([]string{"close-all", "--table"}))
	assert.Contains(t, out.String(), "close-all: 3 window(s)")
}

func TestRun_AppsStatusReload(t *testing.T) {
	startDaemon(t)
	out, _ := captureOutput(t, true)

	require.Equal(t, 0, run([]string{"apps"}))
	assert.Contains(t, out.String(), "notepad")
	assert.Contains(t, out.String(), "500x400")

	out.Reset()
	require.Equal(t, 0, run([]string{"status"}))
	assert.Contains(t, out.String(), "daemon_running: true")

	out.Reset()
	require.Equal(t, 0, run([]string{"reload"}))
	assert.Contains(t, out.String(), "catalog reloaded: 10 app(s)")
}

func TestRun_Config(t *testing.T) {
	out, errOut := captureOutput(t, true)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("desktop:\n  width: 1280\n"), 0644))

	require.Equal(t, 0, run([]string{"config", "validate", "--path", path}))
	assert.Contains(t, out.String(), "config: ok")

	out.Reset()
	require.Equal(t, 0, run([]string{"config", "explain", "--path", path, "desktop.width"}))
	assert.Contains(t, out.String(), "source: file:")
	assert.Contains(t, out.String(), "config.yaml:2:")
	assert.Contains(t, out.String(), "1280")

	out.Reset()
	require.Equal(t, 0, run([]string{"config", "explain", "--path", path, "desktop.height"}))
	assert.Contains(t, out.String(), "source: default")

	out.Reset()
	require.Equal(t, 0, run([]string{"config", "print", "--defaults"}))
	assert.Contains(t, out.String(), "width: 1024")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("desktop:\n  width: -1\n"), 0644))
	assert.Equal(t, 1, run([]string{"config", "validate", "--path", bad}))
	assert.Contains(t, errOut.String(), "desktop.width")
}
