package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/progman/internal/apps"
	"github.com/1broseidon/progman/internal/desktop"
	"github.com/1broseidon/progman/internal/metrics"
)

type fixture struct {
	base    string
	server  *Server
	store   *desktop.Store
	metrics *metrics.Metrics
}

func startTestServer(t *testing.T) *fixture {
	t.Helper()

	store := desktop.NewStore(apps.Builtin(), desktop.DefaultOptions())
	broker := desktop.NewBroker(store.Snapshot())
	store.Subscribe(broker)
	m := metrics.New()

	s := New(Config{Listen: "127.0.0.1:0"}, Deps{
		Store:   store,
		Broker:  broker,
		Apps:    apps.NewLive(apps.Builtin()),
		Metrics: m,
	})
	ln, err := s.Listen()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
		<-done
	})

	return &fixture{base: "http://" + s.Addr(), server: s, store: store, metrics: m}
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}
	return resp.StatusCode
}

func dial(t *testing.T, f *fixture) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+f.base[len("http"):]+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.CloseNow() })
	return conn
}

// readUntil reads snapshots until match accepts one or the deadline passes.
func readUntil(t *testing.T, conn *websocket.Conn, match func(desktop.Snapshot) bool) desktop.Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	for {
		var snap desktop.Snapshot
		require.NoError(t, wsjson.Read(ctx, conn, &snap))
		if match(snap) {
			return snap
		}
	}
}

func TestHealth(t *testing.T) {
	f := startTestServer(t)

	var body map[string]string
	require.Equal(t, http.StatusOK, getJSON(t, f.base+"/api/health", &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, f.store.SessionID(), body["session_id"])
}

func TestDesktopSnapshot(t *testing.T) {
	f := startTestServer(t)
	id, err := f.store.Launch("notepad", desktop.LaunchOptions{})
	require.NoError(t, err)

	var snap desktop.Snapshot
	require.Equal(t, http.StatusOK, getJSON(t, f.base+"/api/desktop", &snap))
	require.Len(t, snap.Windows, 1)
	assert.Equal(t, id, snap.ActiveID)
	assert.Equal(t, desktop.StateNormal, snap.Windows[0].State)

	var w desktop.Window
	require.Equal(t, http.StatusOK, getJSON(t, f.base+"/api/desktop/windows/"+id, &w))
	assert.Equal(t, "notepad", w.AppID)

	assert.Equal(t, http.StatusNotFound, getJSON(t, f.base+"/api/desktop/windows/ghost-1", nil))
}

func TestApps(t *testing.T) {
	f := startTestServer(t)

	var body struct {
		Apps []apps.Descriptor `json:"apps"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, f.base+"/api/apps", &body))
	assert.Len(t, body.Apps, apps.Builtin().Len())
}

func TestStream_SnapshotOnConnectAndChange(t *testing.T) {
	f := startTestServer(t)
	conn := dial(t, f)

	first := readUntil(t, conn, func(desktop.Snapshot) bool { return true })
	assert.Empty(t, first.Windows)
	assert.Equal(t, f.store.SessionID(), first.SessionID)

	id, err := f.store.Launch("clock", desktop.LaunchOptions{})
	require.NoError(t, err)
	launched := readUntil(t, conn, func(s desktop.Snapshot) bool { return len(s.Windows) == 1 })
	assert.Equal(t, id, launched.ActiveID)

	f.store.Maximize(id)
	maxed := readUntil(t, conn, func(s desktop.Snapshot) bool {
		w, ok := s.Window(id)
		return ok && w.State == desktop.StateMaximized
	})
	assert.Greater(t, maxed.Seq, launched.Seq)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.WSConnections))
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(f.metrics.WSMessages) >= 3
	}, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "done"))
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(f.metrics.WSConnections) == 0
	}, 3*time.Second, 10*time.Millisecond)
}

func TestStream_ShutdownClosesStreams(t *testing.T) {
	f := startTestServer(t)
	conn := dial(t, f)
	readUntil(t, conn, func(desktop.Snapshot) bool { return true })

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, f.server.Shutdown(ctx))

	_, _, err := conn.Read(ctx)
	require.Error(t, err)
}

func TestMetricsEndpoint(t *testing.T) {
	f := startTestServer(t)

	resp, err := http.Get(f.base + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "progman_ws_connections")
}

func TestStream_WithoutBroker(t *testing.T) {
	store := desktop.NewStore(apps.Builtin(), desktop.DefaultOptions())
	s := New(Config{Listen: "127.0.0.1:0"}, Deps{Store: store})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
