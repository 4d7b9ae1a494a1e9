package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/progman/internal/apps"
	"github.com/1broseidon/progman/internal/desktop"
	"github.com/1broseidon/progman/internal/metrics"
)

// Config holds web server configuration.
type Config struct {
	// Listen is a host:port address; port 0 picks a free port.
	Listen string
}

// Deps are the collaborators the web server reads from.
type Deps struct {
	Store   *desktop.Store
	Broker  *desktop.Broker
	Apps    *apps.Live       // optional
	Metrics *metrics.Metrics // optional; /metrics is not served without it
	Logger  *zap.Logger      // optional
}

// Server exposes the desktop over HTTP: a JSON snapshot endpoint, a
// websocket snapshot stream, and Prometheus metrics.
type Server struct {
	httpServer *http.Server
	addr       string
	listener   net.Listener
	deps       Deps
	logger     *zap.Logger

	// streams is cancelled on Shutdown; hijacked websocket connections are
	// not tracked by http.Server.
	streams context.Context
	stop    context.CancelFunc
}

// New creates a web server.
func New(cfg Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	streams, stop := context.WithCancel(context.Background())

	s := &Server{
		httpServer: &http.Server{
			Addr:              cfg.Listen,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		addr:    cfg.Listen,
		deps:    deps,
		logger:  logger.Named("web"),
		streams: streams,
		stop:    stop,
	}

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/desktop", s.handleDesktop)
	mux.HandleFunc("GET /api/desktop/windows/{id}", s.handleWindow)
	mux.HandleFunc("GET /api/apps", s.handleApps)
	mux.HandleFunc("GET /ws", s.handleStream)
	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics.Handler())
	}

	return s
}

// Handler returns the server's routes, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Listen binds the server to its configured address and returns the listener.
// Call Serve() after Listen() to start accepting connections.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("web server listen: %w", err)
	}
	s.listener = ln
	return ln, nil
}

// Serve accepts connections on the listener. Blocks until the server stops.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("web server started", zap.String("addr", ln.Addr().String()))
	return s.httpServer.Serve(ln)
}

// Addr returns the address the server is listening on.
// Only valid after Listen() has been called.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Shutdown closes open websocket streams and gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("web server shutting down")
	s.stop()
	return s.httpServer.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "ok",
		"session_id": s.deps.Store.SessionID(),
	})
}

func (s *Server) handleDesktop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Store.Snapshot())
}

func (s *Server) handleWindow(w http.ResponseWriter, r *http.Request) {
	win, ok := s.deps.Store.Window(r.PathValue("id"))
	if !ok {
		http.Error(w, "window not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, win)
}

func (s *Server) handleApps(w http.ResponseWriter, r *http.Request) {
	list := []apps.Descriptor{}
	if s.deps.Apps != nil {
		list = s.deps.Apps.Registry().List()
	}
	writeJSON(w, http.StatusOK, map[string]any{"apps": list})
}
