package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/progman/internal/apps"
	"github.com/1broseidon/progman/internal/desktop"
	"github.com/1broseidon/progman/internal/metrics"
	"github.com/1broseidon/progman/internal/runtimepath"
)

// Deps are the collaborators a Server answers requests from.
type Deps struct {
	Store *desktop.Store
	Apps  *apps.Live
	// Reload re-reads the application catalog and returns the new app count.
	// nil makes RELOAD an error.
	Reload  func() (int, error)
	Metrics *metrics.Metrics // optional
	Logger  *zap.Logger      // optional
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	deps         Deps
	logger       *zap.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	conns        sync.WaitGroup
}

// NewServer creates a new IPC server. An empty socketPath uses the runtime
// directory default.
func NewServer(socketPath string, deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("ipc server requires a store")
	}
	if socketPath == "" {
		p, err := runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
		socketPath = p
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		socketPath: socketPath,
		deps:       deps,
		logger:     logger.Named("ipc"),
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("listening", zap.String("socket", s.socketPath))

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isShuttingDown() {
				return
			}
			s.logger.Warn("accept failed", zap.Error(err))
			continue
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) isShuttingDown() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

// handleConnection answers one request per connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("read failed", zap.Error(err))
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)
	if s.deps.Metrics != nil {
		s.deps.Metrics.IPCRequests.WithLabelValues(string(req.Command), resp.Status).Inc()
	}
	if resp.Status == StatusError {
		s.logger.Debug("request failed", zap.String("command", string(req.Command)), zap.String("error", resp.Error))
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("marshal response failed", zap.Error(err))
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("write response failed", zap.Error(err))
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandLaunch:
		return s.handleLaunch(req)
	case CommandClose:
		return s.handleWindowCommand(req, s.deps.Store.Close)
	case CommandCloseAll:
		return s.respond(CountData{Count: s.deps.Store.CloseAll()})
	case CommandMinimize:
		return s.handleWindowCommand(req, s.deps.Store.Minimize)
	case CommandMaximize:
		return s.handleWindowCommand(req, s.deps.Store.Maximize)
	case CommandRestore:
		return s.handleWindowCommand(req, s.deps.Store.Restore)
	case CommandFocus:
		return s.handleWindowCommand(req, s.deps.Store.Focus)
	case CommandMove:
		return s.handleMove(req)
	case CommandResize:
		return s.handleResize(req)
	case CommandDrag, CommandResizeEdge:
		return s.handleGesture(req)
	case CommandSetTitle:
		return s.handleSetTitle(req)
	case CommandCascade:
		return s.respond(CountData{Count: s.deps.Store.Cascade()})
	case CommandTile:
		return s.respond(CountData{Count: s.deps.Store.Tile()})
	case CommandList:
		return s.respond(s.deps.Store.Snapshot())
	case CommandGetWindow:
		return s.handleGetWindow(req)
	case CommandListApps:
		return s.handleListApps()
	case CommandStatus:
		return s.handleStatus()
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) respond(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// changed reports the outcome of a single-window command along with the
// window's state afterwards, if it still exists.
func (s *Server) changed(id string, ok bool) *Response {
	data := ChangedData{Changed: ok}
	if w, found := s.deps.Store.Window(id); found {
		data.Window = &w
	}
	return s.respond(data)
}

func (s *Server) handleLaunch(req *Request) *Response {
	var p LaunchPayload
	if err := decodePayload(req, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	if p.AppID == "" {
		return NewErrorResponse("app_id is required")
	}

	id, err := s.deps.Store.Launch(p.AppID, desktop.LaunchOptions{
		Title:    p.Title,
		Position: p.Position,
		Size:     p.Size,
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	w, _ := s.deps.Store.Window(id)
	return s.respond(LaunchData{WindowID: id, Window: w})
}

func (s *Server) handleWindowCommand(req *Request, op func(string) bool) *Response {
	var p WindowPayload
	if err := decodePayload(req, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	return s.changed(p.WindowID, op(p.WindowID))
}

func (s *Server) handleMove(req *Request) *Response {
	var p MovePayload
	if err := decodePayload(req, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	return s.changed(p.WindowID, s.deps.Store.Move(p.WindowID, p.X, p.Y))
}

func (s *Server) handleResize(req *Request) *Response {
	var p ResizePayload
	if err := decodePayload(req, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	return s.changed(p.WindowID, s.deps.Store.Resize(p.WindowID, p.Width, p.Height))
}

func (s *Server) handleGesture(req *Request) *Response {
	var p GesturePayload
	if err := decodePayload(req, &p); err != nil {
		return NewErrorResponse(err.Error())
	}

	var (
		g  *desktop.Gesture
		ok bool
	)
	if req.Command == CommandResizeEdge {
		if !p.Handle.Valid() {
			return NewErrorResponse("handle is required for RESIZE_EDGE")
		}
		g, ok = s.deps.Store.BeginResize(p.WindowID, p.Handle, p.From)
	} else {
		g, ok = s.deps.Store.BeginDrag(p.WindowID, p.From)
	}
	if !ok {
		return s.changed(p.WindowID, false)
	}
	defer g.End()

	return s.changed(p.WindowID, g.Update(p.To))
}

func (s *Server) handleSetTitle(req *Request) *Response {
	var p SetTitlePayload
	if err := decodePayload(req, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	return s.changed(p.WindowID, s.deps.Store.SetTitle(p.WindowID, p.Title))
}

func (s *Server) handleGetWindow(req *Request) *Response {
	var p WindowPayload
	if err := decodePayload(req, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	w, ok := s.deps.Store.Window(p.WindowID)
	if !ok {
		return NewErrorResponse(fmt.Sprintf("window %q not found", p.WindowID))
	}
	return s.respond(w)
}

func (s *Server) handleListApps() *Response {
	if s.deps.Apps == nil {
		return s.respond(AppsData{Apps: []apps.Descriptor{}})
	}
	return s.respond(AppsData{Apps: s.deps.Apps.Registry().List()})
}

func (s *Server) handleStatus() *Response {
	snap := s.deps.Store.Snapshot()
	status := StatusData{
		SessionID:     snap.SessionID,
		Seq:           snap.Seq,
		Desktop:       snap.Desktop,
		WindowCount:   len(snap.Windows),
		ActiveID:      snap.ActiveID,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}
	if s.deps.Apps != nil {
		status.AppCount = s.deps.Apps.Registry().Len()
	}
	return s.respond(status)
}

func (s *Server) handleReload() *Response {
	if s.deps.Reload == nil {
		return NewErrorResponse("catalog reload is not configured")
	}
	s.logger.Info("reload requested")

	n, err := s.deps.Reload()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload catalog: %v", err))
	}
	return s.respond(ReloadData{AppCount: n})
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop closes the listener, waits for in-flight requests, and removes the
// socket file.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.conns.Wait()
	os.Remove(s.socketPath)
}
