package web

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/1broseidon/progman/internal/desktop"
)

const writeTimeout = 5 * time.Second

// handleStream upgrades to a websocket and writes a desktop snapshot on
// connect and after every store change. Snapshots are coalesced: a slow
// client skips straight to the newest one. Client messages are ignored.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.deps.Broker == nil {
		http.Error(w, "event stream unavailable", http.StatusServiceUnavailable)
		return
	}

	// Subscribe before reading the first snapshot so no change between the
	// two is lost.
	signal, unsubscribe := s.deps.Broker.Subscribe()
	defer unsubscribe()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"127.0.0.1:*", "localhost:*"},
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer func() { _ = conn.CloseNow() }()

	// Do not use r.Context() after the upgrade. CloseRead discards client
	// frames and cancels ctx once the peer goes away.
	ctx := conn.CloseRead(s.streams)

	if m := s.deps.Metrics; m != nil {
		m.WSConnections.Inc()
		defer m.WSConnections.Dec()
	}
	s.logger.Debug("stream connected", zap.String("remote", r.RemoteAddr))

	if err := s.writeSnapshot(ctx, conn, s.deps.Store.Snapshot()); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("stream disconnected", zap.String("remote", r.RemoteAddr))
			_ = conn.Close(websocket.StatusGoingAway, "shutting down")
			return
		case <-signal:
			if err := s.writeSnapshot(ctx, conn, s.deps.Broker.Latest()); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeSnapshot(ctx context.Context, conn *websocket.Conn, snap desktop.Snapshot) error {
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := wsjson.Write(wctx, conn, snap); err != nil {
		s.logger.Debug("stream write failed", zap.Error(err))
		return err
	}
	if m := s.deps.Metrics; m != nil {
		m.WSMessages.Inc()
	}
	return nil
}
