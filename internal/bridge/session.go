package bridge

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/ledlink/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

func newSessionID() string {
	return uuid.NewString()
}

// session is one websocket client. Reads happen on run's goroutine, each
// invocation gets its own goroutine, and writes are serialized by writeMu.
type session struct {
	id     string
	conn   *websocket.Conn
	server *Server

	writeMu   sync.Mutex
	closeOnce sync.Once
	calls     sync.WaitGroup
}

func newSession(id string, conn *websocket.Conn, server *Server) *session {
	return &session{id: id, conn: conn, server: server}
}

// run reads requests until the connection closes, then waits for in-flight
// invocations to finish.
func (s *session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		s.calls.Wait()
		s.close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go s.pingLoop(ctx)

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Info("Session read error",
					zap.String("session", s.id),
					zap.Error(err),
				)
			}
			return
		}

		var req Request
		if err := json.Unmarshal(msg, &req); err != nil {
			s.write(Response{
				OK:    false,
				Error: "request is not valid JSON",
				Kind:  KindInvalidRequest,
			})
			continue
		}

		s.calls.Add(1)
		go func() {
			defer s.calls.Done()
			s.write(s.server.invoke(ctx, req))
		}()
	}
}

func (s *session) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func (s *session) write(resp Response) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(resp); err != nil {
		logging.Debug("Failed to write response",
			zap.String("session", s.id),
			zap.String("id", resp.ID),
			zap.Error(err),
		)
	}
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "bridge shutting down"),
			time.Now().Add(time.Second))
		s.writeMu.Unlock()
		_ = s.conn.Close()
	})
}
