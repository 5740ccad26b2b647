package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/muurk/ledlink/internal/logging"
	"github.com/muurk/ledlink/internal/udp"
	"github.com/muurk/ledlink/internal/urls"
)

// SessionHeader carries the session ID in the websocket upgrade response
const SessionHeader = "X-Ledlink-Session"

// Transport performs the UDP operations behind each invocation.
// *udp.Client implements it.
type Transport interface {
	SendContext(ctx context.Context, ip, data string) error
	SendAndReceiveContext(ctx context.Context, ip, data string) (string, error)
	ScanContext(ctx context.Context) ([]udp.DeviceRecord, error)
}

// Config holds the bridge configuration
type Config struct {
	Host    string
	Port    int
	Version string // Reported by /metrics
}

// Server exposes the UDP operations over a websocket so a UI running
// elsewhere can drive LED controllers on this host's network.
type Server struct {
	config    *Config
	transport Transport
	metrics   *Metrics
	upgrader  websocket.Upgrader

	httpServer *http.Server
	listener   net.Listener

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*session
	wg       sync.WaitGroup
}

// New creates a bridge server
func New(config *Config, transport Transport) *Server {
	if config == nil {
		config = &Config{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		config:    config,
		transport: transport,
		metrics:   NewMetrics(config.Version),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*session),
	}
}

// Metrics returns the server's collectors
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler returns the HTTP routes: /ws, /metrics, /healthz and an index at /
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/", handleIndex)
	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "ledlink bridge\n\nPaths:\n- Websocket: /ws\n- Metrics: /metrics\n- Health: /healthz\n\nDocs: %s\n", urls.BridgeGuide)
}

// Start listens and serves until ctx is cancelled, then shuts down
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.Info("Bridge listening",
		zap.String("addr", listener.Addr().String()),
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown requested, stopping bridge...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Addr returns the listening address once Start has bound it
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting connections, closes open sessions, and waits for
// in-flight invocations.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down bridge...")

	s.cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			logging.Error("Error stopping HTTP server", zap.Error(err))
		}
	}

	s.mu.Lock()
	for id, sess := range s.sessions {
		logging.Info("Closing session", zap.String("session", id))
		sess.close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All sessions closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
		return ctx.Err()
	}

	logging.Sync()
	return nil
}

// ActiveSessions returns the number of open websocket sessions
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.ctx.Err() != nil {
		http.Error(w, "bridge is shutting down", http.StatusServiceUnavailable)
		return
	}

	id := newSessionID()
	conn, err := s.upgrader.Upgrade(w, r, http.Header{SessionHeader: []string{id}})
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	sess := newSession(id, conn, s)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	s.metrics.sessions.Inc()
	logging.LogConnection(r.RemoteAddr, "session_opened")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		sess.run(s.ctx)

		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		s.metrics.sessions.Dec()
		logging.LogConnection(r.RemoteAddr, "session_closed")
	}()
}

// dispatch runs one invocation against the transport
func (s *Server) dispatch(ctx context.Context, req Request) (any, error) {
	cmd, ok := canonicalCommand(req.Cmd)
	if !ok {
		return nil, &RequestError{Message: fmt.Sprintf("unknown command %q", req.Cmd)}
	}

	switch cmd {
	case CmdSend:
		args, err := decodeSendArgs(req.Args)
		if err != nil {
			return nil, err
		}
		if err := s.transport.SendContext(ctx, args.IP, args.Data); err != nil {
			return nil, err
		}
		return SentResult, nil

	case CmdSendAndReceive:
		args, err := decodeSendArgs(req.Args)
		if err != nil {
			return nil, err
		}
		reply, err := s.transport.SendAndReceiveContext(ctx, args.IP, args.Data)
		if err != nil {
			return nil, err
		}
		return reply, nil

	case CmdScan:
		records, err := s.transport.ScanContext(ctx)
		if err != nil && len(records) == 0 {
			return nil, err
		}
		return records, err
	}

	return nil, &RequestError{Message: fmt.Sprintf("unknown command %q", req.Cmd)}
}

// invoke runs dispatch, records metrics and builds the response
func (s *Server) invoke(ctx context.Context, req Request) Response {
	start := time.Now()
	result, err := s.dispatch(ctx, req)

	label := "unknown"
	if cmd, ok := canonicalCommand(req.Cmd); ok {
		label = cmd
	}
	s.metrics.observe(label, err, time.Since(start).Seconds())

	resp := Response{ID: req.ID, OK: err == nil, Result: result}
	if err != nil {
		resp.Error = udp.ShortMessage(err)
		resp.Kind = errorKind(err)
		logging.Debug("Invocation failed",
			zap.String("id", req.ID),
			zap.String("cmd", req.Cmd),
			zap.Error(err),
		)
	}
	return resp
}

func errorKind(err error) string {
	if IsRequestError(err) {
		return KindInvalidRequest
	}
	if kind, ok := udp.KindOf(err); ok {
		return kind.String()
	}
	return "Internal"
}
