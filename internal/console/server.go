package console

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lowapp/nodesim/internal/discovery"
	"github.com/lowapp/nodesim/internal/identity"
	"github.com/lowapp/nodesim/internal/logging"
	"github.com/lowapp/nodesim/internal/nodeconfig"
)

const (
	// DefaultListenAddr is the console address when none is configured
	DefaultListenAddr = ":8473"

	// writeWait is the deadline for writing one response frame
	writeWait = 10 * time.Second

	// maxRequestSize caps incoming request frames. The longest legitimate
	// request is a full encKey assignment, far below this.
	maxRequestSize = 512
)

// Config holds the console server configuration
type Config struct {
	ListenAddr string            // host:port to listen on (DefaultListenAddr if empty)
	Store      *nodeconfig.Store // the node's record store
	Identity   identity.Identity // the node's identifier
	Version    string            // version reported in snapshots and mDNS TXT records
	Advertise  bool              // announce the console over mDNS
}

// Server serves a node's console over WebSocket, with a JSON status
// snapshot on the plain HTTP root
type Server struct {
	config      *Config
	handler     *Handler
	listener    net.Listener
	httpServer  *http.Server
	upgrader    websocket.Upgrader
	wg          sync.WaitGroup
	mu          sync.Mutex
	activeConns map[string]*websocket.Conn
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	if config.Store == nil {
		return nil, fmt.Errorf("console server requires a record store")
	}
	if config.ListenAddr == "" {
		config.ListenAddr = DefaultListenAddr
	}

	return &Server{
		config:      config,
		handler:     NewHandler(config.Store, config.Identity),
		upgrader:    websocket.Upgrader{ReadBufferSize: maxRequestSize, WriteBufferSize: maxRequestSize},
		activeConns: make(map[string]*websocket.Conn),
	}, nil
}

// Start starts the console server and blocks until shutdown
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddr, err)
	}
	s.listener = listener

	logging.Info("Console listening",
		zap.String("addr", listener.Addr().String()),
		zap.String("identity", s.config.Identity.String()),
		zap.String("record", s.config.Store.Path()),
	)

	// Announce over mDNS once the bound port is known. A failed
	// announcement degrades discovery, not the console itself.
	if s.config.Advertise {
		port := listener.Addr().(*net.TCPAddr).Port
		announcer, err := discovery.Announce(s.config.Identity, port, s.config.Version)
		if err != nil {
			logging.Warn("mDNS announcement failed", zap.Error(err))
		} else {
			defer announcer.Shutdown()
			logging.Info("Console announced over mDNS",
				zap.String("service", discovery.ServiceType),
				zap.Int("port", port),
			)
		}
	}

	s.httpServer = &http.Server{Handler: s.routes()}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		err := s.httpServer.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			errChan <- err
			return
		}
		errChan <- nil
	}()

	// Wait for shutdown signal or serve error
	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping console...")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// routes builds the console's HTTP mux: the JSON snapshot at / and the
// WebSocket console at /console
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleSnapshot)
	mux.HandleFunc("/console", s.handleConsole)
	return mux
}

// Snapshot is the JSON document served at the console root
type Snapshot struct {
	Identity string            `json:"identity"`
	Version  string            `json:"version"`
	Record   string            `json:"record"`
	Fields   map[string]string `json:"fields"`
}

// handleSnapshot answers GET / with the node's identity and every field in
// canonical form
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := Snapshot{
		Identity: s.config.Identity.String(),
		Version:  s.config.Version,
		Record:   s.config.Store.Path(),
		Fields:   s.config.Store.Snapshot().Fields(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(&snap); err != nil {
		logging.Error("Failed to encode snapshot",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
	}
}

// handleConsole upgrades the request and runs the session loop
func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error to the client
		logging.Error("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	s.wg.Add(1)
	defer s.wg.Done()
	s.serveSession(conn, r.RemoteAddr)
}

// serveSession runs the request/response loop for one console session
func (s *Server) serveSession(conn *websocket.Conn, remoteAddr string) {
	// Track active session
	s.mu.Lock()
	s.activeConns[remoteAddr] = conn
	s.mu.Unlock()

	defer func() {
		_ = conn.Close()
		s.mu.Lock()
		delete(s.activeConns, remoteAddr)
		s.mu.Unlock()
		logging.LogConnection(remoteAddr, "session_closed")
	}()

	logging.LogConnection(remoteAddr, "session_opened")
	conn.SetReadLimit(maxRequestSize)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Warn("Console session ended abnormally",
					zap.String("remote_addr", remoteAddr),
					zap.Error(err),
				)
			}
			return
		}

		var response string
		if msgType != websocket.TextMessage {
			response = errResponse(CodeBadRequest, "binary frames are not supported")
		} else {
			request := string(data)
			logging.LogConsoleRequest(remoteAddr, request)
			response = s.handler.Handle(request)
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(response)); err != nil {
			logging.Error("Failed to write console response",
				zap.String("remote_addr", remoteAddr),
				zap.Error(err),
			)
			return
		}
	}
}

// Shutdown gracefully shuts down the console server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down console...")

	// Stop accepting new sessions. Upgraded WebSocket connections are
	// hijacked from the HTTP server, so they are closed explicitly below.
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			logging.Error("Error shutting down HTTP server", zap.Error(err))
		}
	}

	// Close all active sessions
	s.mu.Lock()
	for addr, conn := range s.activeConns {
		logging.Info("Closing console session", zap.String("remote_addr", addr))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "node shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
	}
	s.mu.Unlock()

	// Wait for session goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All console sessions closed")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	case <-time.After(10 * time.Second):
		logging.Warn("Shutdown timeout after 10 seconds, forcing close")
	}

	logging.Sync()

	return nil
}

// GetActiveSessions returns the number of connected console sessions
func (s *Server) GetActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeConns)
}
