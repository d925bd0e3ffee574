package spectate

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-flappy/internal/flappy"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Viewers are read-only
	},
}

// Server publishes one player's game to websocket spectators at /ws, with a
// liveness probe at /health.
type Server struct {
	hub    *Hub
	player string
	logger *log.Logger
	http   *http.Server
	cancel context.CancelFunc
	ln     net.Listener
}

// NewServer creates a spectator server for player listening on addr.
func NewServer(addr, player string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		hub:    NewHub(logger),
		player: player,
		logger: logger,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	ctx, s.cancel = context.WithCancel(ctx)
	go s.hub.Run(ctx)
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("spectator server failed", "err", err)
		}
	}()

	s.logger.Info("spectator server listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.http.Addr
	}
	return s.ln.Addr().String()
}

// Shutdown stops accepting spectators and disconnects the current ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	return s.http.Shutdown(ctx)
}

// Publish broadcasts a snapshot to every spectator.
func (s *Server) Publish(snap flappy.Snapshot) {
	data, err := encode(TypeSnapshot, snap)
	if err != nil {
		s.logger.Error("cannot encode snapshot", "err", err)
		return
	}
	s.hub.remember(data)
	s.hub.Broadcast(data)
}

// HandleEvent forwards simulation events to spectators.
func (s *Server) HandleEvent(e flappy.Event) {
	data, err := encode(TypeEvent, EventPayload{Event: e.String()})
	if err != nil {
		s.logger.Error("cannot encode event", "err", err)
		return
	}
	s.hub.Broadcast(data)
}

// Spectators returns the number of connected viewers.
func (s *Server) Spectators() int {
	return s.hub.ClientCount()
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	client := newClient(uuid.NewString(), s.hub, conn)
	hello, err := encode(TypeHello, HelloPayload{ClientID: client.ID, Player: s.player})
	if err == nil {
		client.enqueue(hello)
	}

	if !s.hub.join(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

var _ flappy.EventSink = (*Server)(nil)
