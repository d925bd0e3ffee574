// Package spectate streams simulation snapshots to read-only websocket
// viewers.
package spectate

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Hub maintains the set of connected spectators and fans frames out to them.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	// Last snapshot frame, replayed to new spectators.
	last []byte

	// Closed when Run returns.
	done chan struct{}

	logger *log.Logger
}

// NewHub creates a new Hub. Call Run to start it.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations until ctx is done, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			last := h.last
			h.mu.Unlock()
			if last != nil {
				client.enqueue(last)
			}
			h.logger.Info("spectator connected", "client", client.ID)

		case client := <-h.unregister:
			h.remove(client)
			h.logger.Info("spectator disconnected", "client", client.ID)

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// join hands a client to Run. Returns false if the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave hands a client back to Run, unless the hub has stopped.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

// Broadcast sends a frame to all connected clients. Slow clients drop frames
// instead of stalling the game.
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if !client.enqueue(data) {
			h.logger.Debug("spectator send buffer full", "client", client.ID)
		}
	}
}

// remember stores the latest snapshot frame for late joiners.
func (h *Hub) remember(data []byte) {
	h.mu.Lock()
	h.last = data
	h.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
