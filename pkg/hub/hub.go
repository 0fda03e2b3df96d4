// Package hub fans session events out to connected websocket
// observers using a channel-based broadcast loop.
package hub

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/marcusbk37/go-roleplay/internal/log"
	"github.com/marcusbk37/go-roleplay/pkg/session"
)

// Hub maintains the set of live observers and broadcasts session
// events to them. It implements session.Sink.
type Hub struct {
	logger *slog.Logger

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

var _ session.Sink = (*Hub)(nil)

// New creates a hub. Run must be started in a goroutine before
// clients attach.
func New() *Hub {
	return &Hub{
		logger:     log.Component("hub"),
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("observer connected", "total", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("observer disconnected", "remaining", count)

		case data := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Slow observer: drop it rather than stall the
					// session pipeline.
					close(client.send)
					delete(h.clients, client)
					h.logger.Warn("dropped slow observer")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish broadcasts a session event to all observers. It never
// blocks; events are dropped when the broadcast buffer is full.
func (h *Hub) Publish(ev session.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Warn("marshal event failed", "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("broadcast buffer full, dropping event", "type", ev.Type)
	}
}

// ClientCount returns the number of connected observers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
