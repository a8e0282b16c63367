// Package websocket pushes data:update events to connected dashboard
// clients so they can re-fetch views after an upload, filter change, or
// edit lands.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"spendlens/pkg/contracts/events"
)

// Hub maintains the set of active clients and broadcasts messages to
// them. Clients subscribe to a single session ID and only receive that
// session's events.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool

	broadcast  chan events.Message
	register   chan *Client
	unregister chan *Client

	logger *slog.Logger
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan events.Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With(slog.String("component", "websocket_hub")),
	}
}

// Run processes register/unregister/broadcast events until the context
// is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("client registered",
				slog.String("client_id", client.id),
				slog.String("session_id", client.sessionID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// Broadcast queues a message for all clients subscribed to its session.
// Never blocks the caller; drops the message when the hub is saturated.
func (h *Hub) Broadcast(msg events.Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("broadcast queue full, dropping message", slog.String("type", string(msg.Type)))
	}
}

// NotifyDataUpdate broadcasts a data:update event for a session.
func (h *Hub) NotifyDataUpdate(sessionID, reason, traceID string) {
	h.Broadcast(events.NewDataUpdate(sessionID, reason, traceID))
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) deliver(msg events.Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal message", slog.String("error", err.Error()))
		return
	}

	update, _ := msg.Data.(events.DataUpdate)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if update.SessionID != "" && client.sessionID != update.SessionID {
			continue
		}
		select {
		case client.send <- payload:
		default:
			// Slow client; drop the frame rather than stall the hub.
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}
