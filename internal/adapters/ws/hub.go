// Package ws streams read-only tracker snapshots to rendering
// collaborators over websockets. Clients only receive; slow clients are
// dropped rather than allowed to block a broadcast.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/breakside/pkg/logger"
	"github.com/okian/breakside/pkg/metrics"
)

// Connection tuning.
const (
	writeWait      = 5 * time.Second
	clientBuffer   = 16
	broadcastQueue = 256
)

// Hub maintains the set of connected clients and fans snapshots out to
// them.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}

	broadcast chan []byte
	logger    logger.Logger
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a Hub. Call Run before serving connections.
func NewHub() *Hub {
	return &Hub{
		upgrader:  websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		clients:   make(map[*client]struct{}),
		broadcast: make(chan []byte, broadcastQueue),
		logger:    logger.Get().Named("ws"),
	}
}

// Run pumps broadcasts to clients until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

// Broadcast queues v (JSON-encoded) for delivery to all clients. Never
// blocks the caller; the message is dropped when the queue is full.
func (h *Hub) Broadcast(ctx context.Context, v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		h.logger.Warn(ctx, "broadcast encode failed", logger.Error(err))
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn(ctx, "broadcast queue full, dropping message")
	}
}

// HandleLive upgrades the request and registers the connection.
func (h *Hub) HandleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.LiveClientConnected()
	h.logger.Info(r.Context(), "live client connected", logger.Int("clients", n))

	go h.writePump(c)
	go h.readPump(c)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) fanOut(msg []byte) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// Slow client; cut it loose.
			h.drop(c)
		}
	}
}

func (h *Hub) writePump(c *client) {
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.drop(c)
			return
		}
	}
	_ = c.conn.Close()
}

// readPump discards inbound frames; the stream is one-way. It exists to
// notice closed connections.
func (h *Hub) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.drop(c)
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	if ok {
		metrics.LiveClientDisconnected()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		metrics.LiveClientDisconnected()
	}
	h.mu.Unlock()
}
