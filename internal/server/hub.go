package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dm/aadash/internal/client"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboards are terminal clients, not browsers
	},
}

// Hub fans events out to every connected websocket client.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	log     *slog.Logger
}

// NewHub returns an empty hub. A nil logger discards output.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		log:     logger,
	}
}

// ServeWS upgrades the request and keeps the client registered until it
// disconnects. Clients never send anything meaningful; reads only detect
// the close.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info("events client connected", "remote", conn.RemoteAddr().String(), "clients", n)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	n = len(h.clients)
	h.mu.Unlock()
	h.log.Info("events client disconnected", "remote", conn.RemoteAddr().String(), "clients", n)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends ev to every client. Clients that cannot keep up are dropped.
func (h *Hub) Broadcast(ev client.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("encode event", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Warn("dropping events client", "remote", conn.RemoteAddr().String(), "err", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// NotifyDataUpdated broadcasts a data-updated event stamped with the current time.
func (h *Hub) NotifyDataUpdated() {
	h.Broadcast(client.Event{Type: client.EventTypeDataUpdated, At: time.Now().UTC()})
}

// Watch broadcasts a data-updated event for every value received on changes
// until ctx is done or changes is closed.
func (h *Hub) Watch(ctx context.Context, changes <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			h.NotifyDataUpdated()
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		delete(h.clients, conn)
	}
}
