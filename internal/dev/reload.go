package dev

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/internal/metrics"
	"github.com/vango-dev/routekit/pkg/router"
)

// MessageType represents the type of change message.
type MessageType string

const (
	// MessageManifest announces a new route table and what changed.
	MessageManifest MessageType = "manifest"
	// MessageError reports a failed compile. The previous table stays live.
	MessageError MessageType = "error"
	// MessageClear follows the first successful compile after an error.
	MessageClear MessageType = "clear"
)

// Message is sent to clients via WebSocket.
type Message struct {
	Type    MessageType     `json:"type"`
	Changes *router.Changes `json:"changes,omitempty"`
	Error   *errors.Error   `json:"error,omitempty"`
}

// Hub manages WebSocket connections of dev clients, such as an app server
// that reloads its routes when the manifest changes.
type Hub struct {
	clients  map[*websocket.Conn]*sync.Mutex
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	metrics  *metrics.Recorder
}

// NewHub creates a new hub. m may be nil.
func NewHub(m *metrics.Recorder) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*sync.Mutex),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in dev
			},
		},
		metrics: m,
	}
}

// HandleWebSocket upgrades the connection and keeps it until the client
// disconnects. greeting, if non-nil, is sent first.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request, greeting *Message) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	writeMu := &sync.Mutex{}
	if greeting != nil {
		if data, err := json.Marshal(greeting); err == nil {
			conn.WriteMessage(websocket.TextMessage, data)
		}
	}

	h.mu.Lock()
	h.clients[conn] = writeMu
	h.mu.Unlock()
	h.metrics.ClientConnected()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(conn)
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()

	if ok {
		h.metrics.ClientDisconnected()
		conn.Close()
	}
}

// NotifyManifest tells clients the route table changed.
func (h *Hub) NotifyManifest(changes router.Changes) {
	h.Broadcast(Message{Type: MessageManifest, Changes: &changes})
}

// NotifyError tells clients the last compile failed.
func (h *Hub) NotifyError(err *errors.Error) {
	h.Broadcast(Message{Type: MessageError, Error: err})
}

// ClearError tells clients the error is resolved.
func (h *Hub) ClearError() {
	h.Broadcast(Message{Type: MessageClear})
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make(map[*websocket.Conn]*sync.Mutex, len(h.clients))
	for c, mu := range h.clients {
		clients[c] = mu
	}
	h.mu.RUnlock()

	for client, mu := range clients {
		mu.Lock()
		err := client.WriteMessage(websocket.TextMessage, data)
		mu.Unlock()
		if err != nil {
			h.remove(client)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*websocket.Conn]*sync.Mutex)
	h.mu.Unlock()

	for client := range clients {
		h.metrics.ClientDisconnected()
		client.Close()
	}
}
