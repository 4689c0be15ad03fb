// Package diagnostics exposes a read-only WebSocket feed of switch
// transitions, LED batches, and game start/end for external tooling
// (test benches, bring-up scripts) to observe without participating in
// the Machine's command queue. Supplemented per SPEC_FULL.md §5 — the
// spec's core modules name no diagnostics surface, but leaving the
// runtime opaque to external tooling would be a regression relative to
// the original Rust framework's own debug tooling.
package diagnostics

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is the envelope broadcast to every connected client.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

const (
	EventSwitch   = "switch"
	EventLed      = "led"
	EventGame     = "game"
	EventCommand  = "command"
)

// Client wraps one WebSocket connection with a write mutex, since gorilla
// forbids concurrent writes on the same connection.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *Client) send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Hub is a lightweight broadcast hub for diagnostic observers. It never
// feeds back into the Machine — connections are write-only from the
// Machine's perspective.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) add(conn *websocket.Conn) *Client {
	c := &Client{conn: conn}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.conn.Close()
}

// Broadcast marshals evt once and fans it out to every connected client;
// a write failure on one client does not affect the others, and is left
// for the client's own read-loop to notice and clean up.
func (h *Hub) Broadcast(evt Event) {
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		_ = c.send(b)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local bring-up tool; not exposed beyond localhost
	},
}

// ServeHTTP upgrades the request and registers the connection with the
// hub. The read-loop only exists to detect disconnects; this feed is
// read-only by design, so any inbound message is discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := h.add(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(client)
			return
		}
	}
}
