// Package gateway fans rendered frames out to painter clients over
// WebSocket and feeds their control messages (pointer, pause, window,
// mode) back to the host loop.
package gateway

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"chartenginev1/internal/metrics"
	"chartenginev1/internal/model"
)

// Control is an uplink message from a painter client. Exactly one of
// the optional fields is set, keyed by Type.
type Control struct {
	Type string `json:"type"`

	// PointerX for "pointer"; nil clears the hover.
	PointerX *float64 `json:"pointer_x,omitempty"`
	// Paused for "pause".
	Paused bool `json:"paused,omitempty"`
	// Window (seconds) for "window".
	Window float64 `json:"window,omitempty"`
	// Mode ("line"/"candle") for "mode".
	Mode string `json:"mode,omitempty"`
	// Width (seconds) for "width".
	Width float64 `json:"width,omitempty"`
}

// ParseMode maps the wire mode string to a model.Mode, or nil for an
// unknown value.
func ParseMode(s string) *model.Mode {
	var m model.Mode
	switch s {
	case "line":
		m = model.ModeLine
	case "candle":
		m = model.ModeCandle
	default:
		return nil
	}
	return &m
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(_ *http.Request) bool { return true },
}

// Hub manages the set of connected clients. Frames are broadcast
// best-effort: a client whose send buffer is full misses frames rather
// than stalling the render loop.
type Hub struct {
	log     *slog.Logger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	clients map[*Client]struct{}
	latest  []byte

	controls chan Control
}

// NewHub creates a hub. metrics may be nil.
func NewHub(log *slog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		log:      log,
		metrics:  m,
		clients:  make(map[*Client]struct{}),
		controls: make(chan Control, 64),
	}
}

// Controls is the stream of client control messages. The host loop
// drains it each tick.
func (h *Hub) Controls() <-chan Control {
	return h.controls
}

// Broadcast sends an encoded frame to every client and retains it for
// replay to late joiners.
func (h *Hub) Broadcast(frame []byte) {
	h.mu.Lock()
	h.latest = frame
	h.mu.Unlock()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			if h.metrics != nil {
				h.metrics.BroadcastDrops.Inc()
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and registers the client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "err", err)
		return
	}

	c := &Client{
		conn: conn,
		send: make(chan []byte, 32),
		hub:  h,
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	latest := h.latest
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.ActiveClients.Inc()
	}
	h.log.Info("ws client connected", "remote", r.RemoteAddr)

	// Late joiners get the last frame immediately instead of waiting
	// a tick.
	if latest != nil {
		c.send <- latest
	}

	go c.writePump()
	go c.readPump()
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.ActiveClients.Dec()
	}
}

func (h *Hub) control(msg Control) {
	select {
	case h.controls <- msg:
	default:
		// Host loop is behind; stale controls are droppable.
	}
}
