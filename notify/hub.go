package notify

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iov-one/gatekeeper"
	"github.com/sasha-s/go-deadlock"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	clientBuffer = 32
	writeWait    = 10 * time.Second
)

// Hub streams events to websocket clients. A client that does not keep up
// misses events.
type Hub struct {
	mu       deadlock.RWMutex
	clients  map[chan []byte]struct{}
	logger   log.Logger
	upgrader websocket.Upgrader
	origins  []string
}

var _ gatekeeper.EventSink = (*Hub)(nil)

// NewHub returns a hub without clients. Browsers may connect from the
// same host or from one of origins, the same list the HTTP API uses for
// CORS. An empty list or "*" accepts any origin.
func NewHub(logger log.Logger, origins []string) *Hub {
	h := &Hub{
		clients: make(map[chan []byte]struct{}),
		logger:  logger.With("module", "hub"),
		origins: origins,
	}
	h.upgrader.CheckOrigin = h.checkOrigin
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	if len(h.origins) == 0 {
		return true
	}
	for _, o := range h.origins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	h.logger.Debug("websocket origin rejected", "origin", origin)
	return false
}

// Publish sends the event to every connected client without blocking.
func (h *Hub) Publish(e gatekeeper.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		h.logger.Error("cannot serialize event", "id", e.ID, "err", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client <- data:
		default:
			h.logger.Debug("slow client, event dropped", "id", e.ID)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register() chan []byte {
	c := make(chan []byte, clientBuffer)
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *Hub) unregister(c chan []byte) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// ServeHTTP upgrades the connection and streams events until the client
// goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	c := h.register()
	defer h.unregister(c)

	// The reader only detects a closed connection.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case data := <-c:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
