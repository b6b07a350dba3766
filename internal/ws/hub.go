package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/chatnest/chatnest-server/internal/delivery"
	"github.com/chatnest/chatnest-server/internal/metrics"
)

// Client is one live WebSocket connection. Writes go through the buffered
// Send channel so the hub never blocks on a slow reader.
type Client struct {
	ConnID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub owns the set of open connections, keyed by connection id. It is the
// transport-side counterpart of the presence registry: presence maps users
// to connection ids, the hub maps connection ids to sockets.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	mu      sync.RWMutex
	clients map[string]*Client
	logger  zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[string]*Client),
		logger:     logger.With().Str("component", "ws").Logger(),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client.ConnID] = client
			h.mu.Unlock()
			metrics.ConnectionsOpen.Inc()
		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ConnID]; ok {
				delete(h.clients, client.ConnID)
				close(client.Send)
				metrics.ConnectionsOpen.Dec()
			}
			h.mu.Unlock()
		}
	}
}

// Push sends one event to a single connection. Unknown connection ids and
// full send buffers drop the event: the durable log already holds the
// message, so a missed push costs nothing but immediacy.
func (h *Hub) Push(connID string, event delivery.PushEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to encode push event")
		return
	}

	// The read lock stays held across the send: Run closes Send only
	// under the write lock, so a client still in the map cannot have a
	// closed channel, and the default arm keeps the send from blocking.
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[connID]
	if !ok {
		metrics.DroppedPushes.Inc()
		return
	}

	select {
	case client.Send <- data:
	default:
		metrics.DroppedPushes.Inc()
		h.logger.Warn().Str("conn_id", connID).Msg("send buffer full, push dropped")
	}
}
