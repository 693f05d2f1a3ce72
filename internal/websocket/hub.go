package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Event is the frame pushed to every listener
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
	Time time.Time   `json:"time"`
}

// Hub maintains the set of active clients and broadcasts events
type Hub struct {
	// Registered clients map: client ID -> Client
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client

	// Outbound frames, already encoded
	broadcast chan []byte

	// Closed when Run returns
	done chan struct{}

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex

	logger logrus.FieldLogger
}

// NewHub creates a new Hub instance
func NewHub(logger logrus.FieldLogger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		logger:     logger.WithField("component", "ws"),
	}
}

// Run starts the hub's main loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.logger.WithField("client", client.ID).Debug("🔌 Listener connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
				h.logger.WithField("client", client.ID).Debug("📴 Listener disconnected")
			}
			h.mu.Unlock()

		case frame := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				select {
				case client.send <- frame:
				default:
					// Buffer full or client dead
					delete(h.clients, id)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues an event for all listeners. It never blocks; when the
// queue is full the event is dropped.
func (h *Hub) Broadcast(event string, payload interface{}) {
	frame, err := json.Marshal(Event{Type: event, Data: payload, Time: time.Now().UTC()})
	if err != nil {
		h.logger.WithError(err).Warn("Failed to encode event")
		return
	}
	select {
	case h.broadcast <- frame:
	default:
		h.logger.WithField("event", event).Warn("Event queue full, dropping")
	}
}

// ClientCount returns the number of connected listeners
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
