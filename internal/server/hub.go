package server

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/Benkess/CrossSim/internal/logging"
)

// Event is one mutation notice pushed to every connected websocket
// client.
type Event struct {
	Event string `json:"event"`
	ID    string `json:"id,omitempty"`
	At    string `json:"at"`
}

// hub fans mutation events out to websocket clients. Registration and
// broadcast share an RWMutex; publishing never blocks a mutation
// handler.
type hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
	events  chan Event
	done    chan struct{}
	log     logging.Logger
}

func newHub(log logging.Logger) *hub {
	return &hub{
		clients: make(map[*websocket.Conn]bool),
		events:  make(chan Event, 256),
		done:    make(chan struct{}),
		log:     log,
	}
}

func (h *hub) run() {
	for {
		select {
		case ev := <-h.events:
			h.broadcast(ev)
		case <-h.done:
			return
		}
	}
}

func (h *hub) broadcast(ev Event) {
	h.mu.RLock()
	var failed []*websocket.Conn
	for conn := range h.clients {
		if err := conn.WriteJSON(ev); err != nil {
			failed = append(failed, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range failed {
		h.drop(conn)
	}
}

// publish queues an event without blocking. When the buffer is full
// the event is dropped rather than stalling the mutation that raised
// it.
func (h *hub) publish(event, id string) {
	ev := Event{
		Event: event,
		ID:    id,
		At:    time.Now().UTC().Format(time.RFC3339),
	}
	select {
	case h.events <- ev:
	default:
		h.log.Warn(context.Background(), "event feed full, dropping event",
			logging.String("event", event))
	}
}

func (h *hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

func (h *hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		_ = conn.Close()
	}
	h.mu.Unlock()
}

func (h *hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *hub) close() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
	h.mu.Lock()
	for conn := range h.clients {
		_ = conn.Close()
	}
	h.clients = make(map[*websocket.Conn]bool)
	h.mu.Unlock()
}

// handleConn parks on the connection until the client goes away. The
// feed is one-way; incoming frames are read and discarded so the read
// loop can detect the close.
func (h *hub) handleConn(c *websocket.Conn) {
	h.add(c)
	defer h.drop(c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
