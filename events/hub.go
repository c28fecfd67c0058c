package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/clubsantiago/sistema-billar/utils"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 16
)

// Hub keeps the set of connected websocket clients and broadcasts every
// published message to all of them. Each client has its own writer
// goroutine, so Publish never waits on the network.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*client
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// Register adds a connection to the broadcast set and starts its writer.
func (h *Hub) Register(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[conn] = c
	h.mu.Unlock()

	go h.writePump(c)
}

// Unregister removes a connection and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(conn)
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish queues msg for every client. A client whose queue is full is
// too slow to keep up and is dropped.
func (h *Hub) Publish(_ context.Context, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("hub: marshal message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, c := range h.clients {
		select {
		case c.send <- data:
		default:
			utils.ErrorLogger.WithField("remote", conn.RemoteAddr().String()).
				Warn("hub: dropping slow client")
			h.drop(conn)
		}
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"event":   msg.Event,
		"clients": len(h.clients),
	}).Debug("hub: broadcast")
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		h.drop(conn)
	}
}

func (h *Hub) writePump(c *client) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.WithError(err).WithField("remote", c.conn.RemoteAddr().String()).
				Warn("hub: dropping client after failed write")
			h.Unregister(c.conn)
			return
		}
	}
}

// drop must be called with h.mu held.
func (h *Hub) drop(conn *websocket.Conn) {
	c, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	close(c.send)
	_ = conn.Close()
}
