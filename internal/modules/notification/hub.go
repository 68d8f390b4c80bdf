package notification

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks one live notification stream per user. Delivery is best effort:
// the database row is the source of truth, the socket is just a nudge.
type Hub struct {
	streams map[int64]*websocket.Conn
	mutex   sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		streams: make(map[int64]*websocket.Conn),
	}
}

func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.streams[userID]; exists && old != nil {
		_ = old.Close()
	}
	h.streams[userID] = conn
}

func (h *Hub) Unregister(userID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conn, exists := h.streams[userID]; exists && conn != nil {
		_ = conn.Close()
		delete(h.streams, userID)
	}
}

// Push writes the notification to the user's stream if one is open. A write
// failure drops the stream; the client reconnects and catches up via the
// list endpoint.
func (h *Hub) Push(userID int64, payload interface{}) bool {
	h.mutex.RLock()
	conn, exists := h.streams[userID]
	h.mutex.RUnlock()

	if !exists || conn == nil {
		return false
	}

	if err := conn.WriteJSON(payload); err != nil {
		h.Unregister(userID)
		return false
	}
	return true
}

func (h *Hub) Online(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.streams[userID]
	return exists
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, conn := range h.streams {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.streams, userID)
	}
}
