// Package ws mantiene las conexiones WebSocket de los paneles abiertos y
// les reenvía los eventos de incidentes para que refresquen sus listas.
package ws

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type Hub struct {
	mu     sync.RWMutex
	conns  map[*websocket.Conn]bool
	logger *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		conns:  make(map[*websocket.Conn]bool),
		logger: log,
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = true
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// Broadcast envía el payload a todas las conexiones registradas. La entrega
// es al-menos-una-vez y sin garantía de orden; una conexión que falla se
// registra y se sigue con el resto.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.WithError(err).Warn("Failed to broadcast event to websocket connection")
		}
	}
}

// Count devuelve el número de paneles conectados.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
