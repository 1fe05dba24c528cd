package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// el origen ya lo filtra el middleware de CORS del router
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Incident event stream
// @Description WebSocket upgrade. Pushes incidentAssigned/incidentResolved events to every open dashboard.
// @Tags Events
// @Security BearerAuth
// @Param token query string false "Session token (alternative to the Authorization header)"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /ws [get]
func (h *Handler) incidentEvents(c *gin.Context) {
	sess := currentSession(c)
	log := h.logger.WithField("method", "incidentEvents").WithField("user_id", sess.User.ID)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	h.hub.Register(conn)
	log.Info("Dashboard connected to incident event stream")

	pingTicker := time.NewTicker(wsPingInterval)
	done := make(chan struct{})

	go func() {
		defer pingTicker.Stop()
		for {
			select {
			case <-pingTicker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(wsWriteTimeout)); err != nil {
					conn.Close()
					return
				}
			case <-done:
				return
			}
		}
	}()

	defer func() {
		close(done)
		h.hub.Unregister(conn)
		conn.Close()
		log.Info("Dashboard disconnected from incident event stream")
	}()

	// el flujo es solo de salida; se leen los mensajes entrantes únicamente
	// para procesar frames de control y detectar el cierre
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("WebSocket read error")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	}
}
