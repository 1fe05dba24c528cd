package ws

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// dialTestConn abre una conexión WebSocket real contra un servidor de prueba
// y la registra en el hub.
func dialTestConn(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	registered := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register(conn)
		close(registered)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("the server did not register the connection in time")
	}
	return conn
}

func newTestHub() *Hub {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return NewHub(logger)
}

func TestHub_BroadcastReachesEveryPanel(t *testing.T) {
	hub := newTestHub()
	first := dialTestConn(t, hub)
	second := dialTestConn(t, hub)
	require.Equal(t, 2, hub.Count())

	payload := []byte(`{"tipo":"incidentAssigned","incidentId":"inc-1"}`)
	hub.Broadcast(payload)

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		kind, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.TextMessage, kind)
		assert.Equal(t, payload, msg)
	}
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	hub := newTestHub()
	dialTestConn(t, hub)
	require.Equal(t, 1, hub.Count())

	// el hub guarda la conexión del lado servidor, no la del cliente
	hub.mu.RLock()
	var serverConn *websocket.Conn
	for c := range hub.conns {
		serverConn = c
	}
	hub.mu.RUnlock()

	hub.Unregister(serverConn)

	assert.Equal(t, 0, hub.Count())
}

func TestHub_BroadcastOnEmptyHubIsNoop(t *testing.T) {
	hub := newTestHub()
	assert.Equal(t, 0, hub.Count())
	hub.Broadcast([]byte(`{}`)) // no debe entrar en pánico
}
