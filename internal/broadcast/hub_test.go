package broadcast

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestHub создает хаб с заглушенным логгером
func newTestHub() *Hub {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return NewHub(log, []string{"*"})
}

func dialTestHub(t *testing.T, hub *Hub) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)

	cleanup := func() {
		cancel()
		conn.Close(websocket.StatusNormalClosure, "")
		srv.Close()
	}
	return conn, cleanup
}

func TestPublish_DeliversFrameToClient(t *testing.T) {
	hub := newTestHub()
	conn, cleanup := dialTestHub(t, hub)
	defer cleanup()

	// Ждем регистрации клиента на стороне сервера
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(EventAdvisoryPosted, map[string]string{"message": "stay clear of the area"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var frame Frame
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Equal(t, EventAdvisoryPosted, frame.Event)

	payload, ok := frame.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "stay clear of the area", payload["message"])
}

func TestPublish_WithoutClients_DoesNotPanic(t *testing.T) {
	hub := newTestHub()

	assert.NotPanics(t, func() {
		hub.Publish(EventSystemReset, nil)
	})
}

func TestPublish_SlowClientIsDropped(t *testing.T) {
	hub := newTestHub()

	// Регистрируем клиента напрямую, не вычитывая его канал
	cl := &client{send: make(chan []byte, sendBufferSize)}
	require.True(t, hub.register(cl))

	// Переполняем буфер: последняя публикация должна выкинуть клиента
	for i := 0; i <= sendBufferSize; i++ {
		hub.Publish(EventUnitsUpdated, nil)
	}

	assert.Equal(t, 0, hub.ClientCount())
	assert.Equal(t, websocket.StatusPolicyViolation, cl.closeCode)
	assert.Equal(t, "slow consumer", cl.closeInfo)
}

func TestShutdown_DisconnectsClientsAndStopsPublishing(t *testing.T) {
	hub := newTestHub()
	conn, cleanup := dialTestHub(t, hub)
	defer cleanup()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Shutdown()
	assert.Equal(t, 0, hub.ClientCount())

	// После останова публикация - no-op
	assert.NotPanics(t, func() {
		hub.Publish(EventIncidentAlert, nil)
	})

	// Соединение закрывается со стороны сервера с кодом GoingAway,
	// а не с кодом медленного потребителя
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _, err := conn.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusGoingAway, websocket.CloseStatus(err))
}

func TestServeWS_RejectsAfterShutdown(t *testing.T) {
	hub := newTestHub()
	hub.Shutdown()

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err == nil {
		// Апгрейд мог успеть пройти, но сервер сразу закрывает соединение
		_, _, readErr := conn.Read(ctx)
		assert.Error(t, readErr)
		conn.Close(websocket.StatusNormalClosure, "")
	}
	assert.Equal(t, 0, hub.ClientCount())
}
