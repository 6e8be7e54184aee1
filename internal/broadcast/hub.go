package broadcast

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
)

// События, рассылаемые подключенным клиентам
const (
	EventIncidentAlert     = "incident_alert"
	EventUnitsUpdated      = "units_updated"
	EventAdvisoryPosted    = "advisory_posted"
	EventAdvisoriesCleared = "advisories_cleared"
	EventSystemReset       = "system_reset"
)

const (
	// Размер буфера исходящих сообщений на клиента. Клиент, не успевающий
	// вычитывать буфер, отключается, чтобы не блокировать рассылку.
	sendBufferSize = 32
	writeTimeout   = 5 * time.Second
)

// Frame - кадр события, уходящий клиенту по WebSocket
type Frame struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// EventPublisher - контракт для рассылки событий об изменении состояния
type EventPublisher interface {
	Publish(event string, payload any)
}

// Hub управляет множеством WebSocket-подключений и рассылает события всем
// сразу. Внедряется в сервисный слой как EventPublisher, жизненный цикл
// (регистрация, отключение, останов) полностью принадлежит хабу.
type Hub struct {
	logger   *logrus.Entry
	origins  []string
	allowAll bool

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	send chan []byte

	// Причина закрытия; заполняется до close(send), читается писателем
	// после того, как канал закрыт
	closeCode websocket.StatusCode
	closeInfo string
}

// NewHub создает хаб рассылки с проверкой Origin по списку allowedOrigins
func NewHub(log *logrus.Logger, allowedOrigins []string) *Hub {
	allowAll := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
			break
		}
	}
	return &Hub{
		logger:   log.WithField("component", "broadcast"),
		origins:  allowedOrigins,
		allowAll: allowAll,
		clients:  make(map[*client]struct{}),
	}
}

// Publish сериализует событие и рассылает его всем подключенным клиентам.
// Отправка неблокирующая: клиент с переполненным буфером отключается.
func (h *Hub) Publish(event string, payload any) {
	data, err := json.Marshal(Frame{Event: event, Payload: payload})
	if err != nil {
		h.logger.WithError(err).WithField("event", event).Error("Failed to marshal broadcast frame")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			// Медленный потребитель: закрываем канал, писатель завершит соединение
			delete(h.clients, cl)
			cl.closeCode = websocket.StatusPolicyViolation
			cl.closeInfo = "slow consumer"
			close(cl.send)
			h.logger.Warn("Dropping slow WebSocket client")
		}
	}
}

// ServeWS апгрейдит HTTP-запрос до WebSocket и обслуживает клиента до
// разрыва соединения
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	opts := &websocket.AcceptOptions{}
	if h.allowAll {
		opts.InsecureSkipVerify = true
	} else {
		opts.OriginPatterns = h.origins
	}

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to accept WebSocket connection")
		return
	}

	cl := &client{send: make(chan []byte, sendBufferSize)}
	if !h.register(cl) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	defer h.unregister(cl)
	h.logger.Info("WebSocket client connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Читаем входящие кадры только ради обнаружения закрытия со стороны клиента
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			h.logger.Info("WebSocket client disconnected")
			return
		case msg, ok := <-cl.send:
			if !ok {
				conn.Close(cl.closeCode, cl.closeInfo)
				return
			}
			wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, msg)
			wcancel()
			if err != nil {
				h.logger.WithError(err).Debug("WebSocket write failed")
				return
			}
		}
	}
}

// Shutdown отключает всех клиентов и запрещает дальнейшие публикации
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for cl := range h.clients {
		delete(h.clients, cl)
		cl.closeCode = websocket.StatusGoingAway
		cl.closeInfo = "server shutting down"
		close(cl.send)
	}
	h.logger.Info("Broadcast hub stopped")
}

// ClientCount возвращает число подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(cl *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[cl] = struct{}{}
	return true
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}
