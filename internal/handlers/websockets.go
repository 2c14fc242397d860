package handlers

import (
	"net/http"
	"time"

	"wellness_tracker/internal/timer"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB

	// events buffered per connection before the engine starts dropping them
	wsEventBuffer = 32

	wsTypeClosed = "closed"
)

// wsEnvelope is the frame written for every stream message.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins once the UI host is configurable
}

// @Summary      Session event stream
// @Description  WebSocket. Sends the current snapshot, then one message per engine event ("snapshot" or "completed"). Sends "closed" when the session is abandoned.
// @Tags         sessions
// @Param        id     path   string  true   "Exercise id"
// @Param        token  query  string  false  "Bearer token when the Authorization header cannot be set"
// @Success      101
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /ws/sessions/{id} [get]
func (h *Handler) wsSession(c *gin.Context) {
	uid, ok := mustUser(c)
	if !ok {
		return
	}
	exerciseID := c.Param("id")

	events, unsubscribe, err := h.services.Sessions.Subscribe(uid, exerciseID, wsEventBuffer)
	if err != nil {
		h.respondError(c, err, errSessionControl, "ws_subscribe_failed", "exercise_id", exerciseID)
		return
	}
	defer unsubscribe()

	snap, err := h.services.Sessions.State(uid, exerciseID)
	if err != nil {
		h.respondError(c, err, errSessionControl, "ws_state_failed", "exercise_id", exerciseID)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	initial := timer.Event{Kind: timer.EventSnapshot, Snapshot: snap}
	if err := writeEnvelope(conn, wsEnvelope{Type: string(initial.Kind), Data: initial}); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case ev, open := <-events:
			if !open {
				_ = writeEnvelope(conn, wsEnvelope{Type: wsTypeClosed})
				return
			}
			if err := writeEnvelope(conn, wsEnvelope{Type: string(ev.Kind), Data: ev}); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err, "exercise_id", exerciseID)
				}
				return
			}
		}
	}
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

func writeEnvelope(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
