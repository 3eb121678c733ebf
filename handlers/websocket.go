package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/models"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/notifications"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/utilities"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = pongWait * 9 / 10
	snapshotTimeout = 10 * time.Second
	maxClientFrame  = 4 << 10
)

type Subscriber interface {
	Subscribe() *notifications.Subscription
	Unsubscribe(sub *notifications.Subscription)
}

type Snapshotter interface {
	Snapshot(ctx context.Context) (models.InitMessage, error)
}

// UpdatesHandler serves /ws/updates: one init snapshot, then every task
// event broadcast while the connection stays open.
type UpdatesHandler struct {
	hub       Subscriber
	snapshots Snapshotter
	upgrader  websocket.Upgrader

	pingPeriod time.Duration
	pongWait   time.Duration
}

// NewUpdatesHandler accepts upgrades from the given origins; "*" or an
// empty list accepts any origin.
func NewUpdatesHandler(hub Subscriber, snapshots Snapshotter, allowedOrigins []string) *UpdatesHandler {
	return &UpdatesHandler{
		hub:       hub,
		snapshots: snapshots,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		pingPeriod: pingPeriod,
		pongWait:   pongWait,
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
	}
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

func (h *UpdatesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		utilities.LogDebug("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	// Subscribe before taking the snapshot so nothing committed after it is missed.
	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	ctx, cancel := context.WithTimeout(r.Context(), snapshotTimeout)
	snapshot, err := h.snapshots.Snapshot(ctx)
	cancel()
	if err != nil {
		utilities.LogError(err, "websocket snapshot failed", "remote", r.RemoteAddr)
		h.closeWith(conn, websocket.CloseInternalServerErr, "snapshot unavailable")
		return
	}
	if err := h.writeJSON(conn, snapshot); err != nil {
		utilities.LogDebug("websocket init write failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	utilities.LogDebug("websocket client active", "remote", r.RemoteAddr, "tasks", len(snapshot.Tasks))

	gone := make(chan struct{})
	go h.readPump(conn, gone)
	h.writePump(conn, sub, gone)

	utilities.LogDebug("websocket client closed", "remote", r.RemoteAddr)
}

// readPump discards client frames and notices when the peer goes away.
func (h *UpdatesHandler) readPump(conn *websocket.Conn, gone chan<- struct{}) {
	defer close(gone)

	conn.SetReadLimit(maxClientFrame)
	conn.SetReadDeadline(time.Now().Add(h.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump is the only writer after the init message.
func (h *UpdatesHandler) writePump(conn *websocket.Conn, sub *notifications.Subscription, gone <-chan struct{}) {
	ticker := time.NewTicker(h.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				h.closeWith(conn, websocket.CloseTryAgainLater, "too slow")
				return
			}
			if err := h.writeJSON(conn, ev); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-gone:
			return
		}
	}
}

func (h *UpdatesHandler) writeJSON(conn *websocket.Conn, v any) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

func (h *UpdatesHandler) closeWith(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
