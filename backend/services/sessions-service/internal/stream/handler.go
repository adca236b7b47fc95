package stream

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pingInterval = 30 * time.Second
	readTimeout  = 60 * time.Second
)

// SessionLookup reports whether a session exists and returns its current snapshot encoded
// as JSON, sent as the first frame.
type SessionLookup func(ctx context.Context, sessionID string) ([]byte, error)

// Handler upgrades GET /sessions/{id}/stream to a websocket and pumps snapshots.
type Handler struct {
	hub          *Hub
	lookup       SessionLookup
	writeTimeout time.Duration
	logger       *zap.Logger
	upgrader     websocket.Upgrader
}

// NewHandler builds the websocket endpoint.
func NewHandler(hub *Hub, lookup SessionLookup, writeTimeout time.Duration, logger *zap.Logger) *Handler {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Handler{
		hub:          hub,
		lookup:       lookup,
		writeTimeout: writeTimeout,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP handles the upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return
	}
	initial, err := h.lookup(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := h.hub.Register(sessionID)
	h.logger.Info("stream subscriber connected", zap.String("session_id", sessionID))

	done := make(chan struct{})
	go h.writePump(conn, client, initial, done)
	h.readPump(conn)

	h.hub.Unregister(client)
	<-done
	_ = conn.Close()
	h.logger.Info("stream subscriber disconnected", zap.String("session_id", sessionID))
}

// readPump only services control frames; it returns once the peer goes away.
func (h *Handler) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) writePump(conn *websocket.Conn, client *Client, initial []byte, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	if err := h.write(conn, websocket.TextMessage, initial); err != nil {
		_ = conn.Close()
		return
	}

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				_ = h.write(conn, websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := h.write(conn, websocket.TextMessage, msg); err != nil {
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			if err := h.write(conn, websocket.PingMessage, []byte("ping")); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

func (h *Handler) write(conn *websocket.Conn, messageType int, data []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
	return conn.WriteMessage(messageType, data)
}
