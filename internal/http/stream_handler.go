package httpapi

import (
	"net/http"
	"time"

	"github.com/DidierBrusa/tap-talk-api/internal/notify"
	"github.com/DidierBrusa/tap-talk-api/internal/service"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// StreamHandler pushes a group's notification events over a websocket.
type StreamHandler struct {
	hub      *notify.Hub
	grupos   *service.GrupoService
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewStreamHandler(hub *notify.Hub, grupos *service.GrupoService, logger *zap.Logger) *StreamHandler {
	return &StreamHandler{
		hub:    hub,
		grupos: grupos,
		// Callers are native apps; access is gated by the bearer token.
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		logger:   logger,
	}
}

// Notificaciones upgrades the connection and streams every event of the group
// until the client goes away.
func (h *StreamHandler) Notificaciones(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "stream.Notificaciones", err)
		return
	}
	if _, err := h.grupos.GetGrupo(r.Context(), id); err != nil {
		writeError(w, r, h.logger, "stream.Notificaciones", err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Int64("grupo_id", id), zap.Error(err))
		return
	}
	sub := h.hub.Subscribe(id)
	h.logger.Info("websocket subscriber connected", zap.Int64("grupo_id", id), zap.String("request_id", requestIDFrom(r.Context())))

	go writePump(conn, sub)
	readPump(conn)
	sub.Close()
}

// readPump discards client frames and returns once the peer stops answering pings.
func readPump(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, sub *notify.Subscription) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case ev, ok := <-sub.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
