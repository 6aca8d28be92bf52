package httpapi

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ConnectionStatus is satisfied by the MQTT notification publisher.
type ConnectionStatus interface {
	IsConnected() bool
}

// HealthHandler serves liveness and the database connection check. A nil
// Pinger means the in-memory store is serving.
type HealthHandler struct {
	db         Pinger
	dbName     string
	broker     ConnectionStatus
	brokerName string
	started    time.Time
	now        func() time.Time
	logger     *zap.Logger
}

func NewHealthHandler(db Pinger, dbName string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, dbName: dbName, started: time.Now(), now: time.Now, logger: logger}
}

// WithBroker adds the notification broker state to the connection check.
func (h *HealthHandler) WithBroker(name string, s ConnectionStatus) *HealthHandler {
	h.broker = s
	h.brokerName = name
	return h
}

// brokerStatus sets the "broker" entry when a broker is attached.
func (h *HealthHandler) brokerStatus(body map[string]any) map[string]any {
	if h.broker != nil {
		body["broker"] = map[string]any{"backend": h.brokerName, "connected": h.broker.IsConnected()}
	}
	return body
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": now.UTC(),
		"uptime":    now.Sub(h.started).Seconds(),
	})
}

func (h *HealthHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusOK, h.brokerStatus(map[string]any{
			"mensaje":   "Sin base de datos: datos en memoria",
			"timestamp": h.now().UTC(),
			"database":  map[string]string{"backend": "memory"},
		}))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	database := map[string]string{"backend": "postgres", "database": h.dbName}
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("database ping failed", zap.String("request_id", requestIDFrom(r.Context())), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, h.brokerStatus(map[string]any{
			"error":    "Error conectando a la base de datos",
			"database": database,
		}))
		return
	}
	writeJSON(w, http.StatusOK, h.brokerStatus(map[string]any{
		"mensaje":   "Conexión exitosa",
		"timestamp": h.now().UTC(),
		"database":  database,
	}))
}
