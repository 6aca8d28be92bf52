package httpapi

import (
	"net/http"
	"time"

	"github.com/DidierBrusa/tap-talk-api/internal/domain"
	"github.com/DidierBrusa/tap-talk-api/internal/service"
	"github.com/DidierBrusa/tap-talk-api/internal/validation"

	"go.uber.org/zap"
)

// NotificacionesHandler serves /api/notificaciones.
type NotificacionesHandler struct {
	notificaciones *service.NotificacionService
	validator      *validation.Validator
	logger         *zap.Logger
}

func NewNotificacionesHandler(notificaciones *service.NotificacionService, validator *validation.Validator, logger *zap.Logger) *NotificacionesHandler {
	return &NotificacionesHandler{notificaciones: notificaciones, validator: validator, logger: logger}
}

// List accepts ?grupo_id= and ?estado= filters.
func (h *NotificacionesHandler) List(w http.ResponseWriter, r *http.Request) {
	grupoID, err := queryID(r, "grupo_id")
	if err != nil {
		writeError(w, r, h.logger, "notificaciones.List", err)
		return
	}
	list, err := h.notificaciones.ListNotificaciones(r.Context(), domain.NotificacionFilter{
		GrupoID: grupoID,
		Estado:  r.URL.Query().Get("estado"),
	})
	if err != nil {
		writeError(w, r, h.logger, "notificaciones.List", err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(list))
}

func (h *NotificacionesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "notificaciones.Get", err)
		return
	}
	n, err := h.notificaciones.GetNotificacion(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, "notificaciones.Get", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NotificacionesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PictogramaID int64  `json:"pictograma_id"`
		GrupoID      int64  `json:"grupo_id"`
		Contenido    string `json:"contenido"`
		Tipo         string `json:"tipo"`
	}
	if err := decodeBody(r, h.validator, validation.NotificacionCreate, &payload); err != nil {
		writeError(w, r, h.logger, "notificaciones.Create", err)
		return
	}
	n, err := h.notificaciones.CreateNotificacion(r.Context(), service.CreateNotificacionRequest{
		PictogramaID: payload.PictogramaID,
		GrupoID:      payload.GrupoID,
		Contenido:    payload.Contenido,
		Tipo:         payload.Tipo,
	})
	if err != nil {
		writeError(w, r, h.logger, "notificaciones.Create", err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (h *NotificacionesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "notificaciones.Update", err)
		return
	}
	var payload struct {
		Contenido        *string    `json:"contenido"`
		Tipo             *string    `json:"tipo"`
		Estado           *string    `json:"estado"`
		FechaResuelta    *time.Time `json:"fecha_resuelta"`
		MiembroResolutor *int64     `json:"miembro_resolutor"`
	}
	if err := decodeBody(r, h.validator, validation.NotificacionUpdate, &payload); err != nil {
		writeError(w, r, h.logger, "notificaciones.Update", err)
		return
	}
	n, err := h.notificaciones.UpdateNotificacion(r.Context(), id, service.UpdateNotificacionRequest{
		Contenido:        payload.Contenido,
		Tipo:             payload.Tipo,
		Estado:           payload.Estado,
		FechaResuelta:    payload.FechaResuelta,
		MiembroResolutor: payload.MiembroResolutor,
	})
	if err != nil {
		writeError(w, r, h.logger, "notificaciones.Update", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Resolver marks the notification RESUELTA, optionally recording who handled it.
func (h *NotificacionesHandler) Resolver(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "notificaciones.Resolver", err)
		return
	}
	var payload struct {
		MiembroResolutor *int64 `json:"miembro_resolutor"`
	}
	if err := decodeBody(r, h.validator, validation.NotificacionResolver, &payload); err != nil {
		writeError(w, r, h.logger, "notificaciones.Resolver", err)
		return
	}
	n, err := h.notificaciones.ResolverNotificacion(r.Context(), id, payload.MiembroResolutor)
	if err != nil {
		writeError(w, r, h.logger, "notificaciones.Resolver", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NotificacionesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "notificaciones.Delete", err)
		return
	}
	n, err := h.notificaciones.DeleteNotificacion(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, "notificaciones.Delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mensaje": "Notificación eliminada correctamente", "notificacion": n})
}
