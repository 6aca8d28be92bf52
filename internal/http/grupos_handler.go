package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/DidierBrusa/tap-talk-api/internal/service"
	"github.com/DidierBrusa/tap-talk-api/internal/validation"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// GruposHandler serves /api/grupos, group membership and the per-group
// notification views.
type GruposHandler struct {
	grupos         *service.GrupoService
	membership     *service.MembershipService
	notificaciones *service.NotificacionService
	validator      *validation.Validator
	logger         *zap.Logger
}

func NewGruposHandler(
	grupos *service.GrupoService,
	membership *service.MembershipService,
	notificaciones *service.NotificacionService,
	validator *validation.Validator,
	logger *zap.Logger,
) *GruposHandler {
	return &GruposHandler{
		grupos:         grupos,
		membership:     membership,
		notificaciones: notificaciones,
		validator:      validator,
		logger:         logger,
	}
}

func (h *GruposHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.grupos.ListGrupos(r.Context())
	if err != nil {
		writeError(w, r, h.logger, "grupos.List", err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(list))
}

func (h *GruposHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CreadorID      string `json:"creador_id"`
		NombrePaciente string `json:"nombre_paciente"`
	}
	if err := decodeBody(r, h.validator, validation.GrupoCreate, &payload); err != nil {
		writeError(w, r, h.logger, "grupos.Create", err)
		return
	}
	g, err := h.grupos.CreateGrupo(r.Context(), service.CreateGrupoRequest{
		CreadorID:      payload.CreadorID,
		NombrePaciente: payload.NombrePaciente,
	})
	if err != nil {
		writeError(w, r, h.logger, "grupos.Create", err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *GruposHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "grupos.Get", err)
		return
	}
	g, err := h.grupos.GetGrupo(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, "grupos.Get", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *GruposHandler) GetCodigo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "grupos.GetCodigo", err)
		return
	}
	g, err := h.grupos.GetGrupo(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, "grupos.GetCodigo", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"codigo_vinculacion": g.CodigoVinculacion})
}

func (h *GruposHandler) GetByCodigo(w http.ResponseWriter, r *http.Request) {
	g, err := h.grupos.GetGrupoByCodigo(r.Context(), mux.Vars(r)["codigo"])
	if err != nil {
		writeError(w, r, h.logger, "grupos.GetByCodigo", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *GruposHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "grupos.Update", err)
		return
	}
	var payload struct {
		NombrePaciente    *string `json:"nombre_paciente"`
		CodigoVinculacion *string `json:"codigo_vinculacion"`
		Activo            *bool   `json:"activo"`
		RegenerarCodigo   bool    `json:"regenerar_codigo"`
	}
	if err := decodeBody(r, h.validator, validation.GrupoUpdate, &payload); err != nil {
		writeError(w, r, h.logger, "grupos.Update", err)
		return
	}
	g, err := h.grupos.UpdateGrupo(r.Context(), id, service.UpdateGrupoRequest{
		NombrePaciente:    payload.NombrePaciente,
		CodigoVinculacion: payload.CodigoVinculacion,
		Activo:            payload.Activo,
		RegenerarCodigo:   payload.RegenerarCodigo,
	})
	if err != nil {
		writeError(w, r, h.logger, "grupos.Update", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *GruposHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "grupos.Delete", err)
		return
	}
	g, err := h.grupos.DeleteGrupo(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, "grupos.Delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mensaje": "Grupo eliminado correctamente", "grupo": g})
}

func (h *GruposHandler) ListMiembros(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "grupos.ListMiembros", err)
		return
	}
	miembros, err := h.membership.ListMiembros(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, "grupos.ListMiembros", err)
		return
	}
	writeJSON(w, http.StatusOK, miembros)
}

// Link serves both POST /miembros and the older /vincular-auxiliar path.
func (h *GruposHandler) Link(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "grupos.Link", err)
		return
	}
	var payload struct {
		AuxiliarID      json.RawMessage `json:"auxiliar_id"`
		EsAdministrador bool            `json:"es_administrador"`
	}
	if err := decodeBody(r, h.validator, validation.MiembroLink, &payload); err != nil {
		writeError(w, r, h.logger, "grupos.Link", err)
		return
	}
	identificador, err := identificadorFrom(payload.AuxiliarID)
	if err != nil {
		writeError(w, r, h.logger, "grupos.Link", err)
		return
	}
	v, err := h.membership.LinkMember(r.Context(), service.LinkMemberRequest{
		GrupoID:         id,
		Identificador:   identificador,
		EsAdministrador: payload.EsAdministrador,
	})
	if err != nil {
		writeError(w, r, h.logger, "grupos.Link", err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *GruposHandler) Join(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		AuxiliarID json.RawMessage `json:"auxiliar_id"`
	}
	if err := decodeBody(r, h.validator, validation.Unirse, &payload); err != nil {
		writeError(w, r, h.logger, "grupos.Join", err)
		return
	}
	identificador, err := identificadorFrom(payload.AuxiliarID)
	if err != nil {
		writeError(w, r, h.logger, "grupos.Join", err)
		return
	}
	v, err := h.membership.JoinByCodigo(r.Context(), mux.Vars(r)["codigo"], identificador)
	if err != nil {
		writeError(w, r, h.logger, "grupos.Join", err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *GruposHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "grupos.Unlink", err)
		return
	}
	v, err := h.membership.UnlinkMember(r.Context(), id, mux.Vars(r)["identificador"])
	if err != nil {
		writeError(w, r, h.logger, "grupos.Unlink", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mensaje": "Auxiliar desvinculado del grupo", "vinculo": v})
}

func (h *GruposHandler) ListNotificaciones(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "grupos.ListNotificaciones", err)
		return
	}
	list, err := h.notificaciones.ListByGrupo(r.Context(), id, r.URL.Query().Get("estado"))
	if err != nil {
		writeError(w, r, h.logger, "grupos.ListNotificaciones", err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(list))
}

// ExportNotificaciones streams the group's notifications as an xlsx workbook.
func (h *GruposHandler) ExportNotificaciones(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "grupos.ExportNotificaciones", err)
		return
	}
	list, err := h.notificaciones.ListByGrupo(r.Context(), id, r.URL.Query().Get("estado"))
	if err != nil {
		writeError(w, r, h.logger, "grupos.ExportNotificaciones", err)
		return
	}
	data, err := GenerateNotificacionesExport(list)
	if err != nil {
		writeError(w, r, h.logger, "grupos.ExportNotificaciones", err)
		return
	}
	filename := fmt.Sprintf("notificaciones_grupo_%d_%s.xlsx", id, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
