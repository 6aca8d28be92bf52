package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/DidierBrusa/tap-talk-api/internal/service"
	"github.com/DidierBrusa/tap-talk-api/internal/validation"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// VinculosHandler serves /api/auxiliares-grupos, where the membership is
// named in the body instead of the path. Every call goes through
// MembershipService, so creator and uniqueness rules hold here too.
type VinculosHandler struct {
	membership *service.MembershipService
	validator  *validation.Validator
	logger     *zap.Logger
}

func NewVinculosHandler(membership *service.MembershipService, validator *validation.Validator, logger *zap.Logger) *VinculosHandler {
	return &VinculosHandler{membership: membership, validator: validator, logger: logger}
}

type vinculoPayload struct {
	AuxiliarID      json.RawMessage `json:"auxiliar_id"`
	GrupoID         int64           `json:"grupo_id"`
	EsAdministrador bool            `json:"es_administrador"`
}

func (h *VinculosHandler) decode(r *http.Request) (vinculoPayload, string, error) {
	var payload vinculoPayload
	if err := decodeBody(r, h.validator, validation.Vinculo, &payload); err != nil {
		return payload, "", err
	}
	identificador, err := identificadorFrom(payload.AuxiliarID)
	return payload, identificador, err
}

func (h *VinculosHandler) Link(w http.ResponseWriter, r *http.Request) {
	payload, identificador, err := h.decode(r)
	if err != nil {
		writeError(w, r, h.logger, "vinculos.Link", err)
		return
	}
	v, err := h.membership.LinkMember(r.Context(), service.LinkMemberRequest{
		GrupoID:         payload.GrupoID,
		Identificador:   identificador,
		EsAdministrador: payload.EsAdministrador,
	})
	if err != nil {
		writeError(w, r, h.logger, "vinculos.Link", err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *VinculosHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	payload, identificador, err := h.decode(r)
	if err != nil {
		writeError(w, r, h.logger, "vinculos.Unlink", err)
		return
	}
	v, err := h.membership.UnlinkMember(r.Context(), payload.GrupoID, identificador)
	if err != nil {
		writeError(w, r, h.logger, "vinculos.Unlink", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mensaje": "Relación eliminada correctamente", "relacion_eliminada": v})
}

func (h *VinculosHandler) ListGrupos(w http.ResponseWriter, r *http.Request) {
	grupos, err := h.membership.ListGruposDeAuxiliar(r.Context(), mux.Vars(r)["identificador"])
	if err != nil {
		writeError(w, r, h.logger, "vinculos.ListGrupos", err)
		return
	}
	writeJSON(w, http.StatusOK, grupos)
}

func (h *VinculosHandler) ListAuxiliares(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, "vinculos.ListAuxiliares", err)
		return
	}
	miembros, err := h.membership.ListMiembros(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, "vinculos.ListAuxiliares", err)
		return
	}
	writeJSON(w, http.StatusOK, miembros)
}
