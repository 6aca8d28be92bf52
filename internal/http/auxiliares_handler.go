package httpapi

import (
	"net/http"

	"github.com/DidierBrusa/tap-talk-api/internal/service"
	"github.com/DidierBrusa/tap-talk-api/internal/validation"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// AuxiliaresHandler serves /api/auxiliares. {identificador} is either the
// external user_id or the numeric id.
type AuxiliaresHandler struct {
	auxiliares *service.AuxiliarService
	membership *service.MembershipService
	validator  *validation.Validator
	logger     *zap.Logger
}

func NewAuxiliaresHandler(
	auxiliares *service.AuxiliarService,
	membership *service.MembershipService,
	validator *validation.Validator,
	logger *zap.Logger,
) *AuxiliaresHandler {
	return &AuxiliaresHandler{auxiliares: auxiliares, membership: membership, validator: validator, logger: logger}
}

func (h *AuxiliaresHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.auxiliares.ListAuxiliares(r.Context())
	if err != nil {
		writeError(w, r, h.logger, "auxiliares.List", err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(list))
}

func (h *AuxiliaresHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID       string  `json:"user_id"`
		Email        string  `json:"email"`
		Nombre       string  `json:"nombre"`
		AuthProvider *string `json:"auth_provider"`
	}
	if err := decodeBody(r, h.validator, validation.AuxiliarCreate, &payload); err != nil {
		writeError(w, r, h.logger, "auxiliares.Create", err)
		return
	}
	a, err := h.auxiliares.CreateAuxiliar(r.Context(), service.CreateAuxiliarRequest{
		UserID:       payload.UserID,
		Email:        payload.Email,
		Nombre:       payload.Nombre,
		AuthProvider: payload.AuthProvider,
	})
	if err != nil {
		writeError(w, r, h.logger, "auxiliares.Create", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AuxiliaresHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.auxiliares.GetAuxiliar(r.Context(), mux.Vars(r)["identificador"])
	if err != nil {
		writeError(w, r, h.logger, "auxiliares.Get", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AuxiliaresHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email        *string `json:"email"`
		Nombre       *string `json:"nombre"`
		AuthProvider *string `json:"auth_provider"`
		Activo       *bool   `json:"activo"`
	}
	if err := decodeBody(r, h.validator, validation.AuxiliarUpdate, &payload); err != nil {
		writeError(w, r, h.logger, "auxiliares.Update", err)
		return
	}
	a, err := h.auxiliares.UpdateAuxiliar(r.Context(), mux.Vars(r)["identificador"], service.UpdateAuxiliarRequest{
		Email:        payload.Email,
		Nombre:       payload.Nombre,
		AuthProvider: payload.AuthProvider,
		Activo:       payload.Activo,
	})
	if err != nil {
		writeError(w, r, h.logger, "auxiliares.Update", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AuxiliaresHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	a, err := h.auxiliares.DeactivateAuxiliar(r.Context(), mux.Vars(r)["identificador"])
	if err != nil {
		writeError(w, r, h.logger, "auxiliares.Deactivate", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mensaje": "Auxiliar desactivado correctamente", "auxiliar": a})
}

func (h *AuxiliaresHandler) Delete(w http.ResponseWriter, r *http.Request) {
	a, err := h.auxiliares.DeleteAuxiliar(r.Context(), mux.Vars(r)["identificador"])
	if err != nil {
		writeError(w, r, h.logger, "auxiliares.Delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mensaje": "Auxiliar eliminado correctamente", "auxiliar": a})
}

// ListGrupos lists the groups the auxiliar created or belongs to.
func (h *AuxiliaresHandler) ListGrupos(w http.ResponseWriter, r *http.Request) {
	grupos, err := h.membership.ListGruposDeAuxiliar(r.Context(), mux.Vars(r)["identificador"])
	if err != nil {
		writeError(w, r, h.logger, "auxiliares.ListGrupos", err)
		return
	}
	writeJSON(w, http.StatusOK, grupos)
}
