package httpapi

import (
	"net/http"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"
	"github.com/DidierBrusa/tap-talk-api/internal/identity"
	"github.com/DidierBrusa/tap-talk-api/internal/service"

	"go.uber.org/zap"
)

// AuthHandler exposes the verified caller and its auxiliar account.
type AuthHandler struct {
	verifier   identity.Verifier
	auxiliares *service.AuxiliarService
	logger     *zap.Logger
}

func NewAuthHandler(verifier identity.Verifier, auxiliares *service.AuxiliarService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{verifier: verifier, auxiliares: auxiliares, logger: logger}
}

// Me returns the auxiliar of the caller verified by requireAuth. A valid
// token whose subject has no auxiliar yet answers registrado=false so the
// client can complete sign-up.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token no proporcionado"})
		return
	}
	resp := map[string]any{
		"user_id":    id.ExternalID,
		"email":      id.Email,
		"registrado": false,
		"auxiliar":   nil,
	}
	aux, err := h.auxiliares.GetAuxiliar(r.Context(), id.ExternalID)
	switch {
	case err == nil:
		resp["registrado"] = true
		resp["auxiliar"] = aux
	case apperr.Is(err, apperr.KindNotFound), apperr.Is(err, apperr.KindInvalidIdentifier):
	default:
		writeError(w, r, h.logger, "auth.Me", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
