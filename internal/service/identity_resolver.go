package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"
	"github.com/DidierBrusa/tap-talk-api/internal/domain"
	"github.com/DidierBrusa/tap-talk-api/internal/repository"
)

// IdentityResolver maps an auxiliar identifier to its row. An identifier
// containing a hyphen is the external identity (user_id); anything else must
// be the positive numeric id.
type IdentityResolver struct {
	auxRepo repository.AuxiliaresRepository
}

func NewIdentityResolver(auxRepo repository.AuxiliaresRepository) *IdentityResolver {
	return &IdentityResolver{auxRepo: auxRepo}
}

// IsExternalIdentity reports whether s has the shape of a user_id.
func IsExternalIdentity(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && strings.Contains(s, "-")
}

// Resolve returns the active auxiliar named by identificador.
func (r *IdentityResolver) Resolve(ctx context.Context, identificador string) (*domain.Auxiliar, error) {
	a, err := r.lookup(ctx, identificador)
	if err != nil {
		return nil, err
	}
	if !a.Activo {
		return nil, apperr.NotFound("Auxiliar no encontrado")
	}
	return a, nil
}

// ResolveAny is Resolve without the active filter, for account administration.
func (r *IdentityResolver) ResolveAny(ctx context.Context, identificador string) (*domain.Auxiliar, error) {
	return r.lookup(ctx, identificador)
}

func (r *IdentityResolver) lookup(ctx context.Context, identificador string) (*domain.Auxiliar, error) {
	identificador = strings.TrimSpace(identificador)
	if IsExternalIdentity(identificador) {
		return r.auxRepo.GetAuxiliarByUserID(ctx, identificador)
	}
	id, err := strconv.ParseInt(identificador, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperr.InvalidIdentifier("Identificador de auxiliar inválido: %q", identificador)
	}
	return r.auxRepo.GetAuxiliar(ctx, id)
}
