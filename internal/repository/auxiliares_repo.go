package repository

import (
	"context"

	"github.com/DidierBrusa/tap-talk-api/internal/domain"
)

// AuxiliaresRepository reads and writes the auxiliar table.
// Lookups return apperr.NotFound when no row matches, active or not.
type AuxiliaresRepository interface {
	GetAuxiliar(ctx context.Context, id int64) (*domain.Auxiliar, error)
	GetAuxiliarByUserID(ctx context.Context, userID string) (*domain.Auxiliar, error)
	ListAuxiliares(ctx context.Context) ([]*domain.Auxiliar, error)

	CreateAuxiliar(ctx context.Context, a *domain.Auxiliar) (*domain.Auxiliar, error)
	UpdateAuxiliar(ctx context.Context, id int64, u domain.AuxiliarUpdate) (*domain.Auxiliar, error)

	// DeleteAuxiliar hard-deletes; apperr.Dependency if the row is still referenced.
	DeleteAuxiliar(ctx context.Context, id int64) (*domain.Auxiliar, error)
}
