package repository

import (
	"context"

	"github.com/DidierBrusa/tap-talk-api/internal/domain"
)

// MembershipRepository reads and writes auxiliar_grupo edges.
type MembershipRepository interface {
	// GetVinculo returns the edge for the pair, apperr.NotFound if none.
	GetVinculo(ctx context.Context, grupoID, auxiliarID int64) (*domain.AuxiliarGrupo, error)

	// CreateVinculo inserts an edge; a duplicate pair is apperr.Conflict, never an overwrite.
	CreateVinculo(ctx context.Context, v *domain.AuxiliarGrupo) (*domain.AuxiliarGrupo, error)

	// DeleteVinculo removes the edge and returns it, apperr.NotFound if none.
	DeleteVinculo(ctx context.Context, grupoID, auxiliarID int64) (*domain.AuxiliarGrupo, error)

	// ListMiembros returns the linked auxiliares of a group. Never nil.
	ListMiembros(ctx context.Context, grupoID int64) ([]domain.MiembroGrupo, error)

	// ListGruposDeAuxiliar returns the active groups the auxiliar created
	// (matched by userID) or is linked to (matched by auxiliarID), one row per group.
	ListGruposDeAuxiliar(ctx context.Context, auxiliarID int64, userID string) ([]domain.GrupoDeAuxiliar, error)
}
