package repository

import (
	"context"

	"github.com/DidierBrusa/tap-talk-api/internal/domain"
)

// GruposRepository reads and writes the grupo table.
type GruposRepository interface {
	GetGrupo(ctx context.Context, id int64) (*domain.Grupo, error)
	GetGrupoByCodigo(ctx context.Context, codigo string) (*domain.Grupo, error)
	ListGrupos(ctx context.Context) ([]*domain.Grupo, error)

	// ExistsActiveGrupo reports whether creadorID already has an active group
	// whose name matches nombrePaciente case-insensitively.
	ExistsActiveGrupo(ctx context.Context, creadorID, nombrePaciente string) (bool, error)

	CreateGrupo(ctx context.Context, g *domain.Grupo) (*domain.Grupo, error)
	UpdateGrupo(ctx context.Context, id int64, u domain.GrupoUpdate) (*domain.Grupo, error)
	DeleteGrupo(ctx context.Context, id int64) (*domain.Grupo, error)
}
