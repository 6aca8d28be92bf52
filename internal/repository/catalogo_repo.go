package repository

import (
	"context"

	"github.com/DidierBrusa/tap-talk-api/internal/domain"
)

type CategoriasRepository interface {
	GetCategoria(ctx context.Context, id int64) (*domain.Categoria, error)
	ListCategorias(ctx context.Context) ([]*domain.Categoria, error)
	CreateCategoria(ctx context.Context, c *domain.Categoria) (*domain.Categoria, error)
	UpdateCategoria(ctx context.Context, id int64, u domain.CategoriaUpdate) (*domain.Categoria, error)
	DeleteCategoria(ctx context.Context, id int64) (*domain.Categoria, error)
}

type PictogramasRepository interface {
	GetPictograma(ctx context.Context, id int64) (*domain.Pictograma, error)
	// ListPictogramas filters by category when categoriaID is non-nil.
	ListPictogramas(ctx context.Context, categoriaID *int64) ([]*domain.Pictograma, error)
	CreatePictograma(ctx context.Context, p *domain.Pictograma) (*domain.Pictograma, error)
	UpdatePictograma(ctx context.Context, id int64, u domain.PictogramaUpdate) (*domain.Pictograma, error)
	DeletePictograma(ctx context.Context, id int64) (*domain.Pictograma, error)
}
