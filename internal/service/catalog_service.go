package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"
	"github.com/DidierBrusa/tap-talk-api/internal/domain"
	"github.com/DidierBrusa/tap-talk-api/internal/repository"
)

// CatalogService serves categorias and pictogramas reference data.
type CatalogService struct {
	categorias  repository.CategoriasRepository
	pictogramas repository.PictogramasRepository
}

func NewCatalogService(categorias repository.CategoriasRepository, pictogramas repository.PictogramasRepository) *CatalogService {
	return &CatalogService{categorias: categorias, pictogramas: pictogramas}
}

func normalizeCatalogNombre(nombre string) (string, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return "", apperr.Validation("nombre es obligatorio")
	}
	if utf8.RuneCountInString(nombre) > domain.CatalogoNombreMaxLength {
		return "", apperr.Validation("nombre no puede superar %d caracteres", domain.CatalogoNombreMaxLength)
	}
	return nombre, nil
}

// normalizeImagen maps a blank image to nil.
func normalizeImagen(imagen *string) (*string, error) {
	if imagen == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*imagen)
	if v == "" {
		return nil, nil
	}
	if len(v) > domain.ImagenMaxLength {
		return nil, apperr.Validation("imagen no puede superar %d caracteres", domain.ImagenMaxLength)
	}
	return &v, nil
}

// ---- categorias ----

type CategoriaRequest struct {
	Nombre *string
	Imagen *string
}

func (s *CatalogService) ListCategorias(ctx context.Context) ([]*domain.Categoria, error) {
	return s.categorias.ListCategorias(ctx)
}

func (s *CatalogService) GetCategoria(ctx context.Context, id int64) (*domain.Categoria, error) {
	return s.categorias.GetCategoria(ctx, id)
}

func (s *CatalogService) CreateCategoria(ctx context.Context, req CategoriaRequest) (*domain.Categoria, error) {
	if req.Nombre == nil {
		return nil, apperr.Validation("nombre es obligatorio")
	}
	nombre, err := normalizeCatalogNombre(*req.Nombre)
	if err != nil {
		return nil, err
	}
	imagen, err := normalizeImagen(req.Imagen)
	if err != nil {
		return nil, err
	}
	return s.categorias.CreateCategoria(ctx, &domain.Categoria{Nombre: nombre, Imagen: imagen})
}

func (s *CatalogService) UpdateCategoria(ctx context.Context, id int64, req CategoriaRequest) (*domain.Categoria, error) {
	var u domain.CategoriaUpdate
	if req.Nombre != nil {
		nombre, err := normalizeCatalogNombre(*req.Nombre)
		if err != nil {
			return nil, err
		}
		u.Nombre = &nombre
	}
	if req.Imagen != nil {
		imagen, err := normalizeImagen(req.Imagen)
		if err != nil {
			return nil, err
		}
		if imagen == nil {
			empty := ""
			imagen = &empty
		}
		u.Imagen = imagen
	}
	return s.categorias.UpdateCategoria(ctx, id, u)
}

func (s *CatalogService) DeleteCategoria(ctx context.Context, id int64) (*domain.Categoria, error) {
	return s.categorias.DeleteCategoria(ctx, id)
}

// ---- pictogramas ----

// PictogramaRequest carries pictogram fields. ClearCategoria unsets the category
// on update.
type PictogramaRequest struct {
	Nombre         *string
	Imagen         *string
	CategoriaID    *int64
	ClearCategoria bool
}

func (s *CatalogService) ListPictogramas(ctx context.Context, categoriaID *int64) ([]*domain.Pictograma, error) {
	return s.pictogramas.ListPictogramas(ctx, categoriaID)
}

func (s *CatalogService) GetPictograma(ctx context.Context, id int64) (*domain.Pictograma, error) {
	return s.pictogramas.GetPictograma(ctx, id)
}

func (s *CatalogService) checkCategoria(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	if *id <= 0 {
		return apperr.Validation("categoria_id inválido")
	}
	if _, err := s.categorias.GetCategoria(ctx, *id); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.NotFound("La categoría indicada no existe")
		}
		return err
	}
	return nil
}

func (s *CatalogService) CreatePictograma(ctx context.Context, req PictogramaRequest) (*domain.Pictograma, error) {
	if req.Nombre == nil {
		return nil, apperr.Validation("nombre es obligatorio")
	}
	nombre, err := normalizeCatalogNombre(*req.Nombre)
	if err != nil {
		return nil, err
	}
	imagen, err := normalizeImagen(req.Imagen)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategoria(ctx, req.CategoriaID); err != nil {
		return nil, err
	}
	return s.pictogramas.CreatePictograma(ctx, &domain.Pictograma{Nombre: nombre, Imagen: imagen, CategoriaID: req.CategoriaID})
}

func (s *CatalogService) UpdatePictograma(ctx context.Context, id int64, req PictogramaRequest) (*domain.Pictograma, error) {
	u := domain.PictogramaUpdate{ClearCategoria: req.ClearCategoria}
	if req.Nombre != nil {
		nombre, err := normalizeCatalogNombre(*req.Nombre)
		if err != nil {
			return nil, err
		}
		u.Nombre = &nombre
	}
	if req.Imagen != nil {
		imagen, err := normalizeImagen(req.Imagen)
		if err != nil {
			return nil, err
		}
		if imagen == nil {
			empty := ""
			imagen = &empty
		}
		u.Imagen = imagen
	}
	if !req.ClearCategoria && req.CategoriaID != nil {
		if err := s.checkCategoria(ctx, req.CategoriaID); err != nil {
			return nil, err
		}
		u.CategoriaID = req.CategoriaID
	}
	return s.pictogramas.UpdatePictograma(ctx, id, u)
}

func (s *CatalogService) DeletePictograma(ctx context.Context, id int64) (*domain.Pictograma, error) {
	return s.pictogramas.DeletePictograma(ctx, id)
}
