package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"
	"github.com/DidierBrusa/tap-talk-api/internal/domain"
)

const pictogramaColumns = `id, nombre, imagen, categoria_id`

var pictogramaWriteMessages = pqMessages{
	FK:     "La categoría indicada no existe",
	FKKind: apperr.KindNotFound,
	Input:  "Datos de pictograma inválidos",
}

// PostgresPictogramasRepository implements PictogramasRepository.
type PostgresPictogramasRepository struct {
	db *sql.DB
}

func NewPostgresPictogramasRepository(db *sql.DB) *PostgresPictogramasRepository {
	return &PostgresPictogramasRepository{db: db}
}

var _ PictogramasRepository = (*PostgresPictogramasRepository)(nil)

func scanPictograma(row rowScanner) (*domain.Pictograma, error) {
	var (
		p           domain.Pictograma
		imagen      sql.NullString
		categoriaID sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.Nombre, &imagen, &categoriaID); err != nil {
		return nil, err
	}
	p.Imagen = nullStringPtr(imagen)
	p.CategoriaID = nullInt64Ptr(categoriaID)
	return &p, nil
}

func (r *PostgresPictogramasRepository) GetPictograma(ctx context.Context, id int64) (*domain.Pictograma, error) {
	p, err := scanPictograma(r.db.QueryRowContext(ctx, `SELECT `+pictogramaColumns+` FROM pictograma WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Pictograma no encontrado")
		}
		return nil, fmt.Errorf("failed to get pictograma: %w", err)
	}
	return p, nil
}

func (r *PostgresPictogramasRepository) ListPictogramas(ctx context.Context, categoriaID *int64) ([]*domain.Pictograma, error) {
	query := `SELECT ` + pictogramaColumns + ` FROM pictograma`
	args := []any{}
	if categoriaID != nil {
		query += ` WHERE categoria_id = $1`
		args = append(args, *categoriaID)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pictogramas: %w", err)
	}
	defer rows.Close()

	out := []*domain.Pictograma{}
	for rows.Next() {
		p, err := scanPictograma(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pictograma: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresPictogramasRepository) CreatePictograma(ctx context.Context, p *domain.Pictograma) (*domain.Pictograma, error) {
	created, err := scanPictograma(r.db.QueryRowContext(ctx,
		`INSERT INTO pictograma (nombre, imagen, categoria_id) VALUES ($1, $2, $3) RETURNING `+pictogramaColumns,
		p.Nombre, p.Imagen, p.CategoriaID))
	if err != nil {
		return nil, mapPQError(err, "failed to create pictograma", pictogramaWriteMessages)
	}
	return created, nil
}

func (r *PostgresPictogramasRepository) UpdatePictograma(ctx context.Context, id int64, u domain.PictogramaUpdate) (*domain.Pictograma, error) {
	if u.Empty() {
		return r.GetPictograma(ctx, id)
	}

	sets := []string{}
	args := []any{}
	argIdx := 1
	if u.Nombre != nil {
		sets = append(sets, fmt.Sprintf("nombre = $%d", argIdx))
		args = append(args, *u.Nombre)
		argIdx++
	}
	if u.Imagen != nil {
		sets = append(sets, fmt.Sprintf("imagen = $%d", argIdx))
		args = append(args, nullIfEmpty(*u.Imagen))
		argIdx++
	}
	switch {
	case u.ClearCategoria:
		sets = append(sets, "categoria_id = NULL")
	case u.CategoriaID != nil:
		sets = append(sets, fmt.Sprintf("categoria_id = $%d", argIdx))
		args = append(args, *u.CategoriaID)
		argIdx++
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE pictograma SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argIdx, pictogramaColumns)
	updated, err := scanPictograma(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Pictograma no encontrado")
		}
		return nil, mapPQError(err, "failed to update pictograma", pictogramaWriteMessages)
	}
	return updated, nil
}

func (r *PostgresPictogramasRepository) DeletePictograma(ctx context.Context, id int64) (*domain.Pictograma, error) {
	deleted, err := scanPictograma(r.db.QueryRowContext(ctx,
		`DELETE FROM pictograma WHERE id = $1 RETURNING `+pictogramaColumns, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Pictograma no encontrado")
		}
		return nil, mapPQError(err, "failed to delete pictograma", pqMessages{
			FK: "No se puede eliminar el pictograma porque tiene notificaciones asociadas",
		})
	}
	return deleted, nil
}
