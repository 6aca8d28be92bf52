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

const categoriaColumns = `id, nombre, imagen`

var categoriaWriteMessages = pqMessages{Input: "Datos de categoría inválidos"}

// PostgresCategoriasRepository implements CategoriasRepository.
type PostgresCategoriasRepository struct {
	db *sql.DB
}

func NewPostgresCategoriasRepository(db *sql.DB) *PostgresCategoriasRepository {
	return &PostgresCategoriasRepository{db: db}
}

var _ CategoriasRepository = (*PostgresCategoriasRepository)(nil)

func scanCategoria(row rowScanner) (*domain.Categoria, error) {
	var (
		c      domain.Categoria
		imagen sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Nombre, &imagen); err != nil {
		return nil, err
	}
	c.Imagen = nullStringPtr(imagen)
	return &c, nil
}

func (r *PostgresCategoriasRepository) GetCategoria(ctx context.Context, id int64) (*domain.Categoria, error) {
	c, err := scanCategoria(r.db.QueryRowContext(ctx, `SELECT `+categoriaColumns+` FROM categoria WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Categoría no encontrada")
		}
		return nil, fmt.Errorf("failed to get categoria: %w", err)
	}
	return c, nil
}

func (r *PostgresCategoriasRepository) ListCategorias(ctx context.Context) ([]*domain.Categoria, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+categoriaColumns+` FROM categoria ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categorias: %w", err)
	}
	defer rows.Close()

	out := []*domain.Categoria{}
	for rows.Next() {
		c, err := scanCategoria(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan categoria: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresCategoriasRepository) CreateCategoria(ctx context.Context, c *domain.Categoria) (*domain.Categoria, error) {
	created, err := scanCategoria(r.db.QueryRowContext(ctx,
		`INSERT INTO categoria (nombre, imagen) VALUES ($1, $2) RETURNING `+categoriaColumns,
		c.Nombre, c.Imagen))
	if err != nil {
		return nil, mapPQError(err, "failed to create categoria", categoriaWriteMessages)
	}
	return created, nil
}

func (r *PostgresCategoriasRepository) UpdateCategoria(ctx context.Context, id int64, u domain.CategoriaUpdate) (*domain.Categoria, error) {
	if u.Empty() {
		return r.GetCategoria(ctx, id)
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
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE categoria SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argIdx, categoriaColumns)
	updated, err := scanCategoria(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Categoría no encontrada")
		}
		return nil, mapPQError(err, "failed to update categoria", categoriaWriteMessages)
	}
	return updated, nil
}

func (r *PostgresCategoriasRepository) DeleteCategoria(ctx context.Context, id int64) (*domain.Categoria, error) {
	deleted, err := scanCategoria(r.db.QueryRowContext(ctx,
		`DELETE FROM categoria WHERE id = $1 RETURNING `+categoriaColumns, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Categoría no encontrada")
		}
		return nil, mapPQError(err, "failed to delete categoria", pqMessages{
			FK: "No se puede eliminar la categoría porque tiene pictogramas asociados",
		})
	}
	return deleted, nil
}
