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

const auxiliarColumns = `id, user_id, email, nombre, auth_provider, activo, fecha_creacion`

// PostgresAuxiliaresRepository implements AuxiliaresRepository.
type PostgresAuxiliaresRepository struct {
	db *sql.DB
}

func NewPostgresAuxiliaresRepository(db *sql.DB) *PostgresAuxiliaresRepository {
	return &PostgresAuxiliaresRepository{db: db}
}

var _ AuxiliaresRepository = (*PostgresAuxiliaresRepository)(nil)

func scanAuxiliar(row rowScanner) (*domain.Auxiliar, error) {
	var (
		a            domain.Auxiliar
		authProvider sql.NullString
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.Email, &a.Nombre, &authProvider, &a.Activo, &a.FechaCreacion); err != nil {
		return nil, err
	}
	a.AuthProvider = nullStringPtr(authProvider)
	return &a, nil
}

func (r *PostgresAuxiliaresRepository) getOne(ctx context.Context, query string, arg any) (*domain.Auxiliar, error) {
	a, err := scanAuxiliar(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Auxiliar no encontrado")
		}
		return nil, fmt.Errorf("failed to get auxiliar: %w", err)
	}
	return a, nil
}

func (r *PostgresAuxiliaresRepository) GetAuxiliar(ctx context.Context, id int64) (*domain.Auxiliar, error) {
	return r.getOne(ctx, `SELECT `+auxiliarColumns+` FROM auxiliar WHERE id = $1`, id)
}

func (r *PostgresAuxiliaresRepository) GetAuxiliarByUserID(ctx context.Context, userID string) (*domain.Auxiliar, error) {
	return r.getOne(ctx, `SELECT `+auxiliarColumns+` FROM auxiliar WHERE user_id = $1`, userID)
}

func (r *PostgresAuxiliaresRepository) ListAuxiliares(ctx context.Context) ([]*domain.Auxiliar, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+auxiliarColumns+` FROM auxiliar ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list auxiliares: %w", err)
	}
	defer rows.Close()

	out := []*domain.Auxiliar{}
	for rows.Next() {
		a, err := scanAuxiliar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan auxiliar: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate auxiliares: %w", err)
	}
	return out, nil
}

func (r *PostgresAuxiliaresRepository) CreateAuxiliar(ctx context.Context, a *domain.Auxiliar) (*domain.Auxiliar, error) {
	query := `
		INSERT INTO auxiliar (user_id, email, nombre, auth_provider, activo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + auxiliarColumns

	created, err := scanAuxiliar(r.db.QueryRowContext(ctx, query, a.UserID, a.Email, a.Nombre, a.AuthProvider, a.Activo))
	if err != nil {
		return nil, mapPQError(err, "failed to create auxiliar", auxiliarWriteMessages)
	}
	return created, nil
}

func (r *PostgresAuxiliaresRepository) UpdateAuxiliar(ctx context.Context, id int64, u domain.AuxiliarUpdate) (*domain.Auxiliar, error) {
	if u.Empty() {
		return r.GetAuxiliar(ctx, id)
	}

	sets := []string{}
	args := []any{}
	argIdx := 1
	if u.Email != nil {
		sets = append(sets, fmt.Sprintf("email = $%d", argIdx))
		args = append(args, *u.Email)
		argIdx++
	}
	if u.Nombre != nil {
		sets = append(sets, fmt.Sprintf("nombre = $%d", argIdx))
		args = append(args, *u.Nombre)
		argIdx++
	}
	if u.AuthProvider != nil {
		sets = append(sets, fmt.Sprintf("auth_provider = $%d", argIdx))
		args = append(args, *u.AuthProvider)
		argIdx++
	}
	if u.Activo != nil {
		sets = append(sets, fmt.Sprintf("activo = $%d", argIdx))
		args = append(args, *u.Activo)
		argIdx++
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE auxiliar SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argIdx, auxiliarColumns)

	updated, err := scanAuxiliar(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Auxiliar no encontrado")
		}
		return nil, mapPQError(err, "failed to update auxiliar", auxiliarWriteMessages)
	}
	return updated, nil
}

func (r *PostgresAuxiliaresRepository) DeleteAuxiliar(ctx context.Context, id int64) (*domain.Auxiliar, error) {
	deleted, err := scanAuxiliar(r.db.QueryRowContext(ctx,
		`DELETE FROM auxiliar WHERE id = $1 RETURNING `+auxiliarColumns, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Auxiliar no encontrado")
		}
		return nil, mapPQError(err, "failed to delete auxiliar", pqMessages{
			FK: "No se puede eliminar el auxiliar porque está vinculado a otros datos (por ejemplo, grupos).",
		})
	}
	return deleted, nil
}

var auxiliarWriteMessages = pqMessages{
	Unique: "Ya existe un auxiliar con ese email o identidad",
	Input:  "Datos de auxiliar inválidos",
}
