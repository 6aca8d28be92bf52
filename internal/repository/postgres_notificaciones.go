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

const notificacionColumns = `id, pictograma_id, grupo_id, contenido, tipo, estado, fecha_creacion, fecha_resuelta, miembro_resolutor`

var notificacionWriteMessages = pqMessages{
	FK:     "El pictograma, el grupo o el miembro resolutor indicado no existe",
	FKKind: apperr.KindNotFound,
	Input:  "Datos de notificación inválidos",
}

// PostgresNotificacionesRepository implements NotificacionesRepository.
type PostgresNotificacionesRepository struct {
	db *sql.DB
}

func NewPostgresNotificacionesRepository(db *sql.DB) *PostgresNotificacionesRepository {
	return &PostgresNotificacionesRepository{db: db}
}

var _ NotificacionesRepository = (*PostgresNotificacionesRepository)(nil)

func scanNotificacion(row rowScanner) (*domain.Notificacion, error) {
	var (
		n             domain.Notificacion
		fechaResuelta sql.NullTime
		resolutor     sql.NullInt64
	)
	if err := row.Scan(&n.ID, &n.PictogramaID, &n.GrupoID, &n.Contenido, &n.Tipo, &n.Estado,
		&n.FechaCreacion, &fechaResuelta, &resolutor); err != nil {
		return nil, err
	}
	n.FechaResuelta = nullTimePtr(fechaResuelta)
	n.MiembroResolutor = nullInt64Ptr(resolutor)
	return &n, nil
}

func (r *PostgresNotificacionesRepository) GetNotificacion(ctx context.Context, id int64) (*domain.Notificacion, error) {
	n, err := scanNotificacion(r.db.QueryRowContext(ctx, `SELECT `+notificacionColumns+` FROM notificacion WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Notificación no encontrada")
		}
		return nil, fmt.Errorf("failed to get notificacion: %w", err)
	}
	return n, nil
}

func (r *PostgresNotificacionesRepository) ListNotificaciones(ctx context.Context, f domain.NotificacionFilter) ([]*domain.Notificacion, error) {
	where := []string{}
	args := []any{}
	argIdx := 1
	if f.GrupoID != nil {
		where = append(where, fmt.Sprintf("grupo_id = $%d", argIdx))
		args = append(args, *f.GrupoID)
		argIdx++
	}
	if f.Estado != "" {
		where = append(where, fmt.Sprintf("estado = $%d", argIdx))
		args = append(args, f.Estado)
		argIdx++
	}

	query := `SELECT ` + notificacionColumns + ` FROM notificacion`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY fecha_creacion DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notificaciones: %w", err)
	}
	defer rows.Close()

	out := []*domain.Notificacion{}
	for rows.Next() {
		n, err := scanNotificacion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notificacion: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PostgresNotificacionesRepository) CreateNotificacion(ctx context.Context, n *domain.Notificacion) (*domain.Notificacion, error) {
	query := `
		INSERT INTO notificacion (pictograma_id, grupo_id, contenido, tipo, estado, fecha_creacion)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING ` + notificacionColumns

	created, err := scanNotificacion(r.db.QueryRowContext(ctx, query,
		n.PictogramaID, n.GrupoID, n.Contenido, n.Tipo, n.Estado))
	if err != nil {
		return nil, mapPQError(err, "failed to create notificacion", notificacionWriteMessages)
	}
	return created, nil
}

func (r *PostgresNotificacionesRepository) UpdateNotificacion(ctx context.Context, id int64, u domain.NotificacionUpdate) (*domain.Notificacion, error) {
	if u.Empty() {
		return r.GetNotificacion(ctx, id)
	}

	sets := []string{}
	args := []any{}
	argIdx := 1
	add := func(column string, v any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, v)
		argIdx++
	}
	if u.Contenido != nil {
		add("contenido", *u.Contenido)
	}
	if u.Tipo != nil {
		add("tipo", *u.Tipo)
	}
	if u.Estado != nil {
		add("estado", *u.Estado)
	}
	if u.FechaResuelta != nil {
		add("fecha_resuelta", *u.FechaResuelta)
	}
	if u.MiembroResolutor != nil {
		add("miembro_resolutor", *u.MiembroResolutor)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE notificacion SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argIdx, notificacionColumns)
	updated, err := scanNotificacion(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Notificación no encontrada")
		}
		return nil, mapPQError(err, "failed to update notificacion", notificacionWriteMessages)
	}
	return updated, nil
}

func (r *PostgresNotificacionesRepository) DeleteNotificacion(ctx context.Context, id int64) (*domain.Notificacion, error) {
	deleted, err := scanNotificacion(r.db.QueryRowContext(ctx,
		`DELETE FROM notificacion WHERE id = $1 RETURNING `+notificacionColumns, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Notificación no encontrada")
		}
		return nil, fmt.Errorf("failed to delete notificacion: %w", err)
	}
	return deleted, nil
}
