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

const grupoColumns = `id, codigo_vinculacion, creador_id, nombre_paciente, activo, fecha_creacion`

var grupoWriteMessages = pqMessages{
	Unique: "Ya existe un grupo activo con ese nombre de paciente o código de vinculación",
	FK:     "creador_id no corresponde a un auxiliar registrado",
	FKKind: apperr.KindValidation,
	Input:  "Datos de grupo inválidos",
}

// PostgresGruposRepository implements GruposRepository.
type PostgresGruposRepository struct {
	db *sql.DB
}

func NewPostgresGruposRepository(db *sql.DB) *PostgresGruposRepository {
	return &PostgresGruposRepository{db: db}
}

var _ GruposRepository = (*PostgresGruposRepository)(nil)

func scanGrupo(row rowScanner) (*domain.Grupo, error) {
	var g domain.Grupo
	if err := row.Scan(&g.ID, &g.CodigoVinculacion, &g.CreadorID, &g.NombrePaciente, &g.Activo, &g.FechaCreacion); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *PostgresGruposRepository) getOne(ctx context.Context, query string, arg any) (*domain.Grupo, error) {
	g, err := scanGrupo(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Grupo no encontrado")
		}
		return nil, fmt.Errorf("failed to get grupo: %w", err)
	}
	return g, nil
}

func (r *PostgresGruposRepository) GetGrupo(ctx context.Context, id int64) (*domain.Grupo, error) {
	return r.getOne(ctx, `SELECT `+grupoColumns+` FROM grupo WHERE id = $1`, id)
}

// GetGrupoByCodigo matches the code exactly; codes are case-sensitive.
func (r *PostgresGruposRepository) GetGrupoByCodigo(ctx context.Context, codigo string) (*domain.Grupo, error) {
	return r.getOne(ctx, `SELECT `+grupoColumns+` FROM grupo WHERE codigo_vinculacion = $1`, codigo)
}

func (r *PostgresGruposRepository) ListGrupos(ctx context.Context) ([]*domain.Grupo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+grupoColumns+` FROM grupo ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list grupos: %w", err)
	}
	defer rows.Close()

	out := []*domain.Grupo{}
	for rows.Next() {
		g, err := scanGrupo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan grupo: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate grupos: %w", err)
	}
	return out, nil
}

func (r *PostgresGruposRepository) ExistsActiveGrupo(ctx context.Context, creadorID, nombrePaciente string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM grupo
			WHERE creador_id = $1 AND LOWER(nombre_paciente) = LOWER($2) AND activo
		)`, creadorID, nombrePaciente).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check grupo name: %w", err)
	}
	return exists, nil
}

func (r *PostgresGruposRepository) CreateGrupo(ctx context.Context, g *domain.Grupo) (*domain.Grupo, error) {
	query := `
		INSERT INTO grupo (codigo_vinculacion, creador_id, nombre_paciente, activo)
		VALUES ($1, $2, $3, TRUE)
		RETURNING ` + grupoColumns

	created, err := scanGrupo(r.db.QueryRowContext(ctx, query, g.CodigoVinculacion, g.CreadorID, g.NombrePaciente))
	if err != nil {
		return nil, mapPQError(err, "failed to create grupo", grupoWriteMessages)
	}
	return created, nil
}

func (r *PostgresGruposRepository) UpdateGrupo(ctx context.Context, id int64, u domain.GrupoUpdate) (*domain.Grupo, error) {
	if u.Empty() {
		return r.GetGrupo(ctx, id)
	}

	sets := []string{}
	args := []any{}
	argIdx := 1
	if u.NombrePaciente != nil {
		sets = append(sets, fmt.Sprintf("nombre_paciente = $%d", argIdx))
		args = append(args, *u.NombrePaciente)
		argIdx++
	}
	if u.CodigoVinculacion != nil {
		sets = append(sets, fmt.Sprintf("codigo_vinculacion = $%d", argIdx))
		args = append(args, *u.CodigoVinculacion)
		argIdx++
	}
	if u.Activo != nil {
		sets = append(sets, fmt.Sprintf("activo = $%d", argIdx))
		args = append(args, *u.Activo)
		argIdx++
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE grupo SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argIdx, grupoColumns)

	updated, err := scanGrupo(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Grupo no encontrado")
		}
		return nil, mapPQError(err, "failed to update grupo", grupoWriteMessages)
	}
	return updated, nil
}

// DeleteGrupo removes the group; its membership edges cascade, notifications block it.
func (r *PostgresGruposRepository) DeleteGrupo(ctx context.Context, id int64) (*domain.Grupo, error) {
	deleted, err := scanGrupo(r.db.QueryRowContext(ctx,
		`DELETE FROM grupo WHERE id = $1 RETURNING `+grupoColumns, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Grupo no encontrado")
		}
		return nil, mapPQError(err, "failed to delete grupo", pqMessages{
			FK: "No se puede eliminar el grupo porque tiene notificaciones asociadas",
		})
	}
	return deleted, nil
}
