package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"
	"github.com/DidierBrusa/tap-talk-api/internal/domain"
)

const vinculoColumns = `id, auxiliar_id, grupo_id, es_creador, es_administrador, fecha_vinculacion, activo`

// PostgresMembershipRepository implements MembershipRepository.
type PostgresMembershipRepository struct {
	db *sql.DB
}

func NewPostgresMembershipRepository(db *sql.DB) *PostgresMembershipRepository {
	return &PostgresMembershipRepository{db: db}
}

var _ MembershipRepository = (*PostgresMembershipRepository)(nil)

func scanVinculo(row rowScanner) (*domain.AuxiliarGrupo, error) {
	var v domain.AuxiliarGrupo
	if err := row.Scan(&v.ID, &v.AuxiliarID, &v.GrupoID, &v.EsCreador, &v.EsAdministrador, &v.FechaVinculacion, &v.Activo); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PostgresMembershipRepository) GetVinculo(ctx context.Context, grupoID, auxiliarID int64) (*domain.AuxiliarGrupo, error) {
	v, err := scanVinculo(r.db.QueryRowContext(ctx,
		`SELECT `+vinculoColumns+` FROM auxiliar_grupo WHERE grupo_id = $1 AND auxiliar_id = $2`,
		grupoID, auxiliarID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("El auxiliar no está vinculado a este grupo")
		}
		return nil, fmt.Errorf("failed to get vinculo: %w", err)
	}
	return v, nil
}

func (r *PostgresMembershipRepository) CreateVinculo(ctx context.Context, v *domain.AuxiliarGrupo) (*domain.AuxiliarGrupo, error) {
	query := `
		INSERT INTO auxiliar_grupo (auxiliar_id, grupo_id, es_creador, es_administrador, fecha_vinculacion, activo)
		VALUES ($1, $2, $3, $4, NOW(), TRUE)
		RETURNING ` + vinculoColumns

	created, err := scanVinculo(r.db.QueryRowContext(ctx, query, v.AuxiliarID, v.GrupoID, v.EsCreador, v.EsAdministrador))
	if err != nil {
		return nil, mapPQError(err, "failed to create vinculo", pqMessages{
			Unique: "El auxiliar ya está vinculado a este grupo",
			FK:     "Grupo o auxiliar no encontrado",
			FKKind: apperr.KindNotFound,
		})
	}
	return created, nil
}

func (r *PostgresMembershipRepository) DeleteVinculo(ctx context.Context, grupoID, auxiliarID int64) (*domain.AuxiliarGrupo, error) {
	deleted, err := scanVinculo(r.db.QueryRowContext(ctx,
		`DELETE FROM auxiliar_grupo WHERE grupo_id = $1 AND auxiliar_id = $2 RETURNING `+vinculoColumns,
		grupoID, auxiliarID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("El auxiliar no está vinculado a este grupo")
		}
		return nil, fmt.Errorf("failed to delete vinculo: %w", err)
	}
	return deleted, nil
}

func (r *PostgresMembershipRepository) ListMiembros(ctx context.Context, grupoID int64) ([]domain.MiembroGrupo, error) {
	query := `
		SELECT a.id, a.user_id, a.nombre, a.email, ag.es_creador, ag.es_administrador, ag.fecha_vinculacion
		FROM auxiliar_grupo ag
		JOIN auxiliar a ON a.id = ag.auxiliar_id
		WHERE ag.grupo_id = $1 AND ag.activo
		ORDER BY ag.fecha_vinculacion, a.id`

	rows, err := r.db.QueryContext(ctx, query, grupoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list miembros: %w", err)
	}
	defer rows.Close()

	out := []domain.MiembroGrupo{}
	for rows.Next() {
		var m domain.MiembroGrupo
		if err := rows.Scan(&m.AuxiliarID, &m.UserID, &m.Nombre, &m.Email, &m.EsCreador, &m.EsAdministrador, &m.FechaVinculacion); err != nil {
			return nil, fmt.Errorf("failed to scan miembro: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate miembros: %w", err)
	}
	return out, nil
}

// ListGruposDeAuxiliar unions created and linked groups in one pass: the LEFT JOIN
// keeps created groups with no edge, and a group both created and linked yields one row.
func (r *PostgresMembershipRepository) ListGruposDeAuxiliar(ctx context.Context, auxiliarID int64, userID string) ([]domain.GrupoDeAuxiliar, error) {
	query := `
		SELECT g.id, g.nombre_paciente, g.codigo_vinculacion,
		       (g.creador_id = $2) OR COALESCE(ag.es_creador, FALSE),
		       (g.creador_id = $2) OR COALESCE(ag.es_administrador, FALSE),
		       COALESCE(ag.fecha_vinculacion, g.fecha_creacion)
		FROM grupo g
		LEFT JOIN auxiliar_grupo ag
		       ON ag.grupo_id = g.id AND ag.auxiliar_id = $1 AND ag.activo
		WHERE g.activo AND (g.creador_id = $2 OR ag.auxiliar_id IS NOT NULL)
		ORDER BY g.id`

	rows, err := r.db.QueryContext(ctx, query, auxiliarID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grupos de auxiliar: %w", err)
	}
	defer rows.Close()

	out := []domain.GrupoDeAuxiliar{}
	for rows.Next() {
		var g domain.GrupoDeAuxiliar
		if err := rows.Scan(&g.GrupoID, &g.NombrePaciente, &g.CodigoVinculacion, &g.EsCreador, &g.EsAdministrador, &g.FechaVinculacion); err != nil {
			return nil, fmt.Errorf("failed to scan grupo de auxiliar: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate grupos de auxiliar: %w", err)
	}
	return out, nil
}
