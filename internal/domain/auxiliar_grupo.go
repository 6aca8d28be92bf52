package domain

import "time"

// AuxiliarGrupo is a membership edge (table auxiliar_grupo), unique per (auxiliar_id, grupo_id).
type AuxiliarGrupo struct {
	ID               int64     `db:"id" json:"id"`
	AuxiliarID       int64     `db:"auxiliar_id" json:"auxiliar_id"`
	GrupoID          int64     `db:"grupo_id" json:"grupo_id"`
	EsCreador        bool      `db:"es_creador" json:"es_creador"`
	EsAdministrador  bool      `db:"es_administrador" json:"es_administrador"`
	FechaVinculacion time.Time `db:"fecha_vinculacion" json:"fecha_vinculacion"`
	Activo           bool      `db:"activo" json:"activo"`
}

// MiembroGrupo is one linked auxiliar as seen from a group.
type MiembroGrupo struct {
	AuxiliarID       int64     `json:"auxiliar_id"`
	UserID           string    `json:"user_id"`
	Nombre           string    `json:"nombre"`
	Email            string    `json:"email"`
	EsCreador        bool      `json:"es_creador"`
	EsAdministrador  bool      `json:"es_administrador"`
	FechaVinculacion time.Time `json:"fecha_vinculacion"`
}

// GrupoDeAuxiliar is one group as seen from an auxiliar, either as creator or member.
type GrupoDeAuxiliar struct {
	GrupoID           int64     `json:"grupo_id"`
	NombrePaciente    string    `json:"nombre_paciente"`
	CodigoVinculacion string    `json:"codigo_vinculacion"`
	EsCreador         bool      `json:"es_creador"`
	EsAdministrador   bool      `json:"es_administrador"`
	FechaVinculacion  time.Time `json:"fecha_vinculacion"`
}
