package domain

import "time"

// CodigoVinculacionLength is the length of a group's linking code.
const CodigoVinculacionLength = 16

// NombrePacienteMaxLength bounds Grupo.NombrePaciente.
const NombrePacienteMaxLength = 100

// Grupo is a patient-care group (table grupo). CreadorID holds the creator's external identity.
type Grupo struct {
	ID                int64     `db:"id" json:"id"`
	CodigoVinculacion string    `db:"codigo_vinculacion" json:"codigo_vinculacion"`
	CreadorID         string    `db:"creador_id" json:"creador_id"`
	NombrePaciente    string    `db:"nombre_paciente" json:"nombre_paciente"`
	Activo            bool      `db:"activo" json:"activo"`
	FechaCreacion     time.Time `db:"fecha_creacion" json:"fecha_creacion"`
}

// GrupoDetalle is a group with its current members.
type GrupoDetalle struct {
	Grupo
	Miembros []MiembroGrupo `json:"miembros"`
}

// GrupoUpdate lists the fields a partial update may set. Nil means untouched.
type GrupoUpdate struct {
	NombrePaciente    *string
	CodigoVinculacion *string
	Activo            *bool
}

// Empty reports whether no field is set.
func (u GrupoUpdate) Empty() bool {
	return u.NombrePaciente == nil && u.CodigoVinculacion == nil && u.Activo == nil
}
