package domain

import "time"

// Auxiliar is a caregiver account (table auxiliar).
// UserID is the subject issued by the identity provider; ID is the internal sequence.
type Auxiliar struct {
	ID            int64     `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	Email         string    `db:"email" json:"email"`
	Nombre        string    `db:"nombre" json:"nombre"`
	AuthProvider  *string   `db:"auth_provider" json:"auth_provider"`
	Activo        bool      `db:"activo" json:"activo"`
	FechaCreacion time.Time `db:"fecha_creacion" json:"fecha_creacion"`
}

// AuxiliarUpdate is a partial update of an Auxiliar.
type AuxiliarUpdate struct {
	Email        *string
	Nombre       *string
	AuthProvider *string
	Activo       *bool
}

// Empty reports whether no field is set.
func (u AuxiliarUpdate) Empty() bool {
	return u.Email == nil && u.Nombre == nil && u.AuthProvider == nil && u.Activo == nil
}
