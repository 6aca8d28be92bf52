package domain

import "time"

// Notification status values.
const (
	EstadoPendiente = "PENDIENTE"
	EstadoResuelta  = "RESUELTA"
)

// TipoPictograma is the default notification type.
const TipoPictograma = "pictograma"

// Notificacion is raised when a patient selects a pictogram within a group (table notificacion).
type Notificacion struct {
	ID               int64      `db:"id" json:"id"`
	PictogramaID     int64      `db:"pictograma_id" json:"pictograma_id"`
	GrupoID          int64      `db:"grupo_id" json:"grupo_id"`
	Contenido        string     `db:"contenido" json:"contenido"`
	Tipo             string     `db:"tipo" json:"tipo"`
	Estado           string     `db:"estado" json:"estado"`
	FechaCreacion    time.Time  `db:"fecha_creacion" json:"fecha_creacion"`
	FechaResuelta    *time.Time `db:"fecha_resuelta" json:"fecha_resuelta"`
	MiembroResolutor *int64     `db:"miembro_resolutor" json:"miembro_resolutor"`
}

// NotificacionUpdate is a partial update of a Notificacion.
type NotificacionUpdate struct {
	Contenido        *string
	Tipo             *string
	Estado           *string
	FechaResuelta    *time.Time
	MiembroResolutor *int64
}

// Empty reports whether no field is set.
func (u NotificacionUpdate) Empty() bool {
	return u.Contenido == nil && u.Tipo == nil && u.Estado == nil && u.FechaResuelta == nil && u.MiembroResolutor == nil
}

// NotificacionFilter narrows a notification listing.
type NotificacionFilter struct {
	GrupoID *int64
	Estado  string
}

// IsKnownEstado reports whether estado is a recognised status.
func IsKnownEstado(estado string) bool {
	return estado == EstadoPendiente || estado == EstadoResuelta
}
