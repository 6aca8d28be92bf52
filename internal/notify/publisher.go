// Package notify fans notification events out to connected caregivers.
// Delivery is best effort: the database row is the source of truth.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/DidierBrusa/tap-talk-api/internal/domain"
)

// EventType names what happened to a notification.
type EventType string

const (
	EventCreated  EventType = "notificacion.creada"
	EventUpdated  EventType = "notificacion.actualizada"
	EventResolved EventType = "notificacion.resuelta"
)

// Event is the payload published for a notification change.
type Event struct {
	ID           string               `json:"id"`
	Type         EventType            `json:"type"`
	GrupoID      int64                `json:"grupo_id"`
	Notificacion *domain.Notificacion `json:"notificacion"`
	OccurredAt   time.Time            `json:"occurred_at"`
}

// NewEvent stamps n with a fresh event id.
func NewEvent(t EventType, n *domain.Notificacion) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         t,
		GrupoID:      n.GrupoID,
		Notificacion: n,
		OccurredAt:   time.Now().UTC(),
	}
}

// Publisher delivers events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
