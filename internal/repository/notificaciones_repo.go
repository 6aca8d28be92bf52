package repository

import (
	"context"

	"github.com/DidierBrusa/tap-talk-api/internal/domain"
)

// NotificacionesRepository reads and writes the notificacion log.
type NotificacionesRepository interface {
	GetNotificacion(ctx context.Context, id int64) (*domain.Notificacion, error)
	// ListNotificaciones returns newest first.
	ListNotificaciones(ctx context.Context, f domain.NotificacionFilter) ([]*domain.Notificacion, error)
	CreateNotificacion(ctx context.Context, n *domain.Notificacion) (*domain.Notificacion, error)
	UpdateNotificacion(ctx context.Context, id int64, u domain.NotificacionUpdate) (*domain.Notificacion, error)
	DeleteNotificacion(ctx context.Context, id int64) (*domain.Notificacion, error)
}
