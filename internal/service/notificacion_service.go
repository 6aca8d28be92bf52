package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"
	"github.com/DidierBrusa/tap-talk-api/internal/domain"
	"github.com/DidierBrusa/tap-talk-api/internal/notify"
	"github.com/DidierBrusa/tap-talk-api/internal/repository"
)

const tipoMaxLength = 50

// NotificacionService records pictogram selections and their resolution, and
// fans each change out through the publisher.
type NotificacionService struct {
	notificaciones repository.NotificacionesRepository
	pictogramas    repository.PictogramasRepository
	grupos         repository.GruposRepository
	publisher      notify.Publisher
	now            func() time.Time
	logger         *zap.Logger
}

func NewNotificacionService(
	notificaciones repository.NotificacionesRepository,
	pictogramas repository.PictogramasRepository,
	grupos repository.GruposRepository,
	publisher notify.Publisher,
	logger *zap.Logger,
) *NotificacionService {
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	return &NotificacionService{
		notificaciones: notificaciones,
		pictogramas:    pictogramas,
		grupos:         grupos,
		publisher:      publisher,
		now:            time.Now,
		logger:         logger,
	}
}

// publish never fails the request; the row is already committed.
func (s *NotificacionService) publish(ctx context.Context, t notify.EventType, n *domain.Notificacion) {
	ev := notify.NewEvent(t, n)
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("Failed to publish notification event",
			zap.String("event_id", ev.ID),
			zap.Int64("notificacion_id", n.ID),
			zap.Error(err),
		)
	}
}

// CreateNotificacionRequest raises a notification; Contenido defaults to the
// pictogram name and Tipo to "pictograma".
type CreateNotificacionRequest struct {
	PictogramaID int64
	GrupoID      int64
	Contenido    string
	Tipo         string
}

func (s *NotificacionService) CreateNotificacion(ctx context.Context, req CreateNotificacionRequest) (*domain.Notificacion, error) {
	if req.PictogramaID <= 0 {
		return nil, apperr.Validation("pictograma_id es obligatorio")
	}
	if req.GrupoID <= 0 {
		return nil, apperr.Validation("grupo_id es obligatorio")
	}
	tipo := strings.TrimSpace(req.Tipo)
	if tipo == "" {
		tipo = domain.TipoPictograma
	}
	if len(tipo) > tipoMaxLength {
		return nil, apperr.Validation("tipo no puede superar %d caracteres", tipoMaxLength)
	}

	p, err := s.pictogramas.GetPictograma(ctx, req.PictogramaID)
	if err != nil {
		return nil, err
	}
	if _, err := s.grupos.GetGrupo(ctx, req.GrupoID); err != nil {
		return nil, err
	}

	contenido := strings.TrimSpace(req.Contenido)
	if contenido == "" {
		contenido = p.Nombre
	}

	n, err := s.notificaciones.CreateNotificacion(ctx, &domain.Notificacion{
		PictogramaID: req.PictogramaID,
		GrupoID:      req.GrupoID,
		Contenido:    contenido,
		Tipo:         tipo,
		Estado:       domain.EstadoPendiente,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Notificacion created",
		zap.Int64("notificacion_id", n.ID),
		zap.Int64("grupo_id", n.GrupoID),
		zap.Int64("pictograma_id", n.PictogramaID),
	)
	s.publish(ctx, notify.EventCreated, n)
	return n, nil
}

func (s *NotificacionService) GetNotificacion(ctx context.Context, id int64) (*domain.Notificacion, error) {
	return s.notificaciones.GetNotificacion(ctx, id)
}

func (s *NotificacionService) ListNotificaciones(ctx context.Context, f domain.NotificacionFilter) ([]*domain.Notificacion, error) {
	f.Estado = strings.ToUpper(strings.TrimSpace(f.Estado))
	if f.Estado != "" && !domain.IsKnownEstado(f.Estado) {
		return nil, apperr.Validation("estado debe ser %s o %s", domain.EstadoPendiente, domain.EstadoResuelta)
	}
	return s.notificaciones.ListNotificaciones(ctx, f)
}

// ListByGrupo lists the notifications of an existing group, newest first.
func (s *NotificacionService) ListByGrupo(ctx context.Context, grupoID int64, estado string) ([]*domain.Notificacion, error) {
	if _, err := s.grupos.GetGrupo(ctx, grupoID); err != nil {
		return nil, err
	}
	return s.ListNotificaciones(ctx, domain.NotificacionFilter{GrupoID: &grupoID, Estado: estado})
}

// UpdateNotificacionRequest is a partial update; nil fields are left untouched.
type UpdateNotificacionRequest struct {
	Contenido        *string
	Tipo             *string
	Estado           *string
	FechaResuelta    *time.Time
	MiembroResolutor *int64
}

// UpdateNotificacion applies a partial update. Estado is PENDIENTE or
// RESUELTA; moving to RESUELTA stamps fecha_resuelta when the caller omits it.
func (s *NotificacionService) UpdateNotificacion(ctx context.Context, id int64, req UpdateNotificacionRequest) (*domain.Notificacion, error) {
	u := domain.NotificacionUpdate{
		Contenido:        req.Contenido,
		FechaResuelta:    req.FechaResuelta,
		MiembroResolutor: req.MiembroResolutor,
	}
	if req.Tipo != nil {
		tipo := strings.TrimSpace(*req.Tipo)
		if tipo == "" || len(tipo) > tipoMaxLength {
			return nil, apperr.Validation("tipo debe tener entre 1 y %d caracteres", tipoMaxLength)
		}
		u.Tipo = &tipo
	}
	if req.MiembroResolutor != nil && *req.MiembroResolutor <= 0 {
		return nil, apperr.Validation("miembro_resolutor inválido")
	}
	if req.Estado != nil {
		estado := strings.ToUpper(strings.TrimSpace(*req.Estado))
		if !domain.IsKnownEstado(estado) {
			return nil, apperr.Validation("estado debe ser %s o %s", domain.EstadoPendiente, domain.EstadoResuelta)
		}
		u.Estado = &estado
		if estado == domain.EstadoResuelta && u.FechaResuelta == nil {
			now := s.now().UTC()
			u.FechaResuelta = &now
		}
	}

	n, err := s.notificaciones.UpdateNotificacion(ctx, id, u)
	if err != nil {
		return nil, err
	}
	evType := notify.EventUpdated
	if u.Estado != nil && *u.Estado == domain.EstadoResuelta {
		evType = notify.EventResolved
	}
	s.publish(ctx, evType, n)
	return n, nil
}

// ResolverNotificacion marks the notification RESUELTA, optionally recording who did it.
func (s *NotificacionService) ResolverNotificacion(ctx context.Context, id int64, miembroResolutor *int64) (*domain.Notificacion, error) {
	estado := domain.EstadoResuelta
	return s.UpdateNotificacion(ctx, id, UpdateNotificacionRequest{Estado: &estado, MiembroResolutor: miembroResolutor})
}

func (s *NotificacionService) DeleteNotificacion(ctx context.Context, id int64) (*domain.Notificacion, error) {
	return s.notificaciones.DeleteNotificacion(ctx, id)
}
