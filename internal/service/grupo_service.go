package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"
	"github.com/DidierBrusa/tap-talk-api/internal/domain"
	"github.com/DidierBrusa/tap-talk-api/internal/repository"
)

// GrupoService owns groups: creation with a linking code, lookup, update, deletion.
type GrupoService struct {
	grupos     repository.GruposRepository
	membership repository.MembershipRepository
	newCodigo  CodigoGenerator
	logger     *zap.Logger
}

func NewGrupoService(grupos repository.GruposRepository, membership repository.MembershipRepository, logger *zap.Logger) *GrupoService {
	return &GrupoService{
		grupos:     grupos,
		membership: membership,
		newCodigo:  NewCodigoVinculacion,
		logger:     logger,
	}
}

// WithCodigoGenerator replaces the linking code source.
func (s *GrupoService) WithCodigoGenerator(gen CodigoGenerator) *GrupoService {
	s.newCodigo = gen
	return s
}

// CreateGrupoRequest creates a group owned by CreadorID.
type CreateGrupoRequest struct {
	CreadorID      string
	NombrePaciente string
}

func normalizeNombrePaciente(nombre string) (string, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return "", apperr.Validation("nombre_paciente es obligatorio")
	}
	if utf8.RuneCountInString(nombre) > domain.NombrePacienteMaxLength {
		return "", apperr.Validation("nombre_paciente no puede superar %d caracteres", domain.NombrePacienteMaxLength)
	}
	return nombre, nil
}

// CreateGrupo validates the input, rejects a case-insensitive duplicate of an
// active group of the same creator and inserts the group with a new code.
func (s *GrupoService) CreateGrupo(ctx context.Context, req CreateGrupoRequest) (*domain.Grupo, error) {
	creadorID := strings.TrimSpace(req.CreadorID)
	if !IsExternalIdentity(creadorID) {
		return nil, apperr.Validation("creador_id debe ser el identificador externo (UUID) de un auxiliar")
	}
	nombre, err := normalizeNombrePaciente(req.NombrePaciente)
	if err != nil {
		return nil, err
	}

	exists, err := s.grupos.ExistsActiveGrupo(ctx, creadorID, nombre)
	if err != nil {
		return nil, fmt.Errorf("failed to check duplicate grupo: %w", err)
	}
	if exists {
		return nil, apperr.Conflict("Ya existe un grupo activo para el paciente %q creado por este auxiliar", nombre)
	}

	g, err := s.grupos.CreateGrupo(ctx, &domain.Grupo{
		CodigoVinculacion: s.newCodigo(),
		CreadorID:         creadorID,
		NombrePaciente:    nombre,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Grupo created",
		zap.Int64("grupo_id", g.ID),
		zap.String("creador_id", g.CreadorID),
	)
	return g, nil
}

// GetGrupo returns the group with its members; Miembros is never nil.
func (s *GrupoService) GetGrupo(ctx context.Context, id int64) (*domain.GrupoDetalle, error) {
	g, err := s.grupos.GetGrupo(ctx, id)
	if err != nil {
		return nil, err
	}
	miembros, err := s.membership.ListMiembros(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list miembros: %w", err)
	}
	if miembros == nil {
		miembros = []domain.MiembroGrupo{}
	}
	return &domain.GrupoDetalle{Grupo: *g, Miembros: miembros}, nil
}

func (s *GrupoService) GetGrupoByCodigo(ctx context.Context, codigo string) (*domain.Grupo, error) {
	codigo = strings.TrimSpace(codigo)
	if !IsCodigoVinculacion(codigo) {
		return nil, apperr.NotFound("Grupo no encontrado")
	}
	return s.grupos.GetGrupoByCodigo(ctx, codigo)
}

func (s *GrupoService) ListGrupos(ctx context.Context) ([]*domain.Grupo, error) {
	return s.grupos.ListGrupos(ctx)
}

// UpdateGrupoRequest is a partial update; nil fields are left untouched.
// RegenerarCodigo issues a fresh linking code.
type UpdateGrupoRequest struct {
	NombrePaciente    *string
	CodigoVinculacion *string
	Activo            *bool
	RegenerarCodigo   bool
}

func (s *GrupoService) UpdateGrupo(ctx context.Context, id int64, req UpdateGrupoRequest) (*domain.Grupo, error) {
	current, err := s.grupos.GetGrupo(ctx, id)
	if err != nil {
		return nil, err
	}

	u := domain.GrupoUpdate{Activo: req.Activo}
	if req.NombrePaciente != nil {
		nombre, err := normalizeNombrePaciente(*req.NombrePaciente)
		if err != nil {
			return nil, err
		}
		u.NombrePaciente = &nombre
	}
	switch {
	case req.RegenerarCodigo:
		codigo := s.newCodigo()
		u.CodigoVinculacion = &codigo
	case req.CodigoVinculacion != nil:
		if !IsCodigoVinculacion(*req.CodigoVinculacion) {
			return nil, apperr.Validation("codigo_vinculacion debe tener %d caracteres alfanuméricos", domain.CodigoVinculacionLength)
		}
		u.CodigoVinculacion = req.CodigoVinculacion
	}

	// The name check applies whenever the row ends up active under a different name
	// or becomes active again.
	finalActivo := current.Activo
	if u.Activo != nil {
		finalActivo = *u.Activo
	}
	finalNombre := current.NombrePaciente
	if u.NombrePaciente != nil {
		finalNombre = *u.NombrePaciente
	}
	renamed := !strings.EqualFold(finalNombre, current.NombrePaciente)
	reactivated := finalActivo && !current.Activo
	if finalActivo && (renamed || reactivated) {
		exists, err := s.grupos.ExistsActiveGrupo(ctx, current.CreadorID, finalNombre)
		if err != nil {
			return nil, fmt.Errorf("failed to check duplicate grupo: %w", err)
		}
		if exists {
			return nil, apperr.Conflict("Ya existe un grupo activo para el paciente %q creado por este auxiliar", finalNombre)
		}
	}

	return s.grupos.UpdateGrupo(ctx, id, u)
}

// DeleteGrupo hard-deletes the group; membership edges go with it.
func (s *GrupoService) DeleteGrupo(ctx context.Context, id int64) (*domain.Grupo, error) {
	g, err := s.grupos.DeleteGrupo(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Grupo deleted", zap.Int64("grupo_id", id))
	return g, nil
}
