package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"
	"github.com/DidierBrusa/tap-talk-api/internal/domain"
	"github.com/DidierBrusa/tap-talk-api/internal/repository"
)

// MembershipService links auxiliares to groups. The creator of a group
// belongs to it by definition: it is never linked nor unlinked through here.
type MembershipService struct {
	grupos     repository.GruposRepository
	membership repository.MembershipRepository
	resolver   *IdentityResolver
	logger     *zap.Logger
}

func NewMembershipService(
	grupos repository.GruposRepository,
	membership repository.MembershipRepository,
	resolver *IdentityResolver,
	logger *zap.Logger,
) *MembershipService {
	return &MembershipService{
		grupos:     grupos,
		membership: membership,
		resolver:   resolver,
		logger:     logger,
	}
}

// LinkMemberRequest links the auxiliar named by Identificador to GrupoID.
type LinkMemberRequest struct {
	GrupoID         int64
	Identificador   string
	EsAdministrador bool
}

func (s *MembershipService) activeGrupo(ctx context.Context, id int64) (*domain.Grupo, error) {
	g, err := s.grupos.GetGrupo(ctx, id)
	if err != nil {
		return nil, err
	}
	if !g.Activo {
		return nil, apperr.NotFound("Grupo no encontrado")
	}
	return g, nil
}

// LinkMember checks, in order: group exists, auxiliar exists, auxiliar is not
// the creator, no edge exists yet. The unique constraint still decides races.
func (s *MembershipService) LinkMember(ctx context.Context, req LinkMemberRequest) (*domain.AuxiliarGrupo, error) {
	g, err := s.activeGrupo(ctx, req.GrupoID)
	if err != nil {
		return nil, err
	}
	return s.link(ctx, g, req.Identificador, req.EsAdministrador)
}

// JoinByCodigo links the auxiliar to the group owning codigo, as a plain member.
func (s *MembershipService) JoinByCodigo(ctx context.Context, codigo, identificador string) (*domain.AuxiliarGrupo, error) {
	if !IsCodigoVinculacion(codigo) {
		return nil, apperr.NotFound("Grupo no encontrado")
	}
	g, err := s.grupos.GetGrupoByCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}
	if !g.Activo {
		return nil, apperr.NotFound("Grupo no encontrado")
	}
	return s.link(ctx, g, identificador, false)
}

func (s *MembershipService) link(ctx context.Context, g *domain.Grupo, identificador string, esAdmin bool) (*domain.AuxiliarGrupo, error) {
	aux, err := s.resolver.Resolve(ctx, identificador)
	if err != nil {
		return nil, err
	}
	if aux.UserID == g.CreadorID {
		return nil, apperr.InvalidOperation("El creador del grupo ya pertenece al grupo y no puede vincularse como miembro")
	}

	_, err = s.membership.GetVinculo(ctx, g.ID, aux.ID)
	switch {
	case err == nil:
		return nil, apperr.Conflict("El auxiliar ya está vinculado a este grupo")
	case !apperr.Is(err, apperr.KindNotFound):
		return nil, fmt.Errorf("failed to check vinculo: %w", err)
	}

	v, err := s.membership.CreateVinculo(ctx, &domain.AuxiliarGrupo{
		AuxiliarID:      aux.ID,
		GrupoID:         g.ID,
		EsCreador:       false,
		EsAdministrador: esAdmin,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Auxiliar linked to grupo",
		zap.Int64("grupo_id", g.ID),
		zap.Int64("auxiliar_id", aux.ID),
		zap.Bool("es_administrador", esAdmin),
	)
	return v, nil
}

// UnlinkMember removes the edge between the group and the auxiliar.
func (s *MembershipService) UnlinkMember(ctx context.Context, grupoID int64, identificador string) (*domain.AuxiliarGrupo, error) {
	g, err := s.grupos.GetGrupo(ctx, grupoID)
	if err != nil {
		return nil, err
	}
	aux, err := s.resolver.Resolve(ctx, identificador)
	if err != nil {
		return nil, err
	}
	if aux.UserID == g.CreadorID {
		return nil, apperr.InvalidOperation("No se puede desvincular al creador del grupo")
	}

	v, err := s.membership.GetVinculo(ctx, g.ID, aux.ID)
	if err != nil {
		return nil, err
	}
	if v.EsCreador {
		return nil, apperr.InvalidOperation("No se puede desvincular al creador del grupo")
	}

	deleted, err := s.membership.DeleteVinculo(ctx, g.ID, aux.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Auxiliar unlinked from grupo",
		zap.Int64("grupo_id", g.ID),
		zap.Int64("auxiliar_id", aux.ID),
	)
	return deleted, nil
}

// ListGruposDeAuxiliar returns every active group the auxiliar created or is
// linked to, once each. A creator without an edge is listed with both flags
// set and the group's creation date as fecha_vinculacion.
func (s *MembershipService) ListGruposDeAuxiliar(ctx context.Context, identificador string) ([]domain.GrupoDeAuxiliar, error) {
	aux, err := s.resolver.Resolve(ctx, identificador)
	if err != nil {
		return nil, err
	}
	grupos, err := s.membership.ListGruposDeAuxiliar(ctx, aux.ID, aux.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grupos de auxiliar: %w", err)
	}
	if grupos == nil {
		grupos = []domain.GrupoDeAuxiliar{}
	}
	return grupos, nil
}

// ListMiembros returns the linked auxiliares of a group. The creator appears
// only if it holds an edge.
func (s *MembershipService) ListMiembros(ctx context.Context, grupoID int64) ([]domain.MiembroGrupo, error) {
	if _, err := s.grupos.GetGrupo(ctx, grupoID); err != nil {
		return nil, err
	}
	miembros, err := s.membership.ListMiembros(ctx, grupoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list miembros: %w", err)
	}
	if miembros == nil {
		miembros = []domain.MiembroGrupo{}
	}
	return miembros, nil
}
