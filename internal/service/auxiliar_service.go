package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"
	"github.com/DidierBrusa/tap-talk-api/internal/domain"
	"github.com/DidierBrusa/tap-talk-api/internal/repository"
)

const (
	auxiliarNombreMinLength = 2
	auxiliarNombreMaxLength = 100
	emailMaxLength          = 255
	authProviderMaxLength   = 50
)

// AuxiliarService manages caregiver accounts.
type AuxiliarService struct {
	auxRepo  repository.AuxiliaresRepository
	resolver *IdentityResolver
	logger   *zap.Logger
}

func NewAuxiliarService(auxRepo repository.AuxiliaresRepository, resolver *IdentityResolver, logger *zap.Logger) *AuxiliarService {
	return &AuxiliarService{auxRepo: auxRepo, resolver: resolver, logger: logger}
}

// CreateAuxiliarRequest registers the account issued by the identity provider.
type CreateAuxiliarRequest struct {
	UserID       string
	Email        string
	Nombre       string
	AuthProvider *string
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "", apperr.Validation("email inválido")
	}
	if len(email) > emailMaxLength {
		return "", apperr.Validation("email no puede superar %d caracteres", emailMaxLength)
	}
	return email, nil
}

func normalizeNombreAuxiliar(nombre string) (string, error) {
	nombre = strings.TrimSpace(nombre)
	n := utf8.RuneCountInString(nombre)
	if n < auxiliarNombreMinLength {
		return "", apperr.Validation("nombre debe tener al menos %d caracteres", auxiliarNombreMinLength)
	}
	if n > auxiliarNombreMaxLength {
		return "", apperr.Validation("nombre no puede superar %d caracteres", auxiliarNombreMaxLength)
	}
	return nombre, nil
}

func normalizeAuthProvider(p *string) (*string, error) {
	if p == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*p)
	if len(v) > authProviderMaxLength {
		return nil, apperr.Validation("auth_provider no puede superar %d caracteres", authProviderMaxLength)
	}
	return &v, nil
}

func (s *AuxiliarService) CreateAuxiliar(ctx context.Context, req CreateAuxiliarRequest) (*domain.Auxiliar, error) {
	userID := strings.TrimSpace(req.UserID)
	if !IsExternalIdentity(userID) {
		return nil, apperr.Validation("user_id debe ser el identificador externo (UUID) del auxiliar")
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	nombre, err := normalizeNombreAuxiliar(req.Nombre)
	if err != nil {
		return nil, err
	}
	provider, err := normalizeAuthProvider(req.AuthProvider)
	if err != nil {
		return nil, err
	}

	a, err := s.auxRepo.CreateAuxiliar(ctx, &domain.Auxiliar{
		UserID:       userID,
		Email:        email,
		Nombre:       nombre,
		AuthProvider: provider,
		Activo:       true,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Auxiliar created", zap.Int64("auxiliar_id", a.ID), zap.String("user_id", a.UserID))
	return a, nil
}

func (s *AuxiliarService) ListAuxiliares(ctx context.Context) ([]*domain.Auxiliar, error) {
	return s.auxRepo.ListAuxiliares(ctx)
}

// GetAuxiliar accepts either identifier form and returns only active accounts.
func (s *AuxiliarService) GetAuxiliar(ctx context.Context, identificador string) (*domain.Auxiliar, error) {
	return s.resolver.Resolve(ctx, identificador)
}

// UpdateAuxiliarRequest is a partial update; nil fields are left untouched.
type UpdateAuxiliarRequest struct {
	Email        *string
	Nombre       *string
	AuthProvider *string
	Activo       *bool
}

func (s *AuxiliarService) UpdateAuxiliar(ctx context.Context, identificador string, req UpdateAuxiliarRequest) (*domain.Auxiliar, error) {
	a, err := s.resolver.ResolveAny(ctx, identificador)
	if err != nil {
		return nil, err
	}

	u := domain.AuxiliarUpdate{Activo: req.Activo}
	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		u.Email = &email
	}
	if req.Nombre != nil {
		nombre, err := normalizeNombreAuxiliar(*req.Nombre)
		if err != nil {
			return nil, err
		}
		u.Nombre = &nombre
	}
	if u.AuthProvider, err = normalizeAuthProvider(req.AuthProvider); err != nil {
		return nil, err
	}
	return s.auxRepo.UpdateAuxiliar(ctx, a.ID, u)
}

// DeactivateAuxiliar soft-deletes; it is the way out for referenced accounts.
func (s *AuxiliarService) DeactivateAuxiliar(ctx context.Context, identificador string) (*domain.Auxiliar, error) {
	activo := false
	a, err := s.UpdateAuxiliar(ctx, identificador, UpdateAuxiliarRequest{Activo: &activo})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Auxiliar deactivated", zap.Int64("auxiliar_id", a.ID))
	return a, nil
}

// DeleteAuxiliar hard-deletes; a referenced account is a dependency error.
func (s *AuxiliarService) DeleteAuxiliar(ctx context.Context, identificador string) (*domain.Auxiliar, error) {
	a, err := s.resolver.ResolveAny(ctx, identificador)
	if err != nil {
		return nil, err
	}
	deleted, err := s.auxRepo.DeleteAuxiliar(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Auxiliar deleted", zap.Int64("auxiliar_id", a.ID))
	return deleted, nil
}
