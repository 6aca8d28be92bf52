package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"
	"github.com/DidierBrusa/tap-talk-api/internal/domain"
)

func seedMemory(t *testing.T) (*MemoryStore, *domain.Auxiliar, *domain.Auxiliar, *domain.Grupo) {
	t.Helper()
	ctx := context.Background()
	s := NewMemoryStore()

	creador, err := s.CreateAuxiliar(ctx, &domain.Auxiliar{UserID: "uuid-1", Email: "uno@example.com", Nombre: "Uno", Activo: true})
	require.NoError(t, err)
	miembro, err := s.CreateAuxiliar(ctx, &domain.Auxiliar{UserID: "uuid-2", Email: "dos@example.com", Nombre: "Dos", Activo: true})
	require.NoError(t, err)
	g, err := s.CreateGrupo(ctx, &domain.Grupo{CodigoVinculacion: "AAAAAAAAAAAAAAAA", CreadorID: "uuid-1", NombrePaciente: "Ana"})
	require.NoError(t, err)
	return s, creador, miembro, g
}

func TestMemoryStore_GrupoNameUniquePerCreator(t *testing.T) {
	s, _, _, _ := seedMemory(t)
	ctx := context.Background()

	_, err := s.CreateGrupo(ctx, &domain.Grupo{CodigoVinculacion: "BBBBBBBBBBBBBBBB", CreadorID: "uuid-1", NombrePaciente: "ANA"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = s.CreateGrupo(ctx, &domain.Grupo{CodigoVinculacion: "CCCCCCCCCCCCCCCC", CreadorID: "uuid-2", NombrePaciente: "Ana"})
	assert.NoError(t, err)

	_, err = s.CreateGrupo(ctx, &domain.Grupo{CodigoVinculacion: "DDDDDDDDDDDDDDDD", CreadorID: "uuid-404", NombrePaciente: "Eva"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestMemoryStore_VinculoLifecycle(t *testing.T) {
	s, _, miembro, g := seedMemory(t)
	ctx := context.Background()

	_, err := s.CreateVinculo(ctx, &domain.AuxiliarGrupo{AuxiliarID: miembro.ID, GrupoID: g.ID})
	require.NoError(t, err)

	_, err = s.CreateVinculo(ctx, &domain.AuxiliarGrupo{AuxiliarID: miembro.ID, GrupoID: g.ID, EsAdministrador: true})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	v, err := s.GetVinculo(ctx, g.ID, miembro.ID)
	require.NoError(t, err)
	assert.False(t, v.EsAdministrador, "duplicate insert must not overwrite")

	_, err = s.DeleteVinculo(ctx, g.ID, miembro.ID)
	require.NoError(t, err)
	_, err = s.DeleteVinculo(ctx, g.ID, miembro.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestMemoryStore_ListGruposDeAuxiliar(t *testing.T) {
	s, creador, miembro, g := seedMemory(t)
	ctx := context.Background()

	grupos, err := s.ListGruposDeAuxiliar(ctx, creador.ID, creador.UserID)
	require.NoError(t, err)
	require.Len(t, grupos, 1)
	assert.True(t, grupos[0].EsCreador)
	assert.True(t, grupos[0].EsAdministrador)
	assert.Equal(t, g.FechaCreacion, grupos[0].FechaVinculacion)

	_, err = s.CreateVinculo(ctx, &domain.AuxiliarGrupo{AuxiliarID: creador.ID, GrupoID: g.ID})
	require.NoError(t, err)
	grupos, err = s.ListGruposDeAuxiliar(ctx, creador.ID, creador.UserID)
	require.NoError(t, err)
	assert.Len(t, grupos, 1, "created and linked group is listed once")

	grupos, err = s.ListGruposDeAuxiliar(ctx, miembro.ID, miembro.UserID)
	require.NoError(t, err)
	assert.Empty(t, grupos)
	assert.NotNil(t, grupos)
}

func TestMemoryStore_DeleteGrupoCascadesVinculos(t *testing.T) {
	s, _, miembro, g := seedMemory(t)
	ctx := context.Background()

	_, err := s.CreateVinculo(ctx, &domain.AuxiliarGrupo{AuxiliarID: miembro.ID, GrupoID: g.ID})
	require.NoError(t, err)

	_, err = s.DeleteGrupo(ctx, g.ID)
	require.NoError(t, err)

	_, err = s.GetVinculo(ctx, g.ID, miembro.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = s.DeleteAuxiliar(ctx, miembro.ID)
	assert.NoError(t, err)
}

func TestMemoryStore_DeleteReferencedAuxiliar(t *testing.T) {
	s, creador, _, _ := seedMemory(t)

	_, err := s.DeleteAuxiliar(context.Background(), creador.ID)
	assert.True(t, apperr.Is(err, apperr.KindDependency))
}

func TestMemoryStore_NotificacionRequiresRefs(t *testing.T) {
	s, _, _, g := seedMemory(t)
	ctx := context.Background()

	_, err := s.CreateNotificacion(ctx, &domain.Notificacion{PictogramaID: 1, GrupoID: g.ID, Estado: domain.EstadoPendiente})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	p, err := s.CreatePictograma(ctx, &domain.Pictograma{Nombre: "Agua"})
	require.NoError(t, err)
	n, err := s.CreateNotificacion(ctx, &domain.Notificacion{PictogramaID: p.ID, GrupoID: g.ID, Estado: domain.EstadoPendiente})
	require.NoError(t, err)
	assert.False(t, n.FechaCreacion.IsZero())

	_, err = s.DeleteGrupo(ctx, g.ID)
	assert.True(t, apperr.Is(err, apperr.KindDependency))
}
