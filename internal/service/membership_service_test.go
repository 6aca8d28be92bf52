package service

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"
)

func TestLinkMember_OnceThenConflict(t *testing.T) {
	ts := newTestServices(t)
	ts.mustAuxiliar(t, "uuid-1", "Uno")
	dos := ts.mustAuxiliar(t, "uuid-2", "Dos")
	g := ts.mustGrupo(t, "uuid-1", "Ana")
	ctx := context.Background()

	v, err := ts.membership.LinkMember(ctx, LinkMemberRequest{GrupoID: g.ID, Identificador: "uuid-2", EsAdministrador: true})
	require.NoError(t, err)
	assert.False(t, v.EsCreador)
	assert.True(t, v.EsAdministrador)
	assert.Equal(t, dos.ID, v.AuxiliarID)

	// the numeric form names the same auxiliar
	_, err = ts.membership.LinkMember(ctx, LinkMemberRequest{GrupoID: g.ID, Identificador: strconv.FormatInt(dos.ID, 10)})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestLinkMember_CheckOrder(t *testing.T) {
	ts := newTestServices(t)
	ts.mustAuxiliar(t, "uuid-1", "Uno")
	g := ts.mustGrupo(t, "uuid-1", "Ana")
	ctx := context.Background()

	// missing group wins over a bad identifier
	_, err := ts.membership.LinkMember(ctx, LinkMemberRequest{GrupoID: g.ID + 50, Identificador: "nope"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = ts.membership.LinkMember(ctx, LinkMemberRequest{GrupoID: g.ID, Identificador: "nope"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidIdentifier))

	_, err = ts.membership.LinkMember(ctx, LinkMemberRequest{GrupoID: g.ID, Identificador: "uuid-404"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = ts.membership.LinkMember(ctx, LinkMemberRequest{GrupoID: g.ID, Identificador: "uuid-1"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidOperation))
}

func TestLinkMember_ConcurrentDuplicates(t *testing.T) {
	ts := newTestServices(t)
	ts.mustAuxiliar(t, "uuid-1", "Uno")
	ts.mustAuxiliar(t, "uuid-2", "Dos")
	g := ts.mustGrupo(t, "uuid-1", "Ana")

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ts.membership.LinkMember(context.Background(), LinkMemberRequest{GrupoID: g.ID, Identificador: "uuid-2"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case apperr.Is(err, apperr.KindConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
}

func TestUnlinkMember(t *testing.T) {
	ts := newTestServices(t)
	ts.mustAuxiliar(t, "uuid-1", "Uno")
	ts.mustAuxiliar(t, "uuid-2", "Dos")
	ts.mustAuxiliar(t, "uuid-3", "Tres")
	g := ts.mustGrupo(t, "uuid-1", "Ana")
	ctx := context.Background()

	_, err := ts.membership.UnlinkMember(ctx, g.ID, "uuid-1")
	assert.True(t, apperr.Is(err, apperr.KindInvalidOperation))

	_, err = ts.membership.UnlinkMember(ctx, g.ID, "uuid-3")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = ts.membership.LinkMember(ctx, LinkMemberRequest{GrupoID: g.ID, Identificador: "uuid-2"})
	require.NoError(t, err)
	deleted, err := ts.membership.UnlinkMember(ctx, g.ID, "uuid-2")
	require.NoError(t, err)
	assert.Equal(t, g.ID, deleted.GrupoID)

	// relinking after an unlink is allowed
	_, err = ts.membership.LinkMember(ctx, LinkMemberRequest{GrupoID: g.ID, Identificador: "uuid-2"})
	assert.NoError(t, err)
}

func TestUnlinkMember_CreatorAlwaysRejected(t *testing.T) {
	ts := newTestServices(t)
	uno := ts.mustAuxiliar(t, "uuid-1", "Uno")
	g := ts.mustGrupo(t, "uuid-1", "Ana")
	ctx := context.Background()

	for _, ident := range []string{"uuid-1", strconv.FormatInt(uno.ID, 10)} {
		for i := 0; i < 3; i++ {
			_, err := ts.membership.UnlinkMember(ctx, g.ID, ident)
			assert.True(t, apperr.Is(err, apperr.KindInvalidOperation))
		}
	}
}

func TestListGruposDeAuxiliar_CreatedAndLinked(t *testing.T) {
	ts := newTestServices(t)
	ts.mustAuxiliar(t, "uuid-1", "Uno")
	ts.mustAuxiliar(t, "uuid-2", "Dos")
	ctx := context.Background()

	propio := ts.mustGrupo(t, "uuid-1", "Ana")
	ajeno := ts.mustGrupo(t, "uuid-2", "Luis")
	_, err := ts.membership.LinkMember(ctx, LinkMemberRequest{GrupoID: ajeno.ID, Identificador: "uuid-1"})
	require.NoError(t, err)

	grupos, err := ts.membership.ListGruposDeAuxiliar(ctx, "uuid-1")
	require.NoError(t, err)
	require.Len(t, grupos, 2)

	assert.Equal(t, propio.ID, grupos[0].GrupoID)
	assert.True(t, grupos[0].EsCreador)
	assert.True(t, grupos[0].EsAdministrador)
	assert.Equal(t, propio.FechaCreacion, grupos[0].FechaVinculacion)

	assert.Equal(t, ajeno.ID, grupos[1].GrupoID)
	assert.False(t, grupos[1].EsCreador)
	assert.False(t, grupos[1].EsAdministrador)
}

func TestListGruposDeAuxiliar_CreatorWithoutEdges(t *testing.T) {
	ts := newTestServices(t)
	ts.mustAuxiliar(t, "uuid-1", "Uno")
	ctx := context.Background()

	for _, nombre := range []string{"Ana", "Luis", "Eva"} {
		ts.mustGrupo(t, "uuid-1", nombre)
	}

	grupos, err := ts.membership.ListGruposDeAuxiliar(ctx, "uuid-1")
	require.NoError(t, err)
	assert.Len(t, grupos, 3)
	for _, g := range grupos {
		assert.True(t, g.EsCreador)
	}
}

func TestJoinByCodigo(t *testing.T) {
	ts := newTestServices(t)
	ts.mustAuxiliar(t, "uuid-1", "Uno")
	ts.mustAuxiliar(t, "uuid-2", "Dos")
	g := ts.mustGrupo(t, "uuid-1", "Ana")
	ctx := context.Background()

	v, err := ts.membership.JoinByCodigo(ctx, g.CodigoVinculacion, "uuid-2")
	require.NoError(t, err)
	assert.Equal(t, g.ID, v.GrupoID)
	assert.False(t, v.EsAdministrador)

	_, err = ts.membership.JoinByCodigo(ctx, g.CodigoVinculacion, "uuid-2")
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = ts.membership.JoinByCodigo(ctx, "0000000000000000", "uuid-2")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestLinkMember_InactiveGrupo(t *testing.T) {
	ts := newTestServices(t)
	ts.mustAuxiliar(t, "uuid-1", "Uno")
	ts.mustAuxiliar(t, "uuid-2", "Dos")
	g := ts.mustGrupo(t, "uuid-1", "Ana")
	ctx := context.Background()

	inactive := false
	_, err := ts.grupos.UpdateGrupo(ctx, g.ID, UpdateGrupoRequest{Activo: &inactive})
	require.NoError(t, err)

	_, err = ts.membership.LinkMember(ctx, LinkMemberRequest{GrupoID: g.ID, Identificador: "uuid-2"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

// Create {uuid-1, "Ana"}, link uuid-2 twice, try to unlink the creator,
// unlink uuid-2 and read an empty member list.
func TestMembershipScenario(t *testing.T) {
	ts := newTestServices(t)
	ts.mustAuxiliar(t, "uuid-1", "Uno")
	ts.mustAuxiliar(t, "uuid-2", "Dos")
	ctx := context.Background()

	g, err := ts.grupos.CreateGrupo(ctx, CreateGrupoRequest{CreadorID: "uuid-1", NombrePaciente: "Ana"})
	require.NoError(t, err)
	assert.Len(t, g.CodigoVinculacion, 16)

	_, err = ts.membership.LinkMember(ctx, LinkMemberRequest{GrupoID: g.ID, Identificador: "uuid-2"})
	require.NoError(t, err)

	_, err = ts.membership.LinkMember(ctx, LinkMemberRequest{GrupoID: g.ID, Identificador: "uuid-2"})
	assert.Equal(t, 409, apperr.HTTPStatus(apperr.KindOf(err)))

	_, err = ts.membership.UnlinkMember(ctx, g.ID, "uuid-1")
	assert.Equal(t, 400, apperr.HTTPStatus(apperr.KindOf(err)))

	_, err = ts.membership.UnlinkMember(ctx, g.ID, "uuid-2")
	require.NoError(t, err)

	miembros, err := ts.membership.ListMiembros(ctx, g.ID)
	require.NoError(t, err)
	assert.NotNil(t, miembros)
	assert.Empty(t, miembros)
}
