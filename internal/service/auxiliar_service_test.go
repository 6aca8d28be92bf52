package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"
)

func TestCreateAuxiliar_Validation(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  CreateAuxiliarRequest
	}{
		{"numeric user id", CreateAuxiliarRequest{UserID: "123", Email: "a@b.c", Nombre: "Ana"}},
		{"email without at", CreateAuxiliarRequest{UserID: "uuid-1", Email: "ana.example.com", Nombre: "Ana"}},
		{"short name", CreateAuxiliarRequest{UserID: "uuid-1", Email: "a@b.c", Nombre: " A "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ts.auxiliares.CreateAuxiliar(ctx, tc.req)
			assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
		})
	}
}

func TestCreateAuxiliar_Duplicate(t *testing.T) {
	ts := newTestServices(t)
	ts.mustAuxiliar(t, "uuid-1", "Uno")

	_, err := ts.auxiliares.CreateAuxiliar(context.Background(), CreateAuxiliarRequest{
		UserID: "uuid-9", Email: "Uno@example.com", Nombre: "Otro",
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestUpdateAuxiliar_Partial(t *testing.T) {
	ts := newTestServices(t)
	a := ts.mustAuxiliar(t, "uuid-1", "Uno")
	ctx := context.Background()

	nombre := "Uno Bis"
	updated, err := ts.auxiliares.UpdateAuxiliar(ctx, "uuid-1", UpdateAuxiliarRequest{Nombre: &nombre})
	require.NoError(t, err)
	assert.Equal(t, "Uno Bis", updated.Nombre)
	assert.Equal(t, a.Email, updated.Email)

	bad := "x"
	_, err = ts.auxiliares.UpdateAuxiliar(ctx, "uuid-1", UpdateAuxiliarRequest{Email: &bad})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestDeleteAuxiliar_ReferencedThenDeactivate(t *testing.T) {
	ts := newTestServices(t)
	ts.mustAuxiliar(t, "uuid-1", "Uno")
	ts.mustGrupo(t, "uuid-1", "Ana")
	ctx := context.Background()

	_, err := ts.auxiliares.DeleteAuxiliar(ctx, "uuid-1")
	assert.True(t, apperr.Is(err, apperr.KindDependency))

	a, err := ts.auxiliares.DeactivateAuxiliar(ctx, "uuid-1")
	require.NoError(t, err)
	assert.False(t, a.Activo)

	_, err = ts.auxiliares.GetAuxiliar(ctx, "uuid-1")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	activo := true
	a, err = ts.auxiliares.UpdateAuxiliar(ctx, "uuid-1", UpdateAuxiliarRequest{Activo: &activo})
	require.NoError(t, err)
	assert.True(t, a.Activo)
}

func TestDeleteAuxiliar_Unreferenced(t *testing.T) {
	ts := newTestServices(t)
	ts.mustAuxiliar(t, "uuid-1", "Uno")
	ctx := context.Background()

	deleted, err := ts.auxiliares.DeleteAuxiliar(ctx, "uuid-1")
	require.NoError(t, err)
	assert.Equal(t, "uuid-1", deleted.UserID)

	list, err := ts.auxiliares.ListAuxiliares(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
