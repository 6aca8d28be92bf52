package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"
)

func TestIdentityResolver_Resolve(t *testing.T) {
	ts := newTestServices(t)
	a := ts.mustAuxiliar(t, "uuid-1", "Uno")
	ctx := context.Background()

	byUUID, err := ts.resolver.Resolve(ctx, "uuid-1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byUUID.ID)

	byID, err := ts.resolver.Resolve(ctx, strconv.FormatInt(a.ID, 10))
	require.NoError(t, err)
	assert.Equal(t, "uuid-1", byID.UserID)

	cases := map[string]apperr.Kind{
		"":        apperr.KindInvalidIdentifier,
		"abc":     apperr.KindInvalidIdentifier,
		"0":       apperr.KindInvalidIdentifier,
		"-":       apperr.KindNotFound,
		"999":     apperr.KindNotFound,
		"uuid-99": apperr.KindNotFound,
	}
	for in, want := range cases {
		_, err := ts.resolver.Resolve(ctx, in)
		assert.Equal(t, want, apperr.KindOf(err), "identificador %q", in)
	}
}

func TestIdentityResolver_SkipsInactive(t *testing.T) {
	ts := newTestServices(t)
	ts.mustAuxiliar(t, "uuid-1", "Uno")
	ctx := context.Background()

	_, err := ts.auxiliares.DeactivateAuxiliar(ctx, "uuid-1")
	require.NoError(t, err)

	_, err = ts.resolver.Resolve(ctx, "uuid-1")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	a, err := ts.resolver.ResolveAny(ctx, "uuid-1")
	require.NoError(t, err)
	assert.False(t, a.Activo)
}

func TestCodigoVinculacion_Shape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		c := NewCodigoVinculacion()
		assert.Len(t, c, 16)
		assert.Regexp(t, `^[A-Za-z0-9]{16}$`, c)
		assert.True(t, IsCodigoVinculacion(c))
		seen[c] = true
	}
	assert.Greater(t, len(seen), 190)

	assert.False(t, IsCodigoVinculacion("short"))
	assert.False(t, IsCodigoVinculacion("AAAAAAAAAAAAAAA-"))
}
