package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"
)

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

func TestCatalog_Categorias(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	_, err := ts.catalog.CreateCategoria(ctx, CategoriaRequest{Nombre: strPtr("  ")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = ts.catalog.CreateCategoria(ctx, CategoriaRequest{Nombre: strPtr("Comida"), Imagen: strPtr(strings.Repeat("x", 256))})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	c, err := ts.catalog.CreateCategoria(ctx, CategoriaRequest{Nombre: strPtr(" Comida "), Imagen: strPtr("https://img/comida.png")})
	require.NoError(t, err)
	assert.Equal(t, "Comida", c.Nombre)

	c, err = ts.catalog.UpdateCategoria(ctx, c.ID, CategoriaRequest{Imagen: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, c.Imagen)
	assert.Equal(t, "Comida", c.Nombre)
}

func TestCatalog_PictogramaCategoriaChecked(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	_, err := ts.catalog.CreatePictograma(ctx, PictogramaRequest{Nombre: strPtr("Agua"), CategoriaID: int64Ptr(42)})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	c, err := ts.catalog.CreateCategoria(ctx, CategoriaRequest{Nombre: strPtr("Bebidas")})
	require.NoError(t, err)

	p, err := ts.catalog.CreatePictograma(ctx, PictogramaRequest{Nombre: strPtr("Agua"), CategoriaID: &c.ID})
	require.NoError(t, err)
	require.NotNil(t, p.CategoriaID)

	_, err = ts.catalog.CreatePictograma(ctx, PictogramaRequest{Nombre: strPtr("Sin categoría")})
	require.NoError(t, err)

	list, err := ts.catalog.ListPictogramas(ctx, &c.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = ts.catalog.DeleteCategoria(ctx, c.ID)
	assert.True(t, apperr.Is(err, apperr.KindDependency))

	p, err = ts.catalog.UpdatePictograma(ctx, p.ID, PictogramaRequest{ClearCategoria: true})
	require.NoError(t, err)
	assert.Nil(t, p.CategoriaID)

	_, err = ts.catalog.DeleteCategoria(ctx, c.ID)
	assert.NoError(t, err)
}
