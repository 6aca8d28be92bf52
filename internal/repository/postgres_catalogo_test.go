package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"
	"github.com/DidierBrusa/tap-talk-api/internal/domain"
)

func TestListPictogramas_FilterByCategoria(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresPictogramasRepository(db)

	mock.ExpectQuery(`FROM pictograma WHERE categoria_id = \$1 ORDER BY id`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "imagen", "categoria_id"}).
			AddRow(1, "Agua", "https://img/agua.png", 4).
			AddRow(2, "Dolor", nil, 4))

	cat := int64(4)
	items, err := repo.ListPictogramas(context.Background(), &cat)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].Imagen)
	assert.Nil(t, items[1].Imagen)
	assert.Equal(t, int64(4), *items[1].CategoriaID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePictograma_UnknownCategoria(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresPictogramasRepository(db)

	mock.ExpectQuery(`INSERT INTO pictograma`).
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation})

	cat := int64(99)
	_, err := repo.CreatePictograma(context.Background(), &domain.Pictograma{Nombre: "Agua", CategoriaID: &cat})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePictograma_ClearCategoria(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresPictogramasRepository(db)

	mock.ExpectQuery(`UPDATE pictograma SET categoria_id = NULL WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "imagen", "categoria_id"}).AddRow(1, "Agua", nil, nil))

	p, err := repo.UpdatePictograma(context.Background(), 1, domain.PictogramaUpdate{ClearCategoria: true})
	require.NoError(t, err)
	assert.Nil(t, p.CategoriaID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCategoria_InUse(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresCategoriasRepository(db)

	mock.ExpectQuery(`DELETE FROM categoria`).
		WithArgs(int64(4)).
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation})

	_, err := repo.DeleteCategoria(context.Background(), 4)
	assert.True(t, apperr.Is(err, apperr.KindDependency))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListNotificaciones_Filter(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresNotificacionesRepository(db)

	grupoID := int64(1)
	resuelta := time.Now()
	mock.ExpectQuery(`FROM notificacion WHERE grupo_id = \$1 AND estado = \$2 ORDER BY fecha_creacion DESC`).
		WithArgs(grupoID, domain.EstadoResuelta).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pictograma_id", "grupo_id", "contenido", "tipo", "estado", "fecha_creacion", "fecha_resuelta", "miembro_resolutor"}).
			AddRow(3, 2, 1, "Agua", "pictograma", "RESUELTA", time.Now(), resuelta, 5))

	items, err := repo.ListNotificaciones(context.Background(), domain.NotificacionFilter{GrupoID: &grupoID, Estado: domain.EstadoResuelta})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].FechaResuelta)
	require.NotNil(t, items[0].MiembroResolutor)
	assert.Equal(t, int64(5), *items[0].MiembroResolutor)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateNotificacion_MissingPictograma(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresNotificacionesRepository(db)

	mock.ExpectQuery(`INSERT INTO notificacion`).
		WithArgs(int64(9), int64(1), "Agua", "pictograma", "PENDIENTE").
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation})

	_, err := repo.CreateNotificacion(context.Background(), &domain.Notificacion{
		PictogramaID: 9, GrupoID: 1, Contenido: "Agua", Tipo: domain.TipoPictograma, Estado: domain.EstadoPendiente,
	})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMapPQError_UnmappedIsWrapped(t *testing.T) {
	err := mapPQError(&pq.Error{Code: "40001"}, "failed to write", pqMessages{Unique: "dup"})
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "failed to write")
}
