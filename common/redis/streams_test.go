package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestPublishToStream_FlattensValues(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	id, err := PublishToStream(ctx, client, "notificaciones", map[string]interface{}{
		"grupo_id": 7,
		"urgente":  true,
		"texto":    "agua",
		"extra":    map[string]int{"a": 1},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	msgs, err := ReadRange(ctx, client, "notificaciones", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "7", msgs[0].Values["grupo_id"])
	assert.Equal(t, "true", msgs[0].Values["urgente"])
	assert.Equal(t, "agua", msgs[0].Values["texto"])
	assert.Equal(t, `{"a":1}`, msgs[0].Values["extra"])
}

func TestReadRange_EmptyStream(t *testing.T) {
	client := setupTestRedis(t)

	msgs, err := ReadRange(context.Background(), client, "vacio", 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
