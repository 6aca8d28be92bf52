package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	rediscommon "github.com/DidierBrusa/tap-talk-api/common/redis"
	"github.com/DidierBrusa/tap-talk-api/internal/domain"
)

func testNotificacion() *domain.Notificacion {
	return &domain.Notificacion{ID: 3, PictogramaID: 2, GrupoID: 1, Contenido: "Agua", Tipo: domain.TipoPictograma, Estado: domain.EstadoPendiente}
}

func TestRedisStreamPublisher_Publish(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	pub := NewRedisStreamPublisher(client, "tap-talk:notificaciones", zap.NewNop())
	defer pub.Close()

	ev := NewEvent(EventCreated, testNotificacion())
	require.NoError(t, pub.Publish(context.Background(), ev))

	msgs, err := rediscommon.ReadRange(context.Background(), client, "tap-talk:notificaciones", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, ev.ID, msgs[0].Values["event_id"])
	assert.Equal(t, "notificacion.creada", msgs[0].Values["type"])
	assert.Equal(t, "1", msgs[0].Values["grupo_id"])

	var decoded Event
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Values["data"].(string)), &decoded))
	assert.Equal(t, "Agua", decoded.Notificacion.Contenido)
}

type fakeMQTT struct {
	topic   string
	qos     byte
	payload []byte
	closed  bool
	down    bool
}

func (f *fakeMQTT) Publish(topic string, qos byte, _ bool, payload []byte) error {
	f.topic, f.qos, f.payload = topic, qos, payload
	return nil
}
func (f *fakeMQTT) QoS() byte         { return 1 }
func (f *fakeMQTT) Disconnect()       { f.closed = true }
func (f *fakeMQTT) IsConnected() bool { return !f.down }

func TestMQTTPublisher_Publish(t *testing.T) {
	client := &fakeMQTT{}
	pub := NewMQTTPublisher(client, "tap-talk/grupos", zap.NewNop())

	ev := NewEvent(EventResolved, testNotificacion())
	require.NoError(t, pub.Publish(context.Background(), ev))

	assert.Equal(t, "tap-talk/grupos/1/notificaciones", client.topic)
	assert.Equal(t, byte(1), client.qos)

	var decoded Event
	require.NoError(t, json.Unmarshal(client.payload, &decoded))
	assert.Equal(t, EventResolved, decoded.Type)
	assert.Equal(t, ev.ID, decoded.ID)

	require.NoError(t, pub.Close())
	assert.True(t, client.closed)
}

func TestMQTTPublisher_CancelledContext(t *testing.T) {
	client := &fakeMQTT{}
	pub := NewMQTTPublisher(client, "tap-talk/grupos", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, pub.Publish(ctx, NewEvent(EventCreated, testNotificacion())))
	assert.Empty(t, client.topic)
}

func TestMQTTPublisher_IsConnected(t *testing.T) {
	client := &fakeMQTT{}
	pub := NewMQTTPublisher(client, "tap-talk/grupos", zap.NewNop())
	assert.True(t, pub.IsConnected())

	client.down = true
	assert.False(t, pub.IsConnected())
}
