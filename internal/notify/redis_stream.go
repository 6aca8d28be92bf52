package notify

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	rediscommon "github.com/DidierBrusa/tap-talk-api/common/redis"
)

// RedisStreamPublisher appends events to a Redis stream with XADD.
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	logger *zap.Logger
}

func NewRedisStreamPublisher(client *redis.Client, stream string, logger *zap.Logger) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, stream: stream, logger: logger}
}

var _ Publisher = (*RedisStreamPublisher)(nil)

func (p *RedisStreamPublisher) Publish(ctx context.Context, ev Event) error {
	id, err := rediscommon.PublishToStream(ctx, p.client, p.stream, map[string]interface{}{
		"event_id": ev.ID,
		"type":     string(ev.Type),
		"grupo_id": ev.GrupoID,
		"data":     ev,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event to stream %s: %w", p.stream, err)
	}
	p.logger.Debug("Published notification event",
		zap.String("stream", p.stream),
		zap.String("stream_id", id),
		zap.String("event_id", ev.ID),
		zap.String("type", string(ev.Type)),
	)
	return nil
}

func (p *RedisStreamPublisher) Close() error {
	return p.client.Close()
}
