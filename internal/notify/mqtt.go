package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// MQTTClient is the subset of common/mqtt.Client the publisher needs.
type MQTTClient interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	QoS() byte
	Disconnect()
	IsConnected() bool
}

// MQTTPublisher publishes each event to <prefix>/<grupo_id>/notificaciones.
type MQTTPublisher struct {
	client MQTTClient
	prefix string
	logger *zap.Logger
}

func NewMQTTPublisher(client MQTTClient, topicPrefix string, logger *zap.Logger) *MQTTPublisher {
	return &MQTTPublisher{client: client, prefix: topicPrefix, logger: logger}
}

var _ Publisher = (*MQTTPublisher)(nil)

// Topic returns the topic events of grupoID are published to.
func (p *MQTTPublisher) Topic(grupoID int64) string {
	return fmt.Sprintf("%s/%d/notificaciones", p.prefix, grupoID)
}

func (p *MQTTPublisher) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	topic := p.Topic(ev.GrupoID)
	if err := p.client.Publish(topic, p.client.QoS(), false, payload); err != nil {
		return err
	}
	p.logger.Debug("Published notification event", zap.String("topic", topic), zap.String("event_id", ev.ID))
	return nil
}

// IsConnected reports whether the broker connection is up; paho reconnects on its own.
func (p *MQTTPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect()
	return nil
}
