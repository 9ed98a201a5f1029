package events

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

//go:generate mockgen -source=eventbus.go -destination=mocks/mock_event_bus.go -package=mocks

// EventBus publishes domain events for the notify pipeline. Delivery is
// in-process and best-effort: nothing is persisted across restarts.
type EventBus interface {
	Publish(topic string, payload interface{}) error
	Subscriber() message.Subscriber
	Close() error
}

type eventBus struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

// NewEventBus creates an in-process event bus backed by a Watermill
// gochannel Pub/Sub.
func NewEventBus(logger *slog.Logger) EventBus {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NopLogger{})
	return &eventBus{pubSub: pubSub, logger: logger}
}

// Publish marshals payload to JSON and publishes it under topic. The
// message ID doubles as the correlation ID.
func (b *eventBus) Publish(topic string, payload interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for %s: %w", topic, err)
	}

	msg := message.NewMessage(uuid.NewString(), payloadBytes)
	msg.Metadata.Set(middleware.CorrelationIDMetadataKey, msg.UUID)
	msg.Metadata.Set("topic", topic)

	if err := b.pubSub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}
	b.logger.Debug("published event", slog.String("topic", topic), slog.String("message_id", msg.UUID))
	return nil
}

func (b *eventBus) Subscriber() message.Subscriber {
	return b.pubSub
}

func (b *eventBus) Close() error {
	return b.pubSub.Close()
}
