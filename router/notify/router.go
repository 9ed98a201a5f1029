package notifyrouter

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/pvb-community/pvb-bot/app/events"
	notifyhandlers "github.com/pvb-community/pvb-bot/handlers/notify"
)

// NotifyRouter routes domain events to the log-channel handlers.
type NotifyRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber events.EventBus
}

// NewNotifyRouter creates a new NotifyRouter.
func NewNotifyRouter(logger *slog.Logger, router *message.Router, subscriber events.EventBus) *NotifyRouter {
	return &NotifyRouter{
		logger:     logger,
		Router:     router,
		subscriber: subscriber,
	}
}

// Configure sets up middleware and registers the handlers.
func (r *NotifyRouter) Configure(handlers notifyhandlers.Handlers) error {
	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries: 3,
		}.Middleware,
		r.loggingMiddleware,
	)

	if err := r.RegisterHandlers(handlers); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}

	return nil
}

func (r *NotifyRouter) loggingMiddleware(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		startTime := time.Now()
		topic := msg.Metadata.Get("topic")

		produced, err := next(msg)

		duration := time.Since(startTime)
		if err != nil {
			r.logger.Error("Error processing message",
				slog.String("message_id", msg.UUID),
				slog.String("topic", topic),
				slog.Duration("duration", duration),
				slog.Any("error", err),
			)
		} else {
			r.logger.Debug("Message processed",
				slog.String("message_id", msg.UUID),
				slog.String("topic", topic),
				slog.Duration("duration", duration),
			)
		}

		return produced, err
	}
}

// RegisterHandlers registers one consumer per notify topic.
func (r *NotifyRouter) RegisterHandlers(handlers notifyhandlers.Handlers) error {
	eventsToHandlers := map[string]message.NoPublishHandlerFunc{
		events.GiveawayCreatedTopic:     handlers.HandleGiveawayCreated,
		events.GiveawayEndedTopic:       handlers.HandleGiveawayEnded,
		events.GiveawayRerolledTopic:    handlers.HandleGiveawayRerolled,
		events.GiveawayHostChangedTopic: handlers.HandleGiveawayHostChanged,
		events.TicketCreatedTopic:       handlers.HandleTicketCreated,
		events.TicketClosedTopic:        handlers.HandleTicketClosed,
		events.ModerationActionTopic:    handlers.HandleModerationAction,
	}

	for topic, handlerFunc := range eventsToHandlers {
		handlerName := fmt.Sprintf("notify.%s", topic)
		r.Router.AddNoPublisherHandler(
			handlerName,
			topic,
			r.subscriber.Subscriber(),
			handlerFunc,
		)
	}
	return nil
}

// Close stops the router.
func (r *NotifyRouter) Close() error {
	return r.Router.Close()
}
