package notifyhandlers

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/pvb-community/pvb-bot/app/shared/clock"
	"github.com/pvb-community/pvb-bot/discord"
)

// Handlers consumes domain events and mirrors them into the log channel.
type Handlers interface {
	HandleGiveawayCreated(msg *message.Message) error
	HandleGiveawayEnded(msg *message.Message) error
	HandleGiveawayRerolled(msg *message.Message) error
	HandleGiveawayHostChanged(msg *message.Message) error
	HandleTicketCreated(msg *message.Message) error
	HandleTicketClosed(msg *message.Message) error
	HandleModerationAction(msg *message.Message) error
}

// NotifyHandlers posts audit embeds and lines to the configured log
// channel. Failures are returned to the router, which retries; they
// never flow back into the operation that published the event.
type NotifyHandlers struct {
	Session      discord.Session
	LogChannelID string
	Clock        clock.Clock
	Logger       *slog.Logger
}

// NewNotifyHandlers creates a new NotifyHandlers.
func NewNotifyHandlers(session discord.Session, logChannelID string, clk clock.Clock, logger *slog.Logger) Handlers {
	return &NotifyHandlers{
		Session:      session,
		LogChannelID: logChannelID,
		Clock:        clk,
		Logger:       logger,
	}
}
