package notifyhandlers

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bwmarrin/discordgo"

	"github.com/pvb-community/pvb-bot/app/events"
)

// HandleTicketCreated posts the ticket creation audit embed.
func (h *NotifyHandlers) HandleTicketCreated(msg *message.Message) error {
	var payload events.TicketCreatedPayload
	if err := h.unmarshalPayload(msg, &payload); err != nil {
		return err
	}

	h.Logger.Info("Ticket created",
		slog.String("channel_id", payload.ChannelID),
		slog.String("owner_id", payload.OwnerID),
		slog.String("type", payload.Type),
	)

	return h.sendEmbed(&discordgo.MessageEmbed{
		Title: "🎫 Ticket Created",
		Description: fmt.Sprintf(
			"**Type:** %s\n"+
				"**User:** <@%s> (%s)\n"+
				"**Channel:** <#%s>\n"+
				"**Time:** <t:%d:F>",
			payload.Label, payload.OwnerID, payload.OwnerID,
			payload.ChannelID, h.Clock.Now().Unix()),
		Color: 0x00ff00,
	})
}

// HandleTicketClosed posts the ticket close audit embed.
func (h *NotifyHandlers) HandleTicketClosed(msg *message.Message) error {
	var payload events.TicketClosedPayload
	if err := h.unmarshalPayload(msg, &payload); err != nil {
		return err
	}

	h.Logger.Info("Ticket closed",
		slog.String("channel_id", payload.ChannelID),
		slog.String("owner_id", payload.OwnerID),
		slog.String("closed_by", payload.ClosedBy),
	)

	return h.sendEmbed(&discordgo.MessageEmbed{
		Title: "🎫 Ticket Closed",
		Description: fmt.Sprintf(
			"**Type:** %s Ticket\n"+
				"**User:** <@%s> (%s)\n"+
				"**Channel:** #%s\n"+
				"**Closed by:** <@%s>\n"+
				"**Duration:** %s",
			titleCase(payload.Type), payload.OwnerID, payload.OwnerID,
			payload.ChannelName, payload.ClosedBy, payload.OpenFor),
		Color: 0xff0000,
	})
}
