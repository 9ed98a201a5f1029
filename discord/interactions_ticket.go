package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/pvb-community/pvb-bot/app/shared/errs"
	"github.com/pvb-community/pvb-bot/app/ticket"
)

func (h *gatewayEventHandler) handleTicketSetup(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !h.perms.HasTicketAdminAccess(i.Member) {
		h.respond(i, "❌ You don't have permission to setup tickets!", true)
		return
	}

	target := i.ChannelID
	if opt, ok := optionMap(data)["channel"]; ok {
		target = opt.ChannelValue(nil).ID
	}

	if err := h.tickets.EnsurePanel(ctx, target); err != nil {
		h.logger.Error("failed to place ticket panel", slog.Any("error", err))
		h.respond(i, "❌ Could not create the ticket panel.", true)
		return
	}
	h.respond(i, fmt.Sprintf("✅ Ticket panel created/updated in <#%s>", target), true)
}

func (h *gatewayEventHandler) handleTicketClose(ctx context.Context, i *discordgo.InteractionCreate) {
	if !h.perms.HasTicketAdminAccess(i.Member) {
		h.respond(i, "❌ You don't have permission to close tickets!", true)
		return
	}
	h.closeTicket(ctx, i, i.ChannelID)
}

func (h *gatewayEventHandler) handleTicketMessage(_ context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !h.perms.HasTicketAdminAccess(i.Member) {
		h.respond(i, "❌ You don't have permission to customize tickets!", true)
		return
	}

	opts := optionMap(data)
	typ, err := ticket.ParseType(opts["type"].StringValue())
	if err != nil {
		h.respond(i, "❌ Invalid ticket type. Use: support, invite, or giveaway", true)
		return
	}

	h.tickets.SetWelcomeMessage(typ, opts["message"].StringValue())
	h.respond(i, fmt.Sprintf("✅ %s ticket message updated!", titleCase(string(typ))), true)
}

func (h *gatewayEventHandler) handleTicketOpenButton(ctx context.Context, i *discordgo.InteractionCreate, typ ticket.Type) {
	user := invoker(i)
	channelID, err := h.tickets.Open(ctx, user.ID, typ, user.Username)
	if err != nil {
		if errors.Is(err, errs.AlreadyOpen("")) {
			var e *errs.Error
			errors.As(err, &e)
			h.respond(i, "❌ "+titleCase(e.Message), true)
			return
		}
		h.logger.Error("failed to open ticket",
			slog.String("user_id", user.ID), slog.Any("error", err))
		h.respond(i, "❌ Could not create your ticket. Please try again later.", true)
		return
	}
	h.respond(i, fmt.Sprintf("✅ Ticket created: <#%s>", channelID), true)
}

func (h *gatewayEventHandler) handleTicketCloseButton(ctx context.Context, i *discordgo.InteractionCreate) {
	if !h.perms.HasTicketAdminAccess(i.Member) {
		h.respond(i, "❌ You don't have permission to close tickets.", true)
		return
	}
	h.closeTicket(ctx, i, i.ChannelID)
}

func (h *gatewayEventHandler) closeTicket(ctx context.Context, i *discordgo.InteractionCreate, channelID string) {
	err := h.tickets.Close(ctx, channelID, invoker(i).ID)
	switch {
	case err == nil:
		h.respond(i, "✅ Closing this ticket.", true)
	case errors.Is(err, errs.NotFound("")):
		h.respond(i, "❌ This channel is not a valid ticket.", true)
	case errors.Is(err, errs.AlreadyClosed("")):
		h.respond(i, "❌ This ticket is already closed.", true)
	default:
		h.logger.Error("failed to close ticket", slog.Any("error", err))
		h.respond(i, "❌ Could not close this ticket.", true)
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
