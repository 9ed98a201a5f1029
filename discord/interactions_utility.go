package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/pvb-community/pvb-bot/app/shared/errs"
)

func (h *gatewayEventHandler) handleTimer(_ context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	opts := optionMap(data)
	duration := opts["duration"].StringValue()
	reminder := ""
	if opt, ok := opts["message"]; ok {
		reminder = opt.StringValue()
	}

	user := invoker(i)
	channelID := i.ChannelID
	_, err := h.timers.Start(user.ID, duration, func() {
		text := fmt.Sprintf("⏰ **Timer finished** (%s) — <@%s>", duration, user.ID)
		if reminder != "" {
			text += "\n" + reminder
		}
		if _, err := h.session.ChannelMessageSend(channelID, text); err != nil {
			h.logger.Warn("failed to send timer reminder",
				slog.String("user_id", user.ID), slog.Any("error", err))
		}
	})
	if err != nil {
		h.respond(i, "❌ Invalid duration format. Use: 30s, 10m, 2h, 1d", true)
		return
	}

	h.respond(i, fmt.Sprintf("⏱️ Timer started for **%s** — I'll remind you when it's done, <@%s>.", duration, user.ID), false)
}

func (h *gatewayEventHandler) handleEndTimer(_ context.Context, i *discordgo.InteractionCreate) {
	user := invoker(i)
	if err := h.timers.Stop(user.ID); err != nil {
		if errors.Is(err, errs.NoActiveTimer("")) {
			h.respond(i, "❌ You don't have an active timer.", true)
			return
		}
		h.logger.Error("failed to stop timer", slog.Any("error", err))
		h.respond(i, "❌ Could not stop your timer.", true)
		return
	}
	h.respond(i, fmt.Sprintf("⏹️ Timer stopped, <@%s>", user.ID), false)
}

func (h *gatewayEventHandler) handleAFK(_ context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	reason := "AFK"
	if opt, ok := optionMap(data)["reason"]; ok {
		reason = opt.StringValue()
	}

	user := invoker(i)
	h.afk.SetAFK(user.ID, reason, i.ChannelID)
	h.respond(i, fmt.Sprintf("💤 <@%s> is now AFK: %s", user.ID, reason), false)
}

func (h *gatewayEventHandler) handleHelp(_ context.Context, i *discordgo.InteractionCreate) {
	h.respondEmbed(i, helpEmbed(), true)
}

func helpEmbed() *discordgo.MessageEmbed {
	const divider = "───────────────────────────────"
	section := func(name string) *discordgo.MessageEmbedField {
		return &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s\n%s\n%s", divider, name, divider),
			Value: "​",
		}
	}
	entry := func(name, value string) *discordgo.MessageEmbedField {
		return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true}
	}

	return &discordgo.MessageEmbed{
		Title:       "✨ BOT COMMANDS PANEL",
		Description: "All available slash commands with role permissions",
		Color:       0x2F3136,
		Fields: []*discordgo.MessageEmbedField{
			section("🎁 GIVEAWAY COMMANDS"),
			entry("/giveaway_create", "Create a new giveaway\n`prize`, `duration`, `winners`, `host`\n👑 Full Admins + 🎉 Giveaway Role"),
			entry("/giveaway_end", "End a giveaway early\n`giveaway_id`\n👑 Full Admins + 🎉 Giveaway Role"),
			entry("/giveaway_list", "List all active giveaways\n👥 Everyone"),
			entry("/giveaway_reroll", "Reroll winners\n`giveaway_id`, `winners`\n👑 Full Admins + 🎉 Giveaway Role"),
			entry("/giveaway_sethost", "Reassign a giveaway host\n`giveaway_id`, `host`\n👑 Full Admins + 🎉 Giveaway Role"),

			section("🔐 MODERATION COMMANDS"),
			entry("/timeout", "Timeout a user\n`user`, `duration`, `reason`\n👑 Full Admins Only"),
			entry("/ban", "Ban a user\n`user`, `reason`\n👑 Full Admins Only"),
			entry("/kick", "Kick a user\n`user`, `reason`\n👑 Full Admins Only"),
			entry("/give_role", "Give role to user\n`user`, `role`\n👑 Full Admins Only"),
			entry("/remove_role", "Remove role from user\n`user`, `role`\n👑 Full Admins Only"),
			entry("/change_nickname", "Change nickname\n`user`, `nickname`\n👑 Full Admins Only"),

			section("⚙️ UTILITY COMMANDS"),
			entry("/timer", "Start a timer\n`duration`, `message`\n👥 Everyone"),
			entry("/end_timer", "Stop your timer\n👥 Everyone"),
			entry("/afk", "Set yourself as AFK\n`reason`\n👥 Everyone"),
			entry("/help", "Show this help menu\n👥 Everyone"),

			section("🎫 TICKET COMMANDS"),
			entry("/ticket_setup", "Setup ticket system\n`channel`\n👑 Full Admins + 🎫 Ticket Admin"),
			entry("/ticket_close", "Close current ticket\n👑 Full Admins + 🎫 Ticket Admin"),
			entry("/ticket_message", "Customize welcome messages\n`type`, `message`\n👑 Full Admins + 🎫 Ticket Admin"),

			section("🔑 ROLE PERMISSIONS"),
			entry("👑 Full Admins", "Can use ALL commands"),
			entry("🎫 Ticket Admin", "Can only use ticket commands"),
			entry("🎉 Giveaway Role", "Can only use giveaway commands"),
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "💡 Use slash commands for better experience!"},
	}
}
