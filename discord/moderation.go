package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/pvb-community/pvb-bot/app/events"
	"github.com/pvb-community/pvb-bot/helpers"
)

func (h *gatewayEventHandler) handleTimeout(_ context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !h.perms.HasModerationAccess(i.Member) {
		h.respond(i, "❌ You don't have permission to timeout users!", true)
		return
	}

	opts := optionMap(data)
	target := opts["user"].UserValue(nil)
	duration := opts["duration"].StringValue()
	reason := ""
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	d, err := helpers.ParseStrictDuration(duration)
	if err != nil {
		h.respond(i, "❌ Invalid duration format. Use examples: 30s, 10m, 2h, 1d", true)
		return
	}

	until := h.clock.Now().Add(d)
	if err := h.session.GuildMemberTimeout(h.config.Discord.GuildID, target.ID, &until); err != nil {
		h.logger.Error("failed to timeout member",
			slog.String("target_id", target.ID), slog.Any("error", err))
		h.respond(i, "❌ Could not apply timeout (bot missing permission or role hierarchy).", true)
		return
	}

	h.respond(i, fmt.Sprintf("⏳ <@%s> timed out for %s.", target.ID, duration), false)
	h.publishModeration("timeout", target.ID, invoker(i).ID, reason, duration)
}

func (h *gatewayEventHandler) handleBan(_ context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !h.perms.HasModerationAccess(i.Member) {
		h.respond(i, "❌ You don't have permission to ban users!", true)
		return
	}

	opts := optionMap(data)
	target := opts["user"].UserValue(nil)
	reason := ""
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	if err := h.session.GuildBanCreateWithReason(h.config.Discord.GuildID, target.ID, reason, 0); err != nil {
		h.logger.Error("failed to ban member",
			slog.String("target_id", target.ID), slog.Any("error", err))
		h.respond(i, "❌ Could not ban that member (missing permissions / role hierarchy).", true)
		return
	}

	h.respond(i, fmt.Sprintf("🔨 Banned <@%s>.", target.ID), false)
	h.publishModeration("ban", target.ID, invoker(i).ID, reason, "")
}

func (h *gatewayEventHandler) handleKick(_ context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !h.perms.HasModerationAccess(i.Member) {
		h.respond(i, "❌ You don't have permission to kick users!", true)
		return
	}

	opts := optionMap(data)
	target := opts["user"].UserValue(nil)
	reason := ""
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	if err := h.session.GuildMemberDeleteWithReason(h.config.Discord.GuildID, target.ID, reason); err != nil {
		h.logger.Error("failed to kick member",
			slog.String("target_id", target.ID), slog.Any("error", err))
		h.respond(i, "❌ Could not kick that member (missing permissions / role hierarchy).", true)
		return
	}

	h.respond(i, fmt.Sprintf("⛔ Kicked <@%s>.", target.ID), false)
	h.publishModeration("kick", target.ID, invoker(i).ID, reason, "")
}

func (h *gatewayEventHandler) handleGiveRole(_ context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !h.perms.HasModerationAccess(i.Member) {
		h.respond(i, "❌ You don't have permission to give roles!", true)
		return
	}

	opts := optionMap(data)
	target := opts["user"].UserValue(nil)
	role := opts["role"].RoleValue(nil, "")

	if err := h.session.GuildMemberRoleAdd(h.config.Discord.GuildID, target.ID, role.ID); err != nil {
		h.logger.Error("failed to add role",
			slog.String("target_id", target.ID), slog.Any("error", err))
		h.respond(i, "❌ Could not add role (check bot permissions and role hierarchy).", true)
		return
	}

	h.respond(i, fmt.Sprintf("✅ **Role Added!**\n👤 User: <@%s>\n🎭 Role: <@&%s>", target.ID, role.ID), false)
	h.publishModeration("role_add", target.ID, invoker(i).ID, "", role.ID)
}

func (h *gatewayEventHandler) handleRemoveRole(_ context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !h.perms.HasModerationAccess(i.Member) {
		h.respond(i, "❌ You don't have permission to remove roles!", true)
		return
	}

	opts := optionMap(data)
	target := opts["user"].UserValue(nil)
	role := opts["role"].RoleValue(nil, "")

	if err := h.session.GuildMemberRoleRemove(h.config.Discord.GuildID, target.ID, role.ID); err != nil {
		h.logger.Error("failed to remove role",
			slog.String("target_id", target.ID), slog.Any("error", err))
		h.respond(i, "❌ Could not remove role (check permissions).", true)
		return
	}

	h.respond(i, fmt.Sprintf("🗑️ **Role Removed!**\n👤 User: <@%s>\n🎭 Removed: <@&%s>", target.ID, role.ID), false)
	h.publishModeration("role_remove", target.ID, invoker(i).ID, "", role.ID)
}

func (h *gatewayEventHandler) handleChangeNickname(_ context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !h.perms.HasModerationAccess(i.Member) {
		h.respond(i, "❌ You don't have permission to change nicknames!", true)
		return
	}

	opts := optionMap(data)
	target := opts["user"].UserValue(nil)
	nickname := opts["nickname"].StringValue()

	if err := h.session.GuildMemberNickname(h.config.Discord.GuildID, target.ID, nickname); err != nil {
		h.logger.Error("failed to change nickname",
			slog.String("target_id", target.ID), slog.Any("error", err))
		h.respond(i, "❌ I don't have permission to change that nickname.", true)
		return
	}

	h.respond(i, fmt.Sprintf("✏️ Nickname changed for <@%s> → **%s**", target.ID, nickname), false)
	h.publishModeration("nickname", target.ID, invoker(i).ID, "", nickname)
}

func (h *gatewayEventHandler) publishModeration(action, targetID, actorID, reason, detail string) {
	err := h.publisher.Publish(events.ModerationActionTopic, events.ModerationActionPayload{
		Action:   action,
		TargetID: targetID,
		ActorID:  actorID,
		Reason:   reason,
		Detail:   detail,
	})
	if err != nil {
		h.logger.Warn("failed to publish moderation event",
			slog.String("action", action), slog.Any("error", err))
	}
}
