package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/pvb-community/pvb-bot/app/giveaway"
	"github.com/pvb-community/pvb-bot/app/shared/errs"
)

func (h *gatewayEventHandler) handleGiveawayCreate(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !h.perms.HasGiveawayAccess(i.Member) {
		h.respond(i, "❌ You don't have permission to create giveaways!", true)
		return
	}

	opts := optionMap(data)
	prize := opts["prize"].StringValue()
	duration := opts["duration"].StringValue()
	winners := int(opts["winners"].IntValue())

	hostID := invoker(i).ID
	if opt, ok := opts["host"]; ok {
		hostID = opt.UserValue(nil).ID
	}
	imageURL := ""
	if opt, ok := opts["image"]; ok {
		imageURL = opt.StringValue()
	}

	if winners < 1 {
		h.respond(i, "❌ Winners must be at least 1!", true)
		return
	}

	id, err := h.giveaways.Create(ctx, giveaway.CreateParams{
		Prize:        prize,
		DurationSpec: duration,
		WinnerCount:  winners,
		HostID:       hostID,
		CreatorID:    invoker(i).ID,
		ChannelID:    i.ChannelID,
		ImageURL:     imageURL,
	})
	if err != nil {
		if errors.Is(err, errs.InvalidArgument("")) {
			h.respond(i, "❌ Please provide a valid duration (e.g., 1h, 30m, 1d, 10s)", true)
			return
		}
		h.logger.Error("failed to create giveaway", slog.Any("error", err))
		h.respond(i, "❌ Could not post the giveaway announcement.", true)
		return
	}

	h.respond(i, fmt.Sprintf("✅ Giveaway created successfully! ID: `%d`\n**Host:** <@%s>", id, hostID), true)
}

func (h *gatewayEventHandler) handleGiveawayEnd(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !h.perms.HasGiveawayAccess(i.Member) {
		h.respond(i, "❌ You don't have permission to end giveaways!", true)
		return
	}

	opts := optionMap(data)
	id := opts["giveaway_id"].IntValue()

	snap, ok := h.giveaways.Lookup(id)
	if !ok {
		h.respond(i, "❌ Giveaway not found or already ended.", true)
		return
	}
	if snap.HostID != invoker(i).ID && !h.perms.HasFullAdminAccess(i.Member) {
		h.respond(i, "❌ You can only end giveaways that you hosted!", true)
		return
	}

	if err := h.giveaways.EndEarly(ctx, id, invoker(i).ID); err != nil {
		h.logger.Error("failed to end giveaway", slog.Any("error", err))
		h.respond(i, "❌ Giveaway not found or already ended.", true)
		return
	}
	h.respond(i, fmt.Sprintf("✅ Giveaway `%d` ended successfully!", id), false)
}

func (h *gatewayEventHandler) handleGiveawayList(_ context.Context, i *discordgo.InteractionCreate) {
	active := h.giveaways.List()
	if len(active) == 0 {
		h.respond(i, "📝 No active giveaways!", false)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "🎉 Active Giveaways",
		Color: 0x00ff00,
	}
	for _, g := range active {
		hours := int(g.Remaining.Hours())
		minutes := int(g.Remaining.Minutes()) % 60
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("ID: %d - %s", g.ID, g.Prize),
			Value: fmt.Sprintf("Winners: %d | Ends in: %dh %dm\nHosted by: <@%s>",
				g.WinnerCount, hours, minutes, g.HostID),
		})
	}
	h.respondEmbed(i, embed, false)
}

func (h *gatewayEventHandler) handleGiveawayReroll(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !h.perms.HasGiveawayAccess(i.Member) {
		h.respond(i, "❌ You don't have permission to reroll giveaways!", true)
		return
	}

	opts := optionMap(data)
	id := opts["giveaway_id"].IntValue()
	winners := 1
	if opt, ok := opts["winners"]; ok {
		winners = int(opt.IntValue())
	}

	newWinners, err := h.giveaways.Reroll(ctx, id, winners)
	if err != nil {
		switch {
		case errors.Is(err, errs.NotFound("")):
			h.respond(i, "❌ Giveaway not found!", true)
		case errors.Is(err, errs.NotEnded("")):
			h.respond(i, "❌ Giveaway hasn't ended yet!", true)
		case errors.Is(err, errs.NoParticipants("")):
			h.respond(i, "❌ No participants to reroll from!", true)
		default:
			h.respond(i, "❌ Winners must be at least 1!", true)
		}
		return
	}

	snap, _ := h.giveaways.Lookup(id)
	h.respond(i, giveaway.RerollMessage(snap, newWinners), false)
}

func (h *gatewayEventHandler) handleGiveawaySetHost(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !h.perms.HasGiveawayAccess(i.Member) {
		h.respond(i, "❌ You don't have permission to manage giveaways!", true)
		return
	}

	opts := optionMap(data)
	id := opts["giveaway_id"].IntValue()
	newHost := opts["host"].UserValue(nil)

	if err := h.giveaways.SetHost(ctx, id, newHost.ID, invoker(i).ID); err != nil {
		if errors.Is(err, errs.NotFound("")) {
			h.respond(i, "❌ Giveaway not found!", true)
			return
		}
		h.logger.Error("failed to set giveaway host", slog.Any("error", err))
		h.respond(i, "❌ Could not update the giveaway host.", true)
		return
	}
	h.respond(i, fmt.Sprintf("✅ Host updated for giveaway `%d` → <@%s>", id, newHost.ID), false)
}
