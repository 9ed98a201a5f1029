package notifyhandlers

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bwmarrin/discordgo"

	"github.com/pvb-community/pvb-bot/app/events"
)

// HandleGiveawayCreated posts the creation audit embed.
func (h *NotifyHandlers) HandleGiveawayCreated(msg *message.Message) error {
	var payload events.GiveawayCreatedPayload
	if err := h.unmarshalPayload(msg, &payload); err != nil {
		return err
	}

	h.Logger.Info("Giveaway created",
		slog.Int64("giveaway_id", payload.GiveawayID),
		slog.String("prize", payload.Prize),
		slog.String("host_id", payload.HostID),
	)

	return h.sendEmbed(&discordgo.MessageEmbed{
		Title: "🎉 Giveaway Created",
		Description: fmt.Sprintf(
			"**Prize:** %s\n"+
				"**Winners:** %d\n"+
				"**Duration:** %s\n"+
				"**Ends:** <t:%d:F>\n"+
				"**Host:** <@%s>\n"+
				"**Created by:** <@%s>\n"+
				"**Channel:** <#%s>\n"+
				"**Giveaway ID:** %d",
			payload.Prize, payload.WinnerCount, payload.Duration, payload.EndUnix,
			payload.HostID, payload.CreatorID, payload.ChannelID, payload.GiveawayID),
		Color: 0x00ff00,
	})
}

// HandleGiveawayEnded posts the end audit embed, one shape for a draw
// with winners and another for an empty giveaway.
func (h *NotifyHandlers) HandleGiveawayEnded(msg *message.Message) error {
	var payload events.GiveawayEndedPayload
	if err := h.unmarshalPayload(msg, &payload); err != nil {
		return err
	}

	h.Logger.Info("Giveaway ended",
		slog.Int64("giveaway_id", payload.GiveawayID),
		slog.Int("participants", payload.ParticipantCount),
		slog.Int("winners", len(payload.WinnerIDs)),
	)

	var embed *discordgo.MessageEmbed
	if len(payload.WinnerIDs) == 0 {
		embed = &discordgo.MessageEmbed{
			Title: "🎉 Giveaway Ended - No Participants",
			Description: fmt.Sprintf(
				"**Prize:** %s\n"+
					"**Host:** <@%s>\n"+
					"**Giveaway ID:** %d\n"+
					"**Participants:** 0\n"+
					"❌ **No winners** - No one entered the giveaway",
				payload.Prize, payload.HostID, payload.GiveawayID),
			Color: 0xff0000,
		}
	} else {
		embed = &discordgo.MessageEmbed{
			Title: "🎉 Giveaway Ended - Winners Selected",
			Description: fmt.Sprintf(
				"**Prize:** %s\n"+
					"**Host:** <@%s>\n"+
					"**Giveaway ID:** %d\n"+
					"**Participants:** %d\n"+
					"**Winners:** %s",
				payload.Prize, payload.HostID, payload.GiveawayID,
				payload.ParticipantCount, mentionList(payload.WinnerIDs)),
			Color: 0x00ff00,
		}
	}
	if payload.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: payload.ImageURL}
	}
	return h.sendEmbed(embed)
}

// HandleGiveawayRerolled posts a plain reroll audit line.
func (h *NotifyHandlers) HandleGiveawayRerolled(msg *message.Message) error {
	var payload events.GiveawayRerolledPayload
	if err := h.unmarshalPayload(msg, &payload); err != nil {
		return err
	}

	return h.sendLog(fmt.Sprintf(
		"🎉 **Giveaway Rerolled** `%s` (ID: %d)\nNew winners: %s\n**Host:** <@%s>",
		payload.Prize, payload.GiveawayID, mentionList(payload.WinnerIDs), payload.HostID))
}

// HandleGiveawayHostChanged posts a plain host reassignment audit line.
func (h *NotifyHandlers) HandleGiveawayHostChanged(msg *message.Message) error {
	var payload events.GiveawayHostChangedPayload
	if err := h.unmarshalPayload(msg, &payload); err != nil {
		return err
	}

	return h.sendLog(fmt.Sprintf(
		"🔄 **Giveaway Host Changed** `%s` (ID: %d)\nOld host: <@%s>\nNew host: <@%s>\nChanged by: <@%s>",
		payload.Prize, payload.GiveawayID, payload.OldHostID, payload.NewHostID, payload.ChangedBy))
}
