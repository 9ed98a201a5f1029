package giveaway

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	colorRunning        = 0x00ff00
	colorEnded          = 0xffa500
	colorNoParticipants = 0xff0000
)

func mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

func mentionList(userIDs []string) string {
	mentions := make([]string, len(userIDs))
	for i, id := range userIDs {
		mentions[i] = mention(id)
	}
	return strings.Join(mentions, ", ")
}

func runningEmbed(snap Snapshot) *discordgo.MessageEmbed {
	endUnix := snap.EndTime.Unix()
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎉 **%s** 🎉", snap.Prize),
		Description: fmt.Sprintf(
			"**Winners:** %d\n**Ends:** <t:%d:R> (<t:%d:F>)\n**Hosted by:** %s\n\nReact with %s to enter!",
			snap.WinnerCount, endUnix, endUnix, mention(snap.HostID), EntryEmoji),
		Color:  colorRunning,
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Giveaway ID: %d | Ends at", snap.ID)},
	}
	if snap.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: snap.ImageURL}
	}
	return embed
}

func endedEmbed(snap Snapshot, winners []string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎉 **%s** 🎉", snap.Prize),
		Description: fmt.Sprintf(
			"**Winners:** %s\n**Participants:** %d\n**Hosted by:** %s\n\nCongratulations to the winners! 🎊",
			mentionList(winners), len(snap.Participants), mention(snap.HostID)),
		Color:  colorEnded,
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Giveaway ID: %d | Ended", snap.ID)},
	}
	if snap.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: snap.ImageURL}
	}
	return embed
}

func noParticipantsEmbed(snap Snapshot) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎉 **%s** 🎉", snap.Prize),
		Description: fmt.Sprintf(
			"**Winners:** No participants 😢\n**Hosted by:** %s\n\nGiveaway has ended with no participants.",
			mention(snap.HostID)),
		Color:  colorNoParticipants,
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Giveaway ID: %d | Ended", snap.ID)},
	}
	if snap.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: snap.ImageURL}
	}
	return embed
}

func winnersMessage(snap Snapshot, winners []string) string {
	return fmt.Sprintf(
		"🎉 **Giveaway Ended!** 🎉\n\n**Prize:** %s\n**Winners:** %s\n**Host:** %s\nCongratulations! 🎊",
		snap.Prize, mentionList(winners), mention(snap.HostID))
}

func noParticipantsMessage(snap Snapshot) string {
	return fmt.Sprintf("🎉 Giveaway for **%s** ended with no participants!", snap.Prize)
}

// RerollMessage renders the reply for a reroll draw. The dispatch layer
// posts it as the interaction response.
func RerollMessage(snap Snapshot, winners []string) string {
	return fmt.Sprintf(
		"🎉 **Rerolled Winners for** `%s`\n\nNew winners: %s\n**Host:** %s",
		snap.Prize, mentionList(winners), mention(snap.HostID))
}
