package notifyhandlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bwmarrin/discordgo"
)

func (h *NotifyHandlers) unmarshalPayload(msg *message.Message, target interface{}) error {
	if err := json.Unmarshal(msg.Payload, target); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return nil
}

// sendEmbed posts an audit embed to the log channel, stamping it with the
// current time. A missing log channel config drops the event silently.
func (h *NotifyHandlers) sendEmbed(embed *discordgo.MessageEmbed) error {
	if h.LogChannelID == "" {
		return nil
	}
	embed.Timestamp = h.Clock.Now().UTC().Format(time.RFC3339)
	_, err := h.Session.ChannelMessageSendComplex(h.LogChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		h.Logger.Error("Failed to send log embed", slog.String("title", embed.Title), slog.Any("error", err))
		return err
	}
	return nil
}

// sendLog posts a plain content line to the log channel.
func (h *NotifyHandlers) sendLog(content string) error {
	if h.LogChannelID == "" {
		return nil
	}
	if _, err := h.Session.ChannelMessageSend(h.LogChannelID, content); err != nil {
		h.Logger.Error("Failed to send log message", slog.Any("error", err))
		return err
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func mentionList(userIDs []string) string {
	if len(userIDs) == 0 {
		return "none"
	}
	out := ""
	for i, id := range userIDs {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("<@%s>", id)
	}
	return out
}
