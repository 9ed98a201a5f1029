package notifyhandlers

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/pvb-community/pvb-bot/app/events"
)

// HandleModerationAction posts the audit line matching the action taken.
func (h *NotifyHandlers) HandleModerationAction(msg *message.Message) error {
	var payload events.ModerationActionPayload
	if err := h.unmarshalPayload(msg, &payload); err != nil {
		return err
	}

	h.Logger.Info("Moderation action",
		slog.String("action", payload.Action),
		slog.String("target_id", payload.TargetID),
		slog.String("actor_id", payload.ActorID),
	)

	reason := payload.Reason
	if reason == "" {
		reason = "No reason provided"
	}

	var line string
	switch payload.Action {
	case "timeout":
		line = fmt.Sprintf("⏳ **Timeout** <@%s> by <@%s> for %s — Reason: %s",
			payload.TargetID, payload.ActorID, payload.Detail, reason)
	case "ban":
		line = fmt.Sprintf("🔨 **Banned** <@%s> by <@%s> — Reason: %s",
			payload.TargetID, payload.ActorID, reason)
	case "kick":
		line = fmt.Sprintf("⛔ **Kicked** <@%s> by <@%s> — Reason: %s",
			payload.TargetID, payload.ActorID, reason)
	case "role_add":
		line = fmt.Sprintf("🛠️ **Role Added**\nAdmin: <@%s>\nUser: <@%s>\nRole: <@&%s>",
			payload.ActorID, payload.TargetID, payload.Detail)
	case "role_remove":
		line = fmt.Sprintf("🗑️ **Role Removed**\nAdmin: <@%s>\nUser: <@%s>\nRemoved: <@&%s>",
			payload.ActorID, payload.TargetID, payload.Detail)
	case "nickname":
		line = fmt.Sprintf("✏️ **Nickname Changed**\nAdmin: <@%s>\nUser: <@%s>\nNew Nickname: **%s**",
			payload.ActorID, payload.TargetID, payload.Detail)
	default:
		line = fmt.Sprintf("🛡️ **%s** <@%s> by <@%s> — Reason: %s",
			titleCase(payload.Action), payload.TargetID, payload.ActorID, reason)
	}
	return h.sendLog(line)
}
