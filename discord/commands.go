package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Command names, shared between registration and dispatch.
const (
	CmdGiveawayCreate  = "giveaway_create"
	CmdGiveawayEnd     = "giveaway_end"
	CmdGiveawayList    = "giveaway_list"
	CmdGiveawayReroll  = "giveaway_reroll"
	CmdGiveawaySetHost = "giveaway_sethost"
	CmdTimer           = "timer"
	CmdEndTimer        = "end_timer"
	CmdAFK             = "afk"
	CmdHelp            = "help"
	CmdTicketSetup     = "ticket_setup"
	CmdTicketClose     = "ticket_close"
	CmdTicketMessage   = "ticket_message"
	CmdTimeout         = "timeout"
	CmdBan             = "ban"
	CmdKick            = "kick"
	CmdGiveRole        = "give_role"
	CmdRemoveRole      = "remove_role"
	CmdChangeNickname  = "change_nickname"
)

// CommandDefinitions returns every slash command the bot registers.
func CommandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CmdGiveawayCreate,
			Description: "Create a new giveaway",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "prize", Description: "What is being given away", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "duration", Description: "How long the giveaway runs (e.g. 1h, 30m, 1d)", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "winners", Description: "Number of winners", Required: true},
				{Type: discordgo.ApplicationCommandOptionUser, Name: "host", Description: "Giveaway host (defaults to you)"},
				{Type: discordgo.ApplicationCommandOptionString, Name: "image", Description: "Image URL for the announcement"},
			},
		},
		{
			Name:        CmdGiveawayEnd,
			Description: "End a giveaway early",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "giveaway_id", Description: "ID of the giveaway", Required: true},
			},
		},
		{
			Name:        CmdGiveawayList,
			Description: "List all active giveaways",
		},
		{
			Name:        CmdGiveawayReroll,
			Description: "Reroll winners for an ended giveaway",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "giveaway_id", Description: "ID of the giveaway", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "winners", Description: "Number of winners to reroll (default 1)"},
			},
		},
		{
			Name:        CmdGiveawaySetHost,
			Description: "Reassign a giveaway's host",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "giveaway_id", Description: "ID of the giveaway", Required: true},
				{Type: discordgo.ApplicationCommandOptionUser, Name: "host", Description: "New host", Required: true},
			},
		},
		{
			Name:        CmdTimer,
			Description: "Start a timer",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "duration", Description: "Timer length (e.g. 30s, 10m, 2h, 1d)", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "message", Description: "Reminder message"},
			},
		},
		{
			Name:        CmdEndTimer,
			Description: "Stop your active timer",
		},
		{
			Name:        CmdAFK,
			Description: "Set yourself as AFK",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Why you are away"},
			},
		},
		{
			Name:        CmdHelp,
			Description: "Show all available commands",
		},
		{
			Name:        CmdTicketSetup,
			Description: "Setup the ticket system in a channel",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Channel for the ticket panel (defaults to here)"},
			},
		},
		{
			Name:        CmdTicketClose,
			Description: "Close the current ticket",
		},
		{
			Name:        CmdTicketMessage,
			Description: "Customize a ticket welcome message",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "type", Description: "Ticket type (support, invite, giveaway)", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "message", Description: "New welcome message", Required: true},
			},
		},
		{
			Name:        CmdTimeout,
			Description: "Timeout a user",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to timeout", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "duration", Description: "Timeout length (e.g. 30s, 10m, 2h, 1d)", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Reason for the timeout"},
			},
		},
		{
			Name:        CmdBan,
			Description: "Ban a user from the server",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to ban", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Reason for the ban"},
			},
		},
		{
			Name:        CmdKick,
			Description: "Kick a user from the server",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to kick", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Reason for the kick"},
			},
		},
		{
			Name:        CmdGiveRole,
			Description: "Give a role to a user",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to modify", Required: true},
				{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Role to add", Required: true},
			},
		},
		{
			Name:        CmdRemoveRole,
			Description: "Remove a role from a user",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to modify", Required: true},
				{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Role to remove", Required: true},
			},
		},
		{
			Name:        CmdChangeNickname,
			Description: "Change a user's nickname",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to rename", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "nickname", Description: "New nickname", Required: true},
			},
		},
	}
}

// RegisterCommands replaces the guild's slash commands with the bot's set.
func RegisterCommands(s Session, guildID string, logger *slog.Logger) error {
	user, err := s.GetBotUser()
	if err != nil {
		return fmt.Errorf("failed to retrieve bot user: %w", err)
	}

	commands := CommandDefinitions()
	if _, err := s.ApplicationCommandBulkOverwrite(user.ID, guildID, commands); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	for _, cmd := range commands {
		logger.Info("registered command", slog.String("command", "/"+cmd.Name))
	}
	return nil
}
