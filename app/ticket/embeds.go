package ticket

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

const ticketColor = 0x3498db

// panelTitleMarker identifies an existing panel message during the
// EnsurePanel history scan.
const panelTitleMarker = "Ticket System"

// Button custom IDs for the panel and the in-ticket close button.
const (
	ButtonIDSupport  = "support_ticket"
	ButtonIDInvite   = "invite_ticket"
	ButtonIDGiveaway = "giveaway_ticket"
	ButtonIDClose    = "close_ticket"
)

// TypeForButton maps a panel button custom ID to its ticket type.
func TypeForButton(customID string) (Type, bool) {
	switch customID {
	case ButtonIDSupport:
		return TypeSupport, true
	case ButtonIDInvite:
		return TypeInvite, true
	case ButtonIDGiveaway:
		return TypeGiveaway, true
	}
	return "", false
}

func panelEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🎫 Ticket System",
		Description: "**Support Ticket** - Get help from staff.\n" +
			"**Invite Rewards** - Claim rewards for invites.\n" +
			"**Giveaway Claim** - Claim giveaway prizes.\n\n" +
			"Click one of the buttons below to create a ticket.",
		Color:  ticketColor,
		Footer: &discordgo.MessageEmbedFooter{Text: "PVB Bot - Ticket System"},
	}
}

// PanelComponents returns the ticket panel button row.
func PanelComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Support Ticket", Style: discordgo.PrimaryButton, CustomID: ButtonIDSupport},
				discordgo.Button{Label: "Invite Rewards", Style: discordgo.SuccessButton, CustomID: ButtonIDInvite},
				discordgo.Button{Label: "Giveaway Claim", Style: discordgo.SecondaryButton, CustomID: ButtonIDGiveaway},
			},
		},
	}
}

// CloseComponents returns the close button row posted with every welcome
// message.
func CloseComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Close Ticket", Style: discordgo.DangerButton, CustomID: ButtonIDClose},
			},
		},
	}
}

func welcomeEmbed(typ Type, ownerID, ownerName, welcome string, now time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: typ.Label(),
		Description: fmt.Sprintf("Hello <@%s>!\n\n%s\n\n**Ticket Type:** %s\n**Created:** <t:%d:F>\n**User:** %s",
			ownerID, welcome, typ.Label(), now.Unix(), ownerName),
		Color: ticketColor,
	}
	if field := instructionsField(typ); field != nil {
		embed.Fields = append(embed.Fields, field)
	}
	return embed
}

func instructionsField(typ Type) *discordgo.MessageEmbedField {
	switch typ {
	case TypeSupport:
		return &discordgo.MessageEmbedField{
			Name:  "📝 Support Instructions",
			Value: "Please describe your issue in detail. Include:\n• What happened\n• When it occurred\n• Any error messages",
		}
	case TypeInvite:
		return &discordgo.MessageEmbedField{
			Name:  "🎁 Invite Rewards",
			Value: "Please provide:\n• Your invite code\n• Number of invites\n• Screenshots if available",
		}
	case TypeGiveaway:
		return &discordgo.MessageEmbedField{
			Name:  "🎉 Giveaway Claim",
			Value: "Please provide:\n• Giveaway ID or name\n• Your username\n• Proof of winning",
		}
	}
	return nil
}

func closedDMEmbed(snap Snapshot, closedBy string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🎫 Ticket Closed",
		Description: fmt.Sprintf("Your %s ticket has been closed.\n**Closed by:** <@%s>\n**Channel:** #%s",
			snap.Type, closedBy, snap.ChannelName),
		Color: 0xff0000,
	}
}
