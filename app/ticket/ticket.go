package ticket

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/pvb-community/pvb-bot/app/shared/errs"
)

// Type is the closed set of ticket categories. Adding a category means
// adding a constant here plus its label and default welcome text, not
// string matching at call sites.
type Type string

const (
	TypeSupport  Type = "support"
	TypeInvite   Type = "invite"
	TypeGiveaway Type = "giveaway"
)

// ParseType validates a category string from a command or button.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeSupport, TypeInvite, TypeGiveaway:
		return Type(s), nil
	}
	return "", errs.InvalidArgument("invalid ticket type %q: use support, invite, or giveaway", s)
}

// Label is the display name shown on panels, welcome embeds and logs.
func (t Type) Label() string {
	switch t {
	case TypeSupport:
		return "🛠️ Support Ticket"
	case TypeInvite:
		return "🎁 Invite Rewards"
	case TypeGiveaway:
		return "🎉 Giveaway Claim"
	}
	return "🎫 Ticket"
}

func defaultWelcomeMessages() map[Type]string {
	return map[Type]string{
		TypeSupport:  "👋 **Welcome to Support Ticket!**\n\nPlease describe your issue in detail and our support team will assist you shortly.",
		TypeInvite:   "🎁 **Welcome to Invite Rewards!**\n\nPlease provide your invite details and we'll process your rewards.",
		TypeGiveaway: "🎉 **Welcome to Giveaway Claim!**\n\nPlease provide the giveaway details and proof of winning.",
	}
}

const fallbackWelcomeMessage = "Welcome to your ticket!"

// ticket is the workflow-owned record of one open conversation channel.
type ticket struct {
	channelID   string
	channelName string
	ownerID     string
	typ         Type
	createdAt   time.Time
	closed      bool
}

// Snapshot is a read-only copy of a ticket's state.
type Snapshot struct {
	ChannelID   string
	ChannelName string
	OwnerID     string
	Type        Type
	CreatedAt   time.Time
	Closed      bool
}

func (t *ticket) snapshot() Snapshot {
	return Snapshot{
		ChannelID:   t.channelID,
		ChannelName: t.channelName,
		OwnerID:     t.ownerID,
		Type:        t.typ,
		CreatedAt:   t.createdAt,
		Closed:      t.closed,
	}
}

// Channels is the Discord collaborator for the ticket workflow. The
// implementation scopes created channels to the ticket owner plus the
// configured support roles, and containers get restrictive default
// visibility on first use.
type Channels interface {
	EnsureContainer(name string) (containerID string, err error)
	CreateRestrictedChannel(containerID, name, topic, ownerID string) (channelID string, err error)
	DeleteChannel(channelID string) error
	RecentMessages(channelID string, limit int) ([]*discordgo.Message, error)
	PostMessage(channelID, content string) (messageID string, err error)
	EditMessage(channelID, messageID, content string) error
	PostEmbed(channelID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) (messageID string, err error)
	EditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error
	DirectMessage(userID string, embed *discordgo.MessageEmbed) error
}
