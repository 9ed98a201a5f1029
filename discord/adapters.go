package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Announcer posts and patches giveaway announcements over the Session. It
// satisfies the giveaway registry's announcer and reaction enumerator
// contracts.
type Announcer struct {
	session Session
	logger  *slog.Logger
}

func NewAnnouncer(session Session, logger *slog.Logger) *Announcer {
	return &Announcer{session: session, logger: logger}
}

func (a *Announcer) PostAnnouncement(channelID string, embed *discordgo.MessageEmbed) (string, error) {
	msg, err := a.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		return "", fmt.Errorf("failed to post announcement: %w", err)
	}
	return msg.ID, nil
}

func (a *Announcer) UpdateAnnouncement(channelID, messageID string, embed *discordgo.MessageEmbed) error {
	edit := &discordgo.MessageEdit{
		Channel: channelID,
		ID:      messageID,
	}
	edit.SetEmbeds([]*discordgo.MessageEmbed{embed})
	if _, err := a.session.ChannelMessageEditComplex(edit); err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}
	return nil
}

func (a *Announcer) SendMessage(channelID, content string) error {
	if _, err := a.session.ChannelMessageSend(channelID, content); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (a *Announcer) AddReaction(channelID, messageID, emoji string) error {
	return a.session.MessageReactionAdd(channelID, messageID, emoji)
}

// EnumerateReactors pages through the users who reacted with emoji,
// excluding bot accounts.
func (a *Announcer) EnumerateReactors(channelID, messageID, emoji string) ([]string, error) {
	var userIDs []string
	afterID := ""
	for {
		users, err := a.session.MessageReactions(channelID, messageID, emoji, 100, "", afterID)
		if err != nil {
			return nil, fmt.Errorf("failed to list reactions: %w", err)
		}
		for _, u := range users {
			if u.Bot {
				continue
			}
			userIDs = append(userIDs, u.ID)
		}
		if len(users) < 100 {
			return userIDs, nil
		}
		afterID = users[len(users)-1].ID
	}
}

// ChannelManager satisfies the ticket workflow's channel contract: it
// creates the ticket category and restricted per-owner channels in the
// configured guild.
type ChannelManager struct {
	session      Session
	guildID      string
	staffRoleIDs []string
	logger       *slog.Logger
}

func NewChannelManager(session Session, guildID string, staffRoleIDs []string, logger *slog.Logger) *ChannelManager {
	return &ChannelManager{
		session:      session,
		guildID:      guildID,
		staffRoleIDs: staffRoleIDs,
		logger:       logger,
	}
}

// EnsureContainer finds or creates the category channel with the given
// name.
func (c *ChannelManager) EnsureContainer(name string) (string, error) {
	channels, err := c.session.GuildChannels(c.guildID)
	if err != nil {
		return "", fmt.Errorf("failed to list guild channels: %w", err)
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildCategory && strings.EqualFold(ch.Name, name) {
			return ch.ID, nil
		}
	}

	category, err := c.session.GuildChannelCreateComplex(c.guildID, discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildCategory,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create category %q: %w", name, err)
	}
	c.logger.Info("created ticket category", slog.String("category_id", category.ID))
	return category.ID, nil
}

// CreateRestrictedChannel creates a text channel under containerID visible
// only to the owner, the staff roles, and the bot itself.
func (c *ChannelManager) CreateRestrictedChannel(containerID, name, topic, ownerID string) (string, error) {
	// The @everyone role shares the guild's ID.
	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   c.guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    ownerID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory,
		},
	}
	for _, roleID := range c.staffRoleIDs {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    roleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory,
		})
	}

	ch, err := c.session.GuildChannelCreateComplex(c.guildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                topic,
		ParentID:             containerID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create ticket channel %q: %w", name, err)
	}
	return ch.ID, nil
}

func (c *ChannelManager) DeleteChannel(channelID string) error {
	if _, err := c.session.ChannelDelete(channelID); err != nil {
		return fmt.Errorf("failed to delete channel: %w", err)
	}
	return nil
}

func (c *ChannelManager) RecentMessages(channelID string, limit int) ([]*discordgo.Message, error) {
	return c.session.ChannelMessages(channelID, limit, "", "", "")
}

func (c *ChannelManager) PostMessage(channelID, content string) (string, error) {
	msg, err := c.session.ChannelMessageSend(channelID, content)
	if err != nil {
		return "", fmt.Errorf("failed to post message: %w", err)
	}
	return msg.ID, nil
}

func (c *ChannelManager) EditMessage(channelID, messageID, content string) error {
	_, err := c.session.ChannelMessageEdit(channelID, messageID, content)
	return err
}

func (c *ChannelManager) PostEmbed(channelID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) (string, error) {
	msg, err := c.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		return "", fmt.Errorf("failed to post embed: %w", err)
	}
	return msg.ID, nil
}

func (c *ChannelManager) EditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	edit := &discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Components: &components,
	}
	edit.SetEmbeds([]*discordgo.MessageEmbed{embed})
	_, err := c.session.ChannelMessageEditComplex(edit)
	return err
}

// DirectMessage opens (or reuses) the DM channel and sends the embed.
func (c *ChannelManager) DirectMessage(userID string, embed *discordgo.MessageEmbed) error {
	dm, err := c.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}
	_, err = c.session.ChannelMessageSendComplex(dm.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}
	return nil
}
