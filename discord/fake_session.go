package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// FakeSession provides a programmable stub for the Session interface.
// Each interface method has a corresponding Func field that can be set
// per-test; unset methods return benign defaults.
type FakeSession struct {
	trace []string

	// --- Lifecycle ---
	AddHandlerFunc func(handler interface{}) func()
	OpenFunc       func() error
	CloseFunc      func() error
	GetBotUserFunc func() (*discordgo.User, error)

	// --- Messages ---
	ChannelMessageSendFunc        func(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplexFunc func(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditFunc        func(channelID, messageID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplexFunc func(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessagesFunc           func(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)

	// --- Reactions ---
	MessageReactionAddFunc func(channelID, messageID, emojiID string) error
	MessageReactionsFunc   func(channelID, messageID, emojiID string, limit int, beforeID, afterID string, options ...discordgo.RequestOption) ([]*discordgo.User, error)

	// --- Channels ---
	GuildChannelsFunc             func(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildChannelCreateComplexFunc func(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelDeleteFunc             func(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	UserChannelCreateFunc         func(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)

	// --- Members / Moderation ---
	GuildMemberFunc                 func(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberRoleAddFunc          func(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemoveFunc       func(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberTimeoutFunc          func(guildID, userID string, until *time.Time, options ...discordgo.RequestOption) error
	GuildMemberNicknameFunc         func(guildID, userID, nickname string, options ...discordgo.RequestOption) error
	GuildBanCreateWithReasonFunc    func(guildID, userID, reason string, days int, options ...discordgo.RequestOption) error
	GuildMemberDeleteWithReasonFunc func(guildID, userID, reason string, options ...discordgo.RequestOption) error

	// --- Interactions / Commands ---
	InteractionRespondFunc              func(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEditFunc         func(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ApplicationCommandBulkOverwriteFunc func(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// NewFakeSession initializes a new FakeSession with an empty trace.
func NewFakeSession() *FakeSession {
	return &FakeSession{
		trace: []string{},
	}
}

func (f *FakeSession) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeSession) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeSession) AddHandler(handler interface{}) func() {
	f.record("AddHandler")
	if f.AddHandlerFunc != nil {
		return f.AddHandlerFunc(handler)
	}
	return func() {}
}

func (f *FakeSession) Open() error {
	f.record("Open")
	if f.OpenFunc != nil {
		return f.OpenFunc()
	}
	return nil
}

func (f *FakeSession) Close() error {
	f.record("Close")
	if f.CloseFunc != nil {
		return f.CloseFunc()
	}
	return nil
}

func (f *FakeSession) GetBotUser() (*discordgo.User, error) {
	f.record("GetBotUser")
	if f.GetBotUserFunc != nil {
		return f.GetBotUserFunc()
	}
	return &discordgo.User{ID: "fake-bot-user", Bot: true}, nil
}

func (f *FakeSession) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("ChannelMessageSend")
	if f.ChannelMessageSendFunc != nil {
		return f.ChannelMessageSendFunc(channelID, content, options...)
	}
	return &discordgo.Message{ID: "fake-msg-123", ChannelID: channelID}, nil
}

func (f *FakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("ChannelMessageSendComplex")
	if f.ChannelMessageSendComplexFunc != nil {
		return f.ChannelMessageSendComplexFunc(channelID, data, options...)
	}
	return &discordgo.Message{ID: "fake-msg-123", ChannelID: channelID}, nil
}

func (f *FakeSession) ChannelMessageEdit(channelID, messageID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("ChannelMessageEdit")
	if f.ChannelMessageEditFunc != nil {
		return f.ChannelMessageEditFunc(channelID, messageID, content, options...)
	}
	return &discordgo.Message{ID: messageID, ChannelID: channelID}, nil
}

func (f *FakeSession) ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("ChannelMessageEditComplex")
	if f.ChannelMessageEditComplexFunc != nil {
		return f.ChannelMessageEditComplexFunc(m, options...)
	}
	return &discordgo.Message{ID: m.ID, ChannelID: m.Channel}, nil
}

func (f *FakeSession) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.record("ChannelMessages")
	if f.ChannelMessagesFunc != nil {
		return f.ChannelMessagesFunc(channelID, limit, beforeID, afterID, aroundID, options...)
	}
	return nil, nil
}

func (f *FakeSession) MessageReactionAdd(channelID, messageID, emojiID string) error {
	f.record("MessageReactionAdd")
	if f.MessageReactionAddFunc != nil {
		return f.MessageReactionAddFunc(channelID, messageID, emojiID)
	}
	return nil
}

func (f *FakeSession) MessageReactions(channelID, messageID, emojiID string, limit int, beforeID, afterID string, options ...discordgo.RequestOption) ([]*discordgo.User, error) {
	f.record("MessageReactions")
	if f.MessageReactionsFunc != nil {
		return f.MessageReactionsFunc(channelID, messageID, emojiID, limit, beforeID, afterID, options...)
	}
	return nil, nil
}

func (f *FakeSession) GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	f.record("GuildChannels")
	if f.GuildChannelsFunc != nil {
		return f.GuildChannelsFunc(guildID, options...)
	}
	return nil, nil
}

func (f *FakeSession) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.record("GuildChannelCreateComplex")
	if f.GuildChannelCreateComplexFunc != nil {
		return f.GuildChannelCreateComplexFunc(guildID, data, options...)
	}
	return &discordgo.Channel{ID: "fake-channel-123", Name: data.Name, Type: data.Type}, nil
}

func (f *FakeSession) ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.record("ChannelDelete")
	if f.ChannelDeleteFunc != nil {
		return f.ChannelDeleteFunc(channelID, options...)
	}
	return &discordgo.Channel{ID: channelID}, nil
}

func (f *FakeSession) UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.record("UserChannelCreate")
	if f.UserChannelCreateFunc != nil {
		return f.UserChannelCreateFunc(recipientID, options...)
	}
	return &discordgo.Channel{ID: "fake-dm-123", Type: discordgo.ChannelTypeDM}, nil
}

func (f *FakeSession) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	f.record("GuildMember")
	if f.GuildMemberFunc != nil {
		return f.GuildMemberFunc(guildID, userID, options...)
	}
	return &discordgo.Member{User: &discordgo.User{ID: userID}}, nil
}

func (f *FakeSession) GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	f.record("GuildMemberRoleAdd")
	if f.GuildMemberRoleAddFunc != nil {
		return f.GuildMemberRoleAddFunc(guildID, userID, roleID, options...)
	}
	return nil
}

func (f *FakeSession) GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	f.record("GuildMemberRoleRemove")
	if f.GuildMemberRoleRemoveFunc != nil {
		return f.GuildMemberRoleRemoveFunc(guildID, userID, roleID, options...)
	}
	return nil
}

func (f *FakeSession) GuildMemberTimeout(guildID, userID string, until *time.Time, options ...discordgo.RequestOption) error {
	f.record("GuildMemberTimeout")
	if f.GuildMemberTimeoutFunc != nil {
		return f.GuildMemberTimeoutFunc(guildID, userID, until, options...)
	}
	return nil
}

func (f *FakeSession) GuildMemberNickname(guildID, userID, nickname string, options ...discordgo.RequestOption) error {
	f.record("GuildMemberNickname")
	if f.GuildMemberNicknameFunc != nil {
		return f.GuildMemberNicknameFunc(guildID, userID, nickname, options...)
	}
	return nil
}

func (f *FakeSession) GuildBanCreateWithReason(guildID, userID, reason string, days int, options ...discordgo.RequestOption) error {
	f.record("GuildBanCreateWithReason")
	if f.GuildBanCreateWithReasonFunc != nil {
		return f.GuildBanCreateWithReasonFunc(guildID, userID, reason, days, options...)
	}
	return nil
}

func (f *FakeSession) GuildMemberDeleteWithReason(guildID, userID, reason string, options ...discordgo.RequestOption) error {
	f.record("GuildMemberDeleteWithReason")
	if f.GuildMemberDeleteWithReasonFunc != nil {
		return f.GuildMemberDeleteWithReasonFunc(guildID, userID, reason, options...)
	}
	return nil
}

func (f *FakeSession) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	f.record("InteractionRespond")
	if f.InteractionRespondFunc != nil {
		return f.InteractionRespondFunc(interaction, resp, options...)
	}
	return nil
}

func (f *FakeSession) InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("InteractionResponseEdit")
	if f.InteractionResponseEditFunc != nil {
		return f.InteractionResponseEditFunc(interaction, newresp, options...)
	}
	return &discordgo.Message{ID: "fake-msg-123"}, nil
}

func (f *FakeSession) ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	f.record("ApplicationCommandBulkOverwrite")
	if f.ApplicationCommandBulkOverwriteFunc != nil {
		return f.ApplicationCommandBulkOverwriteFunc(appID, guildID, commands, options...)
	}
	return commands, nil
}
