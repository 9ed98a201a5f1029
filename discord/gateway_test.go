package discord

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pvb-community/pvb-bot/app/afk"
	"github.com/pvb-community/pvb-bot/app/events"
	eventmocks "github.com/pvb-community/pvb-bot/app/events/mocks"
	"github.com/pvb-community/pvb-bot/app/giveaway"
	"github.com/pvb-community/pvb-bot/app/shared/clock"
	"github.com/pvb-community/pvb-bot/app/ticket"
	"github.com/pvb-community/pvb-bot/app/timer"
	"github.com/pvb-community/pvb-bot/config"
)

type testHarness struct {
	handler   *gatewayEventHandler
	session   *FakeSession
	clock     *clock.FakeClock
	giveaways *giveaway.Registry
	afk       *afk.Tracker

	mu        sync.Mutex
	sent      []string
	responses []*discordgo.InteractionResponse
}

func (th *testHarness) sentMessages() []string {
	th.mu.Lock()
	defer th.mu.Unlock()
	return append([]string(nil), th.sent...)
}

func (th *testHarness) lastResponse(t *testing.T) *discordgo.InteractionResponse {
	t.Helper()
	th.mu.Lock()
	defer th.mu.Unlock()
	require.NotEmpty(t, th.responses, "expected an interaction response")
	return th.responses[len(th.responses)-1]
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fc := clock.NewFakeClock(time.Unix(1_700_000_000, 0))
	session := NewFakeSession()

	th := &testHarness{session: session, clock: fc}
	session.ChannelMessageSendFunc = func(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
		th.mu.Lock()
		defer th.mu.Unlock()
		th.sent = append(th.sent, content)
		return &discordgo.Message{ID: "sent-msg", ChannelID: channelID}, nil
	}
	session.InteractionRespondFunc = func(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
		th.mu.Lock()
		defer th.mu.Unlock()
		th.responses = append(th.responses, resp)
		return nil
	}

	ctrl := gomock.NewController(t)
	bus := eventmocks.NewMockEventBus(ctrl)
	bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	announcer := NewAnnouncer(session, logger)
	th.giveaways = giveaway.NewRegistry(fc, announcer, announcer, bus, logger)

	channels := NewChannelManager(session, "guild-1", []string{"role-staff"}, logger)
	tickets := ticket.NewWorkflow(channels, fc, bus, logger)

	timers := timer.NewService(fc, logger)
	th.afk = afk.NewTracker(fc, logger)

	cfg := &config.Config{}
	cfg.Discord.GuildID = "guild-1"
	cfg.Discord.FullAdminRoleIDs = []string{"role-admin"}
	cfg.Discord.GiveawayRoleIDs = []string{"role-giveaway"}
	perms := NewPermissionChecker(cfg.Discord.FullAdminRoleIDs, cfg.Discord.TicketAdminRoleIDs, cfg.Discord.GiveawayRoleIDs)

	th.handler = &gatewayEventHandler{
		session:   session,
		giveaways: th.giveaways,
		tickets:   tickets,
		timers:    timers,
		afk:       th.afk,
		perms:     perms,
		publisher: bus,
		clock:     fc,
		config:    cfg,
		logger:    logger,
		botUserID: "bot-user",
	}
	return th
}

func member(userID string, roleIDs ...string) *discordgo.Member {
	return &discordgo.Member{
		User:  &discordgo.User{ID: userID, Username: "user-" + userID},
		Roles: roleIDs,
	}
}

func commandInteraction(name string, m *discordgo.Member, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			ChannelID: "chan-1",
			Member:    m,
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: opts,
			},
		},
	}
}

func strOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Type: discordgo.ApplicationCommandOptionString, Name: name, Value: value,
	}
}

func intOpt(name string, value int64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Type: discordgo.ApplicationCommandOptionInteger, Name: name, Value: float64(value),
	}
}

func TestGiveawayCreateRequiresAccess(t *testing.T) {
	th := newTestHarness(t)

	i := commandInteraction(CmdGiveawayCreate, member("user-1"),
		strOpt("prize", "Nitro"), strOpt("duration", "1h"), intOpt("winners", 1))
	th.handler.interactionCreate(nil, i)

	resp := th.lastResponse(t)
	assert.Contains(t, resp.Data.Content, "don't have permission")
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
}

func TestGiveawayCreateAndReactionAccrual(t *testing.T) {
	th := newTestHarness(t)

	i := commandInteraction(CmdGiveawayCreate, member("host-1", "role-giveaway"),
		strOpt("prize", "Nitro"), strOpt("duration", "1h"), intOpt("winners", 1))
	th.handler.interactionCreate(nil, i)

	resp := th.lastResponse(t)
	require.Contains(t, resp.Data.Content, "Giveaway created successfully! ID: `1`")

	// The announcement was posted through the fake session with a known
	// message ID; a reaction on it accrues the reactor.
	th.handler.messageReactionAdd(nil, &discordgo.MessageReactionAdd{
		MessageReaction: &discordgo.MessageReaction{
			ChannelID: "chan-1", MessageID: "fake-msg-123",
			UserID: "entrant-1", Emoji: discordgo.Emoji{Name: giveaway.EntryEmoji},
		},
	})
	// The bot's own reaction is ignored.
	th.handler.messageReactionAdd(nil, &discordgo.MessageReactionAdd{
		MessageReaction: &discordgo.MessageReaction{
			ChannelID: "chan-1", MessageID: "fake-msg-123",
			UserID: "bot-user", Emoji: discordgo.Emoji{Name: giveaway.EntryEmoji},
		},
	})

	snap, ok := th.giveaways.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, []string{"entrant-1"}, snap.Participants)
}

func TestGiveawayEndRequiresHostOrAdmin(t *testing.T) {
	th := newTestHarness(t)

	create := commandInteraction(CmdGiveawayCreate, member("host-1", "role-giveaway"),
		strOpt("prize", "Nitro"), strOpt("duration", "1h"), intOpt("winners", 1))
	th.handler.interactionCreate(nil, create)

	end := commandInteraction(CmdGiveawayEnd, member("other-1", "role-giveaway"), intOpt("giveaway_id", 1))
	th.handler.interactionCreate(nil, end)
	assert.Contains(t, th.lastResponse(t).Data.Content, "giveaways that you hosted")

	endAsAdmin := commandInteraction(CmdGiveawayEnd, member("admin-1", "role-admin"), intOpt("giveaway_id", 1))
	th.handler.interactionCreate(nil, endAsAdmin)
	assert.Contains(t, th.lastResponse(t).Data.Content, "ended successfully")
}

func TestTimerCommandSchedulesReminder(t *testing.T) {
	th := newTestHarness(t)

	i := commandInteraction(CmdTimer, member("user-1"),
		strOpt("duration", "10m"), strOpt("message", "stretch your legs"))
	th.handler.interactionCreate(nil, i)
	assert.Contains(t, th.lastResponse(t).Data.Content, "Timer started for **10m**")

	th.clock.Advance(10 * time.Minute)

	sent := th.sentMessages()
	require.NotEmpty(t, sent)
	last := sent[len(sent)-1]
	assert.Contains(t, last, "Timer finished")
	assert.Contains(t, last, "stretch your legs")
}

func TestTimerCommandRejectsBadDuration(t *testing.T) {
	th := newTestHarness(t)

	i := commandInteraction(CmdTimer, member("user-1"), strOpt("duration", "soon"))
	th.handler.interactionCreate(nil, i)
	assert.Contains(t, th.lastResponse(t).Data.Content, "Invalid duration format")
}

func TestAFKRoundTripThroughGateway(t *testing.T) {
	th := newTestHarness(t)

	set := commandInteraction(CmdAFK, member("user-1"), strOpt("reason", "lunch"))
	th.handler.interactionCreate(nil, set)
	assert.Contains(t, th.lastResponse(t).Data.Content, "is now AFK: lunch")

	// Someone mentions the away user.
	th.handler.messageCreate(nil, &discordgo.MessageCreate{
		Message: &discordgo.Message{
			ChannelID: "chan-2",
			Author:    &discordgo.User{ID: "pinger-1", Username: "pinger"},
			Mentions:  []*discordgo.User{{ID: "user-1", Username: "sleepy"}},
		},
	})
	sent := th.sentMessages()
	require.NotEmpty(t, sent)
	assert.Contains(t, sent[len(sent)-1], "sleepy is AFK due to the following reason: lunch")

	// The away user posts and the record is consumed.
	th.clock.Advance(30 * time.Minute)
	th.handler.messageCreate(nil, &discordgo.MessageCreate{
		Message: &discordgo.Message{
			ChannelID: "chan-1",
			Author:    &discordgo.User{ID: "user-1", Username: "sleepy"},
		},
	})
	sent = th.sentMessages()
	last := sent[len(sent)-1]
	assert.Contains(t, last, "Welcome back <@user-1>! You were AFK for 30m 0s.")
	assert.Contains(t, last, "pinged by: <@pinger-1>")

	assert.False(t, th.afk.IsAFK("user-1"))
}

func TestBotMessagesIgnored(t *testing.T) {
	th := newTestHarness(t)
	th.afk.SetAFK("bot-adjacent", "away", "chan-1")

	th.handler.messageCreate(nil, &discordgo.MessageCreate{
		Message: &discordgo.Message{
			ChannelID: "chan-1",
			Author:    &discordgo.User{ID: "bot-adjacent", Bot: true},
		},
	})
	assert.Empty(t, th.sentMessages())
	assert.True(t, th.afk.IsAFK("bot-adjacent"), "bot traffic never consumes records")
}

func TestModerationTimeout(t *testing.T) {
	th := newTestHarness(t)

	var timeoutUntil time.Time
	th.session.GuildMemberTimeoutFunc = func(guildID, userID string, until *time.Time, options ...discordgo.RequestOption) error {
		require.NotNil(t, until)
		timeoutUntil = *until
		assert.Equal(t, "guild-1", guildID)
		assert.Equal(t, "target-1", userID)
		return nil
	}

	i := commandInteraction(CmdTimeout, member("admin-1", "role-admin"),
		&discordgo.ApplicationCommandInteractionDataOption{
			Type: discordgo.ApplicationCommandOptionUser, Name: "user", Value: "target-1",
		},
		strOpt("duration", "10m"))
	th.handler.interactionCreate(nil, i)

	assert.Contains(t, th.lastResponse(t).Data.Content, "timed out for 10m")
	assert.Equal(t, th.clock.Now().Add(10*time.Minute), timeoutUntil)
}

func TestRegisterCommands(t *testing.T) {
	session := NewFakeSession()
	var registered []string
	session.ApplicationCommandBulkOverwriteFunc = func(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
		for _, cmd := range commands {
			registered = append(registered, cmd.Name)
		}
		return commands, nil
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, RegisterCommands(session, "guild-1", logger))

	joined := strings.Join(registered, " ")
	for _, want := range []string{
		CmdGiveawayCreate, CmdGiveawayEnd, CmdGiveawayList, CmdGiveawayReroll, CmdGiveawaySetHost,
		CmdTimer, CmdEndTimer, CmdAFK, CmdHelp,
		CmdTicketSetup, CmdTicketClose, CmdTicketMessage,
		CmdTimeout, CmdBan, CmdKick, CmdGiveRole, CmdRemoveRole, CmdChangeNickname,
	} {
		assert.Contains(t, joined, want)
	}
}

var _ events.EventBus = (*eventmocks.MockEventBus)(nil)
