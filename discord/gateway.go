package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/pvb-community/pvb-bot/app/afk"
	"github.com/pvb-community/pvb-bot/app/events"
	"github.com/pvb-community/pvb-bot/app/giveaway"
	"github.com/pvb-community/pvb-bot/app/shared/clock"
	"github.com/pvb-community/pvb-bot/app/ticket"
	"github.com/pvb-community/pvb-bot/app/timer"
	"github.com/pvb-community/pvb-bot/config"
	"github.com/pvb-community/pvb-bot/helpers"
)

// GatewayEventHandler handles incoming events from the Discord Gateway.
type GatewayEventHandler interface {
	RegisterHandlers()
}

type gatewayEventHandler struct {
	session   Session
	giveaways *giveaway.Registry
	tickets   *ticket.Workflow
	timers    *timer.Service
	afk       *afk.Tracker
	perms     *PermissionChecker
	publisher events.EventBus
	clock     clock.Clock
	config    *config.Config
	logger    *slog.Logger

	botUserID string
}

// NewGatewayEventHandler creates a new GatewayEventHandler.
func NewGatewayEventHandler(
	session Session,
	giveaways *giveaway.Registry,
	tickets *ticket.Workflow,
	timers *timer.Service,
	afkTracker *afk.Tracker,
	perms *PermissionChecker,
	publisher events.EventBus,
	clk clock.Clock,
	cfg *config.Config,
	logger *slog.Logger,
) GatewayEventHandler {
	return &gatewayEventHandler{
		session:   session,
		giveaways: giveaways,
		tickets:   tickets,
		timers:    timers,
		afk:       afkTracker,
		perms:     perms,
		publisher: publisher,
		clock:     clk,
		config:    cfg,
		logger:    logger,
	}
}

// RegisterHandlers registers all the Discord gateway event handlers.
func (h *gatewayEventHandler) RegisterHandlers() {
	if user, err := h.session.GetBotUser(); err == nil {
		h.botUserID = user.ID
	} else {
		h.logger.Warn("failed to resolve bot user", slog.Any("error", err))
	}

	h.session.AddHandler(h.interactionCreate)
	h.session.AddHandler(h.messageCreate)
	h.session.AddHandler(h.messageReactionAdd)
}

func (h *gatewayEventHandler) interactionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h.dispatchCommand(ctx, i)
	case discordgo.InteractionMessageComponent:
		h.dispatchComponent(ctx, i)
	}
}

func (h *gatewayEventHandler) dispatchCommand(ctx context.Context, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	h.logger.Info("dispatching command",
		slog.String("command", data.Name),
		slog.String("user_id", invoker(i).ID))

	switch data.Name {
	case CmdGiveawayCreate:
		h.handleGiveawayCreate(ctx, i, data)
	case CmdGiveawayEnd:
		h.handleGiveawayEnd(ctx, i, data)
	case CmdGiveawayList:
		h.handleGiveawayList(ctx, i)
	case CmdGiveawayReroll:
		h.handleGiveawayReroll(ctx, i, data)
	case CmdGiveawaySetHost:
		h.handleGiveawaySetHost(ctx, i, data)
	case CmdTimer:
		h.handleTimer(ctx, i, data)
	case CmdEndTimer:
		h.handleEndTimer(ctx, i)
	case CmdAFK:
		h.handleAFK(ctx, i, data)
	case CmdHelp:
		h.handleHelp(ctx, i)
	case CmdTicketSetup:
		h.handleTicketSetup(ctx, i, data)
	case CmdTicketClose:
		h.handleTicketClose(ctx, i)
	case CmdTicketMessage:
		h.handleTicketMessage(ctx, i, data)
	case CmdTimeout:
		h.handleTimeout(ctx, i, data)
	case CmdBan:
		h.handleBan(ctx, i, data)
	case CmdKick:
		h.handleKick(ctx, i, data)
	case CmdGiveRole:
		h.handleGiveRole(ctx, i, data)
	case CmdRemoveRole:
		h.handleRemoveRole(ctx, i, data)
	case CmdChangeNickname:
		h.handleChangeNickname(ctx, i, data)
	default:
		h.logger.Warn("unknown command", slog.String("command", data.Name))
	}
}

func (h *gatewayEventHandler) dispatchComponent(ctx context.Context, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	if typ, ok := ticket.TypeForButton(customID); ok {
		h.handleTicketOpenButton(ctx, i, typ)
		return
	}
	if customID == ticket.ButtonIDClose {
		h.handleTicketCloseButton(ctx, i)
		return
	}
	h.logger.Warn("unknown component", slog.String("custom_id", customID))
}

// messageCreate feeds the AFK tracker: the author's own record is consumed,
// and mentions of away users accumulate pings.
func (h *gatewayEventHandler) messageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	if ret, ok := h.afk.OnMessage(m.Author.ID); ok {
		text := fmt.Sprintf("✅ Welcome back <@%s>! You were AFK for %s.",
			m.Author.ID, helpers.FormatElapsed(ret.Elapsed))
		if len(ret.Pings) > 0 {
			text += fmt.Sprintf("\n⚡ You were pinged by: %s in <#%s>",
				mentionList(ret.Pings), ret.ChannelID)
		}
		if _, err := h.session.ChannelMessageSend(m.ChannelID, text); err != nil {
			h.logger.Warn("failed to send welcome-back message", slog.Any("error", err))
		}
	}

	for _, mentioned := range m.Mentions {
		reason, ok := h.afk.OnMention(mentioned.ID, m.Author.ID)
		if !ok {
			continue
		}
		notice := fmt.Sprintf("💤 %s is AFK due to the following reason: %s", mentioned.Username, reason)
		if _, err := h.session.ChannelMessageSend(m.ChannelID, notice); err != nil {
			h.logger.Warn("failed to send AFK notice", slog.Any("error", err))
		}
	}
}

// messageReactionAdd accrues giveaway participants on the entry emoji.
func (h *gatewayEventHandler) messageReactionAdd(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.Emoji.Name != giveaway.EntryEmoji {
		return
	}
	if r.UserID == h.botUserID {
		return
	}
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		return
	}

	if id, ok := h.giveaways.GiveawayForMessage(r.ChannelID, r.MessageID); ok {
		h.giveaways.RecordParticipant(id, r.UserID)
	}
}

// invoker returns the user behind the interaction, guild or DM.
func invoker(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func optionMap(data discordgo.ApplicationCommandInteractionData) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options))
	for _, opt := range data.Options {
		m[opt.Name] = opt
	}
	return m
}

func mentionList(userIDs []string) string {
	out := ""
	for idx, id := range userIDs {
		if idx > 0 {
			out += ", "
		}
		out += fmt.Sprintf("<@%s>", id)
	}
	return out
}

func (h *gatewayEventHandler) respond(i *discordgo.InteractionCreate, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := h.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		h.logger.Error("failed to respond to interaction", slog.Any("error", err))
	}
}

func (h *gatewayEventHandler) respondEmbed(i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := h.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		h.logger.Error("failed to respond to interaction", slog.Any("error", err))
	}
}
