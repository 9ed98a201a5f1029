package bot

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bwmarrin/discordgo"

	"github.com/pvb-community/pvb-bot/app/events"
	"github.com/pvb-community/pvb-bot/config"
	"github.com/pvb-community/pvb-bot/discord"
)

type DiscordBot struct {
	Session         discord.Session
	Logger          *slog.Logger
	Config          *config.Config
	GatewayHandler  discord.GatewayEventHandler
	WatermillRouter *message.Router
	EventBus        events.EventBus
}

func NewDiscordBot(
	session discord.Session,
	cfg *config.Config,
	gatewayHandler discord.GatewayEventHandler,
	logger *slog.Logger,
	eventBus events.EventBus,
	router *message.Router,
) (*DiscordBot, error) {
	bot := &DiscordBot{
		Session:         session,
		Logger:          logger,
		Config:          cfg,
		GatewayHandler:  gatewayHandler,
		WatermillRouter: router,
		EventBus:        eventBus,
	}

	return bot, nil
}

func (bot *DiscordBot) Run(ctx context.Context) error {
	bot.Logger.Info("Entering bot.Run()...")

	// Register slash commands BEFORE opening the session
	if err := discord.RegisterCommands(bot.Session, bot.Config.Discord.GuildID, bot.Logger); err != nil {
		bot.Logger.Error("Failed to register slash commands", slog.Any("error", err))
		return err
	}
	bot.Logger.Info("Slash commands registered successfully.")

	bot.GatewayHandler.RegisterHandlers()

	bot.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		bot.Logger.Info("Discord bot is connected and ready.")
	})

	if err := bot.Session.Open(); err != nil {
		bot.Logger.Error("Error opening discord connection", slog.Any("error", err))
		return err
	}

	bot.Logger.Info("Discord bot is now running.")

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		bot.Logger.Info("Shutting down Discord bot...")
		bot.Close()
	}()

	return nil
}

func (b *DiscordBot) Close() {
	b.Logger.Info("Closing bot")

	if b.WatermillRouter != nil {
		if err := b.WatermillRouter.Close(); err != nil {
			b.Logger.Error("Failed to close Watermill router", slog.Any("error", err))
		}
	}

	if err := b.Session.Close(); err != nil {
		b.Logger.Error("Failed to close Discord session", slog.Any("error", err))
	}

	if err := b.EventBus.Close(); err != nil {
		b.Logger.Error("Failed to close EventBus", slog.Any("error", err))
	}
}
