package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"github.com/pvb-community/pvb-bot/app/afk"
	"github.com/pvb-community/pvb-bot/app/events"
	"github.com/pvb-community/pvb-bot/app/giveaway"
	"github.com/pvb-community/pvb-bot/app/health"
	"github.com/pvb-community/pvb-bot/app/shared/clock"
	"github.com/pvb-community/pvb-bot/app/shared/redaction"
	"github.com/pvb-community/pvb-bot/app/ticket"
	"github.com/pvb-community/pvb-bot/app/timer"
	"github.com/pvb-community/pvb-bot/bot"
	"github.com/pvb-community/pvb-bot/config"
	"github.com/pvb-community/pvb-bot/discord"
	notifyhandlers "github.com/pvb-community/pvb-bot/handlers/notify"
	notifyrouter "github.com/pvb-community/pvb-bot/router/notify"
)

var version = "dev"

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("service", cfg.Service.Name),
	)
	logger.Info("Configuration loaded",
		slog.String("guild_id", cfg.Discord.GuildID),
		slog.String("token", redaction.RedactSecret(cfg.Discord.Token)),
		slog.String("ticket_category", cfg.Discord.TicketCategory),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventBus := events.NewEventBus(logger)

	// Create Discord session.
	discordSession, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}

	// Set Discord intents.
	discordSession.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent

	// Wrap the Discord session in the correct interface.
	discordSessionWrapper := discord.NewDiscordSession(discordSession, logger)

	clk := clock.New()
	announcer := discord.NewAnnouncer(discordSessionWrapper, logger)
	channelManager := discord.NewChannelManager(
		discordSessionWrapper,
		cfg.Discord.GuildID,
		append(append([]string{}, cfg.Discord.FullAdminRoleIDs...), cfg.Discord.TicketAdminRoleIDs...),
		logger,
	)

	giveaways := giveaway.NewRegistry(clk, announcer, announcer, eventBus, logger)
	tickets := ticket.NewWorkflow(channelManager, clk, eventBus, logger)
	tickets.SetContainerName(cfg.Discord.TicketCategory)
	timers := timer.NewService(clk, logger)
	afkTracker := afk.NewTracker(clk, logger)
	perms := discord.NewPermissionChecker(
		cfg.Discord.FullAdminRoleIDs,
		cfg.Discord.TicketAdminRoleIDs,
		cfg.Discord.GiveawayRoleIDs,
	)

	// Create the Watermill message router.
	watermillRouter, err := message.NewRouter(message.RouterConfig{}, watermill.NopLogger{})
	if err != nil {
		log.Fatalf("Failed to create Watermill router: %v", err)
	}

	// Create the notify router for log-channel audit events.
	notifyRouter := notifyrouter.NewNotifyRouter(logger, watermillRouter, eventBus)
	handlers := notifyhandlers.NewNotifyHandlers(discordSessionWrapper, cfg.Discord.LogChannelID, clk, logger)
	if err := notifyRouter.Configure(handlers); err != nil {
		log.Fatalf("Failed to configure notify router: %v", err)
	}

	go func() {
		if err := watermillRouter.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("Watermill router error", slog.Any("error", err))
			cancel()
		}
	}()

	// Create GatewayEventHandler.
	gatewayHandler := discord.NewGatewayEventHandler(
		discordSessionWrapper, giveaways, tickets, timers, afkTracker,
		perms, eventBus, clk, cfg, logger,
	)

	// Create the Discord bot, passing in dependencies.
	discordBot, err := bot.NewDiscordBot(discordSessionWrapper, cfg, gatewayHandler, logger, eventBus, watermillRouter)
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}

	// Run the Discord bot in a goroutine.
	go func() {
		if err := discordBot.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("Discord bot error", slog.Any("error", err))
			cancel()
		}
	}()

	// Serve the health endpoint.
	healthHandler := health.NewHandler(version)
	go func() {
		if err := healthHandler.StartServer(cfg.Health.Addr); err != nil {
			logger.Error("Health server error", slog.Any("error", err))
		}
	}()

	// Handle graceful shutdown.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
	case <-ctx.Done():
	}

	logger.Info("Shutting down gracefully...")
	cancel()

	discordBot.Close()

	logger.Info("Shutdown complete.")
}
