// Package config loads the bot configuration from YAML with environment
// variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration settings.
type Config struct {
	Discord DiscordConfig `yaml:"discord"`
	Service ServiceConfig `yaml:"service"`
	Health  HealthConfig  `yaml:"health"`
}

// DiscordConfig holds Discord configuration.
type DiscordConfig struct {
	Token              string   `yaml:"token" env:"DISCORD_TOKEN"`
	AppID              string   `yaml:"app_id" env:"DISCORD_APP_ID"`
	GuildID            string   `yaml:"guild_id" env:"DISCORD_GUILD_ID"`
	LogChannelID       string   `yaml:"log_channel_id" env:"DISCORD_LOG_CHANNEL_ID"`
	FullAdminRoleIDs   []string `yaml:"full_admin_role_ids" env:"DISCORD_FULL_ADMIN_ROLE_IDS"`
	TicketAdminRoleIDs []string `yaml:"ticket_admin_role_ids" env:"DISCORD_TICKET_ADMIN_ROLE_IDS"`
	GiveawayRoleIDs    []string `yaml:"giveaway_role_ids" env:"DISCORD_GIVEAWAY_ROLE_IDS"`
	TicketCategory     string   `yaml:"ticket_category" env:"DISCORD_TICKET_CATEGORY"`
}

// ServiceConfig holds general service configuration.
type ServiceConfig struct {
	Name string `yaml:"name" env:"SERVICE_NAME"`
}

// HealthConfig holds the health endpoint configuration.
type HealthConfig struct {
	Addr string `yaml:"addr" env:"HEALTH_ADDR"`
}

func defaultConfig() Config {
	return Config{
		Discord: DiscordConfig{TicketCategory: "tickets"},
		Service: ServiceConfig{Name: "pvb-bot"},
		Health:  HealthConfig{Addr: ":8080"},
	}
}

// LoadConfig loads the configuration from a YAML file, then applies
// environment variable overrides. A missing file is not an error; the
// environment alone can carry the full configuration.
func LoadConfig(filename string) (*Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("discord token not set (config file or DISCORD_TOKEN)")
	}
	if cfg.Discord.GuildID == "" {
		return nil, fmt.Errorf("discord guild ID not set (config file or DISCORD_GUILD_ID)")
	}
	return &cfg, nil
}
