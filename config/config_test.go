package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := writeConfigFile(t, `
discord:
  token: yaml-token
  guild_id: guild-123
  log_channel_id: log-456
  full_admin_role_ids: [role-a, role-b]
  giveaway_role_ids: [role-c]
service:
  name: pvb-bot-test
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "yaml-token", cfg.Discord.Token)
	assert.Equal(t, "guild-123", cfg.Discord.GuildID)
	assert.Equal(t, []string{"role-a", "role-b"}, cfg.Discord.FullAdminRoleIDs)
	assert.Equal(t, "pvb-bot-test", cfg.Service.Name)
	assert.Equal(t, "tickets", cfg.Discord.TicketCategory, "default applies when yaml is silent")
	assert.Equal(t, ":8080", cfg.Health.Addr)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
discord:
  token: yaml-token
  guild_id: guild-123
`)
	t.Setenv("DISCORD_TOKEN", "env-token")
	t.Setenv("DISCORD_FULL_ADMIN_ROLE_IDS", "role-x,role-y")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Discord.Token, "environment wins over yaml")
	assert.Equal(t, "guild-123", cfg.Discord.GuildID, "yaml survives when env is silent")
	assert.Equal(t, []string{"role-x", "role-y"}, cfg.Discord.FullAdminRoleIDs)
}

func TestLoadConfigMissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	t.Setenv("DISCORD_GUILD_ID", "guild-env")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Discord.Token)
	assert.Equal(t, "guild-env", cfg.Discord.GuildID)
}

func TestLoadConfigRequiresTokenAndGuild(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DISCORD_GUILD_ID", "")
	path := writeConfigFile(t, `
discord:
  guild_id: guild-123
`)
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "discord token not set")

	path = writeConfigFile(t, `
discord:
  token: yaml-token
`)
	_, err = LoadConfig(path)
	assert.ErrorContains(t, err, "guild ID not set")
}
