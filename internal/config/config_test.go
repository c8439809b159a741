package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, ":8080", config.HTTP.Addr)
	assert.Equal(t, "pvc", config.Game.DefaultMode)
	assert.Equal(t, "O", config.Game.BotMark)
	assert.Equal(t, 350*time.Millisecond, config.Game.BotDelay)
	assert.Equal(t, 30*time.Minute, config.Game.SessionTTL)
	assert.False(t, config.Redis.Enabled)
	assert.Equal(t, "localhost:6379", config.Redis.Addr)
	assert.False(t, config.Telemetry.Enabled)
	assert.Equal(t, "tic-tac-toe", config.Telemetry.ServiceName)
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
log-level: debug
http:
  addr: ":9090"
game:
  default-mode: pvp
  bot-delay: 1s
redis:
  enabled: true
  addr: redis:6379
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("REDIS_CONNSTRING", "cache:6380")

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, ":9090", config.HTTP.Addr)
	assert.Equal(t, "pvp", config.Game.DefaultMode)
	assert.Equal(t, time.Second, config.Game.BotDelay)
	assert.Equal(t, "O", config.Game.BotMark)
	assert.True(t, config.Redis.Enabled)
	assert.Equal(t, "cache:6380", config.Redis.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "nope.yml")) })
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{Game: Game{
			DefaultMode:  "pvc",
			BotMark:      "O",
			BotDelay:     0,
			SessionTTL:   time.Minute,
			ReapInterval: time.Second,
		}}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bot plays X", mutate: func(c *Config) { c.Game.BotMark = "X" }},
		{name: "unknown mode", mutate: func(c *Config) { c.Game.DefaultMode = "online" }, wantErr: true},
		{name: "empty mark", mutate: func(c *Config) { c.Game.BotMark = "" }, wantErr: true},
		{name: "negative delay", mutate: func(c *Config) { c.Game.BotDelay = -time.Second }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.Game.SessionTTL = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
