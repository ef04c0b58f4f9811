package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "SP_API_URL", "SP_API_HOST", "LOG_LEVEL", "LOG_PRETTY", "CHART_CACHE_TTL", "VIEW_MAX_AGE", "TELEGRAM_BOT_TOKEN", "WEBHOOK_PUBLIC_URL", "OPENAI_API_KEY"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "4003", cfg.Port)
	assert.Equal(t, "localhost", cfg.SPAPIHost)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 60*time.Second, cfg.ChartCacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.ViewMaxAge)
	assert.False(t, cfg.BotEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SP_API_URL", "http://api.local/api")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("CHART_CACHE_TTL", "5")
	t.Setenv("VIEW_MAX_AGE", "0")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("WEBHOOK_PUBLIC_URL", "https://example.com/telegram/webhook")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://api.local/api", cfg.SPAPIURL)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, 5*time.Second, cfg.ChartCacheTTL)
	assert.Equal(t, time.Duration(0), cfg.ViewMaxAge)
	assert.True(t, cfg.BotEnabled())
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("CHART_CACHE_TTL", "soon")
	t.Setenv("LOG_PRETTY", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.ChartCacheTTL)
	assert.False(t, cfg.LogPretty)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Port: "4003", TelegramToken: "token"}
	assert.Error(t, cfg.Validate())

	cfg.WebhookPublicURL = "https://example.com"
	assert.NoError(t, cfg.Validate())

	cfg.ChartCacheTTL = -time.Second
	assert.Error(t, cfg.Validate())

	cfg.ChartCacheTTL = 0
	cfg.ViewMaxAge = -time.Second
	assert.Error(t, cfg.Validate())
}
