package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	SPAPIURL         string // explicit upstream base override
	SPAPIHost        string // host used to pick the local or service default
	LogLevel         string
	LogPretty        bool
	ChartCacheTTL    time.Duration
	ViewMaxAge       time.Duration // settled view data older than this is reloaded
	TelegramToken    string
	WebhookPublicURL string
	OpenAIKey        string
}

// Load reads configuration from the environment, after an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "4003"),
		SPAPIURL:         getEnv("SP_API_URL", ""),
		SPAPIHost:        getEnv("SP_API_HOST", "localhost"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogPretty:        getEnvAsBool("LOG_PRETTY", false),
		ChartCacheTTL:    time.Duration(getEnvAsInt("CHART_CACHE_TTL", 60)) * time.Second,
		ViewMaxAge:       time.Duration(getEnvAsInt("VIEW_MAX_AGE", 300)) * time.Second,
		TelegramToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookPublicURL: getEnv("WEBHOOK_PUBLIC_URL", ""),
		OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that only make sense together.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.TelegramToken != "" && c.WebhookPublicURL == "" {
		return errors.New("WEBHOOK_PUBLIC_URL is required when TELEGRAM_BOT_TOKEN is set")
	}
	if c.ChartCacheTTL < 0 {
		return errors.New("CHART_CACHE_TTL must not be negative")
	}
	if c.ViewMaxAge < 0 {
		return errors.New("VIEW_MAX_AGE must not be negative")
	}
	return nil
}

// BotEnabled reports whether the Telegram shell should start.
func (c *Config) BotEnabled() bool { return c.TelegramToken != "" }

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
