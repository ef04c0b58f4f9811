package main

import (
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"spivaDashboard/internal/config"
	"spivaDashboard/internal/finance"
	"spivaDashboard/internal/logger"
	"spivaDashboard/internal/server"
	"spivaDashboard/internal/storage"
	"spivaDashboard/internal/telegram"
	"spivaDashboard/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	lg := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(lg)

	db, err := storage.OpenSQLite(storage.MemoryDSN)
	if err != nil {
		lg.Fatal().Err(err).Msg("Failed to open sqlite")
	}
	defer db.Close()
	if err := storage.InitSchema(db); err != nil {
		lg.Fatal().Err(err).Msg("Failed to create schema")
	}
	store := storage.NewStore(db)
	if err := store.LoadEmbedded(); err != nil {
		lg.Fatal().Err(err).Msg("Failed to load source tables")
	}
	lg.Info().Msg("Source tables loaded")

	baseURL := finance.ResolveBaseURL(cfg.SPAPIURL, cfg.SPAPIHost)
	client := finance.NewClient(baseURL, finance.DefaultFallback(), lg)
	lg.Info().Str("base_url", client.BaseURL()).Msg("Upstream resolved")

	loader := view.NewLoader(client, lg, cfg.ViewMaxAge)
	renderer := finance.NewRenderer(cfg.ChartCacheTTL)

	var webhook http.HandlerFunc
	if cfg.BotEnabled() {
		tg, err := telegram.NewBot(cfg.TelegramToken, cfg.WebhookPublicURL, loader, renderer, cfg.OpenAIKey, lg)
		if err != nil {
			lg.Fatal().Err(err).Msg("Failed to start telegram bot")
		}
		webhook = tg.WebhookHandler
	}

	router := server.NewRouter(server.Deps{
		Store:    store,
		Loader:   loader,
		Renderer: renderer,
		Webhook:  webhook,
		Log:      lg,
	})

	addr := ":" + cfg.Port
	lg.Info().Str("addr", addr).Msg("HTTP server listening")
	if err := server.ListenAndServe(addr, router); err != nil {
		lg.Error().Err(err).Msg("Server error")
		os.Exit(1)
	}
}
