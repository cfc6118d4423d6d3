package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/lionsys/fittrack/internal/api"
	"github.com/lionsys/fittrack/internal/coach"
	"github.com/lionsys/fittrack/internal/config"
	"github.com/lionsys/fittrack/internal/events"
	"github.com/lionsys/fittrack/internal/gemini"
	"github.com/lionsys/fittrack/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("fittrack starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.InitSchema(ctx); err != nil {
		slog.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready")

	// Gemini client
	if cfg.GeminiAPIKey == "" {
		slog.Error("GEMINI_API_KEY is required")
		os.Exit(1)
	}
	llm := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, slog.Default())
	slog.Info("gemini client ready", "model", cfg.GeminiModel)

	// Change notifications: in-process bus, mirrored to NATS when configured.
	bus := events.NewBus()
	if cfg.NatsURL != "" {
		notifier, err := events.NewNatsNotifier(cfg.NatsURL, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer notifier.Close()
		bus.Subscribe(notifier.Publish)
		slog.Info("NATS mirror ready", "url", cfg.NatsURL)
	}

	// Ingestion pipeline
	pipeline := coach.New(llm, db, bus, slog.Default())

	// Auth: one static credential pair, one static bearer token.
	if cfg.Password == "" {
		slog.Error("FITTRACK_PASSWORD is required")
		os.Exit(1)
	}
	token := cfg.APIToken
	if token == "" {
		token = uuid.NewString()
	}
	auth := api.StaticAuthenticator{Username: cfg.Username, Password: cfg.Password}

	// HTTP API
	srv := api.NewServer(cfg.Port, token, auth, db, llm, pipeline, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("fittrack ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("fittrack stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
