package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/warrofua/mnemolog/internal/api"
	"github.com/warrofua/mnemolog/internal/archive"
	"github.com/warrofua/mnemolog/internal/config"
	"github.com/warrofua/mnemolog/internal/events"
	"github.com/warrofua/mnemolog/internal/pii"
	"github.com/warrofua/mnemolog/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("mnemolog starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL, cfg.ShareBaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database connected")

	// PII scanner. A broken custom pattern file degrades to the built-in
	// table; an unusable scanner would otherwise block archiving.
	var custom []pii.Pattern
	if cfg.PIIPatternFile != "" {
		custom, err = pii.LoadPatternFile(cfg.PIIPatternFile)
		if err != nil {
			slog.Warn("failed to load custom PII patterns, using built-ins", "error", err, "path", cfg.PIIPatternFile)
			custom = nil
		} else {
			slog.Info("custom PII patterns loaded", "count", len(custom), "path", cfg.PIIPatternFile)
		}
	}
	scanner := pii.NewScanner(custom...)

	// NATS (optional; mnemolog works without it, just no archive events)
	var eventsClient *events.Client
	if cfg.NatsURL != "" {
		eventsClient, err = events.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer eventsClient.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured, running without archive events")
	}

	// Archive controller: the decision policy over the triage engine
	ctrl := archive.New(scanner, slog.Default())

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, ctrl, db, eventsClient, cfg.Settings, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("mnemolog ready", "port", cfg.Port,
		"pii_scan", cfg.Settings.RunPIIScan,
		"always_redact", cfg.Settings.AlwaysRedact,
	)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("mnemolog stopped")
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
