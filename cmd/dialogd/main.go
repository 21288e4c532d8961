package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/aria-team/dialogd/internal/api"
	"github.com/aria-team/dialogd/internal/config"
	"github.com/aria-team/dialogd/internal/events"
	"github.com/aria-team/dialogd/internal/scenario"
)

func main() {
	godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("dialogd starting", "port", cfg.Port)

	// NATS publisher (optional — dialogd works without a broker, just no events)
	var pub *events.Publisher
	if cfg.NatsURL != "" {
		var err error
		pub, err = events.NewPublisher(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer pub.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured — running without event publishing")
	}

	router := scenario.NewRouter(slog.Default(), pub)

	// Pre-open the configured scenario so the service answers turns right
	// after boot. Callers can still switch scenarios over the API.
	if cfg.APIKey != "" && cfg.EndpointURL != "" {
		creds := scenario.Credentials{
			APIKey:     cfg.APIKey,
			Endpoint:   cfg.EndpointURL,
			Scenario:   cfg.Scenario,
			GeocodeURL: cfg.GeocodeURL,
			RouteURL:   cfg.RouteURL,
			NERURL:     cfg.NERURL,
		}
		if err := router.Open(creds); err != nil {
			slog.Error("failed to open configured scenario", "scenario", cfg.Scenario, "error", err)
			os.Exit(1)
		}
		if err := router.StartSession(); err != nil {
			slog.Error("failed to start session", "error", err)
			os.Exit(1)
		}
		slog.Info("scenario ready", "scenario", cfg.Scenario)
	} else {
		slog.Warn("no generation credentials configured — waiting for open via API")
	}

	srv := api.NewServer(cfg.Port, router, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("dialogd ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	if _, active := router.ActiveScenario(); active {
		if err := router.Close(); err != nil {
			slog.Warn("closing scenario failed", "error", err)
		}
	}
	slog.Info("dialogd stopped")
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
