package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ytscribe/config"
	"ytscribe/handlers/api"
	"ytscribe/logger"
	"ytscribe/services/fetch"
	"ytscribe/services/summary"
	"ytscribe/session"
	"ytscribe/supadata"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.Init(cfg.LogDir, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	provider := supadata.NewClient(
		cfg.Provider.APIKey,
		supadata.WithBaseURL(cfg.Provider.BaseURL),
		supadata.WithTimeout(cfg.Provider.Timeout),
	)

	fetchSvc := fetch.NewService(fetch.Config{
		BatchDelay:  cfg.Fetch.BatchDelay,
		FilterDelay: cfg.Fetch.FilterDelay,
		ScanLimit:   cfg.Fetch.ScanLimit,
	})

	summarySvc := summary.NewService(summary.NewHTTPCompleter(
		cfg.Summary.BaseURL,
		cfg.Summary.APIKey,
		cfg.Summary.Model,
		cfg.Summary.Timeout,
	))

	server := api.NewServer(
		cfg,
		api.WithServices(provider, fetchSvc, summarySvc, session.New()),
		api.WithLogger(logg),
	)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-shutdownChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logg.WithError(err).Error("Server shutdown error")
		}
	}()

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
