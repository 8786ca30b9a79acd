package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"helpify/adapters/db"
	"helpify/adapters/events"
	"helpify/adapters/identity"
	"helpify/adapters/rest/handlers"
	"helpify/config"
	"helpify/core"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "helpify server configuration file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := mustMakeLogger(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	log.Info("starting helpify server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// database adapter
	storage, err := db.New(log, cfg.DBAddress)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %v", err)
	}
	defer func(storage *db.DB) {
		if err := storage.Close(); err != nil {
			log.Error("failed to close db connection", "error", err)
		}
	}(storage)

	if err := storage.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate db: %v", err)
	}

	// post-commit event hook; skipped entirely without a NATS url
	var publisher core.Events = core.NopEvents{}
	if cfg.NatsURL != "" {
		p, err := events.NewPublisher(log, cfg.NatsURL)
		if err != nil {
			return fmt.Errorf("failed to connect to nats: %v", err)
		}
		defer p.Close()
		publisher = p
	}

	minBid, err := decimal.NewFromString(cfg.Market.MinBid)
	if err != nil {
		return fmt.Errorf("invalid min_bid %q: %v", cfg.Market.MinBid, err)
	}

	// service
	svc := core.NewService(storage, publisher, core.Limits{
		MinProposalLen: cfg.Market.MinProposalLen,
		MinBid:         minBid,
	})

	// identity
	verifier := identity.NewVerifier(cfg.JWTSecret, "helpify")

	mux := http.NewServeMux()
	handlers.Register(mux, log, svc, verifier, cfg.HTTP.Timeout)

	server := http.Server{
		Addr:              cfg.HTTP.Address,
		ReadHeaderTimeout: cfg.HTTP.Timeout,
		Handler:           mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("helpify http server is running", "address", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped unexpectedly: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func mustMakeLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
