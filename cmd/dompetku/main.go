package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"dompetku/internal/amqp"
	"dompetku/internal/backend"
	"dompetku/internal/config"
	apphttp "dompetku/internal/http"
	"dompetku/internal/store"
	"dompetku/pkg/logging"
)

func main() {
	// Load .env for local development; absence is fine in production.
	_ = godotenv.Load()
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := backend.NewFactory(slog.Default())

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		slog.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := factory.CreateStore(backendCfg)
	if err != nil {
		slog.Error("Failed to initialize snapshot backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer result.Cleanup()

	// A nil AMQP client disables the change side channel.
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer events.Close()
		slog.Info("AMQP change events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		slog.Info("AMQP change events disabled - no AMQP_URL provided")
	}

	advisorClient, err := factory.CreateAdvisor(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize advisor", "error", err, "provider", cfg.AdvisorProvider)
		os.Exit(1)
	}

	st := store.New(result.Store.Load(ctx), result.Store, events)

	srv := apphttp.NewServer(":"+cfg.Port, st, advisorClient, apphttp.Options{
		RateLimitRPM:   cfg.RateLimitRPM,
		AdviceCacheTTL: cfg.AdviceCacheTTL,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting dompetku server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped gracefully")
}
