package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"dompetku/internal/amqp"
	"dompetku/internal/config"
	"dompetku/internal/worker"
	"dompetku/pkg/logging"
)

func main() {
	// Load .env for local development; absence is fine in production.
	_ = godotenv.Load()
	logging.Setup()

	slog.Info("Starting dompetku-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		slog.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	auditWorker, err := worker.NewAuditWorker(cfg.AuditLogPath)
	if err != nil {
		slog.Error("Failed to initialize audit worker", "error", err, "path", cfg.AuditLogPath)
		os.Exit(1)
	}
	defer auditWorker.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		slog.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("Recording change events", "queue", cfg.AMQPQueue, "audit_log", cfg.AuditLogPath)

	if err := amqpClient.ConsumeChanges(ctx, auditWorker.HandleChangeMessage); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Worker stopped gracefully")
}
