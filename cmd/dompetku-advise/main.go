// Command dompetku-advise prints one advisory text for the stored data and
// exits. Useful for cron jobs and for checking provider credentials.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"dompetku/internal/backend"
	"dompetku/internal/config"
	"dompetku/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

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

	advisorClient, err := factory.CreateAdvisor(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize advisor", "error", err, "provider", cfg.AdvisorProvider)
		os.Exit(1)
	}

	state := result.Store.Load(ctx)
	slog.Info("Loaded snapshot",
		"transactions", len(state.Transactions),
		"debts", len(state.Debts),
		"savings", len(state.Savings))

	advice, err := advisorClient.Advise(ctx, state.Transactions, state.Debts, state.Savings)
	if err != nil {
		slog.Error("Advisory request failed", "error", err)
		os.Exit(1)
	}

	fmt.Println(advice)
}
