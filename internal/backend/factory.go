package backend

import (
	"context"
	"fmt"
	"log/slog"

	"dompetku/internal/advisor"
	"dompetku/internal/advisor/gemini"
	"dompetku/internal/advisor/openai"
	"dompetku/internal/config"
	"dompetku/internal/snapshot/file"
	"dompetku/internal/snapshot/sqlite"
)

// Factory creates snapshot stores based on configuration
type Factory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateStore builds the snapshot store for the configured backend.
func (f *Factory) CreateStore(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case FileBackend:
		store, err := file.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize file snapshot store: %w", err)
		}
		f.logger.Info("Initialized file snapshot backend", "dir", cfg.DataDir)
		return &Result{Store: store, Cleanup: store.Close}, nil

	case SQLiteBackend:
		store, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite snapshot store: %w", err)
		}
		f.logger.Info("Initialized sqlite snapshot backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: store, Cleanup: store.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

// CreateAdvisor builds the advisory client for the configured provider.
// "off" yields the disabled advisor rather than an error so the rest of
// the app runs without a credential.
func (f *Factory) CreateAdvisor(ctx context.Context, appConfig *config.Config) (advisor.Advisor, error) {
	switch appConfig.AdvisorProvider {
	case "gemini":
		cli, err := gemini.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize gemini advisor: %w", err)
		}
		f.logger.Info("Initialized Gemini advisor")
		return cli, nil

	case "openai":
		cli, err := openai.NewFromEnv()
		if err != nil {
			return nil, fmt.Errorf("initialize openai advisor: %w", err)
		}
		f.logger.Info("Initialized OpenAI advisor")
		return cli, nil

	case "off":
		f.logger.Info("Advisor disabled by configuration")
		return advisor.Disabled{}, nil

	default:
		return nil, fmt.Errorf("unsupported advisor provider: %s", appConfig.AdvisorProvider)
	}
}
