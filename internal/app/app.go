// Package app wires configuration, clients, storage and services.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/dandev947366/stock-analysis-agent/internal/clients/eodhd"
	"github.com/dandev947366/stock-analysis-agent/internal/clients/gemini"
	"github.com/dandev947366/stock-analysis-agent/internal/common"
	"github.com/dandev947366/stock-analysis-agent/internal/interfaces"
	"github.com/dandev947366/stock-analysis-agent/internal/services/analysis"
	"github.com/dandev947366/stock-analysis-agent/internal/services/market"
	"github.com/dandev947366/stock-analysis-agent/internal/storage/badger"
)

// App holds all initialized services and clients.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Storage         interfaces.StorageManager
	MarketClient    interfaces.MarketDataClient
	LLMClient       interfaces.LLMClient
	MarketService   interfaces.MarketService
	AnalysisService interfaces.AnalysisService
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	// .env is optional; environment always wins over config files
	_ = godotenv.Load()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("STOCKAGENT_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "stockagent.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/stockagent.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	store, err := badger.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	eodhdKey, err := common.ResolveAPIKey("eodhd_api_key", config.Clients.EODHD.APIKey)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("EODHD API key required: %w", err)
	}

	geminiKey, err := common.ResolveAPIKey("gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("Gemini API key required: %w", err)
	}

	marketClient := eodhd.NewClient(eodhdKey,
		eodhd.WithLogger(logger),
		eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
		eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
		eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
	)

	llmClient, err := gemini.NewClient(ctx, geminiKey,
		gemini.WithLogger(logger),
		gemini.WithModel(config.Clients.Gemini.Model),
		gemini.WithTemperature(config.Clients.Gemini.Temperature),
	)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	marketService := market.NewService(store, marketClient, logger)
	analysisService := analysis.NewService(marketService, llmClient, store, config, logger)

	return &App{
		Config:          config,
		Logger:          logger,
		Storage:         store,
		MarketClient:    marketClient,
		LLMClient:       llmClient,
		MarketService:   marketService,
		AnalysisService: analysisService,
	}, nil
}

// Close releases storage resources.
func (a *App) Close() {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("Storage close failed")
		}
	}
}
