package interfaces

import (
	"context"

	"github.com/dandev947366/stock-analysis-agent/internal/models"
)

// MarketService collects and caches market data
type MarketService interface {
	// CollectMarketData fetches EOD bars, fundamentals, news and a quote for
	// a ticker, reusing cached components that are still fresh. force
	// bypasses freshness checks.
	CollectMarketData(ctx context.Context, ticker string, force bool) (*models.MarketData, error)
}

// AnalysisService runs the three-stage analysis pipeline
type AnalysisService interface {
	// Analyze runs collect, signal computation, metric derivation and the
	// three prompt stages for a ticker, returning the stored report.
	Analyze(ctx context.Context, ticker string, options AnalyzeOptions) (*models.AnalysisReport, error)
}

// AnalyzeOptions configures an analysis run
type AnalyzeOptions struct {
	ForceRefresh bool // re-fetch market data even when the cache is fresh
	SkipChart    bool // don't render the price chart PNG
}
