// Package interfaces defines service contracts for the stock analysis agent
package interfaces

import (
	"context"
	"time"

	"github.com/dandev947366/stock-analysis-agent/internal/models"
)

// MarketDataClient provides access to the EODHD API
type MarketDataClient interface {
	// GetEOD retrieves end-of-day price data
	GetEOD(ctx context.Context, ticker string, opts ...EODOption) (*models.EODResponse, error)

	// GetFundamentals retrieves fundamental data
	GetFundamentals(ctx context.Context, ticker string) (*models.Fundamentals, error)

	// GetNews retrieves news for a ticker
	GetNews(ctx context.Context, ticker string, limit int) ([]*models.NewsItem, error)

	// GetRealTimeQuote retrieves a delayed real-time quote
	GetRealTimeQuote(ctx context.Context, ticker string) (*models.RealTimeQuote, error)
}

// EODOption configures EOD data requests
type EODOption func(*EODParams)

// EODParams holds EOD query parameters
type EODParams struct {
	From   time.Time
	To     time.Time
	Period string // d=daily, w=weekly, m=monthly
	Order  string // a=ascending, d=descending
}

// WithDateRange sets the date range for EOD query
func WithDateRange(from, to time.Time) EODOption {
	return func(p *EODParams) {
		p.From = from
		p.To = to
	}
}

// LLMClient provides access to the hosted LLM endpoint
type LLMClient interface {
	// GenerateContent generates narrative text from a prompt
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// Model returns the configured model identifier
	Model() string
}
