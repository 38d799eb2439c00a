// Package market provides market data collection with local caching
package market

import (
	"context"
	"fmt"
	"time"

	"github.com/dandev947366/stock-analysis-agent/internal/common"
	"github.com/dandev947366/stock-analysis-agent/internal/interfaces"
	"github.com/dandev947366/stock-analysis-agent/internal/models"
)

// NewsLimit is the number of recent headlines fetched per ticker
const NewsLimit = 10

// HistoryYears is how far back the full EOD fetch reaches. One year feeds
// the 200-day indicators; a little extra covers market holidays.
const HistoryYears = 2

// Service implements MarketService
type Service struct {
	storage interfaces.StorageManager
	client  interfaces.MarketDataClient
	logger  *common.Logger
}

// NewService creates a new market service
func NewService(
	storage interfaces.StorageManager,
	client interfaces.MarketDataClient,
	logger *common.Logger,
) *Service {
	return &Service{
		storage: storage,
		client:  client,
		logger:  logger,
	}
}

// CollectMarketData fetches EOD bars, fundamentals, news and a quote for a
// ticker, reusing cached components that are still fresh. EOD bars are
// required; fundamentals, news and quote failures are logged and skipped.
func (s *Service) CollectMarketData(ctx context.Context, ticker string, force bool) (*models.MarketData, error) {
	now := time.Now()

	existing, _ := s.storage.MarketDataStorage().GetMarketData(ctx, ticker)
	data := &models.MarketData{
		Ticker:   ticker,
		Exchange: extractExchange(ticker),
	}
	if existing != nil {
		data = existing
	}

	if err := s.collectEOD(ctx, data, now, force); err != nil {
		return nil, err
	}

	if err := s.collectFundamentals(ctx, data, now, force); err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Fundamentals unavailable (continuing)")
	}

	if err := s.collectNews(ctx, data, now, force); err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("News unavailable (continuing)")
	}

	if err := s.collectQuote(ctx, data, now, force); err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Quote unavailable (continuing)")
	}

	if data.Fundamentals != nil && data.Fundamentals.Name != "" {
		data.Name = data.Fundamentals.Name
	}
	data.LastUpdated = now

	if err := s.storage.MarketDataStorage().SaveMarketData(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to save market data: %w", err)
	}

	return data, nil
}

// collectEOD fetches daily bars, incrementally when the cache already has a
// series. EOD data is the one component the pipeline cannot run without.
func (s *Service) collectEOD(ctx context.Context, data *models.MarketData, now time.Time, force bool) error {
	if !force && len(data.EOD) > 0 && common.IsFresh(data.EODUpdatedAt, common.FreshnessEOD) {
		return nil
	}

	// Incremental fetch from the latest stored date: re-requesting that
	// day lets a partial intraday bar be replaced by the settled one
	if !force && len(data.EOD) > 0 {
		fromDate := data.EOD[0].Date
		if fromDate.Before(now) {
			resp, err := s.client.GetEOD(ctx, data.Ticker, interfaces.WithDateRange(fromDate, now))
			if err != nil {
				return fmt.Errorf("failed to fetch incremental EOD data: %w", err)
			}
			if len(resp.Data) > 0 {
				data.EOD = mergeEODBars(resp.Data, data.EOD)
			}
		}
		data.EODUpdatedAt = now
		return nil
	}

	resp, err := s.client.GetEOD(ctx, data.Ticker, interfaces.WithDateRange(now.AddDate(-HistoryYears, 0, 0), now))
	if err != nil {
		return fmt.Errorf("failed to fetch EOD data: %w", err)
	}
	if len(resp.Data) == 0 {
		return fmt.Errorf("no EOD data returned for '%s'", data.Ticker)
	}

	data.EOD = resp.Data
	data.EODUpdatedAt = now
	return nil
}

func (s *Service) collectFundamentals(ctx context.Context, data *models.MarketData, now time.Time, force bool) error {
	if !force && data.Fundamentals != nil && common.IsFresh(data.FundamentalsUpdatedAt, common.FreshnessFundamentals) {
		return nil
	}

	fundamentals, err := s.client.GetFundamentals(ctx, data.Ticker)
	if err != nil {
		return fmt.Errorf("failed to fetch fundamentals: %w", err)
	}

	data.Fundamentals = fundamentals
	data.FundamentalsUpdatedAt = now
	return nil
}

func (s *Service) collectNews(ctx context.Context, data *models.MarketData, now time.Time, force bool) error {
	if !force && len(data.News) > 0 && common.IsFresh(data.NewsUpdatedAt, common.FreshnessNews) {
		return nil
	}

	news, err := s.client.GetNews(ctx, data.Ticker, NewsLimit)
	if err != nil {
		return fmt.Errorf("failed to fetch news: %w", err)
	}

	data.News = news
	data.NewsUpdatedAt = now
	return nil
}

func (s *Service) collectQuote(ctx context.Context, data *models.MarketData, now time.Time, force bool) error {
	if !force && data.Quote != nil && common.IsFresh(data.QuoteUpdatedAt, common.FreshnessQuote) {
		return nil
	}

	quote, err := s.client.GetRealTimeQuote(ctx, data.Ticker)
	if err != nil {
		return fmt.Errorf("failed to fetch quote: %w", err)
	}

	data.Quote = quote
	data.QuoteUpdatedAt = now
	return nil
}

// mergeEODBars merges new bars into an existing descending series, replacing
// bars that share a date (e.g. today's partial bar updated).
func mergeEODBars(newBars, existingBars []models.EODBar) []models.EODBar {
	replaced := make(map[string]struct{}, len(newBars))

	merged := make([]models.EODBar, 0, len(newBars)+len(existingBars))
	for _, b := range newBars {
		merged = append(merged, b)
		replaced[b.Date.Format("2006-01-02")] = struct{}{}
	}
	for _, b := range existingBars {
		if _, ok := replaced[b.Date.Format("2006-01-02")]; !ok {
			merged = append(merged, b)
		}
	}
	return merged
}

// extractExchange returns the exchange suffix of a ticker ("AAPL.US" -> "US")
func extractExchange(ticker string) string {
	for i := len(ticker) - 1; i >= 0; i-- {
		if ticker[i] == '.' {
			return ticker[i+1:]
		}
	}
	return ""
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
