package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/dandev947366/stock-analysis-agent/internal/common"
	"github.com/dandev947366/stock-analysis-agent/internal/models"
)

type marketDataStorage struct {
	store  *Store
	logger *common.Logger
}

func (s *marketDataStorage) GetMarketData(_ context.Context, ticker string) (*models.MarketData, error) {
	var data models.MarketData
	err := s.store.db.Get(ticker, &data)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("market data for '%s' not found", ticker)
		}
		return nil, fmt.Errorf("failed to get market data for '%s': %w", ticker, err)
	}
	return &data, nil
}

func (s *marketDataStorage) SaveMarketData(_ context.Context, data *models.MarketData) error {
	if err := s.store.db.Upsert(data.Ticker, data); err != nil {
		return fmt.Errorf("failed to save market data: %w", err)
	}
	s.logger.Debug().Str("ticker", data.Ticker).Int("bars", len(data.EOD)).Msg("Market data saved")
	return nil
}

func (s *marketDataStorage) DeleteMarketData(_ context.Context, ticker string) error {
	err := s.store.db.Delete(ticker, models.MarketData{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete market data for '%s': %w", ticker, err)
	}
	s.logger.Debug().Str("ticker", ticker).Msg("Market data deleted")
	return nil
}
