package interfaces

import (
	"context"

	"github.com/dandev947366/stock-analysis-agent/internal/models"
)

// MarketDataStorage persists cached market data per ticker
type MarketDataStorage interface {
	GetMarketData(ctx context.Context, ticker string) (*models.MarketData, error)
	SaveMarketData(ctx context.Context, data *models.MarketData) error
	DeleteMarketData(ctx context.Context, ticker string) error
}

// ReportStorage persists completed analysis reports
type ReportStorage interface {
	GetReport(ctx context.Context, ticker string) (*models.AnalysisReport, error)
	SaveReport(ctx context.Context, report *models.AnalysisReport) error
	ListReports(ctx context.Context) ([]*models.AnalysisReport, error)
	DeleteReport(ctx context.Context, ticker string) error
}

// StorageManager provides access to all storage areas
type StorageManager interface {
	MarketDataStorage() MarketDataStorage
	ReportStorage() ReportStorage
	Close() error
}
