package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/dandev947366/stock-analysis-agent/internal/common"
	"github.com/dandev947366/stock-analysis-agent/internal/models"
)

// Reports are keyed by ticker so a re-run replaces the previous analysis.
type reportStorage struct {
	store  *Store
	logger *common.Logger
}

func (s *reportStorage) GetReport(_ context.Context, ticker string) (*models.AnalysisReport, error) {
	var report models.AnalysisReport
	err := s.store.db.Get(ticker, &report)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("report for '%s' not found", ticker)
		}
		return nil, fmt.Errorf("failed to get report for '%s': %w", ticker, err)
	}
	return &report, nil
}

func (s *reportStorage) SaveReport(_ context.Context, report *models.AnalysisReport) error {
	if err := s.store.db.Upsert(report.Ticker, report); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	s.logger.Debug().Str("ticker", report.Ticker).Str("id", report.ID).Msg("Report saved")
	return nil
}

func (s *reportStorage) ListReports(_ context.Context) ([]*models.AnalysisReport, error) {
	var reports []models.AnalysisReport
	if err := s.store.db.Find(&reports, nil); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].GeneratedAt.After(reports[j].GeneratedAt)
	})

	result := make([]*models.AnalysisReport, len(reports))
	for i := range reports {
		result[i] = &reports[i]
	}
	return result, nil
}

func (s *reportStorage) DeleteReport(_ context.Context, ticker string) error {
	err := s.store.db.Delete(ticker, models.AnalysisReport{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete report for '%s': %w", ticker, err)
	}
	s.logger.Debug().Str("ticker", ticker).Msg("Report deleted")
	return nil
}
