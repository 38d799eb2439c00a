// Package analysis runs the three-stage LLM analysis pipeline
package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dandev947366/stock-analysis-agent/internal/charts"
	"github.com/dandev947366/stock-analysis-agent/internal/common"
	"github.com/dandev947366/stock-analysis-agent/internal/interfaces"
	"github.com/dandev947366/stock-analysis-agent/internal/models"
	"github.com/dandev947366/stock-analysis-agent/internal/signals"
)

// Service implements AnalysisService
type Service struct {
	market         interfaces.MarketService
	llm            interfaces.LLMClient
	storage        interfaces.StorageManager
	signalComputer *signals.Computer
	logger         *common.Logger

	outputDir    string
	renderCharts bool
	stageTimeout time.Duration
	maxRetries   int
	retryBackoff time.Duration
}

// NewService creates a new analysis service
func NewService(
	market interfaces.MarketService,
	llm interfaces.LLMClient,
	storage interfaces.StorageManager,
	config *common.Config,
	logger *common.Logger,
) *Service {
	return &Service{
		market:         market,
		llm:            llm,
		storage:        storage,
		signalComputer: signals.NewComputer(),
		logger:         logger,
		outputDir:      config.Output.Dir,
		renderCharts:   config.Output.Charts,
		stageTimeout:   config.Pipeline.GetStageTimeout(),
		maxRetries:     config.Pipeline.MaxRetries,
		retryBackoff:   config.Pipeline.GetRetryBackoff(),
	}
}

// Analyze runs the full pipeline for a ticker: collect, compute, then the
// three sequential prompt stages, each fed the outputs before it.
func (s *Service) Analyze(ctx context.Context, ticker string, options interfaces.AnalyzeOptions) (*models.AnalysisReport, error) {
	start := time.Now()
	s.logger.Info().Str("ticker", ticker).Msg("Starting analysis")

	if s.llm == nil {
		return nil, fmt.Errorf("LLM client not configured")
	}

	// Step 1: Data collection
	data, err := s.market.CollectMarketData(ctx, ticker, options.ForceRefresh)
	if err != nil {
		return nil, fmt.Errorf("collect market data: %w", err)
	}

	// Step 2: Technical signals
	tickerSignals := s.signalComputer.Compute(data)
	summary := signals.Summarize(data.EOD)

	// Step 3: Valuation metrics
	metrics := models.NewValuationMetrics(data.Fundamentals)

	// Step 4: Prompt pipeline, three sequential stages; later prompts
	// carry earlier outputs
	fundamental, err := s.runStage(ctx, models.StageFundamental,
		buildFundamentalPrompt(ticker, data, metrics))
	if err != nil {
		return nil, err
	}

	technical, err := s.runStage(ctx, models.StageTechnical,
		buildTechnicalPrompt(ticker, tickerSignals, summary))
	if err != nil {
		return nil, err
	}

	recommendation, err := s.runStage(ctx, models.StageRecommendation,
		buildRecommendationPrompt(ticker, fundamental, technical))
	if err != nil {
		return nil, err
	}

	report := &models.AnalysisReport{
		ID:             uuid.NewString(),
		Ticker:         ticker,
		Name:           data.Name,
		GeneratedAt:    time.Now(),
		Elapsed:        time.Since(start).Round(time.Millisecond).String(),
		Model:          s.llm.Model(),
		Signals:        tickerSignals,
		Metrics:        metrics,
		Fundamental:    fundamental,
		Technical:      technical,
		Recommendation: recommendation,
	}
	report.Markdown = formatReport(report, data)

	// Step 5: Artifacts; chart and markdown file are best-effort
	if s.renderCharts && !options.SkipChart {
		chartPath, err := s.renderChart(ticker, data)
		if err != nil {
			s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Chart rendering failed")
		} else {
			report.ChartPath = chartPath
		}
	}

	if err := s.writeMarkdown(report); err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Report file write failed")
	}

	// Step 6: Store report
	if err := s.storage.ReportStorage().SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	s.logger.Info().
		Str("ticker", ticker).
		Str("elapsed", report.Elapsed).
		Msg("Analysis complete")

	return report, nil
}

// runStage executes one LLM call with a per-stage timeout and bounded
// retry. A stage failure aborts the pipeline.
func (s *Service) runStage(ctx context.Context, stage, prompt string) (string, error) {
	var lastErr error
	backoff := s.retryBackoff

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			s.logger.Warn().
				Str("stage", stage).
				Int("attempt", attempt).
				Err(lastErr).
				Msg("Retrying pipeline stage")

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", fmt.Errorf("stage '%s': %w", stage, ctx.Err())
			}
			backoff *= 2
		}

		stageCtx, cancel := context.WithTimeout(ctx, s.stageTimeout)
		text, err := s.llm.GenerateContent(stageCtx, prompt)
		cancel()

		if err == nil {
			if strings.TrimSpace(text) == "" {
				lastErr = errors.New("empty response")
				continue
			}
			s.logger.Debug().Str("stage", stage).Int("chars", len(text)).Msg("Stage complete")
			return text, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			break // outer context gone, stop retrying
		}
	}

	return "", fmt.Errorf("stage '%s' failed: %w", stage, lastErr)
}

// renderChart writes the price/SMA chart PNG into the output directory
func (s *Service) renderChart(ticker string, data *models.MarketData) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	path := filepath.Join(s.outputDir, fileStem(ticker)+".png")
	if err := charts.RenderPriceChart(data, path); err != nil {
		return "", err
	}
	return path, nil
}

// writeMarkdown writes the rendered report into the output directory
func (s *Service) writeMarkdown(report *models.AnalysisReport) error {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	path := filepath.Join(s.outputDir, fileStem(report.Ticker)+".md")
	if err := os.WriteFile(path, []byte(report.Markdown), 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	s.logger.Debug().Str("path", path).Msg("Report written")
	return nil
}

// fileStem converts a ticker into a filesystem-safe file stem
func fileStem(ticker string) string {
	return strings.ToLower(strings.ReplaceAll(ticker, ".", "_"))
}

// Ensure Service implements AnalysisService
var _ interfaces.AnalysisService = (*Service)(nil)
