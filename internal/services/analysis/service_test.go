package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dandev947366/stock-analysis-agent/internal/common"
	"github.com/dandev947366/stock-analysis-agent/internal/interfaces"
	"github.com/dandev947366/stock-analysis-agent/internal/models"
)

// fakeLLM returns canned responses per call and records prompts
type fakeLLM struct {
	responses []string
	errs      []error
	prompts   []string
	calls     int
}

func (f *fakeLLM) GenerateContent(_ context.Context, prompt string) (string, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)

	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return fmt.Sprintf("response %d", i), nil
}

func (f *fakeLLM) Model() string { return "fake-model" }

// fakeMarket serves a fixed MarketData
type fakeMarket struct {
	data  *models.MarketData
	err   error
	force bool
}

func (f *fakeMarket) CollectMarketData(_ context.Context, _ string, force bool) (*models.MarketData, error) {
	f.force = force
	return f.data, f.err
}

// memStorage is an in-memory StorageManager
type memStorage struct {
	reports map[string]*models.AnalysisReport
}

func newMemStorage() *memStorage {
	return &memStorage{reports: make(map[string]*models.AnalysisReport)}
}

func (m *memStorage) MarketDataStorage() interfaces.MarketDataStorage { return nil }
func (m *memStorage) ReportStorage() interfaces.ReportStorage         { return m }
func (m *memStorage) Close() error                                    { return nil }

func (m *memStorage) GetReport(_ context.Context, ticker string) (*models.AnalysisReport, error) {
	r, ok := m.reports[ticker]
	if !ok {
		return nil, fmt.Errorf("report for '%s' not found", ticker)
	}
	return r, nil
}

func (m *memStorage) SaveReport(_ context.Context, report *models.AnalysisReport) error {
	m.reports[report.Ticker] = report
	return nil
}

func (m *memStorage) ListReports(_ context.Context) ([]*models.AnalysisReport, error) {
	var out []*models.AnalysisReport
	for _, r := range m.reports {
		out = append(out, r)
	}
	return out, nil
}

func (m *memStorage) DeleteReport(_ context.Context, ticker string) error {
	delete(m.reports, ticker)
	return nil
}

func testConfig(t *testing.T) *common.Config {
	t.Helper()
	config := common.NewDefaultConfig()
	config.Output.Dir = t.TempDir()
	config.Output.Charts = false
	config.Pipeline.StageTimeout = "5s"
	config.Pipeline.MaxRetries = 1
	config.Pipeline.RetryBackoff = "1ms"
	return config
}

func analysisBars(count int) []models.EODBar {
	bars := make([]models.EODBar, count)
	for i := 0; i < count; i++ {
		c := 100 + 0.2*float64(count-1-i)
		bars[i] = models.EODBar{
			Date:   time.Now().AddDate(0, 0, -i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000000,
		}
	}
	return bars
}

func newTestService(t *testing.T, llm *fakeLLM, market *fakeMarket, storage *memStorage) *Service {
	t.Helper()
	return NewService(market, llm, storage, testConfig(t), common.NewSilentLogger())
}

func TestAnalyzeRunsThreeStages(t *testing.T) {
	llm := &fakeLLM{responses: []string{"fundamental text", "technical text", "recommendation text"}}
	market := &fakeMarket{data: &models.MarketData{
		Ticker:       "AAPL.US",
		Name:         "Apple Inc",
		EOD:          analysisBars(250),
		Fundamentals: &models.Fundamentals{Ticker: "AAPL.US", Name: "Apple Inc", PE: 32.5},
	}}
	storage := newMemStorage()
	service := newTestService(t, llm, market, storage)

	report, err := service.Analyze(context.Background(), "AAPL.US", interfaces.AnalyzeOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, llm.calls)
	assert.Equal(t, "AAPL.US", report.Ticker)
	assert.Equal(t, "Apple Inc", report.Name)
	assert.Equal(t, "fake-model", report.Model)
	assert.NotEmpty(t, report.ID)
	assert.NotEmpty(t, report.Elapsed)
	assert.Equal(t, "fundamental text", report.Fundamental)
	assert.Equal(t, "technical text", report.Technical)
	assert.Equal(t, "recommendation text", report.Recommendation)
	require.NotNil(t, report.Signals)
	require.NotNil(t, report.Metrics)
	assert.NotEmpty(t, report.Markdown)

	// Stored under the ticker
	saved, err := storage.GetReport(context.Background(), "AAPL.US")
	require.NoError(t, err)
	assert.Equal(t, report.ID, saved.ID)
}

func TestAnalyzeThreadsEarlierStageOutputs(t *testing.T) {
	llm := &fakeLLM{responses: []string{"FUNDAMENTAL-OUTPUT", "TECHNICAL-OUTPUT", "final"}}
	market := &fakeMarket{data: &models.MarketData{Ticker: "AAPL.US", EOD: analysisBars(60)}}
	service := newTestService(t, llm, market, newMemStorage())

	_, err := service.Analyze(context.Background(), "AAPL.US", interfaces.AnalyzeOptions{})
	require.NoError(t, err)

	require.Len(t, llm.prompts, 3)
	assert.Contains(t, llm.prompts[0], "fundamental analysis")
	assert.Contains(t, llm.prompts[1], "technical analysis")
	assert.Contains(t, llm.prompts[2], "FUNDAMENTAL-OUTPUT")
	assert.Contains(t, llm.prompts[2], "TECHNICAL-OUTPUT")
}

func TestAnalyzeRetriesTransientFailure(t *testing.T) {
	llm := &fakeLLM{
		errs:      []error{errors.New("rate limited"), nil, nil, nil},
		responses: []string{"", "fundamental", "technical", "recommendation"},
	}
	market := &fakeMarket{data: &models.MarketData{Ticker: "AAPL.US", EOD: analysisBars(60)}}
	service := newTestService(t, llm, market, newMemStorage())

	report, err := service.Analyze(context.Background(), "AAPL.US", interfaces.AnalyzeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, llm.calls) // one retry on stage 1
	assert.Equal(t, "fundamental", report.Fundamental)
}

func TestAnalyzeRetriesEmptyResponse(t *testing.T) {
	llm := &fakeLLM{responses: []string{"   ", "fundamental", "technical", "recommendation"}}
	market := &fakeMarket{data: &models.MarketData{Ticker: "AAPL.US", EOD: analysisBars(60)}}
	service := newTestService(t, llm, market, newMemStorage())

	report, err := service.Analyze(context.Background(), "AAPL.US", interfaces.AnalyzeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "fundamental", report.Fundamental)
}

func TestAnalyzeStageFailureAborts(t *testing.T) {
	boom := errors.New("model unavailable")
	llm := &fakeLLM{
		responses: []string{"fundamental"},
		errs:      []error{nil, boom, boom},
	}
	market := &fakeMarket{data: &models.MarketData{Ticker: "AAPL.US", EOD: analysisBars(60)}}
	storage := newMemStorage()
	service := newTestService(t, llm, market, storage)

	_, err := service.Analyze(context.Background(), "AAPL.US", interfaces.AnalyzeOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage 'technical' failed")
	assert.ErrorIs(t, err, boom)

	// Nothing stored on failure
	_, err = storage.GetReport(context.Background(), "AAPL.US")
	assert.Error(t, err)
}

func TestAnalyzeCollectFailureAborts(t *testing.T) {
	market := &fakeMarket{err: errors.New("no EOD data")}
	service := newTestService(t, &fakeLLM{}, market, newMemStorage())

	_, err := service.Analyze(context.Background(), "BOGUS.US", interfaces.AnalyzeOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collect market data")
}

func TestAnalyzeForceRefreshPropagates(t *testing.T) {
	market := &fakeMarket{data: &models.MarketData{Ticker: "AAPL.US", EOD: analysisBars(60)}}
	service := newTestService(t, &fakeLLM{}, market, newMemStorage())

	_, err := service.Analyze(context.Background(), "AAPL.US", interfaces.AnalyzeOptions{ForceRefresh: true})
	require.NoError(t, err)
	assert.True(t, market.force)
}

func TestAnalyzeWritesMarkdownFile(t *testing.T) {
	llm := &fakeLLM{responses: []string{"fundamental", "technical", "recommendation"}}
	market := &fakeMarket{data: &models.MarketData{Ticker: "AAPL.US", EOD: analysisBars(60)}}

	config := testConfig(t)
	service := NewService(market, llm, newMemStorage(), config, common.NewSilentLogger())

	report, err := service.Analyze(context.Background(), "AAPL.US", interfaces.AnalyzeOptions{})
	require.NoError(t, err)

	path := filepath.Join(config.Output.Dir, "aapl_us.md")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Investment Research Report")
	assert.Contains(t, string(content), report.Recommendation)
}

func TestFileStem(t *testing.T) {
	assert.Equal(t, "aapl_us", fileStem("AAPL.US"))
	assert.Equal(t, "bhp_au", fileStem("BHP.AU"))
}

func TestRunStageContextCancelled(t *testing.T) {
	llm := &fakeLLM{errs: []error{errors.New("transient"), errors.New("transient"), errors.New("transient")}}
	market := &fakeMarket{data: &models.MarketData{Ticker: "AAPL.US", EOD: analysisBars(60)}}
	service := newTestService(t, llm, market, newMemStorage())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Analyze(ctx, "AAPL.US", interfaces.AnalyzeOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || strings.Contains(err.Error(), "failed"))
}
