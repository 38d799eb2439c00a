package analysis

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dandev947366/stock-analysis-agent/internal/models"
)

func TestFormatReport(t *testing.T) {
	data := sampleMarketData()
	report := &models.AnalysisReport{
		ID:          "r1",
		Ticker:      "AAPL.US",
		Name:        "Apple Inc",
		GeneratedAt: time.Date(2025, 6, 20, 14, 30, 0, 0, time.UTC),
		Elapsed:     "12.5s",
		Model:       "gemini-2.0-flash",
		Signals: &models.TickerSignals{
			Ticker: "AAPL.US",
			Trend:  models.TrendBullish,
			Price:  models.PriceSignals{Current: 211.25},
			Technical: models.TechnicalSignals{
				RSI:       62.4,
				RSISignal: "neutral",
			},
			RiskFlags: []string{"high_valuation"},
		},
		Metrics:        models.NewValuationMetrics(data.Fundamentals),
		Fundamental:    "Fundamental story.",
		Technical:      "Technical story.",
		Recommendation: "Buy on dips.",
	}

	md := formatReport(report, data)

	assert.Contains(t, md, "# Investment Research Report: Apple Inc (AAPL.US)")
	assert.Contains(t, md, "**Date:** 2025-06-20 14:30")
	assert.Contains(t, md, "**Model:** gemini-2.0-flash")
	assert.Contains(t, md, "## Technical Snapshot")
	assert.Contains(t, md, "| RSI(14) | 62.40 | neutral |")
	assert.Contains(t, md, "**Risk Flags:** high_valuation")
	assert.Contains(t, md, "## Valuation Metrics")
	assert.Contains(t, md, "## Recent News")
	assert.Contains(t, md, "Apple beats estimates")
	assert.Contains(t, md, "## Fundamental Analysis\n\nFundamental story.")
	assert.Contains(t, md, "## Technical Analysis\n\nTechnical story.")
	assert.Contains(t, md, "## Investment Recommendation\n\nBuy on dips.")
	assert.Contains(t, md, "Not financial advice")

	// Narrative sections appear in pipeline order
	assert.True(t, strings.Index(md, "## Fundamental Analysis") < strings.Index(md, "## Technical Analysis"))
	assert.True(t, strings.Index(md, "## Technical Analysis") < strings.Index(md, "## Investment Recommendation"))
}

func TestFormatReportWithoutOptionalSections(t *testing.T) {
	report := &models.AnalysisReport{
		Ticker:         "XYZ.US",
		GeneratedAt:    time.Now(),
		Fundamental:    "f",
		Technical:      "t",
		Recommendation: "r",
	}

	md := formatReport(report, &models.MarketData{Ticker: "XYZ.US"})

	assert.Contains(t, md, "# Investment Research Report: XYZ.US")
	assert.NotContains(t, md, "## Technical Snapshot")
	assert.NotContains(t, md, "## Valuation Metrics")
	assert.NotContains(t, md, "## Recent News")
}

func TestFormatProximity(t *testing.T) {
	s := &models.TickerSignals{}
	assert.Equal(t, "", formatProximity(s))

	s.Technical.NearSupport = true
	assert.Equal(t, "near support", formatProximity(s))

	s.Technical.NearResistance = true
	assert.Equal(t, "near both", formatProximity(s))

	s.Technical.NearSupport = false
	assert.Equal(t, "near resistance", formatProximity(s))
}
