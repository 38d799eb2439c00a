package analysis

import (
	"fmt"
	"strings"

	"github.com/dandev947366/stock-analysis-agent/internal/common"
	"github.com/dandev947366/stock-analysis-agent/internal/models"
)

// formatReport renders the full markdown research report: header, data
// tables, then the three narrative sections in pipeline order.
func formatReport(report *models.AnalysisReport, data *models.MarketData) string {
	var sb strings.Builder

	title := report.Ticker
	if report.Name != "" {
		title = fmt.Sprintf("%s (%s)", report.Name, report.Ticker)
	}
	sb.WriteString(fmt.Sprintf("# Investment Research Report: %s\n\n", title))
	sb.WriteString(fmt.Sprintf("**Date:** %s\n", report.GeneratedAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("**Model:** %s\n", report.Model))
	sb.WriteString(fmt.Sprintf("**Elapsed:** %s\n\n", report.Elapsed))

	if s := report.Signals; s != nil {
		sb.WriteString("## Technical Snapshot\n\n")
		sb.WriteString(formatSignalsTable(s))
		sb.WriteString("\n")
	}

	if m := report.Metrics; m != nil {
		sb.WriteString("## Valuation Metrics\n\n")
		sb.WriteString(formatMetricsTable(m))
		sb.WriteString("\n")
	}

	if data != nil && len(data.News) > 0 {
		sb.WriteString("## Recent News\n\n")
		for _, n := range data.News {
			sb.WriteString(fmt.Sprintf("- **%s** [%s] %s (%s)\n",
				n.PublishedAt.Format("2006-01-02"), n.Sentiment, n.Title, n.Source))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Fundamental Analysis\n\n")
	sb.WriteString(strings.TrimSpace(report.Fundamental))
	sb.WriteString("\n\n")

	sb.WriteString("## Technical Analysis\n\n")
	sb.WriteString(strings.TrimSpace(report.Technical))
	sb.WriteString("\n\n")

	sb.WriteString("## Investment Recommendation\n\n")
	sb.WriteString(strings.TrimSpace(report.Recommendation))
	sb.WriteString("\n\n")

	sb.WriteString("---\n")
	sb.WriteString("*Generated for research purposes only. Not financial advice.*\n")

	return sb.String()
}

// formatSignalsTable renders the indicator snapshot as a markdown table
func formatSignalsTable(s *models.TickerSignals) string {
	var sb strings.Builder

	sb.WriteString("| Indicator | Value | Signal |\n")
	sb.WriteString("|-----------|-------|--------|\n")
	sb.WriteString(fmt.Sprintf("| Price | %s | %s |\n",
		common.FormatMoney(s.Price.Current), common.FormatSignedPct(s.Price.ChangePct)))
	sb.WriteString(fmt.Sprintf("| Trend | %s | %s |\n", s.Trend, s.TrendDescription))
	sb.WriteString(fmt.Sprintf("| SMA20 | %s | %s |\n",
		common.FormatMoney(s.Price.SMA20), common.FormatSignedPct(s.Price.DistanceToSMA20)))
	sb.WriteString(fmt.Sprintf("| SMA50 | %s | %s |\n",
		common.FormatMoney(s.Price.SMA50), common.FormatSignedPct(s.Price.DistanceToSMA50)))
	sb.WriteString(fmt.Sprintf("| SMA200 | %s | %s |\n",
		common.FormatMoney(s.Price.SMA200), common.FormatSignedPct(s.Price.DistanceToSMA200)))
	sb.WriteString(fmt.Sprintf("| RSI(14) | %.2f | %s |\n", s.Technical.RSI, s.Technical.RSISignal))
	sb.WriteString(fmt.Sprintf("| MACD | %.3f | %s |\n", s.Technical.MACD, s.Technical.MACDCrossover))
	sb.WriteString(fmt.Sprintf("| Bollinger | %s / %s / %s | %s |\n",
		common.FormatMoney(s.Technical.BollingerUpper),
		common.FormatMoney(s.Technical.BollingerMiddle),
		common.FormatMoney(s.Technical.BollingerLower),
		s.Technical.BollingerPos))
	sb.WriteString(fmt.Sprintf("| ATR(14) | %.2f | %.2f%% |\n", s.Technical.ATR, s.Technical.ATRPct))
	sb.WriteString(fmt.Sprintf("| Volume | %s | %s (%.2fx avg) |\n",
		common.FormatVolume(s.Technical.AvgVolume), s.Technical.VolumeSignal, s.Technical.VolumeRatio))
	sb.WriteString(fmt.Sprintf("| Support / Resistance | %s / %s | %s |\n",
		common.FormatMoney(s.Technical.SupportLevel),
		common.FormatMoney(s.Technical.ResistanceLevel),
		formatProximity(s)))
	sb.WriteString(fmt.Sprintf("| 52-Week Range | %s - %s | |\n",
		common.FormatMoney(s.Price.Low52Week), common.FormatMoney(s.Price.High52Week)))

	if len(s.RiskFlags) > 0 {
		sb.WriteString(fmt.Sprintf("\n**Risk Flags:** %s\n", strings.Join(s.RiskFlags, ", ")))
	}

	return sb.String()
}

// formatMetricsTable renders the grouped valuation metrics as a markdown table
func formatMetricsTable(m *models.ValuationMetrics) string {
	var sb strings.Builder

	sb.WriteString("| Group | Metric | Value |\n")
	sb.WriteString("|-------|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Valuation | P/E (trailing) | %s |\n", common.FormatRatio(m.Valuation.PERatio)))
	sb.WriteString(fmt.Sprintf("| Valuation | P/E (forward) | %s |\n", common.FormatRatio(m.Valuation.ForwardPE)))
	sb.WriteString(fmt.Sprintf("| Valuation | PEG | %s |\n", common.FormatRatio(m.Valuation.PEGRatio)))
	sb.WriteString(fmt.Sprintf("| Valuation | Price/Sales | %s |\n", common.FormatRatio(m.Valuation.PriceToSales)))
	sb.WriteString(fmt.Sprintf("| Valuation | Price/Book | %s |\n", common.FormatRatio(m.Valuation.PriceToBook)))
	sb.WriteString(fmt.Sprintf("| Valuation | EV/EBITDA | %s |\n", common.FormatRatio(m.Valuation.EVToEBITDA)))
	sb.WriteString(fmt.Sprintf("| Growth | Revenue YoY | %s |\n", formatPctOrNA(m.Growth.RevenueGrowth)))
	sb.WriteString(fmt.Sprintf("| Growth | Earnings YoY | %s |\n", formatPctOrNA(m.Growth.EarningsGrowth)))
	sb.WriteString(fmt.Sprintf("| Profitability | Gross Margin | %s |\n", formatPctOrNA(m.Profitability.GrossMargin)))
	sb.WriteString(fmt.Sprintf("| Profitability | Operating Margin | %s |\n", formatPctOrNA(m.Profitability.OperatingMargin)))
	sb.WriteString(fmt.Sprintf("| Profitability | Profit Margin | %s |\n", formatPctOrNA(m.Profitability.ProfitMargin)))
	sb.WriteString(fmt.Sprintf("| Profitability | ROE | %s |\n", formatPctOrNA(m.Profitability.ReturnOnEquity)))
	sb.WriteString(fmt.Sprintf("| Profitability | ROA | %s |\n", formatPctOrNA(m.Profitability.ReturnOnAssets)))
	sb.WriteString(fmt.Sprintf("| Health | Current Ratio | %s |\n", common.FormatRatio(m.FinancialHealth.CurrentRatio)))
	sb.WriteString(fmt.Sprintf("| Health | Quick Ratio | %s |\n", common.FormatRatio(m.FinancialHealth.QuickRatio)))
	sb.WriteString(fmt.Sprintf("| Health | Debt/Equity | %s |\n", common.FormatRatio(m.FinancialHealth.DebtToEquity)))
	sb.WriteString(fmt.Sprintf("| Health | Interest Coverage | %s |\n", common.FormatRatio(m.FinancialHealth.InterestCoverage)))

	return sb.String()
}

func formatProximity(s *models.TickerSignals) string {
	switch {
	case s.Technical.NearSupport && s.Technical.NearResistance:
		return "near both"
	case s.Technical.NearSupport:
		return "near support"
	case s.Technical.NearResistance:
		return "near resistance"
	default:
		return ""
	}
}
