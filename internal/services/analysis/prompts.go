package analysis

import (
	"fmt"
	"strings"

	"github.com/dandev947366/stock-analysis-agent/internal/common"
	"github.com/dandev947366/stock-analysis-agent/internal/models"
)

// buildFundamentalPrompt creates the stage-1 prompt from the company
// profile and grouped valuation metrics.
func buildFundamentalPrompt(ticker string, data *models.MarketData, metrics *models.ValuationMetrics) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Perform comprehensive fundamental analysis for %s.\n\n", ticker))

	sb.WriteString("Company Information:\n")
	sb.WriteString(formatCompanyProfile(data))
	sb.WriteString("\n")

	sb.WriteString("Valuation Metrics:\n")
	sb.WriteString(formatMetrics(metrics))
	sb.WriteString("\n")

	if len(data.News) > 0 {
		sb.WriteString("Recent Headlines:\n")
		for _, n := range data.News {
			sb.WriteString(fmt.Sprintf("- [%s] %s (%s)\n", n.Sentiment, n.Title, n.PublishedAt.Format("2006-01-02")))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(`Your analysis must include:
1. Business Model Analysis (competitive advantages, moat)
2. Financial Health Assessment (liquidity, solvency)
3. Growth Prospects (historical and projected)
4. Valuation Assessment (relative and absolute)
5. Industry Position and Competitive Landscape

Treat any metric shown as n/a as unavailable rather than zero.
Format as a professional research report with clear sections.`)

	return sb.String()
}

// buildTechnicalPrompt creates the stage-2 prompt from the indicator
// snapshot and a condensed price-series summary.
func buildTechnicalPrompt(ticker string, signals *models.TickerSignals, summary models.PriceSummary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Perform technical analysis for %s.\n\n", ticker))

	sb.WriteString("Technical Indicators:\n")
	sb.WriteString(formatSignals(signals))
	sb.WriteString("\n")

	sb.WriteString("Price Data Summary:\n")
	sb.WriteString(fmt.Sprintf(`- Period: %s to %s (%d trading days)
- Open: %s  Last Close: %s
- Range: %s - %s
- Mean Close: %s  Mean Volume: %s
`,
		summary.From.Format("2006-01-02"), summary.To.Format("2006-01-02"), summary.Bars,
		common.FormatMoney(summary.Open), common.FormatMoney(summary.Close),
		common.FormatMoney(summary.Low), common.FormatMoney(summary.High),
		common.FormatMoney(summary.MeanClose), common.FormatVolume(summary.MeanVolume),
	))
	sb.WriteString("\n")

	sb.WriteString(`Analyze:
1. Trend Analysis (short, medium, long-term)
2. Key Support/Resistance Levels
3. Momentum Indicators Interpretation
4. Volume Analysis
5. Chart Patterns

Provide specific price levels for entry/exit points.`)

	return sb.String()
}

// buildRecommendationPrompt creates the stage-3 prompt, threading the two
// prior stage outputs into the final synthesis.
func buildRecommendationPrompt(ticker, fundamental, technical string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Generate an institutional investment recommendation for %s.\n\n", ticker))

	sb.WriteString("Fundamental Analysis:\n")
	sb.WriteString(fundamental)
	sb.WriteString("\n\n")

	sb.WriteString("Technical Analysis:\n")
	sb.WriteString(technical)
	sb.WriteString("\n\n")

	sb.WriteString(`Include:
1. Investment Thesis (3-5 key points)
2. Price Targets (conservative/base/aggressive)
3. Risk Assessment (systematic/unsystematic risks)
4. Position Sizing Guidance
5. Monitoring Criteria

Format for a professional investment committee.`)

	return sb.String()
}

// formatCompanyProfile renders the company summary lines shared by the
// stage-1 prompt and the console output.
func formatCompanyProfile(data *models.MarketData) string {
	var sb strings.Builder

	name := data.Name
	if name == "" {
		name = data.Ticker
	}
	sb.WriteString(fmt.Sprintf("- Name: %s\n", name))

	f := data.Fundamentals
	if f == nil {
		sb.WriteString("- Fundamentals: unavailable\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("- Sector: %s\n", orNA(f.Sector)))
	sb.WriteString(fmt.Sprintf("- Industry: %s\n", orNA(f.Industry)))
	sb.WriteString(fmt.Sprintf("- Market Cap: %s\n", common.FormatMarketCap(f.MarketCap)))

	if data.Quote != nil && data.Quote.Close > 0 {
		sb.WriteString(fmt.Sprintf("- Current Price: %s (%s)\n",
			common.FormatMoney(data.Quote.Close), common.FormatSignedPct(data.Quote.ChangePct)))
	} else if len(data.EOD) > 0 {
		sb.WriteString(fmt.Sprintf("- Last Close: %s\n", common.FormatMoney(data.EOD[0].Close)))
	}

	if f.High52Week > 0 {
		sb.WriteString(fmt.Sprintf("- 52 Week Range: %s - %s\n",
			common.FormatMoney(f.Low52Week), common.FormatMoney(f.High52Week)))
	}
	if f.EPS != 0 {
		sb.WriteString(fmt.Sprintf("- EPS: %.2f\n", f.EPS))
	}
	if f.DividendYield > 0 {
		sb.WriteString(fmt.Sprintf("- Dividend Yield: %.2f%%\n", f.DividendYield*100))
	}
	if f.Beta != 0 {
		sb.WriteString(fmt.Sprintf("- Beta: %.2f\n", f.Beta))
	}
	if f.Description != "" {
		sb.WriteString(fmt.Sprintf("- Description: %s\n", truncate(f.Description, 600)))
	}

	return sb.String()
}

// formatMetrics renders the grouped valuation metrics as prompt lines
func formatMetrics(m *models.ValuationMetrics) string {
	if m == nil {
		return "- unavailable\n"
	}

	var sb strings.Builder

	sb.WriteString("Valuation:\n")
	sb.WriteString(fmt.Sprintf("- P/E (trailing): %s\n", common.FormatRatio(m.Valuation.PERatio)))
	sb.WriteString(fmt.Sprintf("- P/E (forward): %s\n", common.FormatRatio(m.Valuation.ForwardPE)))
	sb.WriteString(fmt.Sprintf("- PEG: %s\n", common.FormatRatio(m.Valuation.PEGRatio)))
	sb.WriteString(fmt.Sprintf("- Price/Sales: %s\n", common.FormatRatio(m.Valuation.PriceToSales)))
	sb.WriteString(fmt.Sprintf("- Price/Book: %s\n", common.FormatRatio(m.Valuation.PriceToBook)))
	sb.WriteString(fmt.Sprintf("- EV/EBITDA: %s\n", common.FormatRatio(m.Valuation.EVToEBITDA)))

	sb.WriteString("Growth:\n")
	sb.WriteString(fmt.Sprintf("- Revenue Growth (YoY): %s\n", formatPctOrNA(m.Growth.RevenueGrowth)))
	sb.WriteString(fmt.Sprintf("- Earnings Growth (YoY): %s\n", formatPctOrNA(m.Growth.EarningsGrowth)))

	sb.WriteString("Profitability:\n")
	sb.WriteString(fmt.Sprintf("- Gross Margin: %s\n", formatPctOrNA(m.Profitability.GrossMargin)))
	sb.WriteString(fmt.Sprintf("- Operating Margin: %s\n", formatPctOrNA(m.Profitability.OperatingMargin)))
	sb.WriteString(fmt.Sprintf("- Profit Margin: %s\n", formatPctOrNA(m.Profitability.ProfitMargin)))
	sb.WriteString(fmt.Sprintf("- Return on Equity: %s\n", formatPctOrNA(m.Profitability.ReturnOnEquity)))
	sb.WriteString(fmt.Sprintf("- Return on Assets: %s\n", formatPctOrNA(m.Profitability.ReturnOnAssets)))

	sb.WriteString("Financial Health:\n")
	sb.WriteString(fmt.Sprintf("- Current Ratio: %s\n", common.FormatRatio(m.FinancialHealth.CurrentRatio)))
	sb.WriteString(fmt.Sprintf("- Quick Ratio: %s\n", common.FormatRatio(m.FinancialHealth.QuickRatio)))
	sb.WriteString(fmt.Sprintf("- Debt/Equity: %s\n", common.FormatRatio(m.FinancialHealth.DebtToEquity)))
	sb.WriteString(fmt.Sprintf("- Interest Coverage: %s\n", common.FormatRatio(m.FinancialHealth.InterestCoverage)))

	return sb.String()
}

// formatSignals renders the indicator snapshot as prompt lines
func formatSignals(s *models.TickerSignals) string {
	if s == nil {
		return "- unavailable\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("- Current Price: %s (%s today)\n",
		common.FormatMoney(s.Price.Current), common.FormatSignedPct(s.Price.ChangePct)))
	sb.WriteString(fmt.Sprintf("- Trend: %s (%s)\n", s.Trend, s.TrendDescription))
	sb.WriteString(fmt.Sprintf("- SMA20: %s (%s)  SMA50: %s (%s)  SMA200: %s (%s)\n",
		common.FormatMoney(s.Price.SMA20), common.FormatSignedPct(s.Price.DistanceToSMA20),
		common.FormatMoney(s.Price.SMA50), common.FormatSignedPct(s.Price.DistanceToSMA50),
		common.FormatMoney(s.Price.SMA200), common.FormatSignedPct(s.Price.DistanceToSMA200)))
	sb.WriteString(fmt.Sprintf("- RSI(14): %.2f (%s)\n", s.Technical.RSI, s.Technical.RSISignal))
	sb.WriteString(fmt.Sprintf("- MACD(12,26,9): %.3f  Signal: %.3f  Histogram: %.3f (%s)\n",
		s.Technical.MACD, s.Technical.MACDSignal, s.Technical.MACDHistogram, s.Technical.MACDCrossover))
	sb.WriteString(fmt.Sprintf("- Bollinger(20,2): %s / %s / %s, price %s\n",
		common.FormatMoney(s.Technical.BollingerUpper),
		common.FormatMoney(s.Technical.BollingerMiddle),
		common.FormatMoney(s.Technical.BollingerLower),
		s.Technical.BollingerPos))
	sb.WriteString(fmt.Sprintf("- ATR(14): %.2f (%.2f%% of price)\n", s.Technical.ATR, s.Technical.ATRPct))
	sb.WriteString(fmt.Sprintf("- Volume: %.2fx 20-day average (%s), avg %s\n",
		s.Technical.VolumeRatio, s.Technical.VolumeSignal, common.FormatVolume(s.Technical.AvgVolume)))
	sb.WriteString(fmt.Sprintf("- Support: %s  Resistance: %s\n",
		common.FormatMoney(s.Technical.SupportLevel), common.FormatMoney(s.Technical.ResistanceLevel)))
	sb.WriteString(fmt.Sprintf("- 52-Week Range: %s - %s\n",
		common.FormatMoney(s.Price.Low52Week), common.FormatMoney(s.Price.High52Week)))
	sb.WriteString(fmt.Sprintf("- SMA20/SMA50 Crossover: %s  SMA50/SMA200 Crossover: %s\n",
		s.Technical.SMA20CrossSMA50, s.Technical.SMA50CrossSMA200))

	if len(s.RiskFlags) > 0 {
		sb.WriteString(fmt.Sprintf("- Risk Flags: %s\n", strings.Join(s.RiskFlags, ", ")))
	}

	return sb.String()
}

func formatPctOrNA(v float64) string {
	if v == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
