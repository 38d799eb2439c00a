package models

// ValuationMetrics groups fundamental ratios the way the research prompt
// presents them. Zero values mean the provider had no figure; formatters
// render those as n/a.
type ValuationMetrics struct {
	Ticker          string          `json:"ticker"`
	Valuation       ValuationGroup  `json:"valuation"`
	Growth          GrowthGroup     `json:"growth"`
	Profitability   ProfitGroup     `json:"profitability"`
	FinancialHealth HealthGroup     `json:"financial_health"`
}

// ValuationGroup holds price-relative valuation ratios
type ValuationGroup struct {
	PERatio      float64 `json:"pe_ratio"`
	ForwardPE    float64 `json:"forward_pe"`
	PEGRatio     float64 `json:"peg_ratio"`
	PriceToSales float64 `json:"price_to_sales"`
	PriceToBook  float64 `json:"price_to_book"`
	EVToEBITDA   float64 `json:"ev_to_ebitda"`
}

// GrowthGroup holds year-over-year growth rates
type GrowthGroup struct {
	RevenueGrowth  float64 `json:"revenue_growth"`
	EarningsGrowth float64 `json:"earnings_growth"`
}

// ProfitGroup holds margin and return metrics
type ProfitGroup struct {
	GrossMargin     float64 `json:"gross_margin"`
	OperatingMargin float64 `json:"operating_margin"`
	ProfitMargin    float64 `json:"profit_margin"`
	ReturnOnEquity  float64 `json:"return_on_equity"`
	ReturnOnAssets  float64 `json:"return_on_assets"`
}

// HealthGroup holds liquidity and solvency ratios
type HealthGroup struct {
	CurrentRatio     float64 `json:"current_ratio"`
	QuickRatio       float64 `json:"quick_ratio"`
	DebtToEquity     float64 `json:"debt_to_equity"`
	InterestCoverage float64 `json:"interest_coverage"` // EBIT / interest expense; 0 when unknown
}

// NewValuationMetrics derives the grouped metrics from provider fundamentals.
func NewValuationMetrics(f *Fundamentals) *ValuationMetrics {
	if f == nil {
		return &ValuationMetrics{}
	}

	m := &ValuationMetrics{
		Ticker: f.Ticker,
		Valuation: ValuationGroup{
			PERatio:      f.PE,
			ForwardPE:    f.ForwardPE,
			PEGRatio:     f.PEG,
			PriceToSales: f.PS,
			PriceToBook:  f.PB,
			EVToEBITDA:   f.EVToEBITDA,
		},
		Growth: GrowthGroup{
			RevenueGrowth:  f.RevenueGrowthYoY,
			EarningsGrowth: f.EarningsGrowthYoY,
		},
		Profitability: ProfitGroup{
			GrossMargin:     f.GrossMargin,
			OperatingMargin: f.OperatingMargin,
			ProfitMargin:    f.ProfitMargin,
			ReturnOnEquity:  f.ROE,
			ReturnOnAssets:  f.ROA,
		},
		FinancialHealth: HealthGroup{
			CurrentRatio: f.CurrentRatio,
			QuickRatio:   f.QuickRatio,
			DebtToEquity: f.DebtToEquity,
		},
	}

	// Interest coverage is only meaningful with a real interest expense
	if f.InterestExpense != 0 {
		m.FinancialHealth.InterestCoverage = f.EBIT / f.InterestExpense
	}

	return m
}
