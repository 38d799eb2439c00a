// Package models defines data structures for the stock analysis agent
package models

import (
	"time"
)

// RealTimeQuote holds a delayed OHLCV snapshot from the real-time endpoint
type RealTimeQuote struct {
	Code          string    `json:"code"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`          // current/last price
	PreviousClose float64   `json:"previous_close"` // previous day's close
	Change        float64   `json:"change"`         // absolute change from previous close
	ChangePct     float64   `json:"change_p"`       // percentage change from previous close
	Volume        int64     `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
}

// MarketData holds all cached market data for a ticker
type MarketData struct {
	Ticker       string        `json:"ticker"`
	Exchange     string        `json:"exchange"`
	Name         string        `json:"name"`
	EOD          []EODBar      `json:"eod"`
	Fundamentals *Fundamentals `json:"fundamentals,omitempty"`
	News         []*NewsItem   `json:"news,omitempty"`
	Quote        *RealTimeQuote `json:"quote,omitempty"`
	LastUpdated  time.Time     `json:"last_updated"`
	// Per-component freshness timestamps
	EODUpdatedAt          time.Time `json:"eod_updated_at"`
	FundamentalsUpdatedAt time.Time `json:"fundamentals_updated_at"`
	NewsUpdatedAt         time.Time `json:"news_updated_at"`
	QuoteUpdatedAt        time.Time `json:"quote_updated_at"`
}

// EODBar represents a single day's price data
type EODBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adjusted_close"`
	Volume   int64     `json:"volume"`
}

// Fundamentals contains fundamental data for a stock
type Fundamentals struct {
	Ticker            string    `json:"ticker"`
	Name              string    `json:"name"`
	MarketCap         float64   `json:"market_cap"`
	PE                float64   `json:"pe_ratio"`
	ForwardPE         float64   `json:"forward_pe"`
	PEG               float64   `json:"peg_ratio"`
	PS                float64   `json:"ps_ratio"`
	PB                float64   `json:"pb_ratio"`
	EVToEBITDA        float64   `json:"ev_to_ebitda"`
	EPS               float64   `json:"eps"`
	DividendYield     float64   `json:"dividend_yield"`
	Beta              float64   `json:"beta"`
	RevenueGrowthYoY  float64   `json:"revenue_growth_yoy"`
	EarningsGrowthYoY float64   `json:"earnings_growth_yoy"`
	GrossMargin       float64   `json:"gross_margin"`
	OperatingMargin   float64   `json:"operating_margin"`
	ProfitMargin      float64   `json:"profit_margin"`
	ROE               float64   `json:"roe"`
	ROA               float64   `json:"roa"`
	CurrentRatio      float64   `json:"current_ratio"`
	QuickRatio        float64   `json:"quick_ratio"`
	DebtToEquity      float64   `json:"debt_to_equity"`
	EBIT              float64   `json:"ebit"`
	InterestExpense   float64   `json:"interest_expense"`
	SharesOutstanding int64     `json:"shares_outstanding"`
	Sector            string    `json:"sector"`
	Industry          string    `json:"industry"`
	Description       string    `json:"description,omitempty"`
	WebURL            string    `json:"web_url,omitempty"`
	High52Week        float64   `json:"high_52_week"`
	Low52Week         float64   `json:"low_52_week"`
	LastUpdated       time.Time `json:"last_updated"`
}

// NewsItem represents a news article
type NewsItem struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Sentiment   string    `json:"sentiment,omitempty"` // positive, negative, neutral
}

// EODResponse represents the EODHD EOD API response
type EODResponse struct {
	Data []EODBar `json:"data"`
}

// PriceSummary condenses an EOD series into the aggregates the technical
// prompt needs (count, range, mean close, mean volume).
type PriceSummary struct {
	Bars       int       `json:"bars"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	Open       float64   `json:"open"`
	Close      float64   `json:"close"`
	High       float64   `json:"high"`
	Low        float64   `json:"low"`
	MeanClose  float64   `json:"mean_close"`
	MeanVolume int64     `json:"mean_volume"`
}
