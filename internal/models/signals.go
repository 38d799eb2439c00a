package models

import "time"

// TrendType classifies the overall price trend
type TrendType string

const (
	TrendBullish TrendType = "bullish"
	TrendBearish TrendType = "bearish"
	TrendNeutral TrendType = "neutral"
)

// TickerSignals holds all computed technical signals for a ticker
type TickerSignals struct {
	Ticker           string    `json:"ticker"`
	ComputeTimestamp time.Time `json:"compute_timestamp"`

	Price     PriceSignals     `json:"price"`
	Technical TechnicalSignals `json:"technical"`

	Trend            TrendType `json:"trend"`
	TrendDescription string    `json:"trend_description"`

	RiskFlags       []string `json:"risk_flags,omitempty"`
	RiskDescription string   `json:"risk_description,omitempty"`
}

// PriceSignals holds price and moving average signals
type PriceSignals struct {
	Current          float64 `json:"current"`
	Change           float64 `json:"change"`
	ChangePct        float64 `json:"change_pct"`
	SMA20            float64 `json:"sma_20"`
	SMA50            float64 `json:"sma_50"`
	SMA200           float64 `json:"sma_200"`
	DistanceToSMA20  float64 `json:"distance_to_sma_20"`
	DistanceToSMA50  float64 `json:"distance_to_sma_50"`
	DistanceToSMA200 float64 `json:"distance_to_sma_200"`
	High52Week       float64 `json:"high_52_week"`
	Low52Week        float64 `json:"low_52_week"`
}

// TechnicalSignals holds momentum, volatility and volume signals
type TechnicalSignals struct {
	RSI           float64 `json:"rsi"`
	RSISignal     string  `json:"rsi_signal"` // overbought, oversold, neutral
	MACD          float64 `json:"macd"`
	MACDSignal    float64 `json:"macd_signal"`
	MACDHistogram float64 `json:"macd_histogram"`
	MACDCrossover string  `json:"macd_crossover"` // bullish, bearish, none

	BollingerUpper  float64 `json:"bollinger_upper"`
	BollingerMiddle float64 `json:"bollinger_middle"`
	BollingerLower  float64 `json:"bollinger_lower"`
	BollingerPos    string  `json:"bollinger_position"` // above, upper_half, lower_half, below

	ATR    float64 `json:"atr"`
	ATRPct float64 `json:"atr_pct"`

	AvgVolume    int64   `json:"avg_volume"`
	VolumeRatio  float64 `json:"volume_ratio"`
	VolumeSignal string  `json:"volume_signal"` // spike, low, normal

	SMA20CrossSMA50  string `json:"sma20_cross_sma50"`  // golden_cross, death_cross, none
	SMA50CrossSMA200 string `json:"sma50_cross_sma200"` // golden_cross, death_cross, none
	PriceCrossSMA200 string `json:"price_cross_sma200"` // crossing_up, crossing_down, above, below

	NearSupport     bool    `json:"near_support"`
	NearResistance  bool    `json:"near_resistance"`
	SupportLevel    float64 `json:"support_level"`
	ResistanceLevel float64 `json:"resistance_level"`
}
