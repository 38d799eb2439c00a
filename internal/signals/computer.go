// Package signals provides signal computation
package signals

import (
	"strings"
	"time"

	"github.com/dandev947366/stock-analysis-agent/internal/models"
)

// Standard indicator windows used by the analysis pipeline
const (
	RSIPeriod        = 14
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
	BollingerPeriod  = 20
	BollingerWidth   = 2.0
	ATRPeriod        = 14
	VolumePeriod     = 20
	SupportLookback  = 60
)

// Computer computes all signals for a ticker
type Computer struct{}

// NewComputer creates a new signal computer
func NewComputer() *Computer {
	return &Computer{}
}

// Compute calculates all signals from market data
func (c *Computer) Compute(marketData *models.MarketData) *models.TickerSignals {
	if marketData == nil || len(marketData.EOD) == 0 {
		signals := &models.TickerSignals{
			ComputeTimestamp: time.Now(),
		}
		if marketData != nil {
			signals.Ticker = marketData.Ticker
		}
		return signals
	}

	bars := marketData.EOD
	currentPrice := bars[0].Close

	sma20 := SMA(bars, 20)
	sma50 := SMA(bars, 50)
	sma200 := SMA(bars, 200)

	var change, changePct float64
	if len(bars) > 1 && bars[1].Close != 0 {
		change = currentPrice - bars[1].Close
		changePct = (change / bars[1].Close) * 100
	}

	rsi := RSI(bars, RSIPeriod)
	macdLine, macdSignal, macdHist := MACD(bars, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
	bollUpper, bollMiddle, bollLower := Bollinger(bars, BollingerPeriod, BollingerWidth)
	atr := ATR(bars, ATRPeriod)
	avgVol := AverageVolume(bars, VolumePeriod)
	volRatio := VolumeRatio(bars, VolumePeriod)

	sma20Cross50 := DetectCrossover(bars, 20, 50)
	sma50Cross200 := DetectCrossover(bars, 50, 200)

	// Price vs SMA200 crossover
	var priceCross200 string
	if len(bars) > 1 && sma200 > 0 {
		if bars[1].Close <= sma200 && currentPrice > sma200 {
			priceCross200 = "crossing_up"
		} else if bars[1].Close >= sma200 && currentPrice < sma200 {
			priceCross200 = "crossing_down"
		} else if currentPrice > sma200 {
			priceCross200 = "above"
		} else {
			priceCross200 = "below"
		}
	}

	support, resistance := DetectSupportResistance(bars, SupportLookback)
	nearSupport := support > 0 && currentPrice <= support*1.02
	nearResistance := resistance > 0 && currentPrice >= resistance*0.98

	var macdCrossover string
	if macdHist > 0 && macdLine > 0 {
		macdCrossover = "bullish"
	} else if macdHist < 0 && macdLine < 0 {
		macdCrossover = "bearish"
	} else {
		macdCrossover = "none"
	}

	trend := DetermineTrend(currentPrice, sma20, sma50, sma200)
	trendDesc := TrendDescription(trend, sma20Cross50)

	var atrPct float64
	if currentPrice != 0 {
		atrPct = (atr / currentPrice) * 100
	}

	signals := &models.TickerSignals{
		Ticker:           marketData.Ticker,
		ComputeTimestamp: time.Now(),

		Price: models.PriceSignals{
			Current:          currentPrice,
			Change:           change,
			ChangePct:        changePct,
			SMA20:            sma20,
			SMA50:            sma50,
			SMA200:           sma200,
			DistanceToSMA20:  DistanceToSMA(currentPrice, sma20),
			DistanceToSMA50:  DistanceToSMA(currentPrice, sma50),
			DistanceToSMA200: DistanceToSMA(currentPrice, sma200),
			High52Week:       High52Week(bars),
			Low52Week:        Low52Week(bars),
		},

		Technical: models.TechnicalSignals{
			RSI:              rsi,
			RSISignal:        ClassifyRSI(rsi),
			MACD:             macdLine,
			MACDSignal:       macdSignal,
			MACDHistogram:    macdHist,
			MACDCrossover:    macdCrossover,
			BollingerUpper:   bollUpper,
			BollingerMiddle:  bollMiddle,
			BollingerLower:   bollLower,
			BollingerPos:     ClassifyBollinger(currentPrice, bollUpper, bollMiddle, bollLower),
			ATR:              atr,
			ATRPct:           atrPct,
			AvgVolume:        avgVol,
			VolumeRatio:      volRatio,
			VolumeSignal:     ClassifyVolume(volRatio),
			SMA20CrossSMA50:  sma20Cross50,
			SMA50CrossSMA200: sma50Cross200,
			PriceCrossSMA200: priceCross200,
			NearSupport:      nearSupport,
			NearResistance:   nearResistance,
			SupportLevel:     support,
			ResistanceLevel:  resistance,
		},

		Trend:            trend,
		TrendDescription: trendDesc,
	}

	c.detectRiskFlags(signals, marketData)

	return signals
}

// detectRiskFlags identifies potential risk factors
func (c *Computer) detectRiskFlags(signals *models.TickerSignals, data *models.MarketData) {
	var flags []string

	if signals.Technical.ATRPct > 5 {
		flags = append(flags, "high_volatility")
	}

	if signals.Technical.RSI > 80 {
		flags = append(flags, "extremely_overbought")
	} else if signals.Technical.RSI < 20 {
		flags = append(flags, "extremely_oversold")
	}

	if signals.Technical.AvgVolume > 0 && signals.Technical.AvgVolume < 100000 {
		flags = append(flags, "low_liquidity")
	}

	if signals.Price.DistanceToSMA200 > 30 || signals.Price.DistanceToSMA200 < -30 {
		flags = append(flags, "extended_from_mean")
	}

	if signals.Technical.SMA20CrossSMA50 == "death_cross" {
		flags = append(flags, "recent_death_cross")
	}

	if data.Fundamentals != nil {
		if data.Fundamentals.PE < 0 {
			flags = append(flags, "negative_earnings")
		} else if data.Fundamentals.PE > 50 {
			flags = append(flags, "high_valuation")
		}
	}

	signals.RiskFlags = flags
	if len(flags) > 0 {
		signals.RiskDescription = "Risk factors: " + strings.Join(flags, ", ")
	}
}

// Summarize condenses an EOD series into the aggregates the technical
// prompt presents as the price data summary.
func Summarize(bars []models.EODBar) models.PriceSummary {
	if len(bars) == 0 {
		return models.PriceSummary{}
	}

	summary := models.PriceSummary{
		Bars:  len(bars),
		From:  bars[len(bars)-1].Date,
		To:    bars[0].Date,
		Open:  bars[len(bars)-1].Open,
		Close: bars[0].Close,
		High:  bars[0].High,
		Low:   bars[0].Low,
	}

	var closeSum float64
	var volSum int64
	for _, b := range bars {
		if b.High > summary.High {
			summary.High = b.High
		}
		if b.Low < summary.Low {
			summary.Low = b.Low
		}
		closeSum += b.Close
		volSum += b.Volume
	}
	summary.MeanClose = closeSum / float64(len(bars))
	summary.MeanVolume = volSum / int64(len(bars))

	return summary
}
