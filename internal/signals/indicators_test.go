package signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dandev947366/stock-analysis-agent/internal/models"
)

// generateBars creates bars from close prices, most recent first
func generateBars(closes []float64) []models.EODBar {
	bars := make([]models.EODBar, len(closes))
	for i, c := range closes {
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

// generateTrendBars creates a linear price trend, most recent first.
// slope is the per-day price change; positive means uptrend.
func generateTrendBars(start, slope float64, count int) []models.EODBar {
	closes := make([]float64, count)
	for i := 0; i < count; i++ {
		closes[i] = start + slope*float64(count-1-i)
	}
	return generateBars(closes)
}

func TestSMA(t *testing.T) {
	tests := []struct {
		name     string
		bars     []models.EODBar
		period   int
		expected float64
	}{
		{
			name:     "simple 3-day SMA",
			bars:     generateBars([]float64{10, 20, 30}),
			period:   3,
			expected: 20.0,
		},
		{
			name:     "5-day SMA",
			bars:     generateBars([]float64{10, 20, 30, 40, 50}),
			period:   5,
			expected: 30.0,
		},
		{
			name:     "uses most recent bars only",
			bars:     generateBars([]float64{10, 20, 30, 100, 100}),
			period:   3,
			expected: 20.0,
		},
		{
			name:     "insufficient data",
			bars:     generateBars([]float64{10, 20}),
			period:   5,
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SMA(tt.bars, tt.period)
			assert.InDelta(t, tt.expected, result, 0.01)
		})
	}
}

func TestEMA(t *testing.T) {
	t.Run("constant series equals the constant", func(t *testing.T) {
		bars := generateBars([]float64{50, 50, 50, 50, 50, 50, 50, 50, 50, 50})
		assert.InDelta(t, 50.0, EMA(bars, 5), 0.01)
	})

	t.Run("reacts faster than SMA to a recent jump", func(t *testing.T) {
		closes := make([]float64, 21)
		for i := range closes {
			closes[i] = 100
		}
		closes[0] = 200
		bars := generateBars(closes)
		assert.Greater(t, EMA(bars, 10), SMA(bars, 10))
	})

	t.Run("insufficient data", func(t *testing.T) {
		bars := generateBars([]float64{10, 20})
		assert.Equal(t, 0.0, EMA(bars, 5))
	})
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name   string
		bars   []models.EODBar
		period int
		minRSI float64
		maxRSI float64
	}{
		{
			name:   "uptrend should have high RSI",
			bars:   generateTrendBars(50, 1.0, 20),
			period: 14,
			minRSI: 60,
			maxRSI: 100,
		},
		{
			name:   "downtrend should have low RSI",
			bars:   generateTrendBars(50, -1.0, 20),
			period: 14,
			minRSI: 0,
			maxRSI: 40,
		},
		{
			name:   "insufficient data returns neutral",
			bars:   generateBars([]float64{10, 20}),
			period: 14,
			minRSI: 50,
			maxRSI: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RSI(tt.bars, tt.period)
			assert.GreaterOrEqual(t, result, tt.minRSI)
			assert.LessOrEqual(t, result, tt.maxRSI)
		})
	}
}

func TestRSIAllGains(t *testing.T) {
	// Monotonic rise with no down days pegs RSI at 100
	bars := generateTrendBars(10, 0.5, 20)
	assert.InDelta(t, 100.0, RSI(bars, 14), 0.01)
}

func TestMACD(t *testing.T) {
	t.Run("uptrend produces positive MACD", func(t *testing.T) {
		bars := generateTrendBars(100, 1.0, 60)
		macd, signal, hist := MACD(bars, 12, 26, 9)
		assert.Greater(t, macd, 0.0)
		assert.Greater(t, signal, 0.0)
		assert.InDelta(t, macd-signal, hist, 0.0001)
	})

	t.Run("downtrend produces negative MACD", func(t *testing.T) {
		bars := generateTrendBars(200, -1.0, 60)
		macd, _, _ := MACD(bars, 12, 26, 9)
		assert.Less(t, macd, 0.0)
	})

	t.Run("flat series produces zero MACD", func(t *testing.T) {
		closes := make([]float64, 60)
		for i := range closes {
			closes[i] = 75
		}
		macd, signal, hist := MACD(generateBars(closes), 12, 26, 9)
		assert.InDelta(t, 0.0, macd, 0.001)
		assert.InDelta(t, 0.0, signal, 0.001)
		assert.InDelta(t, 0.0, hist, 0.001)
	})

	t.Run("insufficient data", func(t *testing.T) {
		bars := generateBars([]float64{10, 20, 30})
		macd, signal, hist := MACD(bars, 12, 26, 9)
		assert.Zero(t, macd)
		assert.Zero(t, signal)
		assert.Zero(t, hist)
	})
}

func TestStdDev(t *testing.T) {
	t.Run("constant series has zero deviation", func(t *testing.T) {
		bars := generateBars([]float64{10, 10, 10, 10})
		assert.InDelta(t, 0.0, StdDev(bars, 4), 0.0001)
	})

	t.Run("known values", func(t *testing.T) {
		// closes 2,4,4,4,5,5,7,9: population stddev = 2
		bars := generateBars([]float64{2, 4, 4, 4, 5, 5, 7, 9})
		assert.InDelta(t, 2.0, StdDev(bars, 8), 0.0001)
	})
}

func TestBollinger(t *testing.T) {
	t.Run("bands bracket the SMA", func(t *testing.T) {
		bars := generateTrendBars(100, 0.5, 30)
		upper, middle, lower := Bollinger(bars, 20, 2.0)
		assert.InDelta(t, SMA(bars, 20), middle, 0.0001)
		assert.Greater(t, upper, middle)
		assert.Less(t, lower, middle)
		assert.InDelta(t, upper-middle, middle-lower, 0.0001)
	})

	t.Run("constant series collapses bands onto the SMA", func(t *testing.T) {
		bars := generateBars([]float64{50, 50, 50, 50, 50, 50, 50, 50, 50, 50,
			50, 50, 50, 50, 50, 50, 50, 50, 50, 50})
		upper, middle, lower := Bollinger(bars, 20, 2.0)
		assert.InDelta(t, 50.0, upper, 0.0001)
		assert.InDelta(t, 50.0, middle, 0.0001)
		assert.InDelta(t, 50.0, lower, 0.0001)
	})

	t.Run("insufficient data", func(t *testing.T) {
		upper, middle, lower := Bollinger(generateBars([]float64{10}), 20, 2.0)
		assert.Zero(t, upper)
		assert.Zero(t, middle)
		assert.Zero(t, lower)
	})
}

func TestClassifyBollinger(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		expected string
	}{
		{"above upper band", 115, "above"},
		{"upper half", 105, "upper_half"},
		{"at middle", 100, "upper_half"},
		{"lower half", 95, "lower_half"},
		{"below lower band", 85, "below"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyBollinger(tt.price, 110, 100, 90)
			assert.Equal(t, tt.expected, result)
		})
	}

	t.Run("unknown when bands are zero", func(t *testing.T) {
		assert.Equal(t, "unknown", ClassifyBollinger(100, 0, 0, 0))
	})
}

func TestATR(t *testing.T) {
	t.Run("positive for any real series", func(t *testing.T) {
		bars := generateTrendBars(100, 1.0, 20)
		assert.Greater(t, ATR(bars, 14), 0.0)
	})

	t.Run("insufficient data", func(t *testing.T) {
		assert.Zero(t, ATR(generateBars([]float64{10, 20}), 14))
	})
}

func TestVolumeRatio(t *testing.T) {
	bars := generateBars([]float64{10, 10, 10, 10, 10})
	bars[0].Volume = 3000000 // 3x the 1M average

	ratio := VolumeRatio(bars, 5)
	assert.InDelta(t, 2.14, ratio, 0.01) // 3M / ((3M+4M)/5)

	assert.Equal(t, 1.0, VolumeRatio(nil, 5))
}

func TestHighLow52Week(t *testing.T) {
	bars := generateBars([]float64{50, 60, 40, 55})
	assert.InDelta(t, 60*1.01, High52Week(bars), 0.01)
	assert.InDelta(t, 40*0.99, Low52Week(bars), 0.01)

	assert.Zero(t, High52Week(nil))
	assert.Zero(t, Low52Week(nil))
}

func TestDetectCrossover(t *testing.T) {
	t.Run("golden cross", func(t *testing.T) {
		// Yesterday short SMA <= long SMA, today short > long:
		// a sharp jump on the most recent bar
		closes := []float64{30, 10, 10, 10, 10, 10, 10, 10}
		result := DetectCrossover(generateBars(closes), 2, 4)
		assert.Equal(t, "golden_cross", result)
	})

	t.Run("death cross", func(t *testing.T) {
		closes := []float64{1, 20, 20, 20, 20, 20, 20, 20}
		result := DetectCrossover(generateBars(closes), 2, 4)
		assert.Equal(t, "death_cross", result)
	})

	t.Run("none on flat series", func(t *testing.T) {
		closes := []float64{10, 10, 10, 10, 10, 10, 10, 10}
		assert.Equal(t, "none", DetectCrossover(generateBars(closes), 2, 4))
	})

	t.Run("insufficient data", func(t *testing.T) {
		assert.Equal(t, "none", DetectCrossover(generateBars([]float64{10, 20}), 2, 4))
	})
}

func TestClassifyRSI(t *testing.T) {
	tests := []struct {
		rsi      float64
		expected string
	}{
		{75, "overbought"},
		{70, "overbought"},
		{50, "neutral"},
		{30, "oversold"},
		{25, "oversold"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := ClassifyRSI(tt.rsi)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestClassifyVolume(t *testing.T) {
	assert.Equal(t, "spike", ClassifyVolume(2.5))
	assert.Equal(t, "low", ClassifyVolume(0.3))
	assert.Equal(t, "normal", ClassifyVolume(1.0))
}

func TestDistanceToSMA(t *testing.T) {
	assert.InDelta(t, 10.0, DistanceToSMA(110, 100), 0.01)
	assert.InDelta(t, -10.0, DistanceToSMA(90, 100), 0.01)
	assert.Zero(t, DistanceToSMA(100, 0))
}

func TestDetermineTrend(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		sma20    float64
		sma50    float64
		sma200   float64
		expected models.TrendType
	}{
		{"bullish", 110, 105, 100, 95, models.TrendBullish},
		{"bearish", 80, 85, 90, 95, models.TrendBearish},
		{"neutral mixed", 110, 95, 100, 95, models.TrendNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetermineTrend(tt.price, tt.sma20, tt.sma50, tt.sma200)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDetectSupportResistance(t *testing.T) {
	bars := generateTrendBars(100, 1.0, 60)
	support, resistance := DetectSupportResistance(bars, 60)
	assert.Greater(t, resistance, support)

	s, r := DetectSupportResistance(nil, 60)
	assert.Zero(t, s)
	assert.Zero(t, r)
}
