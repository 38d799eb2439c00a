package charts

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dandev947366/stock-analysis-agent/internal/models"
)

func chartBars(count int) []models.EODBar {
	bars := make([]models.EODBar, count)
	for i := 0; i < count; i++ {
		c := 100 + 0.3*float64(count-1-i)
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

func TestRenderPriceChart(t *testing.T) {
	data := &models.MarketData{Ticker: "AAPL.US", EOD: chartBars(300)}
	path := filepath.Join(t.TempDir(), "aapl_us.png")

	require.NoError(t, RenderPriceChart(data, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, content)
	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, content[:4])
}

func TestRenderPriceChartTooFewBars(t *testing.T) {
	data := &models.MarketData{Ticker: "XYZ.US", EOD: chartBars(1)}
	err := RenderPriceChart(data, filepath.Join(t.TempDir(), "xyz.png"))
	assert.Error(t, err)

	err = RenderPriceChart(nil, filepath.Join(t.TempDir(), "nil.png"))
	assert.Error(t, err)
}

func TestTrailingSMA(t *testing.T) {
	bars := chartBars(100)

	// Full window average matches a hand computation
	sum := 0.0
	for i := 10; i < 30; i++ {
		sum += bars[i].Close
	}
	assert.InDelta(t, sum/20, trailingSMA(bars, 10, 20), 0.0001)

	// Short tail averages whatever remains
	assert.InDelta(t, bars[99].Close, trailingSMA(bars, 99, 20), 0.0001)
}
