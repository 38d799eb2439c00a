// Package charts renders price chart PNGs for analysis reports
package charts

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/dandev947366/stock-analysis-agent/internal/models"
)

// maxChartBars limits the chart to roughly one year of trading days
const maxChartBars = 252

// RenderPriceChart renders a close-price line chart with 50 and 200 day
// SMA overlays and writes it to path as a PNG.
func RenderPriceChart(data *models.MarketData, path string) error {
	png, err := renderPriceChart(data)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, png, 0644); err != nil {
		return fmt.Errorf("failed to write chart %s: %w", path, err)
	}
	return nil
}

func renderPriceChart(data *models.MarketData) ([]byte, error) {
	if data == nil || len(data.EOD) < 2 {
		return nil, fmt.Errorf("need at least 2 bars to chart")
	}

	bars := data.EOD
	n := len(bars)
	if n > maxChartBars {
		n = maxChartBars
	}

	// Chart series run oldest to newest
	xValues := make([]time.Time, n)
	closeY := make([]float64, n)
	sma50Y := make([]float64, n)
	sma200Y := make([]float64, n)

	for i := 0; i < n; i++ {
		bar := bars[n-1-i]
		xValues[i] = bar.Date
		closeY[i] = bar.Close
		sma50Y[i] = trailingSMA(bars, n-1-i, 50)
		sma200Y[i] = trailingSMA(bars, n-1-i, 200)
	}

	closeSeries := chart.TimeSeries{
		Name: "Close",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.0,
		},
		XValues: xValues,
		YValues: closeY,
	}

	sma50Series := chart.TimeSeries{
		Name: "SMA 50",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("f59e0b"), // amber-500
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: sma50Y,
	}

	sma200Series := chart.TimeSeries{
		Name: "SMA 200",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: sma200Y,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s Daily Close", data.Ticker),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			closeSeries,
			sma50Series,
			sma200Series,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// trailingSMA averages period closes starting at index (descending series).
// A short tail repeats the earliest available average so overlay series
// stay the same length as the close series.
func trailingSMA(bars []models.EODBar, index, period int) float64 {
	end := index + period
	if end > len(bars) {
		end = len(bars)
	}
	if end <= index {
		return bars[index].Close
	}

	sum := 0.0
	for i := index; i < end; i++ {
		sum += bars[i].Close
	}
	return sum / float64(end-index)
}
