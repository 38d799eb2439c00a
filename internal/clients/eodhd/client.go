// Package eodhd provides a client for the EODHD API
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dandev947366/stock-analysis-agent/internal/common"
	"github.com/dandev947366/stock-analysis-agent/internal/interfaces"
	"github.com/dandev947366/stock-analysis-agent/internal/models"
)

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		// ParseFloat accepts "NaN" and "Inf"; treat those like N/A so
		// non-finite values never enter the cached models
		num, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

const (
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements the MarketDataClient interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new EODHD client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("EODHD API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetEOD retrieves end-of-day price data
func (c *Client) GetEOD(ctx context.Context, ticker string, opts ...interfaces.EODOption) (*models.EODResponse, error) {
	params := &interfaces.EODParams{
		Period: "d",
		Order:  "d", // descending (most recent first)
	}

	for _, opt := range opts {
		opt(params)
	}

	urlParams := url.Values{}
	urlParams.Set("period", params.Period)
	urlParams.Set("order", params.Order)

	if !params.From.IsZero() {
		urlParams.Set("from", params.From.Format("2006-01-02"))
	}
	if !params.To.IsZero() {
		urlParams.Set("to", params.To.Format("2006-01-02"))
	}

	path := fmt.Sprintf("/eod/%s", ticker)

	var bars []eodBarResponse
	if err := c.get(ctx, path, urlParams, &bars); err != nil {
		return nil, err
	}

	result := &models.EODResponse{
		Data: make([]models.EODBar, len(bars)),
	}

	for i, bar := range bars {
		date, _ := time.Parse("2006-01-02", bar.Date)
		result.Data[i] = models.EODBar{
			Date:     date,
			Open:     bar.Open,
			High:     bar.High,
			Low:      bar.Low,
			Close:    bar.Close,
			AdjClose: bar.AdjustedClose,
			Volume:   bar.Volume,
		}
	}

	return result, nil
}

// eodBarResponse represents the API response for EOD data
type eodBarResponse struct {
	Date          string  `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	AdjustedClose float64 `json:"adjusted_close"`
	Volume        int64   `json:"volume"`
}

// GetFundamentals retrieves fundamental data
func (c *Client) GetFundamentals(ctx context.Context, ticker string) (*models.Fundamentals, error) {
	path := fmt.Sprintf("/fundamentals/%s", ticker)

	var resp fundamentalsResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	fundamentals := &models.Fundamentals{
		Ticker:            ticker,
		Name:              resp.General.Name,
		MarketCap:         resp.Highlights.MarketCapitalization,
		PE:                resp.Highlights.PERatio,
		ForwardPE:         float64(resp.Valuation.ForwardPE),
		PEG:               float64(resp.Highlights.PEGRatio),
		PS:                float64(resp.Valuation.PriceSalesTTM),
		PB:                float64(resp.Valuation.PriceBookMRQ),
		EVToEBITDA:        float64(resp.Valuation.EnterpriseValueEbitda),
		EPS:               resp.Highlights.EarningsShare,
		DividendYield:     resp.Highlights.DividendYield,
		Beta:              resp.Technicals.Beta,
		RevenueGrowthYoY:  float64(resp.Highlights.QuarterlyRevenueGrowthYOY),
		EarningsGrowthYoY: float64(resp.Highlights.QuarterlyEarningsGrowthYOY),
		GrossMargin:       float64(resp.Highlights.GrossProfitMargin),
		OperatingMargin:   float64(resp.Highlights.OperatingMarginTTM),
		ProfitMargin:      float64(resp.Highlights.ProfitMargin),
		ROE:               float64(resp.Highlights.ReturnOnEquityTTM),
		ROA:               float64(resp.Highlights.ReturnOnAssetsTTM),
		CurrentRatio:      float64(resp.Ratios.CurrentRatio),
		QuickRatio:        float64(resp.Ratios.QuickRatio),
		DebtToEquity:      float64(resp.Ratios.DebtToEquity),
		EBIT:              float64(resp.Highlights.EBITDA),
		SharesOutstanding: int64(resp.SharesStats.SharesOutstanding),
		Sector:            resp.General.Sector,
		Industry:          resp.General.Industry,
		Description:       resp.General.Description,
		WebURL:            resp.General.WebURL,
		High52Week:        resp.Technicals.High52Week,
		Low52Week:         resp.Technicals.Low52Week,
		LastUpdated:       time.Now(),
	}

	// Interest coverage needs the income statement; prefer its EBIT over
	// the Highlights EBITDA approximation when present
	if entry, ok := latestIncomeStatement(resp.Financials.IncomeStatement.Yearly); ok {
		fundamentals.InterestExpense = float64(entry.InterestExpense)
		if entry.EBIT != 0 {
			fundamentals.EBIT = float64(entry.EBIT)
		}
	}

	return fundamentals, nil
}

// fundamentalsResponse represents the API response structure
type fundamentalsResponse struct {
	General struct {
		Code        string `json:"Code"`
		Name        string `json:"Name"`
		Type        string `json:"Type"` // "Common Stock", "ETF", etc.
		Sector      string `json:"Sector"`
		Industry    string `json:"Industry"`
		Description string `json:"Description"`
		WebURL      string `json:"WebURL"`
	} `json:"General"`
	Highlights struct {
		MarketCapitalization       float64     `json:"MarketCapitalization"`
		PERatio                    float64     `json:"PERatio"`
		PEGRatio                   flexFloat64 `json:"PEGRatio"`
		EarningsShare              float64     `json:"EarningsShare"`
		DividendYield              float64     `json:"DividendYield"`
		EBITDA                     flexFloat64 `json:"EBITDA"`
		ProfitMargin               flexFloat64 `json:"ProfitMargin"`
		OperatingMarginTTM         flexFloat64 `json:"OperatingMarginTTM"`
		GrossProfitMargin          flexFloat64 `json:"GrossProfitMargin"`
		ReturnOnEquityTTM          flexFloat64 `json:"ReturnOnEquityTTM"`
		ReturnOnAssetsTTM          flexFloat64 `json:"ReturnOnAssetsTTM"`
		QuarterlyRevenueGrowthYOY  flexFloat64 `json:"QuarterlyRevenueGrowthYOY"`
		QuarterlyEarningsGrowthYOY flexFloat64 `json:"QuarterlyEarningsGrowthYOY"`
	} `json:"Highlights"`
	Valuation struct {
		ForwardPE             flexFloat64 `json:"ForwardPE"`
		PriceSalesTTM         flexFloat64 `json:"PriceSalesTTM"`
		PriceBookMRQ          flexFloat64 `json:"PriceBookMRQ"`
		EnterpriseValueEbitda flexFloat64 `json:"EnterpriseValueEbitda"`
	} `json:"Valuation"`
	SharesStats struct {
		SharesOutstanding float64 `json:"SharesOutstanding"`
	} `json:"SharesStats"`
	Technicals struct {
		Beta       float64 `json:"Beta"`
		High52Week float64 `json:"52WeekHigh"`
		Low52Week  float64 `json:"52WeekLow"`
	} `json:"Technicals"`
	Ratios struct {
		CurrentRatio flexFloat64 `json:"CurrentRatio"`
		QuickRatio   flexFloat64 `json:"QuickRatio"`
		DebtToEquity flexFloat64 `json:"DebtToEquity"`
	} `json:"Ratios"`
	Financials struct {
		IncomeStatement struct {
			Yearly map[string]incomeStatementEntry `json:"yearly"`
		} `json:"Income_Statement"`
	} `json:"Financials"`
}

// incomeStatementEntry holds the yearly income statement fields the
// coverage metrics need; all figures come back as strings.
type incomeStatementEntry struct {
	Date            string      `json:"date"`
	EBIT            flexFloat64 `json:"ebit"`
	InterestExpense flexFloat64 `json:"interestExpense"`
}

// latestIncomeStatement returns the most recent yearly entry. Map keys
// are ISO dates, so lexical order is chronological order.
func latestIncomeStatement(yearly map[string]incomeStatementEntry) (incomeStatementEntry, bool) {
	var latestKey string
	for key := range yearly {
		if key > latestKey {
			latestKey = key
		}
	}
	if latestKey == "" {
		return incomeStatementEntry{}, false
	}
	return yearly[latestKey], true
}

// GetNews retrieves news for a ticker
func (c *Client) GetNews(ctx context.Context, ticker string, limit int) ([]*models.NewsItem, error) {
	path := "/news"

	params := url.Values{}
	params.Set("s", ticker)
	params.Set("limit", strconv.Itoa(limit))

	var newsResp []newsResponse
	if err := c.get(ctx, path, params, &newsResp); err != nil {
		return nil, err
	}

	news := make([]*models.NewsItem, len(newsResp))
	for i, item := range newsResp {
		publishedAt, _ := time.Parse("2006-01-02T15:04:05+00:00", item.Date)
		news[i] = &models.NewsItem{
			Title:       item.Title,
			URL:         item.Link,
			Source:      item.Source,
			PublishedAt: publishedAt,
			Sentiment:   item.Sentiment.classify(),
		}
	}

	return news, nil
}

type newsSentiment struct {
	Polarity float64 `json:"polarity"`
	Neg      float64 `json:"neg"`
	Neu      float64 `json:"neu"`
	Pos      float64 `json:"pos"`
}

func (s newsSentiment) classify() string {
	if s.Polarity > 0.5 {
		return "positive"
	} else if s.Polarity < -0.5 {
		return "negative"
	}
	return "neutral"
}

type newsResponse struct {
	Date      string        `json:"date"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Link      string        `json:"link"`
	Source    string        `json:"source"`
	Sentiment newsSentiment `json:"sentiment"`
}

// GetRealTimeQuote retrieves a delayed real-time quote
func (c *Client) GetRealTimeQuote(ctx context.Context, ticker string) (*models.RealTimeQuote, error) {
	path := fmt.Sprintf("/real-time/%s", ticker)

	var resp quoteResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	quote := &models.RealTimeQuote{
		Code:          resp.Code,
		Open:          float64(resp.Open),
		High:          float64(resp.High),
		Low:           float64(resp.Low),
		Close:         float64(resp.Close),
		PreviousClose: float64(resp.PreviousClose),
		Change:        float64(resp.Change),
		ChangePct:     float64(resp.ChangePct),
		Volume:        resp.Volume,
		Timestamp:     time.Unix(resp.Timestamp, 0),
	}

	// Some symbols return "NA" strings across the board after hours
	if quote.Code == "" {
		quote.Code = strings.ToUpper(ticker)
	}

	return quote, nil
}

type quoteResponse struct {
	Code          string      `json:"code"`
	Timestamp     int64       `json:"timestamp"`
	Open          flexFloat64 `json:"open"`
	High          flexFloat64 `json:"high"`
	Low           flexFloat64 `json:"low"`
	Close         flexFloat64 `json:"close"`
	PreviousClose flexFloat64 `json:"previousClose"`
	Change        flexFloat64 `json:"change"`
	ChangePct     flexFloat64 `json:"change_p"`
	Volume        int64       `json:"volume"`
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
