// Package common provides shared utilities for the stock analysis agent
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the agent
type Config struct {
	Environment string         `toml:"environment"`
	Exchange    string         `toml:"exchange"` // default exchange suffix for bare tickers, e.g. "US"
	Storage     StorageConfig  `toml:"storage"`
	Output      OutputConfig   `toml:"output"`
	Clients     ClientsConfig  `toml:"clients"`
	Pipeline    PipelineConfig `toml:"pipeline"`
	Logging     LoggingConfig  `toml:"logging"`
}

// StorageConfig holds local cache configuration
type StorageConfig struct {
	Path string `toml:"path"`
}

// OutputConfig holds report output configuration
type OutputConfig struct {
	Dir    string `toml:"dir"`    // directory for markdown reports and charts
	Charts bool   `toml:"charts"` // render price chart PNG alongside reports
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	EODHD  EODHDConfig  `toml:"eodhd"`
	Gemini GeminiConfig `toml:"gemini"`
}

// EODHDConfig holds EODHD API configuration
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EODHDConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
}

// PipelineConfig holds prompt pipeline configuration
type PipelineConfig struct {
	StageTimeout string `toml:"stage_timeout"` // per-stage LLM call timeout
	MaxRetries   int    `toml:"max_retries"`   // retries per stage on transient failure
	RetryBackoff string `toml:"retry_backoff"` // initial backoff, doubled per attempt
}

// GetStageTimeout parses and returns the per-stage timeout
func (c *PipelineConfig) GetStageTimeout() time.Duration {
	d, err := time.ParseDuration(c.StageTimeout)
	if err != nil {
		return 2 * time.Minute
	}
	return d
}

// GetRetryBackoff parses and returns the initial retry backoff
func (c *PipelineConfig) GetRetryBackoff() time.Duration {
	d, err := time.ParseDuration(c.RetryBackoff)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Exchange:    "US",
		Storage: StorageConfig{
			Path: "data/cache",
		},
		Output: OutputConfig{
			Dir:    "reports",
			Charts: true,
		},
		Clients: ClientsConfig{
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
			Gemini: GeminiConfig{
				Model:       "gemini-2.0-flash",
				Temperature: 0.3,
			},
		},
		Pipeline: PipelineConfig{
			StageTimeout: "2m",
			MaxRetries:   2,
			RetryBackoff: "2s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("STOCKAGENT_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("STOCKAGENT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("STOCKAGENT_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if dir := os.Getenv("STOCKAGENT_OUTPUT_DIR"); dir != "" {
		config.Output.Dir = dir
	}

	if ex := os.Getenv("STOCKAGENT_EXCHANGE"); ex != "" {
		config.Exchange = strings.ToUpper(ex)
	}

	if model := os.Getenv("STOCKAGENT_GEMINI_MODEL"); model != "" {
		config.Clients.Gemini.Model = model
	}

	if retries := os.Getenv("STOCKAGENT_MAX_RETRIES"); retries != "" {
		if n, err := strconv.Atoi(retries); err == nil {
			config.Pipeline.MaxRetries = n
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves an API key from environment with config fallback
func ResolveAPIKey(name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"eodhd_api_key":  {"EODHD_API_KEY", "STOCKAGENT_EODHD_API_KEY"},
		"gemini_api_key": {"GEMINI_API_KEY", "STOCKAGENT_GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}

// NormalizeTicker upper-cases a ticker and appends the default exchange
// suffix when no exchange is present ("aapl" -> "AAPL.US").
func NormalizeTicker(ticker, defaultExchange string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		return ""
	}
	if !strings.Contains(t, ".") && defaultExchange != "" {
		t = t + "." + strings.ToUpper(defaultExchange)
	}
	return t
}
