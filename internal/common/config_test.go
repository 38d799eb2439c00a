package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "US", config.Exchange)
	assert.Equal(t, "data/cache", config.Storage.Path)
	assert.Equal(t, "reports", config.Output.Dir)
	assert.True(t, config.Output.Charts)
	assert.Equal(t, "https://eodhd.com/api", config.Clients.EODHD.BaseURL)
	assert.Equal(t, 10, config.Clients.EODHD.RateLimit)
	assert.Equal(t, 30*time.Second, config.Clients.EODHD.GetTimeout())
	assert.Equal(t, "gemini-2.0-flash", config.Clients.Gemini.Model)
	assert.InDelta(t, 0.3, config.Clients.Gemini.Temperature, 0.001)
	assert.Equal(t, 2*time.Minute, config.Pipeline.GetStageTimeout())
	assert.Equal(t, 2, config.Pipeline.MaxRetries)
	assert.Equal(t, 2*time.Second, config.Pipeline.GetRetryBackoff())
	assert.Equal(t, "info", config.Logging.Level)
}

func TestLoadConfigMissingFile(t *testing.T) {
	config, err := LoadConfig("/nonexistent/stockagent.toml")
	require.NoError(t, err)
	assert.Equal(t, "development", config.Environment)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stockagent.toml")

	content := `
environment = "production"
exchange = "au"

[storage]
path = "/var/lib/stockagent"

[clients.eodhd]
rate_limit = 5
timeout = "10s"

[clients.gemini]
model = "gemini-1.5-pro"

[pipeline]
stage_timeout = "90s"
max_retries = 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.True(t, config.IsProduction())
	assert.Equal(t, "au", config.Exchange)
	assert.Equal(t, "/var/lib/stockagent", config.Storage.Path)
	assert.Equal(t, 5, config.Clients.EODHD.RateLimit)
	assert.Equal(t, 10*time.Second, config.Clients.EODHD.GetTimeout())
	assert.Equal(t, "gemini-1.5-pro", config.Clients.Gemini.Model)
	assert.Equal(t, 90*time.Second, config.Pipeline.GetStageTimeout())
	assert.Equal(t, 4, config.Pipeline.MaxRetries)

	// Values not present in the file keep defaults
	assert.Equal(t, "https://eodhd.com/api", config.Clients.EODHD.BaseURL)
	assert.Equal(t, "reports", config.Output.Dir)
}

func TestLoadConfigMergeOrder(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	override := filepath.Join(dir, "override.toml")

	require.NoError(t, os.WriteFile(base, []byte(`environment = "staging"`), 0644))
	require.NoError(t, os.WriteFile(override, []byte(`environment = "production"`), 0644))

	config, err := LoadConfig(base, override)
	require.NoError(t, err)
	assert.Equal(t, "production", config.Environment)
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STOCKAGENT_ENV", "production")
	t.Setenv("STOCKAGENT_LOG_LEVEL", "debug")
	t.Setenv("STOCKAGENT_EXCHANGE", "lse")
	t.Setenv("STOCKAGENT_OUTPUT_DIR", "/tmp/reports")
	t.Setenv("STOCKAGENT_MAX_RETRIES", "7")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "LSE", config.Exchange)
	assert.Equal(t, "/tmp/reports", config.Output.Dir)
	assert.Equal(t, 7, config.Pipeline.MaxRetries)
}

func TestResolveAPIKey(t *testing.T) {
	t.Run("from environment", func(t *testing.T) {
		t.Setenv("EODHD_API_KEY", "env-key")
		key, err := ResolveAPIKey("eodhd_api_key", "config-key")
		require.NoError(t, err)
		assert.Equal(t, "env-key", key)
	})

	t.Run("gemini accepts GOOGLE_API_KEY", func(t *testing.T) {
		t.Setenv("GOOGLE_API_KEY", "google-key")
		key, err := ResolveAPIKey("gemini_api_key", "")
		require.NoError(t, err)
		assert.Equal(t, "google-key", key)
	})

	t.Run("config fallback", func(t *testing.T) {
		t.Setenv("EODHD_API_KEY", "")
		t.Setenv("STOCKAGENT_EODHD_API_KEY", "")
		key, err := ResolveAPIKey("eodhd_api_key", "config-key")
		require.NoError(t, err)
		assert.Equal(t, "config-key", key)
	})

	t.Run("missing everywhere", func(t *testing.T) {
		t.Setenv("EODHD_API_KEY", "")
		t.Setenv("STOCKAGENT_EODHD_API_KEY", "")
		_, err := ResolveAPIKey("eodhd_api_key", "")
		assert.Error(t, err)
	})
}

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		name     string
		ticker   string
		exchange string
		expected string
	}{
		{"bare ticker gets suffix", "aapl", "US", "AAPL.US"},
		{"existing suffix kept", "bhp.au", "US", "BHP.AU"},
		{"whitespace trimmed", "  msft ", "US", "MSFT.US"},
		{"empty ticker", "", "US", ""},
		{"no default exchange", "tsla", "", "TSLA"},
		{"lowercase exchange upper-cased", "wes", "au", "WES.AU"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTicker(tt.ticker, tt.exchange))
		})
	}
}
