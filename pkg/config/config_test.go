package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://api.hikerapi.com", cfg.API.BaseURL)
	assert.Empty(t, cfg.API.AccessKey)
	assert.Equal(t, 25*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 12, cfg.Crawl.Limit)
	assert.Equal(t, 3, cfg.Crawl.MaxPages)
	assert.Equal(t, 12, cfg.Crawl.PageSize)
	assert.Equal(t, 8, cfg.Enrich.MaxWorkers)
	assert.Equal(t, 3, cfg.Download.ConcurrentDownloads)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
api:
  base_url: https://proxy.example.com
  access_key: file-key
  request_timeout: 10s
rate_limit:
  requests_per_minute: 30
crawl:
  limit: 5
enrich:
  max_workers: 4
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "https://proxy.example.com", cfg.API.BaseURL)
	assert.Equal(t, "file-key", cfg.API.AccessKey)
	assert.Equal(t, 10*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 5, cfg.Crawl.Limit)
	assert.Equal(t, 3, cfg.Crawl.MaxPages, "untouched fields keep their defaults")
	assert.Equal(t, 4, cfg.Enrich.MaxWorkers)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [not a mapping"), 0o644))

	cfg := DefaultConfig()
	err := cfg.LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("IGSTATS_ACCESS_KEY", "env-key")
	t.Setenv("IGSTATS_API_BASE_URL", "https://env.example.com")
	t.Setenv("IGSTATS_REQUESTS_PER_MINUTE", "90")
	t.Setenv("IGSTATS_MAX_WORKERS", "16")
	t.Setenv("IGSTATS_OUTPUT_DIR", "/tmp/assets")
	t.Setenv("IGSTATS_LOG_LEVEL", "warn")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	assert.Equal(t, "env-key", cfg.API.AccessKey)
	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
	assert.Equal(t, 90, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 16, cfg.Enrich.MaxWorkers)
	assert.Equal(t, "/tmp/assets", cfg.Download.OutputDirectory)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromEnvAccessKeyAliases(t *testing.T) {
	t.Setenv("IGSTATS_ACCESS_KEY", "")
	t.Setenv("HIKERAPI_TOKEN", "token-from-alias")
	t.Setenv("HIKERAPI_KEY", "lower-priority")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()
	assert.Equal(t, "token-from-alias", cfg.API.AccessKey)
}

func TestLoadFromEnvIgnoresGarbageInts(t *testing.T) {
	t.Setenv("IGSTATS_REQUESTS_PER_MINUTE", "not-a-number")
	t.Setenv("IGSTATS_MAX_WORKERS", "-5")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 8, cfg.Enrich.MaxWorkers)
}

func TestValidateErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.BaseURL = ""
	cfg.RateLimit.RequestsPerMinute = 0
	cfg.Enrich.MaxWorkers = 0
	cfg.Download.ConcurrentDownloads = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API base URL is required")
	assert.Contains(t, err.Error(), "requests per minute must be positive")
	assert.Contains(t, err.Error(), "max workers must be positive")
	assert.Contains(t, err.Error(), "concurrent downloads must be positive")
}

func TestValidateNegativeRetryAttempts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enrich.RetryAttempts = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry attempts cannot be negative")
}
