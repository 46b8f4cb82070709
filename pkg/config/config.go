package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the analytics client.
type Config struct {
	// Upstream API settings
	API APIConfig `yaml:"api" json:"api"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Paginated crawl defaults
	Crawl CrawlConfig `yaml:"crawl" json:"crawl"`

	// Enrichment fan-out settings
	Enrich EnrichConfig `yaml:"enrich" json:"enrich"`

	// Asset download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig holds upstream API settings.
type APIConfig struct {
	BaseURL        string        `yaml:"base_url" json:"base_url"`
	AccessKey      string        `yaml:"access_key" json:"access_key"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	AssetTimeout   time.Duration `yaml:"asset_timeout" json:"asset_timeout"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// CrawlConfig holds default bounds for paginated crawls.
type CrawlConfig struct {
	Limit    int `yaml:"limit" json:"limit"`
	MaxPages int `yaml:"max_pages" json:"max_pages"`
	PageSize int `yaml:"page_size" json:"page_size"`
}

// EnrichConfig holds enrichment fan-out settings.
type EnrichConfig struct {
	MaxWorkers    int           `yaml:"max_workers" json:"max_workers"`
	RetryAttempts int           `yaml:"retry_attempts" json:"retry_attempts"`
	RetryDelay    time.Duration `yaml:"retry_delay" json:"retry_delay"`
}

// DownloadConfig holds asset download settings.
type DownloadConfig struct {
	ConcurrentDownloads int    `yaml:"concurrent_downloads" json:"concurrent_downloads"`
	OutputDirectory     string `yaml:"output_directory" json:"output_directory"`
	OverwriteExisting   bool   `yaml:"overwrite_existing" json:"overwrite_existing"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://api.hikerapi.com",
			RequestTimeout: 25 * time.Second,
			AssetTimeout:   60 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Crawl: CrawlConfig{
			Limit:    12,
			MaxPages: 3,
			PageSize: 12,
		},
		Enrich: EnrichConfig{
			MaxWorkers:    8,
			RetryAttempts: 2,
			RetryDelay:    750 * time.Millisecond,
		},
		Download: DownloadConfig{
			ConcurrentDownloads: 3,
			OutputDirectory:     "./downloads",
			OverwriteExisting:   false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// Load builds a configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	loadDotEnv()

	cfg := DefaultConfig()
	if err := cfg.LoadFromFile(path); err != nil {
		return nil, err
	}
	cfg.LoadFromEnv()
	return cfg, nil
}

func loadDotEnv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igstats.env"))
}

// LoadFromFile loads configuration from a YAML file. An empty path checks
// the standard locations; a missing file there is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) findConfigFile() string {
	locations := []string{
		".igstats.yaml",
		".igstats.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "igstats", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "igstats", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".igstats.yaml"),
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// LoadFromEnv overlays configuration from environment variables. The
// access key also accepts the upstream's own variable names.
func (c *Config) LoadFromEnv() {
	for _, name := range []string{"IGSTATS_ACCESS_KEY", "HIKERAPI_TOKEN", "HIKERAPI_KEY"} {
		if key := os.Getenv(name); key != "" {
			c.API.AccessKey = key
			break
		}
	}
	if baseURL := os.Getenv("IGSTATS_API_BASE_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if rpm, ok := envInt("IGSTATS_REQUESTS_PER_MINUTE"); ok && rpm > 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if workers, ok := envInt("IGSTATS_MAX_WORKERS"); ok && workers > 0 {
		c.Enrich.MaxWorkers = workers
	}
	if dir := os.Getenv("IGSTATS_OUTPUT_DIR"); dir != "" {
		c.Download.OutputDirectory = dir
	}
	if level := os.Getenv("IGSTATS_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

func envInt(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return val, true
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("API base URL is required"))
	}
	if c.API.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.Enrich.MaxWorkers <= 0 {
		errs = append(errs, errors.New("max workers must be positive"))
	}
	if c.Enrich.RetryAttempts < 0 {
		errs = append(errs, errors.New("retry attempts cannot be negative"))
	}
	if c.Download.ConcurrentDownloads <= 0 {
		errs = append(errs, errors.New("concurrent downloads must be positive"))
	}

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}
	return nil
}
