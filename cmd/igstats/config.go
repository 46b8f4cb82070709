package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"igstats/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage igstats configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (IGSTATS_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.igstats.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration merged from all sources.
The access key is masked.`,
	Run: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Run:   runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".igstats.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		os.Exit(1)
	}

	exampleConfig := `# igstats configuration file
#
# Environment variables prefixed with IGSTATS_ override these values.
# The access key can also come from 'igstats auth login' or from
# IGSTATS_ACCESS_KEY / HIKERAPI_TOKEN / HIKERAPI_KEY.

# Upstream API settings
api:
  base_url: "https://api.hikerapi.com"

  # Access key; prefer storing it with 'igstats auth login' instead
  access_key: ""

  # Timeout for metadata requests
  request_timeout: 25s

  # Timeout for binary asset downloads
  asset_timeout: 60s

# Rate limiting
rate_limit:
  # Upstream requests per minute
  requests_per_minute: 60

# Defaults for paginated reel crawls
crawl:
  # Reels returned per crawl (1-20)
  limit: 12

  # Pages fetched per crawl (1-5)
  max_pages: 3

  # Items requested per page (1-24)
  page_size: 12

# Profile enrichment fan-out
enrich:
  max_workers: 8
  retry_attempts: 2
  retry_delay: 750ms

# Asset downloads
download:
  concurrent_downloads: 3
  output_directory: "./downloads"
  overwrite_existing: false

# Logging
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path; empty logs to stderr
  file: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Run 'igstats auth login' to store your access key")
	fmt.Println("2. Run 'igstats config validate' to check the configuration")
	fmt.Println("3. Query a profile with 'igstats profile <username>'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	displayCfg := *cfg
	if displayCfg.API.AccessKey != "" {
		if len(displayCfg.API.AccessKey) > 8 {
			key := displayCfg.API.AccessKey
			displayCfg.API.AccessKey = key[:4] + "..." + key[len(key)-4:]
		} else {
			displayCfg.API.AccessKey = "***"
		}
	}

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (IGSTATS_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (standard locations)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	if cfg.API.AccessKey == "" {
		ui.PrintWarning("No access key configured", "run 'igstats auth login'")
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Base URL: %s\n", cfg.API.BaseURL)
	fmt.Printf("  Rate limit: %d requests/minute\n", cfg.RateLimit.RequestsPerMinute)
	fmt.Printf("  Crawl defaults: limit %d, %d pages of %d\n", cfg.Crawl.Limit, cfg.Crawl.MaxPages, cfg.Crawl.PageSize)
	fmt.Printf("  Enrichment workers: %d\n", cfg.Enrich.MaxWorkers)
	fmt.Printf("  Output directory: %s\n", cfg.Download.OutputDirectory)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
