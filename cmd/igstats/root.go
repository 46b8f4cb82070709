package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"igstats/pkg/analytics"
	"igstats/pkg/auth"
	"igstats/pkg/config"
	"igstats/pkg/hiker"
	"igstats/pkg/logger"
	"igstats/pkg/ratelimit"
	"igstats/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile  string
	logLevel    string
	accountName string
	jsonOutput  bool
	quiet       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "igstats",
	Short: "Instagram analytics over a metered upstream API",
	Long: `igstats queries a metered Instagram data API and turns the raw
payloads into analytics: profile stats, reel virality scoring, follower
sampling and rankings, cross-media liker rankings, and asset download
plans.

Every command that costs upstream requests reports its estimated spend,
and sampled rankings are always labeled as approximate.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.igstats.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "", "use a specific stored credential label")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print the full JSON result instead of tables")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`igstats {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig builds the effective configuration from file, environment
// and global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

// resolveAccessKey fills in the upstream access key from the credential
// store when the config and environment carry none.
func resolveAccessKey(cfg *config.Config) {
	if cfg.API.AccessKey != "" && accountName == "" {
		return
	}

	manager, err := auth.NewManager()
	if err != nil {
		return
	}

	var cred *auth.Credential
	if accountName != "" {
		cred, err = manager.Retrieve(accountName)
		if err != nil {
			ui.PrintError("Stored credential not found", accountName)
			ui.PrintNote("Use 'igstats auth list' to see stored credentials.")
			os.Exit(1)
		}
	} else {
		cred, err = manager.RetrieveDefault()
		if err != nil {
			return
		}
	}

	cfg.API.AccessKey = cred.AccessKey
	if cred.BaseURL != "" {
		cfg.API.BaseURL = cred.BaseURL
	}
}

// newService wires the full client stack for a command invocation.
func newService() (*analytics.Service, *config.Config, logger.Logger) {
	cfg, err := loadConfig()
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	resolveAccessKey(cfg)

	if err := cfg.Validate(); err != nil {
		ui.PrintError("Invalid configuration", err.Error())
		os.Exit(1)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}

	if cfg.API.AccessKey == "" {
		ui.PrintError("No upstream access key found", "")
		fmt.Println("\nTo store a key securely, run:")
		fmt.Println("  igstats auth login")
		fmt.Println("\nOr set it via environment variable:")
		fmt.Println("  export IGSTATS_ACCESS_KEY=your_access_key")
		os.Exit(1)
	}

	limiter := ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.RequestsPerMinute/6+1)
	client := hiker.NewClient(&cfg.API, limiter, log)
	return analytics.NewService(client, cfg, log), cfg, log
}

// exitOnError prints a failure and terminates the process.
func exitOnError(action string, err error) {
	if err == nil {
		return
	}
	ui.PrintError(action, err.Error())
	os.Exit(1)
}
