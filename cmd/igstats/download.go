package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"igstats/internal/downloader"
	"igstats/pkg/analytics"
	"igstats/pkg/config"
	"igstats/pkg/logger"
	"igstats/pkg/models"
	"igstats/pkg/ratelimit"
	"igstats/pkg/storage"
	"igstats/pkg/ui"
)

var (
	downloadOutputDir   string
	downloadOverwrite   bool
	downloadPlanOnly    bool
	downloadStoryLimit  int
	downloadTitleFilter string
	downloadHighlights  int
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download media assets",
	Long: `Resolve and download the binary assets of a post, its audio
track, or a user's stories and highlights.

Each subcommand first resolves a download plan from metadata, then
fetches the assets concurrently. Pass --plan-only to print the plan
without downloading anything.`,
}

// downloadMediaCmd represents the download media command
var downloadMediaCmd = &cobra.Command{
	Use:   "media <media-url>",
	Short: "Download a post's images and videos",
	Long: `Download the best-quality assets of a post or reel. Carousels
yield one asset per resource; single media yield the best video or
image candidate.`,
	Example: `  igstats download media https://www.instagram.com/p/Cabc123/`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, cfg, log := newService()
		plan, err := service.DownloadMediaPlan(context.Background(), args[0])
		exitOnError("Failed to resolve download plan", err)
		executePlan(plan, cfg, service, log)
	},
}

// downloadAudioCmd represents the download audio command
var downloadAudioCmd = &cobra.Command{
	Use:   "audio <media-url>",
	Short: "Download a reel's audio track",
	Long: `Extract and download the audio track of a reel: the original
sound when present, otherwise the attached music asset.`,
	Example: `  igstats download audio https://www.instagram.com/reel/Cabc123/`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, cfg, log := newService()
		plan, err := service.DownloadMediaAudioPlan(context.Background(), args[0])
		exitOnError("Failed to resolve audio plan", err)
		executePlan(plan, cfg, service, log)
	},
}

// downloadStoriesCmd represents the download stories command
var downloadStoriesCmd = &cobra.Command{
	Use:     "stories <username|profile-url>",
	Short:   "Download a user's current stories",
	Example: `  igstats download stories cristiano --limit 10`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, cfg, log := newService()
		plan, err := service.DownloadStoriesPlan(context.Background(), args[0], downloadStoryLimit)
		exitOnError("Failed to resolve stories plan", err)
		executePlan(plan, cfg, service, log)
	},
}

// downloadHighlightsCmd represents the download highlights command
var downloadHighlightsCmd = &cobra.Command{
	Use:   "highlights <username|profile-url>",
	Short: "Download a user's highlight stories",
	Long: `Download the stories inside a user's highlights. Pass --title to
select only highlights whose title contains the given text.`,
	Example: `  igstats download highlights cristiano --title travel`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, cfg, log := newService()
		plan, err := service.DownloadHighlightsPlan(context.Background(), args[0], downloadTitleFilter, downloadHighlights)
		exitOnError("Failed to resolve highlights plan", err)
		executePlan(plan, cfg, service, log)
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.AddCommand(downloadMediaCmd)
	downloadCmd.AddCommand(downloadAudioCmd)
	downloadCmd.AddCommand(downloadStoriesCmd)
	downloadCmd.AddCommand(downloadHighlightsCmd)

	downloadCmd.PersistentFlags().StringVarP(&downloadOutputDir, "output", "o", "", "output directory (default from config)")
	downloadCmd.PersistentFlags().BoolVar(&downloadOverwrite, "overwrite", false, "re-download assets that already exist")
	downloadCmd.PersistentFlags().BoolVar(&downloadPlanOnly, "plan-only", false, "print the resolved plan without downloading")

	downloadStoriesCmd.Flags().IntVar(&downloadStoryLimit, "limit", 0, "maximum stories to download (1-50, 0 for all)")
	downloadHighlightsCmd.Flags().StringVar(&downloadTitleFilter, "title", "", "only highlights whose title contains this text")
	downloadHighlightsCmd.Flags().IntVar(&downloadHighlights, "limit", 0, "maximum highlights to download (1-50, 0 for all)")
}

func executePlan(plan *models.DownloadPlan, cfg *config.Config, service *analytics.Service, log logger.Logger) {
	if downloadPlanOnly {
		exitOnError("Failed to render plan", ui.PrintJSON(plan))
		return
	}
	if len(plan.Assets) == 0 {
		ui.PrintWarning("Nothing to download", "the plan resolved zero assets")
		return
	}

	outputDir := downloadOutputDir
	if outputDir == "" {
		outputDir = cfg.Download.OutputDirectory
	}
	overwrite := downloadOverwrite || cfg.Download.OverwriteExisting

	manager, err := storage.NewManager(outputDir, overwrite)
	exitOnError("Failed to prepare output directory", err)

	ui.PrintInfo("Downloading", fmt.Sprintf("%d asset(s) to %s", len(plan.Assets), manager.OutputDir()))

	workers := cfg.Download.ConcurrentDownloads
	limiter := ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, workers)
	results := downloader.ExecutePlan(plan, workers, service.Client(), manager, limiter, log)

	var failed int
	for _, result := range results {
		switch {
		case result.Skipped:
			ui.PrintNote("skipped (exists): " + result.Job.Filename)
		case result.Success:
			ui.PrintInfo("saved", fmt.Sprintf("%s (%d bytes)", result.Job.Filename, result.Size))
		default:
			failed++
			ui.PrintError("failed: "+result.Job.Filename, result.Error)
		}
	}

	if failed > 0 {
		ui.PrintWarning("Completed with failures", fmt.Sprintf("%d of %d assets failed", failed, len(results)))
		os.Exit(1)
	}
	ui.PrintSuccess(fmt.Sprintf("Downloaded %d asset(s)", len(results)-failed))
}
