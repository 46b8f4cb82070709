package main

import (
	"context"

	"github.com/spf13/cobra"

	"igstats/pkg/analytics"
	"igstats/pkg/ui"
)

var (
	reelsLimit    int
	reelsDaysBack int
	reelsMaxPages int
	reelsPageSize int
)

// reelsCmd represents the reels command
var reelsCmd = &cobra.Command{
	Use:   "reels <username|profile-url>",
	Short: "Crawl a user's recent reels with virality scoring",
	Long: `Crawl a user's reels through bounded pagination and score each
one for virality. The crawl deduplicates across pages, stops at the
--days-back cutoff and never spends more than --max-pages upstream
page requests.`,
	Example: `  # Latest 12 reels
  igstats reels cristiano

  # Reels from the last week, up to 20
  igstats reels cristiano --limit 20 --days-back 7

  # Deeper crawl with bigger pages
  igstats reels cristiano --limit 20 --max-pages 5 --page-size 24`,
	Args: cobra.ExactArgs(1),
	Run:  runReels,
}

func init() {
	rootCmd.AddCommand(reelsCmd)

	reelsCmd.Flags().IntVar(&reelsLimit, "limit", 0, "maximum reels to return (1-20)")
	reelsCmd.Flags().IntVar(&reelsDaysBack, "days-back", 0, "only include reels from the last N days (1-30)")
	reelsCmd.Flags().IntVar(&reelsMaxPages, "max-pages", 0, "maximum pages to fetch (1-5)")
	reelsCmd.Flags().IntVar(&reelsPageSize, "page-size", 0, "items requested per page (1-24)")
}

func runReels(cmd *cobra.Command, args []string) {
	service, _, _ := newService()

	result, err := service.ProfileReels(context.Background(), args[0], analytics.ReelCrawlOptions{
		Limit:    reelsLimit,
		DaysBack: reelsDaysBack,
		MaxPages: reelsMaxPages,
		PageSize: reelsPageSize,
	})
	exitOnError("Reel crawl failed", err)

	if jsonOutput {
		exitOnError("Failed to render result", ui.PrintJSON(result))
		return
	}
	ui.RenderReels(result)
}
