package main

import (
	"context"

	"github.com/spf13/cobra"

	"igstats/pkg/analytics"
	"igstats/pkg/ui"
)

var (
	followersPageID   string
	followersLimit    int
	followersStrategy string

	topSampleSize int
	topN          int
	topMaxPages   int
	topStrategy   string
)

// followersCmd represents the followers command
var followersCmd = &cobra.Command{
	Use:   "followers <username|profile-url>",
	Short: "Fetch one page of a user's followers",
	Long: `Fetch a single page of follower previews. Pass --page-id to
continue from a previous page's next_page_id.

Strategies select the upstream pagination variant:
  g2         paged follower listing (default)
  v2         alternate paged listing
  gql_chunk  cursor-driven chunk listing`,
	Example: `  igstats followers cristiano --limit 25
  igstats followers cristiano --page-id <token> --strategy v2`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, _, _ := newService()
		result, err := service.FollowersPage(context.Background(), args[0], followersPageID, followersLimit, followersStrategy)
		exitOnError("Followers lookup failed", err)
		exitOnError("Failed to render result", ui.PrintJSON(result))
		if !jsonOutput && result.NextPageID != "" {
			ui.PrintNote("Continue with --page-id " + result.NextPageID)
		}
	},
}

// topFollowersCmd represents the top-followers command
var topFollowersCmd = &cobra.Command{
	Use:   "top-followers <username|profile-url>",
	Short: "Rank a sampled subset of a user's followers",
	Long: `Sample a bounded number of a user's followers, enrich each with
full profile stats and rank them by follower count.

The ranking is explicitly approximate: it covers only the sampled
subset, and the result carries its request-budget ledger so the
upstream spend is visible.`,
	Example: `  # Top 10 of a 30-follower sample
  igstats top-followers cristiano

  # Bigger sample, more pages
  igstats top-followers cristiano --sample 50 --top 20 --max-pages 4`,
	Args: cobra.ExactArgs(1),
	Run:  runTopFollowers,
}

func init() {
	rootCmd.AddCommand(followersCmd)
	rootCmd.AddCommand(topFollowersCmd)

	followersCmd.Flags().StringVar(&followersPageID, "page-id", "", "pagination token from a previous page")
	followersCmd.Flags().IntVar(&followersLimit, "limit", 25, "maximum followers to return (1-50)")
	followersCmd.Flags().StringVar(&followersStrategy, "strategy", "", "pagination strategy: g2, v2 or gql_chunk")

	topFollowersCmd.Flags().IntVar(&topSampleSize, "sample", 30, "followers to sample (5-50)")
	topFollowersCmd.Flags().IntVar(&topN, "top", 10, "ranked rows to return (1-20)")
	topFollowersCmd.Flags().IntVar(&topMaxPages, "max-pages", 0, "maximum follower pages to fetch (1-4)")
	topFollowersCmd.Flags().StringVar(&topStrategy, "strategy", "", "pagination strategy: g2, v2 or gql_chunk")
}

func runTopFollowers(cmd *cobra.Command, args []string) {
	service, _, _ := newService()

	result, err := service.TopFollowers(context.Background(), args[0], analytics.TopFollowersOptions{
		SampleSize: topSampleSize,
		TopN:       topN,
		MaxPages:   topMaxPages,
		Strategy:   topStrategy,
	})
	exitOnError("Follower ranking failed", err)

	if jsonOutput {
		exitOnError("Failed to render result", ui.PrintJSON(result))
		return
	}
	ui.RenderTopFollowers(result)
}
