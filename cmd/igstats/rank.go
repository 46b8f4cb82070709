package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"igstats/pkg/analytics"
	"igstats/pkg/ui"
)

var (
	rankTopN    int
	rankWorkers int
)

// rankLikersCmd represents the rank-likers command
var rankLikersCmd = &cobra.Command{
	Use:   "rank-likers <media-url> [media-url...]",
	Short: "Rank the likers of one or more posts by follower count",
	Long: `Collect the likers of one or more posts, merge them into unique
users, enrich each with full profile stats and rank them by follower
count. Users who liked several of the given posts are counted once
with their overlap recorded.

Likers the upstream caps or fails to enrich stay in the ranking with
preview-level fields; the result lists every such limitation.`,
	Example: `  # Rank the likers of one post
  igstats rank-likers https://www.instagram.com/p/Cabc123/

  # Cross-post overlap ranking
  igstats rank-likers https://www.instagram.com/p/Cabc123/ https://www.instagram.com/reel/Cdef456/ --top 50`,
	Args: cobra.MinimumNArgs(1),
	Run:  runRankLikers,
}

func init() {
	rootCmd.AddCommand(rankLikersCmd)

	rankLikersCmd.Flags().IntVar(&rankTopN, "top", 30, "ranked rows to return (1-100)")
	rankLikersCmd.Flags().IntVar(&rankWorkers, "workers", 0, "enrichment workers (1-12, 0 uses the configured default)")
}

func runRankLikers(cmd *cobra.Command, args []string) {
	service, _, log := newService()

	opts := analytics.RankLikersOptions{
		TopN:       rankTopN,
		MaxWorkers: rankWorkers,
	}
	if !quiet && !jsonOutput {
		opts.OnProgress = func(done, total int, id string, err error) {
			if err != nil {
				log.DebugWithFields("liker enrichment miss", map[string]interface{}{
					"user_id": id,
					"error":   err.Error(),
				})
			}
			fmt.Printf("\rEnriching likers %d/%d", done, total)
			if done == total {
				fmt.Println()
			}
		}
	}

	result, err := service.RankMediaLikersByFollowers(context.Background(), args, opts)
	exitOnError("Liker ranking failed", err)

	if jsonOutput {
		exitOnError("Failed to render result", ui.PrintJSON(result))
		return
	}
	ui.RenderLikerRows(result)
}
