package main

import (
	"context"

	"github.com/spf13/cobra"

	"igstats/pkg/ui"
)

var commentsLimit int

// reelCmd represents the reel command
var reelCmd = &cobra.Command{
	Use:   "reel <reel-url>",
	Short: "Show virality stats for a single reel",
	Long: `Fetch a single reel and compute its virality metrics: weighted
engagement, viral index and label. Reel stats always hit the upstream
so the counters are fresh.`,
	Example: `  igstats reel https://www.instagram.com/reel/Cabc123/`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, _, _ := newService()
		result, err := service.ReelStats(context.Background(), args[0])
		exitOnError("Reel lookup failed", err)
		exitOnError("Failed to render result", ui.PrintJSON(result))
	},
}

// mediaCmd represents the media command
var mediaCmd = &cobra.Command{
	Use:     "media <media-url>",
	Short:   "Show metadata for a post or reel",
	Example: `  igstats media https://www.instagram.com/p/Cabc123/`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, _, _ := newService()
		result, err := service.MediaInfo(context.Background(), args[0])
		exitOnError("Media lookup failed", err)
		exitOnError("Failed to render result", ui.PrintJSON(result))
	},
}

// likersCmd represents the likers command
var likersCmd = &cobra.Command{
	Use:   "likers <media-url>",
	Short: "List the likers of a post or reel",
	Long: `List the liker previews of a post or reel. The upstream may
return a capped subset instead of the full like list; the result is
flagged accordingly.`,
	Example: `  igstats likers https://www.instagram.com/p/Cabc123/`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, _, _ := newService()
		result, err := service.MediaLikers(context.Background(), args[0])
		exitOnError("Likers lookup failed", err)
		exitOnError("Failed to render result", ui.PrintJSON(result))
		if !jsonOutput && result.IsCapped {
			ui.PrintNote(result.CapNote)
		}
	},
}

// commentsCmd represents the comments command
var commentsCmd = &cobra.Command{
	Use:     "comments <media-url>",
	Short:   "List the comments of a post or reel",
	Example: `  igstats comments https://www.instagram.com/p/Cabc123/ --limit 25`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, _, _ := newService()
		result, err := service.MediaComments(context.Background(), args[0], commentsLimit)
		exitOnError("Comments lookup failed", err)
		exitOnError("Failed to render result", ui.PrintJSON(result))
		if !jsonOutput && result.IsCapped {
			ui.PrintNote(result.CapNote)
		}
	},
}

func init() {
	rootCmd.AddCommand(reelCmd)
	rootCmd.AddCommand(mediaCmd)
	rootCmd.AddCommand(likersCmd)
	rootCmd.AddCommand(commentsCmd)

	commentsCmd.Flags().IntVar(&commentsLimit, "limit", 20, "maximum comments to return (1-50)")
}
