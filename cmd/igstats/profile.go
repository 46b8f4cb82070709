package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"igstats/pkg/ui"
)

var (
	storiesLimit    int
	highlightsLimit int
	searchLimit     int
	searchCursor    string
	searchFlat      bool
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile <username|profile-url>",
	Short: "Show profile stats for a user",
	Long: `Fetch profile stats for a user given a username or profile URL.

The result includes follower counts and a non-fatal probe of the
current story count; a failing stories probe is reported alongside the
profile instead of failing the command.`,
	Example: `  igstats profile cristiano
  igstats profile https://www.instagram.com/cristiano/`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, _, _ := newService()
		result, err := service.ProfileStats(context.Background(), args[0])
		exitOnError("Profile lookup failed", err)
		exitOnError("Failed to render result", ui.PrintJSON(result))
	},
}

// storiesCmd represents the stories command
var storiesCmd = &cobra.Command{
	Use:     "stories <username|profile-url>",
	Short:   "List a user's current stories",
	Example: `  igstats stories cristiano --limit 10`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, _, _ := newService()
		result, err := service.ProfileStories(context.Background(), args[0], storiesLimit)
		exitOnError("Stories lookup failed", err)
		exitOnError("Failed to render result", ui.PrintJSON(result))
	},
}

// highlightsCmd represents the highlights command
var highlightsCmd = &cobra.Command{
	Use:     "highlights <username|profile-url>",
	Short:   "List a user's highlight tray",
	Example: `  igstats highlights cristiano`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, _, _ := newService()
		result, err := service.ProfileHighlights(context.Background(), args[0], highlightsLimit)
		exitOnError("Highlights lookup failed", err)
		exitOnError("Failed to render result", ui.PrintJSON(result))
	},
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a topsearch query",
	Long: `Run a topsearch query against the upstream API and return the
matching users, hashtags and places. Pass --cursor to continue a
previous page.`,
	Example: `  igstats search "coffee roasters" --limit 20
  igstats search football --flat`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service, _, _ := newService()
		result, err := service.Topsearch(context.Background(), args[0], searchLimit, searchCursor, searchFlat)
		exitOnError("Search failed", err)
		exitOnError("Failed to render result", ui.PrintJSON(result))
		if !jsonOutput && result.MoreAvailable && result.EndCursor != "" {
			ui.PrintNote(fmt.Sprintf("More results available; continue with --cursor %s", result.EndCursor))
		}
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(storiesCmd)
	rootCmd.AddCommand(highlightsCmd)
	rootCmd.AddCommand(searchCmd)

	storiesCmd.Flags().IntVar(&storiesLimit, "limit", 0, "maximum stories to return (1-50, 0 for all)")
	highlightsCmd.Flags().IntVar(&highlightsLimit, "limit", 0, "maximum highlights to return (1-50, 0 for all)")

	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum results to return (1-50)")
	searchCmd.Flags().StringVar(&searchCursor, "cursor", "", "pagination cursor from a previous page")
	searchCmd.Flags().BoolVar(&searchFlat, "flat", false, "use the flat result variant")
}
