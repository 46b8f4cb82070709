package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"igstats/pkg/models"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	rowStyle    = lipgloss.NewStyle().Foreground(dimColor)
	rankStyle   = lipgloss.NewStyle().Foreground(successColor).Bold(true)
)

// RenderTopFollowers prints a sampled follower ranking as a table,
// followed by its approximation note and request-budget summary.
func RenderTopFollowers(result *models.TopFollowers) {
	if quietMode {
		return
	}

	PrintInfo("Target", result.TargetUsername)
	PrintInfo("Sample", fmt.Sprintf("%d collected of %d requested (%d pages)",
		result.SampleSizeCollected, result.SampleSizeRequested, result.PagesUsed))

	rows := make([][]string, 0, len(result.Followers))
	for i, follower := range result.Followers {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			"@" + follower.Username,
			formatCount(follower.Followers),
			formatCount(follower.Posts),
			verifiedMark(follower.IsVerified),
			privateMark(follower.IsPrivate),
		})
	}
	renderTable([]string{"#", "USERNAME", "FOLLOWERS", "POSTS", "VERIFIED", "PRIVATE"}, rows)

	PrintNote(result.ApproximationNote)
	PrintNote(fmt.Sprintf("Estimated requests: %d (%d pages, %d profile lookups, %d cache hits)",
		result.Budget.EstimatedTotalRequests, result.Budget.PageRequests,
		result.Budget.ProfileLookups, result.Budget.ProfileCacheHits))
}

// RenderLikerRows prints a cross-media liker ranking as a table,
// followed by its limitations and request-budget summary.
func RenderLikerRows(result *models.RankedLikers) {
	if quietMode {
		return
	}

	PrintInfo("Source media", fmt.Sprintf("%d", len(result.SourceMedia)))
	PrintInfo("Unique likers", fmt.Sprintf("%d (%d enriched)", result.UniqueLikers, result.EnrichedProfiles))

	rows := make([][]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		name := row.Username
		if name != "" {
			name = "@" + name
		} else {
			name = row.UserID
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", row.Rank),
			name,
			formatCount(row.Followers),
			fmt.Sprintf("%d", row.LikedCount),
			verifiedMark(row.IsVerified),
			strings.Join(row.LikedShortcodes, ","),
		})
	}
	renderTable([]string{"RANK", "USERNAME", "FOLLOWERS", "LIKED", "VERIFIED", "MEDIA"}, rows)

	for _, limitation := range result.Limitations {
		PrintNote(limitation)
	}
	PrintNote(fmt.Sprintf("Estimated requests: %d (%d media, %d liker, %d profile)",
		result.Budget.EstimatedTotalRequests, result.Budget.MediaInfoRequests,
		result.Budget.LikerRequests, result.Budget.ProfileLookups))
}

// RenderReels prints a reel crawl result as a table with virality
// columns.
func RenderReels(result *models.ProfileReels) {
	if quietMode {
		return
	}

	PrintInfo("Target", result.Username)
	PrintInfo("Reels", fmt.Sprintf("%d returned, %d scanned over %d pages",
		len(result.Reels), result.ScannedReels, result.PagesUsed))

	rows := make([][]string, 0, len(result.Reels))
	for _, reel := range result.Reels {
		rows = append(rows, []string{
			reel.Shortcode,
			reel.PublishedAtUTC,
			formatCount(reel.Views),
			formatCount(reel.Likes),
			formatCount(reel.Comments),
			fmt.Sprintf("%.2f", reel.ViralIndex),
			reel.ViralLabel,
		})
	}
	renderTable([]string{"SHORTCODE", "PUBLISHED", "VIEWS", "LIKES", "COMMENTS", "INDEX", "VIRALITY"}, rows)

	if result.NextPageID != "" {
		PrintNote("More reels available; pass --max-pages to crawl deeper.")
	}
}

func renderTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var header strings.Builder
	for i, name := range headers {
		header.WriteString(pad(name, widths[i]))
		header.WriteString("  ")
	}
	fmt.Println(headerStyle.Render(strings.TrimRight(header.String(), " ")))

	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			line.WriteString(pad(cell, widths[i]))
			line.WriteString("  ")
		}
		text := strings.TrimRight(line.String(), " ")
		if len(row) > 0 && (row[0] == "1" || strings.HasPrefix(text, "1 ")) {
			fmt.Println(rankStyle.Render(text))
			continue
		}
		fmt.Println(rowStyle.Render(text))
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func formatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 10_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func verifiedMark(verified bool) string {
	if verified {
		return "yes"
	}
	return ""
}

func privateMark(private bool) string {
	if private {
		return "yes"
	}
	return ""
}
