// Package rank implements the aggregation and ordering rules for
// follower and liker rankings. Tie-break ordering is part of the
// public contract of these rankings and must stay stable.
package rank

import (
	"sort"

	"igstats/pkg/models"
)

// SortTopFollowers orders enriched follower profiles by follower count,
// then verified status, then username, all descending.
func SortTopFollowers(profiles []models.Profile) {
	sort.SliceStable(profiles, func(i, j int) bool {
		a, b := profiles[i], profiles[j]
		if a.Followers != b.Followers {
			return a.Followers > b.Followers
		}
		if a.IsVerified != b.IsVerified {
			return a.IsVerified
		}
		return a.Username > b.Username
	})
}

// SourceLikers is the liker preview list of one source media.
type SourceLikers struct {
	Shortcode string
	URL       string
	Likers    []models.FollowerPreview
}

// MergeLikers folds per-media liker lists into one aggregate per user,
// in first-seen order. Liked shortcodes and URLs stay unique and keep
// source order; liked_count is the number of distinct source media the
// user liked.
func MergeLikers(sources []SourceLikers) []*models.LikerAggregate {
	byID := make(map[string]*models.LikerAggregate)
	var ordered []*models.LikerAggregate

	for _, src := range sources {
		for _, liker := range src.Likers {
			if liker.UserID == "" {
				continue
			}
			agg, ok := byID[liker.UserID]
			if !ok {
				agg = &models.LikerAggregate{
					UserID:   liker.UserID,
					Username: liker.Username,
					FullName: liker.FullName,
				}
				byID[liker.UserID] = agg
				ordered = append(ordered, agg)
			}
			if agg.Username == "" {
				agg.Username = liker.Username
			}
			if agg.FullName == "" {
				agg.FullName = liker.FullName
			}
			if !contains(agg.LikedShortcodes, src.Shortcode) {
				agg.LikedShortcodes = append(agg.LikedShortcodes, src.Shortcode)
				if src.URL != "" {
					agg.LikedURLs = append(agg.LikedURLs, src.URL)
				}
			}
		}
	}

	for _, agg := range ordered {
		agg.LikedCount = len(agg.LikedShortcodes)
	}
	return ordered
}

// BuildLikerRows joins aggregates with their enriched profiles. Users
// whose enrichment failed still get a row with preview-level fields.
func BuildLikerRows(aggregates []*models.LikerAggregate, profiles map[string]models.Profile) []models.LikerRow {
	rows := make([]models.LikerRow, 0, len(aggregates))
	for _, agg := range aggregates {
		row := models.LikerRow{
			UserID:          agg.UserID,
			Username:        agg.Username,
			FullName:        agg.FullName,
			LikedCount:      agg.LikedCount,
			LikedShortcodes: agg.LikedShortcodes,
			LikedURLs:       agg.LikedURLs,
		}
		if p, ok := profiles[agg.UserID]; ok {
			row.Username = p.Username
			row.FullName = p.FullName
			row.Followers = p.Followers
			row.Following = p.Following
			row.Posts = p.Posts
			row.IsVerified = p.IsVerified
			row.IsPrivate = p.IsPrivate
		}
		rows = append(rows, row)
	}
	return rows
}

// SortLikerRows orders rows by follower count, then liked count, then
// verified status, then username, all descending.
func SortLikerRows(rows []models.LikerRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Followers != b.Followers {
			return a.Followers > b.Followers
		}
		if a.LikedCount != b.LikedCount {
			return a.LikedCount > b.LikedCount
		}
		if a.IsVerified != b.IsVerified {
			return a.IsVerified
		}
		return a.Username > b.Username
	})
}

// ApplyDenseRank assigns 1-based dense ranks over sorted rows: rows
// with an equal sort key share a rank and the next distinct key gets
// the next integer.
func ApplyDenseRank(rows []models.LikerRow) {
	rank := 0
	for i := range rows {
		if i == 0 || !sameRankKey(rows[i-1], rows[i]) {
			rank++
		}
		rows[i].Rank = rank
	}
}

func sameRankKey(a, b models.LikerRow) bool {
	return a.Followers == b.Followers &&
		a.LikedCount == b.LikedCount &&
		a.IsVerified == b.IsVerified &&
		a.Username == b.Username
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
