// Package crawler implements the paginated reel crawl loop: cursor
// continuation, cross-page shortcode dedup and early-exit policies.
package crawler

import (
	"context"
	"sort"
	"time"

	"igstats/pkg/hiker"
	"igstats/pkg/logger"
)

const (
	MaxLimit    = 20
	MaxPages    = 5
	MaxPageSize = 24
)

// FetchPage returns one page of clips for a cursor, along with the
// cursor of the next page (empty when exhausted).
type FetchPage func(ctx context.Context, cursor string, pageSize int) ([]hiker.RawMedia, string, error)

// Options bound one crawl.
type Options struct {
	// Limit is the number of accepted items to collect, clamped to 1..20.
	Limit int

	// MaxPages bounds the page requests, clamped to 1..5.
	MaxPages int

	// PageSize is the requested items per page, clamped to 1..24.
	PageSize int

	// Cutoff stops the crawl once items older than this instant appear.
	// Zero means no cutoff.
	Cutoff time.Time

	// Accept filters items after dedup and cutoff checks. Nil accepts all.
	Accept func(m *hiker.RawMedia) bool
}

func clamp(v, min, max, fallback int) int {
	if v == 0 {
		v = fallback
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Normalize returns a copy of the options with all bounds applied.
func (o Options) Normalize() Options {
	o.Limit = clamp(o.Limit, 1, MaxLimit, 12)
	o.MaxPages = clamp(o.MaxPages, 1, MaxPages, 3)
	o.PageSize = clamp(o.PageSize, 1, MaxPageSize, 12)
	return o
}

// Result reports the crawl outcome. Items are sorted by taken_at
// descending and truncated to the limit.
type Result struct {
	Items      []hiker.RawMedia
	PagesUsed  int
	Scanned    int
	NextCursor string
	CutoffHit  bool
}

// Run executes the crawl. Pages are fetched sequentially because each
// cursor comes from the previous page. On a page fetch error the items
// accepted so far are returned alongside the error.
func Run(ctx context.Context, opts Options, fetch FetchPage, log logger.Logger) (*Result, error) {
	opts = opts.Normalize()

	seen := make(map[string]struct{})
	result := &Result{}
	var accepted []hiker.RawMedia
	cursor := ""

	for result.PagesUsed < opts.MaxPages {
		if err := ctx.Err(); err != nil {
			result.Items = finalize(accepted, opts.Limit)
			return result, err
		}

		items, next, err := fetch(ctx, cursor, opts.PageSize)
		if err != nil {
			result.Items = finalize(accepted, opts.Limit)
			return result, err
		}
		result.PagesUsed++

		for i := range items {
			item := &items[i]
			result.Scanned++

			code := item.Code.String()
			if code != "" {
				if _, dup := seen[code]; dup {
					continue
				}
				seen[code] = struct{}{}
			}

			if !opts.Cutoff.IsZero() {
				takenAt := item.BestTakenAt()
				if !takenAt.IsZero() && takenAt.Time().Before(opts.Cutoff) {
					// Keep draining the page so scanned stays accurate,
					// but fetch no further pages.
					result.CutoffHit = true
					continue
				}
			}

			if opts.Accept != nil && !opts.Accept(item) {
				continue
			}
			accepted = append(accepted, *item)
		}

		cursor = next
		result.NextCursor = next

		if len(accepted) >= opts.Limit || result.CutoffHit || next == "" {
			break
		}
	}

	if log != nil {
		log.WithFields(map[string]interface{}{
			"pages_used": result.PagesUsed,
			"scanned":    result.Scanned,
			"accepted":   len(accepted),
			"cutoff_hit": result.CutoffHit,
		}).Debug("crawl finished")
	}

	result.Items = finalize(accepted, opts.Limit)
	return result, nil
}

func finalize(items []hiker.RawMedia, limit int) []hiker.RawMedia {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].BestTakenAt().Unix() > items[j].BestTakenAt().Unix()
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
