package analytics

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"igstats/pkg/cache"
	"igstats/pkg/crawler"
	"igstats/pkg/errors"
	"igstats/pkg/hiker"
	"igstats/pkg/models"
	"igstats/pkg/normalize"
)

// ReelCrawlOptions bound one profile reels crawl. Zero values fall back
// to the configured defaults.
type ReelCrawlOptions struct {
	Limit    int
	DaysBack int
	MaxPages int
	PageSize int
}

// ProfileReels crawls a profile's recent reels: paginated chunk fetches
// with cursor continuation, cross-page shortcode dedup and an optional
// recency cutoff. Pages are memoized by (user, cursor, page size) so a
// re-crawl within the session costs nothing.
func (s *Service) ProfileReels(ctx context.Context, target string, opts ReelCrawlOptions) (*models.ProfileReels, error) {
	username, user, err := s.userByTarget(ctx, target)
	if err != nil {
		return nil, err
	}
	userID := user.UserID()
	if userID == "" {
		return nil, errors.New(errors.ErrorTypeUnexpectedShape, "profile %q has no user id", username)
	}

	if opts.Limit == 0 {
		opts.Limit = s.cfg.Crawl.Limit
	}
	if opts.MaxPages == 0 {
		opts.MaxPages = s.cfg.Crawl.MaxPages
	}
	if opts.PageSize == 0 {
		opts.PageSize = s.cfg.Crawl.PageSize
	}

	crawlOpts := crawler.Options{
		Limit:    opts.Limit,
		MaxPages: opts.MaxPages,
		PageSize: opts.PageSize,
	}
	daysBack := 0
	if opts.DaysBack > 0 {
		daysBack = clampInt(opts.DaysBack, 1, 30)
		crawlOpts.Cutoff = time.Now().Add(-time.Duration(daysBack) * 24 * time.Hour)
	}

	fetch := func(ctx context.Context, cursor string, pageSize int) ([]hiker.RawMedia, string, error) {
		key := cache.ChunkKey{UserID: userID, Cursor: cursor, PageSize: pageSize}
		if page, ok := s.session.ClipsChunks.Get(key); ok {
			return page.Items, page.Cursor, nil
		}

		params := url.Values{
			"user_id":   {userID},
			"page_size": {strconv.Itoa(pageSize)},
		}
		if cursor != "" {
			params.Set("end_cursor", cursor)
		}
		var chunk hiker.ClipsChunk
		if err := s.client.GetJSON(ctx, hiker.EndpointUserClipsChunk, params, &chunk); err != nil {
			return nil, "", err
		}
		s.session.ClipsChunks.Put(key, cache.ClipsPage{Items: chunk.Items, Cursor: chunk.Cursor})
		return chunk.Items, chunk.Cursor, nil
	}

	result, err := crawler.Run(ctx, crawlOpts, fetch, s.logger)
	if err != nil {
		return nil, err
	}

	normalized := crawlOpts.Normalize()
	reels := make([]models.Reel, 0, len(result.Items))
	for i := range result.Items {
		reel := normalize.Reel(&result.Items[i], "")
		reel.EntityType = models.EntityReelPreview
		reels = append(reels, reel)
	}

	displayName := user.Username.String()
	if displayName == "" {
		displayName = username
	}
	return &models.ProfileReels{
		EntityType:     "profile_reels",
		Username:       displayName,
		UserID:         userID,
		Profile:        normalize.Profile(user, username),
		Reels:          reels,
		Filters:        models.ReelFilters{Limit: normalized.Limit, DaysBack: daysBack},
		PagesUsed:      result.PagesUsed,
		ScannedReels:   result.Scanned,
		NextPageID:     result.NextCursor,
		SourceEndpoint: hiker.EndpointUserClipsChunk,
	}, nil
}

// RecentReels is ProfileReels with a two-page budget, the cheap recipe
// for "what did this account post lately".
func (s *Service) RecentReels(ctx context.Context, target string, limit int) (*models.ProfileReels, error) {
	return s.ProfileReels(ctx, target, ReelCrawlOptions{Limit: limit, MaxPages: 2})
}
