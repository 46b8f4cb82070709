package analytics

import (
	"context"
	"fmt"
	"strings"

	"igstats/pkg/enrich"
	"igstats/pkg/errors"
	"igstats/pkg/models"
	"igstats/pkg/normalize"
	"igstats/pkg/rank"
)

// RankLikersOptions bound one cross-media liker ranking.
type RankLikersOptions struct {
	TopN       int
	MaxWorkers int
	OnProgress enrich.Progress
}

// RankMediaLikersByFollowers merges the liker lists of several media
// into one aggregate per user, enriches every unique liker and ranks
// them by follower count. Capped source lists are surfaced as a
// limitation, and the budget ledger reports the request cost per phase.
func (s *Service) RankMediaLikersByFollowers(ctx context.Context, mediaURLs []string, opts RankLikersOptions) (*models.RankedLikers, error) {
	var uniqueURLs []string
	seenURLs := make(map[string]struct{})
	for _, raw := range mediaURLs {
		u := strings.TrimSpace(raw)
		if u == "" {
			continue
		}
		if _, dup := seenURLs[u]; dup {
			continue
		}
		seenURLs[u] = struct{}{}
		uniqueURLs = append(uniqueURLs, u)
	}
	if len(uniqueURLs) == 0 {
		return nil, errors.New(errors.ErrorTypeInvalidTarget, "at least one media URL is required")
	}

	var sources []models.LikerSource
	var likerSources []rank.SourceLikers
	cappedCount := 0

	for _, mediaURL := range uniqueURLs {
		likers, err := s.MediaLikers(ctx, mediaURL)
		if err != nil {
			return nil, err
		}
		sources = append(sources, models.LikerSource{
			URL:            likers.Media.URL,
			Shortcode:      likers.Media.Shortcode,
			MediaPK:        likers.Media.MediaPK,
			Username:       likers.Media.Username,
			LikeCount:      likers.AvailableLikeCount,
			ReturnedLikers: likers.ReturnedCount,
			IsCapped:       likers.IsCapped,
		})
		if likers.IsCapped {
			cappedCount++
		}
		likerSources = append(likerSources, rank.SourceLikers{
			Shortcode: likers.Media.Shortcode,
			URL:       likers.Media.URL,
			Likers:    likers.Likers,
		})
	}

	aggregates := rank.MergeLikers(likerSources)
	userIDs := make([]string, 0, len(aggregates))
	for _, agg := range aggregates {
		userIDs = append(userIDs, agg.UserID)
	}

	workers := clampInt(opts.MaxWorkers, 1, 12)
	if opts.MaxWorkers == 0 {
		workers = clampInt(s.cfg.Enrich.MaxWorkers, 1, 12)
	}
	pool := enrich.NewPool(workers, s.cfg.Enrich.RetryAttempts+1, s.cfg.Enrich.RetryDelay, s.logger)
	fetch := func(ctx context.Context, id string) (models.Profile, error) {
		user, err := s.userByID(ctx, id)
		if err != nil {
			return models.Profile{}, err
		}
		return normalize.Profile(user, user.Username.String()), nil
	}

	profiles, enrichErr := pool.Run(ctx, userIDs, fetch, opts.OnProgress)
	if enrichErr != nil {
		s.logger.WithError(enrichErr).Warn("liker enrichment completed with failures")
	}

	rows := rank.BuildLikerRows(aggregates, profiles)
	rank.SortLikerRows(rows)
	topN := clampInt(opts.TopN, 1, 100)
	if len(rows) > topN {
		rows = rows[:topN]
	}
	rank.ApplyDenseRank(rows)

	var limitations []string
	if cappedCount > 0 {
		limitations = append(limitations, fmt.Sprintf(
			"%d media item(s) returned a capped likers list, so the ranking is limited to the available liker sample.",
			cappedCount))
	}
	if enrichErr != nil {
		limitations = append(limitations, fmt.Sprintf(
			"%d of %d liker profiles could not be enriched; affected rows carry preview-level fields only.",
			len(aggregates)-len(profiles), len(aggregates)))
	}

	mediaInfoRequests := len(uniqueURLs)
	likerRequests := len(uniqueURLs)
	profileLookups := len(aggregates)
	return &models.RankedLikers{
		EntityType:       "media_likers_ranked",
		SourceMedia:      sources,
		UniqueLikers:     len(aggregates),
		EnrichedProfiles: len(profiles),
		TopN:             len(rows),
		Rows:             rows,
		Limitations:      limitations,
		Budget: models.LikerBudget{
			MediaInfoRequests:      mediaInfoRequests,
			LikerRequests:          likerRequests,
			ProfileLookups:         profileLookups,
			EstimatedTotalRequests: mediaInfoRequests + likerRequests + profileLookups,
		},
	}, nil
}
