package analytics

import (
	"context"
	"net/url"
	"strings"

	"igstats/pkg/cache"
	"igstats/pkg/enrich"
	"igstats/pkg/errors"
	"igstats/pkg/hiker"
	"igstats/pkg/models"
	"igstats/pkg/normalize"
	"igstats/pkg/rank"
)

// Follower pagination strategies.
const (
	StrategyG2       = "g2"
	StrategyV2       = "v2"
	StrategyGQLChunk = "gql_chunk"
)

func strategyEndpoint(strategy string) string {
	switch strategy {
	case StrategyGQLChunk:
		return hiker.EndpointFollowersChunk
	case StrategyV2:
		return hiker.EndpointFollowersV2
	default:
		return hiker.EndpointFollowersG2
	}
}

// FollowersPage fetches a single follower page under one of the three
// interchangeable upstream strategies. Pages are cached by
// (strategy, user, page token); the result is exact for its page, so
// approximate is always false.
func (s *Service) FollowersPage(ctx context.Context, target, pageID string, limit int, strategy string) (*models.FollowersPage, error) {
	username, user, err := s.userByTarget(ctx, target)
	if err != nil {
		return nil, err
	}
	userID := user.UserID()
	if userID == "" {
		return nil, errors.New(errors.ErrorTypeUnexpectedShape, "profile %q has no user id", username)
	}

	chosen := strings.ToLower(strings.TrimSpace(strategy))
	if chosen == "" {
		chosen = StrategyG2
	}
	pageToken := strings.TrimSpace(pageID)

	key := cache.PageKey{Strategy: chosen, UserID: userID, PageID: pageToken}
	page, ok := s.session.FollowerPages.Get(key)
	if !ok {
		page, err = s.fetchFollowerPage(ctx, chosen, userID, pageToken)
		if err != nil {
			return nil, err
		}
		s.session.FollowerPages.Put(key, page)
	}

	requested := clampInt(limit, 1, 50)
	visible := page.Users
	if len(visible) > requested {
		visible = visible[:requested]
	}
	followers := make([]models.FollowerPreview, 0, len(visible))
	for i := range visible {
		followers = append(followers, normalize.FollowerPreview(&visible[i], page.SourceEndpoint))
	}

	displayName := user.Username.String()
	if displayName == "" {
		displayName = username
	}
	return &models.FollowersPage{
		EntityType:     "followers_page",
		TargetUsername: displayName,
		UserID:         userID,
		PageID:         pageToken,
		NextPageID:     page.NextPageID,
		Count:          len(followers),
		PageItemCount:  len(page.Users),
		SourceEndpoint: page.SourceEndpoint,
		Approximate:    false,
		Profile:        normalize.Profile(user, username),
		Followers:      followers,
	}, nil
}

func (s *Service) fetchFollowerPage(ctx context.Context, strategy, userID, pageToken string) (cache.FollowerPage, error) {
	if strategy == StrategyGQLChunk {
		params := url.Values{"user_id": {userID}}
		if pageToken != "" {
			params.Set("end_cursor", pageToken)
		}
		var chunk hiker.FollowerChunk
		if err := s.client.GetJSON(ctx, hiker.EndpointFollowersChunk, params, &chunk); err != nil {
			return cache.FollowerPage{}, err
		}
		return cache.FollowerPage{
			SourceEndpoint: hiker.EndpointFollowersChunk,
			Users:          chunk.Users,
			NextPageID:     chunk.Cursor,
		}, nil
	}

	endpoint := strategyEndpoint(strategy)
	params := url.Values{"user_id": {userID}}
	if pageToken != "" {
		params.Set("page_id", pageToken)
	}
	var payload hiker.RawFollowerPage
	if err := s.client.GetJSON(ctx, endpoint, params, &payload); err != nil {
		return cache.FollowerPage{}, err
	}
	if payload.Response == nil {
		return cache.FollowerPage{}, errors.New(errors.ErrorTypeUnexpectedShape, "followers page from %s carried no response object", endpoint)
	}
	return cache.FollowerPage{
		SourceEndpoint: endpoint,
		Users:          payload.Response.Users,
		NextPageID:     payload.NextCursor(),
	}, nil
}

// TopFollowersOptions bound one sampled follower ranking.
type TopFollowersOptions struct {
	SampleSize int
	TopN       int
	MaxPages   int
	Strategy   string
}

// TopFollowers computes an explicitly approximate follower ranking from
// a bounded sample: collect unique previews across up to MaxPages
// follower pages, enrich the sample, rank by follower count. The
// budget ledger reports what the sampling cost.
func (s *Service) TopFollowers(ctx context.Context, target string, opts TopFollowersOptions) (*models.TopFollowers, error) {
	sampleSize := clampInt(opts.SampleSize, 5, 50)
	topN := clampInt(opts.TopN, 1, 20)
	maxPages := clampInt(opts.MaxPages, 1, 4)
	strategy := strings.ToLower(strings.TrimSpace(opts.Strategy))
	if strategy == "" {
		strategy = StrategyG2
	}

	firstPage, err := s.FollowersPage(ctx, target, "", 50, strategy)
	if err != nil {
		return nil, err
	}

	var sampled []models.FollowerPreview
	seen := make(map[string]struct{})
	extend := func(items []models.FollowerPreview) {
		for _, item := range items {
			if len(sampled) >= sampleSize {
				return
			}
			key := normalize.UsernameKey(item.Username)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			sampled = append(sampled, item)
		}
	}

	extend(firstPage.Followers)
	nextPageID := firstPage.NextPageID
	pagesUsed := 1
	pageRequests := 1

	for len(sampled) < sampleSize && nextPageID != "" && pagesUsed < maxPages {
		page, err := s.FollowersPage(ctx, firstPage.TargetUsername, nextPageID, 50, strategy)
		if err != nil {
			return nil, err
		}
		pageRequests++
		pagesUsed++
		nextPageID = page.NextPageID
		extend(page.Followers)
	}

	profileLookups := 0
	cacheHits := 0
	usernames := make([]string, 0, len(sampled))
	for _, item := range sampled {
		if item.Username == "" {
			continue
		}
		if s.session.UsersByName.Contains(normalize.UsernameKey(item.Username)) {
			cacheHits++
		} else {
			profileLookups++
		}
		usernames = append(usernames, item.Username)
	}

	enriched := s.enrichFollowerSample(ctx, usernames)
	rank.SortTopFollowers(enriched)
	ranked := enriched
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	return &models.TopFollowers{
		EntityType:          "top_followers_sample",
		TargetUsername:      firstPage.TargetUsername,
		UserID:              firstPage.UserID,
		SampleSizeRequested: sampleSize,
		SampleSizeCollected: len(sampled),
		EnrichedCount:       len(enriched),
		TopN:                topN,
		PagesUsed:           pagesUsed,
		HasMoreFollowers:    nextPageID != "",
		NextPageID:          nextPageID,
		SourceEndpoint:      strategyEndpoint(strategy),
		Approximate:         true,
		ApproximationNote: "This ranking is computed from a limited sampled subset of followers to control API spend. " +
			"It is not a full-account ranking.",
		Budget: models.PageBudget{
			PageRequests:           pageRequests,
			ProfileLookups:         profileLookups,
			ProfileCacheHits:       cacheHits,
			EstimatedTotalRequests: pageRequests + profileLookups + 1,
		},
		Profile:          firstPage.Profile,
		Followers:        ranked,
		SampledUsernames: usernames,
	}, nil
}

// enrichFollowerSample resolves sampled usernames to full profiles with
// a small dedicated pool. Failed usernames are dropped from the ranking
// rather than failing the whole sample.
func (s *Service) enrichFollowerSample(ctx context.Context, usernames []string) []models.Profile {
	if len(usernames) == 0 {
		return nil
	}

	workers := len(usernames)
	if workers > 4 {
		workers = 4
	}
	pool := enrich.NewPool(workers, s.cfg.Enrich.RetryAttempts+1, s.cfg.Enrich.RetryDelay, s.logger)

	fetch := func(ctx context.Context, username string) (models.Profile, error) {
		user, err := s.userByUsername(ctx, username)
		if err != nil {
			return models.Profile{}, err
		}
		profile := normalize.Profile(user, username)
		profile.EntityType = models.EntityFollowerProfile
		return profile, nil
	}

	results, err := pool.Run(ctx, usernames, fetch, nil)
	if err != nil {
		s.logger.WithError(err).Warn("some sampled followers could not be enriched")
	}

	enriched := make([]models.Profile, 0, len(results))
	for _, username := range usernames {
		if profile, ok := results[username]; ok {
			enriched = append(enriched, profile)
		}
	}
	return enriched
}
