package analytics

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"igstats/pkg/cache"
	"igstats/pkg/errors"
	"igstats/pkg/hiker"
	"igstats/pkg/models"
	"igstats/pkg/normalize"
)

// ProfileStats resolves a profile and probes its current stories count.
// A failing stories probe is captured as a note on the result, never as
// an error: the profile lookup already succeeded.
func (s *Service) ProfileStats(ctx context.Context, target string) (*models.ProfileStats, error) {
	_, user, err := s.userByTarget(ctx, target)
	if err != nil {
		return nil, err
	}

	result := &models.ProfileStats{
		Profile: normalize.Profile(user, target),
	}

	userID := user.UserID()
	if userID != "" {
		var feed hiker.RawStoryFeed
		params := url.Values{"user_id": {userID}}
		if probeErr := s.client.GetJSON(ctx, hiker.EndpointUserStories, params, &feed); probeErr != nil {
			result.StoriesError = probeErr.Error()
		} else {
			count := len(feed)
			hasStories := count > 0
			result.StoriesCount = &count
			result.HasStories = &hasStories
		}
	}
	return result, nil
}

// ProfileStories lists a profile's current stories. The raw feed is
// cached per user; limit 0 means all, otherwise clamped to 1..50.
func (s *Service) ProfileStories(ctx context.Context, target string, limit int) (*models.ProfileStories, error) {
	username, user, err := s.userByTarget(ctx, target)
	if err != nil {
		return nil, err
	}
	userID := user.UserID()
	if userID == "" {
		return nil, errors.New(errors.ErrorTypeUnexpectedShape, "profile %q has no user id", username)
	}

	raw, ok := s.session.Stories.Get(userID)
	if !ok {
		var feed hiker.RawStoryFeed
		params := url.Values{
			"user_id": {userID},
			"amount":  {strconv.Itoa(maxInt(0, limit))},
		}
		if err := s.client.GetJSON(ctx, hiker.EndpointUserStories, params, &feed); err != nil {
			return nil, err
		}
		raw = feed
		s.session.Stories.Put(userID, raw)
	}

	normalized := make([]models.Story, 0, len(raw))
	for i := range raw {
		normalized = append(normalized, normalize.StoryRecord(&raw[i]))
	}

	stories := normalized
	if limit > 0 {
		requested := clampInt(limit, 1, 50)
		if len(stories) > requested {
			stories = stories[:requested]
		}
	}

	displayName := user.Username.String()
	if displayName == "" {
		displayName = username
	}
	return &models.ProfileStories{
		EntityType:     "profile_stories",
		Username:       displayName,
		UserID:         userID,
		Profile:        normalize.Profile(user, username),
		Stories:        stories,
		Count:          len(stories),
		AvailableCount: len(normalized),
		SourceEndpoint: hiker.EndpointUserStories,
	}, nil
}

// ProfileHighlights lists a profile's highlight tray. The raw tray is
// cached per user; limit 0 means all, otherwise clamped to 1..50.
func (s *Service) ProfileHighlights(ctx context.Context, target string, limit int) (*models.ProfileHighlights, error) {
	username, user, err := s.userByTarget(ctx, target)
	if err != nil {
		return nil, err
	}
	userID := user.UserID()
	if userID == "" {
		return nil, errors.New(errors.ErrorTypeUnexpectedShape, "profile %q has no user id", username)
	}

	raw, ok := s.session.Highlights.Get(userID)
	if !ok {
		params := url.Values{
			"user_id": {userID},
			"amount":  {strconv.Itoa(maxInt(0, limit))},
		}
		var fetched []hiker.RawHighlight
		if err := s.client.GetJSON(ctx, hiker.EndpointUserHighlights, params, &fetched); err != nil {
			return nil, err
		}
		raw = fetched
		s.session.Highlights.Put(userID, raw)
	}

	normalized := make([]models.Highlight, 0, len(raw))
	for i := range raw {
		normalized = append(normalized, normalize.HighlightRecord(&raw[i]))
	}

	highlights := normalized
	if limit > 0 {
		requested := clampInt(limit, 1, 50)
		if len(highlights) > requested {
			highlights = highlights[:requested]
		}
	}

	displayName := user.Username.String()
	if displayName == "" {
		displayName = username
	}
	return &models.ProfileHighlights{
		EntityType:     "profile_highlights",
		Username:       displayName,
		UserID:         userID,
		Profile:        normalize.Profile(user, username),
		Highlights:     highlights,
		Count:          len(highlights),
		AvailableCount: len(normalized),
		SourceEndpoint: hiker.EndpointUserHighlights,
	}, nil
}

// HighlightByID fetches one highlight with its story items, cached by
// highlight id.
func (s *Service) HighlightByID(ctx context.Context, highlightID string) (*hiker.RawHighlight, error) {
	key := strings.TrimSpace(highlightID)
	if key == "" {
		return nil, errors.New(errors.ErrorTypeInvalidTarget, "highlight id is required")
	}
	if cached, ok := s.session.HighlightDetail.Get(key); ok {
		return cached, nil
	}

	var highlight hiker.RawHighlight
	if err := s.client.GetJSON(ctx, hiker.EndpointHighlightByID, url.Values{"id": {key}}, &highlight); err != nil {
		return nil, err
	}
	s.session.HighlightDetail.Put(key, &highlight)
	return &highlight, nil
}

// Topsearch runs a global search, caching by (query, cursor, flat).
// The query is lowercased for the cache key only; the upstream call
// keeps the caller's casing.
func (s *Service) Topsearch(ctx context.Context, query string, limit int, endCursor string, flat bool) (*models.SearchResults, error) {
	queryText := strings.TrimSpace(query)
	if queryText == "" {
		return nil, errors.New(errors.ErrorTypeInvalidTarget, "search query is required")
	}
	cursorText := strings.TrimSpace(endCursor)

	key := cache.SearchKey{Query: strings.ToLower(queryText), Cursor: cursorText, Flat: flat}
	payload, ok := s.session.Topsearch.Get(key)
	if !ok {
		params := url.Values{
			"query": {queryText},
			"flat":  {strconv.FormatBool(flat)},
		}
		if cursorText != "" {
			params.Set("end_cursor", cursorText)
		}
		var fetched hiker.RawTopsearch
		if err := s.client.GetJSON(ctx, hiker.EndpointTopsearch, params, &fetched); err != nil {
			return nil, err
		}
		payload = &fetched
		s.session.Topsearch.Put(key, payload)
	}

	normalized := make([]models.SearchResult, 0, len(payload.Items))
	for i := range payload.Items {
		normalized = append(normalized, normalize.SearchResultRecord(&payload.Items[i]))
	}

	requested := clampInt(limit, 1, 50)
	items := normalized
	if len(items) > requested {
		items = items[:requested]
	}

	return &models.SearchResults{
		EntityType:     "search_results",
		Query:          queryText,
		Count:          len(items),
		AvailableCount: len(normalized),
		Items:          items,
		EndCursor:      payload.EndCursor.String(),
		MoreAvailable:  payload.MoreAvailable,
		SourceEndpoint: hiker.EndpointTopsearch,
	}, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
