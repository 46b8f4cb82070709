package analytics

import (
	"context"
	"net/url"

	"igstats/pkg/errors"
	"igstats/pkg/hiker"
	"igstats/pkg/models"
	"igstats/pkg/normalize"
)

// ReelStats fetches one reel and computes its engagement and virality
// metrics. Unlike MediaInfo this always hits the upstream so the
// counters are fresh.
func (s *Service) ReelStats(ctx context.Context, reelURL string) (*models.Reel, error) {
	shortcode := normalize.ExtractShortcode(reelURL)
	if shortcode == "" {
		return nil, errors.New(errors.ErrorTypeInvalidTarget, "invalid reel URL: %q", reelURL)
	}

	var media hiker.RawMedia
	if err := s.client.GetJSON(ctx, hiker.EndpointMediaByCode, url.Values{"code": {shortcode}}, &media); err != nil {
		return nil, err
	}
	s.session.MediaInfo.Put(shortcode, &media)

	reel := normalize.Reel(&media, reelURL)
	return &reel, nil
}

// mediaRaw resolves a media URL to its cached raw payload plus the
// normalized identity record.
func (s *Service) mediaRaw(ctx context.Context, mediaURL string) (*hiker.RawMedia, models.Media, error) {
	shortcode := normalize.ExtractShortcode(mediaURL)
	if shortcode == "" {
		return nil, models.Media{}, errors.New(errors.ErrorTypeInvalidTarget, "invalid media URL: %q", mediaURL)
	}

	media, ok := s.session.MediaInfo.Get(shortcode)
	if !ok {
		var fetched hiker.RawMedia
		if err := s.client.GetJSON(ctx, hiker.EndpointMediaByCode, url.Values{"code": {shortcode}}, &fetched); err != nil {
			return nil, models.Media{}, err
		}
		media = &fetched
		s.session.MediaInfo.Put(shortcode, media)
	}
	return media, normalize.MediaRecord(media, mediaURL, shortcode), nil
}

// MediaInfo resolves a media URL to its identity record, cached by
// shortcode for the session.
func (s *Service) MediaInfo(ctx context.Context, mediaURL string) (*models.Media, error) {
	_, record, err := s.mediaRaw(ctx, mediaURL)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MediaLikers lists the liker previews of one media. The upstream list
// may be capped; returned < advertised marks the result capped with an
// explanatory note. Cached by media pk.
func (s *Service) MediaLikers(ctx context.Context, mediaURL string) (*models.MediaLikers, error) {
	_, media, err := s.mediaRaw(ctx, mediaURL)
	if err != nil {
		return nil, err
	}
	if media.MediaPK == "" {
		return nil, errors.New(errors.ErrorTypeUnexpectedShape, "media %s has no numeric id for likers lookup", media.Shortcode)
	}

	if cached, ok := s.session.MediaLikers.Get(media.MediaPK); ok {
		return cached, nil
	}

	var rawLikers []hiker.RawUser
	if err := s.client.GetJSON(ctx, hiker.EndpointMediaLikers, url.Values{"id": {media.MediaPK}}, &rawLikers); err != nil {
		return nil, err
	}

	likers := make([]models.FollowerPreview, 0, len(rawLikers))
	for i := range rawLikers {
		user := &rawLikers[i]
		if user.UserID() == "" || user.Username == "" {
			continue
		}
		likers = append(likers, normalize.LikerPreview(user))
	}

	isCapped := int64(len(likers)) < media.LikeCount
	result := &models.MediaLikers{
		EntityType:         "media_likers",
		Media:              media,
		Likers:             likers,
		ReturnedCount:      len(likers),
		AvailableLikeCount: media.LikeCount,
		IsCapped:           isCapped,
	}
	if isCapped {
		result.CapNote = "The media likers endpoint may return a capped list instead of all likes."
	}
	s.session.MediaLikers.Put(media.MediaPK, result)
	return result, nil
}

// MediaComments lists the comments of one media. The full upstream
// list is cached by media pk; the per-call limit (clamped 1..50) only
// truncates the cached list.
func (s *Service) MediaComments(ctx context.Context, mediaURL string, limit int) (*models.MediaComments, error) {
	_, media, err := s.mediaRaw(ctx, mediaURL)
	if err != nil {
		return nil, err
	}
	if media.MediaPK == "" {
		return nil, errors.New(errors.ErrorTypeUnexpectedShape, "media %s has no numeric id for comments lookup", media.Shortcode)
	}

	full, ok := s.session.MediaComments.Get(media.MediaPK)
	if !ok {
		var rawComments []hiker.RawComment
		if err := s.client.GetJSON(ctx, hiker.EndpointMediaComments, url.Values{"id": {media.MediaPK}}, &rawComments); err != nil {
			return nil, err
		}

		comments := make([]models.Comment, 0, len(rawComments))
		for i := range rawComments {
			comments = append(comments, normalize.CommentRecord(&rawComments[i]))
		}

		isCapped := int64(len(comments)) < media.CommentCount
		full = &models.MediaComments{
			EntityType:            "media_comments",
			Media:                 media,
			Comments:              comments,
			ReturnedCount:         len(comments),
			AvailableCommentCount: media.CommentCount,
			IsCapped:              isCapped,
		}
		if isCapped {
			full.CapNote = "The media comments endpoint may return a capped list instead of all comments."
		}
		s.session.MediaComments.Put(media.MediaPK, full)
	}

	requested := clampInt(limit, 1, 50)
	view := *full
	if len(view.Comments) > requested {
		view.Comments = view.Comments[:requested]
	}
	view.ReturnedCount = len(view.Comments)
	return &view, nil
}
