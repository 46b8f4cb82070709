package analytics

import (
	"context"
	"strings"

	"igstats/pkg/errors"
	"igstats/pkg/hiker"
	"igstats/pkg/models"
	"igstats/pkg/normalize"
)

// DownloadMediaPlan resolves a media URL to its downloadable assets:
// one per carousel resource, or the single best video/image.
func (s *Service) DownloadMediaPlan(ctx context.Context, mediaURL string) (*models.DownloadPlan, error) {
	raw, media, err := s.mediaRaw(ctx, mediaURL)
	if err != nil {
		return nil, err
	}

	assets := normalize.MediaAssets(raw)
	return &models.DownloadPlan{
		EntityType:     "download_plan",
		Kind:           models.DownloadKindMedia,
		TargetLabel:    targetLabel(media),
		SourceEndpoint: hiker.EndpointMediaByCode,
		Media:          &media,
		Assets:         assets,
		Count:          len(assets),
	}, nil
}

// DownloadMediaAudioPlan extracts the downloadable audio track of a
// clip from its metadata. A clip without any audio URL is an error.
func (s *Service) DownloadMediaAudioPlan(ctx context.Context, mediaURL string) (*models.DownloadPlan, error) {
	raw, media, err := s.mediaRaw(ctx, mediaURL)
	if err != nil {
		return nil, err
	}

	track, ok := normalize.AudioTrack(raw, media.Shortcode, media.Username)
	if !ok {
		return nil, errors.New(errors.ErrorTypeUnexpectedShape, "no downloadable audio URL in media %s", media.Shortcode)
	}

	asset := models.Asset{
		URL:       track.AudioURL,
		Kind:      "audio",
		Index:     1,
		Shortcode: media.Shortcode,
		Title:     track.Title,
		Artist:    track.Artist,
		Extension: track.Extension,
	}
	return &models.DownloadPlan{
		EntityType:     "download_plan",
		Kind:           models.DownloadKindMediaAudio,
		TargetLabel:    targetLabel(media),
		SourceEndpoint: hiker.EndpointMediaByCode,
		Media:          &media,
		AudioTrack:     &track,
		Assets:         []models.Asset{asset},
		Count:          1,
	}, nil
}

// DownloadStoriesPlan resolves a profile's current stories to assets.
// Stories without a fetchable URL are skipped silently.
func (s *Service) DownloadStoriesPlan(ctx context.Context, target string, limit int) (*models.DownloadPlan, error) {
	stories, err := s.ProfileStories(ctx, target, limit)
	if err != nil {
		return nil, err
	}

	var assets []models.Asset
	for i, story := range stories.Stories {
		if asset, ok := normalize.StoryAsset(story, i+1); ok {
			assets = append(assets, asset)
		}
	}

	profile := stories.Profile
	return &models.DownloadPlan{
		EntityType:     "download_plan",
		Kind:           models.DownloadKindStories,
		TargetLabel:    stories.Username,
		SourceEndpoint: stories.SourceEndpoint,
		Profile:        &profile,
		Stories:        stories.Stories,
		Assets:         assets,
		Count:          len(assets),
	}, nil
}

// DownloadHighlightsPlan resolves a profile's highlights to assets,
// optionally filtered by a case-insensitive title substring. Each
// selected highlight costs one detail fetch for its story items.
func (s *Service) DownloadHighlightsPlan(ctx context.Context, target, titleFilter string, limitHighlights int) (*models.DownloadPlan, error) {
	highlights, err := s.ProfileHighlights(ctx, target, limitHighlights)
	if err != nil {
		return nil, err
	}

	filter := strings.ToLower(strings.TrimSpace(titleFilter))
	var selected []models.Highlight
	for _, highlight := range highlights.Highlights {
		if filter != "" && !strings.Contains(strings.ToLower(highlight.Title), filter) {
			continue
		}
		selected = append(selected, highlight)
	}

	var assets []models.Asset
	for _, highlight := range selected {
		if highlight.HighlightID == "" {
			continue
		}
		detail, err := s.HighlightByID(ctx, highlight.HighlightID)
		if err != nil {
			return nil, err
		}
		for i := range detail.Items {
			story := normalize.StoryRecord(&detail.Items[i])
			asset, ok := normalize.StoryAsset(story, i+1)
			if !ok {
				continue
			}
			asset.HighlightID = highlight.HighlightID
			asset.HighlightTitle = highlight.Title
			assets = append(assets, asset)
		}
	}

	profile := highlights.Profile
	return &models.DownloadPlan{
		EntityType:     "download_plan",
		Kind:           models.DownloadKindHighlights,
		TargetLabel:    highlights.Username,
		SourceEndpoint: hiker.EndpointUserHighlights + " + " + hiker.EndpointHighlightByID,
		Profile:        &profile,
		Highlights:     selected,
		TitleFilter:    strings.TrimSpace(titleFilter),
		Assets:         assets,
		Count:          len(assets),
	}, nil
}

func targetLabel(media models.Media) string {
	if media.Shortcode != "" {
		return media.Shortcode
	}
	return media.URL
}
