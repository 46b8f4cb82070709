package normalize

import (
	"igstats/pkg/hiker"
	"igstats/pkg/models"
)

// BestImageURL selects the candidate with the largest width. Scanning
// uses >= so among equal widths the last one scanned wins.
func BestImageURL(candidates []hiker.RawVariant) string {
	best := ""
	bestWidth := int64(-1)
	for _, candidate := range candidates {
		url := candidate.URL.String()
		if url == "" {
			continue
		}
		if int64(candidate.Width) >= bestWidth {
			bestWidth = int64(candidate.Width)
			best = url
		}
	}
	return best
}

// BestVideoURL selects the candidate with the largest height, same
// tie-break rule as BestImageURL.
func BestVideoURL(candidates []hiker.RawVariant) string {
	best := ""
	bestHeight := int64(-1)
	for _, candidate := range candidates {
		url := candidate.URL.String()
		if url == "" {
			continue
		}
		if int64(candidate.Height) >= bestHeight {
			bestHeight = int64(candidate.Height)
			best = url
		}
	}
	return best
}

// MediaAssets flattens a media payload into downloadable assets. A
// carousel contributes one asset per resource; a single media item
// contributes its best video or image.
func MediaAssets(media *hiker.RawMedia) []models.Asset {
	shortcode := media.Code.String()
	var assets []models.Asset

	appendAsset := func(assetURL, kind string, index int, mediaType int64) {
		if assetURL == "" {
			return
		}
		fallback := ".jpg"
		if kind == "video" {
			fallback = ".mp4"
		}
		assets = append(assets, models.Asset{
			URL:       assetURL,
			Kind:      kind,
			Index:     index,
			MediaType: mediaType,
			Shortcode: shortcode,
			Extension: GuessExtension(assetURL, fallback),
		})
	}

	if len(media.Resources) > 0 {
		for i, resource := range media.Resources {
			videoURL := resource.VideoURL.String()
			if videoURL == "" {
				videoURL = BestVideoURL(resource.VideoVersions)
			}
			imageURL := BestImageURL(resource.ImageVersions)
			if imageURL == "" {
				imageURL = resource.ThumbnailURL.String()
			}
			if videoURL != "" {
				appendAsset(videoURL, "video", i+1, int64(resource.MediaType))
			} else {
				appendAsset(imageURL, "image", i+1, int64(resource.MediaType))
			}
		}
		return assets
	}

	videoURL := media.VideoURL.String()
	if videoURL == "" {
		videoURL = BestVideoURL(media.VideoVersions)
	}
	imageURL := BestImageURL(media.ImageVersions)
	if imageURL == "" {
		imageURL = media.ThumbnailURL.String()
	}
	if videoURL != "" {
		appendAsset(videoURL, "video", 1, int64(media.MediaType))
	} else {
		appendAsset(imageURL, "image", 1, int64(media.MediaType))
	}
	return assets
}

// StoryAsset converts a normalized story into a downloadable asset.
// Returns false when the story has no fetchable URL.
func StoryAsset(story models.Story, index int) (models.Asset, bool) {
	assetURL := story.VideoURL
	if assetURL == "" {
		assetURL = story.ImageURL
	}
	if assetURL == "" {
		assetURL = story.ThumbnailURL
	}
	if assetURL == "" {
		return models.Asset{}, false
	}

	kind := "image"
	fallback := ".jpg"
	if story.IsVideo {
		kind = "video"
		fallback = ".mp4"
	}
	return models.Asset{
		URL:            assetURL,
		Kind:           kind,
		Index:          index,
		StoryID:        story.StoryID,
		Code:           story.Code,
		PublishedAtUTC: story.PublishedAtUTC,
		Extension:      GuessExtension(assetURL, fallback),
	}, true
}

// AudioTrack extracts the downloadable audio of a clip from its
// metadata: original sound first, then licensed music. Returns false
// when the payload has no audio URL.
func AudioTrack(media *hiker.RawMedia, fallbackTitle, fallbackArtist string) (models.AudioTrack, bool) {
	var sound *hiker.RawSoundInfo
	var music *hiker.RawMusicAsset
	if media.ClipsMetadata != nil {
		sound = media.ClipsMetadata.OriginalSoundInfo
		if media.ClipsMetadata.MusicInfo != nil {
			music = media.ClipsMetadata.MusicInfo.MusicAssetInfo
		}
	}

	audioURL := ""
	if sound != nil {
		audioURL = firstNonEmpty(
			sound.ProgressiveDownloadURL.String(),
			sound.FastStartProgressiveDownloadURL.String(),
		)
	}
	if audioURL == "" && music != nil {
		audioURL = firstNonEmpty(
			music.ProgressiveDownloadURL.String(),
			music.FastStartProgressiveDownloadURL.String(),
			music.PreviewAudioURL.String(),
		)
	}
	if audioURL == "" {
		return models.AudioTrack{}, false
	}

	title := ""
	if music != nil {
		title = music.Title.String()
	}
	if title == "" && sound != nil {
		title = sound.OriginalAudioTitle.String()
	}
	if title == "" {
		title = fallbackTitle
	}
	if title == "" {
		title = "audio"
	}

	artist := ""
	if music != nil {
		artist = firstNonEmpty(music.DisplayArtist.String(), music.ArtistName.String())
	}
	if artist == "" {
		artist = fallbackArtist
	}

	return models.AudioTrack{
		Title:     title,
		Artist:    artist,
		AudioURL:  audioURL,
		Extension: GuessExtension(audioURL, ".m4a"),
	}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
