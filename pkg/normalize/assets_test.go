package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igstats/pkg/hiker"
	"igstats/pkg/models"
)

func TestBestImageURL(t *testing.T) {
	candidates := []hiker.RawVariant{
		{URL: "small", Width: 320},
		{URL: "large", Width: 1080},
		{URL: "medium", Width: 640},
	}
	assert.Equal(t, "large", BestImageURL(candidates))

	t.Run("last wins among equal widths", func(t *testing.T) {
		tied := []hiker.RawVariant{
			{URL: "first", Width: 1080},
			{URL: "second", Width: 1080},
		}
		assert.Equal(t, "second", BestImageURL(tied))
	})

	t.Run("empty urls skipped", func(t *testing.T) {
		assert.Equal(t, "only", BestImageURL([]hiker.RawVariant{
			{URL: "", Width: 9999},
			{URL: "only", Width: 1},
		}))
	})

	assert.Empty(t, BestImageURL(nil))
}

func TestBestVideoURL(t *testing.T) {
	candidates := []hiker.RawVariant{
		{URL: "sd", Height: 480},
		{URL: "hd", Height: 1920},
	}
	assert.Equal(t, "hd", BestVideoURL(candidates))
}

func TestMediaAssetsCarousel(t *testing.T) {
	media := hiker.RawMedia{
		Code: "Cmix123",
		Resources: []hiker.RawResource{
			{MediaType: 1, ImageVersions: []hiker.RawVariant{{URL: "https://cdn.example.com/a.jpg", Width: 1080}}},
			{MediaType: 2, VideoURL: "https://cdn.example.com/b.mp4"},
			{MediaType: 1, ThumbnailURL: "https://cdn.example.com/c.jpg"},
		},
	}

	assets := MediaAssets(&media)
	require.Len(t, assets, 3)

	assert.Equal(t, "image", assets[0].Kind)
	assert.Equal(t, 1, assets[0].Index)
	assert.Equal(t, ".jpg", assets[0].Extension)

	assert.Equal(t, "video", assets[1].Kind)
	assert.Equal(t, 2, assets[1].Index)
	assert.Equal(t, ".mp4", assets[1].Extension)

	assert.Equal(t, "image", assets[2].Kind)
	assert.Equal(t, "https://cdn.example.com/c.jpg", assets[2].URL)

	for _, asset := range assets {
		assert.Equal(t, "Cmix123", asset.Shortcode)
	}
}

func TestMediaAssetsSingleVideoBeatsImage(t *testing.T) {
	media := hiker.RawMedia{
		Code:          "Cvid456",
		VideoVersions: []hiker.RawVariant{{URL: "https://cdn.example.com/v.mp4", Height: 1920}},
		ImageVersions: []hiker.RawVariant{{URL: "https://cdn.example.com/i.jpg", Width: 1080}},
	}

	assets := MediaAssets(&media)
	require.Len(t, assets, 1)
	assert.Equal(t, "video", assets[0].Kind)
	assert.Equal(t, "https://cdn.example.com/v.mp4", assets[0].URL)
}

func TestMediaAssetsEmpty(t *testing.T) {
	assert.Empty(t, MediaAssets(&hiker.RawMedia{Code: "Cnone"}))
}

func TestStoryAsset(t *testing.T) {
	t.Run("video story", func(t *testing.T) {
		asset, ok := StoryAsset(models.Story{
			StoryID:  "555",
			VideoURL: "https://cdn.example.com/s.mp4",
			IsVideo:  true,
		}, 3)
		require.True(t, ok)
		assert.Equal(t, "video", asset.Kind)
		assert.Equal(t, 3, asset.Index)
		assert.Equal(t, "555", asset.StoryID)
	})

	t.Run("image fallback", func(t *testing.T) {
		asset, ok := StoryAsset(models.Story{ImageURL: "https://cdn.example.com/s.jpg"}, 1)
		require.True(t, ok)
		assert.Equal(t, "image", asset.Kind)
	})

	t.Run("no url", func(t *testing.T) {
		_, ok := StoryAsset(models.Story{StoryID: "556"}, 1)
		assert.False(t, ok)
	})
}

func TestAudioTrack(t *testing.T) {
	t.Run("original sound preferred", func(t *testing.T) {
		media := hiker.RawMedia{
			ClipsMetadata: &hiker.RawClipsMetadata{
				OriginalSoundInfo: &hiker.RawSoundInfo{
					ProgressiveDownloadURL: "https://cdn.example.com/orig.m4a",
					OriginalAudioTitle:     "original audio",
				},
				MusicInfo: &hiker.RawMusicInfo{
					MusicAssetInfo: &hiker.RawMusicAsset{
						ProgressiveDownloadURL: "https://cdn.example.com/music.m4a",
						Title:                  "licensed song",
					},
				},
			},
		}
		track, ok := AudioTrack(&media, "", "")
		require.True(t, ok)
		assert.Equal(t, "https://cdn.example.com/orig.m4a", track.AudioURL)
		assert.Equal(t, "licensed song", track.Title)
		assert.Equal(t, ".m4a", track.Extension)
	})

	t.Run("music asset fallback chain", func(t *testing.T) {
		media := hiker.RawMedia{
			ClipsMetadata: &hiker.RawClipsMetadata{
				MusicInfo: &hiker.RawMusicInfo{
					MusicAssetInfo: &hiker.RawMusicAsset{
						PreviewAudioURL: "https://cdn.example.com/preview.m4a",
						DisplayArtist:   "the artist",
					},
				},
			},
		}
		track, ok := AudioTrack(&media, "fallback title", "")
		require.True(t, ok)
		assert.Equal(t, "https://cdn.example.com/preview.m4a", track.AudioURL)
		assert.Equal(t, "fallback title", track.Title)
		assert.Equal(t, "the artist", track.Artist)
	})

	t.Run("no audio", func(t *testing.T) {
		_, ok := AudioTrack(&hiker.RawMedia{}, "", "")
		assert.False(t, ok)

		_, ok = AudioTrack(&hiker.RawMedia{ClipsMetadata: &hiker.RawClipsMetadata{}}, "", "")
		assert.False(t, ok)
	})
}
