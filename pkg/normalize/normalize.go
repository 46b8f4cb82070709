// Package normalize converts raw upstream payloads into the stable
// records of pkg/models. Everything here is pure: no I/O, and malformed
// input degrades to zero values instead of failing.
package normalize

import (
	"math"
	"time"

	"igstats/pkg/hiker"
	"igstats/pkg/models"
)

// FormatTimestamps renders a unix timestamp as ISO-8601 in UTC and in
// the local timezone. A zero timestamp yields empty strings.
func FormatTimestamps(ts hiker.Timestamp) (utc string, local string) {
	if ts.IsZero() {
		return "", ""
	}
	t := ts.Time()
	return t.Format(time.RFC3339), t.Local().Format(time.RFC3339)
}

// Virality holds the derived virality metrics of a media item.
type Virality struct {
	Index       float64
	Status      string
	Label       string
	WeightedRaw int64
}

// CalculateVirality computes the weighted virality score. Below 1000
// views the signal is too thin to classify, whatever the engagement.
func CalculateVirality(views, likes, comments, saves int64) Virality {
	if views < 1000 {
		return Virality{Status: "unknown", Label: "insufficient_data"}
	}

	weighted := likes + 3*comments + 4*saves
	denominator := views
	if denominator < 1 {
		denominator = 1
	}
	index := round2(100.0 * float64(weighted) / float64(denominator))

	var status string
	switch {
	case index >= 10:
		status = "viral"
	case index >= 6:
		status = "strong"
	case index >= 3:
		status = "normal"
	case index >= 1:
		status = "weak"
	default:
		status = "non_viral"
	}

	return Virality{
		Index:       index,
		Status:      status,
		Label:       status,
		WeightedRaw: weighted,
	}
}

// EngagementRate is (likes+comments+saves)/views rounded to 4 decimals,
// exactly 0 when there are no views.
func EngagementRate(engagementRaw, views int64) float64 {
	if views <= 0 {
		return 0.0
	}
	return round4(float64(engagementRaw) / float64(views))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

// Profile converts a raw user payload into a full profile record.
func Profile(user *hiker.RawUser, input string) models.Profile {
	username := user.Username.String()
	if username == "" {
		username = input
	}
	return models.Profile{
		EntityType:    models.EntityProfile,
		Input:         input,
		Username:      username,
		UserID:        user.UserID(),
		FullName:      user.FullName.String(),
		IsPrivate:     user.IsPrivate,
		IsVerified:    user.IsVerified,
		Followers:     user.FollowerTotal(),
		Following:     user.FollowingTotal(),
		Posts:         user.PostTotal(),
		Biography:     user.Biography.String(),
		ExternalURL:   user.ExternalURL.String(),
		ProfilePicURL: user.ProfilePicURL.String(),
	}
}

// FollowerPreview converts a listing-page user into a preview record.
func FollowerPreview(user *hiker.RawUser, source string) models.FollowerPreview {
	return models.FollowerPreview{
		EntityType:     models.EntityFollowerPreview,
		UserID:         user.UserID(),
		Username:       user.Username.String(),
		FullName:       user.FullName.String(),
		IsPrivate:      user.IsPrivate,
		IsVerified:     user.IsVerified,
		ProfilePicURL:  user.ProfilePicURL.String(),
		HasStoryRing:   user.HasStoryRing(),
		SourceEndpoint: source,
	}
}

// LikerPreview converts a liker-list user into a preview record.
func LikerPreview(user *hiker.RawUser) models.FollowerPreview {
	return models.FollowerPreview{
		EntityType:    models.EntityLikerPreview,
		UserID:        user.UserID(),
		Username:      user.Username.String(),
		FullName:      user.FullName.String(),
		IsPrivate:     user.IsPrivate,
		IsVerified:    user.IsVerified,
		ProfilePicURL: user.ProfilePicURL.String(),
	}
}

// Reel converts a raw media payload into a reel record with derived
// engagement and virality metrics. reelURL may be empty for items from
// a listing crawl.
func Reel(media *hiker.RawMedia, reelURL string) models.Reel {
	views := media.Views()
	likes := media.LikeTotal()
	comments := media.CommentTotal()
	saves := media.SaveTotal()
	engagementRaw := likes + comments + saves

	username := ""
	if owner := media.OwnerUser(); owner != nil {
		username = owner.Username.String()
	}
	if username == "" {
		username = media.Username.String()
	}

	shortcode := media.Code.String()
	if shortcode == "" && reelURL != "" {
		shortcode = ExtractShortcode(reelURL)
	}
	url := reelURL
	if url == "" {
		url = hiker.ReelURL(shortcode)
	}

	takenAt := media.BestTakenAt()
	publishedUTC, publishedLocal := FormatTimestamps(takenAt)
	virality := CalculateVirality(views, likes, comments, saves)

	return models.Reel{
		EntityType:            models.EntityReel,
		URL:                   url,
		Shortcode:             shortcode,
		Username:              username,
		MediaType:             int64(media.MediaType),
		ProductType:           media.ProductType.String(),
		Caption:               media.CaptionString(),
		PublishedAtUTC:        publishedUTC,
		PublishedAtLocal:      publishedLocal,
		TakenAt:               takenAt.Unix(),
		Views:                 views,
		Likes:                 likes,
		Comments:              comments,
		Saves:                 saves,
		EngagementRaw:         engagementRaw,
		EngagementRate:        EngagementRate(engagementRaw, views),
		ViralIndex:            virality.Index,
		ViralStatus:           virality.Status,
		ViralLabel:            virality.Label,
		ViralityEngagementRaw: virality.WeightedRaw,
	}
}

// MediaRecord converts a raw media payload into a media identity record.
func MediaRecord(media *hiker.RawMedia, mediaURL, fallbackShortcode string) models.Media {
	shortcode := media.Code.String()
	if shortcode == "" {
		shortcode = fallbackShortcode
	}

	username := ""
	ownerID := ""
	if owner := media.OwnerUser(); owner != nil {
		username = owner.Username.String()
		ownerID = owner.UserID()
	}

	publishedUTC, publishedLocal := FormatTimestamps(media.BestTakenAt())

	return models.Media{
		EntityType:       models.EntityMedia,
		URL:              mediaURL,
		Shortcode:        shortcode,
		MediaPK:          media.MediaPK(),
		MediaID:          media.ID.String(),
		MediaType:        int64(media.MediaType),
		ProductType:      media.ProductType.String(),
		Username:         username,
		OwnerUserID:      ownerID,
		PublishedAtUTC:   publishedUTC,
		PublishedAtLocal: publishedLocal,
		LikeCount:        media.LikeTotal(),
		CommentCount:     media.CommentTotal(),
		ViewCount:        media.Views(),
	}
}

// CommentRecord converts a raw comment payload.
func CommentRecord(comment *hiker.RawComment) models.Comment {
	createdUTC, createdLocal := FormatTimestamps(comment.BestCreatedAt())

	record := models.Comment{
		EntityType:      models.EntityMediaComment,
		CommentID:       comment.CommentID(),
		Text:            comment.Text.String(),
		LikeCount:       comment.LikeTotal(),
		CreatedAtUTC:    createdUTC,
		CreatedAtLocal:  createdLocal,
		ParentCommentID: comment.ParentCommentID.String(),
	}
	if comment.User != nil {
		record.UserID = comment.User.UserID()
		record.Username = comment.User.Username.String()
		record.FullName = comment.User.FullName.String()
		record.IsPrivate = comment.User.IsPrivate
		record.IsVerified = comment.User.IsVerified
	}
	return record
}

// StoryRecord converts a raw story payload.
func StoryRecord(story *hiker.RawStory) models.Story {
	publishedUTC, publishedLocal := FormatTimestamps(story.TakenAt)

	record := models.Story{
		EntityType:       models.EntityStory,
		StoryID:          story.StoryID(),
		Code:             story.Code.String(),
		MediaType:        int64(story.MediaType),
		ProductType:      story.ProductType.String(),
		PublishedAtUTC:   publishedUTC,
		PublishedAtLocal: publishedLocal,
		VideoURL:         story.VideoURL.String(),
		ImageURL:         story.ThumbnailURL.String(),
		ThumbnailURL:     story.ThumbnailURL.String(),
		IsVideo:          story.VideoURL != "",
	}
	if story.User != nil {
		record.Username = story.User.Username.String()
	}
	return record
}

// HighlightRecord converts a raw highlight payload.
func HighlightRecord(highlight *hiker.RawHighlight) models.Highlight {
	createdUTC, createdLocal := FormatTimestamps(highlight.CreatedAt)

	record := models.Highlight{
		EntityType:     models.EntityHighlight,
		HighlightID:    highlight.HighlightID(),
		Title:          highlight.Title.String(),
		MediaCount:     int64(highlight.MediaCount),
		CreatedAtUTC:   createdUTC,
		CreatedAtLocal: createdLocal,
		IsPinned:       highlight.IsPinnedHighlight,
	}
	if highlight.User != nil {
		record.Username = highlight.User.Username.String()
	}
	return record
}

// SearchResultRecord converts a raw topsearch hit into a typed result,
// classifying it as a profile or media hit.
func SearchResultRecord(item *hiker.RawSearchItem) models.SearchResult {
	username := item.Username.String()
	shortcode := item.Code.String()

	resultType := "unknown"
	switch {
	case item.Typename == "XDTUserDict" || username != "":
		resultType = "profile"
	case item.Typename == "XDTMediaDict" || shortcode != "":
		resultType = "media"
	}

	if username == "" && item.User != nil {
		username = item.User.Username.String()
	}

	thumbnail := item.ThumbnailURL.String()
	if thumbnail == "" {
		thumbnail = item.ProfilePicURL.String()
	}
	if thumbnail == "" {
		thumbnail = BestImageURL(item.ImageVersions)
	}

	mediaURL := ""
	if shortcode != "" {
		mediaURL = hiker.ReelURL(shortcode)
	}

	caption := item.CaptionText.String()
	if caption == "" {
		caption = item.Title.String()
	}

	return models.SearchResult{
		EntityType:        models.EntitySearchResult,
		ResultType:        resultType,
		Typename:          item.Typename.String(),
		ID:                item.ItemID(),
		Username:          username,
		FullName:          item.FullName.String(),
		IsPrivate:         item.IsPrivate,
		IsVerified:        item.IsVerified,
		ProfilePicURL:     item.ProfilePicURL.String(),
		ThumbnailURL:      thumbnail,
		Shortcode:         shortcode,
		MediaURL:          mediaURL,
		Caption:           caption,
		Subtitle:          item.Subtitle.String(),
		SecondarySubtitle: item.SecondarySub.String(),
	}
}
