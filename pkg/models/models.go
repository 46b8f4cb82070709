// Package models defines the normalized records and result envelopes
// returned by the analytics operations. All records are value-like and
// owned by the caller that receives them.
package models

// Entity type discriminants carried on records and envelopes.
const (
	EntityProfile         = "profile"
	EntityFollowerProfile = "follower_profile"
	EntityReel            = "reel"
	EntityReelPreview     = "reel_preview"
	EntityMedia           = "media"
	EntityFollowerPreview = "follower_preview"
	EntityLikerPreview    = "media_liker_preview"
	EntityMediaComment    = "media_comment"
	EntityStory           = "story"
	EntityHighlight       = "highlight"
	EntitySearchResult    = "search_result"
)

// Profile is a full user profile record. Identity is UserID; the
// username may change between sessions.
type Profile struct {
	EntityType    string `json:"entity_type"`
	Input         string `json:"input,omitempty"`
	Username      string `json:"username"`
	UserID        string `json:"user_id"`
	FullName      string `json:"full_name,omitempty"`
	IsPrivate     bool   `json:"is_private"`
	IsVerified    bool   `json:"is_verified"`
	Followers     int64  `json:"followers"`
	Following     int64  `json:"following"`
	Posts         int64  `json:"posts"`
	Biography     string `json:"biography,omitempty"`
	ExternalURL   string `json:"external_url,omitempty"`
	ProfilePicURL string `json:"profile_pic_url,omitempty"`
}

// Reel is a normalized reel/media record with derived engagement and
// virality metrics.
type Reel struct {
	EntityType            string  `json:"entity_type"`
	URL                   string  `json:"url,omitempty"`
	Shortcode             string  `json:"shortcode,omitempty"`
	Username              string  `json:"username,omitempty"`
	MediaType             int64   `json:"media_type,omitempty"`
	ProductType           string  `json:"product_type,omitempty"`
	Caption               string  `json:"caption,omitempty"`
	PublishedAtUTC        string  `json:"published_at_utc,omitempty"`
	PublishedAtLocal      string  `json:"published_at_local,omitempty"`
	TakenAt               int64   `json:"taken_at_ts,omitempty"`
	Views                 int64   `json:"views"`
	Likes                 int64   `json:"likes"`
	Comments              int64   `json:"comments"`
	Saves                 int64   `json:"saves"`
	EngagementRaw         int64   `json:"engagement_raw"`
	EngagementRate        float64 `json:"engagement_rate"`
	ViralIndex            float64 `json:"viral_index"`
	ViralStatus           string  `json:"viral_status"`
	ViralLabel            string  `json:"viral_label"`
	ViralityEngagementRaw int64   `json:"virality_engagement_raw"`
}

// Media identifies a media item by shortcode (public) and media pk
// (numeric, required by the likers and comments endpoints).
type Media struct {
	EntityType       string `json:"entity_type"`
	URL              string `json:"url,omitempty"`
	Shortcode        string `json:"shortcode"`
	MediaPK          string `json:"media_pk,omitempty"`
	MediaID          string `json:"media_id,omitempty"`
	MediaType        int64  `json:"media_type,omitempty"`
	ProductType      string `json:"product_type,omitempty"`
	Username         string `json:"username,omitempty"`
	OwnerUserID      string `json:"owner_user_id,omitempty"`
	PublishedAtUTC   string `json:"published_at_utc,omitempty"`
	PublishedAtLocal string `json:"published_at_local,omitempty"`
	LikeCount        int64  `json:"like_count"`
	CommentCount     int64  `json:"comment_count"`
	ViewCount        int64  `json:"view_count"`
}

// FollowerPreview is a cheap listing-page entry, distinct from a full
// Profile record.
type FollowerPreview struct {
	EntityType     string `json:"entity_type"`
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name,omitempty"`
	IsPrivate      bool   `json:"is_private"`
	IsVerified     bool   `json:"is_verified"`
	ProfilePicURL  string `json:"profile_pic_url,omitempty"`
	HasStoryRing   bool   `json:"has_story_ring,omitempty"`
	SourceEndpoint string `json:"source_endpoint,omitempty"`
}

// Comment is a normalized media comment.
type Comment struct {
	EntityType      string `json:"entity_type"`
	CommentID       string `json:"comment_id"`
	Text            string `json:"text,omitempty"`
	LikeCount       int64  `json:"like_count"`
	CreatedAtUTC    string `json:"created_at_utc,omitempty"`
	CreatedAtLocal  string `json:"created_at_local,omitempty"`
	UserID          string `json:"user_id,omitempty"`
	Username        string `json:"username,omitempty"`
	FullName        string `json:"full_name,omitempty"`
	IsPrivate       bool   `json:"is_private"`
	IsVerified      bool   `json:"is_verified"`
	ParentCommentID string `json:"parent_comment_id,omitempty"`
}

// Story is a normalized story item.
type Story struct {
	EntityType       string `json:"entity_type"`
	StoryID          string `json:"story_id"`
	Code             string `json:"code,omitempty"`
	MediaType        int64  `json:"media_type,omitempty"`
	ProductType      string `json:"product_type,omitempty"`
	Username         string `json:"username,omitempty"`
	PublishedAtUTC   string `json:"published_at_utc,omitempty"`
	PublishedAtLocal string `json:"published_at_local,omitempty"`
	VideoURL         string `json:"video_url,omitempty"`
	ImageURL         string `json:"image_url,omitempty"`
	ThumbnailURL     string `json:"thumbnail_url,omitempty"`
	IsVideo          bool   `json:"is_video"`
}

// Highlight is a normalized highlight tray entry.
type Highlight struct {
	EntityType     string `json:"entity_type"`
	HighlightID    string `json:"highlight_id"`
	Title          string `json:"title,omitempty"`
	Username       string `json:"username,omitempty"`
	MediaCount     int64  `json:"media_count"`
	CreatedAtUTC   string `json:"created_at_utc,omitempty"`
	CreatedAtLocal string `json:"created_at_local,omitempty"`
	IsPinned       bool   `json:"is_pinned_highlight"`
}

// SearchResult is a normalized topsearch hit, either a profile or a
// media item.
type SearchResult struct {
	EntityType        string `json:"entity_type"`
	ResultType        string `json:"result_type"`
	Typename          string `json:"typename,omitempty"`
	ID                string `json:"id,omitempty"`
	Username          string `json:"username,omitempty"`
	FullName          string `json:"full_name,omitempty"`
	IsPrivate         bool   `json:"is_private"`
	IsVerified        bool   `json:"is_verified"`
	ProfilePicURL     string `json:"profile_pic_url,omitempty"`
	ThumbnailURL      string `json:"thumbnail_url,omitempty"`
	Shortcode         string `json:"shortcode,omitempty"`
	MediaURL          string `json:"media_url,omitempty"`
	Caption           string `json:"caption,omitempty"`
	Subtitle          string `json:"search_subtitle,omitempty"`
	SecondarySubtitle string `json:"search_secondary_subtitle,omitempty"`
}
