package hiker

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Flexible scalar types for upstream payloads. The API mixes numbers,
// numeric strings and nulls for the same fields across endpoints, so
// decoding degrades to zero values instead of failing.

// Int accepts a JSON number, a numeric string, or null.
type Int int64

func (n *Int) UnmarshalJSON(b []byte) error {
	*n = 0
	var num json.Number
	if err := json.Unmarshal(b, &num); err == nil {
		if f, ferr := num.Float64(); ferr == nil {
			*n = Int(f)
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64); ferr == nil {
			*n = Int(f)
		}
	}
	return nil
}

// Str accepts a JSON string (trimmed), a number (rendered as its literal
// text, which keeps large ids exact), or null.
type Str string

func (s *Str) UnmarshalJSON(b []byte) error {
	*s = ""
	var v string
	if err := json.Unmarshal(b, &v); err == nil {
		*s = Str(strings.TrimSpace(v))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err == nil {
		*s = Str(num.String())
	}
	return nil
}

func (s Str) String() string { return string(s) }

// Timestamp is a unix timestamp in seconds. It accepts unix seconds,
// unix milliseconds (detected by magnitude), or an ISO-8601 string.
// Zero means absent or unparsable.
type Timestamp float64

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	*t = 0
	var num json.Number
	if err := json.Unmarshal(b, &num); err == nil {
		if f, ferr := num.Float64(); ferr == nil {
			*t = fromUnixAny(f)
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
		*t = fromUnixAny(f)
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if parsed, perr := time.Parse(layout, s); perr == nil {
			*t = Timestamp(float64(parsed.UnixNano()) / float64(time.Second))
			return nil
		}
	}
	return nil
}

func fromUnixAny(f float64) Timestamp {
	if f > 1e12 {
		f /= 1000.0
	}
	return Timestamp(f)
}

// Unix returns the timestamp as whole unix seconds.
func (t Timestamp) Unix() int64 { return int64(t) }

// IsZero reports whether the timestamp is absent.
func (t Timestamp) IsZero() bool { return t == 0 }

// Time converts to a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	sec := int64(t)
	nsec := int64((float64(t) - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC()
}

// RawVariant is one candidate rendition of an image or video.
type RawVariant struct {
	URL    Str `json:"url"`
	Width  Int `json:"width"`
	Height Int `json:"height"`
}

// RawUser is an upstream user payload: a full profile or a listing-page
// preview, depending on the endpoint.
type RawUser struct {
	PK             Str             `json:"pk"`
	ID             Str             `json:"id"`
	Username       Str             `json:"username"`
	FullName       Str             `json:"full_name"`
	IsPrivate      bool            `json:"is_private"`
	IsVerified     bool            `json:"is_verified"`
	FollowerCount  Int             `json:"follower_count"`
	Followers      Int             `json:"followers"`
	FollowingCount Int             `json:"following_count"`
	Following      Int             `json:"following"`
	MediaCount     Int             `json:"media_count"`
	Posts          Int             `json:"posts"`
	Biography      Str             `json:"biography"`
	ExternalURL    Str             `json:"external_url"`
	ProfilePicURL  Str             `json:"profile_pic_url"`
	Reel           json.RawMessage `json:"reel"`
}

// UserID returns the stable numeric id, preferring pk over id.
func (u *RawUser) UserID() string {
	if u.PK != "" {
		return u.PK.String()
	}
	return u.ID.String()
}

// HasStoryRing reports whether the listing payload carried a reel object.
func (u *RawUser) HasStoryRing() bool {
	trimmed := strings.TrimSpace(string(u.Reel))
	return trimmed != "" && trimmed != "null" && strings.HasPrefix(trimmed, "{")
}

// FollowerTotal returns the follower count under either field name.
func (u *RawUser) FollowerTotal() int64 {
	if u.FollowerCount != 0 {
		return int64(u.FollowerCount)
	}
	return int64(u.Followers)
}

// FollowingTotal returns the following count under either field name.
func (u *RawUser) FollowingTotal() int64 {
	if u.FollowingCount != 0 {
		return int64(u.FollowingCount)
	}
	return int64(u.Following)
}

// PostTotal returns the post count under either field name.
func (u *RawUser) PostTotal() int64 {
	if u.MediaCount != 0 {
		return int64(u.MediaCount)
	}
	return int64(u.Posts)
}

// RawCaption is a media caption object.
type RawCaption struct {
	Text Str `json:"text"`
}

// RawResource is one item of a carousel media payload.
type RawResource struct {
	MediaType     Int          `json:"media_type"`
	VideoURL      Str          `json:"video_url"`
	VideoVersions []RawVariant `json:"video_versions"`
	ImageVersions []RawVariant `json:"image_versions"`
	ThumbnailURL  Str          `json:"thumbnail_url"`
}

// RawSoundInfo is the original-audio block of clips metadata.
type RawSoundInfo struct {
	ProgressiveDownloadURL          Str `json:"progressive_download_url"`
	FastStartProgressiveDownloadURL Str `json:"fast_start_progressive_download_url"`
	OriginalAudioTitle              Str `json:"original_audio_title"`
}

// RawMusicAsset is the licensed-music block of clips metadata.
type RawMusicAsset struct {
	ProgressiveDownloadURL          Str `json:"progressive_download_url"`
	FastStartProgressiveDownloadURL Str `json:"fast_start_progressive_download_url"`
	PreviewAudioURL                 Str `json:"preview_audio_url"`
	Title                           Str `json:"title"`
	DisplayArtist                   Str `json:"display_artist"`
	ArtistName                      Str `json:"artist_name"`
}

// RawMusicInfo wraps the music asset info.
type RawMusicInfo struct {
	MusicAssetInfo *RawMusicAsset `json:"music_asset_info"`
}

// RawClipsMetadata carries the audio sources of a clip.
type RawClipsMetadata struct {
	OriginalSoundInfo *RawSoundInfo `json:"original_sound_info"`
	MusicInfo         *RawMusicInfo `json:"music_info"`
}

// RawMedia is an upstream media payload. Field aliases cover the
// different envelope variants the API returns per endpoint.
type RawMedia struct {
	PK                Str               `json:"pk"`
	ID                Str               `json:"id"`
	Code              Str               `json:"code"`
	MediaType         Int               `json:"media_type"`
	ProductType       Str               `json:"product_type"`
	User              *RawUser          `json:"user"`
	Owner             *RawUser          `json:"owner"`
	Username          Str               `json:"username"`
	Caption           *RawCaption       `json:"caption"`
	CaptionText       Str               `json:"caption_text"`
	Title             Str               `json:"title"`
	TakenAt           Timestamp         `json:"taken_at"`
	TakenAtTS         Timestamp         `json:"taken_at_ts"`
	CreatedTime       Timestamp         `json:"created_time"`
	Timestamp         Timestamp         `json:"timestamp"`
	PlayCount         Int               `json:"play_count"`
	VideoViewCount    Int               `json:"video_view_count"`
	ViewCount         Int               `json:"view_count"`
	ContentViewsCount Int               `json:"content_views_count"`
	LikeCount         Int               `json:"like_count"`
	Likes             Int               `json:"likes"`
	CommentCount      Int               `json:"comment_count"`
	Comments          Int               `json:"comments"`
	SaveCount         Int               `json:"save_count"`
	SavedCount        Int               `json:"saved_count"`
	SavesCount        Int               `json:"saves_count"`
	BookmarkCount     Int               `json:"bookmark_count"`
	VideoURL          Str               `json:"video_url"`
	VideoVersions     []RawVariant      `json:"video_versions"`
	ImageVersions     []RawVariant      `json:"image_versions"`
	ThumbnailURL      Str               `json:"thumbnail_url"`
	Resources         []RawResource     `json:"resources"`
	ClipsMetadata     *RawClipsMetadata `json:"clips_metadata"`
}

// MediaPK returns the numeric media id, preferring pk over id.
func (m *RawMedia) MediaPK() string {
	if m.PK != "" {
		return m.PK.String()
	}
	return m.ID.String()
}

// OwnerUser returns whichever owner object the payload carried.
func (m *RawMedia) OwnerUser() *RawUser {
	if m.User != nil {
		return m.User
	}
	return m.Owner
}

// BestTakenAt returns the first present timestamp alias.
func (m *RawMedia) BestTakenAt() Timestamp {
	for _, ts := range []Timestamp{m.TakenAt, m.TakenAtTS, m.CreatedTime, m.Timestamp} {
		if !ts.IsZero() {
			return ts
		}
	}
	return 0
}

// Views returns the first present view-count alias.
func (m *RawMedia) Views() int64 {
	for _, n := range []Int{m.PlayCount, m.VideoViewCount, m.ViewCount, m.ContentViewsCount} {
		if n != 0 {
			return int64(n)
		}
	}
	return 0
}

// LikeTotal returns the like count under either field name.
func (m *RawMedia) LikeTotal() int64 {
	if m.LikeCount != 0 {
		return int64(m.LikeCount)
	}
	return int64(m.Likes)
}

// CommentTotal returns the comment count under either field name.
func (m *RawMedia) CommentTotal() int64 {
	if m.CommentCount != 0 {
		return int64(m.CommentCount)
	}
	return int64(m.Comments)
}

// SaveTotal returns the first present save-count alias.
func (m *RawMedia) SaveTotal() int64 {
	for _, n := range []Int{m.SaveCount, m.SavedCount, m.SavesCount, m.BookmarkCount} {
		if n != 0 {
			return int64(n)
		}
	}
	return 0
}

// CaptionString returns the first present caption alias.
func (m *RawMedia) CaptionString() string {
	if m.Caption != nil && m.Caption.Text != "" {
		return m.Caption.Text.String()
	}
	if m.CaptionText != "" {
		return m.CaptionText.String()
	}
	return m.Title.String()
}

// RawComment is an upstream media comment payload.
type RawComment struct {
	PK               Str       `json:"pk"`
	ID               Str       `json:"id"`
	Text             Str       `json:"text"`
	CommentLikeCount Int       `json:"comment_like_count"`
	LikeCount        Int       `json:"like_count"`
	CreatedAtUTC     Timestamp `json:"created_at_utc"`
	CreatedAt        Timestamp `json:"created_at"`
	User             *RawUser  `json:"user"`
	ParentCommentID  Str       `json:"parent_comment_id"`
}

// CommentID returns the comment id, preferring pk over id.
func (c *RawComment) CommentID() string {
	if c.PK != "" {
		return c.PK.String()
	}
	return c.ID.String()
}

// LikeTotal returns the like count under either field name.
func (c *RawComment) LikeTotal() int64 {
	if c.CommentLikeCount != 0 {
		return int64(c.CommentLikeCount)
	}
	return int64(c.LikeCount)
}

// BestCreatedAt returns the first present timestamp alias.
func (c *RawComment) BestCreatedAt() Timestamp {
	if !c.CreatedAtUTC.IsZero() {
		return c.CreatedAtUTC
	}
	return c.CreatedAt
}

// RawStory is an upstream story payload, also used for highlight items.
type RawStory struct {
	PK           Str       `json:"pk"`
	ID           Str       `json:"id"`
	Code         Str       `json:"code"`
	MediaType    Int       `json:"media_type"`
	ProductType  Str       `json:"product_type"`
	User         *RawUser  `json:"user"`
	TakenAt      Timestamp `json:"taken_at"`
	ThumbnailURL Str       `json:"thumbnail_url"`
	VideoURL     Str       `json:"video_url"`
}

// StoryID returns the story id, preferring pk over id.
func (s *RawStory) StoryID() string {
	if s.PK != "" {
		return s.PK.String()
	}
	return s.ID.String()
}

// RawStoryFeed decodes the stories endpoint, which returns either a bare
// array or an {items: [...]} envelope.
type RawStoryFeed []RawStory

func (f *RawStoryFeed) UnmarshalJSON(b []byte) error {
	var direct []RawStory
	if err := json.Unmarshal(b, &direct); err == nil {
		*f = direct
		return nil
	}
	var wrapped struct {
		Items []RawStory `json:"items"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return fmt.Errorf("stories payload is neither a list nor an items envelope")
	}
	*f = wrapped.Items
	return nil
}

// RawHighlight is an upstream highlight payload; the detail endpoint
// additionally fills Items.
type RawHighlight struct {
	PK                Str        `json:"pk"`
	ID                Str        `json:"id"`
	Title             Str        `json:"title"`
	User              *RawUser   `json:"user"`
	MediaCount        Int        `json:"media_count"`
	CreatedAt         Timestamp  `json:"created_at"`
	IsPinnedHighlight bool       `json:"is_pinned_highlight"`
	Items             []RawStory `json:"items"`
}

// HighlightID returns the highlight id, preferring pk over id.
func (h *RawHighlight) HighlightID() string {
	if h.PK != "" {
		return h.PK.String()
	}
	return h.ID.String()
}

// RawSearchItem is one topsearch hit; profile and media fields are both
// present in the type, populated per hit kind.
type RawSearchItem struct {
	Typename      Str          `json:"__typename"`
	ID            Str          `json:"id"`
	PK            Str          `json:"pk"`
	StrongID      Str          `json:"strong_id__"`
	Username      Str          `json:"username"`
	FullName      Str          `json:"full_name"`
	IsPrivate     bool         `json:"is_private"`
	IsVerified    bool         `json:"is_verified"`
	ProfilePicURL Str          `json:"profile_pic_url"`
	ThumbnailURL  Str          `json:"thumbnail_url"`
	Code          Str          `json:"code"`
	User          *RawUser     `json:"user"`
	CaptionText   Str          `json:"caption_text"`
	Title         Str          `json:"title"`
	Subtitle      Str          `json:"search_subtitle"`
	SecondarySub  Str          `json:"search_secondary_subtitle"`
	ImageVersions []RawVariant `json:"image_versions"`
}

// ItemID returns the first present id alias.
func (i *RawSearchItem) ItemID() string {
	for _, id := range []Str{i.ID, i.PK, i.StrongID} {
		if id != "" {
			return id.String()
		}
	}
	return ""
}

// RawTopsearch is the topsearch response envelope.
type RawTopsearch struct {
	Items         []RawSearchItem `json:"items"`
	EndCursor     Str             `json:"end_cursor"`
	MoreAvailable bool            `json:"more_available"`
}

// ClipsChunk decodes the paginated clips endpoint's [items, cursor]
// two-element array shape.
type ClipsChunk struct {
	Items  []RawMedia
	Cursor string
}

func (c *ClipsChunk) UnmarshalJSON(b []byte) error {
	cursor, err := decodeChunkPair(b, &c.Items)
	if err != nil {
		return err
	}
	c.Cursor = cursor
	return nil
}

// FollowerChunk decodes the GraphQL followers endpoint's [users, cursor]
// two-element array shape.
type FollowerChunk struct {
	Users  []RawUser
	Cursor string
}

func (c *FollowerChunk) UnmarshalJSON(b []byte) error {
	cursor, err := decodeChunkPair(b, &c.Users)
	if err != nil {
		return err
	}
	c.Cursor = cursor
	return nil
}

func decodeChunkPair(b []byte, items interface{}) (string, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil {
		return "", err
	}
	if len(parts) != 2 {
		return "", fmt.Errorf("expected a [items, cursor] pair, got %d elements", len(parts))
	}
	if err := json.Unmarshal(parts[0], items); err != nil {
		return "", err
	}
	var cursor Str
	_ = json.Unmarshal(parts[1], &cursor)
	return cursor.String(), nil
}

// RawFollowerPage decodes the REST-style followers endpoints:
// {response: {users, next_max_id}, next_page_id}. A missing response
// object signals an unexpected envelope.
type RawFollowerPage struct {
	Response *struct {
		Users     []RawUser `json:"users"`
		NextMaxID Str       `json:"next_max_id"`
	} `json:"response"`
	NextPageID Str `json:"next_page_id"`
}

// NextCursor returns the continuation token from either field location.
func (p *RawFollowerPage) NextCursor() string {
	if p.NextPageID != "" {
		return p.NextPageID.String()
	}
	if p.Response != nil {
		return p.Response.NextMaxID.String()
	}
	return ""
}
