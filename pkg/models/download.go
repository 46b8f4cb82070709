package models

// Download plan kinds.
const (
	DownloadKindMedia      = "media"
	DownloadKindMediaAudio = "media_audio"
	DownloadKindStories    = "stories"
	DownloadKindHighlights = "highlights"
)

// Asset is a single downloadable item within a plan. The plan only
// describes what to fetch; writing files is the downloader's job.
type Asset struct {
	URL            string `json:"asset_url"`
	Kind           string `json:"asset_kind"`
	Index          int    `json:"asset_index"`
	Extension      string `json:"extension"`
	MediaType      int64  `json:"media_type,omitempty"`
	Shortcode      string `json:"shortcode,omitempty"`
	StoryID        string `json:"story_id,omitempty"`
	Code           string `json:"code,omitempty"`
	HighlightID    string `json:"highlight_id,omitempty"`
	HighlightTitle string `json:"highlight_title,omitempty"`
	PublishedAtUTC string `json:"published_at_utc,omitempty"`
	Title          string `json:"title,omitempty"`
	Artist         string `json:"artist,omitempty"`
}

// AudioTrack describes the extracted audio of a media item.
type AudioTrack struct {
	Title     string `json:"title"`
	Artist    string `json:"artist,omitempty"`
	AudioURL  string `json:"audio_url"`
	Extension string `json:"extension"`
}

// DownloadPlan is an ordered list of assets resolved for a target.
type DownloadPlan struct {
	EntityType     string      `json:"entity_type"`
	Kind           string      `json:"download_kind"`
	TargetLabel    string      `json:"target_label,omitempty"`
	SourceEndpoint string      `json:"source_endpoint"`
	Media          *Media      `json:"media,omitempty"`
	Profile        *Profile    `json:"profile,omitempty"`
	AudioTrack     *AudioTrack `json:"audio_track,omitempty"`
	TitleFilter    string      `json:"title_filter,omitempty"`
	Highlights     []Highlight `json:"highlights,omitempty"`
	Stories        []Story     `json:"stories,omitempty"`
	Assets         []Asset     `json:"assets"`
	Count          int         `json:"count"`
}
