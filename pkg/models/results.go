package models

// Result envelopes returned by the query operations. Each carries
// count/limitation/budget fields so callers can render, warn on capping
// or export without re-deriving cost semantics.

// ProfileStats is a profile record plus a non-fatal stories probe.
type ProfileStats struct {
	Profile
	StoriesCount *int   `json:"stories_count"`
	HasStories   *bool  `json:"has_stories"`
	StoriesError string `json:"stories_error,omitempty"`
}

// ReelFilters echoes the crawl filters a reels listing was computed with.
type ReelFilters struct {
	Limit    int `json:"limit"`
	DaysBack int `json:"days_back,omitempty"`
}

// ProfileReels is the result of a bounded reel crawl.
type ProfileReels struct {
	EntityType     string      `json:"entity_type"`
	Username       string      `json:"username"`
	UserID         string      `json:"user_id"`
	Profile        Profile     `json:"profile"`
	Reels          []Reel      `json:"reels"`
	Filters        ReelFilters `json:"filters"`
	PagesUsed      int         `json:"pages_used"`
	ScannedReels   int         `json:"scanned_reels"`
	NextPageID     string      `json:"next_page_id,omitempty"`
	SourceEndpoint string      `json:"source_endpoint"`
}

// FollowersPage is a single page of follower previews.
type FollowersPage struct {
	EntityType     string            `json:"entity_type"`
	TargetUsername string            `json:"target_username"`
	UserID         string            `json:"user_id"`
	PageID         string            `json:"page_id,omitempty"`
	NextPageID     string            `json:"next_page_id,omitempty"`
	Count          int               `json:"count"`
	PageItemCount  int               `json:"page_item_count"`
	SourceEndpoint string            `json:"source_endpoint"`
	Approximate    bool              `json:"approximate"`
	Profile        Profile           `json:"profile"`
	Followers      []FollowerPreview `json:"followers"`
}

// PageBudget is the request-cost ledger for sampled follower rankings.
type PageBudget struct {
	PageRequests           int `json:"page_requests"`
	ProfileLookups         int `json:"profile_lookups"`
	ProfileCacheHits       int `json:"profile_cache_hits"`
	EstimatedTotalRequests int `json:"estimated_total_requests"`
}

// TopFollowers is a sampled, explicitly approximate follower ranking.
type TopFollowers struct {
	EntityType          string     `json:"entity_type"`
	TargetUsername      string     `json:"target_username"`
	UserID              string     `json:"user_id,omitempty"`
	SampleSizeRequested int        `json:"sample_size_requested"`
	SampleSizeCollected int        `json:"sample_size_collected"`
	EnrichedCount       int        `json:"enriched_count"`
	TopN                int        `json:"top_n"`
	PagesUsed           int        `json:"pages_used"`
	HasMoreFollowers    bool       `json:"has_more_followers"`
	NextPageID          string     `json:"next_page_id,omitempty"`
	SourceEndpoint      string     `json:"source_endpoint"`
	Approximate         bool       `json:"approximate"`
	ApproximationNote   string     `json:"approximation_note"`
	Budget              PageBudget `json:"api_budget"`
	Profile             Profile    `json:"profile"`
	Followers           []Profile  `json:"followers"`
	SampledUsernames    []string   `json:"sampled_usernames,omitempty"`
}

// MediaLikers is the (possibly capped) liker preview list for one media.
type MediaLikers struct {
	EntityType         string            `json:"entity_type"`
	Media              Media             `json:"media"`
	Likers             []FollowerPreview `json:"likers"`
	ReturnedCount      int               `json:"returned_count"`
	AvailableLikeCount int64             `json:"available_like_count"`
	IsCapped           bool              `json:"is_capped"`
	CapNote            string            `json:"cap_note,omitempty"`
}

// MediaComments is the (possibly capped) comment list for one media.
type MediaComments struct {
	EntityType            string    `json:"entity_type"`
	Media                 Media     `json:"media"`
	Comments              []Comment `json:"comments"`
	ReturnedCount         int       `json:"returned_count"`
	AvailableCommentCount int64     `json:"available_comment_count"`
	IsCapped              bool      `json:"is_capped"`
	CapNote               string    `json:"cap_note,omitempty"`
}

// LikerAggregate accumulates, per user, which of the ranked media the
// user liked. Mutated only by the aggregation stage.
type LikerAggregate struct {
	UserID          string   `json:"user_id"`
	Username        string   `json:"username,omitempty"`
	FullName        string   `json:"full_name,omitempty"`
	LikedShortcodes []string `json:"liked_shortcodes"`
	LikedURLs       []string `json:"liked_urls"`
	LikedCount      int      `json:"liked_count"`
}

// LikerSource summarizes one source media of a liker ranking.
type LikerSource struct {
	URL            string `json:"url,omitempty"`
	Shortcode      string `json:"shortcode"`
	MediaPK        string `json:"media_pk,omitempty"`
	Username       string `json:"username,omitempty"`
	LikeCount      int64  `json:"like_count"`
	ReturnedLikers int    `json:"returned_likers"`
	IsCapped       bool   `json:"is_capped"`
}

// LikerRow is one ranked row of a cross-media liker ranking.
type LikerRow struct {
	Rank            int      `json:"rank"`
	UserID          string   `json:"user_id"`
	Username        string   `json:"username,omitempty"`
	FullName        string   `json:"full_name,omitempty"`
	Followers       int64    `json:"followers"`
	Following       int64    `json:"following"`
	Posts           int64    `json:"posts"`
	IsVerified      bool     `json:"is_verified"`
	IsPrivate       bool     `json:"is_private"`
	LikedCount      int      `json:"liked_count"`
	LikedShortcodes []string `json:"liked_shortcodes"`
	LikedURLs       []string `json:"liked_urls"`
}

// LikerBudget is the request-cost ledger for liker rankings.
type LikerBudget struct {
	MediaInfoRequests      int `json:"media_info_requests"`
	LikerRequests          int `json:"liker_requests"`
	ProfileLookups         int `json:"profile_lookups"`
	EstimatedTotalRequests int `json:"estimated_total_requests"`
}

// RankedLikers is a cross-media liker ranking with its limitations and
// cost ledger.
type RankedLikers struct {
	EntityType       string        `json:"entity_type"`
	SourceMedia      []LikerSource `json:"source_media"`
	UniqueLikers     int           `json:"unique_likers"`
	EnrichedProfiles int           `json:"enriched_profiles"`
	TopN             int           `json:"top_n"`
	Rows             []LikerRow    `json:"rows"`
	Limitations      []string      `json:"limitations"`
	Budget           LikerBudget   `json:"api_budget"`
}

// ProfileStories is a profile's current stories listing.
type ProfileStories struct {
	EntityType     string  `json:"entity_type"`
	Username       string  `json:"username"`
	UserID         string  `json:"user_id"`
	Profile        Profile `json:"profile"`
	Stories        []Story `json:"stories"`
	Count          int     `json:"count"`
	AvailableCount int     `json:"available_count"`
	SourceEndpoint string  `json:"source_endpoint"`
}

// ProfileHighlights is a profile's highlight tray listing.
type ProfileHighlights struct {
	EntityType     string      `json:"entity_type"`
	Username       string      `json:"username"`
	UserID         string      `json:"user_id"`
	Profile        Profile     `json:"profile"`
	Highlights     []Highlight `json:"highlights"`
	Count          int         `json:"count"`
	AvailableCount int         `json:"available_count"`
	SourceEndpoint string      `json:"source_endpoint"`
}

// SearchResults is a topsearch result page.
type SearchResults struct {
	EntityType     string         `json:"entity_type"`
	Query          string         `json:"query"`
	Count          int            `json:"count"`
	AvailableCount int            `json:"available_count"`
	Items          []SearchResult `json:"items"`
	EndCursor      string         `json:"end_cursor,omitempty"`
	MoreAvailable  bool           `json:"more_available"`
	SourceEndpoint string         `json:"source_endpoint"`
}
