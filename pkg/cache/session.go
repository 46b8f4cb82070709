package cache

import (
	"igstats/pkg/hiker"
	"igstats/pkg/models"
	"igstats/pkg/normalize"
)

// ChunkKey identifies one cached page of a paginated clips crawl.
type ChunkKey struct {
	UserID   string
	Cursor   string
	PageSize int
}

// PageKey identifies one cached follower page under a strategy.
type PageKey struct {
	Strategy string
	UserID   string
	PageID   string
}

// SearchKey identifies one cached topsearch response.
type SearchKey struct {
	Query  string
	Cursor string
	Flat   bool
}

// ClipsPage is a cached page of raw clip items plus its continuation
// cursor. An empty cursor means no more pages.
type ClipsPage struct {
	Items  []hiker.RawMedia
	Cursor string
}

// FollowerPage is a cached follower page in strategy-independent form.
type FollowerPage struct {
	SourceEndpoint string
	Users          []hiker.RawUser
	NextPageID     string
}

// Session holds one memoization table per resource family. It is the
// sole long-lived owner of cached payloads for the process lifetime.
type Session struct {
	UsersByName     *Table[string, *hiker.RawUser]
	UsersByID       *Table[string, *hiker.RawUser]
	MediaInfo       *Table[string, *hiker.RawMedia]
	MediaLikers     *Table[string, *models.MediaLikers]
	MediaComments   *Table[string, *models.MediaComments]
	ClipsChunks     *Table[ChunkKey, ClipsPage]
	FollowerPages   *Table[PageKey, FollowerPage]
	Stories         *Table[string, []hiker.RawStory]
	Highlights      *Table[string, []hiker.RawHighlight]
	HighlightDetail *Table[string, *hiker.RawHighlight]
	Topsearch       *Table[SearchKey, *hiker.RawTopsearch]
}

// NewSession creates an empty session cache.
func NewSession() *Session {
	return &Session{
		UsersByName:     NewTable[string, *hiker.RawUser](),
		UsersByID:       NewTable[string, *hiker.RawUser](),
		MediaInfo:       NewTable[string, *hiker.RawMedia](),
		MediaLikers:     NewTable[string, *models.MediaLikers](),
		MediaComments:   NewTable[string, *models.MediaComments](),
		ClipsChunks:     NewTable[ChunkKey, ClipsPage](),
		FollowerPages:   NewTable[PageKey, FollowerPage](),
		Stories:         NewTable[string, []hiker.RawStory](),
		Highlights:      NewTable[string, []hiker.RawHighlight](),
		HighlightDetail: NewTable[string, *hiker.RawHighlight](),
		Topsearch:       NewTable[SearchKey, *hiker.RawTopsearch](),
	}
}

// PutUser caches a user payload under every identifier it carries, so a
// lookup by username also warms the by-id table and vice versa.
func (s *Session) PutUser(user *hiker.RawUser) {
	if user == nil {
		return
	}
	if username := user.Username.String(); username != "" {
		s.UsersByName.Put(normalize.UsernameKey(username), user)
	}
	if id := user.UserID(); id != "" {
		s.UsersByID.Put(id, user)
	}
}
