package analytics

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igstats/pkg/config"
	"igstats/pkg/hiker"
	"igstats/pkg/logger"
	"igstats/pkg/models"
)

// mockUpstream simulates the upstream API with per-path handlers and
// request counting.
type mockUpstream struct {
	t       *testing.T
	mu      sync.Mutex
	counts  map[string]int
	handler map[string]http.HandlerFunc
	server  *httptest.Server
}

func newMockUpstream(t *testing.T) *mockUpstream {
	m := &mockUpstream{
		t:       t,
		counts:  make(map[string]int),
		handler: make(map[string]http.HandlerFunc),
	}
	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_key") == "" {
			t.Errorf("request to %s carried no access key", r.URL.Path)
		}

		m.mu.Lock()
		m.counts[r.URL.Path]++
		h := m.handler[r.URL.Path]
		m.mu.Unlock()

		if h == nil {
			t.Errorf("unexpected request to %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockUpstream) on(path string, h http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler[path] = h
}

func (m *mockUpstream) onJSON(path, body string) {
	m.on(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	})
}

func (m *mockUpstream) count(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[path]
}

func newTestService(t *testing.T, upstream *mockUpstream) *Service {
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = upstream.server.URL
	cfg.API.AccessKey = "test-access-key"
	cfg.Enrich.RetryDelay = time.Millisecond

	log := logger.NewTestLogger()
	client := hiker.NewClient(&cfg.API, nil, log)
	return NewService(client, cfg, log)
}

const natgeoUser = `{
	"pk": "100",
	"username": "natgeo",
	"full_name": "National Geographic",
	"is_verified": true,
	"follower_count": 500000,
	"following_count": 120,
	"media_count": 30000
}`

func TestProfileStats(t *testing.T) {
	upstream := newMockUpstream(t)
	upstream.onJSON(hiker.EndpointUserByUsername, natgeoUser)
	upstream.onJSON(hiker.EndpointUserStories, `{"items": [
		{"pk": "s1", "media_type": 2, "video_url": "https://cdn.example.com/s1.mp4"},
		{"pk": "s2", "media_type": 1}
	]}`)

	service := newTestService(t, upstream)
	stats, err := service.ProfileStats(context.Background(), "natgeo")
	require.NoError(t, err)

	assert.Equal(t, "natgeo", stats.Username)
	assert.Equal(t, "100", stats.UserID)
	assert.Equal(t, int64(500000), stats.Followers)
	assert.True(t, stats.IsVerified)
	require.NotNil(t, stats.StoriesCount)
	assert.Equal(t, 2, *stats.StoriesCount)
	require.NotNil(t, stats.HasStories)
	assert.True(t, *stats.HasStories)
	assert.Empty(t, stats.StoriesError)
}

func TestProfileStatsStoriesProbeFailureIsNotFatal(t *testing.T) {
	upstream := newMockUpstream(t)
	upstream.onJSON(hiker.EndpointUserByUsername, natgeoUser)
	upstream.on(hiker.EndpointUserStories, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "stories unavailable"}`, http.StatusInternalServerError)
	})

	service := newTestService(t, upstream)
	stats, err := service.ProfileStats(context.Background(), "https://www.instagram.com/natgeo/")
	require.NoError(t, err, "a failing stories probe never fails the profile lookup")

	assert.Equal(t, "natgeo", stats.Username)
	assert.Nil(t, stats.StoriesCount)
	assert.Nil(t, stats.HasStories)
	assert.Contains(t, stats.StoriesError, "stories unavailable")
}

func TestProfileStatsInvalidTarget(t *testing.T) {
	upstream := newMockUpstream(t)
	service := newTestService(t, upstream)

	_, err := service.ProfileStats(context.Background(), "https://www.instagram.com/reel/Cabc/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid profile URL or username")
}

const reelMedia = `{
	"pk": "900",
	"code": "Cabc123",
	"media_type": 2,
	"product_type": "clips",
	"user": {"pk": "100", "username": "natgeo"},
	"taken_at": 1700000000,
	"play_count": 10000,
	"like_count": 200,
	"comment_count": 100,
	"save_count": 25
}`

func TestReelStats(t *testing.T) {
	upstream := newMockUpstream(t)
	upstream.onJSON(hiker.EndpointMediaByCode, reelMedia)

	service := newTestService(t, upstream)
	reel, err := service.ReelStats(context.Background(), "https://www.instagram.com/reel/Cabc123/")
	require.NoError(t, err)

	assert.Equal(t, "Cabc123", reel.Shortcode)
	assert.Equal(t, "natgeo", reel.Username)
	assert.Equal(t, int64(10000), reel.Views)
	assert.Equal(t, int64(200+100+25), reel.EngagementRaw)
	// weighted engagement 200 + 3*100 + 4*25 = 600 over 10000 views
	assert.Equal(t, 6.0, reel.ViralIndex)
	assert.Equal(t, "strong", reel.ViralStatus)
}

func TestMediaInfoCachedByShortcode(t *testing.T) {
	upstream := newMockUpstream(t)
	upstream.onJSON(hiker.EndpointMediaByCode, reelMedia)

	service := newTestService(t, upstream)
	ctx := context.Background()

	first, err := service.MediaInfo(ctx, "https://www.instagram.com/p/Cabc123/")
	require.NoError(t, err)
	second, err := service.MediaInfo(ctx, "https://www.instagram.com/reel/Cabc123/")
	require.NoError(t, err)

	assert.Equal(t, "900", first.MediaPK)
	assert.Equal(t, first.Shortcode, second.Shortcode)
	assert.Equal(t, 1, upstream.count(hiker.EndpointMediaByCode), "repeat lookups hit the session cache")
}

func TestMediaLikersCapped(t *testing.T) {
	upstream := newMockUpstream(t)
	upstream.onJSON(hiker.EndpointMediaByCode, reelMedia)
	upstream.onJSON(hiker.EndpointMediaLikers, `[
		{"pk": "7", "username": "fan_one"},
		{"pk": "8", "username": "fan_two"},
		{"pk": "", "username": "anonymous"}
	]`)

	service := newTestService(t, upstream)
	likers, err := service.MediaLikers(context.Background(), "https://www.instagram.com/p/Cabc123/")
	require.NoError(t, err)

	assert.Equal(t, 2, likers.ReturnedCount, "previews without an id are dropped")
	assert.Equal(t, int64(200), likers.AvailableLikeCount)
	assert.True(t, likers.IsCapped)
	assert.NotEmpty(t, likers.CapNote)

	// A second call is served from the per-pk cache.
	_, err = service.MediaLikers(context.Background(), "https://www.instagram.com/p/Cabc123/")
	require.NoError(t, err)
	assert.Equal(t, 1, upstream.count(hiker.EndpointMediaLikers))
}

func TestProfileReelsCrawl(t *testing.T) {
	upstream := newMockUpstream(t)
	upstream.onJSON(hiker.EndpointUserByUsername, natgeoUser)
	upstream.on(hiker.EndpointUserClipsChunk, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("end_cursor") == "" {
			fmt.Fprint(w, `[[
				{"pk": "1", "code": "Cold", "taken_at": 1700000000, "play_count": 5000, "like_count": 50},
				{"pk": "2", "code": "Cnew", "taken_at": 1700100000, "play_count": 8000, "like_count": 80}
			], "CUR2"]`)
			return
		}
		fmt.Fprint(w, `[[
			{"pk": "3", "code": "Cnewest", "taken_at": 1700200000, "play_count": 9000, "like_count": 90}
		], ""]`)
	})

	service := newTestService(t, upstream)
	result, err := service.ProfileReels(context.Background(), "natgeo", ReelCrawlOptions{Limit: 10, MaxPages: 2})
	require.NoError(t, err)

	require.Len(t, result.Reels, 3)
	assert.Equal(t, "Cnewest", result.Reels[0].Shortcode, "newest first")
	assert.Equal(t, "Cnew", result.Reels[1].Shortcode)
	assert.Equal(t, "Cold", result.Reels[2].Shortcode)
	assert.Equal(t, 2, result.PagesUsed)
	assert.Equal(t, 3, result.ScannedReels)
	assert.Empty(t, result.NextPageID)
	assert.Equal(t, 2, upstream.count(hiker.EndpointUserClipsChunk))

	// Re-crawl within the session costs no page requests.
	_, err = service.ProfileReels(context.Background(), "natgeo", ReelCrawlOptions{Limit: 10, MaxPages: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.count(hiker.EndpointUserClipsChunk))
}

const g2FirstPage = `{
	"response": {"users": [
		{"pk": "11", "username": "fan_big"},
		{"pk": "12", "username": "fan_mid"},
		{"pk": "13", "username": "fan_small"}
	]},
	"next_page_id": "PAGE2"
}`

func TestFollowersPageG2(t *testing.T) {
	upstream := newMockUpstream(t)
	upstream.onJSON(hiker.EndpointUserByUsername, natgeoUser)
	upstream.onJSON(hiker.EndpointFollowersG2, g2FirstPage)

	service := newTestService(t, upstream)
	page, err := service.FollowersPage(context.Background(), "natgeo", "", 25, "")
	require.NoError(t, err)

	assert.Equal(t, "followers_page", page.EntityType)
	assert.Equal(t, "natgeo", page.TargetUsername)
	assert.Equal(t, 3, page.Count)
	assert.Equal(t, hiker.EndpointFollowersG2, page.SourceEndpoint)
	assert.False(t, page.Approximate, "a concrete page is exact")
	assert.Equal(t, "PAGE2", page.NextPageID)
	assert.Equal(t, "fan_big", page.Followers[0].Username)

	// Same page again is a cache hit.
	_, err = service.FollowersPage(context.Background(), "natgeo", "", 25, "")
	require.NoError(t, err)
	assert.Equal(t, 1, upstream.count(hiker.EndpointFollowersG2))
}

func TestFollowersPageGQLChunk(t *testing.T) {
	upstream := newMockUpstream(t)
	upstream.onJSON(hiker.EndpointUserByUsername, natgeoUser)
	upstream.onJSON(hiker.EndpointFollowersChunk, `[[
		{"pk": "21", "username": "chunk_fan"}
	], "NEXT_CHUNK"]`)

	service := newTestService(t, upstream)
	page, err := service.FollowersPage(context.Background(), "natgeo", "", 25, StrategyGQLChunk)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Count)
	assert.Equal(t, hiker.EndpointFollowersChunk, page.SourceEndpoint)
	assert.Equal(t, "NEXT_CHUNK", page.NextPageID)
}

func TestTopFollowers(t *testing.T) {
	upstream := newMockUpstream(t)
	upstream.on(hiker.EndpointUserByUsername, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("username") {
		case "natgeo":
			fmt.Fprint(w, natgeoUser)
		case "fan_big":
			fmt.Fprint(w, `{"pk": "11", "username": "fan_big", "follower_count": 9000, "is_verified": true}`)
		case "fan_mid":
			fmt.Fprint(w, `{"pk": "12", "username": "fan_mid", "follower_count": 500}`)
		case "fan_small":
			fmt.Fprint(w, `{"pk": "13", "username": "fan_small", "follower_count": 10}`)
		default:
			http.NotFound(w, r)
		}
	})
	upstream.onJSON(hiker.EndpointFollowersG2, g2FirstPage)

	service := newTestService(t, upstream)
	top, err := service.TopFollowers(context.Background(), "natgeo", TopFollowersOptions{
		SampleSize: 10,
		TopN:       2,
		MaxPages:   1,
	})
	require.NoError(t, err)

	assert.True(t, top.Approximate)
	assert.NotEmpty(t, top.ApproximationNote)
	assert.Equal(t, 3, top.SampleSizeCollected)
	assert.Equal(t, 3, top.EnrichedCount)
	assert.True(t, top.HasMoreFollowers)

	require.Len(t, top.Followers, 2, "trimmed to top N")
	assert.Equal(t, "fan_big", top.Followers[0].Username)
	assert.Equal(t, "fan_mid", top.Followers[1].Username)

	assert.Equal(t, 1, top.Budget.PageRequests)
	assert.Equal(t, 3, top.Budget.ProfileLookups)
	assert.Equal(t, 5, top.Budget.EstimatedTotalRequests)
}

func TestRankMediaLikersByFollowers(t *testing.T) {
	upstream := newMockUpstream(t)
	upstream.on(hiker.EndpointMediaByCode, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("code") {
		case "Cone":
			fmt.Fprint(w, `{"pk": "901", "code": "Cone", "like_count": 2, "user": {"pk": "100", "username": "natgeo"}}`)
		case "Ctwo":
			fmt.Fprint(w, `{"pk": "902", "code": "Ctwo", "like_count": 2, "user": {"pk": "100", "username": "natgeo"}}`)
		default:
			http.NotFound(w, r)
		}
	})
	upstream.on(hiker.EndpointMediaLikers, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("id") {
		case "901":
			fmt.Fprint(w, `[{"pk": "7", "username": "superfan"}, {"pk": "8", "username": "casual"}]`)
		case "902":
			fmt.Fprint(w, `[{"pk": "7", "username": "superfan"}, {"pk": "9", "username": "passerby"}]`)
		default:
			http.NotFound(w, r)
		}
	})
	upstream.on(hiker.EndpointUserWebProfile, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("user_id") {
		case "7":
			fmt.Fprint(w, `{"pk": "7", "username": "superfan", "follower_count": 100}`)
		case "8":
			fmt.Fprint(w, `{"pk": "8", "username": "casual", "follower_count": 8000}`)
		case "9":
			fmt.Fprint(w, `{"pk": "9", "username": "passerby", "follower_count": 50}`)
		default:
			http.NotFound(w, r)
		}
	})

	service := newTestService(t, upstream)
	ranked, err := service.RankMediaLikersByFollowers(context.Background(), []string{
		"https://www.instagram.com/p/Cone/",
		"https://www.instagram.com/p/Ctwo/",
		"https://www.instagram.com/p/Cone/",
	}, RankLikersOptions{TopN: 10})
	require.NoError(t, err)

	require.Len(t, ranked.SourceMedia, 2, "duplicate URLs collapse to one source")
	assert.Equal(t, 3, ranked.UniqueLikers)
	assert.Equal(t, 3, ranked.EnrichedProfiles)
	require.Len(t, ranked.Rows, 3)

	assert.Equal(t, 1, ranked.Rows[0].Rank)
	assert.Equal(t, "casual", ranked.Rows[0].Username, "ranked by follower count")
	assert.Equal(t, "superfan", ranked.Rows[1].Username)
	assert.Equal(t, 2, ranked.Rows[1].LikedCount, "overlapping liker counted once per media")
	assert.ElementsMatch(t, []string{"Cone", "Ctwo"}, ranked.Rows[1].LikedShortcodes)
	assert.Equal(t, "passerby", ranked.Rows[2].Username)

	assert.Equal(t, 2, ranked.Budget.MediaInfoRequests)
	assert.Equal(t, 2, ranked.Budget.LikerRequests)
	assert.Equal(t, 3, ranked.Budget.ProfileLookups)
	assert.Equal(t, 7, ranked.Budget.EstimatedTotalRequests)
	assert.Empty(t, ranked.Limitations)
}

func TestRankMediaLikersRequiresURLs(t *testing.T) {
	upstream := newMockUpstream(t)
	service := newTestService(t, upstream)

	_, err := service.RankMediaLikersByFollowers(context.Background(), []string{" ", ""}, RankLikersOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one media URL is required")
}

func TestTopsearch(t *testing.T) {
	upstream := newMockUpstream(t)
	upstream.onJSON(hiker.EndpointTopsearch, `{
		"items": [
			{"pk": "100", "username": "natgeo", "full_name": "National Geographic", "is_verified": true},
			{"pk": "300", "code": "Cxyz", "caption_text": "wildlife clip"}
		],
		"end_cursor": "CURSOR_NEXT",
		"more_available": true
	}`)

	service := newTestService(t, upstream)
	results, err := service.Topsearch(context.Background(), "nature", 20, "", false)
	require.NoError(t, err)

	assert.Equal(t, 2, results.Count)
	assert.Equal(t, "profile", results.Items[0].ResultType)
	assert.Equal(t, "media", results.Items[1].ResultType)
	assert.Equal(t, "CURSOR_NEXT", results.EndCursor)
	assert.True(t, results.MoreAvailable)

	// Case changes in the query share the cache entry.
	_, err = service.Topsearch(context.Background(), "NATURE", 20, "", false)
	require.NoError(t, err)
	assert.Equal(t, 1, upstream.count(hiker.EndpointTopsearch))
}

func TestDownloadMediaPlanCarousel(t *testing.T) {
	upstream := newMockUpstream(t)
	upstream.onJSON(hiker.EndpointMediaByCode, `{
		"pk": "900",
		"code": "Cabc123",
		"media_type": 8,
		"user": {"pk": "100", "username": "natgeo"},
		"resources": [
			{"media_type": 1, "image_versions": [{"url": "https://cdn.example.com/a.jpg", "width": 1080, "height": 1080}]},
			{"media_type": 2, "video_url": "https://cdn.example.com/b.mp4"}
		]
	}`)

	service := newTestService(t, upstream)
	plan, err := service.DownloadMediaPlan(context.Background(), "https://www.instagram.com/p/Cabc123/")
	require.NoError(t, err)

	assert.Equal(t, models.DownloadKindMedia, plan.Kind)
	assert.Equal(t, "Cabc123", plan.TargetLabel)
	require.Len(t, plan.Assets, 2)
	assert.Equal(t, "image", plan.Assets[0].Kind)
	assert.Equal(t, 1, plan.Assets[0].Index)
	assert.Equal(t, "video", plan.Assets[1].Kind)
	assert.Equal(t, ".mp4", plan.Assets[1].Extension)
}

func TestDownloadMediaAudioPlanWithoutAudio(t *testing.T) {
	upstream := newMockUpstream(t)
	upstream.onJSON(hiker.EndpointMediaByCode, reelMedia)

	service := newTestService(t, upstream)
	_, err := service.DownloadMediaAudioPlan(context.Background(), "https://www.instagram.com/reel/Cabc123/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no downloadable audio URL")
}

func TestDownloadStoriesPlan(t *testing.T) {
	upstream := newMockUpstream(t)
	upstream.onJSON(hiker.EndpointUserByUsername, natgeoUser)
	upstream.onJSON(hiker.EndpointUserStories, `{"items": [
		{"pk": "s1", "media_type": 2, "video_url": "https://cdn.example.com/s1.mp4"},
		{"pk": "s2", "media_type": 1},
		{"pk": "s3", "media_type": 1, "thumbnail_url": "https://cdn.example.com/s3.jpg"}
	]}`)

	service := newTestService(t, upstream)
	plan, err := service.DownloadStoriesPlan(context.Background(), "natgeo", 0)
	require.NoError(t, err)

	assert.Equal(t, models.DownloadKindStories, plan.Kind)
	assert.Equal(t, "natgeo", plan.TargetLabel)
	require.Len(t, plan.Assets, 2, "stories without any fetchable URL are skipped")
	assert.Equal(t, "s1", plan.Assets[0].StoryID)
	assert.Equal(t, "s3", plan.Assets[1].StoryID)
}

func TestEnrichUsersByIDPartialFailure(t *testing.T) {
	upstream := newMockUpstream(t)
	upstream.on(hiker.EndpointUserWebProfile, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("user_id") == "7" {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"pk": "7", "username": "alive", "follower_count": 40}`)
			return
		}
		http.Error(w, `{"detail": "user not found"}`, http.StatusNotFound)
	})
	upstream.on(hiker.EndpointUserByID, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "user not found"}`, http.StatusNotFound)
	})

	service := newTestService(t, upstream)
	profiles, err := service.EnrichUsersByID(context.Background(), []string{"7", "404404"}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	require.Len(t, profiles, 1, "successes survive a partial failure")
	assert.Equal(t, "alive", profiles["7"].Username)
}
