package hiker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntAcceptsMixedScalars(t *testing.T) {
	var payload struct {
		A Int `json:"a"`
		B Int `json:"b"`
		C Int `json:"c"`
		D Int `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 42, "b": "17", "c": null, "d": "junk"}`), &payload))
	assert.Equal(t, Int(42), payload.A)
	assert.Equal(t, Int(17), payload.B)
	assert.Equal(t, Int(0), payload.C)
	assert.Equal(t, Int(0), payload.D)
}

func TestStrKeepsLargeIDsExact(t *testing.T) {
	var payload struct {
		ID   Str `json:"id"`
		Name Str `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"id": 17841400000000001, "name": "  padded  "}`), &payload))
	assert.Equal(t, "17841400000000001", payload.ID.String())
	assert.Equal(t, "padded", payload.Name.String())
}

func TestTimestampVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		unix int64
	}{
		{"unix seconds", `1700000000`, 1700000000},
		{"unix milliseconds", `1700000000000`, 1700000000},
		{"numeric string", `"1700000000"`, 1700000000},
		{"iso 8601", `"2023-11-14T22:13:20Z"`, 1700000000},
		{"null", `null`, 0},
		{"garbage", `"not a time"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &ts))
			assert.Equal(t, tt.unix, ts.Unix())
		})
	}
}

func TestRawUserAliases(t *testing.T) {
	var user RawUser
	require.NoError(t, json.Unmarshal([]byte(`{
		"pk": "123",
		"username": "someone",
		"followers": 1500,
		"following_count": 300,
		"posts": 12,
		"reel": {"id": "r1"}
	}`), &user))

	assert.Equal(t, "123", user.UserID())
	assert.Equal(t, int64(1500), user.FollowerTotal())
	assert.Equal(t, int64(300), user.FollowingTotal())
	assert.Equal(t, int64(12), user.PostTotal())
	assert.True(t, user.HasStoryRing())

	t.Run("null reel means no ring", func(t *testing.T) {
		var bare RawUser
		require.NoError(t, json.Unmarshal([]byte(`{"pk": "1", "reel": null}`), &bare))
		assert.False(t, bare.HasStoryRing())
	})
}

func TestRawMediaAliases(t *testing.T) {
	var media RawMedia
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "999",
		"code": "Cabc",
		"video_view_count": 5000,
		"likes": 250,
		"comments": 10,
		"bookmark_count": 7,
		"created_time": 1700000000,
		"owner": {"pk": "5", "username": "owner_user"}
	}`), &media))

	assert.Equal(t, "999", media.MediaPK())
	assert.Equal(t, int64(5000), media.Views())
	assert.Equal(t, int64(250), media.LikeTotal())
	assert.Equal(t, int64(10), media.CommentTotal())
	assert.Equal(t, int64(7), media.SaveTotal())
	assert.Equal(t, int64(1700000000), media.BestTakenAt().Unix())
	require.NotNil(t, media.OwnerUser())
	assert.Equal(t, "owner_user", media.OwnerUser().Username.String())
}

func TestClipsChunkPair(t *testing.T) {
	var chunk ClipsChunk
	require.NoError(t, json.Unmarshal([]byte(`[[{"code": "Cone"}, {"code": "Ctwo"}], "cursor-2"]`), &chunk))
	require.Len(t, chunk.Items, 2)
	assert.Equal(t, "Cone", chunk.Items[0].Code.String())
	assert.Equal(t, "cursor-2", chunk.Cursor)

	t.Run("null cursor", func(t *testing.T) {
		var last ClipsChunk
		require.NoError(t, json.Unmarshal([]byte(`[[], null]`), &last))
		assert.Empty(t, last.Items)
		assert.Empty(t, last.Cursor)
	})

	t.Run("wrong arity", func(t *testing.T) {
		var bad ClipsChunk
		assert.Error(t, json.Unmarshal([]byte(`[[]]`), &bad))
	})
}

func TestFollowerChunkPair(t *testing.T) {
	var chunk FollowerChunk
	require.NoError(t, json.Unmarshal([]byte(`[[{"pk": "1", "username": "a"}], "next"]`), &chunk))
	require.Len(t, chunk.Users, 1)
	assert.Equal(t, "a", chunk.Users[0].Username.String())
	assert.Equal(t, "next", chunk.Cursor)
}

func TestRawFollowerPage(t *testing.T) {
	var page RawFollowerPage
	require.NoError(t, json.Unmarshal([]byte(`{
		"response": {"users": [{"pk": "1"}], "next_max_id": "inner"},
		"next_page_id": "outer"
	}`), &page))
	require.NotNil(t, page.Response)
	assert.Equal(t, "outer", page.NextCursor())

	t.Run("inner cursor fallback", func(t *testing.T) {
		var inner RawFollowerPage
		require.NoError(t, json.Unmarshal([]byte(`{"response": {"users": [], "next_max_id": "inner"}}`), &inner))
		assert.Equal(t, "inner", inner.NextCursor())
	})

	t.Run("missing response object", func(t *testing.T) {
		var missing RawFollowerPage
		require.NoError(t, json.Unmarshal([]byte(`{"next_page_id": "x"}`), &missing))
		assert.Nil(t, missing.Response)
	})
}

func TestRawStoryFeedShapes(t *testing.T) {
	var bare RawStoryFeed
	require.NoError(t, json.Unmarshal([]byte(`[{"pk": "s1"}]`), &bare))
	require.Len(t, bare, 1)
	assert.Equal(t, "s1", bare[0].StoryID())

	var wrapped RawStoryFeed
	require.NoError(t, json.Unmarshal([]byte(`{"items": [{"pk": "s2"}, {"pk": "s3"}]}`), &wrapped))
	assert.Len(t, wrapped, 2)

	var invalid RawStoryFeed
	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &invalid))
}
