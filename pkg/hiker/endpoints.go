package hiker

import "fmt"

// Upstream API paths.
const (
	EndpointUserByUsername  = "/v1/user/by/username"
	EndpointUserByID        = "/v1/user/by/id"
	EndpointUserWebProfile  = "/gql/user/web_profile_info"
	EndpointMediaByCode     = "/v1/media/by/code"
	EndpointMediaLikers     = "/v1/media/likers"
	EndpointMediaComments   = "/v1/media/comments"
	EndpointUserClipsChunk  = "/v1/user/clips/chunk"
	EndpointFollowersChunk  = "/gql/user/followers/chunk"
	EndpointFollowersG2     = "/g2/user/followers"
	EndpointFollowersV2     = "/v2/user/followers"
	EndpointUserStories     = "/v1/user/stories"
	EndpointUserHighlights  = "/v1/user/highlights"
	EndpointHighlightByID   = "/v1/highlight/by/id"
	EndpointTopsearch       = "/gql/topsearch"
)

// ReelURL returns the public reel URL for a shortcode.
func ReelURL(shortcode string) string {
	if shortcode == "" {
		return ""
	}
	return fmt.Sprintf("https://www.instagram.com/reel/%s/", shortcode)
}

// ProfileURL returns the public profile URL for a username.
func ProfileURL(username string) string {
	if username == "" {
		return ""
	}
	return fmt.Sprintf("https://www.instagram.com/%s/", username)
}
