package normalize

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var reelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`instagram\.com/reel/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`instagram\.com/p/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`instagram\.com/tv/([A-Za-z0-9_-]+)`),
}

// Path segments that can never be usernames.
var reservedProfileSegments = map[string]bool{
	"reel":      true,
	"reels":     true,
	"p":         true,
	"tv":        true,
	"stories":   true,
	"explore":   true,
	"accounts":  true,
	"developer": true,
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._]+$`)

// ExtractShortcode pulls the media shortcode out of a reel, post or tv
// URL. Returns "" when no shortcode is present.
func ExtractShortcode(target string) string {
	for _, pattern := range reelPatterns {
		if match := pattern.FindStringSubmatch(target); match != nil {
			return match[1]
		}
	}
	return ""
}

// ExtractUsername resolves a bare username, an @username or a profile
// URL to the username. stories/<user> URLs resolve to <user>. Reserved
// path segments are rejected. Returns "" on failure.
func ExtractUsername(target string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return ""
	}

	if strings.HasPrefix(target, "@") {
		candidate := target[1:]
		if usernamePattern.MatchString(candidate) {
			return candidate
		}
		return ""
	}

	if !strings.Contains(target, "instagram.com") {
		if usernamePattern.MatchString(target) {
			return target
		}
		return ""
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return ""
	}
	var parts []string
	for _, part := range strings.Split(parsed.Path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return ""
	}

	if parts[0] == "stories" && len(parts) >= 2 {
		return parts[1]
	}

	username := parts[0]
	if reservedProfileSegments[username] {
		return ""
	}
	if !usernamePattern.MatchString(username) {
		return ""
	}
	return username
}

// UsernameKey canonicalizes a username for cache lookups.
func UsernameKey(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}

// GuessExtension returns the recognized file extension of an asset URL,
// falling back to a kind-based default.
func GuessExtension(assetURL, fallback string) string {
	parsed, err := url.Parse(assetURL)
	if err != nil {
		return fallback
	}
	suffix := strings.ToLower(path.Ext(parsed.Path))
	switch suffix {
	case ".mp4", ".jpg", ".jpeg", ".png", ".webp":
		return suffix
	}
	return fallback
}
