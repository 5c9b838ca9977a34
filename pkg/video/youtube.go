// Package video derives playable video metadata from episode URLs.
//
// Episodes link to external video content; the only provider the catalog
// currently uses is YouTube. Extraction is best-effort: a URL that is not
// recognizably a YouTube watch link simply yields no identifier and the
// renderer falls back to a placeholder thumbnail.
package video

import (
	"fmt"
	"net/url"
	"strings"
)

// Placeholder thumbnails. PlaceholderThumbnail is used when no video
// identifier can be derived; FallbackThumbnail replaces a thumbnail whose
// image fails to load at render time.
const (
	PlaceholderThumbnail = "https://placehold.co/480x360?text=soretetsu"
	FallbackThumbnail    = "https://img.youtube.com/vi/default/hqdefault.jpg"
)

// YouTubeID extracts the video identifier from a YouTube URL.
//
// Hosts containing "youtube.com" carry the identifier in the "v" query
// parameter; "youtu.be" short links carry it as the first path segment.
// Any other URL (or an unparseable one) yields ok=false.
func YouTubeID(rawURL string) (id string, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	host := u.Hostname()
	switch {
	case strings.Contains(host, "youtube.com"):
		id = u.Query().Get("v")
	case strings.Contains(host, "youtu.be"):
		if segments := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2); segments[0] != "" {
			id = segments[0]
		}
	}
	return id, id != ""
}

// ThumbnailURL returns the max-resolution thumbnail for a video identifier,
// or [PlaceholderThumbnail] when the episode URL carried no identifier.
func ThumbnailURL(rawURL string) string {
	id, ok := YouTubeID(rawURL)
	if !ok {
		return PlaceholderThumbnail
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", id)
}
