package video

import "testing"

func TestYouTubeID(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{
			name:   "watch URL",
			url:    "https://www.youtube.com/watch?v=abc123",
			wantID: "abc123",
			wantOK: true,
		},
		{
			name:   "short link",
			url:    "https://youtu.be/xyz789",
			wantID: "xyz789",
			wantOK: true,
		},
		{
			name:   "short link with extra path",
			url:    "https://youtu.be/xyz789/extra",
			wantID: "xyz789",
			wantOK: true,
		},
		{
			name:   "watch URL with extra params",
			url:    "https://www.youtube.com/watch?t=30&v=abc123&list=PL1",
			wantID: "abc123",
			wantOK: true,
		},
		{
			name:   "bare youtube host",
			url:    "https://youtube.com/watch?v=def456",
			wantID: "def456",
			wantOK: true,
		},
		{
			name:   "other host",
			url:    "https://example.com/x",
			wantOK: false,
		},
		{
			name:   "watch URL without v param",
			url:    "https://www.youtube.com/playlist?list=PL1",
			wantOK: false,
		},
		{
			name:   "short link without path",
			url:    "https://youtu.be/",
			wantOK: false,
		},
		{
			name:   "empty string",
			url:    "",
			wantOK: false,
		},
		{
			name:   "unparseable",
			url:    "://not-a-url",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := YouTubeID(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("YouTubeID(%q) ok = %v, want %v", tt.url, ok, tt.wantOK)
			}
			if id != tt.wantID {
				t.Errorf("YouTubeID(%q) = %q, want %q", tt.url, id, tt.wantID)
			}
		})
	}
}

func TestThumbnailURL(t *testing.T) {
	got := ThumbnailURL("https://www.youtube.com/watch?v=abc123")
	want := "https://img.youtube.com/vi/abc123/maxresdefault.jpg"
	if got != want {
		t.Errorf("ThumbnailURL = %q, want %q", got, want)
	}

	if got := ThumbnailURL("https://example.com/x"); got != PlaceholderThumbnail {
		t.Errorf("ThumbnailURL for non-video URL = %q, want placeholder", got)
	}
}
