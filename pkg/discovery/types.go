package discovery

// DefaultTopK is the number of episodes the backend returns per search.
// The UI renders at most this many cards; the value is part of the wire
// contract and always sent as-is.
const DefaultTopK = 5

// Query is the body of POST /api/discover.
type Query struct {
	Philosophers []string `json:"philosophers"`
	Themes       []string `json:"themes"`
	SearchQuery  string   `json:"search_query"`
	TopK         int      `json:"top_k"`
}

// Episode is one search result linking to external video content.
type Episode struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	EpisodeType string `json:"episode_type,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
}

// SearchResult is the response of POST /api/discover. FallbackLevel reports
// how far the backend had to widen the match (0 = strict tag match, 3 =
// newest episodes regardless of query); Message carries the user-facing
// notice for non-zero levels.
type SearchResult struct {
	Results       []Episode `json:"results"`
	FallbackLevel int       `json:"fallback_level"`
	Message       string    `json:"message,omitempty"`
}

// Config is the response of GET /api/config: the selectable tag lists.
type Config struct {
	Philosophers []string `json:"philosophers"`
	Themes       []string `json:"themes"`
}

// apiError is the backend's error body for non-2xx responses.
type apiError struct {
	Error string `json:"error"`
}
