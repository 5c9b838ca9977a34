// Package server implements the discovery backend the client talks to.
//
// It serves the selectable tag lists, the top-5 episode search with its
// level-based fallback widening, and the health/stats endpoints. Episodes
// come from the editorial CSV export; there is no other persistence.
package server

import (
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wires the episode store and the valid tag lists into HTTP handlers.
type Server struct {
	store        *Store
	philosophers []string
	themes       []string
	logger       *log.Logger
}

// New creates a server over the given store. The philosopher and theme
// lists double as the /api/config payload and as the validation whitelist
// for /api/discover.
func New(store *Store, philosophers, themes []string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		store:        store,
		philosophers: philosophers,
		themes:       themes,
		logger:       logger,
	}
}

// Handler builds the chi router for the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/api/config", s.handleConfig)
	r.Post("/api/discover", s.handleDiscover)
	r.Get("/api/health", s.handleHealth)
	r.Get("/api/stats", s.handleStats)
	return r
}

type configResponse struct {
	Philosophers []string `json:"philosophers"`
	Themes       []string `json:"themes"`
	Episodes     int      `json:"episodes_loaded"`
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, configResponse{
		Philosophers: s.philosophers,
		Themes:       s.themes,
		Episodes:     s.store.Len(),
	})
}

type discoverRequest struct {
	Philosophers []string `json:"philosophers"`
	Themes       []string `json:"themes"`
	SearchQuery  string   `json:"search_query"`
	TopK         int      `json:"top_k"`
}

type episodeResponse struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	EpisodeType string `json:"episode_type,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
}

type discoverResponse struct {
	Results       []episodeResponse `json:"results"`
	FallbackLevel int               `json:"fallback_level"`
	Message       *string           `json:"message"`
	Query         discoverRequest   `json:"query"`
}

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	var req discoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "リクエストの形式が正しくありません")
		return
	}

	if len(req.Philosophers) == 0 && len(req.Themes) == 0 && req.SearchQuery == "" {
		writeError(w, http.StatusBadRequest, "philosophers, themes, search_query のいずれかを指定してください")
		return
	}

	// Unknown tags are dropped rather than rejected; the query must still
	// carry something searchable afterwards.
	philosophers := intersect(req.Philosophers, s.philosophers)
	themes := intersect(req.Themes, s.themes)
	if len(philosophers) == 0 && len(themes) == 0 && req.SearchQuery == "" {
		writeError(w, http.StatusBadRequest, "有効な哲学者またはテーマを指定してください")
		return
	}

	results, level := s.store.Search(searchQuery{
		Philosophers: philosophers,
		Themes:       themes,
		Keyword:      req.SearchQuery,
		TopK:         5, // always five, regardless of the requested top_k
	})

	resp := discoverResponse{
		Results:       make([]episodeResponse, 0, len(results)),
		FallbackLevel: level,
		Query: discoverRequest{
			Philosophers: philosophers,
			Themes:       themes,
			SearchQuery:  req.SearchQuery,
			TopK:         5,
		},
	}
	if msg, ok := fallbackMessages[level]; ok {
		resp.Message = &msg
	}
	for _, ep := range results {
		resp.Results = append(resp.Results, episodeResponse{
			URL:         ep.URL,
			Title:       ep.Title,
			Summary:     ep.Summary,
			EpisodeType: ep.EpisodeType,
			Difficulty:  ep.Difficulty,
		})
	}

	s.logger.Info("discover",
		"philosophers", philosophers,
		"themes", themes,
		"query", req.SearchQuery,
		"results", len(resp.Results),
		"fallback_level", level)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statsResponse struct {
	TotalEpisodes     int            `json:"total_episodes"`
	PhilosopherCounts map[string]int `json:"philosopher_distribution"`
	ThemeCounts       map[string]int `json:"theme_distribution"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	philosophers, themes := s.store.Stats()
	writeJSON(w, http.StatusOK, statsResponse{
		TotalEpisodes:     s.store.Len(),
		PhilosopherCounts: philosophers,
		ThemeCounts:       themes,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func intersect(requested, valid []string) []string {
	out := make([]string, 0, len(requested))
	for _, v := range requested {
		if slices.Contains(valid, v) {
			out = append(out, v)
		}
	}
	return out
}
