package discovery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/soretetsu/tetsunavi/pkg/cache"
	"github.com/soretetsu/tetsunavi/pkg/catalog"
	"github.com/soretetsu/tetsunavi/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, cache.NewNullCache(), time.Hour), srv
}

func TestConfig_Success(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/config" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(Config{
			Philosophers: []string{"カント"},
			Themes:       []string{"認識論"},
		})
	}))

	cfg, fallback := c.Config(context.Background())
	if fallback {
		t.Fatal("fallback = true on success")
	}
	if len(cfg.Philosophers) != 1 || cfg.Philosophers[0] != "カント" {
		t.Errorf("Philosophers = %v", cfg.Philosophers)
	}
	if len(cfg.Themes) != 1 || cfg.Themes[0] != "認識論" {
		t.Errorf("Themes = %v", cfg.Themes)
	}
}

func TestConfig_FailureFallsBackSilently(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadRequest)
	}))

	cfg, fallback := c.Config(context.Background())
	if !fallback {
		t.Fatal("fallback = false on failure")
	}
	if len(cfg.Philosophers) != len(catalog.FallbackPhilosophers) {
		t.Errorf("Philosophers len = %d, want embedded fallback", len(cfg.Philosophers))
	}
	if len(cfg.Themes) != len(catalog.FallbackThemes) {
		t.Errorf("Themes len = %d, want embedded fallback", len(cfg.Themes))
	}
}

func TestConfig_NetworkErrorFallsBack(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(srv.URL, cache.NewNullCache(), time.Hour)
	_, fallback := c.Config(context.Background())
	if !fallback {
		t.Fatal("fallback = false on network error")
	}
}

func TestConfig_CachesResponse(t *testing.T) {
	var calls atomic.Int32
	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(Config{Philosophers: []string{"荘子"}, Themes: []string{"仏教"}})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, backend, time.Hour)
	c.Config(context.Background())
	c.Config(context.Background())

	if got := calls.Load(); got != 1 {
		t.Errorf("backend was called %d times, want 1 (second hit cached)", got)
	}
}

func TestDiscover_Success(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/discover" || r.Method != http.MethodPost {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var q Query
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			t.Fatalf("decode query: %v", err)
		}
		if q.TopK != 5 {
			t.Errorf("TopK = %d, want 5", q.TopK)
		}
		if len(q.Philosophers) != 1 || q.Philosophers[0] != "カント" {
			t.Errorf("Philosophers = %v", q.Philosophers)
		}
		if len(q.Themes) != 0 {
			t.Errorf("Themes = %v, want empty", q.Themes)
		}
		if q.SearchQuery != "生き方について" {
			t.Errorf("SearchQuery = %q", q.SearchQuery)
		}

		_ = json.NewEncoder(w).Encode(SearchResult{
			Results: []Episode{{
				URL:     "https://www.youtube.com/watch?v=abc123",
				Title:   "カントと生き方",
				Summary: "定言命法の回",
			}},
			FallbackLevel: 0,
		})
	}))

	res, err := c.Discover(context.Background(), Query{
		Philosophers: []string{"カント"},
		Themes:       []string{},
		SearchQuery:  "生き方について",
		TopK:         5,
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(res.Results) != 1 {
		t.Fatalf("Results len = %d, want 1", len(res.Results))
	}
	if res.Results[0].Title != "カントと生き方" {
		t.Errorf("Title = %q", res.Results[0].Title)
	}
}

func TestDiscover_EmptyResultsIsSuccess(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(SearchResult{
			Results:       []Episode{},
			FallbackLevel: 3,
			Message:       "マッチ数が少ないため、最新のエピソードを表示しています",
		})
	}))

	res, err := c.Discover(context.Background(), Query{SearchQuery: "愛について"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(res.Results) != 0 {
		t.Errorf("Results len = %d, want 0", len(res.Results))
	}
	if res.Message == "" {
		t.Error("Message is empty, want fallback notice")
	}
}

func TestDiscover_ErrorBodySurfaced(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "有効な哲学者またはテーマを指定してください"})
	}))

	_, err := c.Discover(context.Background(), Query{})
	if err == nil {
		t.Fatal("Discover() = nil error, want failure")
	}
	if !errors.Is(err, errors.ErrCodeDiscoverySearch) {
		t.Errorf("error code = %v, want DISCOVERY_SEARCH_FAILED", errors.GetCode(err))
	}
	if got := errors.UserMessage(err); got != "有効な哲学者またはテーマを指定してください" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestDiscover_ErrorWithoutBodyIsGeneric(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	_, err := c.Discover(context.Background(), Query{})
	if err == nil {
		t.Fatal("Discover() = nil error, want failure")
	}
	if got := errors.UserMessage(err); got != genericSearchError {
		t.Errorf("UserMessage = %q, want generic", got)
	}
}

func TestDiscover_ServerErrorRetriesThenFails(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "検索に失敗しました。しばらく待ってから再度お試しください。"})
	}))

	_, err := c.Discover(context.Background(), Query{SearchQuery: "x"})
	if err == nil {
		t.Fatal("Discover() = nil error, want failure")
	}
	if !errors.Is(err, errors.ErrCodeDiscoverySearch) {
		t.Errorf("error code = %v", errors.GetCode(err))
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("backend was called %d times, want 3 (5xx retried)", got)
	}
}
