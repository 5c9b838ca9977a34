// Package discovery implements the client for the episode discovery API.
//
// The backend exposes two endpoints: GET /api/config serves the selectable
// philosopher and theme lists, and POST /api/discover returns up to five
// matching episodes for a tag + sub-theme query.
//
// The two endpoints fail differently on purpose. A config failure is
// recovered locally: the embedded fallback lists are substituted and the
// user is never notified. A discovery failure is surfaced as a
// [errors.ErrCodeDiscoverySearch] error carrying the backend's message (or a
// generic one) for the UI to display; the flow stays on its current step.
package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/soretetsu/tetsunavi/pkg/cache"
	"github.com/soretetsu/tetsunavi/pkg/catalog"
	"github.com/soretetsu/tetsunavi/pkg/errors"
	"github.com/soretetsu/tetsunavi/pkg/httputil"
)

// genericSearchError is shown when a failed discovery response carries no
// usable error body. Mirrors the backend's own wording.
const genericSearchError = "検索に失敗しました。しばらく待ってから再度お試しください。"

// Client talks to the discovery backend. Config responses are cached through
// the configured backend; searches are never cached.
//
// All methods are safe for concurrent use.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	baseURL   string
	configTTL time.Duration
}

// NewClient creates a discovery client for the given base URL.
//
// Parameters:
//   - backend: cache for config responses (use cache.NewNullCache() for none)
//   - configTTL: how long config responses are cached (typical: 1-24 hours)
func NewClient(baseURL string, backend cache.Cache, configTTL time.Duration) *Client {
	return &Client{
		http:      httputil.NewHTTPClient(),
		cache:     backend,
		baseURL:   baseURL,
		configTTL: configTTL,
	}
}

// Config fetches the selectable tag lists from GET /api/config.
//
// Config never fails: on any error (network, non-2xx, malformed body) it
// returns the embedded fallback lists and fallback=true so that callers can
// log the degradation without surfacing it.
func (c *Client) Config(ctx context.Context) (cfg Config, fallback bool) {
	key := cache.Key("config", c.baseURL)
	if data, hit, _ := c.cache.Get(ctx, key); hit {
		if err := json.Unmarshal(data, &cfg); err == nil {
			return cfg, false
		}
	}

	err := httputil.RetryWithBackoff(ctx, func() error {
		return c.getJSON(ctx, c.baseURL+"/api/config", &cfg)
	})
	if err != nil || len(cfg.Philosophers)+len(cfg.Themes) == 0 {
		return Config{
			Philosophers: catalog.FallbackPhilosophers,
			Themes:       catalog.FallbackThemes,
		}, true
	}

	if data, err := json.Marshal(cfg); err == nil {
		_ = c.cache.Set(ctx, key, data, c.configTTL)
	}
	return cfg, false
}

// Discover runs a search via POST /api/discover.
//
// An empty result set is a successful search. Failures return a
// [errors.ErrCodeDiscoverySearch] error whose user message is the backend's
// {error} body when present, and a generic message otherwise.
func (c *Client) Discover(ctx context.Context, q Query) (*SearchResult, error) {
	if q.TopK <= 0 {
		q.TopK = DefaultTopK
	}
	body, err := json.Marshal(q)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode query")
	}

	var result SearchResult
	err = httputil.RetryWithBackoff(ctx, func() error {
		return c.postJSON(ctx, c.baseURL+"/api/discover", body, &result)
	})
	if err != nil {
		if errors.Is(err, errors.ErrCodeDiscoverySearch) {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeDiscoverySearch, err, genericSearchError)
	}
	return &result, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, v)
}

func (c *Client) postJSON(ctx context.Context, url string, body []byte, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, v)
}

func (c *Client) do(req *http.Request, v any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", httputil.ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// statusError converts a non-2xx response into an error. 5xx responses are
// retryable; the backend's {error} body becomes the user message when the
// retries are exhausted.
func statusError(resp *http.Response) error {
	msg := genericSearchError
	var body apiError
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); err == nil {
		if json.Unmarshal(data, &body) == nil && body.Error != "" {
			msg = body.Error
		}
	}

	err := errors.New(errors.ErrCodeDiscoverySearch, "%s", msg)
	if resp.StatusCode >= 500 {
		return &httputil.RetryableError{Err: err}
	}
	return err
}
