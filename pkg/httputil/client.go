package httputil

import (
	"errors"
	"net/http"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a resource doesn't exist on the backend.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with a standard timeout for backend requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
