// Package httputil provides shared HTTP plumbing for API clients.
//
// It contains the retry primitives used by the discovery client and a
// standard [http.Client] constructor with the request timeout applied to
// every backend call. Transient failures (network errors, 5xx responses)
// are wrapped in [RetryableError] so that [Retry] repeats them with
// exponential backoff, while 4xx responses fail immediately.
package httputil
