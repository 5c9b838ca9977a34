// Package analytics provides best-effort usage event emission.
//
// Events are named and carry a flat string payload. Emission is strictly
// fire-and-forget: the sink may be absent, unreachable, or slow, and none of
// that may raise an error or alter control flow in the caller. The package
// therefore exposes no error returns at all.
//
// # Architecture
//
// The package uses the same registry pattern as optional instrumentation
// hooks: a process-global emitter with a no-op default, replaced once at
// startup by main. Libraries emit through the package-level [Emit] and never
// know which sink is installed.
//
//	func main() {
//	    analytics.Set(analytics.NewHTTPEmitter(cfg.Analytics.Endpoint))
//	    // ... run application
//	}
//
//	analytics.Emit(ctx, "search", map[string]string{"philosopher": name})
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is a named usage event with a flat key-value payload.
type Event struct {
	Name     string            `json:"name"`
	ClientID string            `json:"client_id"`
	Time     time.Time         `json:"time"`
	Props    map[string]string `json:"props,omitempty"`
}

// Emitter delivers events to a sink. Implementations must never block the
// caller beyond trivial bookkeeping and must swallow every failure.
type Emitter interface {
	Emit(ctx context.Context, ev Event)
}

// Noop is an Emitter that discards every event.
type Noop struct{}

func (Noop) Emit(context.Context, Event) {}

var (
	emitterMu sync.RWMutex
	emitter   Emitter = Noop{}

	// clientID identifies this process in emitted events.
	clientID = uuid.NewString()
)

// Set registers the process-wide emitter.
// This should be called once at application startup.
func Set(e Emitter) {
	emitterMu.Lock()
	defer emitterMu.Unlock()
	if e != nil {
		emitter = e
	}
}

// Default returns the registered emitter.
func Default() Emitter {
	emitterMu.RLock()
	defer emitterMu.RUnlock()
	return emitter
}

// Reset restores the no-op emitter. This is primarily useful for testing.
func Reset() {
	emitterMu.Lock()
	defer emitterMu.Unlock()
	emitter = Noop{}
}

// Emit sends a named event with a flat payload through the registered
// emitter. It never fails and never blocks on the sink.
func Emit(ctx context.Context, name string, props map[string]string) {
	Default().Emit(ctx, Event{
		Name:     name,
		ClientID: clientID,
		Time:     time.Now().UTC(),
		Props:    props,
	})
}

// HTTPEmitter posts events as JSON to an HTTP collector. Delivery happens in
// a detached goroutine with its own timeout; responses and errors are
// discarded.
type HTTPEmitter struct {
	endpoint string
	client   *http.Client
}

// NewHTTPEmitter creates an emitter posting to the given collector endpoint.
func NewHTTPEmitter(endpoint string) *HTTPEmitter {
	return &HTTPEmitter{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Emit delivers the event in the background. The caller's context is not
// used for the request so that short-lived UI callbacks don't cancel
// in-flight deliveries.
func (e *HTTPEmitter) Emit(_ context.Context, ev Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		return
	}
	go func() {
		defer func() { _ = recover() }()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
		if err != nil {
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := e.client.Do(req)
		if err != nil {
			return
		}
		_ = resp.Body.Close()
	}()
}

// Ensure both emitters implement Emitter.
var (
	_ Emitter = Noop{}
	_ Emitter = (*HTTPEmitter)(nil)
)
