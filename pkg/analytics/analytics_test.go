package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// recorder captures emitted events for assertions.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Emit(_ context.Context, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func TestEmit_UsesRegisteredEmitter(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recorder{}
	Set(rec)

	Emit(context.Background(), "search", map[string]string{"philosopher": "カント"})

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(rec.events))
	}
	ev := rec.events[0]
	if ev.Name != "search" {
		t.Errorf("Name = %q, want search", ev.Name)
	}
	if ev.Props["philosopher"] != "カント" {
		t.Errorf("Props = %v", ev.Props)
	}
	if ev.ClientID == "" {
		t.Error("ClientID is empty")
	}
}

func TestSet_NilKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recorder{}
	Set(rec)
	Set(nil)

	Emit(context.Background(), "noop-check", nil)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(rec.events))
	}
}

func TestNoop_Discards(t *testing.T) {
	t.Cleanup(Reset)
	Reset()
	// Must not panic or block.
	Emit(context.Background(), "ignored", map[string]string{"k": "v"})
}

func TestHTTPEmitter_Delivers(t *testing.T) {
	received := make(chan Event, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev Event
		_ = json.NewDecoder(r.Body).Decode(&ev)
		received <- ev
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	e := NewHTTPEmitter(srv.URL)
	e.Emit(context.Background(), Event{Name: "step", Props: map[string]string{"to": "results"}})

	select {
	case ev := <-received:
		if ev.Name != "step" || ev.Props["to"] != "results" {
			t.Errorf("delivered event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}
}

func TestHTTPEmitter_SinkDownIsSilent(t *testing.T) {
	// Nothing listens on this address; Emit must neither error nor panic.
	e := NewHTTPEmitter("http://127.0.0.1:1/collect")
	e.Emit(context.Background(), Event{Name: "lost"})
	time.Sleep(50 * time.Millisecond)
}

func TestHTTPEmitter_DoesNotBlockCaller(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	e := NewHTTPEmitter(srv.URL)
	start := time.Now()
	e.Emit(context.Background(), Event{Name: "slow-sink"})
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Emit blocked for %v", elapsed)
	}
}
