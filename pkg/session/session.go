// Package session owns the state of one discovery flow.
//
// The flow is a cyclic three-step machine:
//
//	Browse ──SelectMain──▶ Subtheme ──successful search──▶ Results
//	   ▲                      │  ▲__FailSearch (stays)        │
//	   └───────Back───────────┴───────────────Back────────────┘
//
// Selecting a sub-theme does not advance the machine; only a successful
// search does. A failed search surfaces its error and leaves both the step
// and the recorded selections untouched. There is no terminal state.
//
// The session also carries the loading flag that serializes searches: the
// UI refuses to issue a second request while one is outstanding, and the
// flag is released on success and failure alike.
package session

import (
	"github.com/soretetsu/tetsunavi/pkg/catalog"
	"github.com/soretetsu/tetsunavi/pkg/discovery"
	"github.com/soretetsu/tetsunavi/pkg/errors"
)

// Step identifies the current stage of the discovery flow.
type Step int

const (
	StepBrowse   Step = iota // tag cloud, picking a philosopher or theme
	StepSubtheme             // picking a sub-theme for the chosen tag
	StepResults              // rendered episode cards
)

// String returns the step name used in analytics payloads and logs.
func (s Step) String() string {
	switch s {
	case StepBrowse:
		return "browse"
	case StepSubtheme:
		return "subtheme"
	case StepResults:
		return "results"
	default:
		return "unknown"
	}
}

// Session is the mutable state of one discovery flow. It is owned by a
// single goroutine (the UI loop); no internal locking.
type Session struct {
	step Step

	selectedMain *catalog.Tag // chosen philosopher or theme
	selectedSub  string       // chosen sub-theme, sent as the search query
	loading      bool

	results []discovery.Episode
	message string // optional fallback notice from the backend
}

// New starts a session at the browse step.
func New() *Session {
	return &Session{step: StepBrowse}
}

// Step returns the current step.
func (s *Session) Step() Step { return s.step }

// Loading reports whether a search request is outstanding.
func (s *Session) Loading() bool { return s.loading }

// SelectedMain returns the chosen tag, or nil before any selection.
func (s *Session) SelectedMain() *catalog.Tag { return s.selectedMain }

// SelectedSub returns the chosen sub-theme, or "" before any selection.
func (s *Session) SelectedSub() string { return s.selectedSub }

// Results returns the episodes of the last successful search.
func (s *Session) Results() []discovery.Episode { return s.results }

// Message returns the backend's fallback notice for the last search, if any.
func (s *Session) Message() string { return s.message }

// SelectMain records the chosen tag and advances Browse → Subtheme,
// clearing any prior sub-theme choice. Selecting from any other step is
// ignored.
func (s *Session) SelectMain(tag catalog.Tag) {
	if s.step != StepBrowse {
		return
	}
	t := tag
	s.selectedMain = &t
	s.selectedSub = ""
	s.step = StepSubtheme
}

// SelectSubtheme records the sub-theme choice. It does not advance the
// machine; the user must trigger the search explicitly.
func (s *Session) SelectSubtheme(choice string) {
	if s.step != StepSubtheme {
		return
	}
	s.selectedSub = choice
}

// BeginSearch marks a search as outstanding. It reports false when the
// session is not ready to search (wrong step, no selection, or a request
// already in flight).
func (s *Session) BeginSearch() bool {
	if s.step != StepSubtheme || s.selectedMain == nil || s.selectedSub == "" || s.loading {
		return false
	}
	s.loading = true
	return true
}

// Query builds the discovery query for the current selection. The chosen
// tag fills the philosophers or themes field according to its kind; the
// sub-theme travels as the free-text query.
func (s *Session) Query() discovery.Query {
	q := discovery.Query{
		Philosophers: []string{},
		Themes:       []string{},
		SearchQuery:  s.selectedSub,
		TopK:         discovery.DefaultTopK,
	}
	if s.selectedMain != nil {
		if s.selectedMain.Kind == catalog.KindPhilosopher {
			q.Philosophers = []string{s.selectedMain.Name}
		} else {
			q.Themes = []string{s.selectedMain.Name}
		}
	}
	return q
}

// CompleteSearch stores the results and advances Subtheme → Results. An
// empty result set still advances; the optional message explains backend
// fallback behavior to the user.
func (s *Session) CompleteSearch(results []discovery.Episode, message string) {
	s.loading = false
	if s.step != StepSubtheme {
		return
	}
	s.results = results
	s.message = message
	s.step = StepResults
}

// FailSearch releases the loading flag and returns the user-facing error
// message. The step and the recorded selections are left untouched.
func (s *Session) FailSearch(err error) string {
	s.loading = false
	if err == nil {
		return ""
	}
	return errors.UserMessage(err)
}

// Back returns to the browse step from Subtheme or Results, clearing all
// selection state. At the browse step it is a no-op.
func (s *Session) Back() {
	if s.step == StepBrowse {
		return
	}
	s.step = StepBrowse
	s.selectedMain = nil
	s.selectedSub = ""
	s.results = nil
	s.message = ""
}
