package wordcloud

import "github.com/soretetsu/tetsunavi/pkg/catalog"

// Viewport width breakpoints (pixels) separating the three density tiers.
const (
	BreakpointNarrow = 480
	BreakpointMedium = 768
)

// Page sizes per density tier, tuned for visual density.
const (
	pageSizeNarrow = 10
	pageSizeMedium = 12
	pageSizeWide   = 14
)

// PageSize returns the number of tags shown per page for a viewport width.
// It is a step function: below [BreakpointNarrow] the narrow size applies,
// below [BreakpointMedium] the medium size, and the wide size otherwise.
func PageSize(viewportWidth float64) int {
	switch {
	case viewportWidth < BreakpointNarrow:
		return pageSizeNarrow
	case viewportWidth < BreakpointMedium:
		return pageSizeMedium
	default:
		return pageSizeWide
	}
}

// Compact reports whether the viewport is below the medium breakpoint.
// Compact mode tightens the placement spiral and jitter.
func Compact(viewportWidth float64) bool {
	return viewportWidth < BreakpointMedium
}

// State tracks pagination over the session's fixed candidate list.
// Items never change after construction; only the page index and the
// viewport-derived page size do.
type State struct {
	Items    []catalog.Tag
	PageSize int
	Page     int
}

// NewState builds pagination state for the given candidates and viewport.
func NewState(items []catalog.Tag, viewportWidth float64) State {
	return State{Items: items, PageSize: PageSize(viewportWidth)}
}

// PageCount returns the number of pages. An empty item list has one
// (empty) page so that Next and CurrentItems stay total.
func (s State) PageCount() int {
	if len(s.Items) == 0 || s.PageSize <= 0 {
		return 1
	}
	return (len(s.Items) + s.PageSize - 1) / s.PageSize
}

// Next advances to the next page, wrapping to the first.
func (s *State) Next() {
	s.Page = (s.Page + 1) % s.PageCount()
}

// CurrentItems returns the active page's slice of the candidate list,
// clipped to the list's length.
func (s State) CurrentItems() []catalog.Tag {
	start := s.Page * s.PageSize
	if start >= len(s.Items) {
		return nil
	}
	end := min(start+s.PageSize, len(s.Items))
	return s.Items[start:end]
}

// Resize re-evaluates the page size for a new viewport width. When the size
// changes, the page index rewinds to 0 and Resize reports true.
func (s *State) Resize(viewportWidth float64) bool {
	size := PageSize(viewportWidth)
	if size == s.PageSize {
		return false
	}
	s.PageSize = size
	s.Page = 0
	return true
}
