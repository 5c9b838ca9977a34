// Package catalog defines the browsable tag catalog for the discovery flow.
//
// A tag is either a philosopher or a theme; the two kinds render with
// distinct color palettes in the tag cloud. The candidate set is built once
// per session from the backend configuration (or the embedded fallback
// lists) and never mutated afterwards - the layout engine only paginates
// and reshuffles it.
package catalog

// Kind distinguishes the two tag categories.
type Kind int

const (
	KindPhilosopher Kind = iota
	KindTheme
)

// String returns the kind name used in analytics payloads.
func (k Kind) String() string {
	if k == KindPhilosopher {
		return "philosopher"
	}
	return "theme"
}

// Tag is a single selectable label in the tag cloud.
// Tags are immutable once created.
type Tag struct {
	Name  string // unique display label
	Kind  Kind
	Color string // hex color drawn from the kind's palette
}

// MinCandidates is the smallest candidate set the layout engine accepts.
// Shorter source lists are padded by cyclic duplication.
const MinCandidates = 5

// Color palettes per tag kind. Philosophers get the warm palette, themes the
// cool one; colors are assigned by cycling.
var (
	philosopherPalette = []string{"#e07a5f", "#d4a373", "#c1666b", "#e09f3e", "#b5838d"}
	themePalette       = []string{"#3d7ea6", "#55967e", "#5f7fbf", "#47886f", "#6494aa"}
)

// Candidates builds the session-fixed tag set from philosopher and theme
// names. If the combined list is shorter than [MinCandidates], entries are
// cyclically duplicated from the front until the minimum is met; duplicates
// are treated as distinct placeable items.
func Candidates(philosophers, themes []string) []Tag {
	tags := make([]Tag, 0, len(philosophers)+len(themes))
	for i, name := range philosophers {
		tags = append(tags, Tag{
			Name:  name,
			Kind:  KindPhilosopher,
			Color: philosopherPalette[i%len(philosopherPalette)],
		})
	}
	for i, name := range themes {
		tags = append(tags, Tag{
			Name:  name,
			Kind:  KindTheme,
			Color: themePalette[i%len(themePalette)],
		})
	}
	return Pad(tags)
}

// Pad cyclically duplicates entries from the front until the list reaches
// MinCandidates. An empty list stays empty; there is nothing to duplicate.
func Pad(tags []Tag) []Tag {
	if len(tags) == 0 {
		return tags
	}
	n := len(tags)
	for i := 0; len(tags) < MinCandidates; i++ {
		tags = append(tags, tags[i%n])
	}
	return tags
}
