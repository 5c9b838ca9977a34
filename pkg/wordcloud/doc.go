// Package wordcloud computes the tag-cloud layout for the browse step.
//
// The engine does two jobs:
//
//   - Pagination: the session's candidate tags are partitioned into
//     fixed-size pages, with the page size a step function of the viewport
//     width. Advancing wraps around; resizing re-evaluates the page size and
//     rewinds to the first page.
//
//   - Placement: the active page's tags are scattered around the center of a
//     bounded area on an outward spiral, each with a randomly drawn size
//     tier, retrying with fresh jitter on collision. A tag that still
//     collides after the attempt budget is dropped from the page; that is
//     normal degraded output, not an error.
//
// Placement is a pure function of its inputs and an injectable random
// source. Production callers pass a freshly seeded source per render, so two
// renders of the same page differ; tests pass a fixed-seed source and check
// structural invariants (containment, padded non-overlap) rather than exact
// coordinates.
package wordcloud
