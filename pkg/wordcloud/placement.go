package wordcloud

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/soretetsu/tetsunavi/pkg/catalog"
)

// Bounds is the pixel area available to the tag cloud.
type Bounds struct {
	Width  float64
	Height float64
}

// Placement is a positioned tag for the active page. Placements are
// ephemeral: they are recomputed on every render and discarded with it.
type Placement struct {
	Tag    catalog.Tag
	X      float64 // top-left
	Y      float64
	Width  float64
	Height float64
	Tier   int // size tier 1..5
}

// Result carries the placements of one render pass.
type Result struct {
	Placements []Placement
	Dropped    int     // items that exhausted their attempt budget
	MaxExtent  float64 // max(Y+Height) over placed items; 0 when none placed
}

const (
	// edgeMargin keeps boxes off the bounds' borders.
	edgeMargin = 5.0
	// boxPadding is the exclusion zone around every placed box.
	boxPadding = 15.0
	// maxAttempts is the per-item retry budget before the item is dropped.
	maxAttempts = 20
	// tagHeight is the rendered box height for every tier.
	tagHeight = 40.0
)

// tierWidths maps size tier (1..5) to rendered box width.
var tierWidths = [...]float64{1: 80, 2: 100, 3: 120, 4: 140, 5: 160}

// Spiral tuning. Compact mode starts closer to the center, grows slower and
// jitters less.
const (
	startRadius        = 80.0
	startRadiusCompact = 50.0
	angleStepMin       = 0.5
	angleStepSpan      = 0.3 // step drawn from [0.5, 0.8)
	radiusStepMin      = 12.0
	radiusStepSpan     = 8.0 // base step drawn from [12, 20)
	radiusExtra        = 15.0
	radiusExtraCompact = 8.0
	jitter             = 30.0
	jitterCompact      = 12.0
)

// Place scatters items inside bounds on a randomized outward spiral.
//
// The input order carries no meaning; items are shuffled first. Each item
// draws a size tier, then tries up to [maxAttempts] candidate positions on
// its angle/radius base with fresh jitter, and is dropped from the page when
// every candidate collides. Place never fails; it degrades by omission.
//
// rng must not be nil. Pass a fixed-seed source for reproducible output.
func Place(items []catalog.Tag, bounds Bounds, compact bool, rng *rand.Rand) Result {
	shuffled := slices.Clone(items)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	angle := 0.0
	radius := startRadius
	extra := radiusExtra
	jit := jitter
	if compact {
		radius = startRadiusCompact
		extra = radiusExtraCompact
		jit = jitterCompact
	}

	res := Result{Placements: make([]Placement, 0, len(shuffled))}
	for _, tag := range shuffled {
		tier := rollTier(rng)
		p, ok := tryPlace(tag, tier, bounds, angle, radius, jit, rng, res.Placements)
		if ok {
			res.Placements = append(res.Placements, p)
			res.MaxExtent = math.Max(res.MaxExtent, p.Y+p.Height)
			angle += angleStepMin + rng.Float64()*angleStepSpan
		} else {
			res.Dropped++
		}
		radius += radiusStepMin + rng.Float64()*radiusStepSpan + rng.Float64()*extra
	}
	return res
}

// rollTier draws a size tier from the fixed distribution:
// tier 2 40%, tier 3 30%, tier 1 15%, tier 4 10%, tier 5 5%.
func rollTier(rng *rand.Rand) int {
	r := rng.Float64()
	switch {
	case r < 0.40:
		return 2
	case r < 0.70:
		return 3
	case r < 0.85:
		return 1
	case r < 0.95:
		return 4
	default:
		return 5
	}
}

// tryPlace probes candidate positions on the current angle/radius base,
// drawing fresh jitter per attempt. It returns ok=false once the attempt
// budget is exhausted; the retry loop intentionally does not rebalance the
// spiral, which can under-pack sparse layouts on small viewports.
func tryPlace(tag catalog.Tag, tier int, bounds Bounds, angle, radius, jit float64, rng *rand.Rand, placed []Placement) (Placement, bool) {
	w := tierWidths[tier]
	h := tagHeight
	cx := bounds.Width / 2
	cy := bounds.Height / 2

	for range maxAttempts {
		jx := (rng.Float64()*2 - 1) * jit
		jy := (rng.Float64()*2 - 1) * jit
		x := clamp(cx+radius*math.Cos(angle)+jx-w/2, edgeMargin, bounds.Width-w-edgeMargin)
		y := clamp(cy+radius*math.Sin(angle)+jy-h/2, edgeMargin, bounds.Height-h-edgeMargin)

		p := Placement{Tag: tag, X: x, Y: y, Width: w, Height: h, Tier: tier}
		if !collides(p, placed) {
			return p, true
		}
	}
	return Placement{}, false
}

// collides reports whether p's padded box intersects any placed box.
func collides(p Placement, placed []Placement) bool {
	for _, q := range placed {
		if p.X-boxPadding < q.X+q.Width &&
			p.X+p.Width+boxPadding > q.X &&
			p.Y-boxPadding < q.Y+q.Height &&
			p.Y+p.Height+boxPadding > q.Y {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Min(math.Max(v, lo), hi)
}

// Scroll container sizing for narrow viewports.
const (
	containerMinHeight = 350.0
	containerMargin    = 40.0
)

// ContainerHeight sizes the scrollable cloud container in narrow viewports:
// the content extent clamped to [350, clientHeight], plus a 40px margin.
// Wide viewports use a fixed externally-defined height instead.
func ContainerHeight(maxExtent, clientHeight float64) float64 {
	h := math.Max(maxExtent, containerMinHeight)
	if clientHeight > containerMinHeight {
		h = math.Min(h, clientHeight)
	}
	return h + containerMargin
}
