package server

import (
	"slices"
	"strings"
)

// Fallback levels for a search, in widening order.
const (
	fallbackNone    = 0 // philosopher AND theme match
	fallbackRelated = 1 // philosopher OR theme match
	fallbackKeyword = 2 // keyword search over title and summary
	fallbackNewest  = 3 // whole catalog, newest first
)

// fallbackMessages explains each non-strict level to the user. Level 0 has
// no message.
var fallbackMessages = map[int]string{
	fallbackRelated: "マッチ数が少ないため、関連エピソードも含めて表示しています",
	fallbackKeyword: "マッチ数が少ないため、キーワード検索の結果を表示しています",
	fallbackNewest:  "マッチ数が少ないため、最新のエピソードを表示しています",
}

// searchQuery is a validated discovery query on the server side.
type searchQuery struct {
	Philosophers []string
	Themes       []string
	Keyword      string
	TopK         int
}

// Search selects up to TopK episodes for the query, widening the candidate
// set level by level until enough episodes are available:
//
//	0: episodes matching a requested philosopher AND a requested theme
//	1: episodes matching either, when level 0 finds fewer than TopK
//	2: keyword search over title/summary, when tags still find fewer
//	3: the whole catalog, newest first
//
// Candidates are ranked by match score (see matchScore) with recency as the
// tie-breaker, so level 3 degrades to "newest episodes".
func (s *Store) Search(q searchQuery) (episodes []Episode, level int) {
	if q.TopK <= 0 {
		q.TopK = 5
	}

	candidates := s.episodes
	level = fallbackNone

	switch {
	case len(q.Philosophers) > 0 && len(q.Themes) > 0:
		candidates = filter(s.episodes, func(ep Episode) bool {
			return matchesAny(ep.Philosophers, q.Philosophers) && matchesAny(ep.Themes, q.Themes)
		})
		if len(candidates) < q.TopK {
			level = fallbackRelated
			candidates = filter(s.episodes, func(ep Episode) bool {
				return matchesAny(ep.Philosophers, q.Philosophers) || matchesAny(ep.Themes, q.Themes)
			})
		}
	case len(q.Philosophers) > 0 || len(q.Themes) > 0:
		candidates = filter(s.episodes, func(ep Episode) bool {
			return matchesAny(ep.Philosophers, q.Philosophers) || matchesAny(ep.Themes, q.Themes)
		})
		if len(candidates) < q.TopK {
			level = fallbackKeyword
		}
	}

	if len(candidates) < q.TopK && q.Keyword != "" {
		level = fallbackKeyword
		keyword := strings.ToLower(q.Keyword)
		candidates = filter(s.episodes, func(ep Episode) bool {
			return strings.Contains(strings.ToLower(ep.Title), keyword) ||
				strings.Contains(strings.ToLower(ep.Summary), keyword)
		})
	}

	if len(candidates) < q.TopK {
		level = fallbackNewest
		candidates = s.episodes
	}

	ranked := s.rank(candidates, q)
	if len(ranked) > q.TopK {
		ranked = ranked[:q.TopK]
	}
	return ranked, level
}

// rank orders candidates by descending match score; equal scores rank newer
// episodes (later catalog rows) first. The input is not mutated.
func (s *Store) rank(candidates []Episode, q searchQuery) []Episode {
	type scored struct {
		ep    Episode
		score int
		pos   int
	}

	positions := make(map[string]int, len(s.episodes))
	for i, ep := range s.episodes {
		positions[ep.URL] = i
	}

	items := make([]scored, len(candidates))
	for i, ep := range candidates {
		items[i] = scored{ep: ep, score: matchScore(ep, q), pos: positions[ep.URL]}
	}
	slices.SortStableFunc(items, func(a, b scored) int {
		if a.score != b.score {
			return b.score - a.score
		}
		return b.pos - a.pos
	})

	ranked := make([]Episode, len(items))
	for i, it := range items {
		ranked[i] = it.ep
	}
	return ranked
}

// matchScore rates how well an episode fits the query:
//
//   - +100 per requested philosopher tagged on the episode, +200 instead
//     when the philosopher's name also appears in the title
//   - +30 per requested theme tagged on the episode
//   - relevance bonus 1/3/5 for 低/中/高
//   - difficulty bonus 1..3
//   - +50 / +20 when the keyword appears in the title / summary
//   - −200 when the title marks an open-chat (雑談) episode
func matchScore(ep Episode, q searchQuery) int {
	score := 0

	for _, p := range q.Philosophers {
		if slices.Contains(ep.Philosophers, p) {
			if strings.Contains(ep.Title, p) {
				score += 200
			} else {
				score += 100
			}
		}
	}

	for _, t := range q.Themes {
		if slices.Contains(ep.Themes, t) {
			score += 30
		}
	}

	score += map[int]int{1: 1, 2: 3, 3: 5}[ep.RelevanceScore]
	score += ep.DifficultyScore

	if q.Keyword != "" {
		keyword := strings.ToLower(q.Keyword)
		if strings.Contains(strings.ToLower(ep.Title), keyword) {
			score += 50
		}
		if strings.Contains(strings.ToLower(ep.Summary), keyword) {
			score += 20
		}
	}

	if strings.Contains(ep.Title, "雑談") {
		score -= 200
	}
	return score
}

func filter(episodes []Episode, keep func(Episode) bool) []Episode {
	var out []Episode
	for _, ep := range episodes {
		if keep(ep) {
			out = append(out, ep)
		}
	}
	return out
}

func matchesAny(have, want []string) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}
