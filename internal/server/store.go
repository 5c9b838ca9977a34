package server

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/soretetsu/tetsunavi/pkg/errors"
)

// Episode is one catalog entry on the server side. Unlike the client's wire
// type it keeps the tag lists and the numeric ranking factors.
type Episode struct {
	Title       string
	URL         string
	Summary     string
	EpisodeType string
	Difficulty  string

	Philosophers []string
	Themes       []string

	// Ranking factors derived from the CSV's Japanese labels.
	RelevanceScore  int // ルディクレア関連度: 低=1, 中=2, 高=3
	DifficultyScore int // 難易度: 入門=1, 中級=2, 上級=3
}

// Store holds the loaded episode catalog. Episodes keep their CSV order;
// later rows are newer, which the search's recency ranking relies on.
type Store struct {
	episodes []Episode
}

// relevance and difficulty label mappings from the catalog CSV.
var (
	relevanceScores  = map[string]int{"低": 1, "中": 2, "高": 3}
	difficultyScores = map[string]int{"入門": 1, "中級": 2, "上級": 3}
)

// LoadCSV reads the episode catalog from the CSV file exported from the
// editorial database. Unknown columns are ignored; rows without a title or
// URL are skipped.
func LoadCSV(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeCatalogNotFound, err, "episode catalog %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses episode rows from r. The first record is the header; the
// expected columns are Name, URL, Summary, エピソード種別, 難易度, 哲学者,
// テーマ and ルディクレア関連度.
func ReadCSV(r io.Reader) (*Store, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read catalog header")
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF") // utf-8-sig export
		}
		col[strings.TrimSpace(name)] = i
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	store := &Store{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read catalog row")
		}

		ep := Episode{
			Title:       field(record, "Name"),
			URL:         field(record, "URL"),
			Summary:     field(record, "Summary"),
			EpisodeType: field(record, "エピソード種別"),
			Difficulty:  field(record, "難易度"),

			Philosophers: splitTags(field(record, "哲学者")),
			Themes:       splitTags(field(record, "テーマ")),
		}
		if ep.Title == "" || ep.URL == "" {
			continue
		}

		ep.RelevanceScore = labelScore(relevanceScores, field(record, "ルディクレア関連度"), 1)
		ep.DifficultyScore = labelScore(difficultyScores, ep.Difficulty, 2)

		store.episodes = append(store.episodes, ep)
	}
	return store, nil
}

// NewStore builds a store from pre-parsed episodes, mostly for tests.
func NewStore(episodes []Episode) *Store {
	return &Store{episodes: episodes}
}

// Episodes returns the catalog in storage order (oldest first).
func (s *Store) Episodes() []Episode { return s.episodes }

// Len returns the number of loaded episodes.
func (s *Store) Len() int { return len(s.episodes) }

// Stats counts episodes per philosopher and per theme.
func (s *Store) Stats() (philosophers, themes map[string]int) {
	philosophers = make(map[string]int)
	themes = make(map[string]int)
	for _, ep := range s.episodes {
		for _, p := range ep.Philosophers {
			philosophers[p]++
		}
		for _, t := range ep.Themes {
			themes[t]++
		}
	}
	return philosophers, themes
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func labelScore(scores map[string]int, label string, fallback int) int {
	if v, ok := scores[label]; ok {
		return v
	}
	return fallback
}
