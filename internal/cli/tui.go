package cli

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/soretetsu/tetsunavi/pkg/analytics"
	"github.com/soretetsu/tetsunavi/pkg/catalog"
	"github.com/soretetsu/tetsunavi/pkg/discovery"
	"github.com/soretetsu/tetsunavi/pkg/session"
	"github.com/soretetsu/tetsunavi/pkg/video"
	"github.com/soretetsu/tetsunavi/pkg/wordcloud"
)

// The cloud layout works in a virtual pixel space; terminal cells map onto
// it at a fixed scale so the spiral geometry keeps its proportions.
const (
	cellWidth  = 8.0
	cellHeight = 20.0
)

// searcher is the slice of the discovery client the model needs.
type searcher interface {
	Config(ctx context.Context) (discovery.Config, bool)
	Discover(ctx context.Context, q discovery.Query) (*discovery.SearchResult, error)
}

// Cloud styles
var (
	cloudCursorStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

// Messages produced by the model's commands.
type (
	configLoadedMsg struct {
		cfg      discovery.Config
		fallback bool
	}
	searchDoneMsg   struct{ result *discovery.SearchResult }
	searchFailedMsg struct{ err error }
)

// CloudModel is the bubbletea model for the three-step discovery flow:
// a paginated tag cloud, the sub-theme picker, and the result cards.
type CloudModel struct {
	client searcher
	sess   *session.Session
	rng    *rand.Rand

	candidates []catalog.Tag // step-1 tags, fixed after config load
	subthemes  []catalog.Tag // step-2 tags, fixed

	state      wordcloud.State
	placements []wordcloud.Placement
	rows       int // canvas height in cells for the current layout
	cursor     int

	width  int // terminal cells
	height int

	configLoaded bool
	usedFallback bool
	errMsg       string
}

// NewCloudModel creates the discovery TUI over the given client.
func NewCloudModel(client searcher) CloudModel {
	return CloudModel{
		client: client,
		sess:   session.New(),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		width:  80,
		height: 24,
	}
}

// pixelWidth maps the terminal width into the layout's pixel space.
func (m CloudModel) pixelWidth() float64 { return float64(m.width) * cellWidth }

func (m CloudModel) bounds() wordcloud.Bounds {
	// Header and footer take a few rows; the cloud gets the rest.
	usable := m.height - 6
	if usable < 5 {
		usable = 5
	}
	return wordcloud.Bounds{
		Width:  m.pixelWidth(),
		Height: float64(usable) * cellHeight,
	}
}

func (m CloudModel) Init() tea.Cmd {
	return m.fetchConfig()
}

func (m CloudModel) fetchConfig() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		cfg, fallback := m.client.Config(ctx)
		return configLoadedMsg{cfg: cfg, fallback: fallback}
	}
}

// search issues the discovery request for the session's current selection.
func (m CloudModel) search() tea.Cmd {
	q := m.sess.Query()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		result, err := m.client.Discover(ctx, q)
		if err != nil {
			return searchFailedMsg{err: err}
		}
		return searchDoneMsg{result: result}
	}
}

func (m CloudModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case configLoadedMsg:
		m.candidates = catalog.Candidates(msg.cfg.Philosophers, msg.cfg.Themes)
		m.subthemes = catalog.Candidates(nil, catalog.Subthemes)
		m.usedFallback = msg.fallback
		m.configLoaded = true
		m.state = wordcloud.NewState(m.candidates, m.pixelWidth())
		m.reshuffle()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.configLoaded && m.sess.Step() != session.StepResults {
			m.state.Resize(m.pixelWidth())
			m.reshuffle()
		}
		return m, nil

	case searchDoneMsg:
		m.sess.CompleteSearch(msg.result.Results, msg.result.Message)
		m.errMsg = ""
		analytics.Emit(context.Background(), "search_complete", map[string]string{
			"fallback_level": fmt.Sprintf("%d", msg.result.FallbackLevel),
			"results":        fmt.Sprintf("%d", len(msg.result.Results)),
		})
		return m, nil

	case searchFailedMsg:
		m.errMsg = m.sess.FailSearch(msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m CloudModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "b", "esc":
		if m.sess.Step() == session.StepBrowse {
			return m, tea.Quit
		}
		m.sess.Back()
		m.errMsg = ""
		m.state = wordcloud.NewState(m.candidates, m.pixelWidth())
		m.reshuffle()
		return m, nil
	}

	if !m.configLoaded || m.sess.Loading() {
		return m, nil
	}

	switch m.sess.Step() {
	case session.StepBrowse, session.StepSubtheme:
		return m.handleCloudKey(msg)
	}
	return m, nil
}

func (m CloudModel) handleCloudKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "up", "h", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "down", "j", "l":
		if m.cursor < len(m.placements)-1 {
			m.cursor++
		}
	case "tab", "n":
		m.state.Next()
		m.reshuffle()
	case "r":
		m.reshuffle()
	case "enter", " ":
		if len(m.placements) == 0 {
			return m, nil
		}
		tag := m.placements[m.cursor].Tag
		if m.sess.Step() == session.StepBrowse {
			m.sess.SelectMain(tag)
			analytics.Emit(context.Background(), "tag_select", map[string]string{
				"kind": tag.Kind.String(),
				"name": tag.Name,
			})
			m.state = wordcloud.NewState(m.subthemes, m.pixelWidth())
			m.reshuffle()
			return m, nil
		}
		m.sess.SelectSubtheme(tag.Name)
		analytics.Emit(context.Background(), "subtheme_select", map[string]string{
			"name": tag.Name,
		})
		if m.sess.BeginSearch() {
			m.errMsg = ""
			return m, m.search()
		}
	}
	return m, nil
}

// reshuffle recomputes the placements of the current page with fresh
// randomness and resets the cursor.
func (m *CloudModel) reshuffle() {
	bounds := m.bounds()
	res := wordcloud.Place(m.state.CurrentItems(), bounds, wordcloud.Compact(bounds.Width), m.rng)

	// Reading order: top to bottom, left to right.
	sort.Slice(res.Placements, func(i, j int) bool {
		if res.Placements[i].Y != res.Placements[j].Y {
			return res.Placements[i].Y < res.Placements[j].Y
		}
		return res.Placements[i].X < res.Placements[j].X
	})
	m.placements = res.Placements
	m.rows = int(wordcloud.ContainerHeight(res.MaxExtent, bounds.Height) / cellHeight)
	m.cursor = 0
}

func (m CloudModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("それでも哲学したい — エピソード探索"))
	b.WriteString("\n")

	switch m.sess.Step() {
	case session.StepBrowse:
		b.WriteString(listDimStyle.Render("気になる哲学者・テーマを選んでください"))
	case session.StepSubtheme:
		main := m.sess.SelectedMain()
		b.WriteString(tagStyle(main.Color).Render(main.Name))
		b.WriteString(listDimStyle.Render(" について、どんな問いに惹かれますか"))
	case session.StepResults:
		b.WriteString(listDimStyle.Render("おすすめのエピソード"))
	}
	b.WriteString("\n")

	if m.usedFallback {
		b.WriteString(StyleWarning.Render("オフラインの候補リストを表示しています"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case !m.configLoaded:
		b.WriteString(listDimStyle.Render("読み込み中..."))
	case m.sess.Loading():
		b.WriteString(listDimStyle.Render("検索中..."))
	case m.sess.Step() == session.StepResults:
		b.WriteString(m.viewResults())
	default:
		b.WriteString(m.viewCloud())
	}

	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(StyleError.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(m.viewFooter())
	return b.String()
}

// viewCloud paints the placed tags onto a cell canvas. Tags that would
// collide after the pixel-to-cell rounding are skipped for this render;
// the next reshuffle redraws them elsewhere.
func (m CloudModel) viewCloud() string {
	rows := m.rows
	if rows < 1 {
		rows = 1
	}

	type cell struct {
		col   int
		label string
		style lipgloss.Style
	}
	lines := make([][]cell, rows)

	for i, p := range m.placements {
		row := int(p.Y / cellHeight)
		col := int(p.X / cellWidth)
		if row < 0 || row >= rows {
			continue
		}
		maxLen := int(p.Width / cellWidth)
		label := p.Tag.Name
		if len([]rune(label)) > maxLen {
			label = string([]rune(label)[:maxLen])
		}

		style := tagStyle(p.Tag.Color)
		if p.Tier >= 4 {
			style = style.Bold(true)
		}
		if i == m.cursor {
			style = cloudCursorStyle.Foreground(lipgloss.Color(p.Tag.Color))
		}
		lines[row] = append(lines[row], cell{col: col, label: label, style: style})
	}

	var b strings.Builder
	for _, line := range lines {
		sort.Slice(line, func(i, j int) bool { return line[i].col < line[j].col })
		pos := 0
		for _, c := range line {
			w := lipgloss.Width(c.label)
			if c.col < pos {
				continue // rounding collision, skip this render
			}
			b.WriteString(strings.Repeat(" ", c.col-pos))
			b.WriteString(c.style.Render(c.label))
			pos = c.col + w
		}
		b.WriteString("\n")
	}
	return b.String()
}

// viewResults renders the episode cards.
func (m CloudModel) viewResults() string {
	var b strings.Builder

	if msg := m.sess.Message(); msg != "" {
		b.WriteString(StyleWarning.Render(msg))
		b.WriteString("\n\n")
	}

	results := m.sess.Results()
	if len(results) == 0 {
		b.WriteString(listDimStyle.Render("該当するエピソードが見つかりませんでした"))
		b.WriteString("\n")
		return b.String()
	}

	for i, ep := range results {
		b.WriteString(StyleValue.Bold(true).Render(fmt.Sprintf("%d. %s", i+1, ep.Title)))
		b.WriteString("\n")
		if ep.Summary != "" {
			b.WriteString("   " + StyleDim.Render(ep.Summary) + "\n")
		}
		var meta []string
		if ep.Difficulty != "" {
			meta = append(meta, "難易度: "+ep.Difficulty)
		}
		if ep.EpisodeType != "" {
			meta = append(meta, ep.EpisodeType)
		}
		if len(meta) > 0 {
			b.WriteString("   " + listDimStyle.Render(strings.Join(meta, "  ")) + "\n")
		}
		b.WriteString("   " + StyleLink.Render(ep.URL) + "\n")
		if thumb := video.ThumbnailURL(ep.URL); thumb != video.PlaceholderThumbnail {
			b.WriteString("   " + listDimStyle.Render(thumb) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m CloudModel) viewFooter() string {
	switch m.sess.Step() {
	case session.StepResults:
		return listDimStyle.Render("b 戻る  q 終了")
	default:
		pages := ""
		if m.configLoaded && m.state.PageCount() > 1 {
			pages = fmt.Sprintf("  [%d/%d]", m.state.Page+1, m.state.PageCount())
		}
		return listDimStyle.Render("←/→ 移動  ⏎ 選択  n 次のページ  r 並べ替え  b 戻る  q 終了" + pages)
	}
}
