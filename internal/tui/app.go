package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Adda-Baaj/newsboard/internal/store"
)

// linesPerItem is the height of a rendered article including the gap.
const linesPerItem = 4

// Model is the bubbletea model for the article board.
type Model struct {
	ctx   context.Context
	store *store.Store
	feed  *changeFeed
	now   func() time.Time

	state  store.State
	cursor int
	width  int
	height int

	filtering   bool
	filterInput textinput.Model
	prevFilter  string

	loading bool
	spinner spinner.Model
	status  string
	err     error
}

// New builds the model and subscribes it to the store. Nothing is fetched
// until Init runs.
func New(ctx context.Context, s *store.Store) Model {
	ti := textinput.New()
	ti.Placeholder = "filter titles (regexp)"
	ti.Prompt = "/ "
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:         ctx,
		store:       s,
		feed:        subscribe(s),
		now:         time.Now,
		state:       s.State(),
		filterInput: ti,
		spinner:     sp,
		loading:     true,
		width:       80,
		height:      24,
	}
}

// Run starts the full-screen program.
func Run(ctx context.Context, s *store.Store) error {
	m := New(ctx, s)
	defer m.feed.close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startCmd(), m.feed.wait())
}

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.store.Start(m.ctx)
		if errors.Is(err, store.ErrAlreadyStarted) {
			err = nil
		}
		return startedMsg{err: err}
	}
}

func (m Model) refreshCmd(source string) tea.Cmd {
	return func() tea.Msg {
		applied := m.store.UpdateArticles(m.ctx, source)
		return refreshedMsg{source: source, applied: applied}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case stateChangedMsg:
		m.sync(msg.state)
		return m, m.feed.wait()

	case startedMsg:
		m.loading = false
		m.err = msg.err
		m.sync(m.store.State())
		return m, nil

	case refreshedMsg:
		m.loading = false
		if !msg.applied {
			src := msg.source
			if src == "" {
				src = m.state.SelectedSource
			}
			m.status = "refresh of " + src + " failed; showing last results"
		} else {
			m.status = ""
		}
		m.sync(m.store.State())
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue(m.prevFilter)
		m.store.FilterBy(m.prevFilter)
		m.sync(m.store.State())
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.store.FilterBy(m.filterInput.Value())
	m.sync(m.store.State())
	return m, cmd
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.state.View)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "+", "=":
		m.vote(articleItem.upvote)
	case "-", "_":
		m.vote(articleItem.downvote)
	case "t":
		m.sortBy(store.SortByTime, m.state.Direction)
	case "v":
		m.sortBy(store.SortByVotes, m.state.Direction)
	case "d":
		m.sortBy(m.state.SortKey, -m.state.Direction)
	case "/":
		m.filtering = true
		m.prevFilter = m.state.Filter
		m.filterInput.SetValue(m.state.Filter)
		m.filterInput.CursorEnd()
		return m, m.filterInput.Focus()
	case "r":
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.refreshCmd(""))
	case "s":
		next := m.nextSource()
		if next == "" || m.loading {
			return m, nil
		}
		m.loading = true
		m.status = "loading " + next
		return m, tea.Batch(m.spinner.Tick, m.refreshCmd(next))
	}
	return m, nil
}

// vote applies fn to the article under the cursor and keeps the cursor on it
// after the view re-sorts.
func (m *Model) vote(fn func(articleItem) error) {
	item, ok := m.selected()
	if !ok {
		return
	}
	if err := fn(item); err != nil {
		m.status = err.Error()
		return
	}
	m.sync(m.store.State())
	for i, a := range m.state.View {
		if a.ID == item.article.ID {
			m.cursor = i
			break
		}
	}
}

func (m *Model) sortBy(key store.SortKey, dir store.Direction) {
	if err := m.store.SortBy(string(key), int(dir)); err != nil {
		m.status = err.Error()
		return
	}
	m.sync(m.store.State())
}

func (m Model) selected() (articleItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.View) {
		return articleItem{}, false
	}
	return articleItem{article: m.state.View[m.cursor], votes: m.store}, true
}

// nextSource returns the source after the selected one in the fetched listing.
func (m Model) nextSource() string {
	sources := m.state.Sources
	if len(sources) == 0 {
		return ""
	}
	for i, s := range sources {
		if s.ID == m.state.SelectedSource {
			return sources[(i+1)%len(sources)].ID
		}
	}
	return sources[0].ID
}

func (m *Model) sync(st store.State) {
	m.state = st
	if m.cursor >= len(st.View) {
		m.cursor = len(st.View) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	if m.filtering {
		b.WriteString(m.filterInput.View())
		b.WriteString("\n")
	}
	b.WriteString(m.list())
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	return b.String()
}

func (m Model) header() string {
	arrow := "↓"
	if m.state.Direction == store.Ascending {
		arrow = "↑"
	}
	parts := []string{
		"newsboard",
		"source: " + m.state.SelectedSource,
		fmt.Sprintf("sort: %s %s", m.state.SortKey, arrow),
	}
	if m.state.Filter != "" {
		parts = append(parts, "filter: "+m.state.Filter)
	}
	return headerStyle.Width(m.width).Render(strings.Join(parts, "  │  "))
}

func (m Model) list() string {
	if len(m.state.View) == 0 {
		if m.loading {
			return statusStyle.Render(m.spinner.View() + " loading articles...")
		}
		return statusStyle.Render("No articles found")
	}

	visible := max((m.height-4)/linesPerItem, 1)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(m.state.View))

	now := m.now()
	var b strings.Builder
	for i := start; i < end; i++ {
		item := articleItem{article: m.state.View[i], votes: m.store}
		b.WriteString(item.render(i == m.cursor, m.width, now))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func (m Model) statusBar() string {
	if m.err != nil {
		return errorStyle.Render(m.err.Error())
	}
	left := fmt.Sprintf("%d/%d articles", len(m.state.View), len(m.state.Articles))
	if m.loading {
		left = m.spinner.View() + " " + left
	}
	if m.status != "" {
		left += "  " + m.status
	}
	help := "j/k move · +/- vote · t/v sort · d flip · / filter · s source · r refresh · q quit"
	return statusStyle.Render(left + "  " + help)
}
