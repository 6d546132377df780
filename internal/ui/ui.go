package ui

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songboard/internal/client"
	"github.com/desertthunder/songboard/internal/formatter"
	"github.com/desertthunder/songboard/internal/models"
	"github.com/desertthunder/songboard/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	TrendingView ViewState = iota
	SearchView
	DetailView
)

const (
	// DebounceDelay is how long typing must pause before suggestions are requested.
	DebounceDelay = 300 * time.Millisecond

	// MinQueryLength is the shortest trimmed input that triggers a suggestion request.
	MinQueryLength = 3
)

// Catalog is the data source of the TUI. [client.Client] implements it.
type Catalog interface {
	Trending(ctx context.Context) ([]models.TrendingSong, error)
	Search(ctx context.Context, query string, limit int) ([]models.Song, error)
	Autocomplete(ctx context.Context, query string, limit int) ([]models.Suggestion, error)
	Song(ctx context.Context, id string) (*models.Song, error)
}

var _ Catalog = (*client.Client)(nil)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	catalog Catalog
	view    ViewState
	prev    ViewState
	width   int
	height  int

	trending   list.Model
	results    list.Model
	hasResults bool

	input           textinput.Model
	seq             int // incremented per edit; suggestions for an older seq are dropped
	suggestions     []models.Suggestion
	showSuggestions bool
	cursor          int
	loading         bool

	song   *models.Song
	status string
	err    error

	help     help.Model
	keys     keyMap
	debounce time.Duration
	open     func(string) error
}

// NewModel creates a new TUI model reading from catalog.
func NewModel(ctx context.Context, catalog Catalog) *Model {
	input := textinput.New()
	input.Placeholder = "Search for songs, artists, or albums..."
	input.Prompt = "🔍 "
	input.CharLimit = 200

	return &Model{
		ctx:      ctx,
		catalog:  catalog,
		view:     TrendingView,
		trending: newList(nil, "Trending Songs"),
		results:  newList(nil, "Results"),
		input:    input,
		help:     help.New(),
		keys:     newKeyMap(),
		debounce: DebounceDelay,
		open:     shared.OpenBrowser,
	}
}

func newList(items []list.Item, title string) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	return l
}

// Init initializes the TUI by fetching the trending list.
func (m *Model) Init() tea.Cmd {
	return m.fetchTrending()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.trending.SetSize(msg.Width-4, msg.Height-6)
		m.results.SetSize(msg.Width-4, msg.Height-8)
		m.input.Width = max(msg.Width-8, 20)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.status = ""
		switch m.view {
		case TrendingView:
			return m.handleTrendingKeys(msg)
		case SearchView:
			if m.input.Focused() {
				return m.handleInputKeys(msg)
			}
			return m.handleResultsKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateComponents(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgTrendingFetched:
		data := msg.data.(trendingData)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		items := make([]list.Item, len(data.songs))
		for i, song := range data.songs {
			items[i] = trendingItem{song: song}
		}
		m.trending.SetItems(items)

	case MsgDebounceElapsed:
		data := msg.data.(debounceData)
		if data.seq != m.seq {
			return m, nil
		}
		if utf8.RuneCountInString(strings.TrimSpace(data.query)) < MinQueryLength {
			m.suggestions = nil
			m.showSuggestions = false
			return m, nil
		}
		m.loading = true
		return m, m.fetchSuggestions(data.seq, data.query)

	case MsgSuggestionsFetched:
		data := msg.data.(suggestionsData)
		if data.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.cursor = 0
		if data.err != nil {
			m.status = fmt.Sprintf("Auto-complete error: %v", data.err)
			m.suggestions = nil
			m.showSuggestions = false
			return m, nil
		}
		m.suggestions = data.suggestions
		m.showSuggestions = m.input.Focused()

	case MsgResultsFetched:
		data := msg.data.(resultsData)
		m.loading = false
		if data.err != nil {
			m.status = fmt.Sprintf("Search failed: %v", data.err)
			return m, nil
		}
		items := make([]list.Item, len(data.songs))
		for i, song := range data.songs {
			items[i] = songItem{song: song}
		}
		m.results.SetItems(items)
		m.results.Title = fmt.Sprintf("Results for %q", data.query)
		m.results.ResetSelected()
		m.hasResults = true
		m.view = SearchView

	case MsgSongFetched:
		data := msg.data.(songData)
		m.loading = false
		if data.err != nil {
			m.status = "Failed to load song details"
			if client.Status(data.err) == 404 {
				m.status = "Song not found"
			}
			return m, nil
		}
		m.song = data.song
		if m.view != DetailView {
			m.prev = m.view
		}
		m.view = DetailView
	}

	return m, nil
}

func (m *Model) handleTrendingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		return m, m.focusSearch()
	case "r":
		return m, m.fetchTrending()
	case "enter":
		if id := songID(m.trending.SelectedItem()); id != "" {
			m.loading = true
			return m, m.fetchSong(id)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.trending, cmd = m.trending.Update(msg)
	return m, cmd
}

// handleInputKeys drives the search box. Every edit schedules a debounce tick; esc and tab
// move focus out of the box, which hides the dropdown.
func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.dismiss()
		if !m.hasResults {
			m.view = TrendingView
		}
		return m, nil
	case "tab":
		m.dismiss()
		return m, nil
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down":
		if m.cursor < len(m.suggestions)-1 {
			m.cursor++
		}
		return m, nil
	case "enter":
		if m.showSuggestions && len(m.suggestions) > 0 {
			id := m.suggestions[m.cursor].ID
			m.dismiss()
			m.loading = true
			return m, m.fetchSong(id)
		}
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			return m, nil
		}
		m.dismiss()
		m.loading = true
		return m, m.fetchResults(query)
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		return m, tea.Batch(cmd, m.schedule(m.input.Value()))
	}
	return m, cmd
}

func (m *Model) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		return m, m.focusSearch()
	case "esc":
		m.view = TrendingView
		return m, nil
	case "enter":
		if id := songID(m.results.SelectedItem()); id != "" {
			m.loading = true
			return m, m.fetchSong(id)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = m.prev
		return m, nil
	case "/":
		return m, m.focusSearch()
	case "o":
		if m.song != nil && m.song.URL != "" {
			if err := m.open(m.song.URL); err != nil {
				m.status = fmt.Sprintf("Could not open browser: %v", err)
			}
		}
	}
	return m, nil
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.view == SearchView && m.input.Focused():
		m.input, cmd = m.input.Update(msg)
	case m.view == SearchView:
		m.results, cmd = m.results.Update(msg)
	case m.view == TrendingView:
		m.trending, cmd = m.trending.Update(msg)
	}
	return m, cmd
}

func (m *Model) focusSearch() tea.Cmd {
	m.view = SearchView
	return m.input.Focus()
}

// dismiss blurs the search box and hides the dropdown. The sequence is bumped so a request
// still in flight cannot reopen it.
func (m *Model) dismiss() {
	m.input.Blur()
	m.showSuggestions = false
	m.cursor = 0
	m.seq++
	m.loading = false
}

// schedule starts the debounce timer for the current edit.
func (m *Model) schedule(query string) tea.Cmd {
	m.seq++
	seq := m.seq
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return debounceMsg(seq, query)
	})
}

func (m *Model) fetchTrending() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.catalog.Trending(m.ctx)
		return trendingFetchedMsg(songs, err)
	}
}

func (m *Model) fetchSuggestions(seq int, query string) tea.Cmd {
	return func() tea.Msg {
		suggestions, err := m.catalog.Autocomplete(m.ctx, query, 0)
		return suggestionsFetchedMsg(seq, suggestions, err)
	}
}

func (m *Model) fetchResults(query string) tea.Cmd {
	return func() tea.Msg {
		songs, err := m.catalog.Search(m.ctx, query, 0)
		return resultsFetchedMsg(query, songs, err)
	}
}

func (m *Model) fetchSong(id string) tea.Cmd {
	return func() tea.Msg {
		song, err := m.catalog.Song(m.ctx, id)
		return songFetchedMsg(song, err)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		msg := fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err)
		if client.Status(m.err) == 0 {
			msg = fmt.Sprintf("Error: %v\n\nIs the server running? Press r to retry, q to quit", m.err)
		}
		return styles.err.Render(msg)
	}

	var body string
	switch m.view {
	case TrendingView:
		body = m.renderTrending()
	case SearchView:
		body = m.renderSearch()
	case DetailView:
		body = m.renderDetail()
	}

	if m.status != "" {
		body += "\n" + styles.warn.Render(m.status)
	}
	return body
}

func (m *Model) renderTrending() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.search, m.keys.quit}
	return fmt.Sprintf("%s\n%s", m.trending.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderSearch() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Search"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	if m.loading {
		b.WriteString(" " + styles.help.Render("⟳"))
	}
	b.WriteString("\n")

	switch {
	case m.showSuggestions && len(m.suggestions) > 0:
		b.WriteString(m.renderSuggestions())
	case m.showSuggestions:
		b.WriteString(styles.help.Render("No suggestions"))
	case m.hasResults && !m.input.Focused():
		b.WriteString(m.results.View())
	}

	var helpKeys []key.Binding
	if m.input.Focused() {
		helpKeys = []key.Binding{m.keys.up, m.keys.down, m.keys.enter, m.keys.leave}
	} else {
		helpKeys = []key.Binding{m.keys.enter, m.keys.search, m.keys.back, m.keys.quit}
	}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))

	return b.String()
}

func (m *Model) renderSuggestions() string {
	lines := make([]string, len(m.suggestions))
	for i, s := range m.suggestions {
		line := fmt.Sprintf("  %s - %s", s.Name, s.Artist)
		if i == m.cursor {
			line = styles.selected.Render(fmt.Sprintf("> %s - %s", s.Name, s.Artist))
		}
		lines[i] = line
	}
	return styles.dropdown.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderDetail() string {
	if m.song == nil {
		return styles.err.Render("Song not found\n\nPress esc to go back")
	}

	title := styles.title.Render(m.song.Name)
	detail := strings.TrimPrefix(string(formatter.SongDetail(*m.song)), m.song.Name+"\n")
	bar := popularityBar(m.song.Popularity, 30)

	helpKeys := []key.Binding{m.keys.open, m.keys.back, m.keys.search, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n  %s\n\n%s", title, detail, bar, m.help.ShortHelpView(helpKeys))
}

// popularityBar renders a 0-100 score as a bar of the given width.
func popularityBar(popularity, width int) string {
	popularity = min(max(popularity, 0), 100)
	filled := popularity * width / 100
	return styles.ok.Render(strings.Repeat("█", filled)) + styles.help.Render(strings.Repeat("░", width-filled))
}

// Run starts the TUI program.
func Run(ctx context.Context, catalog Catalog) error {
	p := tea.NewProgram(NewModel(ctx, catalog), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
