package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songboard/internal/client"
	"github.com/desertthunder/songboard/internal/models"
	tu "github.com/desertthunder/songboard/internal/testing"
)

type fakeCatalog struct {
	trending    []models.TrendingSong
	songs       []models.Song
	suggestions map[string][]models.Suggestion
	song        *models.Song
	err         error
	songErr     error

	autocompleted []string
	searched      []string
	fetched       []string
}

func (f *fakeCatalog) Trending(context.Context) ([]models.TrendingSong, error) {
	return f.trending, f.err
}

func (f *fakeCatalog) Search(_ context.Context, query string, _ int) ([]models.Song, error) {
	f.searched = append(f.searched, query)
	return f.songs, f.err
}

func (f *fakeCatalog) Autocomplete(_ context.Context, query string, _ int) ([]models.Suggestion, error) {
	f.autocompleted = append(f.autocompleted, query)
	return f.suggestions[query], f.err
}

func (f *fakeCatalog) Song(_ context.Context, id string) (*models.Song, error) {
	f.fetched = append(f.fetched, id)
	if f.songErr != nil {
		return nil, f.songErr
	}
	return f.song, nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeText sends one key per rune and returns the sequence number of the last edit.
func typeText(m *Model, s string) int {
	for _, r := range s {
		m.Update(runes(string(r)))
	}
	return m.seq
}

// deliver runs cmd and feeds the resulting message back into m.
func deliver(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m.Update(cmd())
}

func newSearchModel(catalog *fakeCatalog) *Model {
	m := NewModel(context.Background(), catalog)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	return m
}

func suggestion(id, name string) models.Suggestion {
	s := tu.SampleSong(id, 50).Suggest()
	s.Name = name
	return s
}

func TestModel(t *testing.T) {
	t.Run("Init Loads Trending", func(t *testing.T) {
		catalog := &fakeCatalog{trending: []models.TrendingSong{
			{Rank: 1, Song: tu.SampleSong("a", 90)},
			{Rank: 2, Song: tu.SampleSong("b", 80)},
		}}
		m := NewModel(context.Background(), catalog)
		deliver(t, m, m.Init())

		if got := len(m.trending.Items()); got != 2 {
			t.Fatalf("expected 2 trending items, got %d", got)
		}
		if id := songID(m.trending.SelectedItem()); id != "a" {
			t.Errorf("expected first item to be a, got %q", id)
		}
	})

	t.Run("Trending Failure", func(t *testing.T) {
		m := NewModel(context.Background(), &fakeCatalog{err: errors.New("request failed: connection refused")})
		deliver(t, m, m.Init())

		if m.err == nil {
			t.Fatal("expected error to be recorded")
		}
		if view := m.View(); !strings.Contains(view, "Is the server running?") {
			t.Errorf("expected server hint in view, got %q", view)
		}
	})

	t.Run("Slash Focuses Search", func(t *testing.T) {
		m := newSearchModel(&fakeCatalog{})
		if m.view != SearchView {
			t.Errorf("expected SearchView, got %v", m.view)
		}
		if !m.input.Focused() {
			t.Error("expected search input to be focused")
		}
		if m.input.Value() != "" {
			t.Errorf("expected empty input, got %q", m.input.Value())
		}
	})
}

func TestDebounce(t *testing.T) {
	t.Run("Only The Last Edit Requests Suggestions", func(t *testing.T) {
		catalog := &fakeCatalog{suggestions: map[string][]models.Suggestion{
			"blin":  {suggestion("b1", "Blinding")},
			"blind": {suggestion("b2", "Blinding Lights")},
		}}
		m := newSearchModel(catalog)

		first := typeText(m, "blin")
		second := typeText(m, "d")
		if first == second {
			t.Fatal("expected each edit to advance the sequence")
		}

		if _, cmd := m.Update(debounceMsg(first, "blin")); cmd != nil {
			t.Error("expected superseded tick to be ignored")
		}

		_, cmd := m.Update(debounceMsg(second, "blind"))
		deliver(t, m, cmd)

		if len(catalog.autocompleted) != 1 || catalog.autocompleted[0] != "blind" {
			t.Errorf("expected a single request for %q, got %v", "blind", catalog.autocompleted)
		}
		if !m.showSuggestions || len(m.suggestions) != 1 || m.suggestions[0].ID != "b2" {
			t.Errorf("expected suggestions for the second edit, got %+v", m.suggestions)
		}
	})

	t.Run("Stale Response Is Discarded", func(t *testing.T) {
		catalog := &fakeCatalog{}
		m := newSearchModel(catalog)

		first := typeText(m, "abc")
		_, slow := m.Update(debounceMsg(first, "abc"))
		second := typeText(m, "d")

		m.Update(suggestionsFetchedMsg(first, []models.Suggestion{suggestion("old", "Old")}, nil))
		if m.showSuggestions || len(m.suggestions) != 0 {
			t.Fatalf("expected stale suggestions to be dropped, got %+v", m.suggestions)
		}

		m.Update(suggestionsFetchedMsg(second, []models.Suggestion{suggestion("new", "New")}, nil))
		if len(m.suggestions) != 1 || m.suggestions[0].ID != "new" {
			t.Errorf("expected current suggestions, got %+v", m.suggestions)
		}
		if slow == nil {
			t.Error("expected the first tick to have started a request")
		}
	})

	t.Run("Short Query Clears Suggestions", func(t *testing.T) {
		catalog := &fakeCatalog{}
		m := newSearchModel(catalog)
		m.suggestions = []models.Suggestion{suggestion("x", "X")}
		m.showSuggestions = true

		seq := typeText(m, " ab ")
		if _, cmd := m.Update(debounceMsg(seq, " ab ")); cmd != nil {
			t.Error("expected no request for a short query")
		}
		if m.showSuggestions || m.suggestions != nil {
			t.Error("expected suggestions to be cleared")
		}
		if len(catalog.autocompleted) != 0 {
			t.Errorf("expected no autocomplete calls, got %v", catalog.autocompleted)
		}
	})

	t.Run("Request Uses Untrimmed Input", func(t *testing.T) {
		catalog := &fakeCatalog{}
		m := newSearchModel(catalog)

		seq := typeText(m, "abc ")
		_, cmd := m.Update(debounceMsg(seq, "abc "))
		deliver(t, m, cmd)

		if len(catalog.autocompleted) != 1 || catalog.autocompleted[0] != "abc " {
			t.Errorf("expected raw query, got %v", catalog.autocompleted)
		}
	})

	t.Run("Autocomplete Failure", func(t *testing.T) {
		catalog := &fakeCatalog{err: errors.New("boom")}
		m := newSearchModel(catalog)

		seq := typeText(m, "abcd")
		_, cmd := m.Update(debounceMsg(seq, "abcd"))
		deliver(t, m, cmd)

		if m.showSuggestions {
			t.Error("expected dropdown to stay hidden")
		}
		if !strings.Contains(m.status, "Auto-complete error") {
			t.Errorf("unexpected status %q", m.status)
		}
	})
}

func TestSearchBox(t *testing.T) {
	withSuggestions := func(catalog *fakeCatalog) *Model {
		m := newSearchModel(catalog)
		seq := typeText(m, "song")
		m.Update(suggestionsFetchedMsg(seq, []models.Suggestion{
			suggestion("s1", "One"),
			suggestion("s2", "Two"),
		}, nil))
		return m
	}

	t.Run("Leaving Hides Dropdown", func(t *testing.T) {
		for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyTab} {
			m := withSuggestions(&fakeCatalog{})
			seq := m.seq

			m.Update(tea.KeyMsg{Type: k})
			if m.showSuggestions {
				t.Errorf("%v: expected dropdown to be hidden", k)
			}
			if m.input.Focused() {
				t.Errorf("%v: expected input to be blurred", k)
			}

			m.Update(suggestionsFetchedMsg(seq, []models.Suggestion{suggestion("late", "Late")}, nil))
			if m.showSuggestions {
				t.Errorf("%v: expected late response not to reopen the dropdown", k)
			}
		}
	})

	t.Run("Enter On Suggestion Opens Song", func(t *testing.T) {
		song := tu.SampleSong("s2", 70)
		catalog := &fakeCatalog{song: &song}
		m := withSuggestions(catalog)

		m.Update(tea.KeyMsg{Type: tea.KeyDown})
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		deliver(t, m, cmd)

		if len(catalog.fetched) != 1 || catalog.fetched[0] != "s2" {
			t.Errorf("expected s2 to be fetched, got %v", catalog.fetched)
		}
		if m.view != DetailView || m.song == nil || m.song.ID != "s2" {
			t.Errorf("expected detail view for s2, got view %v", m.view)
		}
		if m.prev != SearchView {
			t.Errorf("expected back to return to SearchView, got %v", m.prev)
		}
	})

	t.Run("Enter Runs Full Search", func(t *testing.T) {
		catalog := &fakeCatalog{songs: []models.Song{tu.SampleSong("r1", 10), tu.SampleSong("r2", 20)}}
		m := newSearchModel(catalog)
		typeText(m, "  query ")

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		deliver(t, m, cmd)

		if len(catalog.searched) != 1 || catalog.searched[0] != "query" {
			t.Errorf("expected trimmed search, got %v", catalog.searched)
		}
		if !m.hasResults || len(m.results.Items()) != 2 {
			t.Errorf("expected 2 results, got %d", len(m.results.Items()))
		}
		if m.input.Focused() {
			t.Error("expected input to be blurred after search")
		}
	})

	t.Run("Blank Enter Does Nothing", func(t *testing.T) {
		catalog := &fakeCatalog{}
		m := newSearchModel(catalog)
		typeText(m, "   ")

		if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
			t.Error("expected no command for a blank query")
		}
		if len(catalog.searched) != 0 {
			t.Errorf("expected no search, got %v", catalog.searched)
		}
	})

	t.Run("Cursor Stays In Range", func(t *testing.T) {
		m := withSuggestions(&fakeCatalog{})
		for range 5 {
			m.Update(tea.KeyMsg{Type: tea.KeyDown})
		}
		if m.cursor != 1 {
			t.Errorf("expected cursor 1, got %d", m.cursor)
		}
		for range 5 {
			m.Update(tea.KeyMsg{Type: tea.KeyUp})
		}
		if m.cursor != 0 {
			t.Errorf("expected cursor 0, got %d", m.cursor)
		}
	})
}

func TestDetailView(t *testing.T) {
	t.Run("Not Found", func(t *testing.T) {
		catalog := &fakeCatalog{songErr: &client.StatusError{Status: 404, Message: "Song not found"}}
		m := NewModel(context.Background(), catalog)
		deliver(t, m, m.fetchSong("missing"))

		if m.view != TrendingView {
			t.Errorf("expected to stay on TrendingView, got %v", m.view)
		}
		if m.status != "Song not found" {
			t.Errorf("unexpected status %q", m.status)
		}
	})

	t.Run("Open And Back", func(t *testing.T) {
		song := tu.SampleSong("d1", 88)
		m := NewModel(context.Background(), &fakeCatalog{song: &song})
		var opened []string
		m.open = func(url string) error {
			opened = append(opened, url)
			return nil
		}
		deliver(t, m, m.fetchSong("d1"))

		if view := m.View(); !strings.Contains(view, song.Name) || !strings.Contains(view, "88/100") {
			t.Errorf("expected song details in view, got %q", view)
		}

		m.Update(runes("o"))
		if len(opened) != 1 || opened[0] != song.URL {
			t.Errorf("expected %s to be opened, got %v", song.URL, opened)
		}

		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if m.view != TrendingView {
			t.Errorf("expected back to TrendingView, got %v", m.view)
		}
	})
}

func TestPopularityBar(t *testing.T) {
	tests := []struct {
		popularity int
		filled     int
	}{
		{0, 0},
		{50, 10},
		{100, 20},
		{150, 20},
		{-3, 0},
	}

	for _, tt := range tests {
		bar := popularityBar(tt.popularity, 20)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("popularity %d: expected %d filled, got %d", tt.popularity, tt.filled, got)
		}
		if got := strings.Count(bar, "░"); got != 20-tt.filled {
			t.Errorf("popularity %d: expected %d empty, got %d", tt.popularity, 20-tt.filled, got)
		}
	}
}
