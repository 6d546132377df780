package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songboard/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgTrendingFetched MsgKind = iota
	MsgDebounceElapsed
	MsgSuggestionsFetched
	MsgResultsFetched
	MsgSongFetched
)

type trendingData struct {
	songs []models.TrendingSong
	err   error
}

// debounceData carries the input sequence number it was scheduled for.
type debounceData struct {
	seq   int
	query string
}

type suggestionsData struct {
	seq         int
	suggestions []models.Suggestion
	err         error
}

type resultsData struct {
	query string
	songs []models.Song
	err   error
}

type songData struct {
	song *models.Song
	err  error
}

// trendingFetchedMsg is the constructor for [MsgTrendingFetched]
func trendingFetchedMsg(songs []models.TrendingSong, err error) Msg {
	return Msg{kind: MsgTrendingFetched, data: trendingData{songs, err}}
}

// debounceMsg is the constructor for [MsgDebounceElapsed]
func debounceMsg(seq int, query string) Msg {
	return Msg{kind: MsgDebounceElapsed, data: debounceData{seq, query}}
}

// suggestionsFetchedMsg is the constructor for [MsgSuggestionsFetched]
func suggestionsFetchedMsg(seq int, suggestions []models.Suggestion, err error) Msg {
	return Msg{kind: MsgSuggestionsFetched, data: suggestionsData{seq, suggestions, err}}
}

// resultsFetchedMsg is the constructor for [MsgResultsFetched]
func resultsFetchedMsg(query string, songs []models.Song, err error) Msg {
	return Msg{kind: MsgResultsFetched, data: resultsData{query, songs, err}}
}

// songFetchedMsg is the constructor for [MsgSongFetched]
func songFetchedMsg(song *models.Song, err error) Msg {
	return Msg{kind: MsgSongFetched, data: songData{song, err}}
}
