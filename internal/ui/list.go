package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/songboard/internal/formatter"
	"github.com/desertthunder/songboard/internal/models"
)

var (
	_ list.Item = trendingItem{}
	_ list.Item = songItem{}
)

// trendingItem wraps [models.TrendingSong] to implement [list.Item].
type trendingItem struct {
	song models.TrendingSong
}

func (i trendingItem) FilterValue() string { return i.song.Name + " " + i.song.Artist }
func (i trendingItem) Title() string       { return fmt.Sprintf("%2d. %s", i.song.Rank, i.song.Name) }
func (i trendingItem) Description() string {
	return fmt.Sprintf("%s • popularity %d", i.song.Artist, i.song.Popularity)
}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Name + " " + i.song.Artist }
func (i songItem) Title() string       { return i.song.Name }
func (i songItem) Description() string {
	desc := i.song.Artist
	if i.song.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.Album)
	}
	return fmt.Sprintf("%s • %s", desc, formatter.FormatDuration(i.song.DurationMS))
}

// songID returns the ID of a selected list item, or "".
func songID(item list.Item) string {
	switch it := item.(type) {
	case trendingItem:
		return it.song.ID
	case songItem:
		return it.song.ID
	}
	return ""
}
