// package formatter renders songs as plain text, CSV, Markdown or JSON
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/songboard/internal/models"
	"github.com/desertthunder/songboard/internal/shared"
)

// Output formats accepted by [Write].
const (
	FormatText     = "text"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatText, FormatCSV, FormatMarkdown, FormatJSON}

// FormatDuration renders milliseconds as m:ss.
func FormatDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatReleaseDate renders a catalog release date ("2006-01-02", "2006-01" or "2006") in long form,
// e.g. "January 2, 2006". Unparseable input is returned unchanged.
func FormatReleaseDate(date string) string {
	layouts := []struct{ in, out string }{
		{"2006-01-02", "January 2, 2006"},
		{"2006-01", "January 2006"},
		{"2006", "2006"},
	}
	for _, l := range layouts {
		if t, err := time.Parse(l.in, date); err == nil {
			return t.Format(l.out)
		}
	}
	return date
}

// Ranked strips the rank from trending songs; ranks equal position + 1.
func Ranked(trending []models.TrendingSong) []models.Song {
	songs := make([]models.Song, len(trending))
	for i, t := range trending {
		songs[i] = t.Song
	}
	return songs
}

// ToCSV renders songs with columns: #, ID, Name, Artist, Album, Duration, Popularity, Release Date, URL
func ToCSV(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"#", "ID", "Name", "Artist", "Album", "Duration", "Popularity", "Release Date", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, song := range songs {
		record := []string{
			strconv.Itoa(i + 1),
			song.ID,
			song.Name,
			song.Artist,
			song.Album,
			FormatDuration(song.DurationMS),
			strconv.Itoa(song.Popularity),
			song.ReleaseDate,
			song.URL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMarkdown renders songs as a numbered Markdown list under title.
func ToMarkdown(title string, songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Songs**: %d\n\n", len(songs))

	for i, song := range songs {
		albumPart := ""
		if song.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", song.Album)
		}
		name := song.Name
		if song.URL != "" {
			name = fmt.Sprintf("[%s](%s)", song.Name, song.URL)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]\n", i+1, song.Artist, name, albumPart, FormatDuration(song.DurationMS))
	}

	return buf.Bytes(), nil
}

// ToText renders songs as numbered "Artist - Name" lines.
func ToText(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer

	for i, song := range songs {
		fmt.Fprintf(&buf, "%2d. %s - %s [%s] (popularity %d)\n", i+1, song.Artist, song.Name, FormatDuration(song.DurationMS), song.Popularity)
	}

	return buf.Bytes(), nil
}

// ToJSON renders v as indented JSON.
func ToJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// SongDetail renders one song as labelled lines.
func SongDetail(song models.Song) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", song.Name)
	fmt.Fprintf(&buf, "  Artist:       %s\n", song.Artist)
	fmt.Fprintf(&buf, "  Album:        %s\n", song.Album)
	fmt.Fprintf(&buf, "  Released:     %s\n", FormatReleaseDate(song.ReleaseDate))
	fmt.Fprintf(&buf, "  Duration:     %s\n", FormatDuration(song.DurationMS))
	fmt.Fprintf(&buf, "  Popularity:   %d/100\n", song.Popularity)
	if len(song.Genres) > 0 {
		fmt.Fprintf(&buf, "  Genres:       %s\n", strings.Join(song.Genres, ", "))
	}
	if preview := song.Preview(); preview != "" {
		fmt.Fprintf(&buf, "  Preview:      %s\n", preview)
	}
	fmt.Fprintf(&buf, "  Spotify:      %s\n", song.URL)

	return buf.Bytes()
}

// SuggestionLines renders autocomplete suggestions one per line.
func SuggestionLines(suggestions []models.Suggestion) []byte {
	var buf bytes.Buffer
	for _, s := range suggestions {
		fmt.Fprintf(&buf, "%s  %s - %s\n", s.ID, s.Artist, s.Name)
	}
	return buf.Bytes()
}

// Write renders songs in format to w. title is used by the Markdown format.
func Write(w io.Writer, format, title string, songs []models.Song) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatText, "":
		data, err = ToText(songs)
	case FormatCSV:
		data, err = ToCSV(songs)
	case FormatMarkdown, "md":
		data, err = ToMarkdown(title, songs)
	case FormatJSON:
		data, err = ToJSON(songs)
	default:
		return fmt.Errorf("%w: format %q (expected one of %s)", shared.ErrInvalidArgument, format, strings.Join(Formats, ", "))
	}
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}

// DownloadImage downloads an image (e.g. a cover) from the given URL and returns the raw bytes.
// A nil client uses a client with a 30 second timeout.
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrMissingArgument)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}
