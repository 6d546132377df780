// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/songboard/internal/models"
)

// MockService is a test double for [services.Service].
//
// Each operation returns the matching field pair; Calls records the operation names in order.
type MockService struct {
	TrendingSongs []models.TrendingSong
	Songs         []models.Song
	Suggestions   []models.Suggestion
	Song          *models.Song
	Status        *models.ConnectionStatus
	Err           error

	mu      sync.Mutex
	Calls   []string
	Queries []string
	Limits  []int
}

func (m *MockService) record(op, query string, limit int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, op)
	m.Queries = append(m.Queries, query)
	m.Limits = append(m.Limits, limit)
}

// CallCount returns how many times op was invoked.
func (m *MockService) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == op {
			n++
		}
	}
	return n
}

func (m *MockService) Trending(ctx context.Context) ([]models.TrendingSong, error) {
	m.record("Trending", "", 0)
	return m.TrendingSongs, m.Err
}

func (m *MockService) Search(ctx context.Context, query string, limit int) ([]models.Song, error) {
	m.record("Search", query, limit)
	return m.Songs, m.Err
}

func (m *MockService) Autocomplete(ctx context.Context, query string, limit int) ([]models.Suggestion, error) {
	m.record("Autocomplete", query, limit)
	return m.Suggestions, m.Err
}

func (m *MockService) SongByID(ctx context.Context, id string) (*models.Song, error) {
	m.record("SongByID", id, 0)
	return m.Song, m.Err
}

func (m *MockService) TestConnection(ctx context.Context) (*models.ConnectionStatus, error) {
	m.record("TestConnection", "", 0)
	return m.Status, m.Err
}

func (m *MockService) Name() string { return "mock" }

// SampleSong returns a fully populated song for fixtures.
func SampleSong(id string, popularity int) models.Song {
	large := "https://i.scdn.co/image/" + id + "-640"
	medium := "https://i.scdn.co/image/" + id + "-300"
	return models.Song{
		ID:               id,
		TrackID:          id,
		ArtistIDs:        []string{id + "-artist"},
		AlbumID:          id + "-album",
		Name:             "Song " + id,
		Artist:           "Artist " + id,
		Album:            "Album " + id,
		URL:              "https://open.spotify.com/track/" + id,
		DurationMS:       201000,
		Popularity:       popularity,
		ReleaseDate:      "2025-01-31",
		Genres:           []string{},
		CoverImageLarge:  &large,
		CoverImageMedium: &medium,
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
