package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/songboard/internal/shared"
)

// SearchPage is one canned response of the fake search endpoint.
type SearchPage struct {
	Items []map[string]any
	Total int
}

// FakeSpotify is an [httptest.Server] speaking enough of the Spotify accounts and Web API
// for the gateway: POST /api/token, GET /v1/search, GET /v1/tracks/{id}, GET /v1/browse/new-releases.
type FakeSpotify struct {
	Server *httptest.Server

	// TokenStatus and TokenBody override the token response when TokenStatus is non-zero.
	TokenStatus int
	TokenBody   string

	// SearchStatus overrides search responses when non-zero; SearchStatusAt applies per offset.
	SearchStatus   int
	SearchStatusAt map[int]int
	Pages          map[int]SearchPage // keyed by offset

	Tracks map[string]map[string]any

	ReleasesStatus int

	mu       sync.Mutex
	requests []*http.Request
}

// NewFakeSpotify starts a fake upstream closed with t.Cleanup.
func NewFakeSpotify(t *testing.T) *FakeSpotify {
	t.Helper()

	f := &FakeSpotify{
		Pages:          map[int]SearchPage{},
		SearchStatusAt: map[int]int{},
		Tracks:         map[string]map[string]any{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// Config returns a [shared.Config] pointing at the fake with valid credentials.
func (f *FakeSpotify) Config() *shared.Config {
	config := shared.DefaultConfig()
	config.Credentials.Spotify.ClientID = "client"
	config.Credentials.Spotify.ClientSecret = "secret"
	config.Credentials.Spotify.TokenURL = f.Server.URL + "/api/token"
	config.Catalog.APIBaseURL = f.Server.URL + "/v1/"
	config.Catalog.TrendingQuery = "year:2025"
	return config
}

// Requests returns a snapshot of the received requests.
func (f *FakeSpotify) Requests() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Request{}, f.requests...)
}

// Count returns how many received requests had the given path.
func (f *FakeSpotify) Count(path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.URL.Path == path {
			n++
		}
	}
	return n
}

func (f *FakeSpotify) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Clone(r.Context()))
	f.mu.Unlock()

	switch {
	case r.URL.Path == "/api/token":
		f.token(w, r)
	case !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "):
		writeSpotifyError(w, http.StatusUnauthorized, "No token provided")
	case r.URL.Path == "/v1/search":
		f.search(w, r)
	case strings.HasPrefix(r.URL.Path, "/v1/tracks/"):
		f.track(w, strings.TrimPrefix(r.URL.Path, "/v1/tracks/"))
	case r.URL.Path == "/v1/browse/new-releases":
		if f.ReleasesStatus != 0 {
			writeSpotifyError(w, f.ReleasesStatus, "releases unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"albums": map[string]any{"items": []any{}, "total": 0}})
	default:
		writeSpotifyError(w, http.StatusNotFound, "Service not found")
	}
}

func (f *FakeSpotify) token(w http.ResponseWriter, r *http.Request) {
	if f.TokenStatus != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.TokenStatus)
		fmt.Fprint(w, f.TokenBody)
		return
	}

	id, secret, ok := r.BasicAuth()
	if !ok || id == "" || secret == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_client"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": "token-" + id,
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

func (f *FakeSpotify) search(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	if status := f.SearchStatusAt[offset]; status != 0 {
		writeSpotifyError(w, status, "search failed")
		return
	}
	if f.SearchStatus != 0 {
		writeSpotifyError(w, f.SearchStatus, "search failed")
		return
	}

	page := f.Pages[offset]
	items := page.Items
	if items == nil {
		items = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tracks": map[string]any{
			"items":  items,
			"total":  page.Total,
			"limit":  limit,
			"offset": offset,
		},
	})
}

func (f *FakeSpotify) track(w http.ResponseWriter, id string) {
	track, ok := f.Tracks[id]
	if !ok {
		writeSpotifyError(w, http.StatusNotFound, "Non existing id: 'spotify:track:"+id+"'")
		return
	}
	writeJSON(w, http.StatusOK, track)
}

// RawTrack builds a catalog track object with the given number of album images.
func RawTrack(id, name string, popularity, images int, artists ...string) map[string]any {
	rawArtists := make([]map[string]any, 0, len(artists))
	for i, a := range artists {
		rawArtists = append(rawArtists, map[string]any{"id": fmt.Sprintf("%s-artist-%d", id, i), "name": a})
	}

	sizes := []int{640, 300, 64}
	rawImages := make([]map[string]any, 0, images)
	for i := 0; i < images && i < len(sizes); i++ {
		rawImages = append(rawImages, map[string]any{
			"url":    fmt.Sprintf("https://i.scdn.co/image/%s-%d", id, sizes[i]),
			"height": sizes[i],
			"width":  sizes[i],
		})
	}

	return map[string]any{
		"id":            id,
		"name":          name,
		"artists":       rawArtists,
		"duration_ms":   201000,
		"popularity":    popularity,
		"preview_url":   nil,
		"external_urls": map[string]string{"spotify": "https://open.spotify.com/track/" + id},
		"album": map[string]any{
			"id":           id + "-album",
			"name":         name + " (Album)",
			"release_date": "2025-01-31",
			"images":       rawImages,
		},
	}
}

// RawTracks builds n tracks with popularity given by pop(i).
func RawTracks(prefix string, n int, pop func(i int) int) []map[string]any {
	tracks := make([]map[string]any, n)
	for i := range n {
		id := fmt.Sprintf("%s%d", prefix, i)
		tracks[i] = RawTrack(id, "Song "+id, pop(i), 3, "Artist "+id)
	}
	return tracks
}

func writeSpotifyError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": map[string]any{"status": status, "message": message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
