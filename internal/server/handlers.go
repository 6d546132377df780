package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songboard/internal/models"
	"github.com/desertthunder/songboard/internal/services"
	"github.com/desertthunder/songboard/internal/shared"
	"github.com/gorilla/mux"
)

const (
	msgMissingCredentials = "Spotify credentials not configured. Please set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET environment variables."
	msgInvalidCredentials = "Invalid Spotify credentials. Please check your CLIENT_ID and CLIENT_SECRET."
	msgRateLimited        = "Spotify API rate limit exceeded. Please try again later."
	msgSongNotFound       = "Song not found."
	msgQueryRequired      = "Search query is required."
	msgConnectionOK       = "Spotify connection successful"
	msgRoutesWorking      = "Spotify routes are working!"
)

// CatalogHandler serves the /spotify routes over a [services.Service].
type CatalogHandler struct {
	service services.Service
	logger  *log.Logger
	now     func() time.Time
}

// NewCatalogHandler creates a [CatalogHandler]. A nil logger writes to stderr.
func NewCatalogHandler(service services.Service, logger *log.Logger) *CatalogHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CatalogHandler{
		service: service,
		logger:  shared.WithLogger(logger, "handler", "catalog"),
		now:     time.Now,
	}
}

func (h *CatalogHandler) Routes() []Route {
	return []Route{
		{http.MethodGet, "/spotify/test", h.Test},
		{http.MethodGet, "/spotify/test-connection", h.TestConnection},
		{http.MethodGet, "/spotify/trending", h.Trending},
		{http.MethodGet, "/spotify/search", h.Search},
		{http.MethodGet, "/spotify/autocomplete", h.Autocomplete},
		{http.MethodGet, "/spotify/song/{id}", h.Song},
	}
}

func (h *CatalogHandler) timestamp() string {
	return shared.Timestamp(h.now())
}

// fail writes the failure envelope for err.
//
// Missing credentials, upstream auth failures and rate limits map to 400, 401 and 429.
// A missing track maps to 404 only when songLookup is set; everything else is a 500 carrying the error text.
func (h *CatalogHandler) fail(w http.ResponseWriter, r *http.Request, err error, songLookup bool) {
	status, message := http.StatusInternalServerError, err.Error()

	switch {
	case errors.Is(err, shared.ErrMissingCredentials):
		status, message = http.StatusBadRequest, msgMissingCredentials
	case errors.Is(err, shared.ErrAuthFailed):
		status, message = http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, shared.ErrRateLimited):
		status, message = http.StatusTooManyRequests, msgRateLimited
	case songLookup && errors.Is(err, shared.ErrTrackNotFound):
		status, message = http.StatusNotFound, msgSongNotFound
	}

	h.logger.Error("catalog request failed", "path", r.URL.Path, "status", status, "err", err, "request_id", RequestIDFrom(r.Context()))
	writeJSON(w, status, models.ErrorResponse{Error: message, Timestamp: h.timestamp()})
}

// Test reports that the catalog routes are mounted.
func (h *CatalogHandler) Test(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.Message{Message: msgRoutesWorking})
}

// TestConnection checks the credentials and catalog reachability.
func (h *CatalogHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.TestConnection(r.Context())
	if err != nil {
		h.logger.Error("spotify connection test failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error:     "spotify connection test failed: " + err.Error(),
			Timestamp: h.timestamp(),
		})
		return
	}

	writeJSON(w, http.StatusOK, models.ConnectionResponse{
		Success:   true,
		Message:   msgConnectionOK,
		Details:   status,
		Timestamp: h.timestamp(),
	})
}

// Trending returns the ranked trending list.
func (h *CatalogHandler) Trending(w http.ResponseWriter, r *http.Request) {
	songs, err := h.service.Trending(r.Context())
	if err != nil {
		h.fail(w, r, err, false)
		return
	}
	if songs == nil {
		songs = []models.TrendingSong{}
	}

	writeJSON(w, http.StatusOK, models.TrendingResponse{
		Success:   true,
		Count:     len(songs),
		Songs:     songs,
		Timestamp: h.timestamp(),
	})
}

// Search runs a full search for ?q= with an optional ?limit=.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: msgQueryRequired, Timestamp: h.timestamp()})
		return
	}

	songs, err := h.service.Search(r.Context(), query, parseLimit(r, services.DefaultSearchLimit))
	if err != nil {
		h.fail(w, r, err, false)
		return
	}
	if songs == nil {
		songs = []models.Song{}
	}

	writeJSON(w, http.StatusOK, models.SearchResponse{
		Success:   true,
		Query:     query,
		Count:     len(songs),
		Songs:     songs,
		Timestamp: h.timestamp(),
	})
}

// blankSuggestions is the body returned for an empty autocomplete query.
type blankSuggestions struct {
	Success     bool                `json:"success"`
	Count       int                 `json:"count"`
	Suggestions []models.Suggestion `json:"suggestions"`
	Timestamp   string              `json:"timestamp"`
}

// Autocomplete returns suggestions for ?q=. A blank query answers with an empty list without calling the catalog.
func (h *CatalogHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		writeJSON(w, http.StatusOK, blankSuggestions{Success: true, Suggestions: []models.Suggestion{}, Timestamp: h.timestamp()})
		return
	}

	suggestions, err := h.service.Autocomplete(r.Context(), query, parseLimit(r, services.DefaultAutocompleteLimit))
	if err != nil {
		h.fail(w, r, err, false)
		return
	}
	if suggestions == nil {
		suggestions = []models.Suggestion{}
	}

	writeJSON(w, http.StatusOK, models.AutocompleteResponse{
		Success:     true,
		Query:       query,
		Count:       len(suggestions),
		Suggestions: suggestions,
		Timestamp:   h.timestamp(),
	})
}

// Song returns a single song by path id.
func (h *CatalogHandler) Song(w http.ResponseWriter, r *http.Request) {
	song, err := h.service.SongByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err, true)
		return
	}

	writeJSON(w, http.StatusOK, models.SongResponse{Success: true, Song: song, Timestamp: h.timestamp()})
}

// parseLimit reads ?limit=, falling back to def when absent or not a positive integer.
func parseLimit(r *http.Request, def int) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return def
	}
	return limit
}

// Root answers GET / with a greeting.
func Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.Message{Message: "Hello World"})
}

// Health answers GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK", "message": "Server is running"})
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Route not found"})
}

// MethodNotAllowed answers known paths requested with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
