// Package web renders the browser UI: a trending page, search results and a song detail page.
//
// Pages are server-rendered with html/template from the embedded templates/ directory and fetch
// their data through a [Catalog], normally a [client.Client] pointed at the songboard API.
// The embedded static/search.js adds the debounced autocomplete dropdown: it waits 300ms after the
// last keystroke, queries only when the trimmed input is longer than two characters, ignores
// responses to superseded keystrokes and closes on a click outside the search box.
//
// Routes (under [Prefix])
//
//	GET /app/           → trending songs
//	GET /app/search?q=  → full search results
//	GET /app/song/{id}  → song detail
//	GET /app/static/*   → stylesheet and script
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songboard/internal/client"
	"github.com/desertthunder/songboard/internal/formatter"
	"github.com/desertthunder/songboard/internal/models"
	"github.com/desertthunder/songboard/internal/server"
	"github.com/desertthunder/songboard/internal/shared"
	"github.com/gorilla/mux"
)

// Prefix is the path the browser UI is mounted under.
const Prefix = "/app"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Catalog is the data source of the pages. [client.Client] implements it.
type Catalog interface {
	Trending(ctx context.Context) ([]models.TrendingSong, error)
	Search(ctx context.Context, query string, limit int) ([]models.Song, error)
	Song(ctx context.Context, id string) (*models.Song, error)
}

var _ Catalog = (*client.Client)(nil)

// UI serves the browser pages.
type UI struct {
	catalog    Catalog
	backendURL string
	pages      map[string]*template.Template
	logger     *log.Logger
}

// Opts configures [New].
type Opts struct {
	Catalog    Catalog
	BackendURL string // base URL the browser script calls for autocomplete
	Logger     *log.Logger
}

// page is the data passed to every template.
type page struct {
	Title      string
	Prefix     string
	BackendURL string
	Query      string
	Error      string
	Trending   []models.TrendingSong
	Songs      []models.Song
	Song       *models.Song
}

var funcs = template.FuncMap{
	"duration":    formatter.FormatDuration,
	"releaseDate": formatter.FormatReleaseDate,
}

// New parses the embedded templates.
func New(opts Opts) (*UI, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("%w: web catalog", shared.ErrMissingArgument)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.BackendURL == "" {
		opts.BackendURL = "/"
	}

	pages := map[string]*template.Template{}
	for _, name := range []string{"trending", "search", "song"} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &UI{
		catalog:    opts.Catalog,
		backendURL: opts.BackendURL,
		pages:      pages,
		logger:     shared.WithLogger(opts.Logger, "component", "web"),
	}, nil
}

func (u *UI) Routes() []server.Route {
	return []server.Route{
		{Method: http.MethodGet, Path: Prefix, Handler: u.Home},
		{Method: http.MethodGet, Path: Prefix + "/", Handler: u.Home},
		{Method: http.MethodGet, Path: Prefix + "/search", Handler: u.Search},
		{Method: http.MethodGet, Path: Prefix + "/song/{id}", Handler: u.Song},
	}
}

// Static serves the embedded stylesheet and script under [Prefix]/static/.
func (u *UI) Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix(Prefix+"/static/", http.FileServer(http.FS(sub)))
}

func (u *UI) newPage(title string) page {
	return page{Title: title, Prefix: Prefix, BackendURL: u.backendURL}
}

// render executes a page into a buffer first so a template error never produces a half-written response.
func (u *UI) render(w http.ResponseWriter, status int, name string, data page) {
	var buf bytes.Buffer
	if err := u.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		u.logger.Error("template failed", "page", name, "err", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Home renders the trending list.
func (u *UI) Home(w http.ResponseWriter, r *http.Request) {
	data := u.newPage("Trending")
	status := http.StatusOK

	songs, err := u.catalog.Trending(r.Context())
	if err != nil {
		u.logger.Error("failed to load trending songs", "err", err)
		data.Error = "Failed to load trending songs."
		status = http.StatusBadGateway
	}
	data.Trending = songs

	u.render(w, status, "trending", data)
}

// Search renders full results for ?q=. A blank query redirects home.
func (u *UI) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		http.Redirect(w, r, Prefix+"/", http.StatusSeeOther)
		return
	}

	data := u.newPage("Search")
	data.Query = query
	status := http.StatusOK

	songs, err := u.catalog.Search(r.Context(), query, 0)
	if err != nil {
		u.logger.Error("search failed", "query", query, "err", err)
		data.Error = "Search failed. Please try again."
		status = http.StatusBadGateway
	}
	data.Songs = songs

	u.render(w, status, "search", data)
}

// Song renders the detail page for a song.
func (u *UI) Song(w http.ResponseWriter, r *http.Request) {
	data := u.newPage("Song")

	song, err := u.catalog.Song(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		status := http.StatusBadGateway
		data.Error = "Failed to load song details"
		if client.Status(err) == http.StatusNotFound {
			status = http.StatusNotFound
			data.Error = "Song not found"
		}
		u.logger.Error("failed to load song", "err", err)
		u.render(w, status, "song", data)
		return
	}

	data.Title = song.Name
	data.Song = song
	u.render(w, http.StatusOK, "song", data)
}
