package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/songboard/internal/models"
	"github.com/desertthunder/songboard/internal/shared"
	tu "github.com/desertthunder/songboard/internal/testing"
)

type mockFetcher struct {
	mu      sync.Mutex
	songs   map[string]models.Song
	calls   []string
	onFetch func(id string) error // runs before the lookup; a non-nil error is returned as is
}

func (m *mockFetcher) Song(ctx context.Context, id string) (*models.Song, error) {
	m.mu.Lock()
	m.calls = append(m.calls, id)
	m.mu.Unlock()

	if m.onFetch != nil {
		if err := m.onFetch(id); err != nil {
			return nil, err
		}
	}

	song, ok := m.songs[id]
	if !ok {
		return nil, shared.NewAPIError("failed to fetch song", http.StatusNotFound, "")
	}
	return &song, nil
}

func newFetcher(ids ...string) *mockFetcher {
	songs := make(map[string]models.Song, len(ids))
	for i, id := range ids {
		songs[id] = tu.SampleSong(id, 90-i)
	}
	return &mockFetcher{songs: songs}
}

func TestBulkExport_SuccessfulExport(t *testing.T) {
	tests := []struct {
		name   string
		format string
		ext    string
		check  func(t *testing.T, content string)
	}{
		{
			name:   "json export",
			format: "json",
			ext:    ".json",
			check: func(t *testing.T, content string) {
				var song models.Song
				if err := json.Unmarshal([]byte(content), &song); err != nil {
					t.Fatalf("expected valid JSON, got %v", err)
				}
				if song.ID != "a" {
					t.Errorf("expected song a, got %q", song.ID)
				}
			},
		},
		{
			name:   "csv export",
			format: "csv",
			ext:    ".csv",
			check: func(t *testing.T, content string) {
				if !strings.HasPrefix(content, "#,ID,Name") {
					t.Errorf("expected CSV header, got %q", content)
				}
			},
		},
		{
			name:   "markdown export",
			format: "md",
			ext:    ".md",
			check: func(t *testing.T, content string) {
				if !strings.Contains(content, "Song a") {
					t.Errorf("expected song name in markdown, got %q", content)
				}
			},
		},
		{
			name:   "text export",
			format: "text",
			ext:    ".txt",
			check: func(t *testing.T, content string) {
				if !strings.Contains(content, "Popularity:   90/100") {
					t.Errorf("expected song detail, got %q", content)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			fetcher := newFetcher("a", "b", "c")

			result, err := NewExporter(fetcher, nil).BulkExport(context.Background(), nil, []string{"a", "b", "c"}, BulkExportOpts{
				Format:     tt.format,
				OutputDir:  dir,
				NumWorkers: 2,
				RateLimit:  1000,
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if result.SuccessfulExports != 3 || result.FailedExports != 0 {
				t.Errorf("expected 3 successes, got %d/%d", result.SuccessfulExports, result.FailedExports)
			}
			for i, id := range []string{"a", "b", "c"} {
				if result.Results[i].SongID != id {
					t.Errorf("expected result %d to be %s, got %s", i, id, result.Results[i].SongID)
				}
			}

			path := filepath.Join(dir, "a"+tt.ext)
			tu.AssertFileExists(t, path)
			tt.check(t, tu.MustReadFile(t, path))
		})
	}
}

func TestBulkExport_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	fetcher := newFetcher("ok1", "ok2")
	progress := make(chan ProgressUpdate, 100)

	result, err := NewExporter(fetcher, nil).BulkExport(context.Background(), progress, []string{"ok1", "missing", "ok2"}, BulkExportOpts{
		OutputDir: dir,
		RateLimit: 1000,
	})
	close(progress)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.SuccessfulExports != 2 || result.FailedExports != 1 {
		t.Errorf("expected 2 successes and 1 failure, got %d/%d", result.SuccessfulExports, result.FailedExports)
	}

	failed := result.Results[1]
	if failed.SongID != "missing" || failed.Success() {
		t.Fatalf("expected the missing song to fail, got %+v", failed)
	}
	if !errors.Is(failed.Error, shared.ErrTrackNotFound) {
		t.Errorf("expected ErrTrackNotFound, got %v", failed.Error)
	}

	t.Run("manifest", func(t *testing.T) {
		if result.ManifestPath != filepath.Join(dir, manifestName) {
			t.Fatalf("unexpected manifest path %q", result.ManifestPath)
		}

		var manifest struct {
			TotalSongs int `json:"total_songs"`
			Results    []struct {
				SongID string `json:"song_id"`
				Error  string `json:"error"`
			} `json:"results"`
		}
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, result.ManifestPath)), &manifest); err != nil {
			t.Fatalf("expected valid manifest, got %v", err)
		}
		if manifest.TotalSongs != 3 || len(manifest.Results) != 3 {
			t.Errorf("expected 3 songs in manifest, got %+v", manifest)
		}
		if !strings.Contains(manifest.Results[1].Error, "failed to fetch song") {
			t.Errorf("expected failure reason in manifest, got %q", manifest.Results[1].Error)
		}
	})

	t.Run("progress", func(t *testing.T) {
		var fetched, exported int
		for u := range progress {
			switch u.Phase {
			case FetchSongs:
				fetched++
			case ExportSongs:
				exported++
			}
		}
		// one "fetching" update plus one per fetched song
		if fetched != 3 {
			t.Errorf("expected 3 fetch updates, got %d", fetched)
		}
		if exported != 3 {
			t.Errorf("expected 3 export updates, got %d", exported)
		}
	})
}

func TestBulkExport_Covers(t *testing.T) {
	image := []byte("jpeg bytes")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(image)
	}))
	defer ts.Close()

	withCover := tu.SampleSong("with", 50)
	good := ts.URL + "/good.jpg"
	withCover.CoverImageMedium = &good

	brokenCover := tu.SampleSong("broken", 40)
	broken := ts.URL + "/broken.jpg"
	brokenCover.CoverImageMedium = &broken

	fetcher := &mockFetcher{songs: map[string]models.Song{"with": withCover, "broken": brokenCover}}
	dir := t.TempDir()

	result, err := NewExporter(fetcher, ts.Client()).BulkExport(context.Background(), nil, []string{"with", "broken"}, BulkExportOpts{
		Format:    "markdown",
		OutputDir: dir,
		RateLimit: 1000,
		Covers:    true,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Results[0].Cover == "" || len(result.Results[0].Files) != 2 {
		t.Errorf("expected cover to be saved, got %+v", result.Results[0])
	}
	if got := tu.MustReadFile(t, filepath.Join(dir, "with.jpg")); got != string(image) {
		t.Errorf("unexpected cover content %q", got)
	}
	if !strings.Contains(tu.MustReadFile(t, filepath.Join(dir, "with.md")), "(with.jpg)") {
		t.Error("expected markdown to reference the cover")
	}

	if !result.Results[1].Success() || result.Results[1].Cover != "" {
		t.Errorf("expected broken cover to be skipped without failing, got %+v", result.Results[1])
	}
}

func TestBulkExport_Validation(t *testing.T) {
	tests := []struct {
		name     string
		exporter *Exporter
		ids      []string
		format   string
		want     error
	}{
		{"nil fetcher", NewExporter(nil, nil), []string{"a"}, "", shared.ErrServiceUnavailable},
		{"no ids", NewExporter(newFetcher(), nil), nil, "", shared.ErrMissingArgument},
		{"unknown format", NewExporter(newFetcher("a"), nil), []string{"a"}, "xml", shared.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.exporter.BulkExport(context.Background(), nil, tt.ids, BulkExportOpts{Format: tt.format, OutputDir: t.TempDir()})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBulkExport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ids := make([]string, 5)
	for i := range ids {
		ids[i] = fmt.Sprintf("s%d", i)
	}

	dir := t.TempDir()
	result, err := NewExporter(newFetcher(ids...), nil).BulkExport(ctx, nil, ids, BulkExportOpts{OutputDir: dir})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.SuccessfulExports != 0 {
		t.Errorf("expected no exports after cancellation, got %+v", result)
	}
	tu.AssertFileExists(t, filepath.Join(dir, manifestName))
}

func TestBulkExport_CancelledDuringFetch(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(100 * time.Millisecond):
		case <-r.Context().Done():
		}
		w.Write([]byte("jpeg"))
	}))
	defer slow.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := newFetcher("a", "b", "c")
	cover := slow.URL + "/cover.jpg"
	for id, song := range fetcher.songs {
		song.CoverImageMedium = &cover
		fetcher.songs[id] = song
	}
	fetcher.onFetch = func(id string) error {
		if id != "c" {
			return nil
		}
		cancel()
		// keep the fetch in flight while the worker notices the cancellation
		time.Sleep(150 * time.Millisecond)
		return ctx.Err()
	}

	dir := t.TempDir()
	result, err := NewExporter(fetcher, slow.Client()).BulkExport(ctx, nil, []string{"a", "b", "c"}, BulkExportOpts{
		OutputDir:  dir,
		NumWorkers: 1,
		RateLimit:  1000,
		Covers:     true,
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil {
		t.Fatal("expected a partial result")
	}
	tu.AssertFileExists(t, filepath.Join(dir, manifestName))

	var last *SongExportResult
	for i := range result.Results {
		if result.Results[i].SongID == "c" {
			last = &result.Results[i]
		}
	}
	if last == nil || last.Success() || !errors.Is(last.Error, context.Canceled) {
		t.Errorf("expected the in-flight fetch to be recorded as cancelled, got %+v", last)
	}
	if result.SuccessfulExports+result.FailedExports != len(result.Results) {
		t.Errorf("expected counts to match results, got %d+%d for %d", result.SuccessfulExports, result.FailedExports, len(result.Results))
	}
}

func TestSendProgress(t *testing.T) {
	e := NewExporter(nil, nil)

	t.Run("nil channel", func(t *testing.T) {
		e.sendProgress(nil, fetchingSongsUpdate(1))
	})

	t.Run("full channel does not block", func(t *testing.T) {
		ch := make(chan ProgressUpdate, 1)
		e.sendProgress(ch, fetchingSongsUpdate(1))
		e.sendProgress(ch, fetchingSongsUpdate(2))
		if got := (<-ch).Total; got != 1 {
			t.Errorf("expected first update to be kept, got total %d", got)
		}
	})
}

func TestFileName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"4uLU6hMCjMI75M1A2tKUQC", "4uLU6hMCjMI75M1A2tKUQC"},
		{"../etc/passwd", "___etc_passwd"},
		{"", "song"},
	}
	for _, tt := range tests {
		if got := fileName(tt.in); got != tt.want {
			t.Errorf("fileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPhaseString(t *testing.T) {
	if FetchSongs.String() != "fetch_songs" || ExportSongs.String() != "export_songs" {
		t.Error("unexpected phase names")
	}
	if Phase(99).String() != "" {
		t.Error("expected empty name for unknown phase")
	}
}
