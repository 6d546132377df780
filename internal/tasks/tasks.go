package tasks

import (
	"context"
	"net/http"

	"github.com/desertthunder/songboard/internal/models"
)

// Fetcher loads a single song. The CLI passes either the HTTP client or the in-process gateway.
type Fetcher interface {
	Song(ctx context.Context, id string) (*models.Song, error)
}

// SongExportJob is one fetched song waiting to be written by a worker.
type SongExportJob struct {
	Index int
	Song  *models.Song
}

// SongExportResult is the outcome of exporting a single song.
type SongExportResult struct {
	Index  int      `json:"-"`
	SongID string   `json:"song_id"`
	Name   string   `json:"name"`
	Files  []string `json:"files"`
	Cover  string   `json:"cover,omitempty"`
	Error  error    `json:"-"`
	Reason string   `json:"error,omitempty"`
}

// Success reports whether the song was written.
func (r SongExportResult) Success() bool {
	return r.Error == nil
}

// BulkExportResult summarizes a [Exporter.BulkExport] run and is written as the manifest.
type BulkExportResult struct {
	TotalSongs        int                `json:"total_songs"`
	SuccessfulExports int                `json:"successful_exports"`
	FailedExports     int                `json:"failed_exports"`
	OutputDirectory   string             `json:"output_directory"`
	ManifestPath      string             `json:"-"`
	Results           []SongExportResult `json:"results"`
}

// Exporter writes songs to disk with a rate-limited fetch loop feeding a worker pool.
type Exporter struct {
	songs  Fetcher
	client *http.Client
}

// NewExporter creates an Exporter. client is used for cover downloads; nil uses the formatter default.
func NewExporter(songs Fetcher, client *http.Client) *Exporter {
	return &Exporter{songs: songs, client: client}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Exporter) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
