package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/songboard/internal/formatter"
	"github.com/desertthunder/songboard/internal/models"
	"github.com/desertthunder/songboard/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 5
	maxWorkers       = 10
	defaultRateLimit = 5.0
	manifestName     = "export_manifest.json"
)

// BulkExportOpts contains configuration for bulk song exports.
type BulkExportOpts struct {
	Format     string  // text, csv, markdown or json (default)
	OutputDir  string  // default: songboard_export_{epoch}
	NumWorkers int     // concurrent writers (default 5, max 10)
	RateLimit  float64 // song fetches per second (default 5)
	Covers     bool    // also download each song's cover image
}

// BulkExport fetches ids one at a time under a rate limit and hands each song to a pool of workers
// that write it in opts.Format. Failed songs are recorded and do not stop the run. The manifest
// lists results in the order of ids.
func (e *Exporter) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, ids []string, opts BulkExportOpts) (*BulkExportResult, error) {
	if e.songs == nil {
		return nil, fmt.Errorf("%w: song fetcher not initialized", shared.ErrServiceUnavailable)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no song ids to export", shared.ErrMissingArgument)
	}

	switch opts.Format {
	case "":
		opts.Format = formatter.FormatJSON
	case "md":
		opts.Format = formatter.FormatMarkdown
	case formatter.FormatText, formatter.FormatCSV, formatter.FormatMarkdown, formatter.FormatJSON:
	default:
		return nil, fmt.Errorf("%w: format %q", shared.ErrInvalidArgument, opts.Format)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("songboard_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	opts.NumWorkers = min(opts.NumWorkers, maxWorkers)
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalSongs:      len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]SongExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan SongExportJob, len(ids))
	results := make(chan SongExportResult, len(ids))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	// results is closed only after the producer and every worker have returned.
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(jobs)
		e.sendProgress(prog, fetchingSongsUpdate(len(ids)))

		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			song, err := e.songs.Song(ctx, id)
			if err != nil {
				results <- SongExportResult{
					Index:  i,
					SongID: id,
					Name:   fmt.Sprintf("Unknown (%s)", id),
					Error:  fmt.Errorf("failed to fetch song: %w", err),
				}
				continue
			}

			e.sendProgress(prog, fetchedSongUpdate(i+1, len(ids), song))
			jobs <- SongExportJob{Index: i, Song: song}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Success() {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.Name, len(res.Files)))
		} else {
			result.FailedExports++
			res.Reason = res.Error.Error()
			e.sendProgress(prog, exportFailedUpdate(completed, len(ids), res.Name, res.Error))
		}
		result.Results = append(result.Results, res)
	}

	slices.SortFunc(result.Results, func(a, b SongExportResult) int { return a.Index - b.Index })

	manifestPath := filepath.Join(opts.OutputDir, manifestName)
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export interrupted: %w", err)
	}
	return result, nil
}

// exportWorker writes songs from the jobs channel until it is closed.
func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan SongExportJob,
	results chan<- SongExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}
		results <- e.exportSong(ctx, job, opts)
	}
}

// exportSong writes a single song, plus its cover when requested. A failed cover download is
// skipped rather than failing the song.
func (e *Exporter) exportSong(ctx context.Context, job SongExportJob, opts BulkExportOpts) SongExportResult {
	song := *job.Song
	base := filepath.Join(opts.OutputDir, fileName(song.ID))

	result := SongExportResult{
		Index:  job.Index,
		SongID: song.ID,
		Name:   song.Name,
		Files:  []string{},
	}

	var coverRef string
	if opts.Covers && song.Cover() != "" {
		if data, err := formatter.DownloadImage(ctx, e.client, song.Cover()); err == nil {
			coverPath := base + ".jpg"
			if err := os.WriteFile(coverPath, data, 0644); err == nil {
				result.Cover = coverPath
				result.Files = append(result.Files, coverPath)
				coverRef = filepath.Base(coverPath)
			}
		}
	}

	var (
		data []byte
		ext  string
		err  error
	)
	switch opts.Format {
	case formatter.FormatText:
		data, ext = formatter.SongDetail(song), ".txt"
	case formatter.FormatCSV:
		data, err = formatter.ToCSV([]models.Song{song})
		ext = ".csv"
	case formatter.FormatMarkdown:
		data, err = formatter.ToMarkdown(song.Name, []models.Song{song})
		if coverRef != "" {
			data = append(data, fmt.Sprintf("\n![%s](%s)\n", song.Name, coverRef)...)
		}
		ext = ".md"
	default:
		data, err = formatter.ToJSON(song)
		ext = ".json"
	}
	if err != nil {
		result.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
		return result
	}

	path := base + ext
	if err := os.WriteFile(path, data, 0644); err != nil {
		result.Error = fmt.Errorf("%s write failed: %w", opts.Format, err)
		return result
	}
	result.Files = append([]string{path}, result.Files...)
	return result
}

func writeManifest(result *BulkExportResult, path string) error {
	data, err := formatter.ToJSON(result)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// fileName keeps only characters that are safe in a file name.
func fileName(id string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
	if name == "" {
		return "song"
	}
	return name
}
