package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/songboard/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export saves the given songs, or the trending list with --trending, to a directory.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalog(cmd)
	if err != nil {
		return err
	}

	ids := cmd.Args().Slice()
	if cmd.Bool("trending") {
		trending, err := catalog.Trending(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch trending songs: %w", err)
		}
		for _, song := range trending {
			ids = append(ids, song.ID)
		}
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	result, err := tasks.NewExporter(catalog, r.httpClient).BulkExport(ctx, progress, ids, tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
		Covers:     cmd.Bool("covers"),
	})
	close(progress)
	<-done

	if result != nil {
		r.writePlainln("Exported %d of %d songs to %s", result.SuccessfulExports, result.TotalSongs, result.OutputDirectory)
		for _, res := range result.Results {
			if !res.Success() {
				r.writePlain("  ✗ %s: %v\n", res.SongID, res.Error)
			}
		}
		if result.ManifestPath != "" {
			r.writePlain("Manifest: %s\n", result.ManifestPath)
		}
	}
	return err
}
