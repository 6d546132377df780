package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/songboard/internal/formatter"
	"github.com/desertthunder/songboard/internal/models"
	"github.com/desertthunder/songboard/internal/shared"
	"github.com/urfave/cli/v3"
)

func queryArg(cmd *cli.Command) (string, error) {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return "", fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}
	return query, nil
}

// Trending prints the ranked trending list.
func (r *Runner) Trending(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalog(cmd)
	if err != nil {
		return err
	}

	songs, err := catalog.Trending(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch trending songs: %w", err)
	}
	r.logger.Debug("fetched trending songs", "count", len(songs))

	if cmd.String("format") == formatter.FormatJSON {
		return r.writeJSON(songs, true)
	}
	return formatter.Write(r.output, cmd.String("format"), "Trending Songs", formatter.Ranked(songs))
}

// Search prints full search results for the joined arguments.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query, err := queryArg(cmd)
	if err != nil {
		return err
	}

	catalog, err := r.catalog(cmd)
	if err != nil {
		return err
	}

	songs, err := catalog.Search(ctx, query, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to search songs: %w", err)
	}
	r.logger.Debug("search complete", "query", query, "count", len(songs))

	if len(songs) == 0 && cmd.String("format") == formatter.FormatText {
		return r.writePlain("No songs found for %q\n", query)
	}
	return formatter.Write(r.output, cmd.String("format"), fmt.Sprintf("Results for %q", query), songs)
}

// Autocomplete prints the suggestions for a partial query.
func (r *Runner) Autocomplete(ctx context.Context, cmd *cli.Command) error {
	query := strings.Join(cmd.Args().Slice(), " ")

	catalog, err := r.catalog(cmd)
	if err != nil {
		return err
	}

	suggestions, err := catalog.Autocomplete(ctx, query, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to fetch suggestions: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(suggestions, true)
	}
	_, err = r.output.Write(formatter.SuggestionLines(suggestions))
	return err
}

// Song prints one track and optionally saves its cover or opens it on Spotify.
func (r *Runner) Song(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: song id is required", shared.ErrMissingArgument)
	}

	catalog, err := r.catalog(cmd)
	if err != nil {
		return err
	}

	song, err := catalog.Song(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch song %s: %w", id, err)
	}

	switch format := cmd.String("format"); format {
	case formatter.FormatText, "":
		_, err = r.output.Write(formatter.SongDetail(*song))
	case formatter.FormatJSON:
		err = r.writeJSON(song, true)
	default:
		err = formatter.Write(r.output, format, song.Name, []models.Song{*song})
	}
	if err != nil {
		return err
	}

	if path := cmd.String("cover"); path != "" {
		if err := r.saveCover(ctx, song.Cover(), path); err != nil {
			return err
		}
	}

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(song.URL); err != nil {
			return fmt.Errorf("failed to open browser: %w", err)
		}
	}
	return nil
}

func (r *Runner) saveCover(ctx context.Context, url, path string) error {
	if url == "" {
		return fmt.Errorf("%w: song has no cover image", shared.ErrInvalidArgument)
	}

	data, err := formatter.DownloadImage(ctx, r.httpClient, url)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cover image: %w", err)
	}

	r.logger.Info("cover image saved", "path", path, "bytes", len(data))
	return nil
}

// Ping reports whether Spotify is reachable: through the server's test-connection route,
// or in-process with --direct.
func (r *Runner) Ping(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("direct") {
		svc, err := r.gateway()
		if err != nil {
			return err
		}
		status, err := svc.TestConnection(ctx)
		if err != nil {
			return err
		}
		return r.writePlain("✓ %s\n", status.Message)
	}

	api, err := r.api()
	if err != nil {
		return err
	}

	resp, err := api.Ping(ctx)
	if err != nil {
		return fmt.Errorf("connection test against %s failed: %w", api.BaseURL(), err)
	}
	return r.writePlain("✓ %s\n", resp.Message)
}
