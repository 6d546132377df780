// package services defines interface Service for querying the music catalog
package services

import (
	"context"

	"github.com/desertthunder/songboard/internal/models"
)

const (
	DefaultSearchLimit       = 20
	DefaultAutocompleteLimit = 10
	MaxLimit                 = 50

	trendingPageSize = 50
	trendingSize     = 50
)

// Service defines the read-only catalog operations exposed by the facade.
type Service interface {
	// Trending returns up to 50 recent tracks ranked by descending popularity.
	Trending(ctx context.Context) ([]models.TrendingSong, error)

	// Search runs a free-text track search. A limit <= 0 uses [DefaultSearchLimit].
	Search(ctx context.Context, query string, limit int) ([]models.Song, error)

	// Autocomplete runs the same search with the reduced [models.Suggestion] shape.
	// A limit <= 0 uses [DefaultAutocompleteLimit].
	Autocomplete(ctx context.Context, query string, limit int) ([]models.Suggestion, error)

	// SongByID fetches a single track.
	SongByID(ctx context.Context, id string) (*models.Song, error)

	// TestConnection verifies the credentials and catalog reachability.
	TestConnection(ctx context.Context) (*models.ConnectionStatus, error)

	// Name returns the name of the catalog (e.g., "Spotify")
	Name() string
}

// clampLimit applies the default for non-positive limits and caps at [MaxLimit].
func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
