package services

import (
	"cmp"
	"slices"
	"strings"

	"github.com/desertthunder/songboard/internal/models"
	"github.com/zmb3/spotify/v2"
)

// NormalizeTrack maps a catalog track to a [models.Song].
//
// Cover images are taken by position (large, medium, small); a missing position is nil.
// Search and track responses carry no album genres, so Genres is always an empty list.
func NormalizeTrack(track spotify.FullTrack) models.Song {
	artistIDs := make([]string, 0, len(track.Artists))
	names := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		artistIDs = append(artistIDs, string(artist.ID))
		names = append(names, artist.Name)
	}

	images := track.Album.Images

	return models.Song{
		ID:               string(track.ID),
		TrackID:          string(track.ID),
		ArtistIDs:        artistIDs,
		AlbumID:          string(track.Album.ID),
		Name:             track.Name,
		Artist:           strings.Join(names, ", "),
		Album:            track.Album.Name,
		URL:              track.ExternalURLs["spotify"],
		DurationMS:       int(track.Duration),
		Popularity:       int(track.Popularity),
		PreviewURL:       optional(track.PreviewURL),
		ReleaseDate:      track.Album.ReleaseDate,
		Genres:           []string{},
		CoverImageLarge:  imageAt(images, 0),
		CoverImageMedium: imageAt(images, 1),
		CoverImageSmall:  imageAt(images, 2),
	}
}

// NormalizeTracks maps every track of a search page, preserving order.
func NormalizeTracks(tracks []spotify.FullTrack) []models.Song {
	songs := make([]models.Song, 0, len(tracks))
	for _, track := range tracks {
		songs = append(songs, NormalizeTrack(track))
	}
	return songs
}

// RankTrending stable-sorts songs by descending popularity, keeps the first 50 and numbers them from 1.
//
// Songs with equal popularity keep their input order.
func RankTrending(songs []models.Song) []models.TrendingSong {
	sorted := slices.Clone(songs)
	slices.SortStableFunc(sorted, func(a, b models.Song) int {
		return cmp.Compare(b.Popularity, a.Popularity)
	})

	if len(sorted) > trendingSize {
		sorted = sorted[:trendingSize]
	}

	ranked := make([]models.TrendingSong, len(sorted))
	for i, song := range sorted {
		ranked[i] = models.TrendingSong{Rank: i + 1, Song: song}
	}
	return ranked
}

func imageAt(images []spotify.Image, i int) *string {
	if i >= len(images) || images[i].URL == "" {
		return nil
	}
	return optional(images[i].URL)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
