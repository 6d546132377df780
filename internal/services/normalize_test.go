package services

import (
	"fmt"
	"testing"

	"github.com/desertthunder/songboard/internal/models"
	"github.com/zmb3/spotify/v2"
)

func TestNormalizeTrack(t *testing.T) {
	track := spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{
			ID:           "t1",
			Name:         "Song",
			Artists:      []spotify.SimpleArtist{{ID: "a1", Name: "One"}, {ID: "a2", Name: "Two"}},
			Duration:     180000,
			PreviewURL:   "https://p.scdn.co/mp3-preview/t1",
			ExternalURLs: map[string]string{"spotify": "https://open.spotify.com/track/t1"},
		},
		Album: spotify.SimpleAlbum{
			ID:          "al1",
			Name:        "Album",
			ReleaseDate: "2025-02-14",
			Images:      []spotify.Image{{URL: "large"}, {URL: "medium"}},
		},
		Popularity: 77,
	}

	song := NormalizeTrack(track)

	t.Run("Identity", func(t *testing.T) {
		if song.ID != "t1" || song.TrackID != "t1" || song.AlbumID != "al1" {
			t.Errorf("unexpected ids %+v", song)
		}
		if len(song.ArtistIDs) != 2 || song.ArtistIDs[1] != "a2" {
			t.Errorf("unexpected artist ids %v", song.ArtistIDs)
		}
	})

	t.Run("Fields", func(t *testing.T) {
		if song.Artist != "One, Two" {
			t.Errorf("expected joined artists, got %q", song.Artist)
		}
		if song.DurationMS != 180000 || song.Popularity != 77 {
			t.Errorf("unexpected numbers %d %d", song.DurationMS, song.Popularity)
		}
		if song.URL != "https://open.spotify.com/track/t1" {
			t.Errorf("unexpected url %s", song.URL)
		}
		if song.Preview() != "https://p.scdn.co/mp3-preview/t1" {
			t.Errorf("unexpected preview %s", song.Preview())
		}
		if song.Genres == nil || len(song.Genres) != 0 {
			t.Errorf("expected empty genres, got %v", song.Genres)
		}
	})

	t.Run("Cover Images By Position", func(t *testing.T) {
		if song.CoverImageLarge == nil || *song.CoverImageLarge != "large" {
			t.Errorf("unexpected large cover %v", song.CoverImageLarge)
		}
		if song.CoverImageMedium == nil || *song.CoverImageMedium != "medium" {
			t.Errorf("unexpected medium cover %v", song.CoverImageMedium)
		}
		if song.CoverImageSmall != nil {
			t.Errorf("expected nil small cover, got %s", *song.CoverImageSmall)
		}
	})

	t.Run("No Images", func(t *testing.T) {
		bare := NormalizeTrack(spotify.FullTrack{})
		if bare.CoverImageLarge != nil || bare.CoverImageMedium != nil || bare.CoverImageSmall != nil {
			t.Error("expected nil covers")
		}
		if bare.PreviewURL != nil {
			t.Error("expected nil preview")
		}
	})
}

func TestRankTrending(t *testing.T) {
	t.Run("Sorts Descending And Ranks From One", func(t *testing.T) {
		songs := []models.Song{{ID: "low", Popularity: 1}, {ID: "high", Popularity: 99}, {ID: "mid", Popularity: 50}}

		ranked := RankTrending(songs)

		want := []string{"high", "mid", "low"}
		for i, id := range want {
			if ranked[i].ID != id || ranked[i].Rank != i+1 {
				t.Errorf("expected %s at rank %d, got %s at %d", id, i+1, ranked[i].ID, ranked[i].Rank)
			}
		}
		if songs[0].ID != "low" {
			t.Error("expected input slice to be left unsorted")
		}
	})

	t.Run("Stable For Ties", func(t *testing.T) {
		songs := []models.Song{{ID: "a", Popularity: 5}, {ID: "b", Popularity: 9}, {ID: "c", Popularity: 5}, {ID: "d", Popularity: 5}}

		ranked := RankTrending(songs)

		want := []string{"b", "a", "c", "d"}
		for i, id := range want {
			if ranked[i].ID != id {
				t.Errorf("expected %s at %d, got %s", id, i, ranked[i].ID)
			}
		}
	})

	t.Run("Caps At Fifty", func(t *testing.T) {
		songs := make([]models.Song, 120)
		for i := range songs {
			songs[i] = models.Song{ID: fmt.Sprintf("s%d", i), Popularity: i % 100}
		}

		ranked := RankTrending(songs)

		if len(ranked) != 50 {
			t.Fatalf("expected 50, got %d", len(ranked))
		}
		if ranked[49].Rank != 50 {
			t.Errorf("expected last rank 50, got %d", ranked[49].Rank)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if ranked := RankTrending(nil); len(ranked) != 0 {
			t.Errorf("expected empty, got %d", len(ranked))
		}
	})
}
