package models

// Song is the normalized representation of a catalog track.
type Song struct {
	ID               string   `json:"id"`
	TrackID          string   `json:"track_id"`
	ArtistIDs        []string `json:"artist_ids"`
	AlbumID          string   `json:"album_id"`
	Name             string   `json:"name"`
	Artist           string   `json:"artist"` // artist names joined with ", "
	Album            string   `json:"album"`
	URL              string   `json:"url"`
	DurationMS       int      `json:"duration_ms"`
	Popularity       int      `json:"popularity"`
	PreviewURL       *string  `json:"preview_url"`
	ReleaseDate      string   `json:"release_date"`
	Genres           []string `json:"genres"`
	CoverImageLarge  *string  `json:"cover_image_large"`
	CoverImageMedium *string  `json:"cover_image_medium"`
	CoverImageSmall  *string  `json:"cover_image_small"`
}

// TrendingSong is a [Song] ranked by popularity.
type TrendingSong struct {
	Rank int `json:"rank"`
	Song
}

// Suggestion is the reduced song shape returned by autocomplete.
type Suggestion struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Artist           string  `json:"artist"`
	CoverImageMedium *string `json:"cover_image_medium"`
}

// Suggest reduces s to a [Suggestion].
func (s Song) Suggest() Suggestion {
	return Suggestion{
		ID:               s.ID,
		Name:             s.Name,
		Artist:           s.Artist,
		CoverImageMedium: s.CoverImageMedium,
	}
}

// Cover returns the medium cover URL, falling back to the large one, or "".
func (s Song) Cover() string {
	if s.CoverImageMedium != nil {
		return *s.CoverImageMedium
	}
	if s.CoverImageLarge != nil {
		return *s.CoverImageLarge
	}
	return ""
}

// Preview returns the preview URL or "".
func (s Song) Preview() string {
	if s.PreviewURL == nil {
		return ""
	}
	return *s.PreviewURL
}

// ConnectionStatus reports the outcome of a catalog connectivity check.
type ConnectionStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
