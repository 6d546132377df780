// Spotify Web API implementation of [Service]
//
// Response types come from github.com/zmb3/spotify/v2; see https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songboard/internal/models"
	"github.com/desertthunder/songboard/internal/shared"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

const (
	defaultSpotifyBaseURL = "https://api.spotify.com/v1/"

	searchOp      = "failed to search spotify"
	trendingOp    = "failed to fetch from spotify"
	songOp        = "failed to fetch song"
	connectionOp  = "spotify API test failed"
	connectedText = "Successfully connected to Spotify API"
)

// SpotifyService implements [Service] against the Spotify Web API.
type SpotifyService struct {
	tokens        *TokenProvider
	transport     http.RoundTripper
	baseURL       string
	market        string
	trendingQuery string
	timeout       time.Duration
	logger        *log.Logger
	now           func() time.Time
}

// SpotifyOpts contains configuration options for creating a [SpotifyService].
type SpotifyOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client // used for both the token and the catalog requests
	Logger     *log.Logger
}

// NewSpotifyService creates the catalog gateway. Credentials are not required here;
// their absence surfaces as [shared.ErrMissingCredentials] on each call.
func NewSpotifyService(opts SpotifyOpts) (*SpotifyService, error) {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	timeout, err := opts.Config.Catalog.RequestTimeout()
	if err != nil {
		return nil, err
	}

	baseURL := opts.Config.Catalog.APIBaseURL
	if baseURL == "" {
		baseURL = defaultSpotifyBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	tokenClient := &http.Client{Transport: opts.HTTPClient.Transport, Timeout: timeout}

	return &SpotifyService{
		tokens:        NewTokenProvider(opts.Config.Credentials.Spotify, tokenClient),
		transport:     opts.HTTPClient.Transport,
		baseURL:       baseURL,
		market:        opts.Config.Catalog.Market,
		trendingQuery: opts.Config.Catalog.TrendingQuery,
		timeout:       timeout,
		logger:        shared.WithLogger(opts.Logger, "service", "spotify"),
		now:           time.Now,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// client authenticates and returns a catalog client bound to the fresh token.
func (s *SpotifyService) client(ctx context.Context) (*spotify.Client, *responseRecorder, error) {
	s.logger.Debug("getting spotify access token")
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("obtained spotify access token")

	recorder := newResponseRecorder(s.transport)
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   recorder,
		},
		Timeout: s.timeout,
	}

	return spotify.New(httpClient, spotify.WithBaseURL(s.baseURL)), recorder, nil
}

// upstreamError converts a failed catalog call into an [shared.APIError] when a status is known.
func (s *SpotifyService) upstreamError(op string, recorder *responseRecorder, err error) error {
	if recorder.status != 0 {
		return shared.NewAPIError(op, recorder.status, recorder.body)
	}

	var spotifyErr spotify.Error
	if errors.As(err, &spotifyErr) && spotifyErr.Status != 0 {
		return shared.NewAPIError(op, spotifyErr.Status, spotifyErr.Message)
	}

	return fmt.Errorf("%s: %w", op, err)
}

func (s *SpotifyService) searchOpts(limit, offset int) []spotify.RequestOption {
	opts := []spotify.RequestOption{spotify.Limit(limit), spotify.Offset(offset)}
	if s.market != "" {
		opts = append(opts, spotify.Market(s.market))
	}
	return opts
}

// searchTracks runs one track search page and returns the page items and the reported total.
func (s *SpotifyService) searchTracks(ctx context.Context, client *spotify.Client, query string, limit, offset int) ([]spotify.FullTrack, int, error) {
	result, err := client.Search(ctx, query, spotify.SearchTypeTrack, s.searchOpts(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	if result.Tracks == nil {
		return nil, 0, nil
	}
	return result.Tracks.Tracks, int(result.Tracks.Total), nil
}

// TrendingQuery returns the configured recency filter, or "year:<current year>".
func (s *SpotifyService) TrendingQuery() string {
	if s.trendingQuery != "" {
		return s.trendingQuery
	}
	return fmt.Sprintf("year:%d", s.now().Year())
}

// Trending fetches up to two pages of the recency search and ranks them by popularity.
//
// The second page is requested only when the first returned fewer items than the reported total.
// A failed second page is logged and the first page is ranked on its own.
func (s *SpotifyService) Trending(ctx context.Context) ([]models.TrendingSong, error) {
	client, recorder, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	query := s.TrendingQuery()
	s.logger.Info("fetching trending songs", "query", query)

	tracks, total, err := s.searchTracks(ctx, client, query, trendingPageSize, 0)
	if err != nil {
		return nil, s.upstreamError(trendingOp, recorder, err)
	}

	if len(tracks) < total {
		s.logger.Debug("fetching second trending page", "have", len(tracks), "total", total)
		recorder.reset()

		more, _, err := s.searchTracks(ctx, client, query, trendingPageSize, trendingPageSize)
		if err != nil {
			s.logger.Warn("second trending page failed", "err", s.upstreamError(trendingOp, recorder, err))
		} else {
			s.logger.Debug("retrieved additional tracks", "count", len(more))
			tracks = append(tracks, more...)
		}
	}

	ranked := RankTrending(NormalizeTracks(tracks))
	s.logger.Info("returning trending songs", "count", len(ranked))
	return ranked, nil
}

// Search runs a free-text track search.
func (s *SpotifyService) Search(ctx context.Context, query string, limit int) ([]models.Song, error) {
	client, recorder, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	limit = clampLimit(limit, DefaultSearchLimit)
	s.logger.Info("searching spotify", "query", query, "limit", limit)

	tracks, _, err := s.searchTracks(ctx, client, query, limit, 0)
	if err != nil {
		return nil, s.upstreamError(searchOp, recorder, err)
	}

	s.logger.Debug("search complete", "query", query, "count", len(tracks))
	return NormalizeTracks(tracks), nil
}

// Autocomplete runs the search used for search-as-you-type suggestions.
func (s *SpotifyService) Autocomplete(ctx context.Context, query string, limit int) ([]models.Suggestion, error) {
	client, recorder, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	limit = clampLimit(limit, DefaultAutocompleteLimit)
	s.logger.Debug("auto-complete search", "query", query, "limit", limit)

	tracks, _, err := s.searchTracks(ctx, client, query, limit, 0)
	if err != nil {
		return nil, s.upstreamError(searchOp, recorder, err)
	}

	suggestions := make([]models.Suggestion, 0, len(tracks))
	for _, track := range tracks {
		suggestions = append(suggestions, NormalizeTrack(track).Suggest())
	}
	return suggestions, nil
}

// SongByID fetches a single track by its catalog ID.
func (s *SpotifyService) SongByID(ctx context.Context, id string) (*models.Song, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: empty track id", shared.ErrMissingArgument)
	}

	client, recorder, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("fetching song by id", "id", id)

	track, err := client.GetTrack(ctx, spotify.ID(id))
	if err != nil {
		return nil, s.upstreamError(songOp, recorder, err)
	}

	song := NormalizeTrack(*track)
	s.logger.Debug("found song", "name", song.Name, "artist", song.Artist)
	return &song, nil
}

// TestConnection requests a single new release to confirm the credentials work.
func (s *SpotifyService) TestConnection(ctx context.Context) (*models.ConnectionStatus, error) {
	client, recorder, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	opts := []spotify.RequestOption{spotify.Limit(1)}
	if s.market != "" {
		opts = append(opts, spotify.Country(s.market))
	}

	if _, err := client.NewReleases(ctx, opts...); err != nil {
		return nil, s.upstreamError(connectionOp, recorder, err)
	}

	return &models.ConnectionStatus{Status: "connected", Message: connectedText}, nil
}
