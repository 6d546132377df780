// package client fetches catalog data from the songboard HTTP API
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/songboard/internal/models"
	"github.com/desertthunder/songboard/internal/shared"
)

const DefaultBaseURL = "http://127.0.0.1:3000/"

// Client wraps the /spotify routes of a running server.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// New creates a client for the server at baseURL. An empty baseURL uses [DefaultBaseURL]
// and a nil client uses [http.DefaultClient].
func New(baseURL string, client *http.Client) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: backend url %q: %v", shared.ErrInvalidConfig, baseURL, err)
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{baseURL: u, httpClient: client}, nil
}

// BaseURL returns the server base URL with a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Trending fetches the ranked trending list.
func (c *Client) Trending(ctx context.Context) ([]models.TrendingSong, error) {
	var resp models.TrendingResponse
	if err := c.get(ctx, "spotify/trending", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Songs, nil
}

// Search runs a full search. A limit <= 0 lets the server choose.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.Song, error) {
	var resp models.SearchResponse
	if err := c.get(ctx, "spotify/search", searchParams(query, limit), &resp); err != nil {
		return nil, err
	}
	return resp.Songs, nil
}

// Autocomplete fetches reduced suggestions for a partial query.
func (c *Client) Autocomplete(ctx context.Context, query string, limit int) ([]models.Suggestion, error) {
	var resp models.AutocompleteResponse
	if err := c.get(ctx, "spotify/autocomplete", searchParams(query, limit), &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

// Song fetches a single song by catalog ID.
func (c *Client) Song(ctx context.Context, id string) (*models.Song, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	var resp models.SongResponse
	if err := c.get(ctx, "spotify/song/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Song == nil {
		return nil, fmt.Errorf("%w: empty song in response", shared.ErrAPIRequest)
	}
	return resp.Song, nil
}

// Ping calls the connection test route.
func (c *Client) Ping(ctx context.Context) (*models.ConnectionResponse, error) {
	var resp models.ConnectionResponse
	if err := c.get(ctx, "spotify/test-connection", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func searchParams(query string, limit int) url.Values {
	params := url.Values{"q": {query}}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return params
}

// get performs a GET request against path and decodes a 2xx body into v.
//
// Non-2xx responses fail with [shared.ErrAPIRequest]; the failure envelope's message is appended when present.
func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	u := c.baseURL.JoinPath(path)
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: status %d", shared.ErrAPIRequest, e.Status)
	}
	return fmt.Sprintf("%v: status %d: %s", shared.ErrAPIRequest, e.Status, e.Message)
}

func (e *StatusError) Unwrap() error {
	return shared.ErrAPIRequest
}

func statusError(status int, body []byte) error {
	var envelope models.ErrorResponse
	_ = json.Unmarshal(body, &envelope)
	return &StatusError{Status: status, Message: envelope.Error}
}

// Status returns the HTTP status of a [StatusError] in err's chain, or 0.
func Status(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status
	}
	return 0
}
