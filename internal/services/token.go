package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/songboard/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const tokenOp = "failed to get spotify token"

// TokenProvider performs the client-credentials exchange.
//
// Every call to [TokenProvider.Token] hits the token endpoint.
type TokenProvider struct {
	credentials shared.SpotifyConfig
	httpClient  *http.Client
}

// NewTokenProvider creates a provider for the given credentials. A nil client uses [http.DefaultClient].
func NewTokenProvider(credentials shared.SpotifyConfig, client *http.Client) *TokenProvider {
	if credentials.TokenURL == "" {
		credentials.TokenURL = shared.DefaultConfig().Credentials.Spotify.TokenURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &TokenProvider{credentials: credentials, httpClient: client}
}

// Token returns a freshly issued bearer token.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	if !p.credentials.Configured() {
		return "", fmt.Errorf("%w: please set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET environment variables", shared.ErrMissingCredentials)
	}

	config := &clientcredentials.Config{
		ClientID:     p.credentials.ClientID,
		ClientSecret: p.credentials.ClientSecret,
		TokenURL:     p.credentials.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	token, err := config.Token(context.WithValue(ctx, oauth2.HTTPClient, p.httpClient))
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return "", tokenError(retrieveErr.Response.StatusCode, string(retrieveErr.Body))
		}
		return "", fmt.Errorf("%s: %w", tokenOp, err)
	}

	return token.AccessToken, nil
}

// tokenError classifies a token endpoint failure. Anything but 429 is an auth failure.
func tokenError(status int, body string) *shared.APIError {
	kind := shared.ErrAuthFailed
	if status == http.StatusTooManyRequests {
		kind = shared.ErrRateLimited
	}
	return &shared.APIError{Kind: kind, Op: tokenOp, Status: status, Body: body}
}
