package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/desertthunder/songboard/internal/shared"
	tu "github.com/desertthunder/songboard/internal/testing"
)

func TestTokenProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults", func(t *testing.T) {
		p := NewTokenProvider(shared.SpotifyConfig{}, nil)
		if p.httpClient != http.DefaultClient {
			t.Error("expected http.DefaultClient to be used")
		}
		if p.credentials.TokenURL != "https://accounts.spotify.com/api/token" {
			t.Errorf("expected default token url, got %s", p.credentials.TokenURL)
		}
	})

	t.Run("Issues Token", func(t *testing.T) {
		fake := tu.NewFakeSpotify(t)
		p := NewTokenProvider(fake.Config().Credentials.Spotify, fake.Server.Client())

		token, err := p.Token(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "token-client" {
			t.Errorf("expected token-client, got %s", token)
		}

		r := fake.Requests()[0]
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if id, secret, ok := r.BasicAuth(); !ok || id != "client" || secret != "secret" {
			t.Errorf("expected basic auth client:secret, got %s:%s", id, secret)
		}
	})

	t.Run("Missing Credentials", func(t *testing.T) {
		tests := []struct {
			name  string
			creds shared.SpotifyConfig
		}{
			{"Empty", shared.SpotifyConfig{}},
			{"Missing Secret", shared.SpotifyConfig{ClientID: "id"}},
			{"Missing ID", shared.SpotifyConfig{ClientSecret: "secret"}},
			{"Whitespace", shared.SpotifyConfig{ClientID: " ", ClientSecret: "secret"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewTokenProvider(tt.creds, nil).Token(ctx)
				if !errors.Is(err, shared.ErrMissingCredentials) {
					t.Errorf("expected ErrMissingCredentials, got %v", err)
				}
			})
		}
	})

	t.Run("Endpoint Failures", func(t *testing.T) {
		tests := []struct {
			name   string
			status int
			kind   error
		}{
			{"Invalid Client", http.StatusBadRequest, shared.ErrAuthFailed},
			{"Unauthorized", http.StatusUnauthorized, shared.ErrAuthFailed},
			{"Server Error", http.StatusInternalServerError, shared.ErrAuthFailed},
			{"Rate Limited", http.StatusTooManyRequests, shared.ErrRateLimited},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				fake := tu.NewFakeSpotify(t)
				fake.TokenStatus = tt.status
				fake.TokenBody = `{"error":"invalid_client"}`
				p := NewTokenProvider(fake.Config().Credentials.Spotify, fake.Server.Client())

				_, err := p.Token(ctx)
				if !errors.Is(err, tt.kind) {
					t.Fatalf("expected %v, got %v", tt.kind, err)
				}

				var apiErr *shared.APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("expected APIError, got %T", err)
				}
				if apiErr.Status != tt.status || apiErr.Body != `{"error":"invalid_client"}` {
					t.Errorf("unexpected status/body %d %q", apiErr.Status, apiErr.Body)
				}
			})
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("dial failed"))}
		p := NewTokenProvider(shared.SpotifyConfig{ClientID: "id", ClientSecret: "secret"}, client)

		_, err := p.Token(ctx)
		if err == nil {
			t.Fatal("expected error")
		}
		if shared.UpstreamStatus(err) != 0 {
			t.Errorf("expected no upstream status, got %d", shared.UpstreamStatus(err))
		}
	})
}
