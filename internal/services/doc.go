// Package services implements the catalog gateway: the [Service] interface and its Spotify implementation.
//
// # Token Provider
//
// [TokenProvider] exchanges the configured client id and secret for a bearer token using the OAuth2
// client-credentials grant. It re-authenticates on every call; there is no token cache and no expiry tracking.
//
// # Spotify Implementation
//
// [SpotifyService] obtains a token, issues one (two for trending) GET requests through the
// [github.com/zmb3/spotify/v2] client, and maps each raw track into a [models.Song] exactly once.
//
// Requests run sequentially within a call. Nothing is shared between calls except immutable configuration.
//
// # Error Handling
//
// Non-success upstream responses become [*shared.APIError] values carrying the status and the response body.
// The error kind is derived from the status:
//   - 401 : [shared.ErrAuthFailed]
//   - 429 : [shared.ErrRateLimited]
//   - 404 : [shared.ErrTrackNotFound]
//   - anything else : [shared.ErrAPIRequest]
//
// Missing credentials fail fast with [shared.ErrMissingCredentials]. Nothing is retried.
package services
