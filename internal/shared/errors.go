package shared

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("spotify credentials not found")

	// Upstream errors, used as [APIError] kinds
	ErrAuthFailed    = fmt.Errorf("authentication failed")
	ErrRateLimited   = fmt.Errorf("rate limit exceeded")
	ErrTrackNotFound = fmt.Errorf("track not found")
	ErrAPIRequest    = fmt.Errorf("API request failed")

	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// APIError is a non-success response from an upstream endpoint.
//
// Kind is one of [ErrAuthFailed], [ErrRateLimited], [ErrTrackNotFound] or [ErrAPIRequest]
// and is returned by Unwrap, so callers switch on it with [errors.Is].
type APIError struct {
	Kind   error
	Op     string
	Status int
	Body   string
}

// NewAPIError builds an [APIError], deriving the kind from the HTTP status.
func NewAPIError(op string, status int, body string) *APIError {
	return &APIError{Kind: KindForStatus(status), Op: op, Status: status, Body: body}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %d - %s", e.Op, e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// KindForStatus maps an upstream HTTP status to an error kind.
func KindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrAuthFailed
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusNotFound:
		return ErrTrackNotFound
	default:
		return ErrAPIRequest
	}
}

// UpstreamStatus returns the status carried by an [APIError] in err's chain, or 0.
func UpstreamStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
