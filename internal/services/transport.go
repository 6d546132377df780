package services

import (
	"bytes"
	"io"
	"net/http"
)

// responseRecorder keeps a copy of the most recent non-success response.
//
// The spotify client only surfaces a decoded error message; the recorder keeps the raw status and body
// so they can be carried in [shared.APIError]. One recorder serves one sequential gateway call.
type responseRecorder struct {
	base   http.RoundTripper
	status int
	body   string
}

func newResponseRecorder(base http.RoundTripper) *responseRecorder {
	if base == nil {
		base = http.DefaultTransport
	}
	return &responseRecorder{base: base}
}

func (r *responseRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}

	r.status = resp.StatusCode
	r.body = string(body)
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

func (r *responseRecorder) reset() {
	r.status = 0
	r.body = ""
}
