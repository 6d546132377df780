// Package server provides HTTP routing, middleware and the catalog handlers of the songboard API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// The [BasicRouter] implementation uses gorilla/mux internally, which supplies path
// variables ("/spotify/song/{id}") and method matching. Unknown routes answer with a JSON 404.
//
// [Middleware] wraps the whole router; the first middleware added is the outermost. [NewFacade] installs
//   - [RequestID]: X-Request-ID propagation
//   - [Recover]: panics become 500 {"error":"Something went wrong!"}
//   - [Logger]: one log line per request
//   - [CORS]: any origin, preflight answered with 204
//   - [RateLimit]: optional token bucket, 429 envelope when exceeded
//
// # Catalog Routes
//
// [CatalogHandler] serves GET /spotify/{trending,search,autocomplete,song/{id},test,test-connection}.
// Successful responses carry success:true and a timestamp; failures use
// {"success":false,"error":...,"timestamp":...} with the status derived from the error kind:
//
//	shared.ErrMissingCredentials → 400
//	shared.ErrAuthFailed         → 401
//	shared.ErrRateLimited        → 429
//	shared.ErrTrackNotFound      → 404 (song lookup only)
//	anything else                → 500
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, returning their [Route] list so a feature
// registers all of its endpoints at once.
package server
