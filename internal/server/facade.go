package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songboard/internal/services"
	"github.com/desertthunder/songboard/internal/shared"
)

// FacadeOpts configures [NewFacade].
type FacadeOpts struct {
	Service   services.Service
	Logger    *log.Logger
	RateLimit float64 // requests per second, 0 disables
	Burst     int

	// Handlers are registered after the catalog routes, e.g. the browser UI.
	Handlers []Handler

	// Mounts are path prefixes served by a plain handler, e.g. static assets.
	Mounts map[string]http.Handler
}

// NewFacade builds the HTTP API: /, /health and the /spotify routes behind
// request ID, recover, logging, CORS and rate limiting middleware.
func NewFacade(opts FacadeOpts) *BasicRouter {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	logger := shared.WithLogger(opts.Logger, "component", "server")

	router := NewBasicRouter()
	router.Use(
		RequestID,
		Recover(logger),
		Logger(logger),
		CORS,
		RateLimit(opts.RateLimit, opts.Burst, nil),
	)

	router.Handle(http.MethodGet, "/", http.HandlerFunc(Root))
	router.Handle(http.MethodGet, "/health", http.HandlerFunc(Health))
	router.Handler(NewCatalogHandler(opts.Service, logger))

	for _, h := range opts.Handlers {
		router.Handler(h)
	}
	for prefix, h := range opts.Mounts {
		router.PathPrefix(prefix, h)
	}

	return router
}
