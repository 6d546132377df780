package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"
)

// BasicRouter implements the [Router] interface on top of [mux.Router].
//
// Middleware wraps the whole router rather than individual routes, so unmatched
// paths and CORS preflight requests pass through it too. The chain is built on the
// first request; middleware added after that is ignored.
type BasicRouter struct {
	mux         *mux.Router
	middlewares []Middleware

	once    sync.Once
	handler http.Handler
}

// NewBasicRouter creates a new [BasicRouter] instance answering unknown routes with
// a JSON 404 and wrong methods with a JSON 405.
func NewBasicRouter() *BasicRouter {
	m := mux.NewRouter()
	m.NotFoundHandler = http.HandlerFunc(NotFound)
	m.MethodNotAllowedHandler = http.HandlerFunc(MethodNotAllowed)

	return &BasicRouter{
		mux:         m,
		middlewares: []Middleware{},
	}
}

// Use adds [Middleware] to the [Router] instance's middleware stack, applied in the order it's added.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a handler for the specified HTTP method and path.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Handle(path, handler).Methods(method)
}

// Handler registers every [Route] of a [Handler].
func (r *BasicRouter) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		r.Handle(route.Method, route.Path, route.Handler)
	}
}

// PathPrefix mounts handler for every path under prefix, regardless of method.
func (r *BasicRouter) PathPrefix(prefix string, handler http.Handler) {
	r.mux.PathPrefix(prefix).Handler(handler)
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.once.Do(func() { r.handler = r.Apply(r.mux) })
	r.handler.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// The first middleware added is the outermost.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}
