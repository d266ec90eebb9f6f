package app

import (
	"fmt"

	"github.com/iov-one/gatekeeper"
)

// QueryRouter allows us to register many query handlers to different
// paths and then direct each query to the proper handler.
type QueryRouter struct {
	routes map[string]gatekeeper.QueryHandler
}

var _ gatekeeper.QueryRegistry = (*QueryRouter)(nil)

// NewQueryRouter initializes a QueryRouter with no routes
func NewQueryRouter() *QueryRouter {
	return &QueryRouter{
		routes: make(map[string]gatekeeper.QueryHandler, 10),
	}
}

// Register adds a new Handler for the given path. This function panics if
// a handler for given path is already registered.
func (r *QueryRouter) Register(path string, h gatekeeper.QueryHandler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path.
// If no path is found, returns nil.
func (r *QueryRouter) Handler(path string) gatekeeper.QueryHandler {
	return r.routes[path]
}
