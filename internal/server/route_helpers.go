package server

import (
	"net/http"
	"sort"
	"strings"
)

// RouteHandler is a function type for HTTP handlers.
type RouteHandler func(http.ResponseWriter, *http.Request)

// MethodRouter maps HTTP methods to handlers.
type MethodRouter map[string]RouteHandler

// RouteByMethod routes requests based on HTTP method. HEAD falls back to
// the GET handler; unmatched methods get 405 with an Allow header.
func RouteByMethod(w http.ResponseWriter, r *http.Request, routes MethodRouter) {
	handler, ok := routes[r.Method]
	if !ok && r.Method == http.MethodHead {
		handler, ok = routes[http.MethodGet]
	}
	if !ok {
		w.Header().Set("Allow", allowed(routes))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	handler(w, r)
}

func allowed(routes MethodRouter) string {
	methods := make([]string, 0, len(routes))
	for m := range routes {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}

// RouteResourceCollection handles the list + create pattern.
// GET -> list, POST -> create.
func RouteResourceCollection(w http.ResponseWriter, r *http.Request, list, create RouteHandler) {
	routes := make(MethodRouter)
	if list != nil {
		routes[http.MethodGet] = list
	}
	if create != nil {
		routes[http.MethodPost] = create
	}
	RouteByMethod(w, r, routes)
}

// RouteResourceItem handles a read-only item. GET -> get.
func RouteResourceItem(w http.ResponseWriter, r *http.Request, get RouteHandler) {
	RouteByMethod(w, r, MethodRouter{http.MethodGet: get})
}
