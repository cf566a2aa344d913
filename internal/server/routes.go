package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Tool pages (HTML rendered from live instances)
	mux.HandleFunc("/", s.app.PageHandler.Index)
	mux.HandleFunc("/tools/{id}", s.app.PageHandler.Tool)

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)
	mux.HandleFunc("/api/tools", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceCollection(w, r, s.app.ToolsHandler.List, nil)
	})
	mux.HandleFunc("/api/tools/{id}", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceItem(w, r, s.app.ToolsHandler.Get)
	})
	mux.HandleFunc("/api/tools/{id}/transform", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{http.MethodPost: s.app.ToolsHandler.Transform})
	})

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
