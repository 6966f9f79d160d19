package gateway

import "net/http"

// registerRoutes sets up all HTTP routes on the server mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/logs", s.handleListLogs)
	mux.HandleFunc("GET /api/logs/{sessionId}", s.handleListSessionLogs)
	mux.HandleFunc("DELETE /api/deleteAllLogs", s.handleDeleteAllLogs)

	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	} else {
		mux.HandleFunc("/", handleNotFound)
	}
}
