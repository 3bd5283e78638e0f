package server

import (
	"net/http"
	"strings"
)

// registerRoutes wires all HTTP routes to their handlers
func (s *Server) registerRoutes() {
	s.router.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	s.router.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)

	s.router.HandleFunc("/api/courses/generate", s.app.CourseHandler.GenerateHandler)
	s.router.HandleFunc("/api/courses", s.app.CourseHandler.ListHandler)
	s.router.HandleFunc("/api/courses/", s.app.CourseHandler.GetByTitleHandler)

	s.router.HandleFunc("/api/videos/", s.videoDispatch)

	s.router.HandleFunc("/", s.rootHandler)
}

// videoDispatch routes /api/videos/{id}/summary to the summary handler
func (s *Server) videoDispatch(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/summary") {
		s.app.VideoHandler.SummaryHandler(w, r)
		return
	}
	s.app.APIHandler.NotFoundHandler(w, r)
}

// rootHandler rejects anything outside the API surface
func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	s.app.APIHandler.NotFoundHandler(w, r)
}
