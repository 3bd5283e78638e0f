package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/discere/internal/common"
	"github.com/ternarybob/discere/internal/interfaces"
)

// APIHandler handles service-level HTTP requests (health, version)
type APIHandler struct {
	storage interfaces.StorageManager
	logger  arbor.ILogger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(storage interfaces.StorageManager, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		storage: storage,
		logger:  logger,
	}
}

// HealthHandler handles GET /api/health
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	courseCount, err := h.storage.CourseStorage().CountCourses(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Health check storage probe failed")
		WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unhealthy",
			"error":  "storage unavailable",
		})
		return
	}

	embeddingCount, _ := h.storage.EmbeddingStorage().CountEmbeddings(r.Context())

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "healthy",
		"courses":    courseCount,
		"embeddings": embeddingCount,
	})
}

// VersionHandler handles GET /api/version
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.Build,
	})
}

// NotFoundHandler handles unmatched API routes
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, "Not found")
}
