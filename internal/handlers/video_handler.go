package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/discere/internal/interfaces"
)

// VideoHandler handles per-video HTTP requests
type VideoHandler struct {
	courseService interfaces.CourseService
	logger        arbor.ILogger
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(courseService interfaces.CourseService, logger arbor.ILogger) *VideoHandler {
	return &VideoHandler{
		courseService: courseService,
		logger:        logger,
	}
}

// SummaryHandler handles GET /api/videos/{id}/summary
func (h *VideoHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	// Path shape: /api/videos/{id}/summary
	path := strings.TrimPrefix(r.URL.Path, "/api/videos/")
	videoID := strings.TrimSuffix(path, "/summary")
	if videoID == "" || videoID == path {
		WriteError(w, http.StatusBadRequest, "Video ID is required")
		return
	}

	summary, err := h.courseService.GetVideoSummary(r.Context(), videoID)
	if err != nil {
		h.logger.Error().Err(err).Str("video_id", videoID).Msg("Failed to summarize video")
		WriteError(w, http.StatusInternalServerError, "Failed to summarize video")
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}
