package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/discere/internal/interfaces"
	"github.com/ternarybob/discere/internal/models"
)

// CourseHandler handles course generation and retrieval HTTP requests
type CourseHandler struct {
	courseService interfaces.CourseService
	courseStorage interfaces.CourseStorage
	validate      *validator.Validate
	logger        arbor.ILogger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService interfaces.CourseService, courseStorage interfaces.CourseStorage, logger arbor.ILogger) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		courseStorage: courseStorage,
		validate:      validator.New(),
		logger:        logger,
	}
}

// GenerateHandler handles POST /api/courses/generate
func (h *CourseHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Topic = strings.TrimSpace(req.Topic)

	if err := h.validate.Struct(&req); err != nil {
		h.logger.Debug().Err(err).Msg("Course request validation failed")
		WriteError(w, http.StatusBadRequest, "Topic is required (2-200 characters)")
		return
	}

	h.logger.Info().
		Str("topic", req.Topic).
		Bool("refresh", req.Refresh).
		Bool("semantic", req.Semantic).
		Msg("Course generation requested")

	course, err := h.courseService.GenerateOrReuse(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Str("topic", req.Topic).Msg("Course generation failed")
		WriteError(w, http.StatusInternalServerError, "Failed to generate course")
		return
	}

	WriteJSON(w, http.StatusCreated, course)
}

// ListHandler handles GET /api/courses
func (h *CourseHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	courses, err := h.courseStorage.ListCourses(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list courses")
		WriteError(w, http.StatusInternalServerError, "Failed to list courses")
		return
	}

	WriteJSON(w, http.StatusOK, courses)
}

// GetByTitleHandler handles GET /api/courses/{title}
func (h *CourseHandler) GetByTitleHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	encodedTitle := strings.TrimPrefix(r.URL.Path, "/api/courses/")
	title, err := url.PathUnescape(encodedTitle)
	if err != nil || strings.TrimSpace(title) == "" {
		WriteError(w, http.StatusBadRequest, "Course title is required")
		return
	}

	course, err := h.courseStorage.GetCourseByTitle(r.Context(), title)
	if err == interfaces.ErrCourseNotFound {
		WriteError(w, http.StatusNotFound, "Course not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("title", title).Msg("Failed to get course")
		WriteError(w, http.StatusInternalServerError, "Failed to get course")
		return
	}

	WriteJSON(w, http.StatusOK, course)
}
