package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/discere/internal/interfaces"
	"github.com/ternarybob/discere/internal/models"
)

type stubCourseService struct {
	course *models.Course
	err    error
}

func (s *stubCourseService) GenerateOrReuse(ctx context.Context, req *models.CourseRequest) (*models.Course, error) {
	return s.course, s.err
}

func (s *stubCourseService) Enrich(ctx context.Context, course *models.Course) (*models.Course, error) {
	return course, nil
}

func (s *stubCourseService) GetVideoSummary(ctx context.Context, videoID string) (*models.VideoSummary, error) {
	return &models.VideoSummary{VideoID: videoID}, nil
}

type stubCourseStorage struct {
	byTitle map[string]*models.Course
}

func (s *stubCourseStorage) SaveCourse(ctx context.Context, course *models.Course) error { return nil }
func (s *stubCourseStorage) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	return nil, interfaces.ErrCourseNotFound
}
func (s *stubCourseStorage) GetCourseByTitle(ctx context.Context, title string) (*models.Course, error) {
	if c, ok := s.byTitle[title]; ok {
		return c, nil
	}
	return nil, interfaces.ErrCourseNotFound
}
func (s *stubCourseStorage) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return []*models.Course{}, nil
}
func (s *stubCourseStorage) ListCoursesUpdatedBefore(ctx context.Context, cutoff time.Time) ([]*models.Course, error) {
	return nil, nil
}
func (s *stubCourseStorage) DeleteCourse(ctx context.Context, id string) error { return nil }
func (s *stubCourseStorage) CountCourses(ctx context.Context) (int, error)     { return 0, nil }

func newTestCourseHandler(svc *stubCourseService, storage *stubCourseStorage) *CourseHandler {
	if storage == nil {
		storage = &stubCourseStorage{byTitle: map[string]*models.Course{}}
	}
	return NewCourseHandler(svc, storage, arbor.NewLogger())
}

func TestGenerateHandler_Success(t *testing.T) {
	h := newTestCourseHandler(&stubCourseService{course: &models.Course{ID: "course_1", Title: "Go"}}, nil)

	req := httptest.NewRequest("POST", "/api/courses/generate", strings.NewReader(`{"topic":"Go"}`))
	rec := httptest.NewRecorder()

	h.GenerateHandler(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var course models.Course
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&course))
	assert.Equal(t, "course_1", course.ID)
}

func TestGenerateHandler_MissingTopic(t *testing.T) {
	h := newTestCourseHandler(&stubCourseService{}, nil)

	for _, body := range []string{`{}`, `{"topic":""}`, `{"topic":"   "}`, `{"topic":"x"}`} {
		req := httptest.NewRequest("POST", "/api/courses/generate", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.GenerateHandler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestGenerateHandler_InvalidBody(t *testing.T) {
	h := newTestCourseHandler(&stubCourseService{}, nil)

	req := httptest.NewRequest("POST", "/api/courses/generate", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	h.GenerateHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateHandler_MethodNotAllowed(t *testing.T) {
	h := newTestCourseHandler(&stubCourseService{}, nil)

	req := httptest.NewRequest("GET", "/api/courses/generate", nil)
	rec := httptest.NewRecorder()

	h.GenerateHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGetByTitleHandler_NotFound(t *testing.T) {
	h := newTestCourseHandler(&stubCourseService{}, nil)

	req := httptest.NewRequest("GET", "/api/courses/Nope", nil)
	rec := httptest.NewRecorder()

	h.GetByTitleHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetByTitleHandler_UnescapesTitle(t *testing.T) {
	storage := &stubCourseStorage{byTitle: map[string]*models.Course{
		"Machine Learning": {ID: "course_ml", Title: "Machine Learning"},
	}}
	h := newTestCourseHandler(&stubCourseService{}, storage)

	req := httptest.NewRequest("GET", "/api/courses/Machine%20Learning", nil)
	rec := httptest.NewRecorder()

	h.GetByTitleHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var course models.Course
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&course))
	assert.Equal(t, "course_ml", course.ID)
}
