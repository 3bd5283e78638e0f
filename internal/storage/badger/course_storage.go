package badger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/discere/internal/interfaces"
	"github.com/ternarybob/discere/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// CourseStorage implements the CourseStorage interface for Badger.
// Courses are stored under their ID; title lookup scans the Title index.
type CourseStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCourseStorage creates a new CourseStorage instance
func NewCourseStorage(db *BadgerDB, logger arbor.ILogger) interfaces.CourseStorage {
	return &CourseStorage{
		db:     db,
		logger: logger,
	}
}

// SaveCourse inserts or updates a course, preserving CreatedAt on update
func (s *CourseStorage) SaveCourse(ctx context.Context, course *models.Course) error {
	if course == nil || course.ID == "" {
		return fmt.Errorf("course ID is required")
	}

	now := time.Now().UTC()
	course.UpdatedAt = now

	var existing models.Course
	err := s.db.Store().Get(course.ID, &existing)
	if err == nil {
		course.CreatedAt = existing.CreatedAt
	} else if err == badgerhold.ErrNotFound {
		if course.CreatedAt.IsZero() {
			course.CreatedAt = now
		}
	} else {
		return fmt.Errorf("failed to check course existence: %w", err)
	}

	if err := s.db.Store().Upsert(course.ID, course); err != nil {
		return fmt.Errorf("failed to save course: %w", err)
	}

	s.logger.Debug().
		Str("course_id", course.ID).
		Str("title", course.Title).
		Int("modules", len(course.Modules)).
		Msg("Course saved")

	return nil
}

// GetCourse retrieves a course by ID
func (s *CourseStorage) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	err := s.db.Store().Get(id, &course)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &course, nil
}

// GetCourseByTitle retrieves a course by exact title match (case-insensitive).
// When multiple courses share a title, the most recently updated wins.
func (s *CourseStorage) GetCourseByTitle(ctx context.Context, title string) (*models.Course, error) {
	normalized := strings.TrimSpace(title)
	if normalized == "" {
		return nil, interfaces.ErrCourseNotFound
	}

	var courses []models.Course
	err := s.db.Store().Find(&courses, badgerhold.Where("Title").MatchFunc(func(ra *badgerhold.RecordAccess) (bool, error) {
		value, ok := ra.Field().(string)
		if !ok {
			return false, nil
		}
		return strings.EqualFold(strings.TrimSpace(value), normalized), nil
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to find course by title: %w", err)
	}
	if len(courses) == 0 {
		return nil, interfaces.ErrCourseNotFound
	}

	best := courses[0]
	for _, c := range courses[1:] {
		if c.UpdatedAt.After(best.UpdatedAt) {
			best = c
		}
	}
	return &best, nil
}

// ListCourses returns all courses ordered by updated_at DESC
func (s *CourseStorage) ListCourses(ctx context.Context) ([]*models.Course, error) {
	var courses []models.Course
	err := s.db.Store().Find(&courses, badgerhold.Where("ID").Ne("").SortBy("UpdatedAt").Reverse())
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	result := make([]*models.Course, 0, len(courses))
	for i := range courses {
		result = append(result, &courses[i])
	}
	return result, nil
}

// ListCoursesUpdatedBefore returns courses whose UpdatedAt is before cutoff
func (s *CourseStorage) ListCoursesUpdatedBefore(ctx context.Context, cutoff time.Time) ([]*models.Course, error) {
	var courses []models.Course
	err := s.db.Store().Find(&courses, badgerhold.Where("UpdatedAt").Lt(cutoff))
	if err != nil {
		return nil, fmt.Errorf("failed to list stale courses: %w", err)
	}

	result := make([]*models.Course, 0, len(courses))
	for i := range courses {
		result = append(result, &courses[i])
	}
	return result, nil
}

// DeleteCourse removes a course by ID
func (s *CourseStorage) DeleteCourse(ctx context.Context, id string) error {
	err := s.db.Store().Delete(id, &models.Course{})
	if err == badgerhold.ErrNotFound {
		return interfaces.ErrCourseNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}

// CountCourses returns the total number of stored courses
func (s *CourseStorage) CountCourses(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Course{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return int(count), nil
}
