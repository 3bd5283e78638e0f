package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/discere/internal/models"
)

// ErrCourseNotFound is returned when no course exists for a title.
var ErrCourseNotFound = errors.New("course not found")

// ErrKeyNotFound is returned when a key/value pair does not exist.
var ErrKeyNotFound = errors.New("key not found")

// CourseStorage - interface for course document persistence.
// Courses are keyed by title for cache lookup (unique-ish, not a hard
// uniqueness constraint).
type CourseStorage interface {
	SaveCourse(ctx context.Context, course *models.Course) error
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	GetCourseByTitle(ctx context.Context, title string) (*models.Course, error)
	ListCourses(ctx context.Context) ([]*models.Course, error)
	ListCoursesUpdatedBefore(ctx context.Context, cutoff time.Time) ([]*models.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	CountCourses(ctx context.Context) (int, error)
}

// EmbeddingStorage - interface for the shared video embedding cache.
// VideoID is a hard uniqueness constraint; InsertIfAbsent never overwrites
// an existing entry.
type EmbeddingStorage interface {
	GetEmbedding(ctx context.Context, videoID string) (*models.VideoEmbedding, error)
	// InsertIfAbsent stores the embedding only when no entry exists for its
	// VideoID. Returns true when a new entry was written.
	InsertIfAbsent(ctx context.Context, embedding *models.VideoEmbedding) (bool, error)
	CountEmbeddings(ctx context.Context) (int, error)
}

// KeyValuePair represents a stored key/value entry (API keys, settings).
type KeyValuePair struct {
	Key         string    `json:"key" badgerhold:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// KeyValueStorage - interface for key/value persistence
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, description string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]KeyValuePair, error)
	GetAll(ctx context.Context) (map[string]string, error)
}

// StorageManager - composite interface for all storage operations
type StorageManager interface {
	CourseStorage() CourseStorage
	EmbeddingStorage() EmbeddingStorage
	KeyValueStorage() KeyValueStorage
	DB() interface{}
	Close() error
}
