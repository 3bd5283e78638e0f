package common

import (
	"github.com/google/uuid"
)

// NewCourseID generates a unique course ID with the "course_" prefix
// Format: course_<uuid>
func NewCourseID() string {
	return "course_" + uuid.New().String()
}
