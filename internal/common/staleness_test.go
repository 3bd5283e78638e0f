package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckCourseStaleness_Fresh(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	updatedAt := now.Add(-24 * time.Hour)

	result := CheckCourseStaleness(updatedAt, now, 168*time.Hour)

	assert.False(t, result.IsStale)
	assert.Equal(t, updatedAt.Add(168*time.Hour), result.NextCheckTime)
	assert.NotEmpty(t, result.Reason)
}

func TestCheckCourseStaleness_Expired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	updatedAt := now.Add(-8 * 24 * time.Hour)

	result := CheckCourseStaleness(updatedAt, now, 168*time.Hour)

	assert.True(t, result.IsStale)
}

func TestCheckCourseStaleness_ExactBoundaryIsFresh(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	updatedAt := now.Add(-168 * time.Hour)

	result := CheckCourseStaleness(updatedAt, now, 168*time.Hour)

	// Staleness requires the window to have strictly passed
	assert.False(t, result.IsStale)
}

func TestCheckCourseStaleness_ZeroTimestampIsStale(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	result := CheckCourseStaleness(time.Time{}, now, 168*time.Hour)

	assert.True(t, result.IsStale)
}

func TestCheckCourseStaleness_DisabledWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	result := CheckCourseStaleness(now.Add(-1000*time.Hour), now, 0)

	assert.False(t, result.IsStale)
	assert.Equal(t, "staleness window disabled", result.Reason)
}
