package youtube

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/discere/internal/common"
	"github.com/ternarybob/discere/internal/models"
)

func TestScoreVideo(t *testing.T) {
	h := &common.Heuristics{DenyTerms: []string{"lyrics", "piano"}}

	// "python": title +3, description +1; "for" is under 4 chars
	assert.Equal(t, 4, ScoreVideo(h, "Python Crash Course", "learn python fast", "python for beginners"))

	// Deny term in the title costs 6
	assert.Equal(t, 3-6, ScoreVideo(h, "python piano covers", "", "python"))

	// Deny terms in the description are not penalized
	assert.Equal(t, 3, ScoreVideo(h, "python basics", "not piano related", "python"))

	assert.Equal(t, 0, ScoreVideo(h, "unrelated video", "", "python"))
}

func TestFilterVideos_NilKeepsAll(t *testing.T) {
	videos := []models.VideoRef{{VideoID: "a"}, {VideoID: "b"}}

	assert.Equal(t, videos, FilterVideos(videos, nil))
}

func TestFilterVideos_DurationWindow(t *testing.T) {
	videos := []models.VideoRef{
		{VideoID: "short", DurationSec: 300},
		{VideoID: "fits", DurationSec: 900},
		{VideoID: "long", DurationSec: 2400},
	}
	filters := &models.VideoFilters{MinMinutes: 10, MaxMinutes: 20}

	out := FilterVideos(videos, filters)

	assert.Len(t, out, 1)
	assert.Equal(t, "fits", out[0].VideoID)
}

func TestFilterVideos_MinViews(t *testing.T) {
	videos := []models.VideoRef{
		{VideoID: "small", ViewCount: 500},
		{VideoID: "big", ViewCount: 50000},
	}

	out := FilterVideos(videos, &models.VideoFilters{MinViews: 1000})

	assert.Len(t, out, 1)
	assert.Equal(t, "big", out[0].VideoID)
}

func TestFilterVideos_UploadedAfter(t *testing.T) {
	cutoff := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	before := cutoff.Add(-24 * time.Hour)
	after := cutoff.Add(24 * time.Hour)

	videos := []models.VideoRef{
		{VideoID: "old", PublishedAt: &before},
		{VideoID: "new", PublishedAt: &after},
		{VideoID: "unknown"},
	}

	out := FilterVideos(videos, &models.VideoFilters{UploadedAfter: &cutoff})

	// Unknown publish dates cannot satisfy the cutoff and are dropped
	assert.Len(t, out, 1)
	assert.Equal(t, "new", out[0].VideoID)
}

func TestFilterVideos_ChannelLists(t *testing.T) {
	videos := []models.VideoRef{
		{VideoID: "a", ChannelID: "UC123", ChannelTitle: "Good Channel"},
		{VideoID: "b", ChannelID: "UC456", ChannelTitle: "Other Channel"},
	}

	allowed := FilterVideos(videos, &models.VideoFilters{AllowedChannels: []string{"good channel"}})
	assert.Len(t, allowed, 1)
	assert.Equal(t, "a", allowed[0].VideoID)

	blocked := FilterVideos(videos, &models.VideoFilters{BlockedChannels: []string{"UC123"}})
	assert.Len(t, blocked, 1)
	assert.Equal(t, "b", blocked[0].VideoID)
}

func TestFilterVideos_AndSemantics(t *testing.T) {
	videos := []models.VideoRef{
		{VideoID: "views-only", ViewCount: 9000, DurationSec: 120},
		{VideoID: "duration-only", ViewCount: 10, DurationSec: 900},
		{VideoID: "both", ViewCount: 9000, DurationSec: 900},
	}
	filters := &models.VideoFilters{MinViews: 1000, MinMinutes: 10}

	out := FilterVideos(videos, filters)

	assert.Len(t, out, 1)
	assert.Equal(t, "both", out[0].VideoID)
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, int64(12345), parseCount("12345"))
	assert.Equal(t, int64(0), parseCount(""))
	assert.Equal(t, int64(0), parseCount("n/a"))
}
