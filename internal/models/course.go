package models

import (
	"time"
)

// Course represents a generated learning course. Courses are looked up by
// Title, created on first generation for a topic, and mutated in place on
// refresh/enrich. They are never deleted by the pipeline.
type Course struct {
	ID        string    `json:"id"` // course_{uuid}
	Title     string    `json:"title"`
	Modules   []Module  `json:"modules"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Module is one unit of a course outline. Videos and resources are kept in
// rank order and deduplicated by identifier/URL within the module.
type Module struct {
	Title             string        `json:"title"`
	LearningObjective string        `json:"learning_objective"`
	Videos            []VideoRef    `json:"videos"`    // <= 3, rank order
	Resources         []ResourceRef `json:"resources"` // <= 10, rank order
	Summary           string        `json:"summary"`
}

// VideoRef references an external video attached to a module.
// RelevanceScore is set only when semantic ranking ran.
type VideoRef struct {
	VideoID        string     `json:"video_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	ThumbnailURL   string     `json:"thumbnail_url,omitempty"`
	ChannelID      string     `json:"channel_id,omitempty"`
	ChannelTitle   string     `json:"channel_title,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	DurationSec    int        `json:"duration_sec,omitempty"`
	ViewCount      int64      `json:"view_count,omitempty"`
	LikeCount      int64      `json:"like_count,omitempty"`
	RelevanceScore *float64   `json:"relevance_score,omitempty"`
}

// ResourceRef references a web resource attached to a module. URL is the
// canonical deduplication key. Source is the final hostname and is never the
// search backend's own domain.
type ResourceRef struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Source  string `json:"source"`
	Snippet string `json:"snippet,omitempty"`
}

// VideoFilters are client-supplied eliminative filters applied to a module's
// video candidates. Each filter is independent (AND semantics); zero values
// disable the corresponding filter.
type VideoFilters struct {
	MinViews        int64      `json:"min_views,omitempty"`
	MinMinutes      int        `json:"min_minutes,omitempty"`
	MaxMinutes      int        `json:"max_minutes,omitempty"`
	UploadedAfter   *time.Time `json:"uploaded_after,omitempty"`
	AllowedChannels []string   `json:"allowed_channels,omitempty"`
	BlockedChannels []string   `json:"blocked_channels,omitempty"`
}

// Outline is the course skeleton produced by the outline generator.
type Outline struct {
	Title   string          `json:"title"`
	Modules []OutlineModule `json:"modules"`
}

// OutlineModule is one planned module before enrichment.
type OutlineModule struct {
	Title             string `json:"title"`
	LearningObjective string `json:"learningObjective"`
}

// CourseRequest is the payload for course generation.
type CourseRequest struct {
	Topic    string        `json:"topic" validate:"required,min=2,max=200"`
	Refresh  bool          `json:"refresh"`
	Semantic bool          `json:"semantic"`
	Filters  *VideoFilters `json:"filters,omitempty"`
}

// VideoSummary is the response for the per-video summary lookup.
type VideoSummary struct {
	VideoID    string `json:"video_id"`
	Transcript string `json:"transcript"`
	Summary    string `json:"summary"`
}
