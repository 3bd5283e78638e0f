package interfaces

import (
	"context"

	"github.com/ternarybob/discere/internal/models"
)

// WebSearchService fetches and ranks web resources for a query.
// The pipeline never fails a request because of upstream search errors:
// failed calls degrade to empty results and a curated fallback list covers
// the zero-result case, so FetchResources returns a list, not an error.
type WebSearchService interface {
	// FetchResources returns up to limit ranked, deduplicated resources.
	FetchResources(ctx context.Context, query string, limit int) []models.ResourceRef
}

// VideoService searches an external video backend and enriches results
// with duration/view/publish metadata.
type VideoService interface {
	// SearchWithDetails returns up to maxResults relevance-scored videos.
	// Detail-fetch failures degrade gracefully: videos are still returned
	// with missing metadata fields absent rather than fatal.
	SearchWithDetails(ctx context.Context, query string, maxResults int) ([]models.VideoRef, error)
}

// TranscriptService fetches spoken-caption transcripts for videos.
type TranscriptService interface {
	// Fetch returns the transcript text, or empty string after exhausting
	// retries. Never returns an error; transcript absence is not fatal.
	Fetch(ctx context.Context, videoID string) string
}

// EmbeddingService maintains the video embedding cache and performs
// semantic reranking of video candidates against a module intent.
type EmbeddingService interface {
	// Rerank orders candidates by cosine similarity to the intent text,
	// adjusted by heuristic penalty/boost terms, and returns the top topK
	// with RelevanceScore attached.
	Rerank(ctx context.Context, intentText string, refinedQuery string, candidates []models.VideoRef, topK int) []models.VideoRef
}

// OutlineService produces a course outline for a topic. It degrades to a
// deterministic fallback outline on quota/overload errors, never failing.
type OutlineService interface {
	Generate(ctx context.Context, topic string) *models.Outline
}

// SummaryService produces module summaries. It degrades to a heuristic
// paragraph template on quota/overload/server errors, never failing.
type SummaryService interface {
	// Summarize generates a module summary from the assembled context text,
	// re-requesting once when the first pass fails the quality gate.
	Summarize(ctx context.Context, contextText string) string

	// IsLowQuality reports whether a summary fails the quality gate
	// (word count below the minimum or known boilerplate phrases).
	IsLowQuality(summary string) bool
}

// CourseService is the course cache/merge engine.
type CourseService interface {
	// GenerateOrReuse serves a patched cached course or drives a fresh
	// per-module pipeline, per the request's refresh flag.
	GenerateOrReuse(ctx context.Context, req *models.CourseRequest) (*models.Course, error)

	// Enrich re-runs the patch pass over an existing course, replacing
	// generic resources and regenerating low-quality summaries. Valid
	// cached content is never dropped.
	Enrich(ctx context.Context, course *models.Course) (*models.Course, error)

	// GetVideoSummary fetches a transcript for the video and summarizes it.
	GetVideoSummary(ctx context.Context, videoID string) (*models.VideoSummary, error)
}

// SchedulerService re-enriches stale courses on a cron schedule.
type SchedulerService interface {
	Start() error
	Stop() error
}
