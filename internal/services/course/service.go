package course

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/discere/internal/common"
	"github.com/ternarybob/discere/internal/interfaces"
	"github.com/ternarybob/discere/internal/models"
	"github.com/ternarybob/discere/internal/services/websearch"
	"github.com/ternarybob/discere/internal/services/youtube"
	"golang.org/x/sync/errgroup"
)

// videoCandidatePool is how many candidates the video search requests so
// filters and the semantic reranker have room to eliminate before the final
// per-module cut.
const videoCandidatePool = 8

// Service is the course cache/merge engine. It decides per request whether
// to reuse a cached course (patching only deficient modules) or drive the
// fresh per-module pipeline.
type Service struct {
	courses     interfaces.CourseStorage
	outline     interfaces.OutlineService
	videos      interfaces.VideoService
	resources   interfaces.WebSearchService
	transcripts interfaces.TranscriptService
	reranker    interfaces.EmbeddingService
	summarizer  interfaces.SummaryService
	heuristics  *common.Heuristics
	logger      arbor.ILogger

	maxVideos         int
	maxResources      int
	moduleConcurrency int
}

// NewService creates a new course service
func NewService(
	courses interfaces.CourseStorage,
	outlineSvc interfaces.OutlineService,
	videos interfaces.VideoService,
	resources interfaces.WebSearchService,
	transcripts interfaces.TranscriptService,
	reranker interfaces.EmbeddingService,
	summarizer interfaces.SummaryService,
	heuristics *common.Heuristics,
	pipeline *common.PipelineConfig,
	logger arbor.ILogger,
) *Service {
	maxVideos := pipeline.MaxVideos
	if maxVideos <= 0 {
		maxVideos = 3
	}
	maxResources := pipeline.MaxResources
	if maxResources <= 0 {
		maxResources = 10
	}
	concurrency := pipeline.ModuleConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	return &Service{
		courses:           courses,
		outline:           outlineSvc,
		videos:            videos,
		resources:         resources,
		transcripts:       transcripts,
		reranker:          reranker,
		summarizer:        summarizer,
		heuristics:        heuristics,
		logger:            logger,
		maxVideos:         maxVideos,
		maxResources:      maxResources,
		moduleConcurrency: concurrency,
	}
}

// GenerateOrReuse serves a patched cached course when one exists for the
// topic and no refresh was requested; otherwise it generates fresh. Refresh
// keeps the cached course's identity so the record is mutated in place.
func (s *Service) GenerateOrReuse(ctx context.Context, req *models.CourseRequest) (*models.Course, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	existing, err := s.courses.GetCourseByTitle(ctx, topic)
	if err != nil && err != interfaces.ErrCourseNotFound {
		return nil, fmt.Errorf("course lookup failed: %w", err)
	}

	if existing != nil && !req.Refresh {
		s.logger.Info().Str("topic", topic).Str("course_id", existing.ID).Msg("Reusing cached course")
		return s.Enrich(ctx, existing)
	}

	return s.generate(ctx, topic, existing, req)
}

// generate drives the fresh per-module pipeline. Modules are built
// concurrently and joined positionally so output order always matches
// outline order.
func (s *Service) generate(ctx context.Context, topic string, existing *models.Course, req *models.CourseRequest) (*models.Course, error) {
	outline := s.outline.Generate(ctx, topic)

	modules := make([]models.Module, len(outline.Modules))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.moduleConcurrency)
	for i, om := range outline.Modules {
		g.Go(func() error {
			modules[i] = s.buildModule(gctx, om, req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	course := &models.Course{
		ID:      common.NewCourseID(),
		Title:   topic,
		Modules: modules,
	}
	if existing != nil {
		course.ID = existing.ID
		course.CreatedAt = existing.CreatedAt
	}

	if err := s.courses.SaveCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to save course: %w", err)
	}

	s.logger.Info().
		Str("topic", topic).
		Str("course_id", course.ID).
		Int("modules", len(course.Modules)).
		Msg("Course generated")

	return course, nil
}

// buildModule runs the full pipeline for one outline module. Every upstream
// has a defined empty/fallback value, so this never fails.
func (s *Service) buildModule(ctx context.Context, om models.OutlineModule, req *models.CourseRequest) models.Module {
	refined := RefineQuery(s.heuristics, om.Title, om.LearningObjective)

	var (
		candidates []models.VideoRef
		resources  []models.ResourceRef
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := s.videos.SearchWithDetails(gctx, om.Title, videoCandidatePool)
		if err != nil {
			s.logger.Warn().Err(err).Str("module", om.Title).Msg("Video search failed, continuing without videos")
			return nil
		}
		candidates = found
		return nil
	})
	g.Go(func() error {
		resources = s.resources.FetchResources(gctx, refined, s.maxResources)
		return nil
	})
	_ = g.Wait()

	kept := youtube.FilterVideos(dedupeVideos(candidates), req.Filters)
	if req.Semantic {
		intent := fmt.Sprintf("%s. %s", om.Title, om.LearningObjective)
		kept = s.reranker.Rerank(ctx, intent, refined, kept, s.maxVideos)
	} else if len(kept) > s.maxVideos {
		kept = kept[:s.maxVideos]
	}

	var transcriptText string
	if len(kept) > 0 {
		transcriptText = s.transcripts.Fetch(ctx, kept[0].VideoID)
	}

	contextText := transcriptText
	if strings.TrimSpace(contextText) == "" {
		contextText = s.moduleFallbackContext(om, kept)
	}

	summary := s.summarizer.Summarize(ctx, contextText)

	return models.Module{
		Title:             om.Title,
		LearningObjective: om.LearningObjective,
		Videos:            kept,
		Resources:         resources,
		Summary:           summary,
	}
}

// moduleFallbackContext builds the summarization context used when no
// transcript is available.
func (s *Service) moduleFallbackContext(om models.OutlineModule, videos []models.VideoRef) string {
	var b strings.Builder
	b.WriteString("No transcript was available. Please provide a helpful, concise learning summary based on the following context.\n\n")
	b.WriteString("Module Title: " + om.Title + "\n")
	objective := om.LearningObjective
	if objective == "" {
		objective = "N/A"
	}
	b.WriteString("Learning Objective: " + objective + "\n")
	if len(videos) > 0 {
		b.WriteString("Suggested Videos:\n")
		for _, v := range videos {
			b.WriteString("- " + v.Title + "\n")
		}
	} else {
		b.WriteString("No videos could be found.")
	}
	return b.String()
}

// Enrich patches only the deficient parts of a cached course: generic or
// missing resources are re-fetched, low-quality summaries regenerated.
// Valid cached resources and summaries are never dropped, so a second pass
// with no upstream changes is a no-op.
func (s *Service) Enrich(ctx context.Context, course *models.Course) (*models.Course, error) {
	if course == nil {
		return nil, fmt.Errorf("course is required")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.moduleConcurrency)
	for i := range course.Modules {
		g.Go(func() error {
			s.enrichModule(gctx, &course.Modules[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.courses.SaveCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to save enriched course: %w", err)
	}

	return course, nil
}

// enrichModule patches one module in place
func (s *Service) enrichModule(ctx context.Context, m *models.Module) {
	kept := make([]models.ResourceRef, 0, len(m.Resources))
	for _, r := range websearch.SanitizeResources(m.Resources) {
		if !s.looksGeneric(r) {
			kept = append(kept, r)
		}
	}

	if len(kept) == 0 {
		refined := RefineQuery(s.heuristics, m.Title, m.LearningObjective)
		m.Resources = s.resources.FetchResources(ctx, refined, s.maxResources)
		s.logger.Info().Str("module", m.Title).Int("count", len(m.Resources)).Msg("Replaced generic module resources")
	} else {
		m.Resources = kept
	}

	if m.Summary == "" || s.summarizer.IsLowQuality(m.Summary) {
		m.Summary = s.summarizer.Summarize(ctx, s.enrichContext(m))
		s.logger.Info().Str("module", m.Title).Msg("Regenerated low-quality module summary")
	}
}

// enrichContext assembles the regeneration context from the module title,
// objective, and the top-5 resource snippets.
func (s *Service) enrichContext(m *models.Module) string {
	var b strings.Builder
	b.WriteString("Module Title: " + m.Title + "\n")
	b.WriteString("Learning Objective: " + m.LearningObjective + "\n")
	count := 0
	for _, r := range m.Resources {
		if count >= 5 {
			break
		}
		if strings.TrimSpace(r.Snippet) == "" {
			continue
		}
		if count == 0 {
			b.WriteString("Reference Snippets:\n")
		}
		b.WriteString("- " + r.Snippet + "\n")
		count++
	}
	return b.String()
}

// looksGeneric flags resources that are search-result pages rather than
// content: a title containing "search", or a raw query URL on a known search
// engine. The host table is configurable; the check can false-positive on
// legitimate pages titled "search".
func (s *Service) looksGeneric(r models.ResourceRef) bool {
	if strings.Contains(strings.ToLower(r.Title), "search") {
		return true
	}
	if s.heuristics.IsSearchEngineHost(r.Source) && strings.Contains(r.URL, "?") {
		return true
	}
	return false
}

// GetVideoSummary fetches a transcript for the video and summarizes it.
// Missing transcripts still produce a summary from the empty context.
func (s *Service) GetVideoSummary(ctx context.Context, videoID string) (*models.VideoSummary, error) {
	if strings.TrimSpace(videoID) == "" {
		return nil, fmt.Errorf("video ID is required")
	}

	transcriptText := s.transcripts.Fetch(ctx, videoID)
	summaryText := s.summarizer.Summarize(ctx, transcriptText)

	return &models.VideoSummary{
		VideoID:    videoID,
		Transcript: transcriptText,
		Summary:    summaryText,
	}, nil
}

// dedupeVideos removes duplicate candidates by video ID, keeping first-seen
// order.
func dedupeVideos(videos []models.VideoRef) []models.VideoRef {
	seen := make(map[string]bool, len(videos))
	out := make([]models.VideoRef, 0, len(videos))
	for _, v := range videos {
		if v.VideoID == "" || seen[v.VideoID] {
			continue
		}
		seen[v.VideoID] = true
		out = append(out, v)
	}
	return out
}
