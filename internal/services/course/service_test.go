package course

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/discere/internal/common"
	"github.com/ternarybob/discere/internal/interfaces"
	"github.com/ternarybob/discere/internal/models"
)

type fakeCourseStorage struct {
	mu      sync.Mutex
	byTitle map[string]*models.Course
	saves   int
}

func newFakeCourseStorage() *fakeCourseStorage {
	return &fakeCourseStorage{byTitle: make(map[string]*models.Course)}
}

func (f *fakeCourseStorage) SaveCourse(ctx context.Context, course *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byTitle[strings.ToLower(course.Title)] = course
	f.saves++
	return nil
}

func (f *fakeCourseStorage) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	return nil, interfaces.ErrCourseNotFound
}

func (f *fakeCourseStorage) GetCourseByTitle(ctx context.Context, title string) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.byTitle[strings.ToLower(title)]; ok {
		return c, nil
	}
	return nil, interfaces.ErrCourseNotFound
}

func (f *fakeCourseStorage) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return nil, nil
}

func (f *fakeCourseStorage) ListCoursesUpdatedBefore(ctx context.Context, cutoff time.Time) ([]*models.Course, error) {
	return nil, nil
}

func (f *fakeCourseStorage) DeleteCourse(ctx context.Context, id string) error { return nil }
func (f *fakeCourseStorage) CountCourses(ctx context.Context) (int, error)    { return 0, nil }

type fakeOutline struct {
	outline *models.Outline
}

func (f *fakeOutline) Generate(ctx context.Context, topic string) *models.Outline {
	return f.outline
}

type fakeVideos struct {
	results []models.VideoRef
}

func (f *fakeVideos) SearchWithDetails(ctx context.Context, query string, maxResults int) ([]models.VideoRef, error) {
	return f.results, nil
}

type fakeResources struct {
	mu      sync.Mutex
	results []models.ResourceRef
	queries []string
}

func (f *fakeResources) FetchResources(ctx context.Context, query string, limit int) []models.ResourceRef {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.results
}

type fakeTranscripts struct {
	byID map[string]string
}

func (f *fakeTranscripts) Fetch(ctx context.Context, videoID string) string {
	return f.byID[videoID]
}

type fakeReranker struct {
	called bool
}

func (f *fakeReranker) Rerank(ctx context.Context, intentText, refinedQuery string, candidates []models.VideoRef, topK int) []models.VideoRef {
	f.called = true
	if len(candidates) > topK {
		return candidates[:topK]
	}
	return candidates
}

type fakeSummarizer struct {
	mu         sync.Mutex
	summary    string
	lowQuality map[string]bool
	calls      int
}

func (f *fakeSummarizer) Summarize(ctx context.Context, contextText string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.summary
}

func (f *fakeSummarizer) IsLowQuality(summary string) bool {
	return f.lowQuality[summary]
}

type fixture struct {
	storage    *fakeCourseStorage
	outline    *fakeOutline
	videos     *fakeVideos
	resources  *fakeResources
	transcript *fakeTranscripts
	reranker   *fakeReranker
	summarizer *fakeSummarizer
	svc        *Service
}

func newFixture() *fixture {
	f := &fixture{
		storage: newFakeCourseStorage(),
		outline: &fakeOutline{outline: &models.Outline{
			Title: "Go",
			Modules: []models.OutlineModule{
				{Title: "Introduction to Go", LearningObjective: "Understand what Go is."},
				{Title: "Go Fundamentals", LearningObjective: "Learn core concepts."},
			},
		}},
		videos: &fakeVideos{results: []models.VideoRef{
			{VideoID: "v1", Title: "Go Crash Course"},
			{VideoID: "v2", Title: "Go Deep Dive"},
			{VideoID: "v1", Title: "Go Crash Course"},
		}},
		resources: &fakeResources{results: []models.ResourceRef{
			{Title: "Go Docs", URL: "https://go.dev/doc/", Source: "go.dev"},
		}},
		transcript: &fakeTranscripts{byID: map[string]string{}},
		reranker:   &fakeReranker{},
		summarizer: &fakeSummarizer{summary: "a good summary", lowQuality: map[string]bool{}},
	}

	f.svc = NewService(
		f.storage, f.outline, f.videos, f.resources, f.transcript,
		f.reranker, f.summarizer, common.DefaultHeuristics(),
		&common.PipelineConfig{MaxVideos: 3, MaxResources: 10, ModuleConcurrency: 2},
		arbor.NewLogger(),
	)
	return f
}

func TestGenerateOrReuse_FreshGeneration(t *testing.T) {
	f := newFixture()

	course, err := f.svc.GenerateOrReuse(context.Background(), &models.CourseRequest{Topic: "Go"})

	require.NoError(t, err)
	require.NotNil(t, course)
	assert.True(t, strings.HasPrefix(course.ID, "course_"))
	assert.Equal(t, "Go", course.Title)

	// Module order matches the outline regardless of build concurrency
	require.Len(t, course.Modules, 2)
	assert.Equal(t, "Introduction to Go", course.Modules[0].Title)
	assert.Equal(t, "Go Fundamentals", course.Modules[1].Title)

	// Video candidates are deduplicated by ID
	require.Len(t, course.Modules[0].Videos, 2)
	assert.Equal(t, "v1", course.Modules[0].Videos[0].VideoID)
	assert.Equal(t, "v2", course.Modules[0].Videos[1].VideoID)

	assert.Equal(t, "a good summary", course.Modules[0].Summary)
	assert.Equal(t, 1, f.storage.saves)
	assert.False(t, f.reranker.called)
}

func TestGenerateOrReuse_EmptyTopic(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GenerateOrReuse(context.Background(), &models.CourseRequest{Topic: "   "})

	assert.Error(t, err)
}

func TestGenerateOrReuse_SemanticUsesReranker(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GenerateOrReuse(context.Background(), &models.CourseRequest{Topic: "Go", Semantic: true})

	require.NoError(t, err)
	assert.True(t, f.reranker.called)
}

func TestGenerateOrReuse_CachedCourseIsEnrichedNotRebuilt(t *testing.T) {
	f := newFixture()
	cached := &models.Course{
		ID:    "course_existing",
		Title: "Go",
		Modules: []models.Module{
			{
				Title:     "Introduction to Go",
				Resources: []models.ResourceRef{{Title: "Go Docs", URL: "https://go.dev/doc/", Source: "go.dev"}},
				Summary:   "a good summary",
			},
		},
	}
	require.NoError(t, f.storage.SaveCourse(context.Background(), cached))

	course, err := f.svc.GenerateOrReuse(context.Background(), &models.CourseRequest{Topic: "Go"})

	require.NoError(t, err)
	assert.Equal(t, "course_existing", course.ID)
	// Valid cached content survives untouched
	assert.Equal(t, 0, f.summarizer.calls)
	assert.Empty(t, f.resources.queries)
}

func TestGenerateOrReuse_RefreshKeepsIdentity(t *testing.T) {
	f := newFixture()
	cached := &models.Course{ID: "course_existing", Title: "Go"}
	require.NoError(t, f.storage.SaveCourse(context.Background(), cached))

	course, err := f.svc.GenerateOrReuse(context.Background(), &models.CourseRequest{Topic: "Go", Refresh: true})

	require.NoError(t, err)
	assert.Equal(t, "course_existing", course.ID)
	// Refresh rebuilds module content
	require.Len(t, course.Modules, 2)
}

func TestEnrich_ReplacesGenericResources(t *testing.T) {
	f := newFixture()
	course := &models.Course{
		ID:    "course_x",
		Title: "Go",
		Modules: []models.Module{
			{
				Title:     "Introduction to Go",
				Resources: []models.ResourceRef{{Title: "DuckDuckGo Search", URL: "https://duckduckgo.com/?q=go", Source: "duckduckgo.com"}},
				Summary:   "a good summary",
			},
		},
	}

	out, err := f.svc.Enrich(context.Background(), course)

	require.NoError(t, err)
	require.Len(t, out.Modules[0].Resources, 1)
	assert.Equal(t, "https://go.dev/doc/", out.Modules[0].Resources[0].URL)
	assert.Len(t, f.resources.queries, 1)
}

func TestEnrich_RegeneratesLowQualitySummary(t *testing.T) {
	f := newFixture()
	f.summarizer.lowQuality["stale boilerplate"] = true
	course := &models.Course{
		ID:    "course_x",
		Title: "Go",
		Modules: []models.Module{
			{
				Title:     "Introduction to Go",
				Resources: []models.ResourceRef{{Title: "Go Docs", URL: "https://go.dev/doc/", Source: "go.dev"}},
				Summary:   "stale boilerplate",
			},
		},
	}

	out, err := f.svc.Enrich(context.Background(), course)

	require.NoError(t, err)
	assert.Equal(t, "a good summary", out.Modules[0].Summary)
	assert.Equal(t, 1, f.summarizer.calls)
}

func TestEnrich_SecondPassIsNoOp(t *testing.T) {
	f := newFixture()
	course := &models.Course{
		ID:    "course_x",
		Title: "Go",
		Modules: []models.Module{
			{
				Title:     "Introduction to Go",
				Resources: []models.ResourceRef{{Title: "DuckDuckGo Search", URL: "https://duckduckgo.com/?q=go", Source: "duckduckgo.com"}},
				Summary:   "a good summary",
			},
		},
	}

	first, err := f.svc.Enrich(context.Background(), course)
	require.NoError(t, err)

	second, err := f.svc.Enrich(context.Background(), first)
	require.NoError(t, err)

	assert.Equal(t, first.Modules[0].Resources, second.Modules[0].Resources)
	assert.Equal(t, 0, f.summarizer.calls)
	// Only the first pass needed a live fetch
	assert.Len(t, f.resources.queries, 1)
}

func TestModuleFallbackContext(t *testing.T) {
	f := newFixture()

	om := models.OutlineModule{Title: "Introduction to Go", LearningObjective: "Understand what Go is."}
	withVideos := f.svc.moduleFallbackContext(om, []models.VideoRef{{Title: "Go Crash Course"}})
	assert.Contains(t, withVideos, "Module Title: Introduction to Go")
	assert.Contains(t, withVideos, "Learning Objective: Understand what Go is.")
	assert.Contains(t, withVideos, "- Go Crash Course")

	empty := f.svc.moduleFallbackContext(models.OutlineModule{Title: "X"}, nil)
	assert.Contains(t, empty, "Learning Objective: N/A")
	assert.Contains(t, empty, "No videos could be found.")
}

func TestLooksGeneric(t *testing.T) {
	f := newFixture()

	assert.True(t, f.svc.looksGeneric(models.ResourceRef{Title: "Google Search results", URL: "https://www.google.com/search?q=x", Source: "google.com"}))
	assert.True(t, f.svc.looksGeneric(models.ResourceRef{Title: "Go on Bing", URL: "https://bing.com/search?q=go", Source: "bing.com"}))
	assert.False(t, f.svc.looksGeneric(models.ResourceRef{Title: "Go Documentation", URL: "https://go.dev/doc/", Source: "go.dev"}))
}

func TestGetVideoSummary(t *testing.T) {
	f := newFixture()
	f.transcript.byID["v1"] = "spoken words"

	out, err := f.svc.GetVideoSummary(context.Background(), "v1")

	require.NoError(t, err)
	assert.Equal(t, "v1", out.VideoID)
	assert.Equal(t, "spoken words", out.Transcript)
	assert.Equal(t, "a good summary", out.Summary)

	_, err = f.svc.GetVideoSummary(context.Background(), "  ")
	assert.Error(t, err)
}

func TestDedupeVideos(t *testing.T) {
	videos := []models.VideoRef{
		{VideoID: "a"}, {VideoID: ""}, {VideoID: "b"}, {VideoID: "a"},
	}

	out := dedupeVideos(videos)

	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].VideoID)
	assert.Equal(t, "b", out[1].VideoID)
}
