package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/discere/internal/common"
	"github.com/ternarybob/discere/internal/handlers"
	"github.com/ternarybob/discere/internal/interfaces"
	"github.com/ternarybob/discere/internal/services/course"
	"github.com/ternarybob/discere/internal/services/embeddings"
	"github.com/ternarybob/discere/internal/services/llm"
	"github.com/ternarybob/discere/internal/services/outline"
	"github.com/ternarybob/discere/internal/services/scheduler"
	"github.com/ternarybob/discere/internal/services/summary"
	"github.com/ternarybob/discere/internal/services/transcript"
	"github.com/ternarybob/discere/internal/services/websearch"
	"github.com/ternarybob/discere/internal/services/youtube"
	storagebadger "github.com/ternarybob/discere/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager
	Heuristics     *common.Heuristics

	LLMService        interfaces.LLMService
	OutlineService    interfaces.OutlineService
	SummaryService    interfaces.SummaryService
	WebSearchService  interfaces.WebSearchService
	VideoService      interfaces.VideoService
	TranscriptService interfaces.TranscriptService
	EmbeddingService  interfaces.EmbeddingService
	CourseService     interfaces.CourseService
	SchedulerService  interfaces.SchedulerService

	APIHandler    *handlers.APIHandler
	CourseHandler *handlers.CourseHandler
	VideoHandler  *handlers.VideoHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config:     cfg,
		Logger:     logger,
		Heuristics: common.DefaultHeuristics(),
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().Msg("Application initialized")
	return app, nil
}

// initStorage initializes the storage layer (Badger)
func (a *App) initStorage() error {
	manager, err := storagebadger.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return err
	}
	a.StorageManager = manager
	return nil
}

// initServices wires the pipeline services bottom-up
func (a *App) initServices() error {
	kvStorage := a.StorageManager.KeyValueStorage()

	factory := llm.NewProviderFactory(&a.Config.Gemini, &a.Config.Claude, &a.Config.LLM, kvStorage, a.Logger)

	llmService, err := llm.NewService(factory, &a.Config.Gemini, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM service: %w", err)
	}
	a.LLMService = llmService

	a.OutlineService = outline.NewService(factory, &a.Config.Gemini, a.Logger)
	a.SummaryService = summary.NewService(factory, &a.Config.Gemini, a.Heuristics, a.Config.Pipeline.SummaryMinWords, a.Logger)

	webSearchService, err := websearch.NewService(&a.Config.Search, a.Heuristics, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create web search service: %w", err)
	}
	a.WebSearchService = webSearchService

	// YouTube key may live in the KV store rather than config
	youtubeConfig := a.Config.YouTube
	if apiKey, kerr := common.ResolveAPIKey(context.Background(), kvStorage, "youtube_api_key", youtubeConfig.APIKey); kerr == nil {
		youtubeConfig.APIKey = apiKey
	}
	videoService, err := youtube.NewService(&youtubeConfig, a.Heuristics, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create video service: %w", err)
	}
	a.VideoService = videoService

	transcriptTimeout := 6 * time.Second
	if youtubeConfig.RequestTimeout != "" {
		if parsed, perr := time.ParseDuration(youtubeConfig.RequestTimeout); perr == nil {
			transcriptTimeout = parsed
		}
	}
	a.TranscriptService = transcript.NewService(youtubeConfig.Language, transcriptTimeout, a.Logger)

	a.EmbeddingService = embeddings.NewService(
		a.LLMService,
		a.StorageManager.EmbeddingStorage(),
		a.TranscriptService,
		a.Heuristics,
		a.Logger,
	)

	a.CourseService = course.NewService(
		a.StorageManager.CourseStorage(),
		a.OutlineService,
		a.VideoService,
		a.WebSearchService,
		a.TranscriptService,
		a.EmbeddingService,
		a.SummaryService,
		a.Heuristics,
		&a.Config.Pipeline,
		a.Logger,
	)

	schedulerService, err := scheduler.NewService(&a.Config.Scheduler, a.StorageManager.CourseStorage(), a.CourseService, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create scheduler service: %w", err)
	}
	a.SchedulerService = schedulerService

	return nil
}

// initHandlers creates the HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.StorageManager, a.Logger)
	a.CourseHandler = handlers.NewCourseHandler(a.CourseService, a.StorageManager.CourseStorage(), a.Logger)
	a.VideoHandler = handlers.NewVideoHandler(a.CourseService, a.Logger)
}

// Start starts background components
func (a *App) Start() error {
	if err := a.SchedulerService.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	return nil
}

// Close shuts down components in reverse dependency order
func (a *App) Close() error {
	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler")
		}
	}

	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage manager")
			return err
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
