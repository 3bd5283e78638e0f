package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/discere/internal/common"
	"github.com/ternarybob/discere/internal/interfaces"
)

// tickTimeout bounds one full refresh pass
const tickTimeout = 10 * time.Minute

// Service re-enriches stale courses on a cron schedule so cached content
// does not drift indefinitely from upstream sources.
type Service struct {
	cron       *cron.Cron
	courses    interfaces.CourseStorage
	courseSvc  interfaces.CourseService
	logger     arbor.ILogger
	schedule   string
	staleAfter time.Duration
	enabled    bool
}

// NewService creates a new scheduler service
func NewService(config *common.SchedulerConfig, courses interfaces.CourseStorage, courseSvc interfaces.CourseService, logger arbor.ILogger) (*Service, error) {
	staleAfter := 168 * time.Hour
	if config.StaleAfter != "" {
		parsed, err := time.ParseDuration(config.StaleAfter)
		if err != nil {
			return nil, fmt.Errorf("invalid stale_after %q: %w", config.StaleAfter, err)
		}
		staleAfter = parsed
	}

	schedule := config.Schedule
	if schedule == "" {
		schedule = "0 */6 * * *"
	}

	return &Service{
		cron:       cron.New(),
		courses:    courses,
		courseSvc:  courseSvc,
		logger:     logger,
		schedule:   schedule,
		staleAfter: staleAfter,
		enabled:    config.Enabled,
	}, nil
}

// Start registers the refresh job and starts the cron loop
func (s *Service) Start() error {
	if !s.enabled {
		s.logger.Info().Msg("Scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.tick); err != nil {
		return fmt.Errorf("failed to schedule course refresh: %w", err)
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", s.schedule).
		Dur("stale_after", s.staleAfter).
		Msg("Scheduler started")
	return nil
}

// Stop stops the cron loop and waits for a running tick to finish
func (s *Service) Stop() error {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// tick re-enriches every course whose record has gone stale
func (s *Service) tick() {
	defer common.RecoverWithCrashFile()

	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	defer cancel()

	now := time.Now().UTC()
	stale, err := s.courses.ListCoursesUpdatedBefore(ctx, now.Add(-s.staleAfter))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list stale courses")
		return
	}
	if len(stale) == 0 {
		s.logger.Debug().Msg("No stale courses")
		return
	}

	for _, course := range stale {
		result := common.CheckCourseStaleness(course.UpdatedAt, now, s.staleAfter)
		if !result.IsStale {
			continue
		}

		s.logger.Info().
			Str("course_id", course.ID).
			Str("title", course.Title).
			Str("reason", result.Reason).
			Msg("Refreshing stale course")

		if _, err := s.courseSvc.Enrich(ctx, course); err != nil {
			s.logger.Warn().Err(err).Str("course_id", course.ID).Msg("Stale course refresh failed")
		}
	}
}
