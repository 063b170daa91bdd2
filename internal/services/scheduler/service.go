// Package scheduler enqueues recurring crawl jobs on a cron schedule.
package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/models"
)

// Service runs scheduled re-crawls of every valid external category
type Service struct {
	storage interfaces.StorageManager
	jobs    interfaces.JobManager
	config  common.SchedulerConfig
	logger  arbor.ILogger
	cron    *cron.Cron
}

// NewService creates the crawl scheduler
func NewService(storage interfaces.StorageManager, jobs interfaces.JobManager, config common.SchedulerConfig, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		jobs:    jobs,
		config:  config,
		logger:  logger,
		cron:    cron.New(),
	}
}

// Start registers the cron entry and begins ticking. Disabled schedulers
// return immediately.
func (s *Service) Start() error {
	if !s.config.Enabled {
		s.logger.Info().Msg("Scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.config.Schedule, s.enqueueCrawls); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", s.config.Schedule).
		Msg("Scheduler started")
	return nil
}

// Stop halts the cron loop, waiting for a running tick to finish
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// enqueueCrawls queues one crawl job per valid category. The worker runs
// them sequentially, so a slow site never piles up concurrent crawls.
func (s *Service) enqueueCrawls() {
	categories, err := s.storage.Categories().ListValid()
	if err != nil {
		s.logger.Error().Err(err).Msg("Scheduled crawl could not list categories")
		return
	}

	for _, category := range categories {
		job, err := s.jobs.Enqueue(models.JobTypeCrawlCategory, map[string]string{
			"category_id": category.ID,
		})
		if err != nil {
			s.logger.Error().Err(err).
				Str("category_id", category.ID).
				Msg("Failed to enqueue scheduled crawl")
			continue
		}
		s.logger.Info().
			Str("job_id", job.ID).
			Str("category_id", category.ID).
			Msg("Scheduled crawl enqueued")
	}
}
