// Package app wires configuration, storage, services and handlers together.
package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/handlers"
	"github.com/ternarybob/vendo/internal/jobs"
	"github.com/ternarybob/vendo/internal/services/crawler"
	"github.com/ternarybob/vendo/internal/services/kv"
	"github.com/ternarybob/vendo/internal/services/llm"
	"github.com/ternarybob/vendo/internal/services/normalizer"
	"github.com/ternarybob/vendo/internal/services/publisher"
	"github.com/ternarybob/vendo/internal/services/scheduler"
	"github.com/ternarybob/vendo/internal/services/scraper"
	"github.com/ternarybob/vendo/internal/storage/badger"
)

// App holds all initialized components
type App struct {
	Config  *common.Config
	Logger  arbor.ILogger
	Storage *badger.Manager

	KVService  *kv.Service
	Crawler    *crawler.Service
	Scraper    *scraper.Service
	Normalizer *normalizer.Service
	Publisher  *publisher.Service

	JobManager *jobs.Manager
	JobWorker  *jobs.Worker
	Scheduler  *scheduler.Service

	APIHandler      *handlers.APIHandler
	CrawlerHandler  *handlers.CrawlerHandler
	ResourceHandler *handlers.ResourceHandler
	PublishHandler  *handlers.PublishHandler
	JobHandler      *handlers.JobHandler
	KVHandler       *handlers.KVHandler
}

// New initializes storage, loads seed data and wires every service
func New(ctx context.Context, config *common.Config, logger arbor.ILogger) (*App, error) {
	storage, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if config.Seeds.Dir != "" {
		if err := storage.LoadSeedsFromDir(ctx, config.Seeds.Dir); err != nil {
			storage.Close()
			return nil, fmt.Errorf("failed to load seed data: %w", err)
		}
	}

	kvService := kv.NewService(storage.KeyValue(), logger)
	llmFactory := llm.NewFactory(&config.AI, kvService, logger)

	images, err := scraper.NewImageStorage(config.Storage.Filesystem.Images, config.Crawler.UserAgent, logger)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("failed to init image storage: %w", err)
	}

	crawlService := crawler.NewService(storage, config.Crawler, logger)
	scrapeService := scraper.NewService(storage, images, config.Crawler, logger)
	normalizeService := normalizer.NewService(storage, llmFactory, &config.AI, logger)
	publishService := publisher.NewService(storage, normalizeService,
		publisher.DefaultsFromConfig(config.Publisher), logger)

	jobManager := jobs.NewManager(storage.Jobs(), logger)
	jobWorker := jobs.NewWorker(storage.Jobs(), jobs.NewExecutors(crawlService, scrapeService, publishService), logger)
	schedulerService := scheduler.NewService(storage, jobManager, config.Scheduler, logger)

	app := &App{
		Config:  config,
		Logger:  logger,
		Storage: storage,

		KVService:  kvService,
		Crawler:    crawlService,
		Scraper:    scrapeService,
		Normalizer: normalizeService,
		Publisher:  publishService,

		JobManager: jobManager,
		JobWorker:  jobWorker,
		Scheduler:  schedulerService,

		APIHandler:      handlers.NewAPIHandler(),
		CrawlerHandler:  handlers.NewCrawlerHandler(crawlService, jobManager, storage, logger),
		ResourceHandler: handlers.NewResourceHandler(storage, scrapeService, normalizeService, publishService, logger),
		PublishHandler:  handlers.NewPublishHandler(jobManager, storage, logger),
		JobHandler:      handlers.NewJobHandler(jobManager, logger),
		KVHandler:       handlers.NewKVHandler(kvService, logger),
	}

	logger.Info().Msg("Application initialized")
	return app, nil
}

// Start begins background processing
func (a *App) Start() error {
	a.JobWorker.Start()
	return a.Scheduler.Start()
}

// Close stops background work and releases storage
func (a *App) Close() error {
	a.Scheduler.Stop()
	a.JobWorker.Stop()
	if err := a.Storage.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	a.Logger.Info().Msg("Application shut down")
	return nil
}
