package jobs

import (
	"context"
	"fmt"

	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/models"
	"github.com/ternarybob/vendo/internal/services/crawler"
	"github.com/ternarybob/vendo/internal/services/publisher"
	"github.com/ternarybob/vendo/internal/services/scraper"
)

// NewExecutors maps job types onto the crawl, scrape and publish services
func NewExecutors(crawlService *crawler.Service, scrapeService *scraper.Service, publishService *publisher.Service) map[string]interfaces.JobExecutor {
	return map[string]interfaces.JobExecutor{
		models.JobTypeCrawlCategory:    crawlExecutor(crawlService),
		models.JobTypePublishCategory:  publishExecutor(publishService),
		models.JobTypeReparseResources: reparseExecutor(scrapeService),
	}
}

func crawlExecutor(service *crawler.Service) interfaces.JobExecutor {
	return func(ctx context.Context, job *models.Job) error {
		categoryID, ok := job.Payload["category_id"]
		if !ok || categoryID == "" {
			return fmt.Errorf("crawl job %s has no category_id", job.ID)
		}

		summary, err := service.CrawlCategory(ctx, categoryID)
		if err != nil {
			return err
		}

		job.Counts.Succeeded = summary.Created + summary.Updated
		job.Message = summary.Message
		return nil
	}
}

func reparseExecutor(service *scraper.Service) interfaces.JobExecutor {
	return func(ctx context.Context, job *models.Job) error {
		summary, err := service.ReparseResources(ctx)
		if err != nil {
			return err
		}

		job.Counts.Succeeded = summary.Succeeded
		job.Counts.Failed = summary.Failed
		job.Message = summary.Message
		return nil
	}
}

func publishExecutor(service *publisher.Service) interfaces.JobExecutor {
	return func(ctx context.Context, job *models.Job) error {
		categoryID, ok := job.Payload["category_id"]
		if !ok || categoryID == "" {
			return fmt.Errorf("publish job %s has no category_id", job.ID)
		}

		summary, err := service.PublishCategory(ctx, categoryID)
		if err != nil {
			return err
		}

		job.Counts.Succeeded = summary.Succeeded
		job.Counts.Skipped = summary.Skipped
		job.Counts.Failed = summary.Failed
		job.Message = summary.Message
		return nil
	}
}
