package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/vendo/internal/common"
)

const reparsePageSize = 50

// ReparseSummary tallies one bulk re-parse run
type ReparseSummary struct {
	CategoryID string `json:"category_id"`
	Total      int    `json:"total"`
	Succeeded  int    `json:"succeeded"`
	Failed     int    `json:"failed"`
	Message    string `json:"message"`
}

// ReparseResources re-scrapes every resource in the first valid category,
// page by page. Unlike the single-resource scrape this persists the fetched
// body to RawCourseHTML. Per-item failures are counted without aborting;
// pacing is a 1s pause every pauseEvery items.
func (s *Service) ReparseResources(ctx context.Context) (*ReparseSummary, error) {
	categories, err := s.storage.Categories().ListValid()
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, common.NewValidation("no valid categories to re-parse")
	}
	category := categories[0]

	total, err := s.storage.Resources().CountByCategory(category.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("category_id", category.ID).
		Str("title", category.Title).
		Int("total", total).
		Msg("Re-parsing category resources")

	summary := &ReparseSummary{CategoryID: category.ID, Total: total}
	processed := 0
	for offset := 0; offset < total; offset += reparsePageSize {
		resources, err := s.storage.Resources().ListByCategory(category.ID, offset, reparsePageSize)
		if err != nil {
			return nil, err
		}

		for _, resource := range resources {
			result, err := s.scrape(ctx, resource, true)
			if err != nil || !result.Success {
				summary.Failed++
				s.logger.Warn().Err(err).
					Str("resource_id", resource.ID).
					Msg("Re-parse failed, continuing sweep")
			} else {
				summary.Succeeded++
			}

			processed++
			if s.pauseEvery > 0 && processed%s.pauseEvery == 0 {
				select {
				case <-ctx.Done():
					summary.Message = "re-parse cancelled"
					return summary, ctx.Err()
				case <-time.After(time.Second):
				}
			}
		}
	}

	summary.Message = fmt.Sprintf("re-parsed %d, failed %d of %d",
		summary.Succeeded, summary.Failed, summary.Total)

	s.logger.Info().
		Str("category_id", category.ID).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("Category re-parse finished")

	return summary, nil
}
