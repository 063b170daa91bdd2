package publisher

import (
	"context"
	"fmt"
	"time"
)

// BatchSummary tallies one category-wide publish run
type BatchSummary struct {
	CategoryID string `json:"category_id"`
	Total      int    `json:"total"`
	Succeeded  int    `json:"succeeded"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
	Message    string `json:"message"`
}

// PublishCategory publishes every unlinked resource in a category, page by
// page. Already linked resources are skipped and per-item failures are
// counted without aborting the batch.
func (s *Service) PublishCategory(ctx context.Context, categoryID string) (*BatchSummary, error) {
	if _, err := s.storage.Categories().Get(categoryID); err != nil {
		return nil, err
	}

	total, err := s.storage.Resources().CountByCategory(categoryID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("category_id", categoryID).
		Int("total", total).
		Msg("Publishing category resources")

	summary := &BatchSummary{CategoryID: categoryID, Total: total}
	for offset := 0; offset < total; offset += s.defaults.BatchPageSize {
		resources, err := s.storage.Resources().ListByCategory(categoryID, offset, s.defaults.BatchPageSize)
		if err != nil {
			return nil, err
		}

		for _, resource := range resources {
			if resource.LinkedCatalogEntryID != "" {
				summary.Skipped++
				continue
			}

			if _, err := s.PublishResource(ctx, resource.ID); err != nil {
				summary.Failed++
				s.logger.Warn().Err(err).
					Str("resource_id", resource.ID).
					Msg("Publish failed, continuing batch")
			} else {
				summary.Succeeded++
			}

			select {
			case <-ctx.Done():
				summary.Message = "batch cancelled"
				return summary, ctx.Err()
			case <-time.After(s.defaults.ItemDelay):
			}
		}
	}

	summary.Message = fmt.Sprintf("published %d, skipped %d, failed %d of %d",
		summary.Succeeded, summary.Skipped, summary.Failed, summary.Total)

	s.logger.Info().
		Str("category_id", categoryID).
		Int("succeeded", summary.Succeeded).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("Category publish finished")

	return summary, nil
}
