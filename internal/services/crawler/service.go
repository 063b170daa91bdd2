package crawler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/models"
	"golang.org/x/time/rate"
)

// Service crawls category listing pages and upserts external resources
type Service struct {
	storage   interfaces.StorageManager
	client    *http.Client
	logger    arbor.ILogger
	userAgent string
	pageDelay time.Duration
	maxPages  int
}

// NewService creates a category crawler
func NewService(storage interfaces.StorageManager, config common.CrawlerConfig, logger arbor.ILogger) *Service {
	timeout, err := time.ParseDuration(config.RequestTimeout)
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}
	pageDelay, err := time.ParseDuration(config.PageDelay)
	if err != nil || pageDelay <= 0 {
		pageDelay = time.Second
	}

	return &Service{
		storage:   storage,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
		userAgent: config.UserAgent,
		pageDelay: pageDelay,
		maxPages:  config.MaxPages,
	}
}

// CrawlSummary reports the outcome of crawling one category
type CrawlSummary struct {
	CategoryID string                     `json:"category_id"`
	Pages      int                        `json:"pages"`
	Created    int                        `json:"created"`
	Updated    int                        `json:"updated"`
	StopReason string                     `json:"stop_reason"`
	Message    string                     `json:"message"`
	Resources  []*models.ExternalResource `json:"resources,omitempty"`
}

// CrawlCategory paginates one category listing and upserts a resource per
// stub. Network and HTML failures stop the loop without raising; only a
// missing category or a store failure is a hard error.
func (s *Service) CrawlCategory(ctx context.Context, categoryID string) (*CrawlSummary, error) {
	category, err := s.storage.Categories().Get(categoryID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("category_id", categoryID).
		Str("url", category.SourceURL).
		Msg("Crawling category")

	limiter := rate.NewLimiter(rate.Every(s.pageDelay), 1)
	pager := NewPager(category.SourceURL, s.fetchListing, ExtractStubs, limiter, s.maxPages)

	summary := &CrawlSummary{CategoryID: categoryID}
	for {
		page := pager.Next(ctx)
		if page == nil {
			break
		}

		switch page.State {
		case PageNotFound:
			summary.StopReason = page.State.String()
			s.logger.Debug().Int("page", page.Number).Msg("Listing page returned 404, stopping")
		case PageNetworkError:
			summary.StopReason = page.State.String()
			s.logger.Warn().Err(page.Err).Int("page", page.Number).Msg("Listing fetch failed, stopping crawl")
		case PageEmpty:
			summary.Pages++
			if page.Number > 1 {
				summary.StopReason = page.State.String()
			}
		case PageNonEmpty:
			summary.Pages++
			for _, stub := range page.Stubs {
				resource, created, err := s.upsertStub(category, stub)
				if err != nil {
					return nil, err
				}
				if created {
					summary.Created++
				} else {
					summary.Updated++
				}
				summary.Resources = append(summary.Resources, resource)
			}
		}
	}

	summary.Message = fmt.Sprintf("crawled %d pages, created %d resources, updated %d",
		summary.Pages, summary.Created, summary.Updated)

	s.logger.Info().
		Str("category_id", categoryID).
		Int("pages", summary.Pages).
		Int("created", summary.Created).
		Int("updated", summary.Updated).
		Str("stop_reason", summary.StopReason).
		Msg("Category crawl finished")

	return summary, nil
}

// upsertStub creates or patches the resource matching the stub URL and merges
// its tags. Existing resources keep everything but their titles; tags are
// merged, never overwritten.
func (s *Service) upsertStub(category *models.ExternalCategory, stub Stub) (*models.ExternalResource, bool, error) {
	existing, err := s.storage.Resources().FindByURL(stub.URL)
	if err != nil {
		return nil, false, err
	}

	var resource *models.ExternalResource
	created := false
	if existing == nil {
		resource = &models.ExternalResource{
			ExternalURL:  stub.URL,
			ChineseTitle: stub.ChineseTitle,
			EnglishTitle: stub.EnglishTitle,
			CategoryID:   category.ID,
		}
		if err := s.storage.Resources().Create(resource); err != nil {
			return nil, false, err
		}
		created = true
	} else {
		resource, err = s.storage.Resources().Patch(existing.ID, &models.ResourcePatch{
			ChineseTitle: stub.ChineseTitle,
			EnglishTitle: stub.EnglishTitle,
		})
		if err != nil {
			return nil, false, err
		}
	}

	for _, tagName := range stub.Tags {
		tag, err := s.storage.Tags().FindOrCreate(tagName)
		if err != nil {
			return nil, false, err
		}
		if err := s.storage.Tags().Link(resource.ID, tag.ID); err != nil {
			return nil, false, err
		}
	}

	return resource, created, nil
}

// fetchListing fetches one listing page. A 404 is reported via the status
// code so the pager can end the sequence cleanly.
func (s *Service) fetchListing(ctx context.Context, pageURL string) (*goquery.Document, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, 0, &common.UpstreamFetchError{URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, &common.UpstreamFetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, http.StatusNotFound, nil
	}
	if resp.StatusCode >= 400 {
		return nil, resp.StatusCode, &common.UpstreamFetchError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &common.UpstreamFetchError{URL: pageURL, Err: err}
	}
	return doc, resp.StatusCode, nil
}
