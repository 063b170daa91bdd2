package scraper

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
)

// Service fetches one resource's detail page and enriches the stored record
type Service struct {
	storage    interfaces.StorageManager
	images     *ImageStorage
	client     *http.Client
	logger     arbor.ILogger
	userAgent  string
	pauseEvery int
}

// NewService creates a detail scraper
func NewService(storage interfaces.StorageManager, images *ImageStorage, config common.CrawlerConfig, logger arbor.ILogger) *Service {
	timeout, err := time.ParseDuration(config.RequestTimeout)
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Service{
		storage:    storage,
		images:     images,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
		userAgent:  config.UserAgent,
		pauseEvery: config.ReparsePauseEvery,
	}
}

// ScrapeResult is returned for both success and fetch failure. Fetch
// failures never surface as errors from ScrapeResource.
type ScrapeResult struct {
	Success  bool                     `json:"success"`
	Message  string                   `json:"message"`
	Error    string                   `json:"error,omitempty"`
	Resource *models.ExternalResource `json:"resource,omitempty"`
	Tags     []*models.Tag            `json:"tags,omitempty"`
}

// ScrapeResource fetches the resource's page, extracts metadata, tags and
// cover image, and partial-updates the record. Only non-empty extracted
// values are written; prior values are never nulled. The fetched body is
// used in memory only and not written back to RawCourseHTML.
func (s *Service) ScrapeResource(ctx context.Context, resourceID string) (*ScrapeResult, error) {
	resource, err := s.storage.Resources().Get(resourceID)
	if err != nil {
		return nil, err
	}
	return s.scrape(ctx, resource, false)
}

// scrape does the fetch/extract/patch cycle for one resource. keepCourseHTML
// additionally persists the page's body fragment to RawCourseHTML; the bulk
// re-parse sweep uses this to feed the outline extractor.
func (s *Service) scrape(ctx context.Context, resource *models.ExternalResource, keepCourseHTML bool) (*ScrapeResult, error) {
	if resource.ExternalURL == "" {
		return nil, common.NewValidation("resource has no external URL")
	}

	s.logger.Info().
		Str("resource_id", resource.ID).
		Str("url", resource.ExternalURL).
		Msg("Scraping resource detail page")

	doc, err := s.fetchDetail(ctx, resource.ExternalURL)
	if err != nil {
		s.logger.Warn().Err(err).Str("resource_id", resource.ID).Msg("Detail fetch failed")
		return &ScrapeResult{
			Success: false,
			Message: fmt.Sprintf("failed to fetch %s", resource.ExternalURL),
			Error:   err.Error(),
		}, nil
	}

	extraction := Extract(doc)
	patch := &models.ResourcePatch{
		RawDetailHTML:     extraction.Description,
		DurationText:      extraction.Duration,
		FileSizeText:      extraction.FileSize,
		Language:          extraction.Language,
		SubtitleLanguages: extraction.Subtitles,
		CoinPriceText:     extraction.CoinPrice,
		Popularity:        extraction.Popularity,
		PublishDateText:   extraction.PublishDate,
		LastUpdateText:    extraction.LastUpdate,
		ContentInfo:       extraction.ContentInfo,
		VideoDimensions:   extraction.VideoDimensions,
		PreviewURL:        extraction.PreviewURL,
		CoverImageURL:     extraction.CoverImageURL,
	}

	if keepCourseHTML {
		if body, err := doc.Find("body").Html(); err == nil {
			patch.RawCourseHTML = body
		}
	}

	if extraction.CoverImageURL != "" {
		localPath, err := s.images.Download(ctx, extraction.CoverImageURL, resource.ID)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("resource_id", resource.ID).
				Str("url", extraction.CoverImageURL).
				Msg("Cover image download failed")
		} else {
			patch.LocalImagePath = localPath
		}
	}

	resource, err = s.storage.Resources().Patch(resource.ID, patch)
	if err != nil {
		return nil, err
	}

	if err := s.mergeTags(resource.ID, extraction.Tags); err != nil {
		return nil, err
	}

	tags, err := s.storage.Tags().TagsForResource(resource.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("resource_id", resource.ID).
		Int("tags", len(tags)).
		Msg("Resource detail scraped")

	return &ScrapeResult{
		Success:  true,
		Message:  "resource scraped",
		Resource: resource,
		Tags:     tags,
	}, nil
}

// mergeTags links extracted tags, reusing existing tags case-insensitively
// and never duplicating links.
func (s *Service) mergeTags(resourceID string, names []string) error {
	for _, name := range names {
		tag, err := s.storage.Tags().FindOrCreate(name)
		if err != nil {
			return err
		}
		if err := s.storage.Tags().Link(resourceID, tag.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) fetchDetail(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &common.UpstreamFetchError{URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &common.UpstreamFetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &common.UpstreamFetchError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &common.UpstreamFetchError{URL: pageURL, Err: err}
	}
	return doc, nil
}
