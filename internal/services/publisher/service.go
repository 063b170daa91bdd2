package publisher

import (
	"context"
	"strconv"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/models"
	"github.com/ternarybob/vendo/internal/services/matcher"
	"github.com/ternarybob/vendo/internal/services/normalizer"
)

// Defaults carries the explicit publish defaults from configuration.
type Defaults struct {
	SourceType       string
	AuthorID         string
	CategoryKeywords []string
	ItemDelay        time.Duration
	BatchPageSize    int
}

// DefaultsFromConfig builds publish defaults from the publisher config
// section.
func DefaultsFromConfig(config common.PublisherConfig) Defaults {
	itemDelay, err := time.ParseDuration(config.ItemDelay)
	if err != nil || itemDelay < 0 {
		itemDelay = 3 * time.Second
	}
	pageSize := config.BatchPageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	return Defaults{
		SourceType:       config.SourceType,
		AuthorID:         config.DefaultAuthorID,
		CategoryKeywords: config.CategoryKeywords,
		ItemDelay:        itemDelay,
		BatchPageSize:    pageSize,
	}
}

// Service promotes external resources into catalog entries
type Service struct {
	storage    interfaces.StorageManager
	normalizer *normalizer.Service
	defaults   Defaults
	converter  *md.Converter
	logger     arbor.ILogger
}

// NewService creates a catalog publisher
func NewService(storage interfaces.StorageManager, norm *normalizer.Service, defaults Defaults, logger arbor.ILogger) *Service {
	return &Service{
		storage:    storage,
		normalizer: norm,
		defaults:   defaults,
		converter:  md.NewConverter("", true, nil),
		logger:     logger,
	}
}

// PublishResult reports the outcome of publishing one resource
type PublishResult struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Entry   *models.CatalogEntry `json:"entry,omitempty"`
}

// PublishResource promotes one external resource into a catalog entry. At
// most one entry ever exists per (source type, source URL): an already
// linked resource only gets empty entry fields filled in, and unlinked
// resources are reconciled against legacy entries before a new insert.
func (s *Service) PublishResource(ctx context.Context, resourceID string) (*PublishResult, error) {
	resource, err := s.storage.Resources().Get(resourceID)
	if err != nil {
		return nil, err
	}

	if resource.LinkedCatalogEntryID != "" {
		return s.mergeLinkedEntry(resource)
	}

	// Reconcile against a legacy entry with the same source identity.
	entry, err := s.storage.Catalog().FindBySource(s.defaults.SourceType, resource.ExternalURL)
	if err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(resource)
	if err != nil {
		return nil, err
	}
	authorID, err := s.resolveAuthor()
	if err != nil {
		return nil, err
	}
	description := s.resolveDescription(ctx, resource)

	if entry == nil {
		entry = &models.CatalogEntry{
			SourceType: s.defaults.SourceType,
			SourceURL:  resource.ExternalURL,
		}
	}

	entry.Title = resource.ChineseTitle
	entry.Subtitle = resource.EnglishTitle
	if category != nil {
		entry.CategoryID = category.ID
	}
	entry.AuthorID = authorID
	entry.Description = description
	entry.Price = parseCoinPrice(resource.CoinPriceText)
	entry.IsFree = false
	entry.DurationMinutes = common.ParseDurationMinutes(resource.DurationText)
	entry.SizeGB = common.ParseSizeGB(resource.FileSizeText)
	entry.Language = resource.Language
	entry.AccessLink = resource.AccessLink
	entry.AccessCode = resource.AccessCode
	entry.LocalImagePath = resource.LocalImagePath
	entry.Status = models.EntryStatusUnpublished

	if err := s.storage.Catalog().Upsert(entry); err != nil {
		return nil, err
	}

	resource.LinkedCatalogEntryID = entry.ID
	if err := s.storage.Resources().Update(resource); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("resource_id", resourceID).
		Str("entry_id", entry.ID).
		Msg("Resource published to catalog")

	return &PublishResult{Success: true, Message: "published", Entry: entry}, nil
}

// mergeLinkedEntry fills in currently-empty fields on the already linked
// entry from the resource. It never creates a second entry.
func (s *Service) mergeLinkedEntry(resource *models.ExternalResource) (*PublishResult, error) {
	entry, err := s.storage.Catalog().Get(resource.LinkedCatalogEntryID)
	if err != nil {
		return nil, err
	}

	changed := false
	fill := func(dst *string, src string) {
		if *dst == "" && src != "" {
			*dst = src
			changed = true
		}
	}
	fill(&entry.AccessLink, resource.AccessLink)
	fill(&entry.AccessCode, resource.AccessCode)
	fill(&entry.LocalImagePath, resource.LocalImagePath)

	if !changed {
		return &PublishResult{Success: true, Message: "already published", Entry: entry}, nil
	}

	if err := s.storage.Catalog().Upsert(entry); err != nil {
		return nil, err
	}
	return &PublishResult{Success: true, Message: "updated", Entry: entry}, nil
}

func (s *Service) resolveCategory(resource *models.ExternalResource) (*models.Category, error) {
	categories, err := s.storage.Taxonomy().ListCategories()
	if err != nil {
		return nil, err
	}

	externalTitle := ""
	if resource.CategoryID != "" {
		external, err := s.storage.Categories().Get(resource.CategoryID)
		if err == nil {
			externalTitle = external.Title
		} else if !common.IsNotFound(err) {
			return nil, err
		}
	}

	return matcher.Match(externalTitle, categories, s.defaults.CategoryKeywords), nil
}

// resolveAuthor picks the first internal author, falling back to the
// configured default id.
func (s *Service) resolveAuthor() (string, error) {
	authors, err := s.storage.Taxonomy().ListAuthors()
	if err != nil {
		return "", err
	}
	if len(authors) > 0 {
		return authors[0].ID, nil
	}
	return s.defaults.AuthorID, nil
}

// resolveDescription prefers already normalized text, then a synchronous AI
// conversion, then a local markdown conversion, then the raw HTML. Publishing
// never aborts over a description.
func (s *Service) resolveDescription(ctx context.Context, resource *models.ExternalResource) string {
	if resource.NormalizedText != "" {
		return resource.NormalizedText
	}
	if resource.RawDetailHTML == "" {
		return ""
	}

	converted, err := s.normalizer.ConvertToText(ctx, resource.ID)
	if err == nil && converted.NormalizedText != "" {
		resource.NormalizedText = converted.NormalizedText
		return converted.NormalizedText
	}
	s.logger.Warn().Err(err).
		Str("resource_id", resource.ID).
		Msg("Text normalization failed, falling back to raw description")

	if markdown, mdErr := s.converter.ConvertString(resource.RawDetailHTML); mdErr == nil && markdown != "" {
		return markdown
	}
	return resource.RawDetailHTML
}

func parseCoinPrice(text string) int {
	price, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return price
}
