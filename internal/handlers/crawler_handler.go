package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/models"
	"github.com/ternarybob/vendo/internal/services/crawler"
)

// CrawlerHandler handles category crawl HTTP requests
type CrawlerHandler struct {
	crawler *crawler.Service
	jobs    interfaces.JobManager
	storage interfaces.StorageManager
	logger  arbor.ILogger
}

// NewCrawlerHandler creates a new crawler handler
func NewCrawlerHandler(crawlService *crawler.Service, jobs interfaces.JobManager, storage interfaces.StorageManager, logger arbor.ILogger) *CrawlerHandler {
	return &CrawlerHandler{
		crawler: crawlService,
		jobs:    jobs,
		storage: storage,
		logger:  logger,
	}
}

// ListCategoriesHandler handles GET /api/categories - lists valid external categories
func (h *CrawlerHandler) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	categories, err := h.storage.Categories().ListValid()
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, categories)
}

// CrawlRoutesHandler dispatches /api/crawl/categories/{id} and
// /api/crawl/categories/{id}/async
func (h *CrawlerHandler) CrawlRoutesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/crawl/categories/")
	categoryID := strings.Trim(rest, "/")

	if strings.HasSuffix(categoryID, "/async") {
		h.enqueueCrawl(w, strings.TrimSuffix(categoryID, "/async"))
		return
	}
	if categoryID == "" || strings.Contains(categoryID, "/") {
		WriteError(w, http.StatusBadRequest, "invalid category path")
		return
	}

	summary, err := h.crawler.CrawlCategory(r.Context(), categoryID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// ReparseResourcesHandler handles POST /api/crawl/resources - enqueues a bulk
// re-parse of every resource in the first valid category
func (h *CrawlerHandler) ReparseResourcesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	job, err := h.jobs.Enqueue(models.JobTypeReparseResources, nil)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusAccepted, map[string]string{
		"status": "queued",
		"job_id": job.ID,
	})
}

// enqueueCrawl queues a background crawl and returns the job id immediately
func (h *CrawlerHandler) enqueueCrawl(w http.ResponseWriter, categoryID string) {
	if categoryID == "" {
		WriteError(w, http.StatusBadRequest, "category id is required")
		return
	}
	if _, err := h.storage.Categories().Get(categoryID); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	job, err := h.jobs.Enqueue(models.JobTypeCrawlCategory, map[string]string{
		"category_id": categoryID,
	})
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusAccepted, map[string]string{
		"status": "queued",
		"job_id": job.ID,
	})
}
