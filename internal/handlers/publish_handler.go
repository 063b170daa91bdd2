package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/models"
)

// PublishHandler handles batch publish HTTP requests
type PublishHandler struct {
	jobs    interfaces.JobManager
	storage interfaces.StorageManager
	logger  arbor.ILogger
}

// NewPublishHandler creates a new publish handler
func NewPublishHandler(jobs interfaces.JobManager, storage interfaces.StorageManager, logger arbor.ILogger) *PublishHandler {
	return &PublishHandler{
		jobs:    jobs,
		storage: storage,
		logger:  logger,
	}
}

// PublishCategoryHandler handles POST /api/publish/categories/{id} -
// enqueues a batch publish job and returns its id immediately
func (h *PublishHandler) PublishCategoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	categoryID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/publish/categories/"), "/")
	if categoryID == "" || strings.Contains(categoryID, "/") {
		WriteError(w, http.StatusBadRequest, "invalid category path")
		return
	}
	if _, err := h.storage.Categories().Get(categoryID); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	job, err := h.jobs.Enqueue(models.JobTypePublishCategory, map[string]string{
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
