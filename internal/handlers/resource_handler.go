package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/services/normalizer"
	"github.com/ternarybob/vendo/internal/services/publisher"
	"github.com/ternarybob/vendo/internal/services/scraper"
)

// ResourceHandler handles per-resource HTTP requests: lookup, scrape,
// normalize and publish
type ResourceHandler struct {
	storage    interfaces.StorageManager
	scraper    *scraper.Service
	normalizer *normalizer.Service
	publisher  *publisher.Service
	logger     arbor.ILogger
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(storage interfaces.StorageManager, scrapeService *scraper.Service, normalizeService *normalizer.Service, publishService *publisher.Service, logger arbor.ILogger) *ResourceHandler {
	return &ResourceHandler{
		storage:    storage,
		scraper:    scrapeService,
		normalizer: normalizeService,
		publisher:  publishService,
		logger:     logger,
	}
}

// ResourceRoutesHandler dispatches /api/resources/{id} and
// /api/resources/{id}/{action} where action is scrape, outline, normalize
// or publish.
func (h *ResourceHandler) ResourceRoutesHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/resources/"), "/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		h.getResource(w, r, parts[0])
	case len(parts) == 2:
		h.runAction(w, r, parts[0], parts[1])
	default:
		WriteError(w, http.StatusBadRequest, "invalid resource path")
	}
}

func (h *ResourceHandler) getResource(w http.ResponseWriter, r *http.Request, resourceID string) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	resource, err := h.storage.Resources().Get(resourceID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	tags, err := h.storage.Tags().TagsForResource(resourceID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"resource": resource,
		"tags":     tags,
	})
}

func (h *ResourceHandler) runAction(w http.ResponseWriter, r *http.Request, resourceID, action string) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	switch action {
	case "scrape":
		result, err := h.scraper.ScrapeResource(r.Context(), resourceID)
		if err != nil {
			WriteServiceError(w, h.logger, err)
			return
		}
		WriteJSON(w, http.StatusOK, result)

	case "outline":
		resource, err := h.normalizer.ExtractOutline(r.Context(), resourceID)
		if err != nil {
			WriteServiceError(w, h.logger, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"message":  "outline extracted",
			"resource": resource,
		})

	case "normalize":
		resource, err := h.normalizer.ConvertToText(r.Context(), resourceID)
		if err != nil {
			WriteServiceError(w, h.logger, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"message":  "text normalized",
			"resource": resource,
		})

	case "publish":
		result, err := h.publisher.PublishResource(r.Context(), resourceID)
		if err != nil {
			WriteServiceError(w, h.logger, err)
			return
		}
		WriteJSON(w, http.StatusOK, result)

	default:
		WriteError(w, http.StatusNotFound, "unknown resource action: "+action)
	}
}
