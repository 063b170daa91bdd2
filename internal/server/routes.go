package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Health and version
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)

	// Crawling
	mux.HandleFunc("/api/categories", s.app.CrawlerHandler.ListCategoriesHandler) // GET - valid external categories
	mux.HandleFunc("/api/crawl/categories/", s.app.CrawlerHandler.CrawlRoutesHandler)
	mux.HandleFunc("/api/crawl/resources", s.app.CrawlerHandler.ReparseResourcesHandler) // POST - bulk re-parse, first valid category

	// Resources: GET /{id}, POST /{id}/{scrape|outline|normalize|publish}
	mux.HandleFunc("/api/resources/", s.app.ResourceHandler.ResourceRoutesHandler)

	// Batch publishing
	mux.HandleFunc("/api/publish/categories/", s.app.PublishHandler.PublishCategoryHandler)

	// Background jobs
	mux.HandleFunc("/api/jobs", s.app.JobHandler.ListJobsHandler)
	mux.HandleFunc("/api/jobs/", s.app.JobHandler.GetJobHandler)

	// Runtime parameters
	mux.HandleFunc("/api/params", s.app.KVHandler.ListParamsHandler)
	mux.HandleFunc("/api/params/", s.app.KVHandler.ParamRoutesHandler)

	// Downloaded cover images
	if dir := s.app.Config.Storage.Filesystem.Images; dir != "" {
		mux.Handle("/images/", http.StripPrefix("/images/", http.FileServer(http.Dir(dir))))
	}

	// JSON 404 for unmatched API paths
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/" {
			s.app.APIHandler.NotFoundHandler(w, r)
			return
		}
		http.NotFound(w, r)
	})

	return mux
}
