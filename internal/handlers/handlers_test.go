package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/jobs"
	"github.com/ternarybob/vendo/internal/models"
	"github.com/ternarybob/vendo/internal/services/kv"
	"github.com/ternarybob/vendo/internal/storage/badger"
)

func newStorage(t *testing.T) *badger.Manager {
	t.Helper()
	manager, err := badger.NewManager(common.GetLogger(), &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthHandler(t *testing.T) {
	handler := NewAPIHandler()

	w := httptest.NewRecorder()
	handler.HealthHandler(w, httptest.NewRequest("GET", "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestVersionHandlerRejectsPost(t *testing.T) {
	handler := NewAPIHandler()

	w := httptest.NewRecorder()
	handler.VersionHandler(w, httptest.NewRequest("POST", "/api/version", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCrawlAsyncEnqueuesJob(t *testing.T) {
	manager := newStorage(t)
	category := &models.ExternalCategory{Title: "设计", SourceURL: "https://example.com/category/design/"}
	require.NoError(t, manager.Categories().Upsert(category))

	jobManager := jobs.NewManager(manager.Jobs(), common.GetLogger())
	handler := NewCrawlerHandler(nil, jobManager, manager, common.GetLogger())

	w := httptest.NewRecorder()
	handler.CrawlRoutesHandler(w, httptest.NewRequest("POST", "/api/crawl/categories/"+category.ID+"/async", nil))

	require.Equal(t, http.StatusAccepted, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "queued", body["status"])

	job, err := jobManager.Get(body["job_id"].(string))
	require.NoError(t, err)
	assert.Equal(t, models.JobTypeCrawlCategory, job.Type)
	assert.Equal(t, category.ID, job.Payload["category_id"])
}

func TestCrawlAsyncUnknownCategoryIs404(t *testing.T) {
	manager := newStorage(t)
	jobManager := jobs.NewManager(manager.Jobs(), common.GetLogger())
	handler := NewCrawlerHandler(nil, jobManager, manager, common.GetLogger())

	w := httptest.NewRecorder()
	handler.CrawlRoutesHandler(w, httptest.NewRequest("POST", "/api/crawl/categories/cat_missing/async", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReparseResourcesEnqueuesJob(t *testing.T) {
	manager := newStorage(t)
	jobManager := jobs.NewManager(manager.Jobs(), common.GetLogger())
	handler := NewCrawlerHandler(nil, jobManager, manager, common.GetLogger())

	w := httptest.NewRecorder()
	handler.ReparseResourcesHandler(w, httptest.NewRequest("POST", "/api/crawl/resources", nil))

	require.Equal(t, http.StatusAccepted, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "queued", body["status"])

	job, err := jobManager.Get(body["job_id"].(string))
	require.NoError(t, err)
	assert.Equal(t, models.JobTypeReparseResources, job.Type)
}

func TestReparseResourcesRejectsGet(t *testing.T) {
	manager := newStorage(t)
	handler := NewCrawlerHandler(nil, jobs.NewManager(manager.Jobs(), common.GetLogger()), manager, common.GetLogger())

	w := httptest.NewRecorder()
	handler.ReparseResourcesHandler(w, httptest.NewRequest("GET", "/api/crawl/resources", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestPublishCategoryEnqueuesJob(t *testing.T) {
	manager := newStorage(t)
	category := &models.ExternalCategory{Title: "设计", SourceURL: "https://example.com/category/design/"}
	require.NoError(t, manager.Categories().Upsert(category))

	jobManager := jobs.NewManager(manager.Jobs(), common.GetLogger())
	handler := NewPublishHandler(jobManager, manager, common.GetLogger())

	w := httptest.NewRecorder()
	handler.PublishCategoryHandler(w, httptest.NewRequest("POST", "/api/publish/categories/"+category.ID, nil))

	require.Equal(t, http.StatusAccepted, w.Code)
	body := decodeBody(t, w)

	job, err := jobManager.Get(body["job_id"].(string))
	require.NoError(t, err)
	assert.Equal(t, models.JobTypePublishCategory, job.Type)
}

func TestGetResourceReturnsRecordWithTags(t *testing.T) {
	manager := newStorage(t)
	resource := &models.ExternalResource{ExternalURL: "https://example.com/courses/go", ChineseTitle: "课程"}
	require.NoError(t, manager.Resources().Create(resource))
	tag, err := manager.Tags().FindOrCreate("Udemy")
	require.NoError(t, err)
	require.NoError(t, manager.Tags().Link(resource.ID, tag.ID))

	handler := NewResourceHandler(manager, nil, nil, nil, common.GetLogger())

	w := httptest.NewRecorder()
	handler.ResourceRoutesHandler(w, httptest.NewRequest("GET", "/api/resources/"+resource.ID, nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "课程", body["resource"].(map[string]interface{})["chinese_title"])
	assert.Len(t, body["tags"].([]interface{}), 1)
}

func TestGetResourceMissingIs404(t *testing.T) {
	manager := newStorage(t)
	handler := NewResourceHandler(manager, nil, nil, nil, common.GetLogger())

	w := httptest.NewRecorder()
	handler.ResourceRoutesHandler(w, httptest.NewRequest("GET", "/api/resources/res_missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownResourceActionIs404(t *testing.T) {
	manager := newStorage(t)
	handler := NewResourceHandler(manager, nil, nil, nil, common.GetLogger())

	w := httptest.NewRecorder()
	handler.ResourceRoutesHandler(w, httptest.NewRequest("POST", "/api/resources/res_1/frobnicate", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParamRoundTripAndMasking(t *testing.T) {
	manager := newStorage(t)
	params := kv.NewService(manager.KeyValue(), common.GetLogger())
	handler := NewKVHandler(params, common.GetLogger())

	w := httptest.NewRecorder()
	handler.ParamRoutesHandler(w, httptest.NewRequest("PUT", "/api/params/ai_api_key",
		strings.NewReader(`{"value":"sk-abcdef123456","description":"claude key"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ParamRoutesHandler(w, httptest.NewRequest("GET", "/api/params/ai_api_key", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sk-abcdef123456", decodeBody(t, w)["value"])

	// List masks credential-like values.
	w = httptest.NewRecorder()
	handler.ListParamsHandler(w, httptest.NewRequest("GET", "/api/params", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var pairs []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pairs))
	require.Len(t, pairs, 1)
	assert.Equal(t, "sk-a"+strings.Repeat("*", 11), pairs[0]["value"])
}

func TestParamGetMissingIs404(t *testing.T) {
	manager := newStorage(t)
	params := kv.NewService(manager.KeyValue(), common.GetLogger())
	handler := NewKVHandler(params, common.GetLogger())

	w := httptest.NewRecorder()
	handler.ParamRoutesHandler(w, httptest.NewRequest("GET", "/api/params/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetJobStatus(t *testing.T) {
	manager := newStorage(t)
	jobManager := jobs.NewManager(manager.Jobs(), common.GetLogger())
	handler := NewJobHandler(jobManager, common.GetLogger())

	job, err := jobManager.Enqueue(models.JobTypeCrawlCategory, map[string]string{"category_id": "cat_1"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.GetJobHandler(w, httptest.NewRequest("GET", "/api/jobs/"+job.ID, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(models.JobStatusQueued), decodeBody(t, w)["status"])
}
