package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/models"
	"github.com/ternarybob/vendo/internal/storage/badger"
)

func newCrawlerFixture(t *testing.T, pages map[string]string) (*Service, interfaces.StorageManager, *models.ExternalCategory) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)

	manager, err := badger.NewManager(common.GetLogger(), &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	category := &models.ExternalCategory{
		Title:     "开发-编程开发",
		SourceURL: server.URL + "/category/dev/",
	}
	require.NoError(t, manager.Categories().Upsert(category))

	service := NewService(manager, common.CrawlerConfig{
		UserAgent:      "test-agent",
		RequestTimeout: "5s",
		PageDelay:      "1ms",
	}, common.GetLogger())

	return service, manager, category
}

func TestCrawlCategoryCreatesResources(t *testing.T) {
	pages := map[string]string{
		"/category/dev/": `<div id="content">
			<article><h2 class="entry-title"><a href="/courses/go" title="[Udemy] Go实战 | Mastering Go">x</a></h2></article>
			<article><h2 class="entry-title"><a href="/courses/py" title="[udemy][python] Python 入门">x</a></h2></article>
		</div>`,
	}
	service, manager, category := newCrawlerFixture(t, pages)

	summary, err := service.CrawlCategory(context.Background(), category.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Pages)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, "not_found", summary.StopReason)

	resource, err := manager.Resources().FindByURL(summary.Resources[0].ExternalURL)
	require.NoError(t, err)
	require.NotNil(t, resource)
	assert.Equal(t, "Go实战", resource.ChineseTitle)
	assert.Equal(t, "Mastering Go", resource.EnglishTitle)
	assert.Equal(t, category.ID, resource.CategoryID)

	tags, err := manager.Tags().TagsForResource(resource.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "udemy", tags[0].Name)
}

func TestCrawlCategoryIsIdempotent(t *testing.T) {
	pages := map[string]string{
		"/category/dev/": `<div id="content">
			<article><h2 class="entry-title"><a href="/courses/go" title="[Udemy] Go实战">x</a></h2></article>
		</div>`,
	}
	service, manager, category := newCrawlerFixture(t, pages)
	ctx := context.Background()

	first, err := service.CrawlCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	// The second crawl sees the same URL and tag; nothing is duplicated.
	second, err := service.CrawlCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Updated)

	resource, err := manager.Resources().FindByURL(first.Resources[0].ExternalURL)
	require.NoError(t, err)
	tags, err := manager.Tags().TagsForResource(resource.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestCrawlCategoryPatchPreservesEnrichment(t *testing.T) {
	pages := map[string]string{
		"/category/dev/": `<div id="content">
			<article><h2 class="entry-title"><a href="/courses/go" title="Go实战">x</a></h2></article>
		</div>`,
	}
	service, manager, category := newCrawlerFixture(t, pages)
	ctx := context.Background()

	first, err := service.CrawlCategory(ctx, category.ID)
	require.NoError(t, err)
	resourceID := first.Resources[0].ID

	// Enrichment written by the detail scraper survives a re-crawl.
	_, err = manager.Resources().Patch(resourceID, &models.ResourcePatch{DurationText: "3小时45分钟"})
	require.NoError(t, err)

	_, err = service.CrawlCategory(ctx, category.ID)
	require.NoError(t, err)

	resource, err := manager.Resources().Get(resourceID)
	require.NoError(t, err)
	assert.Equal(t, "3小时45分钟", resource.DurationText)
}

func TestCrawlCategoryMissingCategoryIsNotFound(t *testing.T) {
	service, _, _ := newCrawlerFixture(t, nil)

	_, err := service.CrawlCategory(context.Background(), "cat_missing")
	require.Error(t, err)
	assert.True(t, common.IsNotFound(err))
}
