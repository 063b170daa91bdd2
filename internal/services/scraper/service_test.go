package scraper

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

const detailPage = `<html><head>
	<meta property="og:image" content="%s/cover.jpg">
</head><body>
<div class="entry-content">
	<ul>
		<li>课程时长: (2小时30分钟)</li>
		<li>视频大小: 2.1 GB</li>
		<li>视频语言: 英语</li>
	</ul>
	<div class="erphpdown-price"><ul><li>非会员: 30 金币</li></ul></div>
	<p>课程介绍</p>
</div>
<div class="tagcloud"><a href="/tag/udemy">Udemy</a><a href="/tag/go">go</a></div>
</body></html>`

func newScraperFixture(t *testing.T, handler http.HandlerFunc) (*Service, interfaces.StorageManager, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	manager, err := badger.NewManager(common.GetLogger(), &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	images, err := NewImageStorage(t.TempDir(), "test-agent", common.GetLogger())
	require.NoError(t, err)

	service := NewService(manager, images, common.CrawlerConfig{
		UserAgent:      "test-agent",
		RequestTimeout: "5s",
	}, common.GetLogger())

	return service, manager, server
}

func createResource(t *testing.T, manager interfaces.StorageManager, url string) *models.ExternalResource {
	t.Helper()
	resource := &models.ExternalResource{ExternalURL: url, ChineseTitle: "某课程"}
	require.NoError(t, manager.Resources().Create(resource))
	return resource
}

func TestScrapeResourceEnrichesRecord(t *testing.T) {
	var serverURL string
	service, manager, server := newScraperFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cover.jpg" {
			w.Write([]byte("jpegdata"))
			return
		}
		fmt.Fprintf(w, detailPage, serverURL)
	})
	serverURL = server.URL

	resource := createResource(t, manager, server.URL+"/courses/go")

	result, err := service.ScrapeResource(context.Background(), resource.ID)
	require.NoError(t, err)
	require.True(t, result.Success)

	stored := result.Resource
	assert.Equal(t, "(2小时30分钟)", stored.DurationText)
	assert.Equal(t, "2.1 GB", stored.FileSizeText)
	assert.Equal(t, "英语", stored.Language)
	assert.Equal(t, "30", stored.CoinPriceText)
	assert.Contains(t, stored.RawDetailHTML, "课程介绍")
	assert.Contains(t, stored.LocalImagePath, "cover_"+resource.ID)

	// Titles from the crawl survive enrichment.
	assert.Equal(t, "某课程", stored.ChineseTitle)

	require.Len(t, result.Tags, 2)
}

func TestScrapeResourceNeverNullsStoredFields(t *testing.T) {
	service, manager, server := newScraperFixture(t, func(w http.ResponseWriter, r *http.Request) {
		// A sparse page with no metadata at all.
		fmt.Fprint(w, `<html><body><article><p>正文</p></article></body></html>`)
	})

	resource := createResource(t, manager, server.URL+"/courses/go")
	_, err := manager.Resources().Patch(resource.ID, &models.ResourcePatch{
		DurationText:  "(2小时30分钟)",
		CoinPriceText: "30",
	})
	require.NoError(t, err)

	result, err := service.ScrapeResource(context.Background(), resource.ID)
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.Equal(t, "(2小时30分钟)", result.Resource.DurationText)
	assert.Equal(t, "30", result.Resource.CoinPriceText)
}

func TestScrapeResourceTagMergeIsCaseInsensitive(t *testing.T) {
	service, manager, server := newScraperFixture(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><article></article>
			<div class="tagcloud"><a href="/t">udemy</a></div></body></html>`)
	})

	resource := createResource(t, manager, server.URL+"/courses/go")

	existing, err := manager.Tags().FindOrCreate("Udemy")
	require.NoError(t, err)
	require.NoError(t, manager.Tags().Link(resource.ID, existing.ID))

	result, err := service.ScrapeResource(context.Background(), resource.ID)
	require.NoError(t, err)

	require.Len(t, result.Tags, 1)
	assert.Equal(t, "Udemy", result.Tags[0].Name)
}

func TestScrapeResourceFetchFailureIsStructured(t *testing.T) {
	service, manager, server := newScraperFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	resource := createResource(t, manager, server.URL+"/courses/go")

	result, err := service.ScrapeResource(context.Background(), resource.ID)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.Nil(t, result.Resource)
}

func TestScrapeResourceCoverFailureIsIgnored(t *testing.T) {
	var serverURL string
	service, manager, server := newScraperFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cover.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, detailPage, serverURL)
	})
	serverURL = server.URL

	resource := createResource(t, manager, server.URL+"/courses/go")

	result, err := service.ScrapeResource(context.Background(), resource.ID)
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.Empty(t, result.Resource.LocalImagePath)
	assert.NotEmpty(t, result.Resource.CoverImageURL)
}

func TestScrapeResourceEmptyURLIsValidationError(t *testing.T) {
	service, manager, _ := newScraperFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	resource := &models.ExternalResource{ChineseTitle: "无链接"}
	require.NoError(t, manager.Resources().Create(resource))

	_, err := service.ScrapeResource(context.Background(), resource.ID)
	require.Error(t, err)
	assert.True(t, common.IsValidation(err))
}
