package badger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	manager, err := NewManager(common.GetLogger(), &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func TestResourcePatchLeavesPriorValues(t *testing.T) {
	m := newTestManager(t)

	resource := &models.ExternalResource{
		ExternalURL:  "https://example.com/courses/golang",
		ChineseTitle: "Go 实战",
		DurationText: "3小时45分钟",
		Language:     "英语",
	}
	require.NoError(t, m.Resources().Create(resource))

	// A later scrape that fails to extract duration/language must not null
	// the stored values.
	updated, err := m.Resources().Patch(resource.ID, &models.ResourcePatch{
		FileSizeText: "1.5GB",
	})
	require.NoError(t, err)

	assert.Equal(t, "3小时45分钟", updated.DurationText)
	assert.Equal(t, "英语", updated.Language)
	assert.Equal(t, "1.5GB", updated.FileSizeText)

	stored, err := m.Resources().Get(resource.ID)
	require.NoError(t, err)
	assert.Equal(t, "3小时45分钟", stored.DurationText)
	assert.Equal(t, "1.5GB", stored.FileSizeText)
}

func TestFindResourceByURL(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.Resources().Create(&models.ExternalResource{
		ExternalURL: "https://example.com/courses/one",
	}))

	found, err := m.Resources().FindByURL("https://example.com/courses/one")
	require.NoError(t, err)
	require.NotNil(t, found)

	missing, err := m.Resources().FindByURL("https://example.com/courses/other")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTagFindOrCreateCaseInsensitive(t *testing.T) {
	m := newTestManager(t)

	first, err := m.Tags().FindOrCreate("Udemy")
	require.NoError(t, err)

	second, err := m.Tags().FindOrCreate("udemy")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Udemy", second.Name, "first-seen casing is preserved")
}

func TestTagLinkDeduplication(t *testing.T) {
	m := newTestManager(t)

	resource := &models.ExternalResource{ExternalURL: "https://example.com/courses/two"}
	require.NoError(t, m.Resources().Create(resource))

	tag, err := m.Tags().FindOrCreate("Udemy")
	require.NoError(t, err)

	require.NoError(t, m.Tags().Link(resource.ID, tag.ID))
	require.NoError(t, m.Tags().Link(resource.ID, tag.ID))

	tags, err := m.Tags().TagsForResource(resource.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestCatalogFindBySource(t *testing.T) {
	m := newTestManager(t)

	entry := &models.CatalogEntry{
		Title:      "Go 实战",
		SourceType: "coursesite",
		SourceURL:  "https://example.com/courses/golang",
		Status:     models.EntryStatusUnpublished,
	}
	require.NoError(t, m.Catalog().Upsert(entry))

	found, err := m.Catalog().FindBySource("coursesite", "https://example.com/courses/golang")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entry.ID, found.ID)

	missing, err := m.Catalog().FindBySource("othersite", "https://example.com/courses/golang")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestJobQueueOrdering(t *testing.T) {
	m := newTestManager(t)

	first := models.NewJob(models.JobTypeCrawlCategory, map[string]string{"category_id": "a"})
	second := models.NewJob(models.JobTypeCrawlCategory, map[string]string{"category_id": "b"})
	require.NoError(t, m.Jobs().Save(first))
	require.NoError(t, m.Jobs().Save(second))

	next, err := m.Jobs().NextQueued()
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, first.ID, next.ID)

	next.Status = models.JobStatusCompleted
	require.NoError(t, m.Jobs().Save(next))

	next, err = m.Jobs().NextQueued()
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, second.ID, next.ID)
}
