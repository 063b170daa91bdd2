package publisher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/models"
	"github.com/ternarybob/vendo/internal/services/normalizer"
	"github.com/ternarybob/vendo/internal/storage/badger"
)

type fakeCompletion struct {
	response string
}

func (c *fakeCompletion) Complete(_ context.Context, _ *interfaces.CompletionRequest) (string, error) {
	return c.response, nil
}

func (c *fakeCompletion) Close() error { return nil }

type fakeResolver struct {
	completion interfaces.CompletionService
}

func (r *fakeResolver) Resolve(_ context.Context) (interfaces.CompletionService, error) {
	return r.completion, nil
}

func newPublisherFixture(t *testing.T, aiResponse string) (*Service, interfaces.StorageManager) {
	t.Helper()

	manager, err := badger.NewManager(common.GetLogger(), &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	norm := normalizer.NewService(manager, &fakeResolver{completion: &fakeCompletion{response: aiResponse}},
		&common.AIConfig{}, common.GetLogger())

	defaults := DefaultsFromConfig(common.PublisherConfig{
		SourceType:       "coursesite",
		DefaultAuthorID:  "author_default",
		CategoryKeywords: []string{"设计", "创意"},
		ItemDelay:        "1ms",
		BatchPageSize:    2,
	})

	require.NoError(t, manager.Taxonomy().PutCategory(&models.Category{ID: "cat_design", Name: "设计", SortOrder: 1}))
	require.NoError(t, manager.Taxonomy().PutCategory(&models.Category{ID: "cat_biz", Name: "商业", SortOrder: 2}))

	return NewService(manager, norm, defaults, common.GetLogger()), manager
}

func seedResource(t *testing.T, manager interfaces.StorageManager, r *models.ExternalResource) *models.ExternalResource {
	t.Helper()
	require.NoError(t, manager.Resources().Create(r))
	return r
}

func seedCategory(t *testing.T, manager interfaces.StorageManager, title string) *models.ExternalCategory {
	t.Helper()
	category := &models.ExternalCategory{Title: title, SourceURL: "https://example.com/category/" + title + "/"}
	require.NoError(t, manager.Categories().Upsert(category))
	return category
}

func TestPublishResourceCreatesEntry(t *testing.T) {
	service, manager := newPublisherFixture(t, "converted prose")
	category := seedCategory(t, manager, "设计-平面设计与插画")

	resource := seedResource(t, manager, &models.ExternalResource{
		ExternalURL:   "https://example.com/courses/design",
		ChineseTitle:  "平面设计大师课",
		EnglishTitle:  "Graphic Design Masterclass",
		CategoryID:    category.ID,
		RawDetailHTML: "<p>课程介绍</p>",
		DurationText:  "(3小时45分钟)",
		FileSizeText:  "1.5 GB",
		CoinPriceText: "25",
		Language:      "英语",
		AccessLink:    "https://pan.example.com/s/abc",
		AccessCode:    "x9y8",
	})

	result, err := service.PublishResource(context.Background(), resource.ID)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "published", result.Message)

	entry := result.Entry
	assert.Equal(t, "平面设计大师课", entry.Title)
	assert.Equal(t, "Graphic Design Masterclass", entry.Subtitle)
	assert.Equal(t, "cat_design", entry.CategoryID)
	assert.Equal(t, "author_default", entry.AuthorID)
	assert.Equal(t, "converted prose", entry.Description)
	assert.Equal(t, 25, entry.Price)
	assert.Equal(t, 225, entry.DurationMinutes)
	assert.InDelta(t, 1.5, entry.SizeGB, 0.001)
	assert.Equal(t, "https://pan.example.com/s/abc", entry.AccessLink)
	assert.Equal(t, "x9y8", entry.AccessCode)
	assert.Equal(t, models.EntryStatusUnpublished, entry.Status)
	assert.False(t, entry.IsFree)

	stored, err := manager.Resources().Get(resource.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, stored.LinkedCatalogEntryID)
}

func TestPublishResourceIsIdempotent(t *testing.T) {
	service, manager := newPublisherFixture(t, "prose")
	category := seedCategory(t, manager, "设计")

	resource := seedResource(t, manager, &models.ExternalResource{
		ExternalURL:  "https://example.com/courses/design",
		ChineseTitle: "课程",
		CategoryID:   category.ID,
	})

	ctx := context.Background()
	first, err := service.PublishResource(ctx, resource.ID)
	require.NoError(t, err)

	second, err := service.PublishResource(ctx, resource.ID)
	require.NoError(t, err)
	assert.Equal(t, "already published", second.Message)
	assert.Equal(t, first.Entry.ID, second.Entry.ID)
}

func TestPublishResourceMergesOnlyEmptyFields(t *testing.T) {
	service, manager := newPublisherFixture(t, "prose")
	category := seedCategory(t, manager, "设计")

	resource := seedResource(t, manager, &models.ExternalResource{
		ExternalURL:  "https://example.com/courses/design",
		ChineseTitle: "课程",
		CategoryID:   category.ID,
	})

	ctx := context.Background()
	first, err := service.PublishResource(ctx, resource.ID)
	require.NoError(t, err)
	assert.Empty(t, first.Entry.AccessLink)

	// The scraper later fills in the access link; re-publish merges it onto
	// the linked entry without touching populated fields.
	_, err = manager.Resources().Patch(resource.ID, &models.ResourcePatch{
		AccessLink: "https://pan.example.com/s/new",
	})
	require.NoError(t, err)

	second, err := service.PublishResource(ctx, resource.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", second.Message)
	assert.Equal(t, "https://pan.example.com/s/new", second.Entry.AccessLink)
	assert.Equal(t, first.Entry.ID, second.Entry.ID)
}

func TestPublishResourceReconcilesLegacyEntry(t *testing.T) {
	service, manager := newPublisherFixture(t, "prose")
	category := seedCategory(t, manager, "设计")

	legacy := &models.CatalogEntry{
		Title:      "旧标题",
		SourceType: "coursesite",
		SourceURL:  "https://example.com/courses/design",
	}
	require.NoError(t, manager.Catalog().Upsert(legacy))

	resource := seedResource(t, manager, &models.ExternalResource{
		ExternalURL:  "https://example.com/courses/design",
		ChineseTitle: "新标题",
		CategoryID:   category.ID,
	})

	result, err := service.PublishResource(context.Background(), resource.ID)
	require.NoError(t, err)

	// The legacy entry was updated in place, not duplicated.
	assert.Equal(t, legacy.ID, result.Entry.ID)
	assert.Equal(t, "新标题", result.Entry.Title)
}

func TestPublishResourceFallsBackToRawDescription(t *testing.T) {
	// An empty AI response must never abort publishing.
	service, manager := newPublisherFixture(t, "")
	category := seedCategory(t, manager, "设计")

	resource := seedResource(t, manager, &models.ExternalResource{
		ExternalURL:   "https://example.com/courses/design",
		ChineseTitle:  "课程",
		CategoryID:    category.ID,
		RawDetailHTML: "<p>课程介绍正文</p>",
	})

	result, err := service.PublishResource(context.Background(), resource.ID)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Contains(t, result.Entry.Description, "课程介绍正文")
}

func TestPublishResourcePrefersFirstAuthor(t *testing.T) {
	service, manager := newPublisherFixture(t, "prose")
	category := seedCategory(t, manager, "设计")

	require.NoError(t, manager.Taxonomy().PutAuthor(&models.Author{ID: "author_1", Name: "一号", SortOrder: 1}))
	require.NoError(t, manager.Taxonomy().PutAuthor(&models.Author{ID: "author_2", Name: "二号", SortOrder: 2}))

	resource := seedResource(t, manager, &models.ExternalResource{
		ExternalURL:  "https://example.com/courses/design",
		ChineseTitle: "课程",
		CategoryID:   category.ID,
	})

	result, err := service.PublishResource(context.Background(), resource.ID)
	require.NoError(t, err)
	assert.Equal(t, "author_1", result.Entry.AuthorID)
}

func TestPublishResourceMissingResource(t *testing.T) {
	service, _ := newPublisherFixture(t, "prose")

	_, err := service.PublishResource(context.Background(), "res_missing")
	require.Error(t, err)
	assert.True(t, common.IsNotFound(err))
}

func TestPublishCategoryBatch(t *testing.T) {
	service, manager := newPublisherFixture(t, "prose")
	category := seedCategory(t, manager, "设计")

	for i := 0; i < 3; i++ {
		seedResource(t, manager, &models.ExternalResource{
			ExternalURL:  "https://example.com/courses/a" + string(rune('1'+i)),
			ChineseTitle: "课程",
			CategoryID:   category.ID,
		})
	}
	linked := seedResource(t, manager, &models.ExternalResource{
		ExternalURL:          "https://example.com/courses/linked",
		ChineseTitle:         "已发布",
		CategoryID:           category.ID,
		LinkedCatalogEntryID: "ent_existing",
	})

	summary, err := service.PublishCategory(context.Background(), category.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)

	stored, err := manager.Resources().Get(linked.ID)
	require.NoError(t, err)
	assert.Equal(t, "ent_existing", stored.LinkedCatalogEntryID)
}
