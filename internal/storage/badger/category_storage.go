package badger

import (
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// CategoryStorage implements the CategoryStorage interface for Badger
type CategoryStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCategoryStorage creates a new CategoryStorage instance
func NewCategoryStorage(db *BadgerDB, logger arbor.ILogger) interfaces.CategoryStorage {
	return &CategoryStorage{db: db, logger: logger}
}

func (s *CategoryStorage) Get(id string) (*models.ExternalCategory, error) {
	var category models.ExternalCategory
	if err := s.db.Store().Get(id, &category); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, common.NewNotFound("external category", id)
		}
		return nil, &common.PersistenceError{Op: "get category", Err: err}
	}
	return &category, nil
}

// FindByURL looks up a category by its source URL. Returns nil when absent.
func (s *CategoryStorage) FindByURL(sourceURL string) (*models.ExternalCategory, error) {
	var categories []models.ExternalCategory
	err := s.db.Store().Find(&categories, badgerhold.Where("SourceURL").Eq(sourceURL))
	if err != nil {
		return nil, &common.PersistenceError{Op: "find category by url", Err: err}
	}
	if len(categories) == 0 {
		return nil, nil
	}
	return &categories[0], nil
}

func (s *CategoryStorage) Upsert(category *models.ExternalCategory) error {
	now := time.Now()
	if category.ID == "" {
		category.ID = common.NewCategoryID()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	category.UpdatedAt = now

	if err := s.db.Store().Upsert(category.ID, category); err != nil {
		return &common.PersistenceError{Op: "upsert category", Err: err}
	}
	return nil
}

// ListValid returns non-invalid categories ordered by sort order
func (s *CategoryStorage) ListValid() ([]*models.ExternalCategory, error) {
	var categories []models.ExternalCategory
	err := s.db.Store().Find(&categories, badgerhold.Where("Invalid").Eq(false).SortBy("SortOrder"))
	if err != nil {
		return nil, &common.PersistenceError{Op: "list valid categories", Err: err}
	}

	result := make([]*models.ExternalCategory, len(categories))
	for i := range categories {
		result[i] = &categories[i]
	}
	return result, nil
}
