package badger

import (
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ResourceStorage implements the ResourceStorage interface for Badger
type ResourceStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewResourceStorage creates a new ResourceStorage instance
func NewResourceStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ResourceStorage {
	return &ResourceStorage{db: db, logger: logger}
}

func (s *ResourceStorage) Get(id string) (*models.ExternalResource, error) {
	var resource models.ExternalResource
	if err := s.db.Store().Get(id, &resource); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, common.NewNotFound("external resource", id)
		}
		return nil, &common.PersistenceError{Op: "get resource", Err: err}
	}
	return &resource, nil
}

// FindByURL looks up a resource by its exact external URL. Returns nil when
// absent; the URL is the idempotency key for crawling.
func (s *ResourceStorage) FindByURL(externalURL string) (*models.ExternalResource, error) {
	var resources []models.ExternalResource
	err := s.db.Store().Find(&resources, badgerhold.Where("ExternalURL").Eq(externalURL))
	if err != nil {
		return nil, &common.PersistenceError{Op: "find resource by url", Err: err}
	}
	if len(resources) == 0 {
		return nil, nil
	}
	return &resources[0], nil
}

func (s *ResourceStorage) Create(resource *models.ExternalResource) error {
	now := time.Now()
	if resource.ID == "" {
		resource.ID = common.NewResourceID()
	}
	resource.CreatedAt = now
	resource.UpdatedAt = now

	if err := s.db.Store().Insert(resource.ID, resource); err != nil {
		return &common.PersistenceError{Op: "create resource", Err: err}
	}
	return nil
}

func (s *ResourceStorage) Update(resource *models.ExternalResource) error {
	resource.UpdatedAt = time.Now()
	if err := s.db.Store().Upsert(resource.ID, resource); err != nil {
		return &common.PersistenceError{Op: "update resource", Err: err}
	}
	return nil
}

// Patch applies only the non-empty patch fields to the stored record. Fields
// the patch leaves empty keep their prior values.
func (s *ResourceStorage) Patch(id string, patch *models.ResourcePatch) (*models.ExternalResource, error) {
	resource, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if patch.Apply(resource) {
		if err := s.Update(resource); err != nil {
			return nil, err
		}
	}
	return resource, nil
}

func (s *ResourceStorage) ListByCategory(categoryID string, offset, limit int) ([]*models.ExternalResource, error) {
	query := badgerhold.Where("CategoryID").Eq(categoryID).SortBy("CreatedAt")
	if offset > 0 {
		query = query.Skip(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var resources []models.ExternalResource
	if err := s.db.Store().Find(&resources, query); err != nil {
		return nil, &common.PersistenceError{Op: "list resources by category", Err: err}
	}

	result := make([]*models.ExternalResource, len(resources))
	for i := range resources {
		result[i] = &resources[i]
	}
	return result, nil
}

func (s *ResourceStorage) CountByCategory(categoryID string) (int, error) {
	count, err := s.db.Store().Count(&models.ExternalResource{}, badgerhold.Where("CategoryID").Eq(categoryID))
	if err != nil {
		return 0, &common.PersistenceError{Op: "count resources by category", Err: err}
	}
	return int(count), nil
}
