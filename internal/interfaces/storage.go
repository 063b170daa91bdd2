package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/vendo/internal/models"
)

// ErrKeyNotFound is returned when a parameter key does not exist
var ErrKeyNotFound = errors.New("key not found")

// KeyValuePair is a stored runtime parameter
type KeyValuePair struct {
	Key         string    `json:"key" badgerhold:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryStorage persists external categories scraped from site navigation
type CategoryStorage interface {
	Get(id string) (*models.ExternalCategory, error)
	FindByURL(sourceURL string) (*models.ExternalCategory, error)
	Upsert(category *models.ExternalCategory) error
	ListValid() ([]*models.ExternalCategory, error)
}

// ResourceStorage persists external resources
type ResourceStorage interface {
	Get(id string) (*models.ExternalResource, error)
	FindByURL(externalURL string) (*models.ExternalResource, error)
	Create(resource *models.ExternalResource) error
	Update(resource *models.ExternalResource) error
	// Patch applies only the non-empty fields of the patch and returns the
	// resulting record.
	Patch(id string, patch *models.ResourcePatch) (*models.ExternalResource, error)
	ListByCategory(categoryID string, offset, limit int) ([]*models.ExternalResource, error)
	CountByCategory(categoryID string) (int, error)
}

// TagStorage persists tags and resource/tag links
type TagStorage interface {
	FindOrCreate(name string) (*models.Tag, error)
	LinkExists(resourceID, tagID string) (bool, error)
	Link(resourceID, tagID string) error
	TagsForResource(resourceID string) ([]*models.Tag, error)
}

// CatalogStorage persists internal catalog entries
type CatalogStorage interface {
	Get(id string) (*models.CatalogEntry, error)
	// FindBySource looks up an entry by its source identity. Returns nil when
	// no entry exists.
	FindBySource(sourceType, sourceURL string) (*models.CatalogEntry, error)
	Upsert(entry *models.CatalogEntry) error
}

// TaxonomyStorage persists internal categories and authors
type TaxonomyStorage interface {
	ListCategories() ([]*models.Category, error)
	PutCategory(category *models.Category) error
	ListAuthors() ([]*models.Author, error)
	PutAuthor(author *models.Author) error
}

// KeyValueStorage persists runtime parameters (case-insensitive keys)
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	GetPair(ctx context.Context, key string) (*KeyValuePair, error)
	Set(ctx context.Context, key, value, description string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]KeyValuePair, error)
}

// JobStorage persists background jobs
type JobStorage interface {
	Save(job *models.Job) error
	Get(id string) (*models.Job, error)
	// NextQueued returns the oldest queued job, or nil when none is pending.
	NextQueued() (*models.Job, error)
	ListRecent(limit int) ([]*models.Job, error)
}

// StorageManager aggregates all storage backends
type StorageManager interface {
	Categories() CategoryStorage
	Resources() ResourceStorage
	Tags() TagStorage
	Catalog() CatalogStorage
	Taxonomy() TaxonomyStorage
	KeyValue() KeyValueStorage
	Jobs() JobStorage
	Close() error
}
