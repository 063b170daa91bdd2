package badger

import (
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// CatalogStorage implements the CatalogStorage interface for Badger
type CatalogStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCatalogStorage creates a new CatalogStorage instance
func NewCatalogStorage(db *BadgerDB, logger arbor.ILogger) interfaces.CatalogStorage {
	return &CatalogStorage{db: db, logger: logger}
}

func (s *CatalogStorage) Get(id string) (*models.CatalogEntry, error) {
	var entry models.CatalogEntry
	if err := s.db.Store().Get(id, &entry); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, common.NewNotFound("catalog entry", id)
		}
		return nil, &common.PersistenceError{Op: "get catalog entry", Err: err}
	}
	return &entry, nil
}

// FindBySource looks up an entry by its (sourceType, sourceURL) identity.
// Returns nil when no entry exists.
func (s *CatalogStorage) FindBySource(sourceType, sourceURL string) (*models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	err := s.db.Store().Find(&entries,
		badgerhold.Where("SourceType").Eq(sourceType).And("SourceURL").Eq(sourceURL))
	if err != nil {
		return nil, &common.PersistenceError{Op: "find catalog entry by source", Err: err}
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

func (s *CatalogStorage) Upsert(entry *models.CatalogEntry) error {
	now := time.Now()
	if entry.ID == "" {
		entry.ID = common.NewEntryID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	if err := s.db.Store().Upsert(entry.ID, entry); err != nil {
		return &common.PersistenceError{Op: "upsert catalog entry", Err: err}
	}
	return nil
}
