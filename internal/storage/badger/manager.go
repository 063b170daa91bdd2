package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db         *BadgerDB
	categories interfaces.CategoryStorage
	resources  interfaces.ResourceStorage
	tags       interfaces.TagStorage
	catalog    interfaces.CatalogStorage
	taxonomy   interfaces.TaxonomyStorage
	kv         interfaces.KeyValueStorage
	jobs       interfaces.JobStorage
	logger     arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (*Manager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:         db,
		categories: NewCategoryStorage(db, logger),
		resources:  NewResourceStorage(db, logger),
		tags:       NewTagStorage(db, logger),
		catalog:    NewCatalogStorage(db, logger),
		taxonomy:   NewTaxonomyStorage(db, logger),
		kv:         NewKVStorage(db, logger),
		jobs:       NewJobStorage(db, logger),
		logger:     logger,
	}

	return manager, nil
}

func (m *Manager) Categories() interfaces.CategoryStorage { return m.categories }
func (m *Manager) Resources() interfaces.ResourceStorage  { return m.resources }
func (m *Manager) Tags() interfaces.TagStorage            { return m.tags }
func (m *Manager) Catalog() interfaces.CatalogStorage     { return m.catalog }
func (m *Manager) Taxonomy() interfaces.TaxonomyStorage   { return m.taxonomy }
func (m *Manager) KeyValue() interfaces.KeyValueStorage   { return m.kv }
func (m *Manager) Jobs() interfaces.JobStorage            { return m.jobs }

// Close closes the underlying database
func (m *Manager) Close() error {
	return m.db.Close()
}
