package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// TaxonomyStorage implements the TaxonomyStorage interface for Badger. It
// holds the internal categories and authors that promoted entries reference.
type TaxonomyStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewTaxonomyStorage creates a new TaxonomyStorage instance
func NewTaxonomyStorage(db *BadgerDB, logger arbor.ILogger) interfaces.TaxonomyStorage {
	return &TaxonomyStorage{db: db, logger: logger}
}

func (s *TaxonomyStorage) ListCategories() ([]*models.Category, error) {
	var categories []models.Category
	err := s.db.Store().Find(&categories, badgerhold.Where("ID").Ne("").SortBy("SortOrder"))
	if err != nil {
		return nil, &common.PersistenceError{Op: "list internal categories", Err: err}
	}

	result := make([]*models.Category, len(categories))
	for i := range categories {
		result[i] = &categories[i]
	}
	return result, nil
}

func (s *TaxonomyStorage) PutCategory(category *models.Category) error {
	if err := s.db.Store().Upsert(category.ID, category); err != nil {
		return &common.PersistenceError{Op: "upsert internal category", Err: err}
	}
	return nil
}

func (s *TaxonomyStorage) ListAuthors() ([]*models.Author, error) {
	var authors []models.Author
	err := s.db.Store().Find(&authors, badgerhold.Where("ID").Ne("").SortBy("SortOrder"))
	if err != nil {
		return nil, &common.PersistenceError{Op: "list authors", Err: err}
	}

	result := make([]*models.Author, len(authors))
	for i := range authors {
		result[i] = &authors[i]
	}
	return result, nil
}

func (s *TaxonomyStorage) PutAuthor(author *models.Author) error {
	if err := s.db.Store().Upsert(author.ID, author); err != nil {
		return &common.PersistenceError{Op: "upsert author", Err: err}
	}
	return nil
}
