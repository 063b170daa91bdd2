package badger

import (
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// TagStorage implements the TagStorage interface for Badger
type TagStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewTagStorage creates a new TagStorage instance
func NewTagStorage(db *BadgerDB, logger arbor.ILogger) interfaces.TagStorage {
	return &TagStorage{db: db, logger: logger}
}

// FindOrCreate returns the tag matching name case-insensitively, creating it
// with the given casing on first sighting.
func (s *TagStorage) FindOrCreate(name string) (*models.Tag, error) {
	folded := models.FoldTagName(name)
	if folded == "" {
		return nil, common.NewValidation("tag name cannot be empty")
	}

	var tags []models.Tag
	if err := s.db.Store().Find(&tags, badgerhold.Where("Folded").Eq(folded)); err != nil {
		return nil, &common.PersistenceError{Op: "find tag", Err: err}
	}
	if len(tags) > 0 {
		return &tags[0], nil
	}

	tag := &models.Tag{
		ID:        common.NewTagID(),
		Name:      name,
		Folded:    folded,
		CreatedAt: time.Now(),
	}
	if err := s.db.Store().Insert(tag.ID, tag); err != nil {
		return nil, &common.PersistenceError{Op: "create tag", Err: err}
	}
	return tag, nil
}

func (s *TagStorage) LinkExists(resourceID, tagID string) (bool, error) {
	count, err := s.db.Store().Count(&models.ResourceTagLink{},
		badgerhold.Where("ResourceID").Eq(resourceID).And("TagID").Eq(tagID))
	if err != nil {
		return false, &common.PersistenceError{Op: "check tag link", Err: err}
	}
	return count > 0, nil
}

// Link creates the resource/tag association if it does not already exist
func (s *TagStorage) Link(resourceID, tagID string) error {
	exists, err := s.LinkExists(resourceID, tagID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	link := &models.ResourceTagLink{
		ID:         common.NewLinkID(),
		ResourceID: resourceID,
		TagID:      tagID,
		CreatedAt:  time.Now(),
	}
	if err := s.db.Store().Insert(link.ID, link); err != nil {
		return &common.PersistenceError{Op: "create tag link", Err: err}
	}
	return nil
}

func (s *TagStorage) TagsForResource(resourceID string) ([]*models.Tag, error) {
	var links []models.ResourceTagLink
	if err := s.db.Store().Find(&links, badgerhold.Where("ResourceID").Eq(resourceID)); err != nil {
		return nil, &common.PersistenceError{Op: "list tag links", Err: err}
	}

	tags := make([]*models.Tag, 0, len(links))
	for _, link := range links {
		var tag models.Tag
		if err := s.db.Store().Get(link.TagID, &tag); err != nil {
			if err == badgerhold.ErrNotFound {
				continue
			}
			return nil, &common.PersistenceError{Op: "get tag", Err: err}
		}
		tags = append(tags, &tag)
	}
	return tags, nil
}
