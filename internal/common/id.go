package common

import (
	"github.com/google/uuid"
)

// NewResourceID generates a unique external resource ID with the "res_" prefix
func NewResourceID() string {
	return "res_" + uuid.New().String()
}

// NewCategoryID generates a unique external category ID with the "cat_" prefix
func NewCategoryID() string {
	return "cat_" + uuid.New().String()
}

// NewTagID generates a unique tag ID with the "tag_" prefix
func NewTagID() string {
	return "tag_" + uuid.New().String()
}

// NewEntryID generates a unique catalog entry ID with the "ent_" prefix
func NewEntryID() string {
	return "ent_" + uuid.New().String()
}

// NewLinkID generates a unique resource/tag link ID with the "lnk_" prefix
func NewLinkID() string {
	return "lnk_" + uuid.New().String()
}

// NewJobID generates a unique job ID with the "job_" prefix
func NewJobID() string {
	return "job_" + uuid.New().String()
}
