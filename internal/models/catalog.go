package models

import "time"

// Category is an internal taxonomy entry that catalog entries are filed under
type Category struct {
	ID        string `json:"id" badgerhold:"key"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// Author is an internal content author. The publisher assigns the first
// listed author to promoted entries, falling back to a configured default.
type Author struct {
	ID        string `json:"id" badgerhold:"key"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// EntryStatus is the publication state of a catalog entry
type EntryStatus string

const (
	EntryStatusUnpublished EntryStatus = "unpublished"
	EntryStatusPublished   EntryStatus = "published"
)

// CatalogEntry is an internal, sellable record promoted from an external
// resource. At most one entry exists per (SourceType, SourceURL).
type CatalogEntry struct {
	ID       string `json:"id" badgerhold:"key"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`

	CategoryID string `json:"category_id"`
	AuthorID   string `json:"author_id"`

	Description     string  `json:"description"`
	Price           int     `json:"price"`
	IsFree          bool    `json:"is_free"`
	DurationMinutes int     `json:"duration_minutes"`
	SizeGB          float64 `json:"size_gb"`
	Language        string  `json:"language"`

	SourceType string `json:"source_type" badgerhold:"index"`
	SourceURL  string `json:"source_url"`

	AccessLink     string `json:"access_link"`
	AccessCode     string `json:"access_code"`
	LocalImagePath string `json:"local_image_path"`

	Status EntryStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
