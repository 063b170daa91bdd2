package models

import (
	"strings"
	"time"
)

// ExternalCategory is a listing category scraped from the source site's
// navigation. SourceURL is the natural key.
type ExternalCategory struct {
	ID        string    `json:"id" badgerhold:"key"`
	Title     string    `json:"title"`
	SourceURL string    `json:"source_url" badgerhold:"unique"`
	SortOrder int       `json:"sort_order"`
	Invalid   bool      `json:"invalid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExternalResource is a scraped listing pre-normalization. Created on first
// crawl sighting of its URL, enriched by the detail scraper, never deleted
// automatically.
type ExternalResource struct {
	ID          string `json:"id" badgerhold:"key"`
	ExternalURL string `json:"external_url" badgerhold:"unique"`

	ChineseTitle string `json:"chinese_title"`
	EnglishTitle string `json:"english_title"`
	CategoryID   string `json:"category_id" badgerhold:"index"`

	RawDetailHTML         string `json:"raw_detail_html"`
	RawCourseHTML         string `json:"raw_course_html"`
	NormalizedText        string `json:"normalized_text"`
	NormalizedOutlineJSON string `json:"normalized_outline_json"`

	DurationText      string `json:"duration_text"`
	FileSizeText      string `json:"file_size_text"`
	Language          string `json:"language"`
	SubtitleLanguages string `json:"subtitle_languages"`
	CoinPriceText     string `json:"coin_price_text"`
	Popularity        string `json:"popularity"`
	PublishDateText   string `json:"publish_date_text"`
	LastUpdateText    string `json:"last_update_text"`
	ContentInfo       string `json:"content_info"`
	VideoDimensions   string `json:"video_dimensions"`

	PreviewURL     string `json:"preview_url"`
	CoverImageURL  string `json:"cover_image_url"`
	LocalImagePath string `json:"local_image_path"`

	AccessLink string `json:"access_link"`
	AccessCode string `json:"access_code"`

	// Set once on first successful publish; all later publish calls for this
	// resource must target the same catalog entry.
	LinkedCatalogEntryID string `json:"linked_catalog_entry_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag is a case-insensitively unique label. Folded holds the lowercase form
// used for lookups; Name preserves the first-seen casing.
type Tag struct {
	ID        string    `json:"id" badgerhold:"key"`
	Name      string    `json:"name"`
	Folded    string    `json:"-" badgerhold:"index"`
	CreatedAt time.Time `json:"created_at"`
}

// FoldTagName normalizes a tag string for case-insensitive comparison
func FoldTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ResourceTagLink joins resources to tags. The (ResourceID, TagID) pair is
// unique; deduplication is enforced by an existence check at write time.
type ResourceTagLink struct {
	ID         string    `json:"id" badgerhold:"key"`
	ResourceID string    `json:"resource_id" badgerhold:"index"`
	TagID      string    `json:"tag_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ResourcePatch is a partial update for an ExternalResource. Only non-empty
// fields are applied; absent extractions never null out stored values.
type ResourcePatch struct {
	ChineseTitle          string
	EnglishTitle          string
	RawDetailHTML         string
	RawCourseHTML         string
	NormalizedText        string
	NormalizedOutlineJSON string
	DurationText          string
	FileSizeText          string
	Language              string
	SubtitleLanguages     string
	CoinPriceText         string
	Popularity            string
	PublishDateText       string
	LastUpdateText        string
	ContentInfo           string
	VideoDimensions       string
	PreviewURL            string
	CoverImageURL         string
	LocalImagePath        string
	AccessLink            string
	AccessCode            string
}

// Apply copies non-empty patch fields onto the resource and reports whether
// anything changed.
func (p *ResourcePatch) Apply(r *ExternalResource) bool {
	changed := false
	set := func(dst *string, src string) {
		if src != "" && *dst != src {
			*dst = src
			changed = true
		}
	}
	set(&r.ChineseTitle, p.ChineseTitle)
	set(&r.EnglishTitle, p.EnglishTitle)
	set(&r.RawDetailHTML, p.RawDetailHTML)
	set(&r.RawCourseHTML, p.RawCourseHTML)
	set(&r.NormalizedText, p.NormalizedText)
	set(&r.NormalizedOutlineJSON, p.NormalizedOutlineJSON)
	set(&r.DurationText, p.DurationText)
	set(&r.FileSizeText, p.FileSizeText)
	set(&r.Language, p.Language)
	set(&r.SubtitleLanguages, p.SubtitleLanguages)
	set(&r.CoinPriceText, p.CoinPriceText)
	set(&r.Popularity, p.Popularity)
	set(&r.PublishDateText, p.PublishDateText)
	set(&r.LastUpdateText, p.LastUpdateText)
	set(&r.ContentInfo, p.ContentInfo)
	set(&r.VideoDimensions, p.VideoDimensions)
	set(&r.PreviewURL, p.PreviewURL)
	set(&r.CoverImageURL, p.CoverImageURL)
	set(&r.LocalImagePath, p.LocalImagePath)
	set(&r.AccessLink, p.AccessLink)
	set(&r.AccessCode, p.AccessCode)
	return changed
}
