package badger

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/vendo/internal/models"
)

// seedFile is the schema of a seed TOML file. Any section may be omitted.
//
// [[internal_categories]]
// id = "cat_design"
// name = "设计"
// sort_order = 1
//
// [[authors]]
// id = "author_editorial"
// name = "Editorial"
//
// [[external_categories]]
// title = "平面设计"
// source_url = "https://example.com/category/graphic-design"
// sort_order = 1
//
// [parameters.ai_api_key]
// value = "sk-..."
// description = "Completion service API key"
type seedFile struct {
	InternalCategories []seedCategory           `toml:"internal_categories"`
	Authors            []seedAuthor             `toml:"authors"`
	ExternalCategories []seedExternalCategory   `toml:"external_categories"`
	Parameters         map[string]seedParameter `toml:"parameters"`
}

type seedCategory struct {
	ID        string `toml:"id"`
	Name      string `toml:"name"`
	SortOrder int    `toml:"sort_order"`
}

type seedAuthor struct {
	ID        string `toml:"id"`
	Name      string `toml:"name"`
	SortOrder int    `toml:"sort_order"`
}

type seedExternalCategory struct {
	Title     string `toml:"title"`
	SourceURL string `toml:"source_url"`
	SortOrder int    `toml:"sort_order"`
	Invalid   bool   `toml:"invalid"`
}

type seedParameter struct {
	Value       string `toml:"value"`
	Description string `toml:"description"`
}

// LoadSeedsFromDir loads all *.toml seed files from the given directory.
// Missing directory is not an error; seeds are optional.
func (m *Manager) LoadSeedsFromDir(ctx context.Context, dirPath string) error {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Debug().Str("dir", dirPath).Msg("Seeds directory not found, skipping")
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		if err := m.loadSeedFile(ctx, filepath.Join(dirPath, entry.Name())); err != nil {
			m.logger.Warn().Err(err).Str("file", entry.Name()).Msg("Failed to load seed file")
		}
	}
	return nil
}

func (m *Manager) loadSeedFile(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var seeds seedFile
	if err := toml.Unmarshal(content, &seeds); err != nil {
		return err
	}

	fileName := filepath.Base(path)
	loaded := 0

	for _, c := range seeds.InternalCategories {
		if c.ID == "" || c.Name == "" {
			continue
		}
		if err := m.taxonomy.PutCategory(&models.Category{ID: c.ID, Name: c.Name, SortOrder: c.SortOrder}); err != nil {
			m.logger.Error().Err(err).Str("id", c.ID).Msg("Failed to seed internal category")
			continue
		}
		loaded++
	}

	for _, a := range seeds.Authors {
		if a.ID == "" || a.Name == "" {
			continue
		}
		if err := m.taxonomy.PutAuthor(&models.Author{ID: a.ID, Name: a.Name, SortOrder: a.SortOrder}); err != nil {
			m.logger.Error().Err(err).Str("id", a.ID).Msg("Failed to seed author")
			continue
		}
		loaded++
	}

	for _, ec := range seeds.ExternalCategories {
		if ec.SourceURL == "" {
			continue
		}
		// External category URLs are the natural key; preserve the record
		// identity across repeated startups.
		existing, err := m.categories.FindByURL(ec.SourceURL)
		if err != nil {
			m.logger.Error().Err(err).Str("url", ec.SourceURL).Msg("Failed to look up seeded category")
			continue
		}
		category := &models.ExternalCategory{
			Title:     ec.Title,
			SourceURL: ec.SourceURL,
			SortOrder: ec.SortOrder,
			Invalid:   ec.Invalid,
		}
		if existing != nil {
			category.ID = existing.ID
			category.CreatedAt = existing.CreatedAt
		}
		if err := m.categories.Upsert(category); err != nil {
			m.logger.Error().Err(err).Str("url", ec.SourceURL).Msg("Failed to seed external category")
			continue
		}
		loaded++
	}

	for key, param := range seeds.Parameters {
		if param.Value == "" {
			continue
		}
		description := param.Description
		if description == "" {
			description = "Loaded from " + fileName
		}
		if err := m.kv.Set(ctx, key, param.Value, description); err != nil {
			m.logger.Error().Err(err).Str("key", key).Msg("Failed to seed parameter")
			continue
		}
		loaded++
	}

	m.logger.Debug().Str("file", fileName).Int("loaded", loaded).Msg("Loaded seed file")
	return nil
}
