package catalog

import (
	"fmt"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
)

// Mapper converts catalog config entries to domain categories.
type Mapper struct{}

// NewMapper creates a catalog mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapCategories converts a CatalogConfig to domain.Category slice.
// Entries without an id or a name are skipped; an empty query defaults
// to the category id.
func (m *Mapper) MapCategories(config *CatalogConfig) ([]domain.Category, error) {
	categories := make([]domain.Category, 0, len(config.Categories))
	seen := make(map[string]bool, len(config.Categories))

	for _, entry := range config.Categories {
		if entry.ID == "" || entry.Name == "" {
			continue
		}
		if seen[entry.ID] {
			continue
		}
		seen[entry.ID] = true

		query := entry.Query
		if query == "" {
			query = entry.ID
		}

		categories = append(categories, domain.Category{
			ID:          entry.ID,
			Name:        entry.Name,
			Icon:        entry.Icon,
			Query:       query,
			Description: entry.Description,
		})
	}

	if len(categories) == 0 {
		return nil, fmt.Errorf("no valid categories found in config")
	}

	return categories, nil
}
