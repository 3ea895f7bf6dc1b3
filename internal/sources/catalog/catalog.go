package catalog

import (
	"sync"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
)

// Catalog is the live category set, swapped wholesale on reload.
type Catalog struct {
	mu         sync.RWMutex
	categories []domain.Category
}

// NewCatalog creates a catalog seeded with the built-in defaults.
func NewCatalog() *Catalog {
	return &Catalog{categories: DefaultCategories()}
}

// Replace swaps in a new category set.
func (c *Catalog) Replace(categories []domain.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = categories
}

// All returns the current categories.
func (c *Catalog) All() []domain.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// ByID returns the category with the given id.
func (c *Catalog) ByID(id string) (domain.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return domain.Category{}, false
}

// Default returns the first category, the one a fresh session opens on.
func (c *Catalog) Default() domain.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.categories) == 0 {
		return domain.Category{ID: "general", Name: "General", Query: "general"}
	}
	return c.categories[0]
}

// DefaultCategories is the built-in catalog used when no categories
// file is configured.
func DefaultCategories() []domain.Category {
	return []domain.Category{
		{
			ID:          "general",
			Name:        "General",
			Icon:        "📰",
			Query:       "general",
			Description: "Latest breaking news and top stories",
		},
		{
			ID:          "technology",
			Name:        "Technology",
			Icon:        "💻",
			Query:       "technology OR AI OR artificial intelligence OR software OR programming",
			Description: "Tech news, AI, software, and innovation",
		},
		{
			ID:          "business",
			Name:        "Business",
			Icon:        "💼",
			Query:       "business OR economy OR finance OR stocks OR market",
			Description: "Business news, economy, and financial markets",
		},
		{
			ID:          "sports",
			Name:        "Sports",
			Icon:        "⚽",
			Query:       "sports OR football OR basketball OR soccer OR tennis",
			Description: "Sports news, scores, and athletic events",
		},
		{
			ID:          "entertainment",
			Name:        "Entertainment",
			Icon:        "🎬",
			Query:       "entertainment OR movies OR music OR celebrity OR film",
			Description: "Movies, music, celebrities, and entertainment",
		},
		{
			ID:          "science",
			Name:        "Science",
			Icon:        "🔬",
			Query:       "science OR research OR discovery OR space OR NASA",
			Description: "Scientific discoveries and research news",
		},
		{
			ID:          "health",
			Name:        "Health",
			Icon:        "🏥",
			Query:       "health OR medical OR medicine OR healthcare OR COVID",
			Description: "Health news, medical research, and wellness",
		},
	}
}
