// Package index holds the in-memory article cache.
//
// Every page fetched from the article source passes through the index,
// keyed by canonical URL. The bookmarks listing resolves its join
// against this set; articles newsstand has never seen simply resolve
// to nothing.
package index

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
)

// MemoryIndex provides in-memory storage and lookup for fetched articles.
type MemoryIndex struct {
	mu          sync.RWMutex
	articles    map[string]domain.Article // URL -> Article
	lastUpdated time.Time
}

// NewMemoryIndex creates a new memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		articles: make(map[string]domain.Article),
	}
}

// Remember adds a batch of articles to the index. Articles are
// immutable once fetched, so re-remembering a URL is harmless.
func (idx *MemoryIndex) Remember(articles []domain.Article) {
	if len(articles) == 0 {
		return
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, a := range articles {
		if a.URL == "" {
			continue
		}
		idx.articles[a.URL] = a
	}
	idx.lastUpdated = time.Now()
}

// Get retrieves an article by URL.
func (idx *MemoryIndex) Get(url string) (domain.Article, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	a, ok := idx.articles[url]
	return a, ok
}

// GetAll returns all cached articles.
func (idx *MemoryIndex) GetAll() []domain.Article {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	articles := make([]domain.Article, 0, len(idx.articles))
	for _, a := range idx.articles {
		articles = append(articles, a)
	}
	return articles
}

// Resolve returns the subset of urls known to the index, preserving order.
func (idx *MemoryIndex) Resolve(urls []string) []domain.Article {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	articles := make([]domain.Article, 0, len(urls))
	for _, url := range urls {
		if a, ok := idx.articles[url]; ok {
			articles = append(articles, a)
		}
	}
	return articles
}

// Count returns the number of cached articles.
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.articles)
}

// LastUpdated returns the timestamp of the last Remember call.
func (idx *MemoryIndex) LastUpdated() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastUpdated
}
