package library

import (
	"sort"
	"time"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
)

// recentWindow is the trailing window counted by Stats.RecentBookmarks.
const recentWindow = 7 * 24 * time.Hour

// Stats recomputes library statistics from the live state.
//
// RecentBookmarks counts bookmarks with addedAt strictly after
// now minus 7 days; a bookmark added exactly on the boundary is not
// counted. MostUsedCollection uses recomputed membership counts, not
// the cached ArticleCount; ties keep the earlier collection in
// insertion order (a later candidate only wins if strictly greater).
func (s *Store) Stats() domain.LibraryStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := domain.LibraryStats{
		TotalCollections: len(s.collections),
		TotalBookmarks:   len(s.bookmarks),
	}

	cutoff := s.now().Add(-recentWindow)
	membership := make(map[string]int, len(s.collections))
	for _, bm := range s.bookmarks {
		if bm.AddedAt.After(cutoff) {
			stats.RecentBookmarks++
		}
		if bm.CollectionID != "" {
			membership[bm.CollectionID]++
		}
	}

	best := -1
	for _, col := range s.collections {
		if n := membership[col.ID]; n > 0 && n > best {
			best = n
			stats.MostUsedCollection = cloneCollection(col)
			stats.MostUsedCollection.ArticleCount = n
		}
	}

	return stats
}

// ListBookmarksWithArticles joins each bookmark to its article in the
// supplied set, most recently added first. Bookmarks whose article is
// not present are silently dropped; the article source is the source
// of truth, not the store.
func (s *Store) ListBookmarksWithArticles(articles []domain.Article) []domain.ArticleWithBookmark {
	s.mu.Lock()
	defer s.mu.Unlock()

	byURL := make(map[string]domain.Article, len(articles))
	for _, a := range articles {
		byURL[a.URL] = a
	}

	out := make([]domain.ArticleWithBookmark, 0, len(s.bookmarks))
	for _, bm := range s.bookmarks {
		article, ok := byURL[bm.ArticleID]
		if !ok {
			continue
		}
		item := domain.ArticleWithBookmark{
			Article:  article,
			Bookmark: *bm,
		}
		if col := findCollection(s.collections, bm.CollectionID); col != nil {
			item.Collection = cloneCollection(col)
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Bookmark.AddedAt.After(out[j].Bookmark.AddedAt)
	})
	return out
}
