package news

import (
	"strings"
	"time"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
)

// FallbackArticles returns the small fixed list served while the
// upstream is unreachable, so the UI is never empty during
// development or demos.
func FallbackArticles() []domain.Article {
	now := time.Now()
	return []domain.Article{
		{
			SourceID:    "fallback",
			SourceName:  "Newsstand Wire",
			Author:      "Staff Writer",
			Title:       "Breaking News: Technology Advances",
			Description: "Latest developments in technology are changing the world.",
			URL:         "https://example.com/fallback/technology-advances",
			ImageURL:    "https://via.placeholder.com/300x200?text=News+1",
			PublishedAt: now.Add(-1 * time.Hour),
			Content:     "Placeholder article served while the news service is unavailable.",
		},
		{
			SourceID:    "fallback",
			SourceName:  "Newsstand Wire",
			Author:      "Staff Writer",
			Title:       "Science Discovery: New Breakthrough",
			Description: "Scientists discover new breakthrough in research.",
			URL:         "https://example.com/fallback/science-breakthrough",
			ImageURL:    "https://via.placeholder.com/300x200?text=News+2",
			PublishedAt: now.Add(-2 * time.Hour),
			Content:     "Placeholder article served while the news service is unavailable.",
		},
		{
			SourceID:    "fallback",
			SourceName:  "Newsstand Wire",
			Author:      "Staff Writer",
			Title:       "Business Update: Market Trends",
			Description: "Latest market trends and business insights.",
			URL:         "https://example.com/fallback/market-trends",
			ImageURL:    "https://via.placeholder.com/300x200?text=News+3",
			PublishedAt: now.Add(-3 * time.Hour),
			Content:     "Placeholder article served while the news service is unavailable.",
		},
	}
}

// filterByQuery keeps articles whose title or description mentions the
// query, mirroring a very small search over the fallback list.
func filterByQuery(articles []domain.Article, query string) []domain.Article {
	query = strings.ToLower(query)
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Title), query) ||
			strings.Contains(strings.ToLower(a.Description), query) {
			out = append(out, a)
		}
	}
	return out
}
