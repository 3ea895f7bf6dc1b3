package domain

import "time"

// Article is a single news article as returned by the article source.
// The canonical URL acts as the primary key; articles are immutable
// once fetched and are never persisted by newsstand itself.
type Article struct {
	SourceID    string    `json:"sourceId,omitempty"`
	SourceName  string    `json:"sourceName"`
	Author      string    `json:"author,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	Content     string    `json:"content,omitempty"`
}

// NewsPage is one page of results from the article source.
type NewsPage struct {
	Articles     []Article `json:"articles"`
	TotalResults int       `json:"totalResults"`
}

// PageInfo describes pagination state for a result set.
type PageInfo struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalResults int  `json:"totalResults"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

// NewPageInfo computes pagination state from a page number, a page size
// and the total result count reported by the article source.
func NewPageInfo(page, pageSize, totalResults int) PageInfo {
	if page < 1 {
		page = 1
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalResults + pageSize - 1) / pageSize
	}
	return PageInfo{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalResults: totalResults,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}
}
