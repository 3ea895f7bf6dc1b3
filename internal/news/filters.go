package news

import (
	"time"

	"github.com/MrSnakeDoc/newsstand/internal/errors"
)

// Sort keys accepted by the article source.
const (
	SortRelevance   = "relevance"
	SortPublishedAt = "publishedAt"
	SortPopularity  = "popularity"
)

// PageSizes the UI offers; anything else is rejected.
var PageSizes = []int{10, 20, 30, 50}

const (
	defaultPageSize = 20
	defaultSortBy   = SortPublishedAt
	defaultLanguage = "en"

	dateLayout = "2006-01-02"
)

// SearchFilters narrows a search query. Zero values mean "default".
type SearchFilters struct {
	DateFrom string `json:"dateFrom,omitempty"` // YYYY-MM-DD
	DateTo   string `json:"dateTo,omitempty"`   // YYYY-MM-DD
	SortBy   string `json:"sortBy,omitempty"`
	Language string `json:"language,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
}

// Normalize fills defaults and validates the filter values.
func (f *SearchFilters) Normalize() error {
	if f.SortBy == "" {
		f.SortBy = defaultSortBy
	}
	switch f.SortBy {
	case SortRelevance, SortPublishedAt, SortPopularity:
	default:
		return errors.Validation("unknown sort key: %s", f.SortBy)
	}

	if f.Language == "" {
		f.Language = defaultLanguage
	}

	if f.PageSize == 0 {
		f.PageSize = defaultPageSize
	}
	if !allowedPageSize(f.PageSize) {
		return errors.Validation("page size must be one of 10, 20, 30 or 50, got %d", f.PageSize)
	}

	for _, date := range []string{f.DateFrom, f.DateTo} {
		if date == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, date); err != nil {
			return errors.Validation("invalid date %q, expected YYYY-MM-DD", date)
		}
	}
	return nil
}

func allowedPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}
