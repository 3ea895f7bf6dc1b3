package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
	"github.com/MrSnakeDoc/newsstand/internal/errors"
	"github.com/MrSnakeDoc/newsstand/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newsstand/internal/logger"
	"github.com/MrSnakeDoc/newsstand/internal/news"
	redisstore "github.com/MrSnakeDoc/newsstand/internal/store/redis"
)

type newsResponse struct {
	Articles []domain.Article `json:"articles"`
	PageInfo domain.PageInfo  `json:"pageInfo"`
}

// SearchNews proxies a search to the article source.
func SearchNews(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query := strings.TrimSpace(q.Get("q"))
		if query == "" {
			respondError(w, d.Logger, errors.Validation("q query parameter is required"))
			return
		}

		page := parseIntParam(q.Get("page"), 1)
		filters := news.SearchFilters{
			DateFrom: q.Get("dateFrom"),
			DateTo:   q.Get("dateTo"),
			SortBy:   q.Get("sortBy"),
			Language: q.Get("language"),
			PageSize: parseIntParam(q.Get("pageSize"), 0),
		}

		result, err := d.News.Search(r.Context(), query, page, filters)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}

		// Remember articles so bookmarked ones can be joined later.
		d.Index.Remember(result.Articles)

		pageSize := filters.PageSize
		if pageSize == 0 {
			pageSize = 20
		}
		respondJSON(w, http.StatusOK, newsResponse{
			Articles: result.Articles,
			PageInfo: domain.NewPageInfo(page, pageSize, result.TotalResults),
		})
	}
}

// TopHeadlines serves headlines for a category, preferring the Redis
// cache for the first page.
func TopHeadlines(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		category := q.Get("category")
		if category == "" {
			category = d.Catalog.Default().ID
		}
		if _, ok := d.Catalog.ByID(category); !ok {
			respondError(w, d.Logger, errors.NotFound("unknown category: %s", category))
			return
		}

		page := parseIntParam(q.Get("page"), 1)
		pageSize := parseIntParam(q.Get("pageSize"), 20)

		// First page is what the refresher warms; other pages always
		// go upstream.
		if page == 1 && pageSize == 20 {
			cached, err := d.Store.GetCachedHeadlines(r.Context(), category)
			if err != nil {
				d.Logger.Warn("headlines cache lookup failed", logger.Error(err))
			}
			if cached != nil {
				d.Index.Remember(cached.Articles)
				respondJSON(w, http.StatusOK, newsResponse{
					Articles: cached.Articles,
					PageInfo: domain.NewPageInfo(page, pageSize, cached.TotalResults),
				})
				return
			}
		}

		result, err := d.News.TopHeadlines(r.Context(), category, page, pageSize)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}

		d.Index.Remember(result.Articles)

		if page == 1 && pageSize == 20 {
			if err := d.Store.CacheHeadlines(r.Context(), category, result, redisstore.DefaultHeadlinesTTL); err != nil {
				d.Logger.Warn("failed to cache headlines", logger.Error(err))
			}
		}

		respondJSON(w, http.StatusOK, newsResponse{
			Articles: result.Articles,
			PageInfo: domain.NewPageInfo(page, pageSize, result.TotalResults),
		})
	}
}

// Categories lists the category catalog.
func Categories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string][]domain.Category{
			"categories": d.Catalog.All(),
		})
	}
}

func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
