// Package news is the article source adapter. It wraps the NewsAPI
// /v2/everything and /v2/top-headlines endpoints, maps upstream
// failures to distinct typed errors, and can substitute a small fixed
// fallback list so the UI is never empty when the upstream is down.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
	"github.com/MrSnakeDoc/newsstand/internal/errors"
	"github.com/MrSnakeDoc/newsstand/internal/logger"
)

const defaultBaseURL = "https://newsapi.org/v2"

// Config holds the article source settings.
type Config struct {
	APIKey          string
	BaseURL         string        // defaults to the public NewsAPI endpoint
	Timeout         time.Duration // per-request timeout
	Country         string        // top-headlines country, ex: "us"
	FallbackEnabled bool          // serve the fixed fallback list when upstream fails
}

// Client talks to the article source. It never retries; retry policy
// belongs to callers.
type Client struct {
	cfg    Config
	client *http.Client
	log    logger.Logger
}

type apiResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"source"`
		Author      string    `json:"author"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		URLToImage  string    `json:"urlToImage"`
		PublishedAt time.Time `json:"publishedAt"`
		Content     string    `json:"content"`
	} `json:"articles"`
}

// NewClient creates a news client.
func NewClient(cfg Config, log logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Country == "" {
		cfg.Country = "us"
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

// Search queries /everything for articles matching query.
func (c *Client) Search(ctx context.Context, query string, page int, filters SearchFilters) (*domain.NewsPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.Validation("search query cannot be empty")
	}
	if page < 1 {
		page = 1
	}
	if err := filters.Normalize(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(filters.PageSize))
	params.Set("sortBy", filters.SortBy)
	params.Set("language", filters.Language)
	if filters.DateFrom != "" {
		params.Set("from", filters.DateFrom)
	}
	if filters.DateTo != "" {
		params.Set("to", filters.DateTo)
	}

	result, err := c.get(ctx, "/everything", params)
	if err != nil {
		if fallback := c.fallbackFor(query, err); fallback != nil {
			return fallback, nil
		}
		return nil, err
	}
	return result, nil
}

// TopHeadlines queries /top-headlines, optionally narrowed to a category.
func (c *Client) TopHeadlines(ctx context.Context, category string, page, pageSize int) (*domain.NewsPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if !allowedPageSize(pageSize) {
		return nil, errors.Validation("page size must be one of 10, 20, 30 or 50, got %d", pageSize)
	}

	params := url.Values{}
	params.Set("country", c.cfg.Country)
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(pageSize))
	if category != "" {
		params.Set("category", category)
	}

	result, err := c.get(ctx, "/top-headlines", params)
	if err != nil {
		if fallback := c.fallbackFor("", err); fallback != nil {
			return fallback, nil
		}
		return nil, err
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*domain.NewsPage, error) {
	endpoint := fmt.Sprintf("%s%s?%s", c.cfg.BaseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(errors.Internal("failed to build news request"), err)
	}
	req.Header.Set("X-Api-Key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.Unavailable("news service is unreachable"), err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, errors.Unauthorized("news api key was rejected, check NEWSSTAND_NEWS_API_KEY")
	case http.StatusTooManyRequests:
		return nil, errors.RateLimited("news api rate limit exceeded, please try again later")
	default:
		return nil, errors.Unavailable("news api returned status %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, errors.Wrap(errors.Unavailable("news api sent a malformed response"), err)
	}
	if apiResp.Status != "ok" {
		return nil, errors.Unavailable("news api error: %s", apiResp.Message)
	}

	articles := make([]domain.Article, 0, len(apiResp.Articles))
	for _, a := range apiResp.Articles {
		articles = append(articles, domain.Article{
			SourceID:    a.Source.ID,
			SourceName:  a.Source.Name,
			Author:      a.Author,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			PublishedAt: a.PublishedAt,
			Content:     a.Content,
		})
	}

	return &domain.NewsPage{Articles: articles, TotalResults: apiResp.TotalResults}, nil
}

// fallbackFor decides whether err may be papered over with the fixed
// article list. Credential and rate-limit problems always surface so
// the operator sees them; transport failures degrade gracefully.
func (c *Client) fallbackFor(query string, err error) *domain.NewsPage {
	if !c.cfg.FallbackEnabled {
		return nil
	}
	if errors.Is(err, errors.Unauthorized("")) || errors.Is(err, errors.RateLimited("")) || errors.Is(err, errors.Validation("")) {
		return nil
	}

	c.log.Warn("news upstream failed, serving fallback articles",
		logger.String("query", query),
		logger.Error(err))

	articles := FallbackArticles()
	if query != "" {
		articles = filterByQuery(articles, query)
	}
	return &domain.NewsPage{Articles: articles, TotalResults: len(articles)}
}
