package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/newsstand/internal/index"
	"github.com/MrSnakeDoc/newsstand/internal/logger"
	"github.com/MrSnakeDoc/newsstand/internal/news"
	"github.com/MrSnakeDoc/newsstand/internal/sources/catalog"
	redisstore "github.com/MrSnakeDoc/newsstand/internal/store/redis"
)

// HeadlinesRefresher periodically warms the headlines cache for every
// category in the catalog, so the common first-page requests are
// served from Redis instead of hitting the upstream API.
type HeadlinesRefresher struct {
	client   *news.Client
	catalog  *catalog.Catalog
	store    *redisstore.Store
	index    *index.MemoryIndex
	logger   logger.Logger
	interval time.Duration
	ttl      time.Duration
	pageSize int
	stopCh   chan struct{}
}

// NewHeadlinesRefresher creates a new headlines refresher.
func NewHeadlinesRefresher(
	client *news.Client,
	cat *catalog.Catalog,
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	ttl time.Duration,
) *HeadlinesRefresher {
	if ttl == 0 {
		ttl = redisstore.DefaultHeadlinesTTL
	}

	return &HeadlinesRefresher{
		client:   client,
		catalog:  cat,
		store:    store,
		index:    idx,
		logger:   log,
		interval: interval,
		ttl:      ttl,
		pageSize: 20,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic refresh process.
func (hr *HeadlinesRefresher) Start(ctx context.Context) error {
	// Warm immediately on start, best effort.
	hr.Refresh(ctx)

	ticker := time.NewTicker(hr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				hr.Refresh(ctx)
			case <-hr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the refresher.
func (hr *HeadlinesRefresher) Stop() {
	close(hr.stopCh)
}

// Refresh fetches the first page of headlines for every category and
// caches it. Failures are logged per category and never abort the
// sweep.
func (hr *HeadlinesRefresher) Refresh(ctx context.Context) {
	categories := hr.catalog.All()
	warmed := 0

	for _, cat := range categories {
		page, err := hr.client.TopHeadlines(ctx, cat.ID, 1, hr.pageSize)
		if err != nil {
			hr.logger.Warn("failed to refresh headlines",
				logger.String("category", cat.ID),
				logger.Error(err))
			continue
		}

		hr.index.Remember(page.Articles)

		if err := hr.store.CacheHeadlines(ctx, cat.ID, page, hr.ttl); err != nil {
			hr.logger.Warn("failed to cache headlines",
				logger.String("category", cat.ID),
				logger.Error(err))
			continue
		}
		warmed++
	}

	hr.logger.Info("headlines cache refreshed",
		logger.Int("categories", len(categories)),
		logger.Int("warmed", warmed))
}
