package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultHeadlinesTTL is the default TTL for cached headline pages (15 minutes)
const DefaultHeadlinesTTL = 15 * time.Minute

// CacheHeadlines stores a category -> headlines page in cache
func (s *Store) CacheHeadlines(ctx context.Context, category string, page *domain.NewsPage, ttl time.Duration) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to marshal headlines: %w", err)
	}

	key := HeadlinesKey(category)
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache headlines: %w", err)
	}
	return nil
}

// GetCachedHeadlines retrieves a cached headlines page. A cache miss
// yields (nil, nil).
func (s *Store) GetCachedHeadlines(ctx context.Context, category string) (*domain.NewsPage, error) {
	key := HeadlinesKey(category)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get cached headlines: %w", err)
	}

	var page domain.NewsPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached headlines: %w", err)
	}

	return &page, nil
}

// InvalidateHeadlines removes a cached headlines page
func (s *Store) InvalidateHeadlines(ctx context.Context, category string) error {
	if err := s.client.Del(ctx, HeadlinesKey(category)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate headlines: %w", err)
	}
	return nil
}

// FlushHeadlines removes all cached headline pages
func (s *Store) FlushHeadlines(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixHeadlines+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete headlines key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush headlines: %w", err)
	}
	return nil
}

// Ping checks Redis connectivity, used by the readiness probe
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
