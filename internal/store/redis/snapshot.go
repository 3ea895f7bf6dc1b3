package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
	"github.com/redis/go-redis/v9"
)

// LoadSnapshot retrieves a user's library snapshot. A user with no
// persisted library yields (nil, nil) so callers can seed defaults.
func (s *Store) LoadSnapshot(ctx context.Context, userID string) (*domain.Snapshot, error) {
	key := LibraryKey(userID)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snap, nil
}

// SaveSnapshot stores a user's full library snapshot. Snapshots have no
// TTL, a library lives as long as its user does.
func (s *Store) SaveSnapshot(ctx context.Context, userID string, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := LibraryKey(userID)
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// DeleteSnapshot removes a user's library snapshot.
func (s *Store) DeleteSnapshot(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, LibraryKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
