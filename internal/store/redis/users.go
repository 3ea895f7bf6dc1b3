package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
	"github.com/redis/go-redis/v9"
)

// userRecord is the persisted form of a user. domain.User excludes the
// password hash from JSON so it can never leak into an API response;
// the store has to carry it explicitly.
type userRecord struct {
	domain.User
	PasswordHash string `json:"passwordHash"`
}

// SaveUser stores a user record and keeps the email index and the set
// of all users in sync.
func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	rec := userRecord{User: *user, PasswordHash: user.PasswordHash}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	if err := s.client.Set(ctx, UserKey(user.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	if err := s.client.Set(ctx, EmailKey(normalizeEmail(user.Email)), user.ID, 0).Err(); err != nil {
		return fmt.Errorf("failed to index user email: %w", err)
	}

	if err := s.client.SAdd(ctx, AllUsersKey(), user.ID).Err(); err != nil {
		return fmt.Errorf("failed to add user to set: %w", err)
	}

	return nil
}

// GetUser retrieves a user record by ID. A missing user yields
// (nil, nil).
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	data, err := s.client.Get(ctx, UserKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var rec userRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	user := rec.User
	user.PasswordHash = rec.PasswordHash
	return &user, nil
}

// GetUserByEmail resolves an email through the index and loads the
// matching user. A missing email yields (nil, nil).
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, err := s.client.Get(ctx, EmailKey(normalizeEmail(email))).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve email: %w", err)
	}
	return s.GetUser(ctx, id)
}

// EmailExists reports whether an email is already indexed.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := s.client.Exists(ctx, EmailKey(normalizeEmail(email))).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return n > 0, nil
}

// GetAllUsers retrieves every user record.
func (s *Store) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	ids, err := s.client.SMembers(ctx, AllUsersKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get user IDs: %w", err)
	}

	if len(ids) == 0 {
		return []*domain.User{}, nil
	}

	users := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.GetUser(ctx, id)
		if err != nil || user == nil {
			// Skip users that couldn't be retrieved
			continue
		}
		users = append(users, user)
	}

	return users, nil
}

// DeleteUser removes a user record, its email index entry, its library
// snapshot and its set membership.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, UserKey(id))
	pipe.Del(ctx, LibraryKey(id))
	pipe.SRem(ctx, AllUsersKey(), id)
	if user != nil {
		pipe.Del(ctx, EmailKey(normalizeEmail(user.Email)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// RemoveEmailIndex drops the index entry for an email, used when a
// user changes address.
func (s *Store) RemoveEmailIndex(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, EmailKey(normalizeEmail(email))).Err(); err != nil {
		return fmt.Errorf("failed to remove email index: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
