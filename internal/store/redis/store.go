// Package redis is the persistent store collaborator. It keeps three
// kinds of state: full per-user library snapshots, user records with an
// email index, and TTL'd headline pages. Values are JSON; keys live
// under the newsstand: prefix (see keys.go).
package redis

import (
	"github.com/redis/go-redis/v9"
)

// Store handles Redis operations for snapshots, users and the
// headlines cache.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}
