package library

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
	"github.com/MrSnakeDoc/newsstand/internal/errors"
	"github.com/MrSnakeDoc/newsstand/internal/logger"
)

// Manager hands out per-user stores. The first touch of a user loads
// their snapshot from the persister (seeding the default collections
// for a brand-new user); subsequent calls reuse the cached store so all
// of a user's requests go through the same single-writer instance.
type Manager struct {
	mu        sync.Mutex
	persister Persister
	log       logger.Logger
	now       func() time.Time
	stores    map[string]*managed
}

type managed struct {
	store    *Store
	lastUsed time.Time
}

func NewManager(persister Persister, log logger.Logger) *Manager {
	return &Manager{
		persister: persister,
		log:       log,
		now:       time.Now,
		stores:    make(map[string]*managed),
	}
}

// Open returns the store for userID, loading it if needed.
func (m *Manager) Open(ctx context.Context, userID string) (*Store, error) {
	if userID == "" {
		return nil, errors.Validation("user id cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.stores[userID]; ok {
		entry.lastUsed = m.now()
		return entry.store, nil
	}

	snap, err := m.persister.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.Unavailable("library persistence unavailable"), err)
	}
	if snap == nil {
		snap = &domain.Snapshot{Collections: domain.DefaultCollections(m.now())}
		if err := m.persister.SaveSnapshot(ctx, userID, snap); err != nil {
			return nil, errors.Wrap(errors.Unavailable("library persistence unavailable"), err)
		}
		m.log.Info("seeded new library",
			logger.String("user_id", userID),
			logger.Int("collections", len(snap.Collections)))
	}

	store := newStore(userID, snap, m.persister, m.log, m.now)
	m.stores[userID] = &managed{store: store, lastUsed: m.now()}
	return store, nil
}

// EvictIdle drops stores untouched for longer than maxIdle and returns
// how many were evicted. State is already persisted on every mutation,
// so eviction loses nothing.
func (m *Manager) EvictIdle(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxIdle)
	evicted := 0
	for userID, entry := range m.stores {
		if entry.lastUsed.Before(cutoff) {
			delete(m.stores, userID)
			evicted++
		}
	}
	return evicted
}

// Count returns the number of cached stores.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
