package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/newsstand/internal/library"
	"github.com/MrSnakeDoc/newsstand/internal/logger"
)

// DefaultSessionMaxIdle is how long an unused library stays in memory
const DefaultSessionMaxIdle = 30 * time.Minute

// SessionGC evicts idle per-user library stores from the manager's
// cache. State is persisted on every mutation, so eviction only frees
// memory and a later request reloads the snapshot transparently.
type SessionGC struct {
	manager  *library.Manager
	logger   logger.Logger
	interval time.Duration
	maxIdle  time.Duration
	stopCh   chan struct{}
}

// NewSessionGC creates a new session garbage collector.
func NewSessionGC(manager *library.Manager, log logger.Logger, interval, maxIdle time.Duration) *SessionGC {
	if maxIdle == 0 {
		maxIdle = DefaultSessionMaxIdle
	}

	return &SessionGC{
		manager:  manager,
		logger:   log,
		interval: interval,
		maxIdle:  maxIdle,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic eviction process.
func (gc *SessionGC) Start(ctx context.Context) error {
	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				gc.Collect()
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the collector.
func (gc *SessionGC) Stop() {
	close(gc.stopCh)
}

// Collect evicts libraries idle for longer than maxIdle.
func (gc *SessionGC) Collect() {
	evicted := gc.manager.EvictIdle(gc.maxIdle)
	if evicted > 0 {
		gc.logger.Info("evicted idle libraries",
			logger.Int("evicted", evicted),
			logger.Int("remaining", gc.manager.Count()))
	} else {
		gc.logger.Debug("no idle libraries to evict")
	}
}
