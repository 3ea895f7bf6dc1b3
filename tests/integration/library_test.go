package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
	"github.com/MrSnakeDoc/newsstand/internal/index"
	"github.com/MrSnakeDoc/newsstand/internal/library"
	"github.com/MrSnakeDoc/newsstand/internal/logger"
)

// memPersister implements library.Persister in memory so the scenario
// runs without Redis.
type memPersister struct {
	mu    sync.Mutex
	snaps map[string]*domain.Snapshot
	saves int
}

func (p *memPersister) LoadSnapshot(_ context.Context, userID string) (*domain.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snaps[userID], nil
}

func (p *memPersister) SaveSnapshot(_ context.Context, userID string, snap *domain.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snaps == nil {
		p.snaps = make(map[string]*domain.Snapshot)
	}
	p.snaps[userID] = snap
	p.saves++
	return nil
}

// TestLibraryLifecycle walks a reader through a full session: open a
// fresh library, organize collections, bookmark searched articles,
// move one, check stats, then reopen from the persisted snapshot.
func TestLibraryLifecycle(t *testing.T) {
	log := logger.New("error", false)
	persister := &memPersister{}
	manager := library.NewManager(persister, log)
	ctx := context.Background()

	lib, err := manager.Open(ctx, "reader-1")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	// Fresh users get the seeded default collections.
	defaults := lib.Collections()
	if len(defaults) != 4 {
		t.Fatalf("expected 4 default collections, got %d", len(defaults))
	}

	climate, err := lib.CreateCollection(ctx, library.CollectionDraft{
		Name:  "Climate",
		Color: "#22c55e",
	})
	if err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}

	// Articles arrive from a search and land in the index.
	memIndex := index.NewMemoryIndex()
	articles := []domain.Article{
		{Title: "Sea levels rising", URL: "https://example.com/sea", PublishedAt: time.Now()},
		{Title: "Heat records fall", URL: "https://example.com/heat", PublishedAt: time.Now()},
		{Title: "Go 1.26 released", URL: "https://example.com/go", PublishedAt: time.Now()},
	}
	memIndex.Remember(articles)

	if _, err := lib.AddBookmark(ctx, "https://example.com/sea", climate.ID, "for the report"); err != nil {
		t.Fatalf("AddBookmark failed: %v", err)
	}
	if _, err := lib.AddBookmark(ctx, "https://example.com/heat", climate.ID, ""); err != nil {
		t.Fatalf("AddBookmark failed: %v", err)
	}
	// One unfiled bookmark.
	if _, err := lib.AddBookmark(ctx, "https://example.com/go", "", ""); err != nil {
		t.Fatalf("AddBookmark failed: %v", err)
	}

	stats := lib.Stats()
	if stats.TotalBookmarks != 3 {
		t.Errorf("expected 3 bookmarks, got %d", stats.TotalBookmarks)
	}
	if stats.MostUsedCollection == nil || stats.MostUsedCollection.ID != climate.ID {
		t.Errorf("expected Climate as most used collection, got %+v", stats.MostUsedCollection)
	}
	if stats.RecentBookmarks != 3 {
		t.Errorf("expected 3 recent bookmarks, got %d", stats.RecentBookmarks)
	}

	// Move the Go article into Climate too.
	target := climate.ID
	if _, err := lib.UpdateBookmark(ctx, "https://example.com/go", library.BookmarkPatch{
		CollectionID: &target,
	}); err != nil {
		t.Fatalf("UpdateBookmark failed: %v", err)
	}

	listed := lib.ListBookmarksWithArticles(memIndex.GetAll())
	if len(listed) != 3 {
		t.Fatalf("expected 3 joined bookmarks, got %d", len(listed))
	}
	for _, item := range listed {
		if item.Collection == nil || item.Collection.Name != "Climate" {
			t.Errorf("expected every bookmark filed in Climate, got %+v", item.Collection)
		}
	}

	// Evict and reopen: state must survive through the persister.
	if evicted := manager.EvictIdle(0); evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}

	reopened, err := manager.Open(ctx, "reader-1")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if got := len(reopened.Bookmarks()); got != 3 {
		t.Errorf("expected 3 bookmarks after reopen, got %d", got)
	}
	if got := len(reopened.Collections()); got != 5 {
		t.Errorf("expected 5 collections after reopen, got %d", got)
	}

	// Cascade delete drops the filed bookmarks but not the library.
	if err := reopened.DeleteCollection(ctx, climate.ID); err != nil {
		t.Fatalf("DeleteCollection failed: %v", err)
	}
	if got := len(reopened.Bookmarks()); got != 0 {
		t.Errorf("expected 0 bookmarks after cascade delete, got %d", got)
	}

	stats = reopened.Stats()
	if stats.TotalCollections != 4 {
		t.Errorf("expected 4 collections in stats, got %d", stats.TotalCollections)
	}
	if stats.MostUsedCollection != nil {
		t.Errorf("expected no most used collection, got %+v", stats.MostUsedCollection)
	}
}
