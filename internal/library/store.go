// Package library implements the per-user collection/bookmark store.
//
// A Store owns one user's collections and bookmarks and keeps the
// denormalized per-collection article counts consistent under every
// mutation. Persistence is transactional: each mutation is applied to a
// copy of the state, the full snapshot is written to the persister, and
// the copy replaces the live state only when the write succeeds. A
// failed write leaves the in-memory state untouched.
package library

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
	"github.com/MrSnakeDoc/newsstand/internal/errors"
	"github.com/MrSnakeDoc/newsstand/internal/logger"
)

// Persister reads and writes full library snapshots for one user.
// Loading a user with no snapshot returns (nil, nil).
type Persister interface {
	LoadSnapshot(ctx context.Context, userID string) (*domain.Snapshot, error)
	SaveSnapshot(ctx context.Context, userID string, snap *domain.Snapshot) error
}

// Store holds one user's library. All operations are serialized by the
// mutex; readers always observe a fully-settled state.
type Store struct {
	mu        sync.Mutex
	userID    string
	persister Persister
	log       logger.Logger
	now       func() time.Time

	collections []*domain.Collection // insertion order, relevant for stats ties
	bookmarks   []*domain.Bookmark
}

// CollectionDraft is the caller-supplied part of a new collection.
type CollectionDraft struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
}

// CollectionPatch updates user-editable collection fields. Nil fields
// are left unchanged. ID, CreatedAt and ArticleCount are store-managed
// and cannot be patched.
type CollectionPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// BookmarkPatch updates bookmark fields. Nil fields are left unchanged.
// An empty CollectionID unfiles the bookmark.
type BookmarkPatch struct {
	CollectionID *string `json:"collectionId,omitempty"`
	Note         *string `json:"note,omitempty"`
}

func newStore(userID string, snap *domain.Snapshot, persister Persister, log logger.Logger, now func() time.Time) *Store {
	return &Store{
		userID:      userID,
		persister:   persister,
		log:         log,
		now:         now,
		collections: snap.Collections,
		bookmarks:   snap.Bookmarks,
	}
}

// CreateCollection adds a new collection with a fresh id and zero count.
func (s *Store) CreateCollection(ctx context.Context, draft CollectionDraft) (*domain.Collection, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return nil, errors.Validation("collection name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	col := &domain.Collection{
		ID:          uuid.NewString(),
		Name:        name,
		Description: draft.Description,
		Color:       draft.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	next := s.clone()
	next.Collections = append(next.Collections, col)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	s.log.Info("collection created",
		logger.String("user_id", s.userID),
		logger.String("collection_id", col.ID),
		logger.String("name", col.Name))
	return cloneCollection(col), nil
}

// UpdateCollection merges patch fields into an existing collection and
// touches UpdatedAt. Any explicit call counts as a touch.
func (s *Store) UpdateCollection(ctx context.Context, id string, patch CollectionPatch) (*domain.Collection, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, errors.Validation("collection name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.clone()
	col := findCollection(next.Collections, id)
	if col == nil {
		return nil, errors.NotFound("collection not found: %s", id)
	}

	if patch.Name != nil {
		col.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		col.Description = *patch.Description
	}
	if patch.Color != nil {
		col.Color = *patch.Color
	}
	col.UpdatedAt = s.now()

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return cloneCollection(col), nil
}

// DeleteCollection removes a collection and cascade-deletes every
// bookmark filed into it. Bookmarks are discarded, not unfiled; other
// collections' counts are unaffected.
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.clone()
	if findCollection(next.Collections, id) == nil {
		return errors.NotFound("collection not found: %s", id)
	}

	kept := next.Collections[:0]
	for _, col := range next.Collections {
		if col.ID != id {
			kept = append(kept, col)
		}
	}
	next.Collections = kept

	dropped := 0
	keptBookmarks := next.Bookmarks[:0]
	for _, bm := range next.Bookmarks {
		if bm.CollectionID == id {
			dropped++
			continue
		}
		keptBookmarks = append(keptBookmarks, bm)
	}
	next.Bookmarks = keptBookmarks

	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.log.Info("collection deleted",
		logger.String("user_id", s.userID),
		logger.String("collection_id", id),
		logger.Int("bookmarks_dropped", dropped))
	return nil
}

// AddBookmark bookmarks an article, optionally filing it into a
// collection. If the article is already bookmarked the existing entry
// is replaced (collection, note, addedAt) rather than duplicated, and
// counts move with it.
func (s *Store) AddBookmark(ctx context.Context, articleID, collectionID, note string) (*domain.Bookmark, error) {
	articleID = strings.TrimSpace(articleID)
	if articleID == "" {
		return nil, errors.Validation("article id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.clone()
	now := s.now()

	var target *domain.Collection
	if collectionID != "" {
		target = findCollection(next.Collections, collectionID)
		if target == nil {
			return nil, errors.NotFound("collection not found: %s", collectionID)
		}
	}

	bm := findBookmark(next.Bookmarks, articleID)
	if bm == nil {
		bm = &domain.Bookmark{
			ID:        uuid.NewString(),
			ArticleID: articleID,
		}
		next.Bookmarks = append(next.Bookmarks, bm)
		if target != nil {
			target.ArticleCount++
			target.UpdatedAt = now
		}
	} else if bm.CollectionID != collectionID {
		// Replace semantics: the bookmark moves, counts move with it.
		if old := findCollection(next.Collections, bm.CollectionID); old != nil {
			decrementCount(old, now)
		}
		if target != nil {
			target.ArticleCount++
			target.UpdatedAt = now
		}
	}

	bm.CollectionID = collectionID
	bm.Note = note
	bm.AddedAt = now

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return cloneBookmark(bm), nil
}

// RemoveBookmark deletes the bookmark for an article. Removing an
// article that is not bookmarked is a no-op, not an error; the store
// state is untouched and nothing is persisted.
func (s *Store) RemoveBookmark(ctx context.Context, articleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if findBookmark(s.bookmarks, articleID) == nil {
		return nil
	}

	next := s.clone()
	now := s.now()

	kept := next.Bookmarks[:0]
	for _, bm := range next.Bookmarks {
		if bm.ArticleID == articleID {
			if col := findCollection(next.Collections, bm.CollectionID); col != nil {
				decrementCount(col, now)
			}
			continue
		}
		kept = append(kept, bm)
	}
	next.Bookmarks = kept

	return s.commit(ctx, next)
}

// UpdateBookmark patches a bookmark. Changing the collection is the
// move path: the old collection's count is decremented and the new
// one's incremented in the same step, so no reader ever observes the
// bookmark and the counts disagreeing.
func (s *Store) UpdateBookmark(ctx context.Context, articleID string, patch BookmarkPatch) (*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.clone()
	bm := findBookmark(next.Bookmarks, articleID)
	if bm == nil {
		return nil, errors.NotFound("bookmark not found for article: %s", articleID)
	}

	now := s.now()
	if patch.CollectionID != nil && *patch.CollectionID != bm.CollectionID {
		newID := *patch.CollectionID
		var target *domain.Collection
		if newID != "" {
			target = findCollection(next.Collections, newID)
			if target == nil {
				return nil, errors.NotFound("collection not found: %s", newID)
			}
		}
		if old := findCollection(next.Collections, bm.CollectionID); old != nil {
			decrementCount(old, now)
		}
		if target != nil {
			target.ArticleCount++
			target.UpdatedAt = now
		}
		bm.CollectionID = newID
	}
	if patch.Note != nil {
		bm.Note = *patch.Note
	}

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return cloneBookmark(bm), nil
}

// Collections returns the user's collections in insertion order.
func (s *Store) Collections() []*domain.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Collection, 0, len(s.collections))
	for _, col := range s.collections {
		out = append(out, cloneCollection(col))
	}
	return out
}

// Bookmarks returns the user's bookmarks in insertion order.
func (s *Store) Bookmarks() []*domain.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Bookmark, 0, len(s.bookmarks))
	for _, bm := range s.bookmarks {
		out = append(out, cloneBookmark(bm))
	}
	return out
}

// commit persists next and swaps it in. Caller holds the mutex.
func (s *Store) commit(ctx context.Context, next *domain.Snapshot) error {
	if err := s.persister.SaveSnapshot(ctx, s.userID, next); err != nil {
		s.log.Error("library snapshot save failed, mutation rolled back",
			logger.String("user_id", s.userID),
			logger.Error(err))
		return errors.Wrap(errors.Unavailable("library persistence unavailable"), err)
	}
	s.collections = next.Collections
	s.bookmarks = next.Bookmarks
	return nil
}

// clone deep-copies the current state. Caller holds the mutex.
func (s *Store) clone() *domain.Snapshot {
	cols := make([]*domain.Collection, 0, len(s.collections))
	for _, col := range s.collections {
		cols = append(cols, cloneCollection(col))
	}
	bms := make([]*domain.Bookmark, 0, len(s.bookmarks))
	for _, bm := range s.bookmarks {
		bms = append(bms, cloneBookmark(bm))
	}
	return &domain.Snapshot{Collections: cols, Bookmarks: bms}
}

func cloneCollection(col *domain.Collection) *domain.Collection {
	c := *col
	return &c
}

func cloneBookmark(bm *domain.Bookmark) *domain.Bookmark {
	b := *bm
	return &b
}

func findCollection(cols []*domain.Collection, id string) *domain.Collection {
	if id == "" {
		return nil
	}
	for _, col := range cols {
		if col.ID == id {
			return col
		}
	}
	return nil
}

func findBookmark(bms []*domain.Bookmark, articleID string) *domain.Bookmark {
	for _, bm := range bms {
		if bm.ArticleID == articleID {
			return bm
		}
	}
	return nil
}

// decrementCount floors at zero so a drifted snapshot cannot push a
// count negative.
func decrementCount(col *domain.Collection, now time.Time) {
	if col.ArticleCount > 0 {
		col.ArticleCount--
	}
	col.UpdatedAt = now
}
