package library

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
	"github.com/MrSnakeDoc/newsstand/internal/errors"
	"github.com/MrSnakeDoc/newsstand/internal/logger"
)

// memPersister is an in-memory Persister with a switchable failure mode.
type memPersister struct {
	snaps    map[string]*domain.Snapshot
	failSave bool
	saves    int
}

func newMemPersister() *memPersister {
	return &memPersister{snaps: make(map[string]*domain.Snapshot)}
}

func (p *memPersister) LoadSnapshot(_ context.Context, userID string) (*domain.Snapshot, error) {
	return p.snaps[userID], nil
}

func (p *memPersister) SaveSnapshot(_ context.Context, userID string, snap *domain.Snapshot) error {
	if p.failSave {
		return errors.Internal("save failed")
	}
	p.saves++
	p.snaps[userID] = snap
	return nil
}

// testClock advances by one second per call, so every mutation gets a
// distinct timestamp.
type testClock struct {
	t time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func testLogger() logger.Logger {
	return logger.New("error", false)
}

func newTestStore(t *testing.T) (*Store, *memPersister, *testClock) {
	t.Helper()
	p := newMemPersister()
	clock := newTestClock()
	s := newStore("user-1", &domain.Snapshot{}, p, testLogger(), clock.Now)
	return s, p, clock
}

func mustCreate(t *testing.T, s *Store, name string) *domain.Collection {
	t.Helper()
	col, err := s.CreateCollection(context.Background(), CollectionDraft{Name: name, Color: domain.CollectionColors[0]})
	require.NoError(t, err)
	return col
}

func strptr(s string) *string { return &s }

func TestCreateCollection(t *testing.T) {
	s, _, _ := newTestStore(t)

	col, err := s.CreateCollection(context.Background(), CollectionDraft{
		Name:        "  Reading List  ",
		Description: "to read later",
		Color:       "#667eea",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, col.ID)
	assert.Equal(t, "Reading List", col.Name, "name should be trimmed")
	assert.Equal(t, 0, col.ArticleCount)
	assert.Equal(t, col.CreatedAt, col.UpdatedAt)
}

func TestCreateCollectionEmptyName(t *testing.T) {
	s, _, _ := newTestStore(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := s.CreateCollection(context.Background(), CollectionDraft{Name: name})
		assert.True(t, errors.Is(err, errors.Validation("")), "name %q should be rejected", name)
	}
}

func TestUpdateCollection(t *testing.T) {
	s, _, _ := newTestStore(t)
	col := mustCreate(t, s, "Reading List")

	updated, err := s.UpdateCollection(context.Background(), col.ID, CollectionPatch{
		Name:  strptr("Weekend Reads"),
		Color: strptr("#ff6b6b"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Weekend Reads", updated.Name)
	assert.Equal(t, "#ff6b6b", updated.Color)
	assert.Equal(t, col.ID, updated.ID)
	assert.Equal(t, col.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(col.UpdatedAt), "update must touch UpdatedAt")
}

func TestUpdateCollectionNotFound(t *testing.T) {
	s, _, _ := newTestStore(t)

	_, err := s.UpdateCollection(context.Background(), "nope", CollectionPatch{Name: strptr("x")})
	assert.True(t, errors.Is(err, errors.NotFound("")))
}

func TestDeleteCollectionCascade(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	a := mustCreate(t, s, "A")
	b := mustCreate(t, s, "B")

	for _, url := range []string{"url-1", "url-2", "url-3"} {
		_, err := s.AddBookmark(ctx, url, a.ID, "")
		require.NoError(t, err)
	}
	_, err := s.AddBookmark(ctx, "url-4", b.ID, "")
	require.NoError(t, err)

	require.NoError(t, s.DeleteCollection(ctx, a.ID))

	bms := s.Bookmarks()
	require.Len(t, bms, 1, "cascade should drop A's bookmarks outright")
	assert.Equal(t, "url-4", bms[0].ArticleID)

	cols := s.Collections()
	require.Len(t, cols, 1)
	assert.Equal(t, b.ID, cols[0].ID)
	assert.Equal(t, 1, cols[0].ArticleCount, "other collections' counts are unaffected")
}

func TestDeleteCollectionNotFound(t *testing.T) {
	s, _, _ := newTestStore(t)
	err := s.DeleteCollection(context.Background(), "nope")
	assert.True(t, errors.Is(err, errors.NotFound("")))
}

func TestAddBookmarkIncrementsCount(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	col := mustCreate(t, s, "Reading List")

	bm, err := s.AddBookmark(ctx, "https://example.com/a", col.ID, "interesting")
	require.NoError(t, err)
	assert.NotEmpty(t, bm.ID)
	assert.Equal(t, col.ID, bm.CollectionID)
	assert.Equal(t, "interesting", bm.Note)

	cols := s.Collections()
	assert.Equal(t, 1, cols[0].ArticleCount)
	assert.True(t, cols[0].UpdatedAt.After(col.UpdatedAt))
}

func TestAddBookmarkUnfiled(t *testing.T) {
	s, _, _ := newTestStore(t)

	bm, err := s.AddBookmark(context.Background(), "https://example.com/a", "", "")
	require.NoError(t, err)
	assert.Empty(t, bm.CollectionID)
}

func TestAddBookmarkUnknownCollection(t *testing.T) {
	s, _, _ := newTestStore(t)

	_, err := s.AddBookmark(context.Background(), "https://example.com/a", "nope", "")
	assert.True(t, errors.Is(err, errors.NotFound("")))
	assert.Empty(t, s.Bookmarks(), "failed add must not leave a bookmark behind")
}

func TestAddBookmarkReplacesDuplicate(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	a := mustCreate(t, s, "A")
	b := mustCreate(t, s, "B")

	first, err := s.AddBookmark(ctx, "url-1", a.ID, "old note")
	require.NoError(t, err)

	second, err := s.AddBookmark(ctx, "url-1", b.ID, "new note")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "re-adding must replace, not duplicate")
	assert.Equal(t, b.ID, second.CollectionID)
	assert.Equal(t, "new note", second.Note)
	assert.True(t, second.AddedAt.After(first.AddedAt))

	require.Len(t, s.Bookmarks(), 1)
	cols := s.Collections()
	assert.Equal(t, 0, cols[0].ArticleCount, "count moved away from A")
	assert.Equal(t, 1, cols[1].ArticleCount, "count moved to B")
}

func TestAddBookmarkReplaceSameCollection(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	col := mustCreate(t, s, "A")

	_, err := s.AddBookmark(ctx, "url-1", col.ID, "")
	require.NoError(t, err)
	_, err = s.AddBookmark(ctx, "url-1", col.ID, "noted")
	require.NoError(t, err)

	cols := s.Collections()
	assert.Equal(t, 1, cols[0].ArticleCount, "same-collection replace must not double count")
}

func TestRemoveBookmark(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	col := mustCreate(t, s, "A")

	_, err := s.AddBookmark(ctx, "url-1", col.ID, "")
	require.NoError(t, err)
	require.NoError(t, s.RemoveBookmark(ctx, "url-1"))

	assert.Empty(t, s.Bookmarks())
	assert.Equal(t, 0, s.Collections()[0].ArticleCount)
}

func TestRemoveBookmarkMissingIsNoop(t *testing.T) {
	s, p, _ := newTestStore(t)
	ctx := context.Background()
	col := mustCreate(t, s, "A")
	_, err := s.AddBookmark(ctx, "url-1", col.ID, "")
	require.NoError(t, err)

	colsBefore := s.Collections()
	bmsBefore := s.Bookmarks()
	savesBefore := p.saves

	require.NoError(t, s.RemoveBookmark(ctx, "never-bookmarked"))

	assert.Equal(t, colsBefore, s.Collections(), "state must be identical")
	assert.Equal(t, bmsBefore, s.Bookmarks())
	assert.Equal(t, savesBefore, p.saves, "no-op must not persist")
}

func TestUpdateBookmarkMove(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	a := mustCreate(t, s, "A")
	b := mustCreate(t, s, "B")

	_, err := s.AddBookmark(ctx, "url-1", a.ID, "")
	require.NoError(t, err)

	moved, err := s.UpdateBookmark(ctx, "url-1", BookmarkPatch{CollectionID: &b.ID})
	require.NoError(t, err)
	assert.Equal(t, b.ID, moved.CollectionID)

	cols := s.Collections()
	assert.Equal(t, 0, cols[0].ArticleCount)
	assert.Equal(t, 1, cols[1].ArticleCount)
}

func TestUpdateBookmarkMoveToUnknownCollection(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	a := mustCreate(t, s, "A")
	_, err := s.AddBookmark(ctx, "url-1", a.ID, "")
	require.NoError(t, err)

	_, err = s.UpdateBookmark(ctx, "url-1", BookmarkPatch{CollectionID: strptr("nope")})
	assert.True(t, errors.Is(err, errors.NotFound("")))

	// Failed move must leave the old filing fully intact.
	assert.Equal(t, 1, s.Collections()[0].ArticleCount)
	assert.Equal(t, a.ID, s.Bookmarks()[0].CollectionID)
}

func TestUpdateBookmarkNoteOnly(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	a := mustCreate(t, s, "A")
	_, err := s.AddBookmark(ctx, "url-1", a.ID, "old")
	require.NoError(t, err)

	bm, err := s.UpdateBookmark(ctx, "url-1", BookmarkPatch{Note: strptr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", bm.Note)
	assert.Equal(t, a.ID, bm.CollectionID, "note update must not touch filing")
	assert.Equal(t, 1, s.Collections()[0].ArticleCount)
}

func TestUpdateBookmarkUnfile(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	a := mustCreate(t, s, "A")
	_, err := s.AddBookmark(ctx, "url-1", a.ID, "")
	require.NoError(t, err)

	bm, err := s.UpdateBookmark(ctx, "url-1", BookmarkPatch{CollectionID: strptr("")})
	require.NoError(t, err)
	assert.Empty(t, bm.CollectionID)
	assert.Equal(t, 0, s.Collections()[0].ArticleCount)
}

// Spec'd end-to-end scenario: add to c1, move to c2, delete c2.
func TestCollectionLifecycleScenario(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	c1 := mustCreate(t, s, "Reading List")
	c2 := mustCreate(t, s, "Favorites")

	_, err := s.AddBookmark(ctx, "url-1", c1.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Collections()[0].ArticleCount)

	_, err = s.UpdateBookmark(ctx, "url-1", BookmarkPatch{CollectionID: &c2.ID})
	require.NoError(t, err)
	cols := s.Collections()
	assert.Equal(t, 0, cols[0].ArticleCount)
	assert.Equal(t, 1, cols[1].ArticleCount)

	require.NoError(t, s.DeleteCollection(ctx, c2.ID))
	assert.Empty(t, s.Bookmarks(), "cascade removes the moved bookmark")
	cols = s.Collections()
	require.Len(t, cols, 1)
	assert.Equal(t, c1.ID, cols[0].ID)
	assert.Equal(t, 0, cols[0].ArticleCount)
}

// Persistence policy: mutate a copy, save, swap only on success.
func TestSaveFailureRollsBack(t *testing.T) {
	s, p, _ := newTestStore(t)
	ctx := context.Background()
	col := mustCreate(t, s, "A")
	_, err := s.AddBookmark(ctx, "url-1", col.ID, "")
	require.NoError(t, err)

	p.failSave = true

	_, err = s.CreateCollection(ctx, CollectionDraft{Name: "B"})
	assert.True(t, errors.Is(err, errors.Unavailable("")))
	assert.Len(t, s.Collections(), 1)

	_, err = s.AddBookmark(ctx, "url-2", col.ID, "")
	assert.True(t, errors.Is(err, errors.Unavailable("")))
	assert.Len(t, s.Bookmarks(), 1)
	assert.Equal(t, 1, s.Collections()[0].ArticleCount, "failed add must not bump the count")

	err = s.DeleteCollection(ctx, col.ID)
	assert.True(t, errors.Is(err, errors.Unavailable("")))
	assert.Len(t, s.Collections(), 1)
	assert.Len(t, s.Bookmarks(), 1, "failed cascade must not drop bookmarks")

	p.failSave = false
	_, err = s.CreateCollection(ctx, CollectionDraft{Name: "B"})
	require.NoError(t, err, "store must recover once persistence is back")
	assert.Len(t, s.Collections(), 2)
}
