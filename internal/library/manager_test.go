package library

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/newsstand/internal/errors"
)

func TestManagerSeedsNewLibrary(t *testing.T) {
	p := newMemPersister()
	m := NewManager(p, testLogger())

	s, err := m.Open(context.Background(), "user-1")
	require.NoError(t, err)

	cols := s.Collections()
	require.Len(t, cols, 4, "new users get the default collections")
	assert.Equal(t, "Reading List", cols[0].Name)
	for _, col := range cols {
		assert.Equal(t, 0, col.ArticleCount)
	}

	require.NotNil(t, p.snaps["user-1"], "seed must be persisted immediately")
}

func TestManagerReusesStore(t *testing.T) {
	p := newMemPersister()
	m := NewManager(p, testLogger())
	ctx := context.Background()

	s1, err := m.Open(ctx, "user-1")
	require.NoError(t, err)
	s2, err := m.Open(ctx, "user-1")
	require.NoError(t, err)
	assert.Same(t, s1, s2, "same user must get the same single-writer store")

	other, err := m.Open(ctx, "user-2")
	require.NoError(t, err)
	assert.NotSame(t, s1, other)
}

func TestManagerLoadsExistingSnapshot(t *testing.T) {
	p := newMemPersister()
	m := NewManager(p, testLogger())
	ctx := context.Background()

	s, err := m.Open(ctx, "user-1")
	require.NoError(t, err)
	col, err := s.CreateCollection(ctx, CollectionDraft{Name: "Mine"})
	require.NoError(t, err)

	// Evict and reopen; the created collection must survive.
	evicted := m.EvictIdle(0)
	require.Equal(t, 1, evicted)

	reopened, err := m.Open(ctx, "user-1")
	require.NoError(t, err)
	assert.NotSame(t, s, reopened)

	names := make([]string, 0)
	for _, c := range reopened.Collections() {
		if c.ID == col.ID {
			names = append(names, c.Name)
		}
	}
	assert.Equal(t, []string{"Mine"}, names)
}

func TestManagerEvictIdle(t *testing.T) {
	p := newMemPersister()
	m := NewManager(p, testLogger())
	ctx := context.Background()

	_, err := m.Open(ctx, "user-1")
	require.NoError(t, err)
	_, err = m.Open(ctx, "user-2")
	require.NoError(t, err)
	require.Equal(t, 2, m.Count())

	assert.Equal(t, 0, m.EvictIdle(time.Hour), "fresh stores are kept")
	assert.Equal(t, 2, m.Count())

	assert.Equal(t, 2, m.EvictIdle(0))
	assert.Equal(t, 0, m.Count())
}

func TestManagerEmptyUserID(t *testing.T) {
	m := NewManager(newMemPersister(), testLogger())
	_, err := m.Open(context.Background(), "")
	assert.True(t, errors.Is(err, errors.Validation("")))
}
