package library

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
	"github.com/MrSnakeDoc/newsstand/internal/errors"
)

// checkInvariants asserts the store's referential invariants:
//
//	I1: every collection's ArticleCount equals its recomputed membership
//	I2: every filed bookmark references a live collection
//	I3: no two bookmarks share an article
//	I4: UpdatedAt >= CreatedAt for every collection
func checkInvariants(t *testing.T, s *Store, step string) {
	t.Helper()

	cols := s.Collections()
	bms := s.Bookmarks()

	known := make(map[string]bool, len(cols))
	membership := make(map[string]int, len(cols))
	for _, col := range cols {
		known[col.ID] = true
		require.False(t, col.UpdatedAt.Before(col.CreatedAt),
			"%s: I4 violated for %s", step, col.Name)
	}

	seen := make(map[string]bool, len(bms))
	for _, bm := range bms {
		require.False(t, seen[bm.ArticleID], "%s: I3 violated for %s", step, bm.ArticleID)
		seen[bm.ArticleID] = true
		if bm.CollectionID != "" {
			require.True(t, known[bm.CollectionID],
				"%s: I2 violated, bookmark %s references dead collection %s",
				step, bm.ArticleID, bm.CollectionID)
			membership[bm.CollectionID]++
		}
	}

	for _, col := range cols {
		require.Equal(t, membership[col.ID], col.ArticleCount,
			"%s: I1 violated for collection %s", step, col.Name)
	}
}

// TestInvariantsUnderRandomOperations drives the store through random
// interleavings of every mutation and checks I1-I4 after each step.
// Operations on missing ids are kept in the mix on purpose; their
// errors are expected, only invariant breakage fails the test.
func TestInvariantsUnderRandomOperations(t *testing.T) {
	const (
		seeds = 20
		steps = 300
	)

	for seed := int64(0); seed < seeds; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			s, _, _ := newTestStore(t)
			ctx := context.Background()
			rng := rand.New(rand.NewSource(seed))

			randomCollectionID := func() string {
				cols := s.Collections()
				switch {
				case len(cols) == 0 || rng.Intn(4) == 0:
					return "" // unfiled
				case rng.Intn(10) == 0:
					return "missing-collection"
				default:
					return cols[rng.Intn(len(cols))].ID
				}
			}
			randomArticleID := func() string {
				return fmt.Sprintf("https://example.com/article-%d", rng.Intn(30))
			}

			for step := 0; step < steps; step++ {
				var err error
				op := rng.Intn(6)
				switch op {
				case 0:
					_, err = s.CreateCollection(ctx, CollectionDraft{
						Name:  fmt.Sprintf("col-%d", step),
						Color: domain.CollectionColors[rng.Intn(len(domain.CollectionColors))],
					})
				case 1:
					name := fmt.Sprintf("renamed-%d", step)
					_, err = s.UpdateCollection(ctx, randomCollectionID(), CollectionPatch{Name: &name})
				case 2:
					err = s.DeleteCollection(ctx, randomCollectionID())
				case 3:
					_, err = s.AddBookmark(ctx, randomArticleID(), randomCollectionID(), "")
				case 4:
					err = s.RemoveBookmark(ctx, randomArticleID())
				case 5:
					target := randomCollectionID()
					_, err = s.UpdateBookmark(ctx, randomArticleID(), BookmarkPatch{CollectionID: &target})
				}

				if err != nil {
					require.True(t,
						errors.Is(err, errors.NotFound("")) || errors.Is(err, errors.Validation("")),
						"step %d op %d: unexpected error %v", step, op, err)
				}
				checkInvariants(t, s, fmt.Sprintf("step %d op %d", step, op))
			}
		})
	}
}

// Deleting a collection with N bookmarks removes exactly those N.
func TestCascadeDeleteArithmetic(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	a := mustCreate(t, s, "A")
	b := mustCreate(t, s, "B")

	const n = 5
	for i := 0; i < n; i++ {
		_, err := s.AddBookmark(ctx, fmt.Sprintf("a-url-%d", i), a.ID, "")
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		_, err := s.AddBookmark(ctx, fmt.Sprintf("b-url-%d", i), b.ID, "")
		require.NoError(t, err)
	}
	_, err := s.AddBookmark(ctx, "unfiled-url", "", "")
	require.NoError(t, err)

	total := len(s.Bookmarks())
	require.NoError(t, s.DeleteCollection(ctx, a.ID))

	require.Len(t, s.Bookmarks(), total-n)
	require.Equal(t, 3, s.Collections()[0].ArticleCount, "B is untouched")
	checkInvariants(t, s, "after cascade")
}
