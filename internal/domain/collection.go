package domain

import "time"

// Collection is a named, colored grouping of bookmarked articles.
type Collection struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier, assigned at creation.
	ID string `json:"id"`

	// ─────────────────────────────
	// User-editable fields
	// ─────────────────────────────

	// Name is the display name. Never empty.
	Name string `json:"name"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// Color is a hex color from the fixed palette.
	Color string `json:"color"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is the creation time.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt advances on every field mutation, including count changes.
	UpdatedAt time.Time `json:"updatedAt"`

	// ─────────────────────────────
	// Derived state
	// ─────────────────────────────

	// ArticleCount is a cached derived value. It always equals the
	// number of bookmarks filed into this collection; the library store
	// updates it in the same step as any membership change.
	ArticleCount int `json:"articleCount"`
}

// Bookmark is a user's saved reference to one article.
// At most one bookmark exists per distinct article URL.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier.
	ID string `json:"id"`

	// ArticleID is the article's canonical URL. Foreign key into the
	// article source's result set; never validated against it.
	ArticleID string `json:"articleId"`

	// ─────────────────────────────
	// Filing
	// ─────────────────────────────

	// CollectionID is the collection this bookmark is filed into.
	// Empty means unfiled. When set it references a live collection;
	// deleting that collection deletes the bookmark (cascade).
	CollectionID string `json:"collectionId,omitempty"`

	// Note is an optional user annotation.
	Note string `json:"note,omitempty"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// AddedAt is refreshed whenever the bookmark is (re-)added.
	AddedAt time.Time `json:"addedAt"`
}

// ArticleWithBookmark joins a bookmark to its article and, when the
// bookmark is filed, to its collection.
type ArticleWithBookmark struct {
	Article    Article     `json:"article"`
	Bookmark   Bookmark    `json:"bookmark"`
	Collection *Collection `json:"collection,omitempty"`
}

// Snapshot is the full serialized library state for one user, as
// exchanged with the persistent store. There is no delta persistence.
type Snapshot struct {
	Collections []*Collection `json:"collections"`
	Bookmarks   []*Bookmark   `json:"bookmarks"`
}

// LibraryStats summarizes a user's library.
type LibraryStats struct {
	TotalCollections int `json:"totalCollections"`
	TotalBookmarks   int `json:"totalBookmarks"`

	// MostUsedCollection is the collection with the most bookmarks,
	// among collections holding at least one. Nil when none qualifies.
	MostUsedCollection *Collection `json:"mostUsedCollection,omitempty"`

	// RecentBookmarks counts bookmarks added within the trailing 7 days.
	RecentBookmarks int `json:"recentBookmarks"`
}

// CollectionColors is the fixed palette the UI offers for collections.
var CollectionColors = []string{
	"#667eea", "#ff6b6b", "#4ecdc4", "#45b7d1", "#96ceb4",
	"#feca57", "#ff9ff3", "#54a0ff", "#5f27cd", "#00d2d3",
	"#ff9f43", "#10ac84", "#ee5253", "#0abde3", "#48dbfb",
}

// DefaultCollections returns the starter collections seeded into a
// brand-new user's library.
func DefaultCollections(now time.Time) []*Collection {
	mk := func(id, name, description, color string) *Collection {
		return &Collection{
			ID:          id,
			Name:        name,
			Description: description,
			Color:       color,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}
	return []*Collection{
		mk("reading-list", "Reading List", "Articles to read later", "#667eea"),
		mk("favorites", "Favorites", "Your favorite articles", "#ff6b6b"),
		mk("tech-news", "Tech News", "Technology and innovation articles", "#4ecdc4"),
		mk("business", "Business", "Business and finance articles", "#45b7d1"),
	}
}
