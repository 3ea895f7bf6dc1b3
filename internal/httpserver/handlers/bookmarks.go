package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
	"github.com/MrSnakeDoc/newsstand/internal/errors"
	"github.com/MrSnakeDoc/newsstand/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newsstand/internal/library"
)

type addBookmarkRequest struct {
	// ArticleID is the article URL. The article itself should be in
	// the in-memory index from a prior search or headlines call.
	ArticleID    string `json:"articleId"`
	CollectionID string `json:"collectionId"`
	Note         string `json:"note"`
}

type bookmarkPatchRequest struct {
	CollectionID *string `json:"collectionId"`
	Note         *string `json:"note"`
}

// ListBookmarks returns the caller's bookmarks joined with their
// articles, most recent first. Bookmarks whose article is no longer in
// the index are omitted.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lib, err := openLibrary(r, d)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}

		items := lib.ListBookmarksWithArticles(d.Index.GetAll())
		respondJSON(w, http.StatusOK, map[string][]domain.ArticleWithBookmark{
			"bookmarks": items,
		})
	}
}

// AddBookmark saves an article, optionally filed into a collection.
// Re-bookmarking an already-saved article replaces the existing
// bookmark.
func AddBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addBookmarkRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		if req.ArticleID == "" {
			respondError(w, d.Logger, errors.Validation("articleId is required"))
			return
		}

		lib, err := openLibrary(r, d)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}

		bm, err := lib.AddBookmark(r.Context(), req.ArticleID, req.CollectionID, req.Note)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusCreated, bm)
	}
}

// RemoveBookmark deletes the bookmark for an article. Removing an
// article that is not bookmarked succeeds without effect.
func RemoveBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articleID := r.URL.Query().Get("articleId")
		if articleID == "" {
			respondError(w, d.Logger, errors.Validation("articleId query parameter is required"))
			return
		}

		lib, err := openLibrary(r, d)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}

		if err := lib.RemoveBookmark(r.Context(), articleID); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// UpdateBookmark moves a bookmark between collections and/or edits its
// note.
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articleID := r.URL.Query().Get("articleId")
		if articleID == "" {
			respondError(w, d.Logger, errors.Validation("articleId query parameter is required"))
			return
		}

		var req bookmarkPatchRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, d.Logger, err)
			return
		}

		lib, err := openLibrary(r, d)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}

		bm, err := lib.UpdateBookmark(r.Context(), articleID, library.BookmarkPatch{
			CollectionID: req.CollectionID,
			Note:         req.Note,
		})
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, bm)
	}
}

// LibraryStats returns collection, bookmark and recency counters.
func LibraryStats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lib, err := openLibrary(r, d)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, lib.Stats())
	}
}
