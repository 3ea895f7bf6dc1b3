package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
	"github.com/MrSnakeDoc/newsstand/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newsstand/internal/httpserver/mw"
	"github.com/MrSnakeDoc/newsstand/internal/library"
)

// openLibrary loads the caller's library store.
func openLibrary(r *http.Request, d deps.Deps) (*library.Store, error) {
	return d.Libraries.Open(r.Context(), mw.UserID(r.Context()))
}

type collectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type collectionPatchRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

// ListCollections returns the caller's collections.
func ListCollections(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lib, err := openLibrary(r, d)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string][]*domain.Collection{
			"collections": lib.Collections(),
		})
	}
}

// CreateCollection creates a collection.
func CreateCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req collectionRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, d.Logger, err)
			return
		}

		lib, err := openLibrary(r, d)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}

		col, err := lib.CreateCollection(r.Context(), library.CollectionDraft{
			Name:        req.Name,
			Description: req.Description,
			Color:       req.Color,
		})
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusCreated, col)
	}
}

// UpdateCollection updates a collection's fields.
func UpdateCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req collectionPatchRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, d.Logger, err)
			return
		}

		lib, err := openLibrary(r, d)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}

		col, err := lib.UpdateCollection(r.Context(), chi.URLParam(r, "id"), library.CollectionPatch{
			Name:        req.Name,
			Description: req.Description,
			Color:       req.Color,
		})
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, col)
	}
}

// DeleteCollection deletes a collection and every bookmark filed in it.
func DeleteCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lib, err := openLibrary(r, d)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}

		if err := lib.DeleteCollection(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// CollectionColors returns the palette the UI offers for new
// collections.
func CollectionColors(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string][]string{
			"colors": domain.CollectionColors,
		})
	}
}
