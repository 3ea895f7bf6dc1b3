package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newsstand/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newsstand/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/newsstand/internal/httpserver/mw"
)

func init() { Register(registerLibrary) }

func registerLibrary(r chi.Router, d deps.Deps) {
	authed := r.With(mw.Auth(d.Identity.Tokens()))

	authed.Get("/api/collections", handlers.ListCollections(d))
	authed.Post("/api/collections", handlers.CreateCollection(d))
	authed.Patch("/api/collections/{id}", handlers.UpdateCollection(d))
	authed.Delete("/api/collections/{id}", handlers.DeleteCollection(d))
	authed.Get("/api/collections/colors", handlers.CollectionColors(d))

	authed.Get("/api/bookmarks", handlers.ListBookmarks(d))
	authed.Post("/api/bookmarks", handlers.AddBookmark(d))
	authed.Patch("/api/bookmarks", handlers.UpdateBookmark(d))
	authed.Delete("/api/bookmarks", handlers.RemoveBookmark(d))

	authed.Get("/api/library/stats", handlers.LibraryStats(d))
}
