package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newsstand/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newsstand/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/newsstand/internal/httpserver/mw"
)

func init() { Register(registerNews) }

func registerNews(r chi.Router, d deps.Deps) {
	authed := r.With(mw.Auth(d.Identity.Tokens()))
	authed.Get("/api/news/search", handlers.SearchNews(d))
	authed.Get("/api/news/headlines", handlers.TopHeadlines(d))
	authed.Get("/api/news/categories", handlers.Categories(d))
}
