package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newsstand/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newsstand/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/newsstand/internal/httpserver/mw"
)

func init() { Register(registerAdmin) }

func registerAdmin(r chi.Router, d deps.Deps) {
	admin := r.With(mw.Auth(d.Identity.Tokens()), mw.RequireAdmin())

	admin.Get("/api/admin/users", handlers.AdminListUsers(d))
	admin.Patch("/api/admin/users/{id}/active", handlers.AdminSetActive(d))
	admin.Patch("/api/admin/users/{id}/role", handlers.AdminSetRole(d))
	admin.Delete("/api/admin/users/{id}", handlers.AdminDeleteUser(d))
	admin.Post("/api/admin/catalog/reload", handlers.AdminReloadCatalog(d))
}
