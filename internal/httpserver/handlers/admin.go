package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
	"github.com/MrSnakeDoc/newsstand/internal/errors"
	"github.com/MrSnakeDoc/newsstand/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newsstand/internal/httpserver/mw"
)

// AdminListUsers returns every account.
func AdminListUsers(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := d.Identity.ListUsers(r.Context())
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string][]*domain.User{"users": users})
	}
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

// AdminSetActive activates or deactivates an account.
func AdminSetActive(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == mw.UserID(r.Context()) {
			respondError(w, d.Logger, errors.Conflict("cannot change your own active flag"))
			return
		}

		var req setActiveRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, d.Logger, err)
			return
		}

		user, err := d.Identity.SetActive(r.Context(), id, req.Active)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, user)
	}
}

type setRoleRequest struct {
	Role domain.Role `json:"role"`
}

// AdminSetRole changes an account's role.
func AdminSetRole(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == mw.UserID(r.Context()) {
			respondError(w, d.Logger, errors.Conflict("cannot change your own role"))
			return
		}

		var req setRoleRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, d.Logger, err)
			return
		}

		user, err := d.Identity.SetRole(r.Context(), id, req.Role)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, user)
	}
}

// AdminDeleteUser removes an account and its library.
func AdminDeleteUser(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == mw.UserID(r.Context()) {
			respondError(w, d.Logger, errors.Conflict("cannot delete your own account"))
			return
		}

		if err := d.Identity.DeleteUser(r.Context(), id); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AdminReloadCatalog triggers a manual catalog reload.
func AdminReloadCatalog(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.CatalogReload == nil {
			respondError(w, d.Logger, errors.Unavailable("catalog reloading is disabled"))
			return
		}

		select {
		case d.CatalogReload <- struct{}{}:
			respondJSON(w, http.StatusAccepted, map[string]bool{"triggered": true})
		default:
			// A reload is already pending.
			respondJSON(w, http.StatusAccepted, map[string]bool{"triggered": false})
		}
	}
}
