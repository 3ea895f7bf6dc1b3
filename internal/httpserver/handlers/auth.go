package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
	"github.com/MrSnakeDoc/newsstand/internal/errors"
	"github.com/MrSnakeDoc/newsstand/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newsstand/internal/httpserver/mw"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token,omitempty"`
}

// Register creates an account.
func Register(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, d.Logger, err)
			return
		}

		user, err := d.Identity.Register(r.Context(), req.Email, req.Password, req.Name)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}

		respondJSON(w, http.StatusCreated, authResponse{User: user})
	}
}

// Login checks credentials and returns a bearer token.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, d.Logger, err)
			return
		}

		user, token, err := d.Identity.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}

		respondJSON(w, http.StatusOK, authResponse{User: user, Token: token})
	}
}

// Logout is a no-op on the server: tokens are stateless and simply
// expire. The endpoint exists so clients have a uniform call to drop
// their session.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// Me returns the authenticated user's profile.
func Me(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := d.Identity.GetUser(r.Context(), mw.UserID(r.Context()))
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, authResponse{User: user})
	}
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UpdateProfile changes the caller's name and/or email.
func UpdateProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateProfileRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, d.Logger, err)
			return
		}

		user, err := d.Identity.UpdateProfile(r.Context(), mw.UserID(r.Context()), req.Name, req.Email)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, authResponse{User: user})
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword rotates the caller's password.
func ChangePassword(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changePasswordRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, d.Logger, err)
			return
		}

		if err := d.Identity.ChangePassword(r.Context(), mw.UserID(r.Context()), req.CurrentPassword, req.NewPassword); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword reports whether an account exists for the email.
// There is no mail delivery here, the client drives the rest of the
// recovery flow.
func ForgotPassword(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forgotPasswordRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		if req.Email == "" {
			respondError(w, d.Logger, errors.Validation("email is required"))
			return
		}

		exists, err := d.Identity.CheckEmailExists(r.Context(), req.Email)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"exists": exists})
	}
}

// CheckEmail reports whether an email is already registered, used by
// signup forms for inline validation.
func CheckEmail(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		if email == "" {
			respondError(w, d.Logger, errors.Validation("email query parameter is required"))
			return
		}

		exists, err := d.Identity.CheckEmailExists(r.Context(), email)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"exists": exists})
	}
}
