package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newsstand/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newsstand/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/newsstand/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	// Credential endpoints get a tight per-IP budget.
	limited := r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             10,
		RefillPerIPPerMin: 10,
		MaxEntries:        10000,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	}))
	limited.Post("/api/auth/register", handlers.Register(d))
	limited.Post("/api/auth/login", handlers.Login(d))
	limited.Get("/api/auth/check-email", handlers.CheckEmail(d))
	limited.Post("/api/auth/forgot", handlers.ForgotPassword(d))

	authed := r.With(mw.Auth(d.Identity.Tokens()))
	authed.Post("/api/auth/logout", handlers.Logout(d))
	authed.Get("/api/auth/me", handlers.Me(d))
	authed.Patch("/api/auth/profile", handlers.UpdateProfile(d))
	authed.Post("/api/auth/change-password", handlers.ChangePassword(d))
}
