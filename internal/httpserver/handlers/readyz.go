package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/newsstand/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newsstand/internal/logger"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Redis string `json:"redis"`
}

// Readyz reports whether the service can take traffic. Redis is the
// only hard dependency; the article source degrades gracefully.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.Ping(r.Context()); err != nil {
			d.Logger.Warn("readiness check failed", logger.Error(err))
			respondJSON(w, http.StatusServiceUnavailable, readyzResponse{
				Ready: false,
				Redis: "down",
			})
			return
		}

		respondJSON(w, http.StatusOK, readyzResponse{
			Ready: true,
			Redis: "ok",
		})
	}
}
