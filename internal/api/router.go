// Package api serves the JSON endpoints under /api/v1.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/joestump/lms-portal/internal/theme"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	Themes *theme.Factory
	Logger *zap.Logger
}

// NewAPIRouter creates a chi sub-router for /api/v1. The session user, when
// present, is expected on the request context.
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(jsonContentType)

	th := &ThemeAPI{themes: deps.Themes, logger: deps.Logger}
	r.Get("/theme", th.Get)
	r.Put("/theme", th.Put)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found", "not_found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "method_not_allowed")
	})
	return r
}

// jsonContentType sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
