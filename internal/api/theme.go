package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/joestump/lms-portal/internal/metrics"
	"github.com/joestump/lms-portal/internal/theme"
)

// ThemeResponse is the body of GET and PUT /api/v1/theme.
type ThemeResponse struct {
	Theme  theme.Theme  `json:"theme"`
	Source theme.Source `json:"source"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

type ThemeAPI struct {
	themes *theme.Factory
	logger *zap.Logger
}

// Get handles GET /api/v1/theme.
func (a *ThemeAPI) Get(w http.ResponseWriter, r *http.Request) {
	res := a.themes.ForRequest(w, r, nil)
	writeJSON(w, http.StatusOK, ThemeResponse{Theme: res.Current(), Source: res.Source()})
}

// Put handles PUT /api/v1/theme.
func (a *ThemeAPI) Put(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "invalid_body")
		return
	}
	t, ok := theme.Parse(req.Theme)
	if !ok {
		writeError(w, http.StatusBadRequest, `theme must be "light" or "dark"`, "invalid_theme")
		return
	}

	res := a.themes.Resolver(w, r, nil)
	res.Apply(r.Context(), t)
	metrics.ThemeTogglesTotal.WithLabelValues(string(t)).Inc()
	writeJSON(w, http.StatusOK, ThemeResponse{Theme: res.Current(), Source: res.Source()})
}
