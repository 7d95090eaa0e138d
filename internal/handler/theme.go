package handler

import (
	"encoding/json"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/joestump/lms-portal/internal/metrics"
	"github.com/joestump/lms-portal/internal/theme"
)

// ThemeHandler handles the theme toggle endpoint.
type ThemeHandler struct {
	themes *theme.Factory
	logger *zap.Logger
}

func NewThemeHandler(tf *theme.Factory, logger *zap.Logger) *ThemeHandler {
	return &ThemeHandler{themes: tf, logger: logger}
}

// Toggle handles POST /theme. No auth required. An explicit theme form value
// is applied as given; otherwise the request's current theme is flipped.
func (h *ThemeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	requested := r.PostFormValue("theme")
	var want theme.Theme
	if requested != "" {
		t, ok := theme.Parse(requested)
		if !ok {
			http.Error(w, "invalid theme", http.StatusBadRequest)
			return
		}
		want = t
	}

	res := h.themes.Resolver(w, r, nil)
	next := want
	if next == "" {
		next = res.Toggle(r.Context())
	} else {
		res.Apply(r.Context(), next)
	}
	metrics.ThemeTogglesTotal.WithLabelValues(string(next)).Inc()
	h.logger.Debug("theme changed", zap.String("theme", string(next)))

	switch {
	case wantsJSON(r):
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"theme": string(next)})
	case isHTMX(r):
		trigger, _ := json.Marshal(map[string]any{
			"themeChanged": map[string]string{"theme": string(next)},
		})
		w.Header().Set("HX-Trigger", string(trigger))
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Redirect(w, r, backTo(r), http.StatusSeeOther)
	}
}

// backTo returns the same-origin Referer path, or "/".
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Host != r.Host || ref.Path == "" {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}
