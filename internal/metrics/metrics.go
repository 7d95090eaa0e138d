// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ThemeTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_theme_toggles_total",
		Help: "Theme changes requested by users, by resulting theme.",
	}, []string{"theme"})

	ThemeResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_theme_resolutions_total",
		Help: "Initial theme resolutions, by deciding source.",
	}, []string{"source"})

	ThemeSaveErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lms_theme_save_errors_total",
		Help: "Theme preference writes that failed and were ignored.",
	})

	PageRendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_page_renders_total",
		Help: "Full page renders, by page and status.",
	}, []string{"page", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lms_http_request_duration_seconds",
		Help:    "Time to serve HTTP requests.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	}, []string{"method", "status"})
)
