package handler

import (
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/joestump/lms-portal/internal/api"
	"github.com/joestump/lms-portal/internal/auth"
	"github.com/joestump/lms-portal/internal/logging"
	"github.com/joestump/lms-portal/internal/store"
	"github.com/joestump/lms-portal/internal/theme"
	"github.com/joestump/lms-portal/web"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	SessionManager   *scs.SessionManager
	AuthHandlers     *auth.Handlers
	AuthMiddleware   *auth.Middleware
	UserStore        *store.UserStore
	CourseStore      *store.CourseStore
	EventStore       *store.EventStore
	TestimonialStore *store.TestimonialStore
	SecureCookies    bool
	Logger           *zap.Logger
}

// NewThemeFactory returns the resolver factory shared by pages and the API.
// Signed-in users' saved theme takes precedence over the cookie.
func NewThemeFactory(users *store.UserStore, secure bool, logger *zap.Logger) *theme.Factory {
	return &theme.Factory{
		Secure: secure,
		Logger: logger.Named("theme"),
		Preferences: func(r *http.Request) []theme.Store {
			if u := auth.UserFromContext(r.Context()); u != nil {
				return []theme.Store{users.ThemeStore(u.ID)}
			}
			return nil
		},
	}
}

// NewRouter assembles the chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(deps.SessionManager.LoadAndSave)

	// Embedded static assets, served as /static/css/app.css etc.
	staticSub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("failed to sub static FS: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static", http.FileServerFS(staticSub)))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/auth/login", deps.AuthHandlers.Login)
	r.Get("/auth/callback", deps.AuthHandlers.Callback)
	r.Post("/auth/logout", deps.AuthHandlers.Logout)

	themes := NewThemeFactory(deps.UserStore, deps.SecureCookies, deps.Logger)
	pages := NewPages(themes, deps.CourseStore, deps.EventStore, deps.TestimonialStore, deps.Logger)
	themeHandler := NewThemeHandler(themes, deps.Logger)

	r.Group(func(r chi.Router) {
		r.Use(deps.AuthMiddleware.OptionalUser)
		r.Use(theme.ClientHints)

		r.Get("/", pages.Home)
		r.Post("/theme", themeHandler.Toggle)
		r.NotFound(pages.NotFound)

		r.Mount("/api/v1", api.NewAPIRouter(api.Deps{Themes: themes, Logger: deps.Logger}))

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Get("/dashboard", pages.Dashboard)
		})
	})

	return r
}
