package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/alexedwards/scs/v2"
	"go.uber.org/zap"

	"github.com/joestump/lms-portal/internal/store"
)

type contextKey string

const userContextKey contextKey = "user"

// Middleware loads the signed-in user from the session.
type Middleware struct {
	sessions *scs.SessionManager
	users    *store.UserStore
	logger   *zap.Logger
}

func NewMiddleware(sm *scs.SessionManager, us *store.UserStore, logger *zap.Logger) *Middleware {
	return &Middleware{sessions: sm, users: us, logger: logger}
}

// RequireAuth redirects to /auth/login when no valid session exists.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := m.loadUser(r)
		if user == nil {
			http.Redirect(w, r, "/auth/login?redirect="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// OptionalUser attaches the user when signed in and passes through otherwise.
func (m *Middleware) OptionalUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := m.loadUser(r); user != nil {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) loadUser(r *http.Request) *store.User {
	userID := m.sessions.GetString(r.Context(), SessionUserIDKey)
	if userID == "" {
		return nil
	}
	user, err := m.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Session references a deleted user.
			_ = m.sessions.Destroy(r.Context())
		} else {
			m.logger.Error("load session user", zap.String("user_id", userID), zap.Error(err))
		}
		return nil
	}
	return user
}

// WithUser returns a context carrying user.
func WithUser(ctx context.Context, user *store.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the signed-in user, or nil.
func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(userContextKey).(*store.User)
	return u
}
