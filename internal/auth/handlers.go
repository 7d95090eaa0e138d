package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"go.uber.org/zap"

	"github.com/joestump/lms-portal/internal/store"
)

const (
	cookieState        = "__auth_state"
	cookieCodeVerifier = "__auth_pkce"
	cookieRedirect     = "__auth_redirect"
)

// DemoAccount is signed in when no OIDC provider is configured.
type DemoAccount struct {
	Name  string
	Email string
}

// Handlers serves the login, callback and logout endpoints.
type Handlers struct {
	provider *Provider
	sessions *scs.SessionManager
	users    *store.UserStore
	demo     DemoAccount
	secure   bool
	logger   *zap.Logger
}

// NewHandlers creates Handlers. provider may be nil, in which case Login signs
// in the demo account.
func NewHandlers(p *Provider, sm *scs.SessionManager, us *store.UserStore, demo DemoAccount, secure bool, logger *zap.Logger) *Handlers {
	return &Handlers{provider: p, sessions: sm, users: us, demo: demo, secure: secure, logger: logger}
}

// Login starts the OIDC authorization code flow with PKCE.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	redirect := safeRedirect(r.URL.Query().Get("redirect"))

	if h.provider == nil {
		user, err := h.users.Upsert(r.Context(), "demo", "demo", h.demo.Email, h.demo.Name)
		if err != nil {
			h.logger.Error("demo login", zap.Error(err))
			http.Error(w, "user record error", http.StatusInternalServerError)
			return
		}
		if err := h.startSession(r, user); err != nil {
			http.Error(w, "session error", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, redirect, http.StatusFound)
		return
	}

	state, err := GenerateState()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	verifier, challenge, err := GeneratePKCE()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.setPreAuthCookie(w, cookieState, state)
	h.setPreAuthCookie(w, cookieCodeVerifier, verifier)
	h.setPreAuthCookie(w, cookieRedirect, redirect)

	http.Redirect(w, r, h.provider.AuthCodeURL(state, challenge), http.StatusFound)
}

// Callback handles the OIDC provider redirect after authentication.
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		http.NotFound(w, r)
		return
	}
	stateCookie, err := r.Cookie(cookieState)
	if err != nil || stateCookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}
	verifierCookie, err := r.Cookie(cookieCodeVerifier)
	if err != nil {
		http.Error(w, "missing code verifier", http.StatusBadRequest)
		return
	}

	idToken, err := h.provider.Exchange(r.Context(), r.URL.Query().Get("code"), verifierCookie.Value)
	if err != nil {
		h.logger.Warn("oidc exchange failed", zap.Error(err))
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}

	var claims struct {
		Subject string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		http.Error(w, "invalid claims", http.StatusUnauthorized)
		return
	}
	if claims.Name == "" {
		claims.Name = claims.Email
	}

	user, err := h.users.Upsert(r.Context(), idToken.Issuer, claims.Subject, claims.Email, claims.Name)
	if err != nil {
		h.logger.Error("upsert user", zap.Error(err))
		http.Error(w, "user record error", http.StatusInternalServerError)
		return
	}
	if err := h.startSession(r, user); err != nil {
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}

	redirect := "/dashboard"
	if c, err := r.Cookie(cookieRedirect); err == nil {
		redirect = safeRedirect(c.Value)
	}
	clearCookie(w, cookieState)
	clearCookie(w, cookieCodeVerifier)
	clearCookie(w, cookieRedirect)

	http.Redirect(w, r, redirect, http.StatusFound)
}

// Logout destroys the session and returns to the home page.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		http.Error(w, "logout error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) startSession(r *http.Request, user *store.User) error {
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		h.logger.Error("renew session token", zap.Error(err))
		return err
	}
	h.sessions.Put(r.Context(), SessionUserIDKey, user.ID)
	h.logger.Info("signed in", zap.String("user_id", user.ID))
	return nil
}

// safeRedirect keeps post-login redirects on this site.
func safeRedirect(s string) string {
	if s == "" || !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || strings.HasPrefix(s, "/\\") {
		return "/dashboard"
	}
	return s
}

func (h *Handlers) setPreAuthCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:    name,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
}
