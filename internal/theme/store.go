package theme

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

// Store persists the theme preference. Both methods are best effort: the
// Resolver treats any error as "nothing stored" or "not persisted".
type Store interface {
	// Load returns the raw stored value, or "" when nothing is stored.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, t Theme) error
}

// StoreFuncs adapts a pair of functions to Store. A nil func is a no-op.
type StoreFuncs struct {
	LoadFunc func(ctx context.Context) (string, error)
	SaveFunc func(ctx context.Context, t Theme) error
}

func (s StoreFuncs) Load(ctx context.Context) (string, error) {
	if s.LoadFunc == nil {
		return "", nil
	}
	return s.LoadFunc(ctx)
}

func (s StoreFuncs) Save(ctx context.Context, t Theme) error {
	if s.SaveFunc == nil {
		return nil
	}
	return s.SaveFunc(ctx, t)
}

// chain loads from the first store that has a valid value and saves to all.
type chain []Store

// Chain combines stores in priority order.
func Chain(stores ...Store) Store {
	return chain(stores)
}

func (c chain) Load(ctx context.Context) (string, error) {
	var errs []error
	for _, s := range c {
		v, err := s.Load(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, ok := Parse(v); ok {
			return v, nil
		}
	}
	return "", errors.Join(errs...)
}

func (c chain) Save(ctx context.Context, t Theme) error {
	var errs []error
	for _, s := range c {
		if err := s.Save(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CookieMaxAge keeps the preference for a year.
const CookieMaxAge = 365 * 24 * 60 * 60

// CookieStore keeps the preference in the "theme" cookie of a single request.
// The cookie is not HttpOnly so the pre-paint script can read it.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
}

// NewCookieStore binds a CookieStore to one request/response pair.
func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{w: w, r: r, secure: secure}
}

func (s *CookieStore) Load(context.Context) (string, error) {
	c, err := s.r.Cookie(StorageKey)
	if errors.Is(err, http.ErrNoCookie) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

func (s *CookieStore) Save(_ context.Context, t Theme) error {
	if s.w == nil {
		return errors.New("theme cookie: no response writer")
	}
	// Only the last write in a response counts.
	h := s.w.Header()
	prev := h.Values("Set-Cookie")
	h.Del("Set-Cookie")
	for _, v := range prev {
		if !strings.HasPrefix(v, StorageKey+"=") {
			h.Add("Set-Cookie", v)
		}
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:     StorageKey,
		Value:    string(t),
		Path:     "/",
		MaxAge:   CookieMaxAge,
		Expires:  time.Now().Add(CookieMaxAge * time.Second),
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
		HttpOnly: false,
	})
	return nil
}
