package theme

import (
	"net/http"

	"go.uber.org/zap"
)

// Factory builds request-scoped Resolvers. The cookie is always the last
// store consulted.
type Factory struct {
	Secure bool
	Logger *zap.Logger
	// Preferences returns stores consulted before the cookie, such as the
	// signed-in user's saved theme. May be nil.
	Preferences func(r *http.Request) []Store
}

// ForRequest returns a mounted Resolver applying to doc (which may be nil).
// When a stored preference decided the theme and the cookie disagrees, the
// cookie is rewritten so the pre-paint script sees the same value on the next
// load. Nothing is written when no input was known.
func (f *Factory) ForRequest(w http.ResponseWriter, r *http.Request, doc Document) *Resolver {
	res, cookie := f.build(w, r, doc)
	t := res.Mount(r.Context())
	if res.Source() != SourceStored {
		return res
	}
	if have, _ := cookie.Load(r.Context()); have != string(t) {
		if err := cookie.Save(r.Context(), t); err != nil {
			res.logger.Warn("theme cookie not synced", zap.Error(err))
		}
	}
	return res
}

// Resolver returns an unmounted Resolver for handlers that are about to call
// Apply or Toggle, so the preference is written once.
func (f *Factory) Resolver(w http.ResponseWriter, r *http.Request, doc Document) *Resolver {
	res, _ := f.build(w, r, doc)
	return res
}

func (f *Factory) build(w http.ResponseWriter, r *http.Request, doc Document) (*Resolver, *CookieStore) {
	cookie := NewCookieStore(w, r, f.Secure)
	var stores []Store
	if f.Preferences != nil {
		stores = f.Preferences(r)
	}
	stores = append(stores, cookie)
	res := NewResolver(Chain(stores...), doc, ParseScheme(r.Header.Get(ClientHintHeader)), f.Logger)
	return res, cookie
}

// ClientHints asks browsers to send Sec-CH-Prefers-Color-Scheme so first
// visits can render in the OS theme without waiting for the inline script.
func ClientHints(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Accept-CH", ClientHintHeader)
		h.Set("Critical-CH", ClientHintHeader)
		h.Add("Vary", ClientHintHeader)
		h.Add("Vary", "Cookie")
		next.ServeHTTP(w, r)
	})
}
