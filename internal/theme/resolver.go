package theme

import (
	"context"

	"go.uber.org/zap"

	"github.com/joestump/lms-portal/internal/metrics"
)

// Resolver owns the theme state for one rendering context. It is not safe for
// concurrent use; each request or page builds its own.
type Resolver struct {
	store  Store
	doc    Document
	scheme Scheme
	logger *zap.Logger

	current Theme
	source  Source
	mounted bool
}

// NewResolver wires a Resolver. store and doc may be nil.
func NewResolver(store Store, doc Document, scheme Scheme, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		store:   store,
		doc:     doc,
		scheme:  scheme,
		logger:  logger,
		current: Default,
		source:  SourceDefault,
	}
}

// Mount resolves the initial theme from the store and the OS scheme and
// applies it to the document. A theme decided by the OS scheme is persisted;
// a Default result is not, so a client that can read the OS preference still
// gets to decide. Only the first call resolves; later calls return Current.
func (r *Resolver) Mount(ctx context.Context) Theme {
	return r.mount(ctx, true)
}

func (r *Resolver) mount(ctx context.Context, persist bool) Theme {
	if r.mounted {
		return r.current
	}
	stored := r.load(ctx)
	t, src := ResolveWithSource(stored, r.scheme)
	r.current, r.source, r.mounted = t, src, true
	metrics.ThemeResolutionsTotal.WithLabelValues(string(src)).Inc()

	if r.doc != nil {
		r.doc.SetTheme(t)
	}
	if persist && src == SourceScheme {
		r.save(ctx, t)
	}
	return t
}

// Current returns the resolved theme, or Default before Mount.
func (r *Resolver) Current() Theme {
	if !r.mounted {
		return Default
	}
	return r.current
}

// Source reports what decided the current theme.
func (r *Resolver) Source() Source {
	return r.source
}

// Mounted reports whether Mount has run.
func (r *Resolver) Mounted() bool {
	return r.mounted
}

// Apply makes t the active theme on the document and persists it. A failed
// save is logged; the document still changes.
func (r *Resolver) Apply(ctx context.Context, t Theme) {
	if _, ok := Parse(string(t)); !ok {
		r.logger.Warn("ignoring invalid theme", zap.String("theme", string(t)))
		return
	}
	r.current, r.source, r.mounted = t, SourceStored, true
	if r.doc != nil {
		r.doc.SetTheme(t)
	}
	r.save(ctx, t)
}

// Toggle flips the current theme and applies it. An unmounted Resolver is
// resolved first without writing, so the store sees a single save.
func (r *Resolver) Toggle(ctx context.Context) Theme {
	next := r.mount(ctx, false).Opposite()
	r.Apply(ctx, next)
	return next
}

func (r *Resolver) load(ctx context.Context) string {
	if r.store == nil {
		return ""
	}
	v, err := r.store.Load(ctx)
	if err != nil {
		r.logger.Warn("theme preference unreadable", zap.Error(err))
		if _, ok := Parse(v); !ok {
			return ""
		}
	}
	return v
}

func (r *Resolver) save(ctx context.Context, t Theme) {
	if r.store == nil {
		return
	}
	if err := r.store.Save(ctx, t); err != nil {
		metrics.ThemeSaveErrorsTotal.Inc()
		r.logger.Warn("theme preference not persisted", zap.String("theme", string(t)), zap.Error(err))
	}
}
