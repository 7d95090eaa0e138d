package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/joestump/lms-portal/internal/metrics"
	"github.com/joestump/lms-portal/internal/store"
	"github.com/joestump/lms-portal/internal/theme"
	"github.com/joestump/lms-portal/web"
)

// BasePage carries layout-level data available to every template.
type BasePage struct {
	Title string
	// Root is the <html> class list; exactly one theme class is set.
	Root       *theme.Root
	Theme      theme.Theme
	InitScript template.JS
	User       *store.User
	Path       string
	Year       int
}

var funcs = template.FuncMap{
	"initials": func(u *store.User) string { return u.Initials() },
	"clamp": func(p int) int {
		switch {
		case p < 0:
			return 0
		case p > 100:
			return 100
		}
		return p
	},
	"eventTime": func(t time.Time) string { return t.Format("Jan 2, 3:04 PM") },
}

// pageCache maps a page file name (e.g. "home.html") to a template set of
// base.html + partials + that page, so {{define "content"}} blocks don't collide.
var pageCache map[string]*template.Template

func init() {
	var err error
	pageCache, err = parsePages(web.TemplateFS)
	if err != nil {
		panic("build page cache: " + err.Error())
	}
}

func parsePages(fsys fs.FS) (map[string]*template.Template, error) {
	partials, err := fs.Glob(fsys, "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob partials: %w", err)
	}
	pages, err := fs.Glob(fsys, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob pages: %w", err)
	}

	cache := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		files := append([]string{"templates/base.html"}, partials...)
		files = append(files, p)
		t, err := template.New("").Funcs(funcs).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		cache[path.Base(p)] = t
	}
	return cache, nil
}

// render executes a full page (base layout + named page). The page is
// buffered so a template error still produces a clean 500.
func render(w http.ResponseWriter, status int, page string, data any) {
	name := strings.TrimSuffix(page, ".html")
	t, ok := pageCache[page]
	if !ok {
		metrics.PageRendersTotal.WithLabelValues(name, "error").Inc()
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		metrics.PageRendersTotal.WithLabelValues(name, "error").Inc()
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	metrics.PageRendersTotal.WithLabelValues(name, "ok").Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// isHTMX returns true when the request was sent by HTMX.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON reports whether the client asked for a JSON reply.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
