package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/joestump/lms-portal/internal/auth"
	"github.com/joestump/lms-portal/internal/store"
	"github.com/joestump/lms-portal/internal/theme"
)

// Pages serves the server-rendered pages.
type Pages struct {
	themes       *theme.Factory
	courses      *store.CourseStore
	events       *store.EventStore
	testimonials *store.TestimonialStore
	logger       *zap.Logger
	now          func() time.Time
}

func NewPages(tf *theme.Factory, cs *store.CourseStore, es *store.EventStore, ts *store.TestimonialStore, logger *zap.Logger) *Pages {
	return &Pages{themes: tf, courses: cs, events: es, testimonials: ts, logger: logger, now: time.Now}
}

// base resolves the theme for this request and fills the layout fields.
func (p *Pages) base(w http.ResponseWriter, r *http.Request, title string) BasePage {
	root := theme.NewRoot("h-full", "antialiased")
	res := p.themes.ForRequest(w, r, root)
	return BasePage{
		Title:      title,
		Root:       root,
		Theme:      res.Current(),
		InitScript: theme.InitScript(),
		User:       auth.UserFromContext(r.Context()),
		Path:       r.URL.Path,
		Year:       p.now().Year(),
	}
}

type HomePage struct {
	BasePage
	Courses      []*store.Course
	Testimonials []*store.Testimonial
}

// Home serves GET /.
func (p *Pages) Home(w http.ResponseWriter, r *http.Request) {
	courses, err := p.courses.ListFeatured(r.Context())
	if err != nil {
		p.logger.Error("load featured courses", zap.Error(err))
		http.Error(w, "could not load courses", http.StatusInternalServerError)
		return
	}
	// Testimonials are decorative; the page renders without them.
	testimonials, err := p.testimonials.ListAll(r.Context())
	if err != nil {
		p.logger.Warn("load testimonials", zap.Error(err))
	}
	render(w, http.StatusOK, "home.html", HomePage{
		BasePage:     p.base(w, r, "LMS Platform - Expand Your Knowledge"),
		Courses:      courses,
		Testimonials: testimonials,
	})
}

type DashboardPage struct {
	BasePage
	Enrollments []*store.Enrollment
	Events      []*store.Event
}

// Dashboard serves GET /dashboard. Requires auth.
func (p *Pages) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	enrollments, err := p.courses.ListEnrollments(r.Context(), user.ID)
	if err != nil {
		p.logger.Error("load enrollments", zap.String("user_id", user.ID), zap.Error(err))
		http.Error(w, "could not load courses", http.StatusInternalServerError)
		return
	}
	events, err := p.events.ListUpcoming(r.Context(), p.now(), 5)
	if err != nil {
		p.logger.Warn("load events", zap.Error(err))
	}
	render(w, http.StatusOK, "dashboard.html", DashboardPage{
		BasePage:    p.base(w, r, "Dashboard - LMS Platform"),
		Enrollments: enrollments,
		Events:      events,
	})
}

// NotFound renders the themed 404 page.
func (p *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusNotFound, "not_found.html", p.base(w, r, "Page not found - LMS Platform"))
}
