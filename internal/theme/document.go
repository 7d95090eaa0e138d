package theme

import "strings"

// Document is the presentation root a theme is applied to.
type Document interface {
	SetTheme(Theme)
}

// Root models the class list of the <html> element. Exactly one of the theme
// classes is present once SetTheme has been called.
type Root struct {
	classes []string
}

// NewRoot returns a Root carrying the given non-theme classes.
func NewRoot(classes ...string) *Root {
	r := &Root{}
	for _, c := range classes {
		if _, ok := Parse(c); ok || c == "" {
			continue
		}
		r.classes = append(r.classes, c)
	}
	return r
}

// SetTheme removes both theme classes and adds t.
func (r *Root) SetTheme(t Theme) {
	if _, ok := Parse(string(t)); !ok {
		t = Default
	}
	kept := r.classes[:0]
	for _, c := range r.classes {
		if c == string(Light) || c == string(Dark) {
			continue
		}
		kept = append(kept, c)
	}
	r.classes = append(kept, string(t))
}

// Theme returns the active marker, or Default if none was set.
func (r *Root) Theme() Theme {
	for _, c := range r.classes {
		if t, ok := Parse(c); ok {
			return t
		}
	}
	return Default
}

// Has reports whether class c is present.
func (r *Root) Has(c string) bool {
	for _, have := range r.classes {
		if have == c {
			return true
		}
	}
	return false
}

// Class renders the class attribute value.
func (r *Root) Class() string {
	return strings.Join(r.classes, " ")
}
