// Package theme resolves, applies and persists the light/dark display theme.
//
// Resolution is a pure function of the stored preference and the OS colour
// scheme signal. The same decision table is rendered into the pre-paint inline
// script returned by InitScript, so server and browser always agree.
package theme

import "strings"

// Theme is the active presentation mode.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// StorageKey names the persisted preference in the cookie jar and in
// localStorage.
const StorageKey = "theme"

// Default is returned whenever nothing better is known.
const Default = Light

// Parse accepts only the two literal theme values.
func Parse(s string) (Theme, bool) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), true
	}
	return "", false
}

// Opposite returns the other theme. Unknown values flip to Dark, as they
// would have rendered as Light.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

func (t Theme) String() string { return string(t) }

// IsDark is a template helper.
func (t Theme) IsDark() bool { return t == Dark }

// Scheme is the operating environment's colour-scheme preference.
type Scheme int

const (
	SchemeUnknown Scheme = iota
	SchemeLight
	SchemeDark
)

// ClientHintHeader carries the browser's prefers-color-scheme value.
const ClientHintHeader = "Sec-CH-Prefers-Color-Scheme"

// ParseScheme parses a Sec-CH-Prefers-Color-Scheme header value. Structured
// header strings arrive quoted.
func ParseScheme(v string) Scheme {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(v), `"`)) {
	case "dark":
		return SchemeDark
	case "light":
		return SchemeLight
	}
	return SchemeUnknown
}

// Source reports which input decided a resolution.
type Source string

const (
	SourceStored  Source = "stored"
	SourceScheme  Source = "client-hint"
	SourceDefault Source = "default"
)

// Resolve picks the initial theme: a valid stored preference wins, then a
// dark OS preference, then Light.
func Resolve(stored string, scheme Scheme) Theme {
	t, _ := ResolveWithSource(stored, scheme)
	return t
}

// ResolveWithSource is Resolve that also reports the deciding input.
func ResolveWithSource(stored string, scheme Scheme) (Theme, Source) {
	if t, ok := Parse(stored); ok {
		return t, SourceStored
	}
	if scheme == SchemeDark {
		return Dark, SourceScheme
	}
	if scheme == SchemeLight {
		return Light, SourceScheme
	}
	return Default, SourceDefault
}
