// Package theme decides which style variant a page uses. A page is rendered with the
// fixed default styles until the visitor's theme is actually known.
package theme

import "strings"

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

const (
	// ClientHintHeader carries the visitor's color scheme preference when the browser
	// supports user-preference client hints.
	ClientHintHeader = "Sec-CH-Prefers-Color-Scheme"

	preferenceSystem = "system"
)

// Phase is either Unresolved or Resolved(theme).
type Phase struct {
	resolved bool
	theme    Theme
}

func Unresolved() Phase {
	return Phase{}
}

func Resolved(t Theme) Phase {
	return Phase{resolved: true, theme: t}
}

// Theme returns the resolved theme, or false while unresolved.
func (p Phase) Theme() (Theme, bool) {
	return p.theme, p.resolved
}

func (p Phase) IsResolved() bool {
	return p.resolved
}

func (p Phase) String() string {
	if !p.resolved {
		return "unresolved"
	}
	return string(p.theme)
}

// Resolve combines the stored preference (light, dark or system) with the client hint.
// An explicit preference wins; "system" or no preference falls back to the hint; with
// neither the phase stays unresolved.
func Resolve(preference, hint string) Phase {
	if t, ok := parse(preference); ok {
		return Resolved(t)
	}

	pref := strings.ToLower(strings.TrimSpace(preference))
	if pref != "" && pref != preferenceSystem {
		return Unresolved()
	}

	if t, ok := parse(strings.Trim(hint, `" `)); ok {
		return Resolved(t)
	}
	return Unresolved()
}

func parse(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	default:
		return "", false
	}
}
