package login

import (
	"sentinelle/internal/login"
	"slices"
)

// GoogleProvider always has a button on the login page; it is disabled until a client is configured.
const GoogleProvider = "google"

// LoginPage is what the login page needs from the visitor's form instance.
type LoginPage struct {
	Form       login.Snapshot
	OAuthState login.OAuthState
	Providers  []string
}

func (p LoginPage) Submitting() bool {
	return p.Form.State == login.Submitting
}

func (p LoginPage) OAuthPending() bool {
	return p.OAuthState == login.Pending
}

type ProviderButton struct {
	Name    string
	Enabled bool
}

// ProviderButtons lists Google first, then every other registered provider.
func (p LoginPage) ProviderButtons() []ProviderButton {
	buttons := []ProviderButton{{Name: GoogleProvider, Enabled: slices.Contains(p.Providers, GoogleProvider)}}
	for _, name := range p.Providers {
		if name != GoogleProvider {
			buttons = append(buttons, ProviderButton{Name: name, Enabled: true})
		}
	}
	return buttons
}

type RegisterPage struct {
	Email  string
	Errors login.FieldErrors
}
