package auth

import (
	"context"
	"errors"
	"sort"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var ErrProviderNotFound = errors.New("auth: oauth provider not found")

// Provider builds the authorization URL for one identity provider.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
}

type GoogleProvider struct {
	config *oauth2.Config
}

func NewGoogle(clientId, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientId,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"openid",
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Providers dispatches OAuth initiation by provider name. It is a login.Initiator.
type Providers struct {
	mu     sync.RWMutex
	byName map[string]Provider
}

func NewProviders(providers ...Provider) *Providers {
	p := &Providers{byName: make(map[string]Provider)}
	for _, provider := range providers {
		p.Register(provider)
	}
	return p
}

func (p *Providers) Register(provider Provider) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byName[provider.Name()] = provider
}

// Names returns the registered provider names, sorted.
func (p *Providers) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.byName))
	for name := range p.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Initiate returns the provider's authorization URL. The state comes from the context
// when the caller set one, otherwise a fresh one is generated.
func (p *Providers) Initiate(ctx context.Context, name string) (string, error) {
	p.mu.RLock()
	provider, ok := p.byName[name]
	p.mu.RUnlock()
	if !ok {
		return "", ErrProviderNotFound
	}

	state := OAuthState(ctx)
	if state == "" {
		state = NewOAuthState()
	}

	return provider.AuthCodeURL(state), nil
}
