// Package federation runs the third-party login handshake: provider
// configuration, the signed handshake cookies and profile mapping.
package federation

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"golang.org/x/oauth2"
	githubOAuth2 "golang.org/x/oauth2/github"
	googleOAuth2 "golang.org/x/oauth2/google"
)

const (
	Google  = "google"
	GitHub  = "github"
	Discord = "discord"
)

// Provider endpoints. Variables so tests can point them at httptest servers.
var (
	GoogleUserInfoEndpoint   = "https://openidconnect.googleapis.com/v1/userinfo"
	GithubUserInfoEndpoint   = "https://api.github.com/user"
	GithubUserEmailsEndpoint = "https://api.github.com/user/emails"
	DiscordUserInfoEndpoint  = "https://discord.com/api/users/@me"

	DiscordEndpoint = oauth2.Endpoint{
		AuthURL:   "https://discord.com/oauth2/authorize",
		TokenURL:  "https://discord.com/api/oauth2/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
)

// Provider is one configured identity provider.
type Provider struct {
	Name   string
	OAuth2 *oauth2.Config

	UserInfoURL string
	EmailsURL   string // github only
}

// ProviderConfig is the operator supplied part of a provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// NewProvider builds a provider by name. Unknown names fail with
// ErrUnsupportedProvider.
func NewProvider(name string, cfg ProviderConfig) (*Provider, error) {
	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.CallbackURL,
	}

	p := &Provider{Name: name, OAuth2: conf}
	switch name {
	case Google:
		conf.Endpoint = googleOAuth2.Endpoint
		conf.Scopes = []string{"openid", "email", "profile"}
		p.UserInfoURL = GoogleUserInfoEndpoint
	case GitHub:
		conf.Endpoint = githubOAuth2.Endpoint
		conf.Scopes = []string{"read:user", "user:email"}
		p.UserInfoURL = GithubUserInfoEndpoint
		p.EmailsURL = GithubUserEmailsEndpoint
	case Discord:
		conf.Endpoint = DiscordEndpoint
		conf.Scopes = []string{"identify", "email"}
		p.UserInfoURL = DiscordUserInfoEndpoint
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, name)
	}
	return p, nil
}

// AuthCodeURL is the provider consent URL for state, with an S256 PKCE
// challenge derived from verifier.
func (p *Provider) AuthCodeURL(state, verifier string) string {
	return p.OAuth2.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier))
}

// Exchange trades the callback code for a provider token.
func (p *Provider) Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	tok, err := p.OAuth2.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	return tok, nil
}

// Client returns an HTTP client authorised with tok.
func (p *Provider) Client(ctx context.Context, tok *oauth2.Token) *http.Client {
	return p.OAuth2.Client(ctx, tok)
}

// Registry holds the enabled providers by name.
type Registry struct {
	providers map[string]*Provider
}

func NewRegistry(providers ...*Provider) *Registry {
	r := &Registry{providers: make(map[string]*Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name] = p
	}
	return r
}

// Get returns the named provider, or ErrUnsupportedProvider when it is not
// enabled.
func (r *Registry) Get(name string) (*Provider, error) {
	if r != nil {
		if p, ok := r.providers[strings.ToLower(name)]; ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, name)
}

// Names lists the enabled providers, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
