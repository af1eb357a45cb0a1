package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/gatehouse/internal/auth/domain"
	"github.com/aussiebroadwan/gatehouse/internal/auth/federation"
	"github.com/aussiebroadwan/gatehouse/internal/auth/metrics"
	"github.com/aussiebroadwan/gatehouse/internal/auth/store"
	"github.com/aussiebroadwan/gatehouse/pkg/cryptox"
	"github.com/aussiebroadwan/gatehouse/pkg/idx"
	"github.com/aussiebroadwan/gatehouse/pkg/slogx"
	"golang.org/x/oauth2"
)

// FederationService signs users in through a third-party identity provider.
type FederationService struct {
	Store     store.Store
	Tokens    *TokenIssuer
	Providers *federation.Registry
	Metrics   *metrics.Metrics
}

// Begin starts a handshake with provider. The returned state must be stored
// by the caller (in the handshake cookie) for Complete.
func (s *FederationService) Begin(ctx context.Context, provider string) (string, federation.HandshakeState, error) {
	p, err := s.Providers.Get(provider)
	if err != nil {
		return "", federation.HandshakeState{}, err
	}

	state, err := cryptox.GenerateToken(32)
	if err != nil {
		return "", federation.HandshakeState{}, fmt.Errorf("generate state: %w", err)
	}
	st := federation.HandshakeState{
		Provider:     p.Name,
		State:        state,
		CodeVerifier: oauth2.GenerateVerifier(),
		CallbackURL:  p.OAuth2.RedirectURL,
	}

	slogx.FromContext(ctx).Debug("federated login started", "provider", p.Name)
	return p.AuthCodeURL(st.State, st.CodeVerifier), st, nil
}

// Complete finishes the handshake and returns an access token for the
// local account linked to the provider identity.
func (s *FederationService) Complete(ctx context.Context, provider string, st federation.HandshakeState, code, state string) (string, error) {
	token, err := s.complete(ctx, provider, st, code, state)
	label := provider
	if errors.Is(err, ErrUnsupportedProvider) {
		label = "unsupported"
	}
	if err != nil {
		s.Metrics.FederatedLogin(label, metrics.LoginFailure)
		return "", err
	}
	s.Metrics.FederatedLogin(label, metrics.LoginSuccess)
	return token, nil
}

func (s *FederationService) complete(ctx context.Context, provider string, st federation.HandshakeState, code, state string) (string, error) {
	p, err := s.Providers.Get(provider)
	if err != nil {
		return "", err
	}
	if st.Provider != p.Name || st.State == "" || st.State != state {
		return "", ErrHandshakeStateMismatch
	}
	if code == "" {
		return "", ErrInvalidRequest
	}

	tok, err := p.Exchange(ctx, code, st.CodeVerifier)
	if err != nil {
		return "", err
	}
	profile, err := p.FetchProfile(ctx, tok)
	if err != nil {
		return "", err
	}

	u, err := s.resolveUser(ctx, profile)
	if err != nil {
		return "", err
	}
	return s.Tokens.Issue(u.Email, nil)
}

// resolveUser finds the local account for profile, creating a verified one
// on first sign-in.
func (s *FederationService) resolveUser(ctx context.Context, profile federation.Profile) (domain.User, error) {
	users := s.Store.Users()

	u, err := users.GetUserByEmail(ctx, profile.Email)
	if err == nil {
		if u.AuthProvider != profile.Provider {
			return domain.User{}, ErrProviderMismatch
		}
		if u.Banned {
			return domain.User{}, ErrBannedUser
		}
		return u, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}

	u = domain.User{
		ID:           idx.New().String(),
		Email:        profile.Email,
		Username:     strings.TrimSpace(profile.Username),
		AvatarURL:    profile.AvatarURL,
		AuthProvider: profile.Provider,
		Verified:     true,
	}
	if err := users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUserAlreadyExists
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	slogx.FromContext(ctx).Info("federated account created", "user_id", u.ID, "provider", u.AuthProvider)
	return u, nil
}
