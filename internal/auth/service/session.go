package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/gatehouse/internal/auth/domain"
	"github.com/aussiebroadwan/gatehouse/internal/auth/store"
	"github.com/aussiebroadwan/gatehouse/pkg/httpx"
)

// SessionService issues token pairs and backs the access, refresh and logout
// endpoints.
type SessionService struct {
	Store         store.Store
	Tokens        *TokenIssuer
	RefreshTokens *RefreshTokens
	Revocations   *Revocations
}

// IssuePair mints an access token and a refresh token for subject.
func (s *SessionService) IssuePair(ctx context.Context, subject string) (*domain.TokenPair, error) {
	access, err := s.Tokens.Issue(subject, nil)
	if err != nil {
		return nil, err
	}
	refresh, err := s.RefreshTokens.Generate(ctx, subject)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.Tokens.AccessTTL.Seconds()),
	}, nil
}

// Access exchanges a refresh token for a new access token. The refresh token
// itself is left untouched.
func (s *SessionService) Access(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	subject, err := s.activeSubject(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	access, err := s.Tokens.Issue(subject, nil)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.Tokens.AccessTTL.Seconds()),
	}, nil
}

// Refresh is Access plus a brand new refresh token. The presented refresh
// token stays valid until its own TTL runs out.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	subject, err := s.activeSubject(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return s.IssuePair(ctx, subject)
}

// Logout revokes the caller's current access token.
func (s *SessionService) Logout(ctx context.Context, p httpx.Principal) error {
	return s.Revocations.Revoke(ctx, p.Token)
}

// activeSubject resolves a refresh token to a subject whose account still
// exists and is not banned.
func (s *SessionService) activeSubject(ctx context.Context, refreshToken string) (string, error) {
	subject, err := s.RefreshTokens.Resolve(ctx, strings.TrimSpace(refreshToken))
	if err != nil {
		return "", err
	}
	u, err := lookupUser(ctx, s.Store.Users(), subject)
	if err != nil {
		return "", err
	}
	if u.Banned {
		return "", ErrBannedUser
	}
	return u.Email, nil
}

// lookupUser fetches by email, reporting unknown subjects as bad credentials.
func lookupUser(ctx context.Context, users store.Users, email string) (domain.User, error) {
	u, err := users.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
