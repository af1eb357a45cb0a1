package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/gatehouse/internal/auth/cache"
	"github.com/aussiebroadwan/gatehouse/internal/auth/metrics"
	"github.com/aussiebroadwan/gatehouse/pkg/cryptox"
	"github.com/google/uuid"
)

// RefreshTokens keeps opaque refresh tokens in the session cache as
// refresh:<token> -> subject. Records are never mutated in place.
type RefreshTokens struct {
	Cache   cache.Cache
	TTL     time.Duration
	Metrics *metrics.Metrics
}

// Generate mints a refresh token for subject.
func (s *RefreshTokens) Generate(ctx context.Context, subject string) (string, error) {
	token := cryptox.HexDigest(uuid.NewString())
	if err := s.Cache.Set(ctx, cache.PrefixRefresh+token, subject, s.TTL); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	s.Metrics.TokenIssued("refresh")
	return token, nil
}

// Resolve returns the subject a refresh token was issued to.
func (s *RefreshTokens) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrTokenNotFound
	}
	subject, err := s.Cache.Get(ctx, cache.PrefixRefresh+token)
	if errors.Is(err, cache.ErrNotFound) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolve refresh token: %w", err)
	}
	return subject, nil
}
