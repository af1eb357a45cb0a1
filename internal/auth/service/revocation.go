package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/gatehouse/internal/auth/cache"
	"github.com/aussiebroadwan/gatehouse/internal/auth/metrics"
)

// Revocations marks access tokens as no longer honourable. A marker lives
// exactly as long as the token it revokes would have, so the registry never
// needs sweeping.
type Revocations struct {
	Cache   cache.Cache
	Metrics *metrics.Metrics

	// Now defaults to time.Now.
	Now func() time.Time
}

// Revoke writes revoked:<jti> with the token's remaining validity as TTL.
// Tokens that have already expired are skipped.
func (s *Revocations) Revoke(ctx context.Context, token string) error {
	claims, err := inspect(token)
	if err != nil {
		return err
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	remaining := claims.Remaining(now)
	if remaining <= 0 {
		return nil
	}
	if err := s.Cache.Set(ctx, cache.PrefixRevoked+claims.ID, "", remaining); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.Metrics.Revoked()
	return nil
}

// IsRevoked reports whether token's jti carries a revocation marker.
func (s *Revocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	claims, err := inspect(token)
	if err != nil {
		return false, err
	}
	return s.IsRevokedID(ctx, claims.ID)
}

// IsRevokedID is IsRevoked for callers that already hold parsed claims.
func (s *Revocations) IsRevokedID(ctx context.Context, jti string) (bool, error) {
	ok, err := s.Cache.Exists(ctx, cache.PrefixRevoked+jti)
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return ok, nil
}
