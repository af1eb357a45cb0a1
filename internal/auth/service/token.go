package service

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/gatehouse/internal/auth/metrics"
	"github.com/aussiebroadwan/gatehouse/pkg/jwtx"
)

// TokenIssuer signs and checks access tokens. It does no I/O.
type TokenIssuer struct {
	Signer    jwtx.Signer
	Verifier  jwtx.Verifier
	Issuer    string
	AccessTTL time.Duration
	Metrics   *metrics.Metrics

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *TokenIssuer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue signs an access token for subject with a fresh jti.
func (s *TokenIssuer) Issue(subject string, ext map[string]bool) (string, error) {
	return s.IssueFor(subject, s.AccessTTL, ext)
}

// IssueFor signs a token with a custom lifetime; used for the purpose
// restricted confirmation and reset tokens.
func (s *TokenIssuer) IssueFor(subject string, ttl time.Duration, ext map[string]bool) (string, error) {
	claims := jwtx.NewClaims(subject, s.Issuer, ttl, s.now(), ext)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	s.Metrics.TokenIssued(tokenKind(ext))
	return token, nil
}

// Validate reports whether token carries a good signature, the configured
// issuer and an unexpired exp. It never panics.
func (s *TokenIssuer) Validate(token string) bool {
	_, err := s.Verifier.Verify(token)
	return err == nil
}

// Parse verifies token and returns its claims, mapping any failure to
// ErrTokenMalformed.
func (s *TokenIssuer) Parse(token string) (jwtx.Claims, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return jwtx.Claims{}, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	return claims, nil
}

// ExtractSubject reads sub from a well-formed token without verifying it.
func (s *TokenIssuer) ExtractSubject(token string) (string, error) {
	claims, err := inspect(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExtractJTI reads jti from a well-formed token without verifying it.
func (s *TokenIssuer) ExtractJTI(token string) (string, error) {
	claims, err := inspect(token)
	if err != nil {
		return "", err
	}
	return claims.ID, nil
}

// ExtractRemainingValidity returns exp - now, clamped at zero.
func (s *TokenIssuer) ExtractRemainingValidity(token string) (time.Duration, error) {
	claims, err := inspect(token)
	if err != nil {
		return 0, err
	}
	return claims.Remaining(s.now()), nil
}

func inspect(token string) (jwtx.Claims, error) {
	claims, err := jwtx.Inspect(token)
	if err != nil {
		return jwtx.Claims{}, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	return claims, nil
}

func tokenKind(ext map[string]bool) string {
	switch {
	case ext[jwtx.ExtVerification]:
		return jwtx.ExtVerification
	case ext[jwtx.ExtPasswordReset]:
		return jwtx.ExtPasswordReset
	default:
		return "access"
	}
}
