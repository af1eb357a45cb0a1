package jwtx

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token lifetimes. Services normally override these from config.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Extension claims that restrict a token to a single flow. A token carrying
// any of these must never be accepted as a bearer credential.
const (
	ExtVerification  = "verification"
	ExtPasswordReset = "password_reset"
)

// registered lists claim names owned by jwt.RegisteredClaims. Extensions
// with these names are dropped on encode and ignored on decode.
var registered = map[string]struct{}{
	"iss": {}, "sub": {}, "aud": {}, "exp": {}, "nbf": {}, "iat": {}, "jti": {},
}

// Claims are the access-token claims shared across the mesh. On top of the
// registered set a token may carry boolean extension claims, which are
// written as top-level JSON members ({"sub": "...", "verification": true}).
type Claims struct {
	jwt.RegisteredClaims

	Extensions map[string]bool `json:"-"`
}

// NewClaims builds claims for subject with a fresh jti and exp = now + ttl.
func NewClaims(subject, issuer string, ttl time.Duration, now time.Time, ext map[string]bool) Claims {
	now = now.UTC()
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
	}
	for k, v := range ext {
		if _, ok := registered[k]; ok {
			continue
		}
		if c.Extensions == nil {
			c.Extensions = make(map[string]bool, len(ext))
		}
		c.Extensions[k] = v
	}
	return c
}

// NewJTI returns a random UUID for the "jti" claim.
func NewJTI() string {
	return uuid.NewString()
}

// Extension reports the value of a boolean extension claim (false if unset).
func (c Claims) Extension(name string) bool {
	return c.Extensions[name]
}

// Restricted reports whether the token is limited to a single flow
// (email confirmation, password reset).
func (c Claims) Restricted() bool {
	return c.Extension(ExtVerification) || c.Extension(ExtPasswordReset)
}

// Remaining is the validity left at now, never negative.
func (c Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	d := c.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// MarshalJSON flattens the extension claims next to the registered ones.
func (c Claims) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(c.RegisteredClaims)
	if err != nil {
		return nil, err
	}
	if len(c.Extensions) == 0 {
		return base, nil
	}

	out := make(map[string]json.RawMessage, len(c.Extensions)+7)
	if err := json.Unmarshal(base, &out); err != nil {
		return nil, err
	}
	for k, v := range c.Extensions {
		if _, ok := registered[k]; ok {
			continue
		}
		if v {
			out[k] = json.RawMessage("true")
		} else {
			out[k] = json.RawMessage("false")
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the registered claims and collects every other boolean
// member as an extension. Non-boolean unknown members are ignored.
func (c *Claims) UnmarshalJSON(data []byte) error {
	var rc jwt.RegisteredClaims
	if err := json.Unmarshal(data, &rc); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.RegisteredClaims = rc
	c.Extensions = nil
	for k, v := range raw {
		if _, ok := registered[k]; ok {
			continue
		}
		var b bool
		if err := json.Unmarshal(v, &b); err != nil {
			continue
		}
		if c.Extensions == nil {
			c.Extensions = make(map[string]bool)
		}
		c.Extensions[k] = b
	}
	return nil
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryWithLeeway(0)
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	if now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
