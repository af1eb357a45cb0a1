// Package cache is the shared session cache behind refresh tokens, revocation
// markers and pending two-factor challenges. Every operation is a single-key
// point read or write with a TTL, so callers never need client-side locking.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by Get when the key is absent or expired.
	ErrNotFound = errors.New("cache: key not found")

	// ErrUnavailable wraps transport failures. It is retryable and must never
	// be reported to clients as an authentication failure.
	ErrUnavailable = errors.New("cache: unavailable")
)

// Cache is a string key/value store with per-key expiry.
type Cache interface {
	// Set stores value under key for ttl. A ttl <= 0 is a no-op.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Key namespaces.
const (
	PrefixRefresh     = "refresh:"
	PrefixRevoked     = "revoked:"
	PrefixTwoFactor   = "2fa:"
	PrefixEmailChange = "email-change:"
)
