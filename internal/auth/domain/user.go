package domain

import "time"

// Auth providers. Local accounts have a password hash; federated accounts
// sign in through the named identity provider only.
const (
	ProviderLocal   = "local"
	ProviderGoogle  = "google"
	ProviderGitHub  = "github"
	ProviderDiscord = "discord"
)

type User struct {
	ID               string // ULID
	Email            string // lowercase, unique; the token subject
	Username         string
	PasswordHash     string // argon2 encoded, empty for federated accounts
	AvatarURL        string
	AuthProvider     string
	Verified         bool
	Banned           bool
	TwoFactorEnabled bool
	TwoFactorSecret  *string // base32 TOTP secret (nullable)
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasTwoFactorSecret reports whether a TOTP secret has been provisioned.
func (u User) HasTwoFactorSecret() bool {
	return u.TwoFactorSecret != nil && *u.TwoFactorSecret != ""
}
