package domain

// TokenPair is what every successful sign-in returns: the short-lived access
// token (JWT) and the opaque refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"` // always "Bearer"
	ExpiresIn    int64  `json:"expires_in"` // seconds until the access token expires
}

// LoginResult is either a token pair or, for 2FA accounts, a pending
// challenge that must be completed at /2fa/login.
type LoginResult struct {
	Tokens            *TokenPair
	TwoFactorRequired bool
}

// TwoFactorSetup is returned when a TOTP secret is provisioned.
type TwoFactorSetup struct {
	OTPAuthURL string `json:"otpauth_url"`
	QRCodeURL  string `json:"qr_code_url"`
}

// UserCredentials is the sensitive projection served to sibling services on
// the internal lookup route.
type UserCredentials struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Username         string `json:"username"`
	PasswordHash     string `json:"password_hash"`
	AuthProvider     string `json:"auth_provider"`
	Verified         bool   `json:"verified"`
	Banned           bool   `json:"banned"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
	TwoFactorSecret  string `json:"two_factor_secret,omitempty"`
}

// Credentials projects u for the internal lookup route.
func (u User) Credentials() UserCredentials {
	c := UserCredentials{
		ID:               u.ID,
		Email:            u.Email,
		Username:         u.Username,
		PasswordHash:     u.PasswordHash,
		AuthProvider:     u.AuthProvider,
		Verified:         u.Verified,
		Banned:           u.Banned,
		TwoFactorEnabled: u.TwoFactorEnabled,
	}
	if u.TwoFactorSecret != nil {
		c.TwoFactorSecret = *u.TwoFactorSecret
	}
	return c
}
