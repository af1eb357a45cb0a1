package authsdk

import (
	"github.com/aussiebroadwan/gatehouse/pkg/jwtx"
)

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	// Error is the stable error code (e.g., "invalid_credentials", "token_revoked")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Token Types
// ============================================================================

// TokenResponse is returned by every endpoint that signs a user in.
// PUT /auth/access omits the refresh token.
type TokenResponse struct {
	// AccessToken is the RS512 JWT used as the bearer credential
	AccessToken string `json:"access_token" example:"eyJhbGciOiJSUzUxMiIs..."`

	// RefreshToken is the opaque token for PUT /auth/access and PUT /auth/refresh
	RefreshToken string `json:"refresh_token,omitempty" example:"9f86d081884c7d659a2feaa0c55ad015..."`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type" example:"Bearer"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int64 `json:"expires_in" example:"900"`
}

// LoginResponse is either a token pair or a pending two-factor challenge.
type LoginResponse struct {
	TokenResponse

	// TwoFactorRequired is set when the code must be sent to POST /2fa/login
	TwoFactorRequired bool   `json:"two_factor_required,omitempty"`
	Message           string `json:"message,omitempty"`
}

// ============================================================================
// Account Types
// ============================================================================

type RegisterRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"correct horse battery"`
}

type LoginRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"correct horse battery"`
}

// ChangeEmailRequest starts an email change; a code is sent to NewEmail.
type ChangeEmailRequest struct {
	NewEmail string `json:"new_email" example:"alice@new.example.com"`
}

// ConfirmChangeEmailRequest redeems the code sent to NewEmail.
type ConfirmChangeEmailRequest struct {
	NewEmail string `json:"new_email" example:"alice@new.example.com"`
	Code     string `json:"code" example:"4821"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" example:"alice@example.com"`
}

// ResetPasswordRequest redeems the token delivered by the password-reset event.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ============================================================================
// Two-Factor Types
// ============================================================================

// TwoFactorSetupResponse carries the provisioning URI and a rendered QR code.
type TwoFactorSetupResponse struct {
	OTPAuthURL string `json:"otpauth_url" example:"otpauth://totp/gatehouse:alice@example.com?secret=JBSWY3DPEHPK3PXP&issuer=gatehouse"`
	QRCodeURL  string `json:"qr_code_url"`
}

type TwoFactorCodeRequest struct {
	Code string `json:"code" example:"123456"`
}

type TwoFactorLoginRequest struct {
	Email string `json:"email" example:"alice@example.com"`
	Code  string `json:"code" example:"123456"`
}

// ============================================================================
// Internal Types
// ============================================================================

// UserCredentials is the sensitive projection returned by the internal
// lookup route. Only services holding the shared secret can read it.
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

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Signer   string `json:"signer"`
}

// ============================================================================
// JWKS Types
// ============================================================================

// JWKSResponse contains the JSON Web Key Set.
// This is returned from the GET /.well-known/jwks.json endpoint and contains
// public keys used to verify JWT signatures.
type JWKSResponse jwtx.JWKS
