package service

import (
	"errors"

	"github.com/aussiebroadwan/gatehouse/internal/auth/federation"
)

// Client-facing failures. The HTTP layer maps each to a status and a stable
// error code; anything else is a server error.
var (
	ErrInvalidCredentials      = errors.New("invalid_credentials")
	ErrInvalidRequest          = errors.New("invalid_request")
	ErrTokenNotFound           = errors.New("token_not_found")
	ErrTokenMalformed          = errors.New("token_malformed")
	ErrTokenRevoked            = errors.New("token_revoked")
	ErrBannedUser              = errors.New("banned_user")
	ErrUnverifiedUser          = errors.New("unverified_user")
	ErrUserAlreadyExists       = errors.New("user_already_exists")
	ErrInvalidVerificationCode = errors.New("invalid_verification_code")
	ErrInvalidOtp              = errors.New("invalid_otp")
	ErrTwoFactorNotRequired    = errors.New("two_factor_not_required")
	ErrTwoFactorAlreadyEnabled = errors.New("two_factor_already_enabled")
	ErrProviderMismatch        = errors.New("provider_mismatch")

	ErrUnsupportedProvider         = federation.ErrUnsupportedProvider
	ErrCookieDeserializationFailed = federation.ErrCookieDeserializationFailed
	ErrHandshakeStateMismatch      = federation.ErrHandshakeStateMismatch
)
